package router

import (
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

const upstreamDialTimeout = 3 * time.Second

/*
upstream. raw tcp proxy in front of the live tracking listener, which only binds localhost. the upgrade request is
replayed to the upstream and both sockets are then spliced until either side closes.
*/
func (api *API) upstream(name, network, addr string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		peer, err := net.DialTimeout(network, addr, upstreamDialTimeout)
		if err != nil {
			api.log.Error("dial upstream error", zap.String("upstream", name), zap.Error(err))
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		if err := r.Write(peer); err != nil {
			api.log.Error("replay upgrade request error", zap.String("upstream", name), zap.Error(err))
			peer.Close()
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		hj, ok := w.(http.Hijacker)
		if !ok {
			peer.Close()
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		conn, buffered, err := hj.Hijack()
		if err != nil {
			api.log.Error("hijack client connection error", zap.String("upstream", name), zap.Error(err))
			peer.Close()
			return
		}

		// frames the client sent right behind the upgrade request may already sit in the server's reader
		if n := buffered.Reader.Buffered(); n > 0 {
			pending, _ := buffered.Reader.Peek(n)
			if _, err := peer.Write(pending); err != nil {
				conn.Close()
				peer.Close()
				return
			}
		}

		go api.splice(name, conn, peer)
	}
}

func (api *API) splice(name string, client, peer net.Conn) {
	var (
		wg   sync.WaitGroup
		once sync.Once
	)
	closeBoth := func() {
		client.Close()
		peer.Close()
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = io.Copy(peer, client)
		once.Do(closeBoth)
	}()
	go func() {
		defer wg.Done()
		_, _ = io.Copy(client, peer)
		once.Do(closeBoth)
	}()
	wg.Wait()
	api.log.Debug("live tracking connection closed", zap.String("upstream", name),
		zap.String("client", client.RemoteAddr().String()))
}
