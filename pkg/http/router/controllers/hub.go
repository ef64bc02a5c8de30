package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/campusmate/campusnav/pkg/concurrent"
	"github.com/campusmate/campusnav/pkg/util"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// User. one websocket connection sending live position frames.
type User struct {
	io   sync.Mutex
	conn io.ReadWriteCloser

	id  uint
	hub *Hub
}

func (u *User) GetID() uint {
	return u.id
}

func (u *User) readRequest() (*liveRequest, error) {
	u.io.Lock()
	defer u.io.Unlock()

	h, r, err := wsutil.NextReader(u.conn, ws.StateServerSide)
	if err != nil {
		return nil, err
	}
	if h.OpCode.IsControl() {
		return nil, wsutil.ControlFrameHandler(u.conn, ws.StateServerSide)(h, r)
	}

	req := &liveRequest{}
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(req); err != nil {
		return nil, err
	}
	return req, nil
}

/*
TrackPosition. read one position frame and answer it with the snapped waypoint, plus a fresh route when the user
asked for a destination and left the current route.

a request error (bad frame content, unknown destination) is answered on the socket and keeps the connection. only
transport errors are returned.
*/
func (u *User) TrackPosition() error {
	req, err := u.readRequest()
	if err != nil {
		u.conn.Close()
		return err
	}

	if req == nil {
		return nil
	}

	if err := validateStruct(req); err != nil {
		return u.writeError(http.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), u.hub.timeout)
	defer cancel()

	tr, err := u.hub.trackingService.TrackPosition(ctx, req.Lat, req.Lon, req.EndID, req.Route)
	if tr == nil {
		return u.writeError(statusOf(err), err.Error())
	}

	resp := liveResponse{
		Snap:         NewSnapResponse(tr.Snapped, tr.SnapDistance),
		OffRoute:     tr.OffRoute,
		OffRouteDist: tr.OffRouteDist,
	}
	if tr.RouteComputed {
		route := NewRouteResponse(tr.Route)
		resp.Route = &route
	}
	if err != nil {
		return u.write(envelope{"data": resp, "error": errorBody{
			Code:    http.StatusText(statusOf(err)),
			Message: err.Error(),
		}})
	}
	return u.write(envelope{"data": resp})
}

func statusOf(err error) int {
	var ierr *util.Error
	if !errors.As(err, &ierr) {
		return http.StatusInternalServerError
	}
	switch ierr.Code() {
	case util.ErrBadParamInput:
		return http.StatusBadRequest
	case util.ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (u *User) writeError(status int, message string) error {
	if status == http.StatusInternalServerError {
		message = util.MessageInternalServerError
	}
	return u.write(envelope{"error": errorBody{
		Code:    http.StatusText(status),
		Message: message,
	}})
}

func (u *User) write(x interface{}) error {
	w := wsutil.NewWriter(u.conn, ws.StateServerSide, ws.OpText)
	encoder := json.NewEncoder(w)

	u.io.Lock()
	defer u.io.Unlock()

	if err := encoder.Encode(x); err != nil {
		return err
	}

	return w.Flush()
}

// Hub. registry of live connections. users never see each other, the hub only owns their lifecycle.
type Hub struct {
	mu              sync.RWMutex
	seq             uint
	us              []*User
	ns              map[uint]*User
	trackingService LiveTrackingService
	timeout         time.Duration

	pool *concurrent.Pool
}

func NewHub(pool *concurrent.Pool, trackingService LiveTrackingService, timeout time.Duration) *Hub {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Hub{
		pool:            pool,
		ns:              make(map[uint]*User),
		us:              make([]*User, 0),
		trackingService: trackingService,
		timeout:         timeout,
	}
}

func (h *Hub) Register(conn net.Conn) *User {
	return h.register(conn)
}

func (h *Hub) register(conn io.ReadWriteCloser) *User {
	user := &User{
		hub:  h,
		conn: conn,
	}

	h.mu.Lock()
	user.id = h.seq
	h.ns[user.id] = user
	h.us = append(h.us, user)

	h.seq++
	h.mu.Unlock()

	return user
}

func (h *Hub) Remove(user *User) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(user)
}

// remove. caller holds mu.
func (h *Hub) remove(user *User) {
	if _, ok := h.ns[user.id]; !ok {
		return
	}
	delete(h.ns, user.id)

	i := sort.Search(len(h.us), func(i int) bool {
		return h.us[i].id >= user.id
	})

	newUs := make([]*User, len(h.us)-1)
	copy(newUs[:i], h.us[:i])
	copy(newUs[i:], h.us[i+1:])
	h.us = newUs
}

func (h *Hub) RemoveAllUser() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, user := range append([]*User(nil), h.us...) {
		user.conn.Close()
		h.remove(user)
	}
}

func (h *Hub) NumberOfUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.us)
}
