package http

import (
	"context"
	"errors"

	http_router "github.com/campusmate/campusnav/pkg/http/router"
	"github.com/campusmate/campusnav/pkg/http/router/controllers"
	http_server "github.com/campusmate/campusnav/pkg/http/server"
	"github.com/campusmate/campusnav/pkg/metrics"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
	g   *errgroup.Group
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

// Use. start the REST API, websocket server and websocket proxy in the background. Wait blocks until they stop.
func (s *Server) Use(
	ctx context.Context,
	log *zap.Logger,
	m *metrics.Metrics,

	useRateLimit bool,
	routingService controllers.RoutingService,
	trackingService controllers.LiveTrackingService,

) (*Server, error) {
	config := http_server.Config{
		Port:          viper.GetInt("API_PORT"),
		WebsocketPort: viper.GetInt("WEBSOCKET_PORT"),
		ProxyPort:     viper.GetInt("PROXY_PORT"),
		Timeout:       viper.GetDuration("API_TIMEOUT"),
	}
	if config.Port == config.WebsocketPort || config.Port == config.ProxyPort ||
		config.WebsocketPort == config.ProxyPort {
		return nil, errors.New("API_PORT, WEBSOCKET_PORT and PROXY_PORT must differ")
	}

	server := http_router.NewAPI(log, m)

	g, gctx := errgroup.WithContext(ctx)
	s.g = g

	g.Go(func() error {
		return server.Run(
			gctx, config, log,
			useRateLimit, routingService, trackingService,
		)
	})

	return s, nil
}

func (s *Server) Wait() error {
	if s.g == nil {
		return nil
	}
	err := s.g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
