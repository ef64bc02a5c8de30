package main

import (
	"context"
	"flag"

	"github.com/campusmate/campusnav/pkg/engine"
	"github.com/campusmate/campusnav/pkg/engine/outdoor"
	"github.com/campusmate/campusnav/pkg/http"
	"github.com/campusmate/campusnav/pkg/http/usecases"
	"github.com/campusmate/campusnav/pkg/logger"
	"github.com/campusmate/campusnav/pkg/metrics"
	"github.com/campusmate/campusnav/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	waypointsCSV = flag.String("waypoints", "", "waypoint table (csv), overrides WAYPOINTS_CSV")
	edgesCSV     = flag.String("edges", "", "edge table (csv), overrides EDGES_CSV")
	offline      = flag.Bool("offline", false, "never call the outdoor provider, always use the straight-line fallback")
)

func main() {
	flag.Parse()

	if err := util.ReadConfig(); err != nil {
		panic(err)
	}
	if *waypointsCSV != "" {
		viper.Set("WAYPOINTS_CSV", *waypointsCSV)
	}
	if *edgesCSV != "" {
		viper.Set("EDGES_CSV", *edgesCSV)
	}

	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	var provider *outdoor.OSRMProvider
	if !*offline {
		provider = outdoor.NewOSRMProvider(outdoor.Config{
			BaseURL:           viper.GetString("OUTDOOR_PROVIDER_URL"),
			Profile:           viper.GetString("OUTDOOR_PROVIDER_PROFILE"),
			Timeout:           viper.GetDuration("OUTDOOR_PROVIDER_TIMEOUT"),
			Retries:           viper.GetInt("OUTDOOR_PROVIDER_RETRIES"),
			Backoff:           viper.GetDuration("OUTDOOR_PROVIDER_BACKOFF"),
			Geometry:          viper.GetString("OUTDOOR_PROVIDER_GEOMETRY"),
			RequestsPerSecond: viper.GetFloat64("OUTDOOR_PROVIDER_RPS"),
		}, logger)
	}

	farThreshold := viper.GetFloat64("SNAP_FAR_THRESHOLD_METERS")
	var campusEngine *engine.Engine
	if provider != nil {
		campusEngine, err = engine.NewEngineFromFiles(viper.GetString("WAYPOINTS_CSV"), viper.GetString("EDGES_CSV"),
			provider, farThreshold, logger)
	} else {
		campusEngine, err = engine.NewEngineFromFiles(viper.GetString("WAYPOINTS_CSV"), viper.GetString("EDGES_CSV"),
			nil, farThreshold, logger)
	}
	if err != nil {
		logger.Fatal("failed to load campus graph", zap.Error(err))
	}

	m := metrics.NewMetrics(prometheus.NewRegistry())

	routingService := usecases.NewRoutingService(logger, campusEngine, campusEngine.GetRouteComposer(),
		campusEngine.GetSpatialIndex(), m, farThreshold, viper.GetFloat64("NEARBY_MAX_RADIUS_METERS"),
		viper.GetFloat64("OFF_ROUTE_METERS"))

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}

	api := http.NewServer(logger)
	if _, err := api.Use(ctx, logger, m, viper.GetBool("USE_RATE_LIMIT"), routingService, routingService); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	signal := http.GracefulShutdown()
	cleanup()
	if err := api.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
	}

	logger.Info("Campus Navigation Server Stopped", zap.String("signal", signal.String()))
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
