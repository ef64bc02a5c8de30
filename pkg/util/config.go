package util

import (
	"errors"
	"fmt"

	"github.com/campusmate/campusnav/pkg"
	"github.com/spf13/viper"
)

func ReadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./data/")
	viper.AutomaticEnv()

	setDefaults()

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// env + defaults only
			return nil
		}
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("LOG_LEVEL", "info")

	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("WEBSOCKET_PORT", 6666)
	viper.SetDefault("PROXY_PORT", 6767)
	viper.SetDefault("API_TIMEOUT", "30s")
	viper.SetDefault("HTTP_SERVER_READ_TIMEOUT", "5s")
	viper.SetDefault("HTTP_SERVER_WRITE_TIMEOUT", "10s")
	viper.SetDefault("HTTP_SERVER_IDLE_TIMEOUT", "120s")
	viper.SetDefault("HTTP_SERVER_READ_HEADER_TIMEOUT", "5s")
	viper.SetDefault("USE_RATE_LIMIT", false)
	viper.SetDefault("RATE_LIMIT_RPS", 20)

	viper.SetDefault("WAYPOINTS_CSV", "./data/rooms.csv")
	viper.SetDefault("EDGES_CSV", "./data/edges.csv")

	viper.SetDefault("OUTDOOR_PROVIDER_URL", "https://router.project-osrm.org")
	viper.SetDefault("OUTDOOR_PROVIDER_PROFILE", "foot")
	viper.SetDefault("OUTDOOR_PROVIDER_TIMEOUT", fmt.Sprintf("%ds", pkg.DEFAULT_OUTDOOR_PROVIDER_TIMEOUT_SECOND))
	viper.SetDefault("OUTDOOR_PROVIDER_RETRIES", 1)
	viper.SetDefault("OUTDOOR_PROVIDER_BACKOFF", "250ms")

	viper.SetDefault("SNAP_FAR_THRESHOLD_METERS", pkg.DEFAULT_SNAP_FAR_THRESHOLD_METERS)
	viper.SetDefault("NEARBY_MAX_RADIUS_METERS", 500.0)
	viper.SetDefault("OFF_ROUTE_METERS", 30.0)
	viper.SetDefault("OUTDOOR_PROVIDER_GEOMETRY", "geojson")
	viper.SetDefault("OUTDOOR_PROVIDER_RPS", 0.0)
	viper.SetDefault("WEBSOCKET_POOL_SIZE", 64)
}
