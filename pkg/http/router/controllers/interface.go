package controllers

import (
	"context"

	da "github.com/campusmate/campusnav/pkg/datastructure"
	"github.com/campusmate/campusnav/pkg/http/usecases"
	"github.com/campusmate/campusnav/pkg/spatialindex"
)

type RoutingService interface {
	ComputeRoute(ctx context.Context, startId, endId string) (*da.Route, error)
	ComputeRouteFromPosition(ctx context.Context, lat, lon float64, endId string) (*da.Route, error)
	GetWaypoint(id string) (*da.Waypoint, error)
	BuildingEntrances(building string) ([]*da.Waypoint, error)
	Snap(lat, lon float64) (*da.Waypoint, float64, error)
	Nearby(lat, lon, radius float64, limit int) ([]spatialindex.Nearby, error)
}

type LiveTrackingService interface {
	TrackPosition(ctx context.Context, lat, lon float64, endId string, currentPolyline string) (*usecases.Tracking,
		error)
}
