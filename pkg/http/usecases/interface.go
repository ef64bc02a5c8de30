package usecases

import (
	"context"

	da "github.com/campusmate/campusnav/pkg/datastructure"
	"github.com/campusmate/campusnav/pkg/spatialindex"
)

type RoutingEngine interface {
	GetGraph() *da.CampusGraph
}

type RoutePlanner interface {
	PlanRoute(ctx context.Context, startId, endId string) (*da.Route, error)
	PlanRouteFromPosition(ctx context.Context, lat, lon float64, endId string) (*da.Route, error)
}

type SpatialIndex interface {
	SearchWithinRadius(qLat, qLon, radius float64, limit int) []spatialindex.Nearby
}

// RouteObserver. receives the outcome of every planning request, route is nil when err is set.
type RouteObserver interface {
	ObserveRoute(mode string, route *da.Route, err error)
}
