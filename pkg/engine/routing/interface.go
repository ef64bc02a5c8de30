package routing

import (
	"context"

	da "github.com/campusmate/campusnav/pkg/datastructure"
	"github.com/campusmate/campusnav/pkg/geo"
)

// OutdoorRouteProvider. external walking-route service between two outdoor coordinates. any error is treated as
// the provider being unavailable.
type OutdoorRouteProvider interface {
	WalkingRoute(ctx context.Context, origin, destination geo.Coordinate) (*da.OutdoorRoute, error)
}
