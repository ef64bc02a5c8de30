package usecases

import (
	"context"
	"errors"

	da "github.com/campusmate/campusnav/pkg/datastructure"
	"github.com/campusmate/campusnav/pkg/engine/routing"
	"github.com/campusmate/campusnav/pkg/geo"
	"github.com/campusmate/campusnav/pkg/metrics"
	"github.com/campusmate/campusnav/pkg/spatialindex"
	"github.com/campusmate/campusnav/pkg/util"
	"go.uber.org/zap"
)

type RoutingService struct {
	log                *zap.Logger
	engine             RoutingEngine
	planner            RoutePlanner
	spatialIndex       SpatialIndex
	farThresholdMeters float64
	maxNearbyRadius    float64
	offRouteMeters     float64
	observer           RouteObserver
}

// NewRoutingService. observer may be nil.
func NewRoutingService(log *zap.Logger, engine RoutingEngine, planner RoutePlanner, spatialIndex SpatialIndex,
	observer RouteObserver, farThresholdMeters, maxNearbyRadius, offRouteMeters float64) *RoutingService {
	return &RoutingService{
		log:                log,
		engine:             engine,
		planner:            planner,
		spatialIndex:       spatialIndex,
		farThresholdMeters: farThresholdMeters,
		maxNearbyRadius:    maxNearbyRadius,
		offRouteMeters:     offRouteMeters,
		observer:           observer,
	}
}

func (rs *RoutingService) ComputeRoute(ctx context.Context, startId, endId string) (*da.Route, error) {
	route, err := rs.planner.PlanRoute(ctx, startId, endId)
	rs.observe(metrics.MODE_BY_ID, route, err)
	if err != nil {
		return nil, err
	}
	rs.logRoute(startId, endId, route)
	return route, nil
}

func (rs *RoutingService) ComputeRouteFromPosition(ctx context.Context, lat, lon float64, endId string) (*da.Route,
	error) {
	route, err := rs.planner.PlanRouteFromPosition(ctx, lat, lon, endId)
	rs.observe(metrics.MODE_BY_POSITION, route, err)
	if err != nil {
		return nil, err
	}
	rs.logRoute("", endId, route)
	return route, nil
}

func (rs *RoutingService) observe(mode string, route *da.Route, err error) {
	if rs.observer != nil {
		rs.observer.ObserveRoute(mode, route, err)
	}
}

func (rs *RoutingService) logRoute(startId, endId string, route *da.Route) {
	fields := []zap.Field{
		zap.String("start", startId), zap.String("end", endId),
		zap.Int("legs", len(route.GetLegs())), zap.Float64("distance", route.GetDistance()),
	}
	if route.IsDegraded() || route.IsPartial() {
		rs.log.Warn("route computed with fallback", append(fields, zap.Bool("degraded", route.IsDegraded()),
			zap.Bool("partial", route.IsPartial()))...)
		return
	}
	rs.log.Debug("route computed", fields...)
}

func (rs *RoutingService) GetWaypoint(id string) (*da.Waypoint, error) {
	w, err := rs.engine.GetGraph().Waypoint(id)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrNotFound, "waypoint %q not found", id)
	}
	return w, nil
}

func (rs *RoutingService) BuildingEntrances(building string) ([]*da.Waypoint, error) {
	graph := rs.engine.GetGraph()
	if !graph.HasBuilding(building) {
		return nil, util.WrapErrorf(nil, util.ErrNotFound, "building %q not found", building)
	}
	return graph.EntrancesOf(building), nil
}

// Snap. nearest waypoint to a live position, preferring entrances when the position is far from every waypoint.
func (rs *RoutingService) Snap(lat, lon float64) (*da.Waypoint, float64, error) {
	if !geo.IsValidCoordinate(lat, lon) {
		return nil, 0, util.WrapErrorf(nil, util.ErrBadParamInput, "invalid position (%f, %f)", lat, lon)
	}
	w, dist, err := routing.NearestWaypoint(rs.engine.GetGraph(), lat, lon, rs.farThresholdMeters)
	if err != nil {
		return nil, 0, util.WrapErrorf(err, util.ErrNotFound, "no waypoint to snap to")
	}
	return w, dist, nil
}

func (rs *RoutingService) Nearby(lat, lon, radius float64, limit int) ([]spatialindex.Nearby, error) {
	if !geo.IsValidCoordinate(lat, lon) {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "invalid position (%f, %f)", lat, lon)
	}
	if radius <= 0 || radius > rs.maxNearbyRadius {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "radius must be in (0, %.0f] meters",
			rs.maxNearbyRadius)
	}
	return rs.spatialIndex.SearchWithinRadius(lat, lon, radius, limit), nil
}

// Tracking. answer to one live position update.
type Tracking struct {
	Snapped       *da.Waypoint
	SnapDistance  float64
	OffRoute      bool
	OffRouteDist  float64
	Route         *da.Route
	RouteComputed bool
}

/*
TrackPosition. snap a live position and, when a destination is given, keep the user on a route.

the route is recomputed from the position when the client sends no current route or when the position is farther
than offRouteMeters from the current route polyline. a route failure is returned as error, the snap result is
still valid then.
*/
func (rs *RoutingService) TrackPosition(ctx context.Context, lat, lon float64, endId string,
	currentPolyline string) (*Tracking, error) {
	w, dist, err := rs.Snap(lat, lon)
	if err != nil {
		return nil, err
	}
	tr := &Tracking{Snapped: w, SnapDistance: dist}
	if util.IsBlank(endId) {
		return tr, nil
	}

	if !util.IsBlank(currentPolyline) {
		line, err := geo.CoordsFromPolyline(currentPolyline)
		if err != nil {
			return tr, util.WrapErrorf(err, util.ErrBadParamInput, "invalid route polyline")
		}
		tr.OffRouteDist = geo.DistanceToPolyline(line, geo.NewCoordinate(lat, lon))
		tr.OffRoute = tr.OffRouteDist > rs.offRouteMeters
		if !tr.OffRoute {
			return tr, nil
		}
	}

	route, err := rs.planner.PlanRouteFromPosition(ctx, lat, lon, endId)
	rs.observe(metrics.MODE_LIVE, route, err)
	if err != nil {
		var uerr *util.Error
		if errors.As(err, &uerr) {
			return tr, err
		}
		return tr, util.WrapErrorf(err, util.ErrInternalServerError, "%s", util.MessageInternalServerError)
	}
	tr.Route = route
	tr.RouteComputed = true
	return tr, nil
}
