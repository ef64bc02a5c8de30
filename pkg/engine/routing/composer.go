package routing

import (
	"context"
	"errors"

	"github.com/campusmate/campusnav/pkg"
	da "github.com/campusmate/campusnav/pkg/datastructure"
	"github.com/campusmate/campusnav/pkg/geo"
	"github.com/campusmate/campusnav/pkg/guidance"
	"github.com/campusmate/campusnav/pkg/util"
	"go.uber.org/zap"
)

/*
RouteComposer. plans one request end to end: indoor-only when both ends share a building, otherwise
indoor -> outdoor -> indoor through one entrance per building.

the only side effect is the outbound call to the outdoor provider. a nil provider always takes the straight-line
fallback.
*/
type RouteComposer struct {
	graph              *da.CampusGraph
	planner            *IndoorPlanner
	provider           OutdoorRouteProvider
	log                *zap.Logger
	farThresholdMeters float64
}

func NewRouteComposer(graph *da.CampusGraph, provider OutdoorRouteProvider, log *zap.Logger,
	farThresholdMeters float64) *RouteComposer {
	return &RouteComposer{
		graph:              graph,
		planner:            NewIndoorPlanner(graph),
		provider:           provider,
		log:                log,
		farThresholdMeters: farThresholdMeters,
	}
}

func (rc *RouteComposer) GetGraph() *da.CampusGraph {
	return rc.graph
}

func (rc *RouteComposer) lookup(role, id string) (*da.Waypoint, error) {
	w, err := rc.graph.Waypoint(id)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "unknown %s waypoint %q", role, id)
	}
	return w, nil
}

// PlanRoute. route between two waypoint ids. unknown ids are rejected before any traversal.
func (rc *RouteComposer) PlanRoute(ctx context.Context, startId, endId string) (*da.Route, error) {
	start, err := rc.lookup("start", startId)
	if err != nil {
		return nil, err
	}
	end, err := rc.lookup("destination", endId)
	if err != nil {
		return nil, err
	}

	legs, err := rc.planLegs(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return da.NewRoute(legs), nil
}

// PlanRouteFromPosition. route from a live GPS coordinate, snapped to the nearest waypoint first.
func (rc *RouteComposer) PlanRouteFromPosition(ctx context.Context, lat, lon float64, endId string) (*da.Route,
	error) {
	if !geo.IsValidCoordinate(lat, lon) {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "invalid position (%f, %f)", lat, lon)
	}
	end, err := rc.lookup("destination", endId)
	if err != nil {
		return nil, err
	}

	start, snapDist, err := NearestWaypoint(rc.graph, lat, lon, rc.farThresholdMeters)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrNotFound, "cannot snap position (%f, %f): %v", lat, lon, err)
	}
	rc.log.Debug("snapped start position", zap.String("waypoint", start.GetID()),
		zap.Float64("distance", snapDist))

	legs := make([]da.Leg, 0, 4)
	position := geo.NewCoordinate(lat, lon)
	if position != start.GetCoordinate() {
		legs = append(legs, da.NewLeg(da.APPROACH_LEG, "", start.GetID(),
			[]geo.Coordinate{position, start.GetCoordinate()},
			[]string{guidance.ApproachInstruction(start, snapDist)}, snapDist))
	}

	rest, err := rc.planLegs(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return da.NewRoute(append(legs, rest...)), nil
}

func (rc *RouteComposer) planLegs(ctx context.Context, start, end *da.Waypoint) ([]da.Leg, error) {
	if start.GetIndex() == end.GetIndex() {
		return []da.Leg{da.NewLeg(da.INDOOR_LEG, start.GetID(), end.GetID(),
			[]geo.Coordinate{start.GetCoordinate()}, []string{guidance.AlreadyThereInstruction(end)}, 0)}, nil
	}

	if start.GetBuilding() == end.GetBuilding() {
		path, edges, err := rc.planner.Between(start, end)
		if err != nil {
			legErr := newLegError(LEG_INDOOR, start.GetID(), end.GetID(), ErrNoPathFound)
			return nil, util.WrapErrorf(legErr, util.ErrNotFound, "no indoor path from %s to %s",
				start.Label(), end.Label())
		}
		return []da.Leg{indoorLeg(path, edges)}, nil
	}

	return rc.planCompositeLegs(ctx, start, end)
}

func (rc *RouteComposer) planCompositeLegs(ctx context.Context, start, end *da.Waypoint) ([]da.Leg, error) {
	startEntrance, startReachable := rc.pickEntrance(start)
	endEntrance, endReachable := rc.pickEntrance(end)

	if !startReachable && !endReachable {
		startErr := newLegError(LEG_START_INDOOR, start.GetID(), startEntrance.GetID(), ErrNoPathFound)
		endErr := newLegError(LEG_END_INDOOR, endEntrance.GetID(), end.GetID(), ErrNoPathFound)
		return nil, util.WrapErrorf(errors.Join(startErr, endErr), util.ErrNotFound,
			"no indoor path from %s to any entrance of its building, and no indoor path from any entrance to %s",
			start.Label(), end.Label())
	}

	legs := make([]da.Leg, 0, 3)

	if startReachable {
		// reachable, pickEntrance already ran the search
		path, edges, _ := rc.planner.Between(start, startEntrance)
		leg := indoorLeg(path, edges)
		leg = da.NewLeg(da.INDOOR_LEG, leg.GetFrom(), leg.GetTo(), leg.GetCoordinates(),
			append(leg.GetInstructions(), guidance.ExitBuildingInstruction(startEntrance)), leg.GetDistance())
		legs = append(legs, leg)
	} else {
		rc.log.Warn("start leg has no indoor path", zap.String("start", start.GetID()),
			zap.String("entrance", startEntrance.GetID()))
		legs = append(legs, da.NewFailedLeg(start.GetID(), startEntrance.GetID(),
			guidance.NoIndoorPathInstruction(start, startEntrance)))
	}

	legs = append(legs, rc.outdoorLeg(ctx, startEntrance, endEntrance))

	if endReachable {
		path, edges, _ := rc.planner.Between(endEntrance, end)
		leg := indoorLeg(path, edges)
		leg = da.NewLeg(da.INDOOR_LEG, leg.GetFrom(), leg.GetTo(), leg.GetCoordinates(),
			append([]string{guidance.EnterBuildingInstruction(endEntrance)}, leg.GetInstructions()...),
			leg.GetDistance())
		legs = append(legs, leg)
	} else {
		rc.log.Warn("destination leg has no indoor path", zap.String("entrance", endEntrance.GetID()),
			zap.String("destination", end.GetID()))
		legs = append(legs, da.NewFailedLeg(endEntrance.GetID(), end.GetID(),
			guidance.NoIndoorPathInstruction(endEntrance, end)))
	}

	return legs, nil
}

/*
pickEntrance. entrance of w's building with the shortest indoor distance to w. the graph is undirected so one
single-source search from w serves both the exit and the entry leg. when no entrance is reachable the first one
(load order) is still returned so the outdoor leg has an anchor.
*/
func (rc *RouteComposer) pickEntrance(w *da.Waypoint) (*da.Waypoint, bool) {
	entrances := rc.graph.EntrancesOf(w.GetBuilding())
	dist := NewDijkstra(rc.graph).Distances(w.GetIndex())

	var (
		best     *da.Waypoint
		bestDist = pkg.INF_WEIGHT
	)
	for _, e := range entrances {
		if d := dist[e.GetIndex()]; d < bestDist {
			best, bestDist = e, d
		}
	}
	if best == nil {
		return entrances[0], false
	}
	return best, true
}

func (rc *RouteComposer) outdoorLeg(ctx context.Context, from, to *da.Waypoint) da.Leg {
	if rc.provider != nil {
		outdoor, err := rc.provider.WalkingRoute(ctx, from.GetCoordinate(), to.GetCoordinate())
		if err == nil && len(outdoor.GetCoordinates()) > 0 {
			instructions := guidance.OutdoorInstructions(outdoor.GetManeuvers())
			if len(instructions) == 0 {
				instructions = []string{guidance.FallbackOutdoorInstruction(from, to, outdoor.GetDistance())}
			}
			return da.NewLeg(da.OUTDOOR_LEG, from.GetID(), to.GetID(), outdoor.GetCoordinates(), instructions,
				outdoor.GetDistance())
		}
		if err == nil {
			err = errors.New("empty outdoor geometry")
		}
		rc.log.Warn("outdoor route provider unavailable, using straight line", zap.Error(err),
			zap.String("from", from.GetID()), zap.String("to", to.GetID()))
	}

	dist := geo.DistanceBetween(from.GetCoordinate(), to.GetCoordinate())
	return da.NewDegradedLeg(from.GetID(), to.GetID(),
		[]geo.Coordinate{from.GetCoordinate(), to.GetCoordinate()},
		[]string{guidance.FallbackOutdoorInstruction(from, to, dist)}, dist)
}

func indoorLeg(path []*da.Waypoint, edges []*da.Edge) da.Leg {
	coords := make([]geo.Coordinate, len(path))
	for i, w := range path {
		coords[i] = w.GetCoordinate()
	}
	instructions := guidance.IndoorInstructions(da.NewRouteSegments(path, edges))
	return da.NewLeg(da.INDOOR_LEG, path[0].GetID(), path[len(path)-1].GetID(), coords, instructions,
		PathWeight(edges))
}
