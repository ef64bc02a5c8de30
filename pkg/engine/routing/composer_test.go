package routing

import (
	"context"
	"errors"
	"strings"
	"testing"

	da "github.com/campusmate/campusnav/pkg/datastructure"
	"github.com/campusmate/campusnav/pkg/geo"
	"github.com/campusmate/campusnav/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func errorCode(t *testing.T, err error) error {
	t.Helper()
	var uErr *util.Error
	require.True(t, errors.As(err, &uErr), "expected *util.Error, got %T", err)
	return uErr.Code()
}

func TestPlanRouteSameBuilding(t *testing.T) {
	g := newCampusGraph(t)
	provider := &fakeProvider{err: errors.New("must not be called")}
	rc := NewRouteComposer(g, provider, zap.NewNop(), 200)

	route, err := rc.PlanRoute(context.Background(), "E_ENT", "E2")
	require.NoError(t, err)

	assert.Equal(t, 0, provider.numCalls())
	require.Len(t, route.GetLegs(), 1)
	assert.Equal(t, da.INDOOR_LEG, route.GetLegs()[0].GetKind())
	assert.Equal(t, []string{
		"Walk from E_ENT (Eng Door) to E1 (22 m).",
		"Take stairs up from E1 to E2 (Lab).",
	}, route.GetInstructions())
	assert.Equal(t, 27.0, route.GetDistance())
	assert.Len(t, route.GetCoordinates(), 3)
	assert.False(t, route.IsDegraded())
	assert.False(t, route.IsPartial())
}

func TestPlanRouteStartEqualsEnd(t *testing.T) {
	rc := NewRouteComposer(newCampusGraph(t), nil, zap.NewNop(), 200)

	route, err := rc.PlanRoute(context.Background(), "L1", "L1")
	require.NoError(t, err)

	assert.Equal(t, []string{"You are already at your destination L1 (Reading)."}, route.GetInstructions())
	assert.Len(t, route.GetCoordinates(), 1)
	assert.Equal(t, 0.0, route.GetDistance())
}

func TestPlanRouteUnknownWaypoint(t *testing.T) {
	provider := &fakeProvider{}
	rc := NewRouteComposer(newCampusGraph(t), provider, zap.NewNop(), 200)

	tests := []struct {
		name  string
		start string
		end   string
	}{
		{name: "unknown start", start: "NOPE", end: "L1"},
		{name: "unknown destination", start: "E1", end: "NOPE"},
		{name: "both unknown", start: "X", end: "Y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rc.PlanRoute(context.Background(), tt.start, tt.end)
			require.Error(t, err)
			assert.ErrorIs(t, err, da.ErrUnknownWaypoint)
			assert.Equal(t, util.ErrBadParamInput, errorCode(t, err))
		})
	}
	assert.Equal(t, 0, provider.numCalls())
}

func TestPlanRouteSameBuildingNoPath(t *testing.T) {
	rc := NewRouteComposer(newCampusGraph(t), nil, zap.NewNop(), 200)

	_, err := rc.PlanRoute(context.Background(), "E1", "E3")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoPathFound)
	assert.Equal(t, util.ErrNotFound, errorCode(t, err))
}

func TestPlanRouteProviderFailure(t *testing.T) {
	g := newCampusGraph(t)
	provider := &fakeProvider{err: errors.New("connection refused")}
	rc := NewRouteComposer(g, provider, zap.NewNop(), 200)

	route, err := rc.PlanRoute(context.Background(), "E2", "L1")
	require.NoError(t, err)

	assert.Equal(t, 1, provider.numCalls())
	assert.True(t, route.IsDegraded())
	assert.False(t, route.IsPartial())

	legs := route.GetLegs()
	require.Len(t, legs, 3)
	for _, leg := range legs {
		assert.NotEmpty(t, leg.GetInstructions())
		assert.NotEmpty(t, leg.GetCoordinates())
	}
	assert.Equal(t, da.OUTDOOR_LEG, legs[1].GetKind())
	assert.True(t, legs[1].IsDegraded())

	eEnt, lEnt := mustWaypoint(t, g, "E_ENT"), mustWaypoint(t, g, "L_ENT")
	straight := geo.DistanceBetween(eEnt.GetCoordinate(), lEnt.GetCoordinate())
	assert.Equal(t, []geo.Coordinate{eEnt.GetCoordinate(), lEnt.GetCoordinate()}, legs[1].GetCoordinates())
	assert.InDelta(t, 27+straight+11, route.GetDistance(), 1e-6)

	instructions := route.GetInstructions()
	assert.Equal(t, "Take stairs down from E2 (Lab) to E1.", instructions[0])
	assert.Contains(t, instructions, "Exit Eng through E_ENT (Eng Door).")
	assert.Contains(t, instructions, "Enter Lib through L_ENT.")
	assert.True(t, strings.HasPrefix(legs[1].GetInstructions()[0], "Walk outdoors from E_ENT (Eng Door) to L_ENT"))
	assert.Equal(t, "Walk from L_ENT to L1 (Reading) (11 m).", instructions[len(instructions)-1])
}

func TestPlanRouteProviderSuccess(t *testing.T) {
	g := newCampusGraph(t)
	eEnt, lEnt := mustWaypoint(t, g, "E_ENT"), mustWaypoint(t, g, "L_ENT")
	mid := geo.NewCoordinate(-6.3605, 106.8210)
	provider := &fakeProvider{route: da.NewOutdoorRoute(
		[]geo.Coordinate{eEnt.GetCoordinate(), mid, lEnt.GetCoordinate()},
		[]da.Maneuver{
			{Type: "depart", Modifier: "south", Name: "Jalan Lingkar", Distance: 120.4},
			{Type: "turn", Modifier: "left", Distance: 90},
			{Type: "arrive"},
		}, 210.4)}
	rc := NewRouteComposer(g, provider, zap.NewNop(), 200)

	route, err := rc.PlanRoute(context.Background(), "E2", "L1")
	require.NoError(t, err)

	assert.Equal(t, 1, provider.numCalls())
	assert.False(t, route.IsDegraded())
	// junction coordinates shared by consecutive legs appear once
	assert.Len(t, route.GetCoordinates(), 3+3+2-2)
	assert.InDelta(t, 27+210.4+11, route.GetDistance(), 1e-6)
	assert.Equal(t, []string{
		"Head south onto Jalan Lingkar (120 m).",
		"Turn left (90 m).",
		"Arrive at the building entrance.",
	}, route.GetLegs()[1].GetInstructions())
}

func TestPlanRouteNilProvider(t *testing.T) {
	rc := NewRouteComposer(newCampusGraph(t), nil, zap.NewNop(), 200)

	route, err := rc.PlanRoute(context.Background(), "E_ENT", "L_ENT")
	require.NoError(t, err)
	assert.True(t, route.IsDegraded())
	require.Len(t, route.GetLegs(), 3)
	assert.Equal(t, []string{"Exit Eng through E_ENT (Eng Door)."}, route.GetLegs()[0].GetInstructions())
	assert.Equal(t, []string{"Enter Lib through L_ENT."}, route.GetLegs()[2].GetInstructions())
}

func TestPlanRoutePartial(t *testing.T) {
	tests := []struct {
		name       string
		start      string
		end        string
		failedLeg  int
		wantPrefix string
	}{
		{name: "start room cut off from its entrance", start: "E3", end: "L1", failedLeg: 0,
			wantPrefix: "No indoor path found from E3 (Storage) to E_ENT (Eng Door)."},
		{name: "destination room cut off from its entrance", start: "L1", end: "G1", failedLeg: 2,
			wantPrefix: "No indoor path found from G_ENT to G1."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := NewRouteComposer(newCampusGraph(t), &fakeProvider{err: errors.New("down")}, zap.NewNop(), 200)

			route, err := rc.PlanRoute(context.Background(), tt.start, tt.end)
			require.NoError(t, err)
			assert.True(t, route.IsPartial())

			legs := route.GetLegs()
			require.Len(t, legs, 3)
			assert.True(t, legs[tt.failedLeg].IsFailed())
			assert.Equal(t, []string{tt.wantPrefix}, legs[tt.failedLeg].GetInstructions())
			assert.Empty(t, legs[tt.failedLeg].GetCoordinates())
		})
	}
}

func TestPlanRouteBothIndoorLegsFail(t *testing.T) {
	provider := &fakeProvider{}
	rc := NewRouteComposer(newCampusGraph(t), provider, zap.NewNop(), 200)

	_, err := rc.PlanRoute(context.Background(), "E3", "G1")
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrNoRouteFound)
	assert.ErrorIs(t, err, ErrNoPathFound)
	assert.Equal(t, util.ErrNotFound, errorCode(t, err))

	var legErr *LegError
	require.True(t, errors.As(err, &legErr))
	assert.Equal(t, LEG_START_INDOOR, legErr.GetLeg())
	assert.Equal(t, "E3", legErr.GetFrom())
	assert.Equal(t, 0, provider.numCalls())
}

func TestPlanRouteFromPosition(t *testing.T) {
	g := newCampusGraph(t)
	eEnt := mustWaypoint(t, g, "E_ENT")
	rc := NewRouteComposer(g, nil, zap.NewNop(), 200)

	t.Run("approach leg from a nearby position", func(t *testing.T) {
		lat, lon := geo.GetDestinationPoint(eEnt.GetLat(), eEnt.GetLon(), 270, 10)

		route, err := rc.PlanRouteFromPosition(context.Background(), lat, lon, "E2")
		require.NoError(t, err)

		legs := route.GetLegs()
		require.Len(t, legs, 2)
		assert.Equal(t, da.APPROACH_LEG, legs[0].GetKind())
		assert.Equal(t, "E_ENT", legs[0].GetTo())
		assert.InDelta(t, 10, legs[0].GetDistance(), 0.05)
		assert.True(t, strings.HasPrefix(route.GetInstructions()[0], "Walk to E_ENT (Eng Door)"))
		assert.Equal(t, geo.NewCoordinate(lat, lon), route.GetCoordinates()[0])
		assert.InDelta(t, 37, route.GetDistance(), 0.05)
	})

	t.Run("position exactly on a waypoint", func(t *testing.T) {
		route, err := rc.PlanRouteFromPosition(context.Background(), eEnt.GetLat(), eEnt.GetLon(), "E2")
		require.NoError(t, err)
		require.Len(t, route.GetLegs(), 1)
		assert.Equal(t, da.INDOOR_LEG, route.GetLegs()[0].GetKind())
	})

	t.Run("invalid position", func(t *testing.T) {
		_, err := rc.PlanRouteFromPosition(context.Background(), 91, 0, "E2")
		require.Error(t, err)
		assert.Equal(t, util.ErrBadParamInput, errorCode(t, err))
	})
}
