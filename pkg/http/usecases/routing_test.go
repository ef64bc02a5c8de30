package usecases

import (
	"context"
	"errors"
	"strings"
	"testing"

	da "github.com/campusmate/campusnav/pkg/datastructure"
	"github.com/campusmate/campusnav/pkg/engine"
	"github.com/campusmate/campusnav/pkg/geo"
	"github.com/campusmate/campusnav/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testWaypoints = `room,name,building,floor,lat,lon,type,is_entrance
E_ENT,Eng Door,Eng,1,-6.3600,106.8200,entrance,
E1,,Eng,1,-6.3600,106.8202,corridor,
L_ENT,,Lib,1,-6.3610,106.8215,entrance,
L1,Reading,Lib,1,-6.3611,106.8215,room,
`

const testEdges = `from,to,distance
E_ENT,E1,22
L_ENT,L1,11
`

func newTestService(t *testing.T) *RoutingService {
	t.Helper()
	g, err := da.ReadCampusGraph(strings.NewReader(testWaypoints), strings.NewReader(testEdges))
	require.NoError(t, err)
	log := zap.NewNop()
	eng := engine.NewEngine(g, nil, 200, log)
	return NewRoutingService(log, eng, eng.GetRouteComposer(), eng.GetSpatialIndex(), nil, 200, 500, 30)
}

func codeOf(t *testing.T, err error) error {
	t.Helper()
	var uErr *util.Error
	require.True(t, errors.As(err, &uErr))
	return uErr.Code()
}

func TestTrackPosition(t *testing.T) {
	svc := newTestService(t)
	onRoute := geo.PolylineFromCoords([]geo.Coordinate{
		geo.NewCoordinate(-6.3600, 106.8200), geo.NewCoordinate(-6.3610, 106.8215),
	})
	farAway := geo.PolylineFromCoords([]geo.Coordinate{
		geo.NewCoordinate(-6.3700, 106.8300), geo.NewCoordinate(-6.3710, 106.8300),
	})

	tests := []struct {
		name         string
		endId        string
		polyline     string
		wantOffRoute bool
		wantRoute    bool
	}{
		{name: "snap only", endId: "", polyline: "", wantRoute: false},
		{name: "first fix computes a route", endId: "L1", polyline: "", wantRoute: true},
		{name: "on route keeps current route", endId: "L1", polyline: onRoute, wantRoute: false},
		{name: "off route reroutes", endId: "L1", polyline: farAway, wantOffRoute: true, wantRoute: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := svc.TrackPosition(context.Background(), -6.36001, 106.82001, tt.endId, tt.polyline)
			require.NoError(t, err)

			assert.Equal(t, "E_ENT", tr.Snapped.GetID())
			assert.Equal(t, tt.wantOffRoute, tr.OffRoute)
			assert.Equal(t, tt.wantRoute, tr.RouteComputed)
			if tt.wantRoute {
				require.NotNil(t, tr.Route)
				assert.Equal(t, "L1", tr.Route.GetLegs()[len(tr.Route.GetLegs())-1].GetTo())
			}
		})
	}
}

func TestTrackPositionErrors(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.TrackPosition(context.Background(), 100, 0, "L1", "")
	assert.Equal(t, util.ErrBadParamInput, codeOf(t, err))

	tr, err := svc.TrackPosition(context.Background(), -6.36, 106.82, "L1", "not a polyline \x01")
	require.Error(t, err)
	assert.Equal(t, util.ErrBadParamInput, codeOf(t, err))
	require.NotNil(t, tr)
	assert.Equal(t, "E_ENT", tr.Snapped.GetID())

	_, err = svc.TrackPosition(context.Background(), -6.36, 106.82, "NOPE", "")
	assert.Equal(t, util.ErrBadParamInput, codeOf(t, err))
}

func TestLookups(t *testing.T) {
	svc := newTestService(t)

	w, err := svc.GetWaypoint("L1")
	require.NoError(t, err)
	assert.Equal(t, "Lib", w.GetBuilding())

	_, err = svc.GetWaypoint("NOPE")
	assert.Equal(t, util.ErrNotFound, codeOf(t, err))

	entrances, err := svc.BuildingEntrances("Lib")
	require.NoError(t, err)
	require.Len(t, entrances, 1)
	assert.Equal(t, "L_ENT", entrances[0].GetID())

	_, err = svc.BuildingEntrances("Gym")
	assert.Equal(t, util.ErrNotFound, codeOf(t, err))

	nearby, err := svc.Nearby(-6.3600, 106.8200, 30, 0)
	require.NoError(t, err)
	require.Len(t, nearby, 2)
	assert.Equal(t, "E_ENT", nearby[0].GetWaypoint().GetID())

	_, err = svc.Nearby(-6.3600, 106.8200, 501, 0)
	assert.Equal(t, util.ErrBadParamInput, codeOf(t, err))
}
