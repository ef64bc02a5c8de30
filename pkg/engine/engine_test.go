package engine

import (
	"context"
	"strings"
	"testing"

	da "github.com/campusmate/campusnav/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const waypoints = `room,name,building,floor,lat,lon,type,is_entrance
E_ENT,Eng Door,Eng,1,-6.3600,106.8200,entrance,
E1,,Eng,1,-6.3600,106.8202,corridor,
E3,Storage,Eng,1,-6.3601,106.8203,room,
L_ENT,,Lib,1,-6.3610,106.8215,entrance,
L1,Reading,Lib,1,-6.3611,106.8215,room,
G_ENT,,Gym,1,-6.3620,106.8230,entrance,
G1,,Gym,1,-6.3621,106.8230,room,
G2,,Gym,1,-6.3622,106.8230,room,
H1,,Hall,1,-6.3630,106.8240,room,
H2,,Hall,1,-6.3631,106.8240,room,
`

const edges = `from,to,distance,type
E_ENT,E1,22,walk
L_ENT,L1,11,walk
G1,G2,8,walk
`

func newTestGraph(t *testing.T) *da.CampusGraph {
	t.Helper()
	g, err := da.ReadCampusGraph(strings.NewReader(waypoints), strings.NewReader(edges))
	require.NoError(t, err)
	return g
}

func TestAuditEntranceReachability(t *testing.T) {
	got := AuditEntranceReachability(newTestGraph(t))

	assert.Equal(t, []BuildingReachability{
		{Building: "Eng", Unreachable: []string{"E3"}},
		{Building: "Gym", Unreachable: []string{"G1", "G2"}},
	}, got)
}

func TestNewEngine(t *testing.T) {
	eng := NewEngine(newTestGraph(t), nil, 200, zap.NewNop())

	assert.Equal(t, 10, eng.GetSpatialIndex().Len())
	assert.Same(t, eng.GetGraph(), eng.GetRouteComposer().GetGraph())

	route, err := eng.GetRouteComposer().PlanRoute(context.Background(), "E1", "L1")
	require.NoError(t, err)
	assert.True(t, route.IsDegraded())
	assert.Len(t, route.GetLegs(), 3)
}
