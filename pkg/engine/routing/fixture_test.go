package routing

import (
	"context"
	"strings"
	"sync"
	"testing"

	da "github.com/campusmate/campusnav/pkg/datastructure"
	"github.com/campusmate/campusnav/pkg/geo"
	"github.com/stretchr/testify/require"
)

const campusWaypoints = `room,name,building,floor,lat,lon,type,is_entrance
E_ENT,Eng Door,Eng,1,-6.3600,106.8200,entrance,
E1,,Eng,1,-6.3600,106.8202,corridor,
E2,Lab,Eng,2,-6.3600,106.8202,lab,
E3,Storage,Eng,1,-6.3601,106.8203,room,
L_ENT,,Lib,1,-6.3610,106.8215,entrance,
L1,Reading,Lib,1,-6.3611,106.8215,room,
G_ENT,,Gym,1,-6.3620,106.8230,entrance,
G1,,Gym,1,-6.3621,106.8230,room,
P_ENT,,Pool,1,-6.3630,106.8240,entrance,
P1,,Pool,1,-6.3631,106.8240,room,
`

const campusEdges = `from,to,distance,type,left_desc,right_desc
E_ENT,E1,22,walk,,
E1,E2,5,stairs,,
L_ENT,L1,11,walk,,
`

func newCampusGraph(t *testing.T) *da.CampusGraph {
	t.Helper()
	g, err := da.ReadCampusGraph(strings.NewReader(campusWaypoints), strings.NewReader(campusEdges))
	require.NoError(t, err)
	return g
}

func mustWaypoint(t *testing.T, g *da.CampusGraph, id string) *da.Waypoint {
	t.Helper()
	w, err := g.Waypoint(id)
	require.NoError(t, err)
	return w
}

// fakeProvider. outdoor provider double counting calls.
type fakeProvider struct {
	mu    sync.Mutex
	calls int
	route *da.OutdoorRoute
	err   error
}

func (f *fakeProvider) WalkingRoute(ctx context.Context, origin, destination geo.Coordinate) (*da.OutdoorRoute,
	error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.route, nil
}

func (f *fakeProvider) numCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
