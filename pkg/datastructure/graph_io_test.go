package datastructure

import (
	"strings"
	"testing"

	"github.com/campusmate/campusnav/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waypointsCSV = "\ufeffroom,name,building,floor,lat,lon,type,is_entrance\n" +
	"A,Lobby,Main,1,-6.36000,106.82000,corridor,true\n" +
	"B,,Main,1,-6.36000,106.82005,corridor,\n" +
	"C,Lab 2,Main,2.0,-6.36000,106.82005,lab,nan\n" +
	"L1,,Library,1,-6.36100,106.82100,,\n" +
	"L2,Reading Room,Library,1,-6.36105,106.82100,room,\n"

const edgesCSV = "from,to,distance,type,left_desc,right_desc\n" +
	"A,B,5,walk,,Notice board\n" +
	"B,C,3.5,stairs,Toilet,\n" +
	"L1,L2,6,walk,,\n"

func readTestGraph(t *testing.T, waypoints, edges string) (*CampusGraph, error) {
	t.Helper()
	return ReadCampusGraph(strings.NewReader(waypoints), strings.NewReader(edges))
}

func TestReadCampusGraph(t *testing.T) {
	g, err := readTestGraph(t, waypointsCSV, edgesCSV)
	require.NoError(t, err)

	assert.Equal(t, 5, g.NumberOfWaypoints())
	assert.Equal(t, 3, g.NumberOfEdges())

	a, err := g.Waypoint("A")
	require.NoError(t, err)
	assert.Equal(t, "A (Lobby)", a.Label())
	assert.True(t, a.IsEntrance())
	assert.Equal(t, pkg.CORRIDOR, a.GetKind())

	b, err := g.Waypoint("B")
	require.NoError(t, err)
	assert.Equal(t, "B", b.Label())
	_, hasName := b.GetName()
	assert.False(t, hasName)

	c, err := g.Waypoint("C")
	require.NoError(t, err)
	assert.Equal(t, 2, c.GetFloor())
	assert.Equal(t, pkg.ROOM, c.GetKind())
	assert.False(t, c.IsEntrance())

	ab, ok := g.EdgeBetween("B", "A")
	require.True(t, ok)
	assert.Equal(t, 5.0, ab.GetWeight())
	_, hasLeft := ab.GetLeftDescriptor()
	assert.False(t, hasLeft)
	right, hasRight := ab.GetRightDescriptor()
	assert.True(t, hasRight)
	assert.Equal(t, "Notice board", right)

	// floor 1 -> floor 2
	bc, ok := g.EdgeBetween("B", "C")
	require.True(t, ok)
	assert.Equal(t, pkg.STAIRS_UP, bc.GetModeFrom(b.GetIndex()))
	assert.Equal(t, pkg.STAIRS_DOWN, bc.GetModeFrom(c.GetIndex()))

	edges, err := g.EdgesOf("B")
	require.NoError(t, err)
	assert.Len(t, edges, 2)

	_, err = g.Waypoint("Z")
	assert.ErrorIs(t, err, ErrUnknownWaypoint)
	_, err = g.EdgesOf("Z")
	assert.ErrorIs(t, err, ErrUnknownWaypoint)
}

func TestEntrancesOf(t *testing.T) {
	g, err := readTestGraph(t, waypointsCSV, edgesCSV)
	require.NoError(t, err)

	main := g.EntrancesOf("Main")
	require.Len(t, main, 1)
	assert.Equal(t, "A", main[0].GetID())

	// no flagged entrance: every waypoint of the building is a candidate
	library := g.EntrancesOf("Library")
	require.Len(t, library, 2)
	assert.Equal(t, "L1", library[0].GetID())
	assert.Equal(t, "L2", library[1].GetID())

	assert.Len(t, g.Entrances(), 1)
	assert.True(t, g.HasBuilding("Library"))
	assert.False(t, g.HasBuilding("Gym"))
}

func TestReadCampusGraphErrors(t *testing.T) {
	const header = "room,name,building,floor,lat,lon,type\n"
	const twoRooms = header + "A,,Main,1,-6.36,106.82,room\nB,,Main,2,-6.36,106.83,room\n"
	const edgeHeader = "from,to,distance,type\n"

	tests := []struct {
		name      string
		waypoints string
		edges     string
	}{
		{name: "missing lat", waypoints: header + "A,,Main,1,,106.82,room\n", edges: edgeHeader},
		{name: "lat out of range", waypoints: header + "A,,Main,1,95,106.82,room\n", edges: edgeHeader},
		{name: "non numeric lon", waypoints: header + "A,,Main,1,-6.36,east,room\n", edges: edgeHeader},
		{name: "fractional floor", waypoints: header + "A,,Main,1.5,-6.36,106.82,room\n", edges: edgeHeader},
		{name: "duplicate waypoint id", waypoints: header + "A,,Main,1,-6.36,106.82,room\nA,,Main,1,-6.36,106.83,room\n",
			edges: edgeHeader},
		{name: "missing id column", waypoints: "name,lat,lon\nA,-6.36,106.82\n", edges: edgeHeader},
		{name: "unknown endpoint", waypoints: twoRooms, edges: edgeHeader + "A,Z,4,walk\n"},
		{name: "self loop", waypoints: twoRooms, edges: edgeHeader + "A,A,4,walk\n"},
		{name: "duplicate edge", waypoints: twoRooms, edges: edgeHeader + "A,B,4,walk\nB,A,4,walk\n"},
		{name: "zero distance", waypoints: twoRooms, edges: edgeHeader + "A,B,0,walk\n"},
		{name: "negative distance", waypoints: twoRooms, edges: edgeHeader + "A,B,-2,walk\n"},
		{name: "infinite distance", waypoints: twoRooms, edges: edgeHeader + "A,B,Inf,walk\n"},
		{name: "infinity spelled out", waypoints: twoRooms, edges: edgeHeader + "A,B,+Infinity,walk\n"},
		{name: "nan distance", waypoints: twoRooms, edges: edgeHeader + "A,B,NaN,walk\n"},
		{name: "infinite floor", waypoints: header + "A,,Main,Inf,-6.36,106.82,room\n", edges: edgeHeader},
		{name: "infinite lat", waypoints: header + "A,,Main,1,-Inf,106.82,room\n", edges: edgeHeader},
		{name: "missing distance", waypoints: twoRooms, edges: edgeHeader + "A,B,,walk\n"},
		{name: "unknown mode", waypoints: twoRooms, edges: edgeHeader + "A,B,4,teleport\n"},
		{name: "empty edge table", waypoints: twoRooms, edges: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := readTestGraph(t, tt.waypoints, tt.edges)
			assert.ErrorIs(t, err, ErrLoad)
			assert.Nil(t, g)
		})
	}
}

func TestUndirectedStairsOnSameFloor(t *testing.T) {
	_, err := readTestGraph(t,
		"room,floor,lat,lon\nA,1,-6.36,106.82\nB,1,-6.36,106.83\n",
		"from,to,distance,type\nA,B,4,stairs\n")
	assert.ErrorIs(t, err, ErrLoad)

	g, err := readTestGraph(t,
		"room,floor,lat,lon\nA,3,-6.36,106.82\nB,1,-6.36,106.83\n",
		"from,to,distance,type\nA,B,4,stairs\n")
	require.NoError(t, err)
	e, _ := g.EdgeBetween("A", "B")
	a, _ := g.GetIndex("A")
	assert.Equal(t, pkg.STAIRS_DOWN, e.GetModeFrom(a))
}

func TestEdgelessGraph(t *testing.T) {
	g, err := readTestGraph(t, "id,lat,lon\nX,-6.36,106.82\n", "from,to,distance\n")
	require.NoError(t, err)
	assert.Equal(t, 1, g.NumberOfWaypoints())
	assert.Equal(t, 0, g.NumberOfEdges())

	edges, err := g.EdgesOf("X")
	require.NoError(t, err)
	assert.Empty(t, edges)
}
