package datastructure

import (
	"errors"
	"fmt"
)

var (
	ErrLoad            = errors.New("campus graph load error")
	ErrUnknownWaypoint = errors.New("unknown waypoint")
)

type edgeKey struct {
	u, v Index
}

func newEdgeKey(u, v Index) edgeKey {
	if u > v {
		u, v = v, u
	}
	return edgeKey{u, v}
}

/*
CampusGraph. simple undirected weighted graph of one loaded campus dataset.

read-only after construction, so it is shared by concurrent planning requests without locking. it does not have to
be connected.
*/
type CampusGraph struct {
	waypoints  []*Waypoint
	edges      []*Edge
	adjacency  [][]Index // edge ids per waypoint, in load order
	idToIndex  map[string]Index
	pairToEdge map[edgeKey]Index
	buildings  map[string][]Index
	entrances  []Index
}

func newCampusGraph(numWaypoints, numEdges int) *CampusGraph {
	return &CampusGraph{
		waypoints:  make([]*Waypoint, 0, numWaypoints),
		edges:      make([]*Edge, 0, numEdges),
		adjacency:  make([][]Index, 0, numWaypoints),
		idToIndex:  make(map[string]Index, numWaypoints),
		pairToEdge: make(map[edgeKey]Index, numEdges),
		buildings:  make(map[string][]Index),
		entrances:  make([]Index, 0),
	}
}

func (g *CampusGraph) addWaypoint(w *Waypoint) {
	g.waypoints = append(g.waypoints, w)
	g.adjacency = append(g.adjacency, make([]Index, 0, 2))
	g.idToIndex[w.id] = w.index
	g.buildings[w.building] = append(g.buildings[w.building], w.index)
	if w.entrance {
		g.entrances = append(g.entrances, w.index)
	}
}

func (g *CampusGraph) addEdge(e *Edge) {
	g.edges = append(g.edges, e)
	g.adjacency[e.from] = append(g.adjacency[e.from], e.id)
	g.adjacency[e.to] = append(g.adjacency[e.to], e.id)
	g.pairToEdge[newEdgeKey(e.from, e.to)] = e.id
}

func (g *CampusGraph) NumberOfWaypoints() int {
	return len(g.waypoints)
}

func (g *CampusGraph) NumberOfEdges() int {
	return len(g.edges)
}

func (g *CampusGraph) GetWaypoint(u Index) *Waypoint {
	return g.waypoints[u]
}

func (g *CampusGraph) GetEdge(e Index) *Edge {
	return g.edges[e]
}

func (g *CampusGraph) GetIndex(id string) (Index, bool) {
	u, ok := g.idToIndex[id]
	return u, ok
}

// Waypoint. lookup by id, ErrUnknownWaypoint if absent.
func (g *CampusGraph) Waypoint(id string) (*Waypoint, error) {
	u, ok := g.idToIndex[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWaypoint, id)
	}
	return g.waypoints[u], nil
}

func (g *CampusGraph) EdgesOf(id string) ([]*Edge, error) {
	u, ok := g.idToIndex[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWaypoint, id)
	}
	edges := make([]*Edge, 0, len(g.adjacency[u]))
	for _, eId := range g.adjacency[u] {
		edges = append(edges, g.edges[eId])
	}
	return edges, nil
}

func (g *CampusGraph) EdgeBetween(idA, idB string) (*Edge, bool) {
	u, okU := g.idToIndex[idA]
	v, okV := g.idToIndex[idB]
	if !okU || !okV {
		return nil, false
	}
	return g.EdgeBetweenIndex(u, v)
}

func (g *CampusGraph) EdgeBetweenIndex(u, v Index) (*Edge, bool) {
	eId, ok := g.pairToEdge[newEdgeKey(u, v)]
	if !ok {
		return nil, false
	}
	return g.edges[eId], true
}

// ForEdgesOf. iterate the incident edges of u in load order, v is the opposite endpoint.
func (g *CampusGraph) ForEdgesOf(u Index, handle func(e *Edge, v Index)) {
	for _, eId := range g.adjacency[u] {
		e := g.edges[eId]
		handle(e, e.GetOther(u))
	}
}

func (g *CampusGraph) ForWaypoints(handle func(w *Waypoint)) {
	for _, w := range g.waypoints {
		handle(w)
	}
}

func (g *CampusGraph) HasBuilding(building string) bool {
	_, ok := g.buildings[building]
	return ok
}

// WaypointsInBuilding. in load order.
func (g *CampusGraph) WaypointsInBuilding(building string) []*Waypoint {
	ids := g.buildings[building]
	ws := make([]*Waypoint, 0, len(ids))
	for _, u := range ids {
		ws = append(ws, g.waypoints[u])
	}
	return ws
}

// EntrancesOf. entrance waypoints of the building in load order. a building without any flagged entrance
// falls back to all of its waypoints.
func (g *CampusGraph) EntrancesOf(building string) []*Waypoint {
	inBuilding := g.WaypointsInBuilding(building)
	entrances := make([]*Waypoint, 0, 2)
	for _, w := range inBuilding {
		if w.entrance {
			entrances = append(entrances, w)
		}
	}
	if len(entrances) == 0 {
		return inBuilding
	}
	return entrances
}

// Entrances. every flagged entrance of the campus, in load order.
func (g *CampusGraph) Entrances() []*Waypoint {
	ws := make([]*Waypoint, 0, len(g.entrances))
	for _, u := range g.entrances {
		ws = append(ws, g.waypoints[u])
	}
	return ws
}
