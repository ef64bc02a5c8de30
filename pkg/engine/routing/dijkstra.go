package routing

import (
	"fmt"

	"github.com/campusmate/campusnav/pkg"
	da "github.com/campusmate/campusnav/pkg/datastructure"
	"github.com/campusmate/campusnav/pkg/util"
)

/*
Dijkstra. single query state over the campus graph. not reused across requests, every query allocates its own
labels so concurrent requests only share the read-only graph.

ties between equally short paths are not special-cased: the path is whatever the natural expansion order (heap
order, then adjacency load order) settles first.
*/
type Dijkstra struct {
	graph *da.CampusGraph

	info []VertexInfo
	pq   *da.MinHeap[da.Index]
}

func NewDijkstra(graph *da.CampusGraph) *Dijkstra {
	n := graph.NumberOfWaypoints()
	info := make([]VertexInfo, n)
	for i := range info {
		info[i] = newVertexInfo()
	}
	pq := da.NewFourAryHeap[da.Index]()
	pq.Preallocate(n)
	return &Dijkstra{
		graph: graph,
		info:  info,
		pq:    pq,
	}
}

// search. settle vertices from s until t is settled, or the whole component when t is INVALID_INDEX.
func (d *Dijkstra) search(s, t da.Index) {
	sNode := da.NewPriorityQueueNode(0, s)
	d.info[s].update(0, da.INVALID_INDEX, da.INVALID_INDEX)
	d.info[s].heapNode = sNode
	d.pq.Insert(sNode)

	for !d.pq.IsEmpty() {
		node, _ := d.pq.ExtractMin()
		u := node.GetItem()
		d.info[u].settled = true

		if u == t {
			return
		}

		uDist := d.info[u].dist
		d.graph.ForEdgesOf(u, func(e *da.Edge, v da.Index) {
			if d.info[v].settled {
				return
			}
			newDist := uDist + e.GetWeight()
			if d.info[v].IsLabelled() && newDist >= d.info[v].dist {
				return
			}

			if d.info[v].IsLabelled() {
				d.info[v].update(newDist, u, e.GetID())
				// labelled and unsettled means v is still in the heap
				if err := d.pq.DecreaseKey(d.info[v].heapNode, newDist); err != nil {
					panic(fmt.Sprintf("dijkstra: decrease key of waypoint %d to %f: %v", v, newDist, err))
				}
			} else {
				vNode := da.NewPriorityQueueNode(newDist, v)
				d.info[v].update(newDist, u, e.GetID())
				d.info[v].heapNode = vNode
				d.pq.Insert(vNode)
			}
		})
	}
}

// ShortestPath. waypoint sequence and traversed edges from s to t.
func (d *Dijkstra) ShortestPath(s, t da.Index) ([]*da.Waypoint, []*da.Edge, float64, bool) {
	if s == t {
		return []*da.Waypoint{d.graph.GetWaypoint(s)}, []*da.Edge{}, 0, true
	}

	d.search(s, t)
	if !d.info[t].settled {
		return nil, nil, pkg.INF_WEIGHT, false
	}

	path := make([]*da.Waypoint, 0)
	edges := make([]*da.Edge, 0)
	for v := t; v != s; v = d.info[v].parent {
		path = append(path, d.graph.GetWaypoint(v))
		edges = append(edges, d.graph.GetEdge(d.info[v].edge))
	}
	path = append(path, d.graph.GetWaypoint(s))

	return util.ReverseG(path), util.ReverseG(edges), d.info[t].dist, true
}

// Distances. single-source shortest distances from s, INF_WEIGHT for unreachable waypoints.
func (d *Dijkstra) Distances(s da.Index) []float64 {
	d.search(s, da.INVALID_INDEX)
	dist := make([]float64, len(d.info))
	for v := range d.info {
		dist[v] = d.info[v].dist
	}
	return dist
}

/*
IndoorPlanner. public by-id facade over Dijkstra, also used by RouteComposer for every indoor leg. each call runs
a fresh single-use search, so one planner is safe for concurrent use.
*/
type IndoorPlanner struct {
	graph *da.CampusGraph
}

func NewIndoorPlanner(graph *da.CampusGraph) *IndoorPlanner {
	return &IndoorPlanner{graph: graph}
}

/*
ShortestPath. identical start and end is a zero-length path with a single waypoint and no edge. disconnected
waypoints return ErrNoPathFound.
*/
func (p *IndoorPlanner) ShortestPath(startId, endId string) ([]*da.Waypoint, []*da.Edge, error) {
	start, err := p.graph.Waypoint(startId)
	if err != nil {
		return nil, nil, err
	}
	end, err := p.graph.Waypoint(endId)
	if err != nil {
		return nil, nil, err
	}
	return p.Between(start, end)
}

// Between. ShortestPath for waypoints already resolved from the graph.
func (p *IndoorPlanner) Between(start, end *da.Waypoint) ([]*da.Waypoint, []*da.Edge, error) {
	path, edges, _, found := NewDijkstra(p.graph).ShortestPath(start.GetIndex(), end.GetIndex())
	if !found {
		return nil, nil, fmt.Errorf("%w: from %s to %s", ErrNoPathFound, start.GetID(), end.GetID())
	}
	return path, edges, nil
}

// PathWeight. sum of traversed edge weights in meters.
func PathWeight(edges []*da.Edge) float64 {
	total := 0.0
	for _, e := range edges {
		total += e.GetWeight()
	}
	return total
}

// IsReachable. distance returned by Distances belongs to a settled waypoint.
func IsReachable(dist float64) bool {
	return dist < pkg.INF_WEIGHT
}
