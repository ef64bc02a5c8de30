package engine

import (
	"runtime"
	"sort"

	"github.com/campusmate/campusnav/pkg/concurrent"
	da "github.com/campusmate/campusnav/pkg/datastructure"
	"github.com/campusmate/campusnav/pkg/engine/routing"
	"github.com/campusmate/campusnav/pkg/spatialindex"
	"go.uber.org/zap"
)

type Engine struct {
	graph    *da.CampusGraph
	composer *routing.RouteComposer
	rtree    *spatialindex.Rtree
}

func (e *Engine) GetGraph() *da.CampusGraph {
	return e.graph
}

func (e *Engine) GetRouteComposer() *routing.RouteComposer {
	return e.composer
}

func (e *Engine) GetSpatialIndex() *spatialindex.Rtree {
	return e.rtree
}

// NewEngineFromFiles. load the campus graph from the two csv tables and build the query engine around it.
func NewEngineFromFiles(waypointsPath, edgesPath string, provider routing.OutdoorRouteProvider,
	farThresholdMeters float64, logger *zap.Logger) (*Engine, error) {

	logger.Info("Reading campus graph", zap.String("waypoints", waypointsPath), zap.String("edges", edgesPath))
	graph, err := da.LoadCampusGraph(waypointsPath, edgesPath)
	if err != nil {
		return nil, err
	}
	return NewEngine(graph, provider, farThresholdMeters, logger), nil
}

func NewEngine(graph *da.CampusGraph, provider routing.OutdoorRouteProvider, farThresholdMeters float64,
	logger *zap.Logger) *Engine {
	logger.Info("Campus graph loaded", zap.Int("waypoints", graph.NumberOfWaypoints()),
		zap.Int("edges", graph.NumberOfEdges()), zap.Int("entrances", len(graph.Entrances())))

	rtree := spatialindex.NewRtree()
	rtree.Build(graph, logger)

	for _, r := range AuditEntranceReachability(graph) {
		logger.Warn("waypoints cannot reach any entrance of their building",
			zap.String("building", r.Building), zap.Strings("waypoints", r.Unreachable))
	}

	return &Engine{
		graph:    graph,
		composer: routing.NewRouteComposer(graph, provider, logger, farThresholdMeters),
		rtree:    rtree,
	}
}

// BuildingReachability. waypoints of one building with no indoor path to any of its entrances.
type BuildingReachability struct {
	Building    string
	Unreachable []string
}

/*
AuditEntranceReachability. per building, one single-source search from each entrance not already reached from an
earlier one, buildings spread over a worker pool. buildings without any
flagged entrance are skipped since every waypoint there acts as an entrance. only buildings with at least one
unreachable waypoint are returned, sorted by building name.
*/
func AuditEntranceReachability(graph *da.CampusGraph) []BuildingReachability {
	buildings := make([]string, 0)
	seen := make(map[string]struct{})
	for _, e := range graph.Entrances() {
		if _, ok := seen[e.GetBuilding()]; ok {
			continue
		}
		seen[e.GetBuilding()] = struct{}{}
		buildings = append(buildings, e.GetBuilding())
	}

	results := concurrent.RunAll(runtime.NumCPU(), buildings, func(building string) BuildingReachability {
		return auditBuilding(graph, building)
	})

	out := make([]BuildingReachability, 0)
	for _, r := range results {
		if len(r.Unreachable) > 0 {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Building < out[j].Building
	})
	return out
}

func auditBuilding(graph *da.CampusGraph, building string) BuildingReachability {
	reachable := make(map[da.Index]bool)
	for _, entrance := range graph.EntrancesOf(building) {
		if reachable[entrance.GetIndex()] {
			continue
		}
		dist := routing.NewDijkstra(graph).Distances(entrance.GetIndex())
		for _, w := range graph.WaypointsInBuilding(building) {
			if routing.IsReachable(dist[w.GetIndex()]) {
				reachable[w.GetIndex()] = true
			}
		}
	}

	res := BuildingReachability{Building: building, Unreachable: make([]string, 0)}
	for _, w := range graph.WaypointsInBuilding(building) {
		if !reachable[w.GetIndex()] {
			res.Unreachable = append(res.Unreachable, w.GetID())
		}
	}
	return res
}
