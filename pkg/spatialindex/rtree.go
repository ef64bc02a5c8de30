package spatialindex

import (
	"sort"

	da "github.com/campusmate/campusnav/pkg/datastructure"
	"github.com/campusmate/campusnav/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

type Rtree struct {
	tr *rtree.RTreeG[*da.Waypoint]
}

// Nearby. waypoint found by a radius query with its great-circle distance to the query point.
type Nearby struct {
	waypoint *da.Waypoint
	distance float64
}

func (n Nearby) GetWaypoint() *da.Waypoint {
	return n.waypoint
}

// GetDistance. meters.
func (n Nearby) GetDistance() float64 {
	return n.distance
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[*da.Waypoint]
	return &Rtree{
		tr: &tr,
	}
}

// Build. one point leaf per waypoint, keyed [lon, lat].
func (rt *Rtree) Build(graph *da.CampusGraph, log *zap.Logger) {
	log.Info("Building R-tree spatial index...")
	graph.ForWaypoints(func(w *da.Waypoint) {
		p := w.GetCoordinate().LonLat()
		rt.tr.Insert(p, p, w)
	})
	log.Info("R-tree spatial index built.", zap.Int("waypoints", rt.tr.Len()))
}

func (rt *Rtree) Len() int {
	return rt.tr.Len()
}

/*
SearchWithinRadius. waypoints within radius (meters) of (qLat, qLon), nearest first.

the bounding box from GetDestinationPoint at 225 and 45 degrees contains the circle, candidates are then filtered by
haversine distance. limit <= 0 means no limit.
*/
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radius float64, limit int) []Nearby {
	// half-diagonal of the enclosing square
	diag := radius * 1.4142135623730951
	lowerLat, lowerLon := geo.GetDestinationPoint(qLat, qLon, 225, diag)
	upperLat, upperLon := geo.GetDestinationPoint(qLat, qLon, 45, diag)

	results := make([]Nearby, 0, 10)
	rt.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, w *da.Waypoint) bool {
			d := geo.HaversineDistance(qLat, qLon, w.GetLat(), w.GetLon())
			if d <= radius {
				results = append(results, Nearby{waypoint: w, distance: d})
			}
			return true
		})

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].distance != results[j].distance {
			return results[i].distance < results[j].distance
		}
		return results[i].waypoint.GetIndex() < results[j].waypoint.GetIndex()
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
