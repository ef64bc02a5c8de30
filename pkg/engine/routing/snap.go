package routing

import (
	"math"

	da "github.com/campusmate/campusnav/pkg/datastructure"
	"github.com/campusmate/campusnav/pkg/geo"
)

func nearestOf(candidates []*da.Waypoint, lat, lon float64) (*da.Waypoint, float64) {
	var (
		best     *da.Waypoint
		bestDist = math.Inf(1)
	)
	for _, w := range candidates {
		d := geo.HaversineDistance(lat, lon, w.GetLat(), w.GetLon())
		if d < bestDist {
			best, bestDist = w, d
		}
	}
	return best, bestDist
}

/*
NearestWaypoint. snap a live coordinate to the closest waypoint (linear scan, campus graphs are small).

when even the closest waypoint is farther than farThresholdMeters the user is clearly outside, so if the campus
has any entrance the scan is repeated over entrances only and the nearest door wins over the nearest room.
*/
func NearestWaypoint(graph *da.CampusGraph, lat, lon, farThresholdMeters float64) (*da.Waypoint, float64, error) {
	all := make([]*da.Waypoint, 0, graph.NumberOfWaypoints())
	graph.ForWaypoints(func(w *da.Waypoint) {
		all = append(all, w)
	})
	if len(all) == 0 {
		return nil, 0, ErrEmptyGraph
	}

	best, bestDist := nearestOf(all, lat, lon)
	if bestDist <= farThresholdMeters {
		return best, bestDist, nil
	}

	entrances := graph.Entrances()
	if len(entrances) == 0 {
		return best, bestDist, nil
	}
	entrance, entranceDist := nearestOf(entrances, lat, lon)
	return entrance, entranceDist, nil
}
