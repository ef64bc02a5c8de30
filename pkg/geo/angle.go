package geo

import (
	"math"

	"github.com/campusmate/campusnav/pkg"
	"github.com/campusmate/campusnav/pkg/util"
)

/*
PlanarBearing. angle (degree) of the vector a->b as atan2(Δlat, Δlon).

this is a local planar approximation, not the geographic initial bearing. it is only used to compare two
consecutive vectors a few tens of meters long, where the distortion of treating lat/lon as a flat grid cancels out.
*/
func PlanarBearing(a, b Coordinate) float64 {
	return util.RadiansToDegree(math.Atan2(b.Lat-a.Lat, b.Lon-a.Lon))
}

// NormalizeDeltaBearing. wrap a bearing difference into (-180°, 180°].
func NormalizeDeltaBearing(delta float64) float64 {
	for delta > 180 {
		delta -= 360
	}
	for delta <= -180 {
		delta += 360
	}
	return delta
}

/*
ClassifyTurn. turn directive at b when walking a -> b -> c.

	            c
	           /
	          /  Δ > 0 (counter-clockwise) -> left
	a ------ b
	          \
	           \ Δ < 0 (clockwise) -> right
	            c
*/ // nolint: gofmt
func ClassifyTurn(a, b, c Coordinate) pkg.TurnDirective {
	delta := NormalizeDeltaBearing(PlanarBearing(b, c) - PlanarBearing(a, b))
	return ClassifyDeltaBearing(delta)
}

// ClassifyDeltaBearing. |Δ| < 25° is straight, Δ == 25° is already a turn.
func ClassifyDeltaBearing(delta float64) pkg.TurnDirective {
	if math.Abs(delta) < pkg.STRAIGHT_THRESHOLD_DEGREE {
		return pkg.STRAIGHT
	} else if delta > 0 {
		return pkg.LEFT
	}
	return pkg.RIGHT
}
