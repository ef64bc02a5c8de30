package datastructure

import (
	"github.com/campusmate/campusnav/pkg"
	"github.com/campusmate/campusnav/pkg/geo"
)

// RouteSegment. one traversed step of an indoor leg. produced per request, never stored.
type RouteSegment struct {
	from    *Waypoint
	to      *Waypoint
	edge    *Edge
	mode    pkg.TraversalMode
	turn    pkg.TurnDirective
	hasTurn bool
}

func (s RouteSegment) GetFrom() *Waypoint {
	return s.from
}

func (s RouteSegment) GetTo() *Waypoint {
	return s.to
}

func (s RouteSegment) GetEdge() *Edge {
	return s.edge
}

// GetMode. mode in the traversal direction.
func (s RouteSegment) GetMode() pkg.TraversalMode {
	return s.mode
}

// GetTurn. false when no lookahead point exists for this segment.
func (s RouteSegment) GetTurn() (pkg.TurnDirective, bool) {
	return s.turn, s.hasTurn
}

/*
NewRouteSegments. pair each traversed edge with its endpoints and classify the turn at its head.

a planar segment i gets a turn only when segment i+1 exists and is planar too, the turn being computed from
path[i], path[i+1], path[i+2]. the last segment of a leg never gets one, and neither does a walk that ends at a
staircase or elevator since the next move has no 2D bearing.
*/
func NewRouteSegments(path []*Waypoint, edges []*Edge) []RouteSegment {
	segments := make([]RouteSegment, len(edges))
	for i, e := range edges {
		segments[i] = RouteSegment{
			from: path[i],
			to:   path[i+1],
			edge: e,
			mode: e.GetModeFrom(path[i].GetIndex()),
		}
	}

	for i := 0; i+1 < len(segments); i++ {
		if !segments[i].mode.IsPlanar() || !segments[i+1].mode.IsPlanar() {
			continue
		}
		segments[i].turn = geo.ClassifyTurn(path[i].GetCoordinate(), path[i+1].GetCoordinate(),
			path[i+2].GetCoordinate())
		segments[i].hasTurn = true
	}
	return segments
}

// Maneuver. one provider step of an outdoor leg.
type Maneuver struct {
	Type     string
	Modifier string
	Name     string
	Distance float64
}

// OutdoorRoute. provider answer for a walking route between two entrances.
type OutdoorRoute struct {
	coordinates []geo.Coordinate
	maneuvers   []Maneuver
	distance    float64
}

func NewOutdoorRoute(coordinates []geo.Coordinate, maneuvers []Maneuver, distance float64) *OutdoorRoute {
	return &OutdoorRoute{
		coordinates: coordinates,
		maneuvers:   maneuvers,
		distance:    distance,
	}
}

func (o *OutdoorRoute) GetCoordinates() []geo.Coordinate {
	return o.coordinates
}

func (o *OutdoorRoute) GetManeuvers() []Maneuver {
	return o.maneuvers
}

func (o *OutdoorRoute) GetDistance() float64 {
	return o.distance
}

type LegKind uint8

const (
	APPROACH_LEG LegKind = iota
	INDOOR_LEG
	OUTDOOR_LEG
)

func (k LegKind) String() string {
	switch k {
	case APPROACH_LEG:
		return "approach"
	case OUTDOOR_LEG:
		return "outdoor"
	default:
		return "indoor"
	}
}

// Leg. contiguous indoor or outdoor part of a route.
type Leg struct {
	kind         LegKind
	from         string
	to           string
	coordinates  []geo.Coordinate
	instructions []string
	distance     float64
	degraded     bool
	failed       bool
}

func NewLeg(kind LegKind, from, to string, coordinates []geo.Coordinate, instructions []string,
	distance float64) Leg {
	return Leg{
		kind:         kind,
		from:         from,
		to:           to,
		coordinates:  coordinates,
		instructions: instructions,
		distance:     distance,
	}
}

// NewDegradedLeg. outdoor leg built from the straight-line fallback.
func NewDegradedLeg(from, to string, coordinates []geo.Coordinate, instructions []string, distance float64) Leg {
	l := NewLeg(OUTDOOR_LEG, from, to, coordinates, instructions, distance)
	l.degraded = true
	return l
}

// NewFailedLeg. indoor leg without any path, carries only the explanatory instruction.
func NewFailedLeg(from, to string, instruction string) Leg {
	l := NewLeg(INDOOR_LEG, from, to, nil, []string{instruction}, 0)
	l.failed = true
	return l
}

func (l Leg) GetKind() LegKind {
	return l.kind
}

func (l Leg) GetFrom() string {
	return l.from
}

func (l Leg) GetTo() string {
	return l.to
}

func (l Leg) GetCoordinates() []geo.Coordinate {
	return l.coordinates
}

func (l Leg) GetInstructions() []string {
	return l.instructions
}

func (l Leg) GetDistance() float64 {
	return l.distance
}

func (l Leg) IsDegraded() bool {
	return l.degraded
}

func (l Leg) IsFailed() bool {
	return l.failed
}

// Route. result of one planning request, held by the caller and never cached.
type Route struct {
	coordinates  []geo.Coordinate
	instructions []string
	distance     float64
	legs         []Leg
}

/*
NewRoute. concatenate legs in order. the junction point between two legs is dropped only when it is exactly the
same coordinate, near-but-not-equal points stay as distinct vertices.
*/
func NewRoute(legs []Leg) *Route {
	r := &Route{
		coordinates:  make([]geo.Coordinate, 0),
		instructions: make([]string, 0),
		legs:         legs,
	}
	for _, leg := range legs {
		for i, c := range leg.coordinates {
			if i == 0 && len(r.coordinates) > 0 && r.coordinates[len(r.coordinates)-1] == c {
				continue
			}
			r.coordinates = append(r.coordinates, c)
		}
		r.instructions = append(r.instructions, leg.instructions...)
		r.distance += leg.distance
	}
	return r
}

func (r *Route) GetCoordinates() []geo.Coordinate {
	return r.coordinates
}

// GetLonLats. [longitude, latitude] pairs for polyline map components.
func (r *Route) GetLonLats() [][2]float64 {
	out := make([][2]float64, len(r.coordinates))
	for i, c := range r.coordinates {
		out[i] = c.LonLat()
	}
	return out
}

func (r *Route) GetInstructions() []string {
	return r.instructions
}

// GetDistance. meters, untruncated.
func (r *Route) GetDistance() float64 {
	return r.distance
}

func (r *Route) GetLegs() []Leg {
	return r.legs
}

// IsDegraded. some outdoor leg fell back to the straight line.
func (r *Route) IsDegraded() bool {
	for _, l := range r.legs {
		if l.degraded {
			return true
		}
	}
	return false
}

// IsPartial. some indoor leg had no path.
func (r *Route) IsPartial() bool {
	for _, l := range r.legs {
		if l.failed {
			return true
		}
	}
	return false
}
