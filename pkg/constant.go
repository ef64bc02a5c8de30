package pkg

// TraversalMode is how an edge is walked.
type TraversalMode uint8

const (
	WALK TraversalMode = iota
	STAIRS_UP
	STAIRS_DOWN
	ELEVATOR
	OUTDOOR
)

func (m TraversalMode) String() string {
	switch m {
	case WALK:
		return "walk"
	case STAIRS_UP:
		return "stairs-up"
	case STAIRS_DOWN:
		return "stairs-down"
	case ELEVATOR:
		return "elevator"
	case OUTDOOR:
		return "outdoor"
	default:
		return "unknown"
	}
}

// Reverse. mode seen when the edge is traversed against its declared direction.
func (m TraversalMode) Reverse() TraversalMode {
	switch m {
	case STAIRS_UP:
		return STAIRS_DOWN
	case STAIRS_DOWN:
		return STAIRS_UP
	default:
		return m
	}
}

// IsPlanar reports whether a 2D bearing is meaningful for the mode.
func (m TraversalMode) IsPlanar() bool {
	return m == WALK || m == OUTDOOR
}

type WaypointKind uint8

const (
	ROOM WaypointKind = iota
	CORRIDOR
	ENTRANCE
)

func (k WaypointKind) String() string {
	switch k {
	case CORRIDOR:
		return "corridor"
	case ENTRANCE:
		return "entrance"
	default:
		return "room"
	}
}

// TurnDirective is the discrete result of classifying the bearing change at a waypoint.
type TurnDirective uint8

const (
	STRAIGHT TurnDirective = iota
	LEFT
	RIGHT
)

func (t TurnDirective) String() string {
	switch t {
	case LEFT:
		return "left"
	case RIGHT:
		return "right"
	default:
		return "straight"
	}
}

const (
	INF_WEIGHT float64 = 1e15

	EARTH_RADIUS_M = 6371000.0

	// |bearing delta| strictly below this is straight.
	STRAIGHT_THRESHOLD_DEGREE = 25.0

	DEFAULT_SNAP_FAR_THRESHOLD_METERS       = 200.0
	DEFAULT_OUTDOOR_PROVIDER_TIMEOUT_SECOND = 12
)
