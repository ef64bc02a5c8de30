package datastructure

import "github.com/campusmate/campusnav/pkg"

// Edge. undirected connection between two waypoints. mode is declared in the from -> to direction.
type Edge struct {
	id        Index
	from      Index
	to        Index
	weight    float64
	mode      pkg.TraversalMode
	leftDesc  *string
	rightDesc *string
}

func NewEdge(id, from, to Index, weight float64, mode pkg.TraversalMode, leftDesc, rightDesc *string) *Edge {
	return &Edge{
		id:        id,
		from:      from,
		to:        to,
		weight:    weight,
		mode:      mode,
		leftDesc:  leftDesc,
		rightDesc: rightDesc,
	}
}

func (e *Edge) GetID() Index {
	return e.id
}

func (e *Edge) GetFrom() Index {
	return e.from
}

func (e *Edge) GetTo() Index {
	return e.to
}

// GetWeight. distance in meters.
func (e *Edge) GetWeight() float64 {
	return e.weight
}

func (e *Edge) GetMode() pkg.TraversalMode {
	return e.mode
}

// GetModeFrom. mode as experienced when leaving u. stairs flip direction when walked backwards.
func (e *Edge) GetModeFrom(u Index) pkg.TraversalMode {
	if u == e.from {
		return e.mode
	}
	return e.mode.Reverse()
}

// GetOther. the endpoint that is not u.
func (e *Edge) GetOther(u Index) Index {
	if u == e.from {
		return e.to
	}
	return e.from
}

func (e *Edge) GetLeftDescriptor() (string, bool) {
	if e.leftDesc == nil {
		return "", false
	}
	return *e.leftDesc, true
}

func (e *Edge) GetRightDescriptor() (string, bool) {
	if e.rightDesc == nil {
		return "", false
	}
	return *e.rightDesc, true
}
