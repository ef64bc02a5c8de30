package routing

import (
	"errors"
	"fmt"
)

var (
	ErrNoPathFound  = errors.New("no path found")
	ErrNoRouteFound = errors.New("no route found")
)

// BrokenLeg. which indoor leg of a request had no connectivity.
type BrokenLeg uint8

const (
	LEG_INDOOR BrokenLeg = iota
	LEG_START_INDOOR
	LEG_END_INDOOR
)

func (b BrokenLeg) String() string {
	switch b {
	case LEG_START_INDOOR:
		return "start building"
	case LEG_END_INDOOR:
		return "destination building"
	default:
		return "indoor"
	}
}

// LegError. partial-route failure, matches both ErrNoRouteFound and ErrNoPathFound.
type LegError struct {
	leg  BrokenLeg
	from string
	to   string
	err  error
}

func newLegError(leg BrokenLeg, from, to string, err error) *LegError {
	return &LegError{leg: leg, from: from, to: to, err: err}
}

func (e *LegError) Error() string {
	return fmt.Sprintf("no %s path from %s to %s", e.leg, e.from, e.to)
}

func (e *LegError) Unwrap() []error {
	return []error{ErrNoRouteFound, e.err}
}

func (e *LegError) GetLeg() BrokenLeg {
	return e.leg
}

func (e *LegError) GetFrom() string {
	return e.from
}

func (e *LegError) GetTo() string {
	return e.to
}

var ErrEmptyGraph = errors.New("campus graph has no waypoints")
