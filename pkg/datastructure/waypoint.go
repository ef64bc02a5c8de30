package datastructure

import (
	"fmt"

	"github.com/campusmate/campusnav/pkg"
	"github.com/campusmate/campusnav/pkg/geo"
)

type Index uint32

const INVALID_INDEX = Index(^uint32(0))

// Waypoint. a located point of the indoor graph (room, corridor junction, entrance). immutable after load.
type Waypoint struct {
	index    Index
	id       string
	name     string
	hasName  bool
	building string
	floor    int
	lat      float64
	lon      float64
	kind     pkg.WaypointKind
	entrance bool
}

func NewWaypoint(index Index, id, name string, hasName bool, building string, floor int, lat, lon float64,
	kind pkg.WaypointKind, entrance bool) *Waypoint {
	return &Waypoint{
		index:    index,
		id:       id,
		name:     name,
		hasName:  hasName,
		building: building,
		floor:    floor,
		lat:      lat,
		lon:      lon,
		kind:     kind,
		entrance: entrance,
	}
}

func (w *Waypoint) GetIndex() Index {
	return w.index
}

func (w *Waypoint) GetID() string {
	return w.id
}

// GetName. false when the input row had no display name.
func (w *Waypoint) GetName() (string, bool) {
	return w.name, w.hasName
}

func (w *Waypoint) GetBuilding() string {
	return w.building
}

func (w *Waypoint) GetFloor() int {
	return w.floor
}

func (w *Waypoint) GetLat() float64 {
	return w.lat
}

func (w *Waypoint) GetLon() float64 {
	return w.lon
}

func (w *Waypoint) GetCoordinate() geo.Coordinate {
	return geo.NewCoordinate(w.lat, w.lon)
}

func (w *Waypoint) GetKind() pkg.WaypointKind {
	return w.kind
}

func (w *Waypoint) IsEntrance() bool {
	return w.entrance
}

// Label. "id (name)" or just "id".
func (w *Waypoint) Label() string {
	if w.hasName {
		return fmt.Sprintf("%s (%s)", w.id, w.name)
	}
	return w.id
}
