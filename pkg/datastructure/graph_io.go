package datastructure

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/campusmate/campusnav/pkg"
	"github.com/campusmate/campusnav/pkg/geo"
)

// WaypointRecord. one raw row of the waypoint table. cells are kept as text until BuildCampusGraph validates them.
type WaypointRecord struct {
	Line       int
	ID         string
	Name       string
	Building   string
	Floor      string
	Lat        string
	Lon        string
	Kind       string
	IsEntrance string
}

// EdgeRecord. one raw row of the edge table.
type EdgeRecord struct {
	Line      int
	From      string
	To        string
	Distance  string
	Mode      string
	LeftDesc  string
	RightDesc string
}

func loadErrorf(table string, line int, format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s row %d: %s", ErrLoad, table, line, fmt.Sprintf(format, a...))
}

// absent. blank cells and the NaN markers spreadsheet exports leave behind.
func absent(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "", "nan", "null", "none", "n/a":
		return true
	}
	return false
}

func parseBool(cell string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "1", "true", "t", "yes", "y":
		return true, nil
	case "0", "false", "f", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", cell)
}

// parseWaypointKind. the type column is free text, anything not naming a corridor or an entrance is a room
// category (classroom, lab, office ...).
func parseWaypointKind(cell string) pkg.WaypointKind {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "corridor", "junction", "corridor_junction", "hallway", "stairs", "elevator":
		return pkg.CORRIDOR
	case "entrance", "door", "exit":
		return pkg.ENTRANCE
	}
	return pkg.ROOM
}

// parseTraversalMode. "stairs" without a direction is resolved later from the endpoint floors.
func parseTraversalMode(cell string) (pkg.TraversalMode, bool, error) {
	switch strings.ToLower(strings.TrimSpace(strings.ReplaceAll(cell, "_", "-"))) {
	case "walk", "corridor":
		return pkg.WALK, false, nil
	case "stairs-up", "stairsup", "up":
		return pkg.STAIRS_UP, false, nil
	case "stairs-down", "stairsdown", "down":
		return pkg.STAIRS_DOWN, false, nil
	case "stairs", "stair":
		return pkg.STAIRS_UP, true, nil
	case "elevator", "lift":
		return pkg.ELEVATOR, false, nil
	case "outdoor", "outside":
		return pkg.OUTDOOR, false, nil
	}
	return pkg.WALK, false, fmt.Errorf("invalid traversal mode %q", cell)
}

func optionalText(cell string) *string {
	if absent(cell) {
		return nil
	}
	s := strings.TrimSpace(cell)
	return &s
}

/*
BuildCampusGraph. validate raw rows and build the immutable campus graph.

any malformed row fails the whole load with an ErrLoad wrapped error, a partially-loaded graph is never returned.
*/
func BuildCampusGraph(waypointRecords []WaypointRecord, edgeRecords []EdgeRecord) (*CampusGraph, error) {
	g := newCampusGraph(len(waypointRecords), len(edgeRecords))

	for _, r := range waypointRecords {
		w, err := buildWaypoint(Index(len(g.waypoints)), r)
		if err != nil {
			return nil, err
		}
		if _, dup := g.idToIndex[w.id]; dup {
			return nil, loadErrorf("waypoints", r.Line, "duplicate waypoint id %q", w.id)
		}
		g.addWaypoint(w)
	}

	for _, r := range edgeRecords {
		e, err := buildEdge(g, Index(len(g.edges)), r)
		if err != nil {
			return nil, err
		}
		g.addEdge(e)
	}

	return g, nil
}

func buildWaypoint(index Index, r WaypointRecord) (*Waypoint, error) {
	if absent(r.ID) {
		return nil, loadErrorf("waypoints", r.Line, "missing waypoint id")
	}
	id := strings.TrimSpace(r.ID)

	if absent(r.Lat) || absent(r.Lon) {
		return nil, loadErrorf("waypoints", r.Line, "waypoint %q: missing lat/lon", id)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(r.Lat), 64)
	if err != nil {
		return nil, loadErrorf("waypoints", r.Line, "waypoint %q: invalid lat %q", id, r.Lat)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(r.Lon), 64)
	if err != nil {
		return nil, loadErrorf("waypoints", r.Line, "waypoint %q: invalid lon %q", id, r.Lon)
	}
	if !geo.IsValidCoordinate(lat, lon) {
		return nil, loadErrorf("waypoints", r.Line, "waypoint %q: lat/lon out of range (%f, %f)", id, lat, lon)
	}

	floor := 0
	if !absent(r.Floor) {
		// pandas writes integer columns with NaN holes as floats ("2.0")
		f, err := strconv.ParseFloat(strings.TrimSpace(r.Floor), 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
			return nil, loadErrorf("waypoints", r.Line, "waypoint %q: invalid floor %q", id, r.Floor)
		}
		floor = int(f)
	}

	kind := pkg.ROOM
	if !absent(r.Kind) {
		kind = parseWaypointKind(r.Kind)
	}

	entrance := kind == pkg.ENTRANCE
	if !absent(r.IsEntrance) {
		flag, err := parseBool(r.IsEntrance)
		if err != nil {
			return nil, loadErrorf("waypoints", r.Line, "waypoint %q: %v", id, err)
		}
		entrance = entrance || flag
	}

	name, hasName := "", false
	if !absent(r.Name) {
		name, hasName = strings.TrimSpace(r.Name), true
	}

	building := ""
	if !absent(r.Building) {
		building = strings.TrimSpace(r.Building)
	}

	return NewWaypoint(index, id, name, hasName, building, floor, lat, lon, kind, entrance), nil
}

func buildEdge(g *CampusGraph, id Index, r EdgeRecord) (*Edge, error) {
	if absent(r.From) || absent(r.To) {
		return nil, loadErrorf("edges", r.Line, "missing from/to waypoint id")
	}
	fromId, toId := strings.TrimSpace(r.From), strings.TrimSpace(r.To)

	from, ok := g.idToIndex[fromId]
	if !ok {
		return nil, loadErrorf("edges", r.Line, "edge references unknown waypoint %q", fromId)
	}
	to, ok := g.idToIndex[toId]
	if !ok {
		return nil, loadErrorf("edges", r.Line, "edge references unknown waypoint %q", toId)
	}
	if from == to {
		return nil, loadErrorf("edges", r.Line, "self-loop on waypoint %q", fromId)
	}
	if _, dup := g.pairToEdge[newEdgeKey(from, to)]; dup {
		return nil, loadErrorf("edges", r.Line, "duplicate edge between %q and %q", fromId, toId)
	}

	if absent(r.Distance) {
		return nil, loadErrorf("edges", r.Line, "edge %q-%q: missing distance", fromId, toId)
	}
	weight, err := strconv.ParseFloat(strings.TrimSpace(r.Distance), 64)
	if err != nil {
		return nil, loadErrorf("edges", r.Line, "edge %q-%q: invalid distance %q", fromId, toId, r.Distance)
	}
	if math.IsInf(weight, 0) || !(weight > 0) {
		return nil, loadErrorf("edges", r.Line, "edge %q-%q: distance must be a positive finite number, got %v",
			fromId, toId, weight)
	}

	mode := pkg.WALK
	if !absent(r.Mode) {
		var undirectedStairs bool
		mode, undirectedStairs, err = parseTraversalMode(r.Mode)
		if err != nil {
			return nil, loadErrorf("edges", r.Line, "edge %q-%q: %v", fromId, toId, err)
		}
		if undirectedStairs {
			fromFloor, toFloor := g.waypoints[from].floor, g.waypoints[to].floor
			switch {
			case fromFloor < toFloor:
				mode = pkg.STAIRS_UP
			case fromFloor > toFloor:
				mode = pkg.STAIRS_DOWN
			default:
				return nil, loadErrorf("edges", r.Line, "edge %q-%q: stairs between waypoints on the same floor",
					fromId, toId)
			}
		}
	}

	return NewEdge(id, from, to, weight, mode, optionalText(r.LeftDesc), optionalText(r.RightDesc)), nil
}

// columnIndex. first header (case-insensitive) among names, -1 if none.
func columnIndex(header []string, names ...string) int {
	for _, name := range names {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), name) {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func readCSV(r io.Reader, table string) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("%w: %s table is empty", ErrLoad, table)
		}
		return nil, nil, fmt.Errorf("%w: %s table: %v", ErrLoad, table, err)
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s table: %v", ErrLoad, table, err)
	}
	return header, rows, nil
}

// ReadWaypointRecords. waypoint table with header (room|id, name, building, floor, lat, lon, type|kind, is_entrance).
func ReadWaypointRecords(r io.Reader) ([]WaypointRecord, error) {
	header, rows, err := readCSV(r, "waypoints")
	if err != nil {
		return nil, err
	}

	idCol := columnIndex(header, "room", "id")
	latCol := columnIndex(header, "lat", "latitude")
	lonCol := columnIndex(header, "lon", "lng", "longitude")
	if idCol < 0 || latCol < 0 || lonCol < 0 {
		return nil, fmt.Errorf("%w: waypoints table: header must contain id, lat and lon columns", ErrLoad)
	}
	nameCol := columnIndex(header, "name")
	buildingCol := columnIndex(header, "building")
	floorCol := columnIndex(header, "floor")
	kindCol := columnIndex(header, "type", "kind")
	entranceCol := columnIndex(header, "is_entrance", "entrance")

	records := make([]WaypointRecord, 0, len(rows))
	for i, row := range rows {
		records = append(records, WaypointRecord{
			Line:       i + 2,
			ID:         cell(row, idCol),
			Name:       cell(row, nameCol),
			Building:   cell(row, buildingCol),
			Floor:      cell(row, floorCol),
			Lat:        cell(row, latCol),
			Lon:        cell(row, lonCol),
			Kind:       cell(row, kindCol),
			IsEntrance: cell(row, entranceCol),
		})
	}
	return records, nil
}

// ReadEdgeRecords. edge table with header (from, to, distance, type|mode, left_desc, right_desc).
func ReadEdgeRecords(r io.Reader) ([]EdgeRecord, error) {
	header, rows, err := readCSV(r, "edges")
	if err != nil {
		return nil, err
	}

	fromCol := columnIndex(header, "from", "from_id")
	toCol := columnIndex(header, "to", "to_id")
	distCol := columnIndex(header, "distance", "weight")
	if fromCol < 0 || toCol < 0 || distCol < 0 {
		return nil, fmt.Errorf("%w: edges table: header must contain from, to and distance columns", ErrLoad)
	}
	modeCol := columnIndex(header, "type", "mode")
	leftCol := columnIndex(header, "left_desc", "left")
	rightCol := columnIndex(header, "right_desc", "right")

	records := make([]EdgeRecord, 0, len(rows))
	for i, row := range rows {
		records = append(records, EdgeRecord{
			Line:      i + 2,
			From:      cell(row, fromCol),
			To:        cell(row, toCol),
			Distance:  cell(row, distCol),
			Mode:      cell(row, modeCol),
			LeftDesc:  cell(row, leftCol),
			RightDesc: cell(row, rightCol),
		})
	}
	return records, nil
}

func ReadCampusGraph(waypoints, edges io.Reader) (*CampusGraph, error) {
	wr, err := ReadWaypointRecords(waypoints)
	if err != nil {
		return nil, err
	}
	er, err := ReadEdgeRecords(edges)
	if err != nil {
		return nil, err
	}
	return BuildCampusGraph(wr, er)
}

// LoadCampusGraph. read both CSV tables from disk.
func LoadCampusGraph(waypointsPath, edgesPath string) (*CampusGraph, error) {
	wf, err := os.Open(waypointsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	defer wf.Close()

	ef, err := os.Open(edgesPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	defer ef.Close()

	return ReadCampusGraph(wf, ef)
}
