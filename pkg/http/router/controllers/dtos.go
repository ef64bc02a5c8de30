package controllers

import (
	da "github.com/campusmate/campusnav/pkg/datastructure"
	"github.com/campusmate/campusnav/pkg/geo"
	"github.com/campusmate/campusnav/pkg/spatialindex"
	"github.com/campusmate/campusnav/pkg/util"
)

type routeByIdRequest struct {
	StartID string `json:"start_id" validate:"required,max=128"`
	EndID   string `json:"end_id" validate:"required,max=128"`
}

type routeByPositionRequest struct {
	OriginLat float64 `json:"origin_lat" validate:"min=-90,max=90"`
	OriginLon float64 `json:"origin_lon" validate:"min=-180,max=180"`
	EndID     string  `json:"end_id" validate:"required,max=128"`
}

type positionRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

type nearbyRequest struct {
	Lat    float64 `json:"lat" validate:"min=-90,max=90"`
	Lon    float64 `json:"lon" validate:"min=-180,max=180"`
	Radius float64 `json:"radius" validate:"gt=0"`
	Limit  int     `json:"limit" validate:"min=0,max=200"`
}

// liveRequest. one websocket frame. end_id and route are optional.
type liveRequest struct {
	Lat   float64 `json:"lat" validate:"min=-90,max=90"`
	Lon   float64 `json:"lon" validate:"min=-180,max=180"`
	EndID string  `json:"end_id" validate:"max=128"`
	Route string  `json:"route"`
}

type legResponse struct {
	Kind         string   `json:"kind"`
	From         string   `json:"from,omitempty"`
	To           string   `json:"to"`
	Distance     int      `json:"distance"`
	Instructions []string `json:"instructions"`
	Degraded     bool     `json:"degraded"`
	Failed       bool     `json:"failed"`
}

type routeResponse struct {
	Coordinates  [][2]float64  `json:"coordinates"`
	Path         string        `json:"path"`
	Instructions []string      `json:"instructions"`
	Distance     int           `json:"distance"`
	Degraded     bool          `json:"degraded"`
	Partial      bool          `json:"partial"`
	Legs         []legResponse `json:"legs"`
}

func NewRouteResponse(route *da.Route) routeResponse {
	legs := make([]legResponse, 0, len(route.GetLegs()))
	for _, l := range route.GetLegs() {
		legs = append(legs, legResponse{
			Kind:         l.GetKind().String(),
			From:         l.GetFrom(),
			To:           l.GetTo(),
			Distance:     util.TruncateMeters(l.GetDistance()),
			Instructions: l.GetInstructions(),
			Degraded:     l.IsDegraded(),
			Failed:       l.IsFailed(),
		})
	}
	return routeResponse{
		Coordinates:  route.GetLonLats(),
		Path:         geo.PolylineFromCoords(route.GetCoordinates()),
		Instructions: route.GetInstructions(),
		Distance:     util.TruncateMeters(route.GetDistance()),
		Degraded:     route.IsDegraded(),
		Partial:      route.IsPartial(),
		Legs:         legs,
	}
}

type waypointResponse struct {
	ID         string  `json:"id"`
	Name       *string `json:"name,omitempty"`
	Label      string  `json:"label"`
	Building   string  `json:"building"`
	Floor      int     `json:"floor"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Kind       string  `json:"kind"`
	IsEntrance bool    `json:"is_entrance"`
}

func NewWaypointResponse(w *da.Waypoint) waypointResponse {
	resp := waypointResponse{
		ID:         w.GetID(),
		Label:      w.Label(),
		Building:   w.GetBuilding(),
		Floor:      w.GetFloor(),
		Lat:        w.GetLat(),
		Lon:        w.GetLon(),
		Kind:       w.GetKind().String(),
		IsEntrance: w.IsEntrance(),
	}
	if name, ok := w.GetName(); ok {
		resp.Name = &name
	}
	return resp
}

func NewWaypointsResponse(ws []*da.Waypoint) []waypointResponse {
	out := make([]waypointResponse, 0, len(ws))
	for _, w := range ws {
		out = append(out, NewWaypointResponse(w))
	}
	return out
}

type snapResponse struct {
	Waypoint waypointResponse `json:"waypoint"`
	Distance float64          `json:"distance"`
}

func NewSnapResponse(w *da.Waypoint, dist float64) snapResponse {
	return snapResponse{
		Waypoint: NewWaypointResponse(w),
		Distance: dist,
	}
}

func NewNearbyResponse(nearby []spatialindex.Nearby) []snapResponse {
	out := make([]snapResponse, 0, len(nearby))
	for _, n := range nearby {
		out = append(out, NewSnapResponse(n.GetWaypoint(), n.GetDistance()))
	}
	return out
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type liveResponse struct {
	Snap         snapResponse   `json:"snap"`
	OffRoute     bool           `json:"off_route"`
	OffRouteDist float64        `json:"off_route_distance"`
	Route        *routeResponse `json:"route,omitempty"`
}
