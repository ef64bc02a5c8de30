package controllers

import (
	"errors"
	"net/http"
	"strconv"

	helper "github.com/campusmate/campusnav/pkg/http/router/routerhelper"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type routingAPI struct {
	routingService RoutingService
	log            *zap.Logger
}

func New(routingService RoutingService, log *zap.Logger) *routingAPI {
	return &routingAPI{
		routingService: routingService,
		log:            log,
	}
}

func (api *routingAPI) Routes(group *helper.RouteGroup) {
	group.GET("/computeRoutes", api.computeRoutes)
	group.GET("/waypoints/:id", api.getWaypoint)
	group.GET("/buildings/:building/entrances", api.buildingEntrances)
	group.GET("/snap", api.snap)
	group.GET("/nearby", api.nearby)
}

// computeRoutes
//
//	@Summary		route between two waypoints, or from a live position to a waypoint
//	@Tags			routing
//	@Param			start_id	query	string	false	"start waypoint id"
//	@Param			origin_lat	query	number	false	"live latitude, used when start_id is empty"
//	@Param			origin_lon	query	number	false	"live longitude, used when start_id is empty"
//	@Param			end_id		query	string	true	"destination waypoint id"
//	@Produce		application/json
//	@Success		200	{object}	routeResponse
//	@Failure		400	{object}	errorBody
//	@Failure		404	{object}	errorBody
//	@Router			/computeRoutes [get]
func (api *routingAPI) computeRoutes(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	query := r.URL.Query()

	if startId := query.Get("start_id"); startId != "" || !query.Has("origin_lat") {
		request := routeByIdRequest{StartID: startId, EndID: query.Get("end_id")}
		if err := validateStruct(request); err != nil {
			api.BadRequestResponse(w, r, err)
			return
		}

		route, err := api.routingService.ComputeRoute(r.Context(), request.StartID, request.EndID)
		if err != nil {
			api.getStatusCode(w, r, err)
			return
		}
		if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewRouteResponse(route)}, nil); err != nil {
			api.ServerErrorResponse(w, r, err)
		}
		return
	}

	var (
		request routeByPositionRequest
		err     error
	)
	request.OriginLat, err = parseFloatParam(query.Get("origin_lat"), "origin_lat")
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	request.OriginLon, err = parseFloatParam(query.Get("origin_lon"), "origin_lon")
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	request.EndID = query.Get("end_id")
	if err := validateStruct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	route, err := api.routingService.ComputeRouteFromPosition(r.Context(), request.OriginLat, request.OriginLon,
		request.EndID)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewRouteResponse(route)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// getWaypoint
//
//	@Summary	waypoint by id
//	@Tags		waypoints
//	@Param		id	path	string	true	"waypoint id"
//	@Success	200	{object}	waypointResponse
//	@Failure	404	{object}	errorBody
//	@Router		/waypoints/{id} [get]
func (api *routingAPI) getWaypoint(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	wp, err := api.routingService.GetWaypoint(p.ByName("id"))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewWaypointResponse(wp)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// buildingEntrances
//
//	@Summary	entrances of a building, every waypoint of the building when none is flagged
//	@Tags		waypoints
//	@Param		building	path	string	true	"building name"
//	@Success	200	{array}		waypointResponse
//	@Failure	404	{object}	errorBody
//	@Router		/buildings/{building}/entrances [get]
func (api *routingAPI) buildingEntrances(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	entrances, err := api.routingService.BuildingEntrances(p.ByName("building"))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewWaypointsResponse(entrances)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// snap
//
//	@Summary	nearest waypoint to a live position
//	@Tags		waypoints
//	@Param		lat	query	number	true	"latitude"
//	@Param		lon	query	number	true	"longitude"
//	@Success	200	{object}	snapResponse
//	@Failure	400	{object}	errorBody
//	@Router		/snap [get]
func (api *routingAPI) snap(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request positionRequest
		err     error
	)
	query := r.URL.Query()
	request.Lat, err = parseFloatParam(query.Get("lat"), "lat")
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	request.Lon, err = parseFloatParam(query.Get("lon"), "lon")
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := validateStruct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	wp, dist, err := api.routingService.Snap(request.Lat, request.Lon)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewSnapResponse(wp, dist)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// nearby
//
//	@Summary	waypoints within radius meters of a position, nearest first
//	@Tags		waypoints
//	@Param		lat		query	number	true	"latitude"
//	@Param		lon		query	number	true	"longitude"
//	@Param		radius	query	number	true	"radius in meters"
//	@Param		limit	query	int		false	"max results"
//	@Success	200	{array}		snapResponse
//	@Failure	400	{object}	errorBody
//	@Router		/nearby [get]
func (api *routingAPI) nearby(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request nearbyRequest
		err     error
	)
	query := r.URL.Query()
	request.Lat, err = parseFloatParam(query.Get("lat"), "lat")
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	request.Lon, err = parseFloatParam(query.Get("lon"), "lon")
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	request.Radius, err = parseFloatParam(query.Get("radius"), "radius")
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if raw := query.Get("limit"); raw != "" {
		request.Limit, err = strconv.Atoi(raw)
		if err != nil {
			api.BadRequestResponse(w, r, errors.New("limit must be a valid int"))
			return
		}
	}
	if err := validateStruct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	nearby, err := api.routingService.Nearby(request.Lat, request.Lon, request.Radius, request.Limit)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewNearbyResponse(nearby)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
