package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	da "github.com/campusmate/campusnav/pkg/datastructure"
	"github.com/campusmate/campusnav/pkg/engine"
	"github.com/campusmate/campusnav/pkg/http/usecases"
	"github.com/campusmate/campusnav/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testWaypoints = `room,name,building,floor,lat,lon,type,is_entrance
E_ENT,Eng Door,Eng,1,-6.3600,106.8200,entrance,
E1,,Eng,1,-6.3600,106.8202,corridor,
E2,Lab,Eng,2,-6.3600,106.8202,lab,
L_ENT,,Lib,1,-6.3610,106.8215,entrance,
L1,Reading,Lib,1,-6.3611,106.8215,room,
`

const testEdges = `from,to,distance,type
E_ENT,E1,22,walk
E1,E2,5,stairs
L_ENT,L1,11,walk
`

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	g, err := da.ReadCampusGraph(strings.NewReader(testWaypoints), strings.NewReader(testEdges))
	require.NoError(t, err)

	log := zap.NewNop()
	eng := engine.NewEngine(g, nil, 200, log)
	svc := usecases.NewRoutingService(log, eng, eng.GetRouteComposer(), eng.GetSpatialIndex(), nil, 200, 500, 30)
	return NewAPI(log, nil).Handler(false, svc)
}

type routeBody struct {
	Data struct {
		Coordinates  [][2]float64 `json:"coordinates"`
		Path         string       `json:"path"`
		Instructions []string     `json:"instructions"`
		Distance     int          `json:"distance"`
		Degraded     bool         `json:"degraded"`
		Partial      bool         `json:"partial"`
		Legs         []struct {
			Kind string `json:"kind"`
		} `json:"legs"`
	} `json:"data"`
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestComputeRoutesById(t *testing.T) {
	rec := get(t, newTestHandler(t), "/api/computeRoutes?start_id=E_ENT&end_id=E2")
	require.Equal(t, http.StatusOK, rec.Code)

	var body routeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{
		"Walk from E_ENT (Eng Door) to E1 (22 m).",
		"Take stairs up from E1 to E2 (Lab).",
	}, body.Data.Instructions)
	assert.Equal(t, 27, body.Data.Distance)
	assert.Equal(t, [2]float64{106.8200, -6.3600}, body.Data.Coordinates[0])
	assert.NotEmpty(t, body.Data.Path)
	assert.False(t, body.Data.Degraded)
}

func TestComputeRoutesFromPosition(t *testing.T) {
	rec := get(t, newTestHandler(t), "/api/computeRoutes?origin_lat=-6.36005&origin_lon=106.82&end_id=L1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body routeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.Legs)
	assert.Equal(t, "approach", body.Data.Legs[0].Kind)
	assert.True(t, body.Data.Degraded)
}

func TestRoutingErrors(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{name: "unknown start", target: "/api/computeRoutes?start_id=NOPE&end_id=E1", status: http.StatusBadRequest},
		{name: "missing end", target: "/api/computeRoutes?start_id=E1", status: http.StatusBadRequest},
		{name: "bad origin", target: "/api/computeRoutes?origin_lat=abc&origin_lon=1&end_id=E1",
			status: http.StatusBadRequest},
		{name: "origin out of range", target: "/api/computeRoutes?origin_lat=95&origin_lon=1&end_id=E1",
			status: http.StatusBadRequest},
		{name: "unknown waypoint", target: "/api/waypoints/NOPE", status: http.StatusNotFound},
		{name: "unknown building", target: "/api/buildings/Gym/entrances", status: http.StatusNotFound},
		{name: "nearby radius too big", target: "/api/nearby?lat=-6.36&lon=106.82&radius=5000",
			status: http.StatusBadRequest},
		{name: "nearby radius zero", target: "/api/nearby?lat=-6.36&lon=106.82&radius=0",
			status: http.StatusBadRequest},
		{name: "snap without lon", target: "/api/snap?lat=-6.36", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target)
			assert.Equal(t, tt.status, rec.Code)

			var body struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestWaypointEndpoints(t *testing.T) {
	h := newTestHandler(t)

	rec := get(t, h, "/api/waypoints/E2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"E2"`)

	rec = get(t, h, "/api/buildings/Eng/entrances")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"E_ENT"`)
	assert.NotContains(t, rec.Body.String(), `"id":"E1"`)

	rec = get(t, h, "/api/snap?lat=-6.36&lon=106.82")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"E_ENT"`)

	rec = get(t, h, "/api/nearby?lat=-6.36&lon=106.82&radius=30&limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"E_ENT"`)
}

func TestHeartbeat(t *testing.T) {
	rec := get(t, newTestHandler(t), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ".", rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	g, err := da.ReadCampusGraph(strings.NewReader(testWaypoints), strings.NewReader(testEdges))
	require.NoError(t, err)

	log := zap.NewNop()
	m := metrics.NewMetrics(prometheus.NewRegistry())
	eng := engine.NewEngine(g, nil, 200, log)
	svc := usecases.NewRoutingService(log, eng, eng.GetRouteComposer(), eng.GetSpatialIndex(), m, 200, 500, 30)
	h := NewAPI(log, m).Handler(false, svc)

	require.Equal(t, http.StatusOK, get(t, h, "/api/computeRoutes?start_id=E_ENT&end_id=L1").Code)
	require.Equal(t, http.StatusBadRequest, get(t, h, "/api/computeRoutes?start_id=NOPE&end_id=L1").Code)

	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `campusnav_route_requests_total{mode="id",outcome="degraded"} 1`)
	assert.Contains(t, body, `campusnav_route_requests_total{mode="id",outcome="error"} 1`)
	assert.Contains(t, body, `campusnav_response_status_code{method="GET",path="/api/computeRoutes",status="400"} 1`)
}
