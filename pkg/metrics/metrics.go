package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	da "github.com/campusmate/campusnav/pkg/datastructure"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "campusnav"

const (
	MODE_BY_ID       = "id"
	MODE_BY_POSITION = "position"
	MODE_LIVE        = "live"
)

// route outcomes
const (
	OUTCOME_OK       = "ok"
	OUTCOME_DEGRADED = "degraded"
	OUTCOME_PARTIAL  = "partial"
	OUTCOME_ERROR    = "error"
)

type Metrics struct {
	reg *prometheus.Registry

	routeCount         *prometheus.CounterVec
	routeDistance      prometheus.Histogram
	httpDuration       *prometheus.HistogramVec
	responseStatusCode *prometheus.CounterVec
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		reg: reg,
		routeCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_requests_total",
			Help:      "The total number of route planning requests by mode and outcome",
		}, []string{"mode", "outcome"}),
		routeDistance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "route_distance_meters",
			Help:      "Total distance of computed routes",
			Buckets:   []float64{25, 50, 100, 250, 500, 1000, 2000},
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "The duration of request",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "path"}),
		responseStatusCode: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "response_status_code",
			Help:      "The status code of http response",
		}, []string{"status", "method", "path"}),
	}
	reg.MustRegister(m.routeCount, m.routeDistance, m.httpDuration, m.responseStatusCode)
	return m
}

func Outcome(route *da.Route, err error) string {
	switch {
	case err != nil:
		return OUTCOME_ERROR
	case route.IsPartial():
		return OUTCOME_PARTIAL
	case route.IsDegraded():
		return OUTCOME_DEGRADED
	}
	return OUTCOME_OK
}

// ObserveRoute. count one planning request. route is nil when err is set.
func (m *Metrics) ObserveRoute(mode string, route *da.Route, err error) {
	m.routeCount.With(prometheus.Labels{"mode": mode, "outcome": Outcome(route, err)}).Inc()
	if err == nil {
		m.routeDistance.Observe(route.GetDistance())
	}
}

// Handler. exposition endpoint for the registry the metrics were registered on.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// pathLabel. "/api/waypoints/E1" -> "/api/waypoints" so path parameters do not explode label cardinality.
func pathLabel(path string) string {
	parts := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 3)
	if len(parts) >= 2 {
		return "/" + parts[0] + "/" + parts[1]
	}
	return "/" + parts[0]
}

func (m *Metrics) HttpMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := pathLabel(r.URL.Path)
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rw, r)

		m.httpDuration.With(prometheus.Labels{"method": r.Method, "path": path}).
			Observe(time.Since(start).Seconds())
		m.responseStatusCode.With(prometheus.Labels{"status": strconv.Itoa(rw.statusCode), "method": r.Method,
			"path": path}).Inc()
	})
}
