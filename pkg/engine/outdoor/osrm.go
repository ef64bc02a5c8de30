package outdoor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/campusmate/campusnav/pkg"
	da "github.com/campusmate/campusnav/pkg/datastructure"
	"github.com/campusmate/campusnav/pkg/geo"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var ErrProviderUnavailable = errors.New("outdoor route provider unavailable")

const (
	GEOMETRY_GEOJSON  = "geojson"
	GEOMETRY_POLYLINE = "polyline"
)

type Config struct {
	BaseURL string
	Profile string
	// Timeout. whole WalkingRoute call, retries and backoff included.
	Timeout time.Duration
	// Retries. extra attempts after the first one fails.
	Retries  int
	Backoff  time.Duration
	Geometry string
	// RequestsPerSecond. outbound rate, <= 0 disables limiting.
	RequestsPerSecond float64
}

func DefaultConfig() Config {
	return Config{
		BaseURL:  "https://router.project-osrm.org",
		Profile:  "foot",
		Timeout:  pkg.DEFAULT_OUTDOOR_PROVIDER_TIMEOUT_SECOND * time.Second,
		Retries:  1,
		Backoff:  250 * time.Millisecond,
		Geometry: GEOMETRY_GEOJSON,
	}
}

/*
OSRMProvider. walking routes from an OSRM compatible HTTP service.

request:
GET {base}/route/v1/{profile}/{lon},{lat};{lon},{lat}?overview=full&steps=true&geometries=geojson

only routes[0] is used. coordinates in the answer are [lon, lat].
*/
type OSRMProvider struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

func NewOSRMProvider(cfg Config, log *zap.Logger) *OSRMProvider {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Profile == "" {
		cfg.Profile = def.Profile
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.Geometry != GEOMETRY_POLYLINE {
		cfg.Geometry = GEOMETRY_GEOJSON
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &OSRMProvider{
		cfg:     cfg,
		client:  &http.Client{},
		limiter: limiter,
		log:     log,
	}
}

type osrmManeuver struct {
	Type     string `json:"type"`
	Modifier string `json:"modifier"`
}

type osrmStep struct {
	Name     string       `json:"name"`
	Distance float64      `json:"distance"`
	Maneuver osrmManeuver `json:"maneuver"`
}

type osrmLeg struct {
	Steps []osrmStep `json:"steps"`
}

type osrmRoute struct {
	Distance float64         `json:"distance"`
	Duration float64         `json:"duration"`
	Geometry json.RawMessage `json:"geometry"`
	Legs     []osrmLeg       `json:"legs"`
}

type osrmResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Routes  []osrmRoute `json:"routes"`
}

type geoJSONLineString struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

func (p *OSRMProvider) routeURL(origin, destination geo.Coordinate) string {
	return fmt.Sprintf("%s/route/v1/%s/%f,%f;%f,%f?overview=full&steps=true&geometries=%s",
		p.cfg.BaseURL, p.cfg.Profile,
		origin.GetLon(), origin.GetLat(), destination.GetLon(), destination.GetLat(), p.cfg.Geometry)
}

/*
WalkingRoute. at most 1+Retries attempts sharing one Timeout deadline, an attempt cut by the deadline is not retried.
every failure wraps ErrProviderUnavailable.
*/
func (p *OSRMProvider) WalkingRoute(ctx context.Context, origin, destination geo.Coordinate) (*da.OutdoorRoute,
	error) {
	url := p.routeURL(origin, destination)

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= p.cfg.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, ctx.Err())
			case <-time.After(p.cfg.Backoff):
			}
		}

		route, retryable, err := p.fetch(ctx, url)
		if err == nil {
			return route, nil
		}
		lastErr = err
		p.log.Debug("outdoor provider attempt failed", zap.Int("attempt", attempt+1), zap.Error(err))
		if !retryable {
			break
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, lastErr)
}

// fetch. one attempt. the bool reports whether another attempt could succeed.
func (p *OSRMProvider) fetch(ctx context.Context, url string) (*da.OutdoorRoute, bool, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, false, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}

	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		return nil, true, fmt.Errorf("outdoor provider status: %s", resp.Status)
	}

	var osrmResp osrmResponse
	if err := json.Unmarshal(body, &osrmResp); err != nil {
		return nil, false, fmt.Errorf("decode outdoor provider response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || osrmResp.Code != "Ok" {
		return nil, false, fmt.Errorf("outdoor provider answered %s (%s): %s", resp.Status, osrmResp.Code,
			osrmResp.Message)
	}
	if len(osrmResp.Routes) == 0 {
		return nil, false, errors.New("outdoor provider returned no route")
	}

	route, err := p.toOutdoorRoute(osrmResp.Routes[0])
	if err != nil {
		return nil, false, err
	}
	return route, false, nil
}

func (p *OSRMProvider) toOutdoorRoute(r osrmRoute) (*da.OutdoorRoute, error) {
	coords, err := p.decodeGeometry(r.Geometry)
	if err != nil {
		return nil, err
	}
	if len(coords) == 0 {
		return nil, errors.New("outdoor provider returned an empty geometry")
	}

	maneuvers := make([]da.Maneuver, 0)
	for _, leg := range r.Legs {
		for _, step := range leg.Steps {
			maneuvers = append(maneuvers, da.Maneuver{
				Type:     step.Maneuver.Type,
				Modifier: step.Maneuver.Modifier,
				Name:     step.Name,
				Distance: step.Distance,
			})
		}
	}
	return da.NewOutdoorRoute(coords, maneuvers, r.Distance), nil
}

func (p *OSRMProvider) decodeGeometry(raw json.RawMessage) ([]geo.Coordinate, error) {
	if p.cfg.Geometry == GEOMETRY_POLYLINE {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, fmt.Errorf("decode polyline geometry: %w", err)
		}
		return geo.CoordsFromPolyline(encoded)
	}

	var line geoJSONLineString
	if err := json.Unmarshal(raw, &line); err != nil {
		return nil, fmt.Errorf("decode geojson geometry: %w", err)
	}
	coords := make([]geo.Coordinate, len(line.Coordinates))
	for i, lonLat := range line.Coordinates {
		coords[i] = geo.NewCoordinate(lonLat[1], lonLat[0])
	}
	return coords, nil
}
