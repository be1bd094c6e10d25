package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/routesathi/routesathi/internal/core/domain"
	"github.com/routesathi/routesathi/internal/core/ports"
	"github.com/routesathi/routesathi/internal/geometry"
	"github.com/routesathi/routesathi/internal/pkg/metrics"
)

// resolveCacheTTL is the absolute expiry for consolidated resolutions.
// An entry past it is a miss even on a key match; Valkey enforces that
// with a per-key millisecond expiry.
const resolveCacheTTL = 24 * time.Hour

const resolveCachePrefix = "edge:route:v1:"

// ResolveRequest identifies a stop list either directly or by bus record.
// A direct stop list takes priority.
type ResolveRequest struct {
	BusID   string   `json:"busId,omitempty"`
	BusName string   `json:"busName,omitempty"`
	Stops   []string `json:"stops,omitempty"`
}

// ResolveService consolidates geocoding, routing, and durable caching
// behind one request/response contract, shared across clients. It owns its
// geocoder instance: the session cache and rate limit are private to this
// process and shared with nothing client-side.
type ResolveService struct {
	buses    ports.BusRepository
	kv       ports.CacheService
	geocoder *GeocodeService
	router   ports.RoutingProvider
	profile  string
}

// NewResolveService creates a ResolveService.
func NewResolveService(
	buses ports.BusRepository,
	kv ports.CacheService,
	geocoder *GeocodeService,
	router ports.RoutingProvider,
	profile string,
) *ResolveService {
	if profile == "" {
		profile = "driving"
	}
	return &ResolveService{
		buses:    buses,
		kv:       kv,
		geocoder: geocoder,
		router:   router,
		profile:  profile,
	}
}

// resolveCacheKey derives a deterministic, bounded-length identifier from
// the ordered raw stop-name list.
func resolveCacheKey(stops []string) string {
	sum := sha256.Sum256([]byte(strings.Join(stops, "|")))
	return resolveCachePrefix + hex.EncodeToString(sum[:16])
}

// Resolve handles one consolidated geocode+route request. The durable
// cache is consulted before any external call; on a miss every stop is
// geocoded sequentially, one routing request covers the full waypoint
// sequence, and the coordinate order is transformed once for all future
// consumers of the cached result.
func (s *ResolveService) Resolve(ctx context.Context, req *ResolveRequest) (*domain.RouteResolution, error) {
	stops, err := s.stopList(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(stops) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 stops, got %d", domain.ErrInvalidRequest, len(stops))
	}

	key := resolveCacheKey(stops)
	if res := s.cached(ctx, key); res != nil {
		metrics.ResolveRequests.WithLabelValues("cache").Inc()
		return res, nil
	}
	metrics.ResolveRequests.WithLabelValues("fresh").Inc()

	results := s.geocoder.ResolveSequence(ctx, stops)

	resolved := make([]domain.GeocodeResult, 0, len(results))
	waypoints := make([]domain.GeoPoint, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		resolved = append(resolved, *r)
		waypoints = append(waypoints, domain.GeoPoint{Lat: r.Lat, Lon: r.Lon})
	}
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("%w: %d of %d stops resolved", domain.ErrGeocodeInsufficient, len(waypoints), len(stops))
	}

	leg, err := s.router.Route(ctx, s.profile, waypoints)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRoutingUnavailable, err)
	}

	points, km := geometry.ParseGeometry(leg.Coordinates, leg.DistanceMeters)
	res := &domain.RouteResolution{
		Stops:       resolved,
		Geometry:    points,
		DistanceKm:  km,
		DurationSec: leg.DurationSec,
		CachedAt:    time.Now().UTC(),
		FromCache:   false,
	}

	s.store(ctx, key, res)
	return res, nil
}

// stopList resolves the request to an ordered stop-name list. Direct stops
// take priority; otherwise the bus record is looked up by ID, then name.
func (s *ResolveService) stopList(ctx context.Context, req *ResolveRequest) ([]string, error) {
	if len(req.Stops) > 0 {
		return req.Stops, nil
	}
	if req.BusID == "" && req.BusName == "" {
		return nil, fmt.Errorf("%w: busId, busName, or stops required", domain.ErrInvalidRequest)
	}

	var (
		bus *domain.Bus
		err error
	)
	if req.BusID != "" {
		bus, err = s.buses.GetByID(ctx, req.BusID)
	} else {
		bus, err = s.buses.GetByName(ctx, req.BusName)
	}
	// The repository already reports a missing record as ErrNotFound; any
	// other error is a backend failure and must keep its own identity.
	if err != nil {
		return nil, fmt.Errorf("bus lookup %s%s: %w", req.BusID, req.BusName, err)
	}
	if bus == nil {
		return nil, fmt.Errorf("%w: bus %s%s", domain.ErrNotFound, req.BusID, req.BusName)
	}
	return bus.Stops, nil
}

// cached returns a stored resolution or nil. Corrupt entries are a miss.
func (s *ResolveService) cached(ctx context.Context, key string) *domain.RouteResolution {
	if s.kv == nil {
		return nil
	}
	data, err := s.kv.Get(ctx, key)
	if err != nil || len(data) == 0 {
		return nil
	}
	var res domain.RouteResolution
	if err := json.Unmarshal(data, &res); err != nil {
		return nil
	}
	res.FromCache = true
	return &res
}

// store writes the resolution to the durable cache. Storage failure is
// non-fatal; the primary path is unaffected.
func (s *ResolveService) store(ctx context.Context, key string, res *domain.RouteResolution) {
	if s.kv == nil {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := s.kv.Set(ctx, key, data, resolveCacheTTL); err != nil {
		slog.Warn("resolution cache write failed", "key", key, "error", err)
	}
}
