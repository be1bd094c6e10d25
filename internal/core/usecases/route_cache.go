package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/routesathi/routesathi/internal/core/domain"
	"github.com/routesathi/routesathi/internal/core/ports"
	"github.com/routesathi/routesathi/internal/geometry"
	"github.com/routesathi/routesathi/internal/pkg/metrics"
)

const routeCachePrefix = "route:geom:"

// defaultTier2TTL bounds how long tier-2 entries outlive the process.
const defaultTier2TTL = 24 * time.Hour

// RouteCache is a two-tier cache of road-snapped route geometry. Tier-1 is
// an in-process map; tier-2 is the durable KV store, written best-effort.
// Tier-1 is always checked first and a tier-2 hit promotes into tier-1.
type RouteCache struct {
	router ports.RoutingProvider
	kv     ports.CacheService
	ttl    time.Duration

	mu    sync.Mutex
	tier1 map[string]*domain.RouteGeometry
}

// NewRouteCache creates a RouteCache. kv may be nil, leaving only tier-1.
func NewRouteCache(router ports.RoutingProvider, kv ports.CacheService) *RouteCache {
	return &RouteCache{
		router: router,
		kv:     kv,
		ttl:    defaultTier2TTL,
		tier1:  make(map[string]*domain.RouteGeometry),
	}
}

// routeKey derives the cache key from the routing profile and the ordered
// stop coordinates rounded to 5 decimals (~1.1 m). Rounding makes float
// jitter collide onto one key; order is preserved so A→B and B→A differ.
func routeKey(stops []domain.GeoPoint, profile string) string {
	parts := make([]string, 0, len(stops))
	for _, p := range stops {
		parts = append(parts, fmt.Sprintf("%.5f,%.5f", p.Lon, p.Lat))
	}
	return profile + "|" + strings.Join(parts, ";")
}

// Get returns cached geometry or nil. Tier-2 parse failures are treated as
// a miss and never propagate.
func (c *RouteCache) Get(ctx context.Context, stops []domain.GeoPoint, profile string) *domain.RouteGeometry {
	key := routeKey(stops, profile)

	c.mu.Lock()
	hit := c.tier1[key]
	c.mu.Unlock()
	if hit != nil {
		metrics.RouteCacheHits.WithLabelValues("tier1").Inc()
		return hit
	}

	if c.kv == nil {
		metrics.RouteCacheMisses.Inc()
		return nil
	}

	data, err := c.kv.Get(ctx, routeCachePrefix+key)
	if err != nil || len(data) == 0 {
		metrics.RouteCacheMisses.Inc()
		return nil
	}

	var geom domain.RouteGeometry
	if err := json.Unmarshal(data, &geom); err != nil {
		slog.Debug("corrupt tier-2 route entry, treating as miss", "key", key, "error", err)
		metrics.RouteCacheMisses.Inc()
		return nil
	}

	metrics.RouteCacheHits.WithLabelValues("tier2").Inc()

	c.mu.Lock()
	c.tier1[key] = &geom
	c.mu.Unlock()

	return &geom
}

// Set stores geometry in both tiers as a whole-record replace. The tier-2
// write is best-effort; its failure never affects the tier-1 write.
func (c *RouteCache) Set(ctx context.Context, stops []domain.GeoPoint, geom *domain.RouteGeometry, profile string) {
	key := routeKey(stops, profile)

	c.mu.Lock()
	c.tier1[key] = geom
	c.mu.Unlock()

	if c.kv == nil {
		return
	}
	data, err := json.Marshal(geom)
	if err != nil {
		return
	}
	if err := c.kv.Set(ctx, routeCachePrefix+key, data, c.ttl); err != nil {
		slog.Debug("tier-2 route write failed", "key", key, "error", err)
	}
}

// Prewarm fetches and caches geometry for a stop sequence. It is an
// idempotent no-op on a cache hit.
func (c *RouteCache) Prewarm(ctx context.Context, stops []domain.GeoPoint, profile string) error {
	if len(stops) < 2 {
		return nil
	}
	if c.Get(ctx, stops, profile) != nil {
		return nil
	}

	leg, err := c.router.Route(ctx, profile, stops)
	if err != nil {
		return fmt.Errorf("prewarm route fetch: %w", err)
	}

	points, km := geometry.ParseGeometry(leg.Coordinates, leg.DistanceMeters)
	c.Set(ctx, stops, &domain.RouteGeometry{
		Points:     points,
		DistanceKm: km,
		CachedAt:   time.Now().UTC(),
	}, profile)
	return nil
}

// PrewarmAsync runs Prewarm in the background. The failure is captured and
// logged; callers never observe it.
func (c *RouteCache) PrewarmAsync(ctx context.Context, stops []domain.GeoPoint, profile string) {
	go func() {
		if err := c.Prewarm(ctx, stops, profile); err != nil {
			slog.Debug("background prewarm failed", "error", err)
		}
	}()
}
