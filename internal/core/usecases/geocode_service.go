package usecases

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/routesathi/routesathi/internal/core/domain"
	"github.com/routesathi/routesathi/internal/core/ports"
	"github.com/routesathi/routesathi/internal/pkg/geospatial"
	"github.com/routesathi/routesathi/internal/pkg/metrics"
)

// GeocodeService resolves free-text stop names into coordinates. Results,
// including failures, are cached by normalized name for the lifetime of the
// service instance and never retried or evicted.
type GeocodeService struct {
	provider ports.GeocodingProvider

	mu    sync.Mutex
	cache map[string]*domain.GeocodeResult // nil value = cached failure
}

// NewGeocodeService creates a GeocodeService with an empty session cache.
func NewGeocodeService(provider ports.GeocodingProvider) *GeocodeService {
	return &GeocodeService{
		provider: provider,
		cache:    make(map[string]*domain.GeocodeResult),
	}
}

// queryVariants returns the fixed, progressively-less-specific query
// sequence for a stop name. The first variant to return a candidate wins.
func queryVariants(name string) []string {
	return []string{
		name + ", Tamil Nadu, India",
		name + ", India",
		name,
	}
}

// Resolve geocodes one stop name. A nil result means the name could not be
// resolved; that outcome is cached and never retried within the session.
// Provider failures are swallowed per variant; geocoding failure is an
// expected outcome, not an error.
func (s *GeocodeService) Resolve(ctx context.Context, name string, anchor *domain.GeoPoint) *domain.GeocodeResult {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return nil
	}

	s.mu.Lock()
	cached, ok := s.cache[normalized]
	s.mu.Unlock()
	if ok {
		metrics.GeocodeLookups.WithLabelValues("cache").Inc()
		return cached
	}
	metrics.GeocodeLookups.WithLabelValues("network").Inc()

	var result *domain.GeocodeResult
	for _, query := range queryVariants(strings.TrimSpace(name)) {
		candidates, err := s.provider.Search(ctx, query)
		if err != nil {
			slog.Debug("geocode query failed, trying next variant", "query", query, "error", err)
			continue
		}
		if len(candidates) == 0 {
			continue
		}

		winner := pickCandidate(candidates, anchor)
		result = &domain.GeocodeResult{
			CorrectedName: winner.DisplayName,
			Lat:           winner.Lat,
			Lon:           winner.Lon,
		}
		if winner.Name != "" {
			result.CorrectedName = winner.Name
		}
		break
	}

	if result == nil {
		metrics.GeocodeFailures.Inc()
	}

	s.mu.Lock()
	// First writer wins; concurrent resolves for the same name are not
	// deduplicated, but results are idempotent.
	if prior, ok := s.cache[normalized]; ok {
		result = prior
	} else {
		s.cache[normalized] = result
	}
	s.mu.Unlock()

	return result
}

// ResolveSequence geocodes an ordered stop-name list. The anchor is set
// once, from the first successfully resolved stop, and held fixed for the
// rest of the sequence. The returned slice is index-aligned with names;
// unresolved entries are nil.
func (s *GeocodeService) ResolveSequence(ctx context.Context, names []string) []*domain.GeocodeResult {
	results := make([]*domain.GeocodeResult, len(names))

	var anchor *domain.GeoPoint
	for i, name := range names {
		res := s.Resolve(ctx, name, anchor)
		results[i] = res
		if anchor == nil && res != nil {
			anchor = &domain.GeoPoint{Lat: res.Lat, Lon: res.Lon}
		}
	}
	return results
}

// pickCandidate selects the candidate nearest the anchor when the name is
// ambiguous; with no anchor or a single match it takes the provider's
// top-ranked candidate.
func pickCandidate(candidates []domain.GeocodeCandidate, anchor *domain.GeoPoint) domain.GeocodeCandidate {
	if anchor == nil || len(candidates) == 1 {
		return candidates[0]
	}

	best := candidates[0]
	bestDist := geospatial.Haversine(anchor.Lat, anchor.Lon, best.Lat, best.Lon)
	for _, c := range candidates[1:] {
		if d := geospatial.Haversine(anchor.Lat, anchor.Lon, c.Lat, c.Lon); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}
