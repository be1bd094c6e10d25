package usecases_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/routesathi/routesathi/internal/core/domain"
	"github.com/routesathi/routesathi/internal/core/usecases"
)

func TestGeocodeService_Resolve_CachesResult(t *testing.T) {
	provider := &mockGeocoder{
		searchFn: func(ctx context.Context, query string) ([]domain.GeocodeCandidate, error) {
			return []domain.GeocodeCandidate{
				{DisplayName: "Chennai, Tamil Nadu, India", Name: "Chennai", Lat: 13.08, Lon: 80.27},
			}, nil
		},
	}
	svc := usecases.NewGeocodeService(provider)

	first := svc.Resolve(context.Background(), "chennai", nil)
	if first == nil {
		t.Fatal("expected a result")
	}
	if first.CorrectedName != "Chennai" {
		t.Errorf("expected namedetails name, got %q", first.CorrectedName)
	}
	callsAfterFirst := provider.callCount()

	// Same name, different casing and whitespace: must hit the cache.
	second := svc.Resolve(context.Background(), "  Chennai ", nil)
	if second != first {
		t.Error("expected the identical cached value")
	}
	if provider.callCount() != callsAfterFirst {
		t.Errorf("second resolve issued %d extra network calls", provider.callCount()-callsAfterFirst)
	}
}

func TestGeocodeService_Resolve_AnchorPicksNearest(t *testing.T) {
	provider := &mockGeocoder{
		searchFn: func(ctx context.Context, query string) ([]domain.GeocodeCandidate, error) {
			return []domain.GeocodeCandidate{
				{DisplayName: "Far", Lat: 13.5, Lon: 80.5},
				{DisplayName: "Near", Lat: 13.05, Lon: 80.02},
			}, nil
		},
	}
	svc := usecases.NewGeocodeService(provider)

	anchor := &domain.GeoPoint{Lat: 13.0, Lon: 80.0}
	res := svc.Resolve(context.Background(), "ambur", anchor)
	if res == nil {
		t.Fatal("expected a result")
	}
	if res.Lat != 13.05 || res.Lon != 80.02 {
		t.Errorf("expected the candidate nearest the anchor, got (%v, %v)", res.Lat, res.Lon)
	}
}

func TestGeocodeService_Resolve_NoAnchorTakesTopRanked(t *testing.T) {
	provider := &mockGeocoder{
		searchFn: func(ctx context.Context, query string) ([]domain.GeocodeCandidate, error) {
			return []domain.GeocodeCandidate{
				{DisplayName: "Top", Lat: 13.5, Lon: 80.5},
				{DisplayName: "Other", Lat: 13.05, Lon: 80.02},
			}, nil
		},
	}
	svc := usecases.NewGeocodeService(provider)

	res := svc.Resolve(context.Background(), "ambur", nil)
	if res == nil || res.CorrectedName != "Top" {
		t.Errorf("expected the provider's top-ranked candidate, got %+v", res)
	}
}

func TestGeocodeService_Resolve_FallsThroughVariants(t *testing.T) {
	provider := &mockGeocoder{
		searchFn: func(ctx context.Context, query string) ([]domain.GeocodeCandidate, error) {
			// Only the bare-name variant matches.
			if strings.Contains(query, ",") {
				return nil, nil
			}
			return []domain.GeocodeCandidate{{DisplayName: "Bare", Lat: 10, Lon: 78}}, nil
		},
	}
	svc := usecases.NewGeocodeService(provider)

	res := svc.Resolve(context.Background(), "salem", nil)
	if res == nil || res.CorrectedName != "Bare" {
		t.Fatalf("expected bare variant to win, got %+v", res)
	}
	if provider.callCount() != 3 {
		t.Errorf("expected 3 variant queries, got %d", provider.callCount())
	}
}

func TestGeocodeService_Resolve_ProviderErrorSwallowed(t *testing.T) {
	provider := &mockGeocoder{
		searchFn: func(ctx context.Context, query string) ([]domain.GeocodeCandidate, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}
	svc := usecases.NewGeocodeService(provider)

	if res := svc.Resolve(context.Background(), "nowhere", nil); res != nil {
		t.Errorf("expected absent result, got %+v", res)
	}

	// The failure is cached for the session and never retried.
	calls := provider.callCount()
	if res := svc.Resolve(context.Background(), "nowhere", nil); res != nil {
		t.Errorf("expected cached absent result, got %+v", res)
	}
	if provider.callCount() != calls {
		t.Error("failed geocode was retried within the session")
	}
}

func TestGeocodeService_ResolveSequence_AnchorFixedAfterFirst(t *testing.T) {
	var anchored []string
	provider := &mockGeocoder{}
	provider.searchFn = func(ctx context.Context, query string) ([]domain.GeocodeCandidate, error) {
		switch {
		case strings.HasPrefix(query, "first"):
			return []domain.GeocodeCandidate{{DisplayName: "First", Lat: 13.0, Lon: 80.0}}, nil
		case strings.HasPrefix(query, "ambiguous"):
			anchored = append(anchored, query)
			return []domain.GeocodeCandidate{
				{DisplayName: "Far", Lat: 20.0, Lon: 85.0},
				{DisplayName: "Near", Lat: 13.1, Lon: 80.1},
			}, nil
		default:
			return nil, nil
		}
	}
	svc := usecases.NewGeocodeService(provider)

	results := svc.ResolveSequence(context.Background(), []string{"first", "missing", "ambiguous"})
	if len(results) != 3 {
		t.Fatalf("expected 3 index-aligned results, got %d", len(results))
	}
	if results[0] == nil || results[2] == nil {
		t.Fatal("expected first and third stops resolved")
	}
	if results[1] != nil {
		t.Error("expected unresolved middle stop to be nil")
	}
	// The anchor from the first stop disambiguates the third.
	if results[2].CorrectedName != "Near" {
		t.Errorf("expected anchor-nearest candidate, got %q", results[2].CorrectedName)
	}
}
