package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/routesathi/routesathi/internal/core/domain"
	"github.com/routesathi/routesathi/internal/core/usecases"
)

var testStops = []domain.GeoPoint{
	{Lat: 13.08270, Lon: 80.27072},
	{Lat: 12.97160, Lon: 77.59460},
}

func testGeometry() *domain.RouteGeometry {
	return &domain.RouteGeometry{
		Points:     []domain.GeoPoint{{Lat: 13.08, Lon: 80.27}, {Lat: 12.97, Lon: 77.59}},
		DistanceKm: 346.2,
		CachedAt:   time.Now().UTC(),
	}
}

func TestRouteCache_SetGetRoundTrip(t *testing.T) {
	cache := usecases.NewRouteCache(&mockRouter{}, nil)
	ctx := context.Background()

	if got := cache.Get(ctx, testStops, "driving"); got != nil {
		t.Fatalf("expected miss on empty cache, got %+v", got)
	}

	geom := testGeometry()
	cache.Set(ctx, testStops, geom, "driving")

	got := cache.Get(ctx, testStops, "driving")
	if got == nil {
		t.Fatal("expected hit after set")
	}
	if got.DistanceKm != geom.DistanceKm || len(got.Points) != len(geom.Points) {
		t.Errorf("geometry changed through the cache: %+v", got)
	}
}

func TestRouteCache_KeyToleratesFloatJitter(t *testing.T) {
	cache := usecases.NewRouteCache(&mockRouter{}, nil)
	ctx := context.Background()

	cache.Set(ctx, testStops, testGeometry(), "driving")

	// Jitter below the 5-decimal rounding precision must land on the
	// same key.
	jittered := []domain.GeoPoint{
		{Lat: 13.082700001, Lon: 80.270720002},
		{Lat: 12.971599999, Lon: 77.594600001},
	}
	if cache.Get(ctx, jittered, "driving") == nil {
		t.Error("jitter within rounding precision missed the cache")
	}
}

func TestRouteCache_KeyIsDirectionSensitive(t *testing.T) {
	cache := usecases.NewRouteCache(&mockRouter{}, nil)
	ctx := context.Background()

	cache.Set(ctx, testStops, testGeometry(), "driving")

	reversed := []domain.GeoPoint{testStops[1], testStops[0]}
	if cache.Get(ctx, reversed, "driving") != nil {
		t.Error("reversed stop order must be a distinct key")
	}
	if cache.Get(ctx, testStops, "walking") != nil {
		t.Error("different profile must be a distinct key")
	}
}

func TestRouteCache_Tier2HitPromotes(t *testing.T) {
	kv := newMockKV()
	ctx := context.Background()

	// First instance writes both tiers.
	first := usecases.NewRouteCache(&mockRouter{}, kv)
	first.Set(ctx, testStops, testGeometry(), "driving")

	// A fresh instance has an empty tier-1 and must fall through to
	// tier-2, promote, and then answer from tier-1 even if tier-2 dies.
	second := usecases.NewRouteCache(&mockRouter{}, kv)
	if second.Get(ctx, testStops, "driving") == nil {
		t.Fatal("expected tier-2 hit")
	}

	for k := range kv.data {
		delete(kv.data, k)
	}
	if second.Get(ctx, testStops, "driving") == nil {
		t.Error("tier-2 hit was not promoted into tier-1")
	}
}

func TestRouteCache_CorruptTier2IsMiss(t *testing.T) {
	kv := newMockKV()
	ctx := context.Background()

	cache := usecases.NewRouteCache(&mockRouter{}, kv)
	cache.Set(ctx, testStops, testGeometry(), "driving")

	for k := range kv.data {
		kv.data[k] = []byte("{not json")
	}

	fresh := usecases.NewRouteCache(&mockRouter{}, kv)
	if got := fresh.Get(ctx, testStops, "driving"); got != nil {
		t.Errorf("corrupt tier-2 entry must be a miss, got %+v", got)
	}
}

func TestRouteCache_Tier2WriteFailureIsNonFatal(t *testing.T) {
	kv := newMockKV()
	kv.failed = true
	ctx := context.Background()

	cache := usecases.NewRouteCache(&mockRouter{}, kv)
	cache.Set(ctx, testStops, testGeometry(), "driving")

	if cache.Get(ctx, testStops, "driving") == nil {
		t.Error("tier-1 must succeed even when the tier-2 write fails")
	}
}

func TestRouteCache_PrewarmFetchesOnce(t *testing.T) {
	router := &mockRouter{}
	cache := usecases.NewRouteCache(router, nil)
	ctx := context.Background()

	if err := cache.Prewarm(ctx, testStops, "driving"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cache.Prewarm(ctx, testStops, "driving"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if router.callCount() != 1 {
		t.Errorf("expected at most one external fetch, got %d", router.callCount())
	}

	got := cache.Get(ctx, testStops, "driving")
	if got == nil {
		t.Fatal("expected prewarmed geometry")
	}
	if got.DistanceKm != 15 {
		t.Errorf("expected distance computed from the response (15 km), got %v", got.DistanceKm)
	}
	// Provider convention is lon-first; cached points must be lat-first.
	if got.Points[0].Lat != 13.0 || got.Points[0].Lon != 80.0 {
		t.Errorf("coordinate order not transformed: %+v", got.Points[0])
	}
}
