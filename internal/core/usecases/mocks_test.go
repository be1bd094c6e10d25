package usecases_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/routesathi/routesathi/internal/core/domain"
)

// --- Mock GeocodingProvider ---

type mockGeocoder struct {
	mu       sync.Mutex
	calls    []string
	searchFn func(ctx context.Context, query string) ([]domain.GeocodeCandidate, error)
}

func (m *mockGeocoder) Search(ctx context.Context, query string) ([]domain.GeocodeCandidate, error) {
	m.mu.Lock()
	m.calls = append(m.calls, query)
	m.mu.Unlock()
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return nil, nil
}

func (m *mockGeocoder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// --- Mock RoutingProvider ---

type mockRouter struct {
	mu      sync.Mutex
	calls   int
	routeFn func(ctx context.Context, profile string, waypoints []domain.GeoPoint) (*domain.RouteLeg, error)
}

func (m *mockRouter) Route(ctx context.Context, profile string, waypoints []domain.GeoPoint) (*domain.RouteLeg, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.routeFn != nil {
		return m.routeFn(ctx, profile, waypoints)
	}
	return &domain.RouteLeg{
		Coordinates:    [][]float64{{80.0, 13.0}, {80.1, 13.1}},
		DistanceMeters: 15000,
		DurationSec:    1800,
	}, nil
}

func (m *mockRouter) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// --- Mock CacheService (in-memory, per-key expiry like Valkey PX) ---

type mockKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	expires map[string]time.Time
	ttls    map[string]time.Duration // last TTL passed to Set, per key
	failed  bool                     // when set, every write errors
}

func newMockKV() *mockKV {
	return &mockKV{
		data:    make(map[string][]byte),
		expires: make(map[string]time.Time),
		ttls:    make(map[string]time.Duration),
	}
}

func (m *mockKV) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("key not found")
	}
	if exp, ok := m.expires[key]; ok && time.Now().After(exp) {
		delete(m.data, key)
		delete(m.expires, key)
		return nil, fmt.Errorf("key not found")
	}
	return v, nil
}

func (m *mockKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failed {
		return fmt.Errorf("storage unavailable")
	}
	m.data[key] = value
	m.ttls[key] = ttl
	if ttl > 0 {
		m.expires[key] = time.Now().Add(ttl)
	} else {
		delete(m.expires, key)
	}
	return nil
}

// expireAll backdates every stored entry past its TTL.
func (m *mockKV) expireAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.data {
		m.expires[key] = time.Now().Add(-time.Second)
	}
}

func (m *mockKV) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock BusRepository ---

type mockBusRepo struct {
	getByIDFn   func(ctx context.Context, id string) (*domain.Bus, error)
	getByNameFn func(ctx context.Context, name string) (*domain.Bus, error)
}

func (m *mockBusRepo) Upsert(ctx context.Context, bus *domain.Bus) error { return nil }

func (m *mockBusRepo) GetByID(ctx context.Context, id string) (*domain.Bus, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockBusRepo) GetByName(ctx context.Context, name string) (*domain.Bus, error) {
	if m.getByNameFn != nil {
		return m.getByNameFn(ctx, name)
	}
	return nil, domain.ErrNotFound
}

func (m *mockBusRepo) List(ctx context.Context) ([]domain.Bus, error) { return nil, nil }

// --- Mock PositionPublisher ---

type mockPublisher struct {
	mu     sync.Mutex
	frames []domain.GPSFix
}

func (m *mockPublisher) PublishRawFix(ctx context.Context, fix *domain.GPSFix) error { return nil }

func (m *mockPublisher) PublishPosition(ctx context.Context, fix *domain.GPSFix) error {
	m.mu.Lock()
	m.frames = append(m.frames, *fix)
	m.mu.Unlock()
	return nil
}

func (m *mockPublisher) frameCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.frames)
}
