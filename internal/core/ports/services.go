package ports

import (
	"context"
	"time"

	"github.com/routesathi/routesathi/internal/core/domain"
)

// CacheService is a durable key/value store with per-key expiry.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// GeocodingProvider answers one free-text search query with ranked
// candidates. An empty slice with a nil error means no match.
type GeocodingProvider interface {
	Search(ctx context.Context, query string) ([]domain.GeocodeCandidate, error)
}

// RoutingProvider returns road-snapped geometry for an ordered waypoint
// sequence under a routing profile.
type RoutingProvider interface {
	Route(ctx context.Context, profile string, waypoints []domain.GeoPoint) (*domain.RouteLeg, error)
}

// PositionPublisher broadcasts vehicle positions: raw device readings for
// the tracker, smoothed frames for passengers.
type PositionPublisher interface {
	PublishRawFix(ctx context.Context, fix *domain.GPSFix) error
	PublishPosition(ctx context.Context, fix *domain.GPSFix) error
}
