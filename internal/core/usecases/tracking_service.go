package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/routesathi/routesathi/internal/animation"
	"github.com/routesathi/routesathi/internal/core/domain"
	"github.com/routesathi/routesathi/internal/core/ports"
	"github.com/routesathi/routesathi/internal/pkg/geospatial"
	"github.com/routesathi/routesathi/internal/pkg/metrics"
)

// TrackingService turns raw GPS fixes into smoothed position frames. Fixes
// that moved less than the jitter threshold from the last accepted fix are
// dropped; accepted fixes drive an animated marker per vehicle whose frames
// are published downstream.
type TrackingService struct {
	publisher       ports.PositionPublisher
	animator        *animation.Animator
	minFixDistanceM float64
	animateDuration time.Duration

	mu       sync.Mutex
	lastKept map[string]domain.GPSFix
	markers  map[string]*publishingMarker
}

// NewTrackingService creates a TrackingService. Zero values fall back to
// the 20 m jitter threshold and the default animation duration.
func NewTrackingService(publisher ports.PositionPublisher, minFixDistanceM float64, animateDuration time.Duration) *TrackingService {
	if minFixDistanceM <= 0 {
		minFixDistanceM = 20
	}
	if animateDuration <= 0 {
		animateDuration = animation.DefaultDuration
	}
	return &TrackingService{
		publisher:       publisher,
		animator:        animation.NewAnimator(),
		minFixDistanceM: minFixDistanceM,
		animateDuration: animateDuration,
		lastKept:        make(map[string]domain.GPSFix),
		markers:         make(map[string]*publishingMarker),
	}
}

// ProcessFix filters one raw fix and, if accepted, animates the vehicle's
// marker toward it. The first fix for a vehicle is always accepted and
// published immediately so the marker has a starting position.
func (s *TrackingService) ProcessFix(ctx context.Context, fix *domain.GPSFix) error {
	s.mu.Lock()
	last, seen := s.lastKept[fix.VehicleID]
	if seen && geospatial.Haversine(last.Lat, last.Lon, fix.Lat, fix.Lon) < s.minFixDistanceM {
		s.mu.Unlock()
		metrics.FixesDropped.Inc()
		return nil
	}
	s.lastKept[fix.VehicleID] = *fix

	marker, ok := s.markers[fix.VehicleID]
	if !ok {
		marker = &publishingMarker{
			vehicleID: fix.VehicleID,
			publisher: s.publisher,
			pos:       domain.GeoPoint{Lat: fix.Lat, Lon: fix.Lon},
		}
		s.markers[fix.VehicleID] = marker
	}
	s.mu.Unlock()

	metrics.FixesAccepted.Inc()

	if !ok {
		marker.SetPosition(domain.GeoPoint{Lat: fix.Lat, Lon: fix.Lon})
		return nil
	}

	s.animator.AnimateTo(marker, fix.Lat, fix.Lon, s.animateDuration, fix.VehicleID)
	return nil
}

// Stop cancels the animation for one vehicle.
func (s *TrackingService) Stop(vehicleID string) {
	s.animator.Cancel(vehicleID)
}

// publishingMarker is an animation.Marker whose position updates are
// broadcast as smoothed frames.
type publishingMarker struct {
	vehicleID string
	publisher ports.PositionPublisher

	mu  sync.Mutex
	pos domain.GeoPoint
}

func (m *publishingMarker) Position() domain.GeoPoint {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pos
}

func (m *publishingMarker) SetPosition(p domain.GeoPoint) {
	m.mu.Lock()
	m.pos = p
	m.mu.Unlock()

	if m.publisher != nil {
		_ = m.publisher.PublishPosition(context.Background(), &domain.GPSFix{
			VehicleID: m.vehicleID,
			Lat:       p.Lat,
			Lon:       p.Lon,
			Timestamp: time.Now().UnixMilli(),
		})
	}
}
