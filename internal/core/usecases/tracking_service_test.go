package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/routesathi/routesathi/internal/core/domain"
	"github.com/routesathi/routesathi/internal/core/usecases"
)

func TestTrackingService_DropsJitter(t *testing.T) {
	pub := &mockPublisher{}
	svc := usecases.NewTrackingService(pub, 20, 40*time.Millisecond)
	ctx := context.Background()

	// First fix is always accepted and published as-is.
	_ = svc.ProcessFix(ctx, &domain.GPSFix{VehicleID: "bus-1", Lat: 0, Lon: 0})
	if pub.frameCount() != 1 {
		t.Fatalf("expected the first fix published immediately, got %d frames", pub.frameCount())
	}

	// ~5.5 m east of the last kept fix: jitter, no animation.
	_ = svc.ProcessFix(ctx, &domain.GPSFix{VehicleID: "bus-1", Lat: 0, Lon: 0.00005})
	time.Sleep(100 * time.Millisecond)
	if pub.frameCount() != 1 {
		t.Errorf("jitter fix produced %d extra frames", pub.frameCount()-1)
	}

	// ~111 m east: accepted, animated frames follow.
	_ = svc.ProcessFix(ctx, &domain.GPSFix{VehicleID: "bus-1", Lat: 0, Lon: 0.001})
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		pub.mu.Lock()
		n := len(pub.frames)
		var last domain.GPSFix
		if n > 0 {
			last = pub.frames[n-1]
		}
		pub.mu.Unlock()
		if n > 1 && last.Lon == 0.001 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("marker never reached the accepted fix")
}

func TestTrackingService_TracksVehiclesIndependently(t *testing.T) {
	pub := &mockPublisher{}
	svc := usecases.NewTrackingService(pub, 20, 30*time.Millisecond)
	ctx := context.Background()

	_ = svc.ProcessFix(ctx, &domain.GPSFix{VehicleID: "a", Lat: 0, Lon: 0})
	_ = svc.ProcessFix(ctx, &domain.GPSFix{VehicleID: "b", Lat: 10, Lon: 10})

	// A small move for "a" is jitter even though "b" is far away.
	_ = svc.ProcessFix(ctx, &domain.GPSFix{VehicleID: "a", Lat: 0, Lon: 0.00005})
	time.Sleep(80 * time.Millisecond)
	if pub.frameCount() != 2 {
		t.Errorf("expected only the two initial frames, got %d", pub.frameCount())
	}
}
