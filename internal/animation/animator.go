// Package animation smooths marker motion between sparse position fixes
// with frame-scheduled interpolation.
package animation

import (
	"sync"
	"time"

	"github.com/routesathi/routesathi/internal/core/domain"
)

// DefaultDuration is the animation length used when none is given.
const DefaultDuration = 2800 * time.Millisecond

// DefaultTrackID is the track used when none is given.
const DefaultTrackID = "bus"

// frameInterval approximates one display frame.
const frameInterval = 16 * time.Millisecond

// Marker is an animatable map marker.
type Marker interface {
	Position() domain.GeoPoint
	SetPosition(p domain.GeoPoint)
}

// Animator runs at most one interpolation per track. Starting a new
// animation on a track always supersedes the previous one; cancellation
// takes effect before the next scheduled frame, so at most one stale frame
// may still run after a cancel.
type Animator struct {
	mu     sync.Mutex
	tracks map[string]chan struct{}
}

// NewAnimator creates an Animator with no running tracks.
func NewAnimator() *Animator {
	return &Animator{tracks: make(map[string]chan struct{})}
}

// AnimateTo cancels any in-flight animation on trackID, snapshots the
// marker's current position as the start, and schedules per-frame updates
// toward the target until the elapsed fraction reaches 1.
func (a *Animator) AnimateTo(marker Marker, lat, lon float64, duration time.Duration, trackID string) {
	if duration <= 0 {
		duration = DefaultDuration
	}
	if trackID == "" {
		trackID = DefaultTrackID
	}

	cancel := make(chan struct{})
	a.mu.Lock()
	if prev, ok := a.tracks[trackID]; ok {
		close(prev)
	}
	a.tracks[trackID] = cancel
	a.mu.Unlock()

	start := marker.Position()
	target := domain.GeoPoint{Lat: lat, Lon: lon}
	begin := time.Now()

	go func() {
		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()

		for {
			select {
			case <-cancel:
				return
			case <-ticker.C:
				t := float64(time.Since(begin)) / float64(duration)
				if t > 1 {
					t = 1
				}
				e := easeInOutQuad(t)
				marker.SetPosition(domain.GeoPoint{
					Lat: start.Lat + (target.Lat-start.Lat)*e,
					Lon: start.Lon + (target.Lon-start.Lon)*e,
				})
				if t >= 1 {
					a.release(trackID, cancel)
					return
				}
			}
		}
	}()
}

// Cancel stops the animation on trackID. No-op if nothing is running.
func (a *Animator) Cancel(trackID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if ch, ok := a.tracks[trackID]; ok {
		close(ch)
		delete(a.tracks, trackID)
	}
}

// release clears the track entry, but only if it still belongs to the
// finished animation and was not already superseded.
func (a *Animator) release(trackID string, own chan struct{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.tracks[trackID] == own {
		delete(a.tracks, trackID)
	}
}

// easeInOutQuad is a symmetric quadratic easing curve over [0,1].
func easeInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}
