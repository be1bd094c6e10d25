package domain

import (
	"time"
)

// Bus is a tracked vehicle together with the ordered stop names of its route.
type Bus struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Number    string    `json:"number,omitempty"`
	Stops     []string  `json:"stops"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// GeocodeResult is a resolved stop name. CorrectedName is the display name
// the provider returned for the winning candidate.
type GeocodeResult struct {
	CorrectedName string  `json:"corrected_name"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
}

// GeocodeCandidate is one raw provider match for a free-text query.
type GeocodeCandidate struct {
	DisplayName string
	Name        string
	Lat         float64
	Lon         float64
}

// RouteGeometry is road-snapped route geometry as stored by the route cache.
type RouteGeometry struct {
	Points     []GeoPoint `json:"points"` // lat-first order
	DistanceKm float64    `json:"distance_km"`
	CachedAt   time.Time  `json:"cached_at"`
}

// RouteResolution is the consolidated geocode+route result served by the
// edge resolver and stored in the durable cache with an absolute TTL.
type RouteResolution struct {
	Stops       []GeocodeResult `json:"stops"`
	Geometry    []GeoPoint      `json:"geometry"`
	DistanceKm  float64         `json:"distance_km"`
	DurationSec float64         `json:"duration_sec"`
	CachedAt    time.Time       `json:"cached_at"`
	FromCache   bool            `json:"from_cache"`
}

// RouteLeg is the raw routing-provider answer for one waypoint sequence.
// Coordinates keep the provider's lon-first order until parsed.
type RouteLeg struct {
	Coordinates    [][]float64
	DistanceMeters float64
	DurationSec    float64
}
