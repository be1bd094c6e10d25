package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ArrowPoint is a sampled point along a route shape plus the initial
// bearing toward the next sampled point, in degrees [0,360).
type ArrowPoint struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Bearing float64 `json:"bearing"`
}

// GPSFix is a raw position reading from a vehicle device.
type GPSFix struct {
	VehicleID string  `json:"vehicle_id"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Timestamp int64   `json:"timestamp,omitempty"` // unix millis
}
