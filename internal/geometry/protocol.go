package geometry

import (
	"log/slog"

	"github.com/routesathi/routesathi/internal/core/domain"
)

// Request types understood by the worker. The set is closed: Handle matches
// every type and logs unknown ones.
const (
	TypeParseGeometry        = "parseGeometry"
	TypeComputeArrowBearings = "computeArrowBearings"
	TypeHaversineChain       = "haversineChain"
	TypeFilterNoisyGPS       = "filterNoisyGps"
)

// Request is one worker message. Type selects the operation; only the
// fields that operation reads are set.
type Request struct {
	Type string `json:"type"`

	Coordinates         [][]float64       `json:"coordinates,omitempty"` // lon-first
	TotalDistanceMeters float64           `json:"total_distance_meters,omitempty"`
	Points              []domain.GeoPoint `json:"points,omitempty"`
	Fixes               []domain.GPSFix   `json:"fixes,omitempty"`
	MinDistanceMeters   float64           `json:"min_distance_meters,omitempty"`
}

// Response mirrors the request type and carries that operation's result.
type Response struct {
	Type string `json:"type"`

	Points     []domain.GeoPoint   `json:"points,omitempty"`
	DistanceKm float64             `json:"distance_km,omitempty"`
	Arrows     []domain.ArrowPoint `json:"arrows,omitempty"`
	TotalKm    float64             `json:"total_km,omitempty"`
	Fixes      []domain.GPSFix     `json:"fixes,omitempty"`
}

// Handle executes one request. It returns nil for an unrecognized type,
// which the transport must treat as "send no reply".
func Handle(req *Request) *Response {
	switch req.Type {
	case TypeParseGeometry:
		points, km := ParseGeometry(req.Coordinates, req.TotalDistanceMeters)
		return &Response{Type: req.Type, Points: points, DistanceKm: km}

	case TypeComputeArrowBearings:
		return &Response{Type: req.Type, Arrows: ComputeArrowBearings(req.Points)}

	case TypeHaversineChain:
		return &Response{Type: req.Type, TotalKm: HaversineChain(req.Points)}

	case TypeFilterNoisyGPS:
		return &Response{Type: req.Type, Fixes: FilterNoisyGPS(req.Fixes, req.MinDistanceMeters)}

	default:
		slog.Warn("unknown geometry request type", "type", req.Type)
		return nil
	}
}
