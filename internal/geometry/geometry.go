// Package geometry holds the CPU-heavy route-shape math that runs in the
// worker process: coordinate-order transforms, arrow bearings, cumulative
// distance, and GPS jitter filtering. Every function is pure.
package geometry

import (
	"github.com/routesathi/routesathi/internal/core/domain"
	"github.com/routesathi/routesathi/internal/pkg/geospatial"
)

// maxArrows caps how many direction arrows are sampled along a shape.
const maxArrows = 8

// DefaultMinFixDistance is the default jitter threshold in meters.
const DefaultMinFixDistance = 20.0

// ParseGeometry converts a routing-provider coordinate list (lon-first)
// into lat-first points and the total distance in kilometers.
func ParseGeometry(coordinates [][]float64, totalDistanceMeters float64) ([]domain.GeoPoint, float64) {
	points := make([]domain.GeoPoint, 0, len(coordinates))
	for _, c := range coordinates {
		if len(c) < 2 {
			continue
		}
		points = append(points, domain.GeoPoint{Lat: c[1], Lon: c[0]})
	}
	return points, totalDistanceMeters / 1000
}

// ComputeArrowBearings samples up to maxArrows points along the shape and
// computes the initial bearing from each sample toward the next one.
func ComputeArrowBearings(points []domain.GeoPoint) []domain.ArrowPoint {
	if len(points) < 2 {
		return nil
	}

	stride := len(points) / maxArrows
	if stride < 1 {
		stride = 1
	}

	arrows := make([]domain.ArrowPoint, 0, maxArrows)
	for i := 0; i+stride < len(points) && len(arrows) < maxArrows; i += stride {
		p, q := points[i], points[i+stride]
		arrows = append(arrows, domain.ArrowPoint{
			Lat:     p.Lat,
			Lon:     p.Lon,
			Bearing: geospatial.InitialBearing(p.Lat, p.Lon, q.Lat, q.Lon),
		})
	}
	return arrows
}

// HaversineChain sums consecutive pairwise great-circle distances and
// returns the total in kilometers.
func HaversineChain(points []domain.GeoPoint) float64 {
	var meters float64
	for i := 1; i < len(points); i++ {
		meters += geospatial.Haversine(
			points[i-1].Lat, points[i-1].Lon,
			points[i].Lat, points[i].Lon,
		)
	}
	return meters / 1000
}

// FilterNoisyGPS keeps the first fix unconditionally, then keeps each
// subsequent fix only if it moved at least minDistanceMeters from the last
// kept fix. Single greedy pass; a stationary vehicle collapses to one fix.
func FilterNoisyGPS(fixes []domain.GPSFix, minDistanceMeters float64) []domain.GPSFix {
	if minDistanceMeters <= 0 {
		minDistanceMeters = DefaultMinFixDistance
	}
	if len(fixes) == 0 {
		return nil
	}

	kept := []domain.GPSFix{fixes[0]}
	last := fixes[0]
	for _, f := range fixes[1:] {
		if geospatial.Haversine(last.Lat, last.Lon, f.Lat, f.Lon) >= minDistanceMeters {
			kept = append(kept, f)
			last = f
		}
	}
	return kept
}
