// Package osrm implements ports.RoutingProvider against an OSRM HTTP
// routing server.
package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/routesathi/routesathi/internal/core/domain"
)

// Client fetches road-snapped route geometry from OSRM.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the given OSRM base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
	} `json:"routes"`
}

// Route requests one route over the full waypoint sequence. Coordinates in
// the result keep OSRM's lon-first order; callers transform them.
func (c *Client) Route(ctx context.Context, profile string, waypoints []domain.GeoPoint) (*domain.RouteLeg, error) {
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("need at least 2 waypoints, got %d", len(waypoints))
	}

	coords := make([]string, 0, len(waypoints))
	for _, p := range waypoints {
		coords = append(coords, fmt.Sprintf("%f,%f", p.Lon, p.Lat))
	}

	url := fmt.Sprintf("%s/route/v1/%s/%s?overview=full&geometries=geojson",
		c.baseURL, profile, strings.Join(coords, ";"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("osrm status %d", resp.StatusCode)
	}

	var body routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode osrm response: %w", err)
	}
	if len(body.Routes) == 0 {
		return nil, fmt.Errorf("osrm returned no route (code %s)", body.Code)
	}

	r := body.Routes[0]
	return &domain.RouteLeg{
		Coordinates:    r.Geometry.Coordinates,
		DistanceMeters: r.Distance,
		DurationSec:    r.Duration,
	}, nil
}
