// Package nominatim implements ports.GeocodingProvider against the OSM
// Nominatim search API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/routesathi/routesathi/internal/core/domain"
)

// Client is a rate-limited Nominatim search client. The limiter enforces
// the minimum inter-request delay the provider's usage policy requires; the
// first request in a burst passes immediately, every later one waits.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a Client. minDelay spaces consecutive requests; zero
// disables the limiter (tests).
func NewClient(baseURL, userAgent string, minDelay time.Duration) *Client {
	limit := rate.Inf
	if minDelay > 0 {
		limit = rate.Every(minDelay)
	}
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(limit, 1),
	}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	NameDetails struct {
		Name string `json:"name"`
	} `json:"namedetails"`
}

// Search issues one free-text query and returns the provider's ranked
// candidates. An empty result with nil error means no match.
func (c *Client) Search(ctx context.Context, query string) ([]domain.GeocodeCandidate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"q":            {query},
		"format":       {"json"},
		"countrycodes": {"in"},
		"namedetails":  {"1"},
		"limit":        {"3"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode nominatim response: %w", err)
	}

	candidates := make([]domain.GeocodeCandidate, 0, len(results))
	for _, r := range results {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lon, lonErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lonErr != nil {
			continue
		}
		candidates = append(candidates, domain.GeocodeCandidate{
			DisplayName: r.DisplayName,
			Name:        r.NameDetails.Name,
			Lat:         lat,
			Lon:         lon,
		})
	}
	return candidates, nil
}
