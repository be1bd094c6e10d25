package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/routesathi/routesathi/internal/core/domain"
	"github.com/routesathi/routesathi/internal/geometry"
)

// GeometryClient offloads geometry math to the worker process.
type GeometryClient struct {
	nc      *nats.Conn
	timeout time.Duration
}

// NewGeometryClient wraps an existing connection.
func NewGeometryClient(nc *nats.Conn) *GeometryClient {
	return &GeometryClient{nc: nc, timeout: 5 * time.Second}
}

// Do sends one request and waits for the worker's reply.
func (c *GeometryClient) Do(ctx context.Context, req *geometry.Request) (*geometry.Response, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msg, err := c.nc.RequestWithContext(ctx, SubjectGeometryRequests, data)
	if err != nil {
		return nil, fmt.Errorf("geometry request %s: %w", req.Type, err)
	}

	var resp geometry.Response
	if err := json.Unmarshal(msg.Data, &resp); err != nil {
		return nil, fmt.Errorf("decode geometry response: %w", err)
	}
	return &resp, nil
}

// ArrowBearings asks the worker for direction-arrow samples along a shape.
func (c *GeometryClient) ArrowBearings(ctx context.Context, points []domain.GeoPoint) ([]domain.ArrowPoint, error) {
	resp, err := c.Do(ctx, &geometry.Request{
		Type:   geometry.TypeComputeArrowBearings,
		Points: points,
	})
	if err != nil {
		return nil, err
	}
	return resp.Arrows, nil
}
