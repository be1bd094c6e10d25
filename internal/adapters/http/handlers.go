package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/routesathi/routesathi/internal/core/domain"
	"github.com/routesathi/routesathi/internal/core/usecases"
	"github.com/routesathi/routesathi/internal/geometry"
)

// resolveResponse is the edge resolver contract plus the direction arrows
// computed for map display. Arrows are derived per response, never cached.
type resolveResponse struct {
	Stops       []domain.GeocodeResult `json:"stops"`
	Geometry    []domain.GeoPoint      `json:"geometry"`
	DistanceKm  float64                `json:"distanceKm"`
	DurationSec float64                `json:"durationSec"`
	CachedAt    time.Time              `json:"cachedAt"`
	FromCache   bool                   `json:"fromCache"`
	Arrows      []domain.ArrowPoint    `json:"arrows,omitempty"`
}

// ResolveRouteHandler serves the consolidated geocode+route resolution.
func ResolveRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req usecases.ResolveRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "malformed JSON body")
		}

		res, err := deps.Resolver.Resolve(c.UserContext(), &req)
		if err != nil {
			return mapDomainError(c, err)
		}

		return c.JSON(resolveResponse{
			Stops:       res.Stops,
			Geometry:    res.Geometry,
			DistanceKm:  res.DistanceKm,
			DurationSec: res.DurationSec,
			CachedAt:    res.CachedAt,
			FromCache:   res.FromCache,
			Arrows:      arrowsFor(c, deps, res.Geometry),
		})
	}
}

// arrowsFor offloads the bearing math to the geometry worker, falling back
// to an in-process computation when the worker is unreachable.
func arrowsFor(c *fiber.Ctx, deps *Dependencies, points []domain.GeoPoint) []domain.ArrowPoint {
	if deps.Geometry != nil {
		arrows, err := deps.Geometry.ArrowBearings(c.UserContext(), points)
		if err == nil {
			return arrows
		}
		slog.Debug("geometry worker unavailable, computing locally", "error", err)
	}
	return geometry.ComputeArrowBearings(points)
}

// segmentRequest asks for road-snapped geometry between known coordinates.
type segmentRequest struct {
	Points  []domain.GeoPoint `json:"points"`
	Prewarm bool              `json:"prewarm,omitempty"`
}

// RouteSegmentHandler serves cached road geometry for a coordinate
// sequence, fetching and caching it on a miss. With prewarm set the fetch
// runs in the background and the handler returns immediately.
func RouteSegmentHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req segmentRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "malformed JSON body")
		}
		if len(req.Points) < 2 {
			return errBadRequest(c, "need at least 2 points")
		}

		if req.Prewarm {
			deps.Routes.PrewarmAsync(context.WithoutCancel(c.UserContext()), req.Points, deps.Profile)
			return c.SendStatus(fiber.StatusAccepted)
		}

		geom := deps.Routes.Get(c.UserContext(), req.Points, deps.Profile)
		if geom == nil {
			if err := deps.Routes.Prewarm(c.UserContext(), req.Points, deps.Profile); err != nil {
				return errBadGateway(c, err.Error())
			}
			geom = deps.Routes.Get(c.UserContext(), req.Points, deps.Profile)
		}
		if geom == nil {
			return errInternal(c, "route geometry unavailable")
		}
		return c.JSON(geom)
	}
}

// ListBusesHandler returns all registered buses with their stop lists.
func ListBusesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		buses, err := deps.Buses.List(c.UserContext())
		if err != nil {
			return errInternal(c, err.Error())
		}
		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(buses)
	}
}

// GetBusHandler returns one bus by ID.
func GetBusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bus, err := deps.Buses.GetByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return mapDomainError(c, err)
		}
		return c.JSON(bus)
	}
}

// positionRequest is a raw device reading posted by a driver gateway.
type positionRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// IngestPositionHandler accepts a raw GPS fix and hands it to the tracker
// via NATS. Filtering and smoothing happen downstream.
func IngestPositionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req positionRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "malformed JSON body")
		}
		if req.Lat < -90 || req.Lat > 90 || req.Lon < -180 || req.Lon > 180 {
			return errBadRequest(c, "lat/lon out of range")
		}

		fix := &domain.GPSFix{
			VehicleID: c.Params("id"),
			Lat:       req.Lat,
			Lon:       req.Lon,
			Timestamp: time.Now().UnixMilli(),
		}
		if err := deps.Positions.PublishRawFix(c.UserContext(), fix); err != nil {
			return errInternal(c, err.Error())
		}
		return c.SendStatus(fiber.StatusAccepted)
	}
}

// WorkerRequestHandler exposes the worker protocol over HTTP for clients
// that cannot speak NATS. Unknown types get an empty 204 by contract.
func WorkerRequestHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req geometry.Request
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "malformed JSON body")
		}
		resp := geometry.Handle(&req)
		if resp == nil {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.JSON(resp)
	}
}
