package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/routesathi/routesathi/internal/pkg/metrics"
)

// SetupRoutes registers all REST and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip). Geometry arrays compress well.
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":  "rate_limited",
				"detail": "too many requests, please try again later",
			})
		},
	}))

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")

	// Edge route resolver. Geocoding a cold stop list is slow (sequential
	// provider calls with enforced spacing), so the timeout is generous.
	v1.Post("/routes/resolve", timeout.NewWithContext(ResolveRouteHandler(deps), 60*time.Second))

	// Segment geometry for known coordinates (no geocoding)
	v1.Post("/routes/segment", timeout.NewWithContext(RouteSegmentHandler(deps), 30*time.Second))

	// Geometry worker ops over HTTP
	v1.Post("/geometry", timeout.NewWithContext(WorkerRequestHandler(deps), 15*time.Second))

	// Bus records
	v1.Get("/buses", timeout.NewWithContext(ListBusesHandler(deps), 15*time.Second))
	v1.Get("/buses/:id", timeout.NewWithContext(GetBusHandler(deps), 15*time.Second))

	// Raw GPS ingest
	v1.Post("/buses/:id/position", timeout.NewWithContext(IngestPositionHandler(deps), 15*time.Second))

	// WebSocket position feed
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
