package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routesathi",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "routesathi",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Geocoding metrics
	GeocodeLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routesathi",
		Subsystem: "geocode",
		Name:      "lookups_total",
		Help:      "Total stop-name resolutions, by source (cache or network)",
	}, []string{"source"})

	GeocodeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "routesathi",
		Subsystem: "geocode",
		Name:      "failures_total",
		Help:      "Total stop names that exhausted every query variant",
	})

	// Route cache metrics
	RouteCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routesathi",
		Subsystem: "routecache",
		Name:      "hits_total",
		Help:      "Total route geometry cache hits, by tier",
	}, []string{"tier"})

	RouteCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "routesathi",
		Subsystem: "routecache",
		Name:      "misses_total",
		Help:      "Total route geometry cache misses",
	})

	// Edge resolver metrics
	ResolveRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routesathi",
		Subsystem: "resolver",
		Name:      "requests_total",
		Help:      "Total consolidated route resolutions, by outcome (cache or fresh)",
	}, []string{"outcome"})

	// Tracking metrics
	FixesAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "routesathi",
		Subsystem: "tracking",
		Name:      "fixes_accepted_total",
		Help:      "Raw GPS fixes that passed the jitter filter",
	})

	FixesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "routesathi",
		Subsystem: "tracking",
		Name:      "fixes_dropped_total",
		Help:      "Raw GPS fixes dropped as jitter",
	})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "routesathi",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	// Geometry worker metrics
	WorkerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routesathi",
		Subsystem: "worker",
		Name:      "requests_total",
		Help:      "Geometry worker requests processed, by message type",
	}, []string{"type"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
