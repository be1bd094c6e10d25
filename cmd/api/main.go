package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/routesathi/routesathi/internal/adapters/http"
	natsadapter "github.com/routesathi/routesathi/internal/adapters/nats"
	"github.com/routesathi/routesathi/internal/adapters/nominatim"
	"github.com/routesathi/routesathi/internal/adapters/osrm"
	"github.com/routesathi/routesathi/internal/adapters/postgres"
	"github.com/routesathi/routesathi/internal/adapters/valkey"
	"github.com/routesathi/routesathi/internal/core/ports"
	"github.com/routesathi/routesathi/internal/core/usecases"
	"github.com/routesathi/routesathi/internal/pkg/config"
	"github.com/routesathi/routesathi/internal/pkg/logging"
	"github.com/routesathi/routesathi/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("routesathi-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("api", logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Durable KV cache. Optional: the resolver runs uncached without it.
	var kv ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, resolver runs uncached", "error", err)
	} else {
		defer cache.Close()
		kv = cache
	}

	// NATS
	nc, err := natsadapter.Connect(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer nc.Drain()
	}

	// Providers. The resolver owns its geocoder instance: session cache and
	// rate limit are private to this process.
	geocoder := usecases.NewGeocodeService(
		nominatim.NewClient(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent, cfg.Geocoder.MinDelay()),
	)
	router := osrm.NewClient(cfg.OSRM.BaseURL)

	busRepo := postgres.NewBusRepo(db)
	resolver := usecases.NewResolveService(busRepo, kv, geocoder, router, cfg.OSRM.Profile)
	routeCache := usecases.NewRouteCache(router, kv)

	deps := &http.Dependencies{
		Resolver: resolver,
		Routes:   routeCache,
		Profile:  cfg.OSRM.Profile,
		Buses:    busRepo,
		NATS:     nc,
		DB:       db,
		Cache:    cache,
	}
	if nc != nil {
		deps.Positions = natsadapter.NewPositionPublisher(nc)
		deps.Geometry = natsadapter.NewGeometryClient(nc)
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "RouteSathi API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
