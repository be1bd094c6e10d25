package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	natsadapter "github.com/routesathi/routesathi/internal/adapters/nats"
	"github.com/routesathi/routesathi/internal/core/usecases"
	"github.com/routesathi/routesathi/internal/pkg/config"
	"github.com/routesathi/routesathi/internal/pkg/logging"
)

// The tracker consumes raw GPS fixes, drops jitter, and republishes
// frame-interpolated positions for the WebSocket feed.
func main() {
	cfg, err := config.Load("routesathi-tracker")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("tracker", logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	nc, err := natsadapter.Connect(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer nc.Drain()

	publisher := natsadapter.NewPositionPublisher(nc)
	tracking := usecases.NewTrackingService(publisher, cfg.Tracker.MinFixDistanceM, cfg.Tracker.AnimateDuration())

	sub, err := natsadapter.SubscribeRawFixes(ctx, nc, tracking.ProcessFix)
	if err != nil {
		log.Fatalf("subscribe raw fixes: %v", err)
	}
	defer sub.Unsubscribe()

	slog.Info("tracker started",
		"min_fix_distance_m", cfg.Tracker.MinFixDistanceM,
		"animate", cfg.Tracker.AnimateDuration().String(),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutting down tracker", "signal", sig.String())
}
