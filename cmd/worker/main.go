package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	natsadapter "github.com/routesathi/routesathi/internal/adapters/nats"
	"github.com/routesathi/routesathi/internal/pkg/config"
	"github.com/routesathi/routesathi/internal/pkg/logging"
)

// The geometry worker answers route-shape math requests over NATS. It is
// stateless and safe to scale horizontally; workers share one queue group.
func main() {
	cfg, err := config.Load("routesathi-worker")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("worker", logLevel, "json")

	nc, err := natsadapter.Connect(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer nc.Drain()

	worker := natsadapter.NewGeometryWorker(nc)
	if err := worker.Start(); err != nil {
		log.Fatalf("worker subscribe: %v", err)
	}
	defer worker.Stop()

	slog.Info("geometry worker started", "subject", natsadapter.SubjectGeometryRequests)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutting down geometry worker", "signal", sig.String())
}
