package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/routesathi/routesathi/internal/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|seed>")
	}

	cfg, err := config.Load("routesathi-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	switch os.Args[1] {
	case "up":
		runMigrations(ctx, pool)
	case "seed":
		seedBuses(ctx, pool)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool) {
	files := []string{
		"migrations/001_init_extensions.sql",
		"migrations/002_buses.sql",
	}

	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s: %v", f, err)
		}

		_, err = pool.Exec(ctx, string(data))
		if err != nil {
			log.Fatalf("exec %s: %v", f, err)
		}

		fmt.Printf("OK  %s\n", f)
	}

	log.Println("all migrations applied")
}

// seedBuses loads a starter set of routes so a fresh deployment has
// something to resolve.
func seedBuses(ctx context.Context, pool *pgxpool.Pool) {
	seeds := []struct {
		name   string
		number string
		stops  []string
	}{
		{"Chennai Express", "27B", []string{"Chennai", "Kanchipuram", "Vellore", "Krishnagiri", "Bangalore"}},
		{"Coimbatore Link", "14A", []string{"Coimbatore", "Tiruppur", "Erode", "Salem"}},
		{"Madurai Shuttle", "48C", []string{"Madurai", "Dindigul", "Tiruchirappalli"}},
	}

	for _, s := range seeds {
		_, err := pool.Exec(ctx,
			`INSERT INTO buses (name, number, stops, active)
			 VALUES ($1, $2, $3, true)
			 ON CONFLICT (name) DO UPDATE SET number = $2, stops = $3`,
			s.name, s.number, s.stops,
		)
		if err != nil {
			log.Fatalf("seed %s: %v", s.name, err)
		}
		fmt.Printf("OK  seeded %s (%s)\n", s.name, s.number)
	}

	log.Println("seed complete")
}
