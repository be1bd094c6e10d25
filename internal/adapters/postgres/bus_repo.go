package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/routesathi/routesathi/internal/core/domain"
)

// BusRepo implements ports.BusRepository.
type BusRepo struct {
	db *DB
}

func NewBusRepo(db *DB) *BusRepo { return &BusRepo{db: db} }

func (r *BusRepo) Upsert(ctx context.Context, bus *domain.Bus) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO buses (name, number, stops, active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE
		SET number = EXCLUDED.number, stops = EXCLUDED.stops, active = EXCLUDED.active
	`, bus.Name, bus.Number, bus.Stops, bus.Active)
	return err
}

func (r *BusRepo) GetByID(ctx context.Context, id string) (*domain.Bus, error) {
	return r.get(ctx, `
		SELECT id, name, number, stops, active, created_at
		FROM buses WHERE id = $1
	`, id)
}

func (r *BusRepo) GetByName(ctx context.Context, name string) (*domain.Bus, error) {
	return r.get(ctx, `
		SELECT id, name, number, stops, active, created_at
		FROM buses WHERE lower(name) = lower($1)
	`, name)
}

func (r *BusRepo) get(ctx context.Context, query string, arg any) (*domain.Bus, error) {
	var b domain.Bus
	err := r.db.Pool.QueryRow(ctx, query, arg).Scan(
		&b.ID, &b.Name, &b.Number, &b.Stops, &b.Active, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BusRepo) List(ctx context.Context) ([]domain.Bus, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, number, stops, active, created_at
		FROM buses ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buses []domain.Bus
	for rows.Next() {
		var b domain.Bus
		if err := rows.Scan(&b.ID, &b.Name, &b.Number, &b.Stops, &b.Active, &b.CreatedAt); err != nil {
			return nil, err
		}
		buses = append(buses, b)
	}
	return buses, rows.Err()
}
