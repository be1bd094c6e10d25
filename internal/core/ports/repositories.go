package ports

import (
	"context"

	"github.com/routesathi/routesathi/internal/core/domain"
)

// BusRepository persists buses and their ordered stop lists.
type BusRepository interface {
	Upsert(ctx context.Context, bus *domain.Bus) error
	GetByID(ctx context.Context, id string) (*domain.Bus, error)
	GetByName(ctx context.Context, name string) (*domain.Bus, error)
	List(ctx context.Context) ([]domain.Bus, error)
}
