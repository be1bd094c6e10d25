package http

import (
	"github.com/nats-io/nats.go"

	natsadapter "github.com/routesathi/routesathi/internal/adapters/nats"
	"github.com/routesathi/routesathi/internal/adapters/postgres"
	"github.com/routesathi/routesathi/internal/adapters/valkey"
	"github.com/routesathi/routesathi/internal/core/ports"
	"github.com/routesathi/routesathi/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Resolver  *usecases.ResolveService
	Routes    *usecases.RouteCache
	Profile   string
	Buses     ports.BusRepository
	Positions ports.PositionPublisher
	Geometry  *natsadapter.GeometryClient
	NATS      *nats.Conn
	DB        *postgres.DB
	Cache     *valkey.Cache
}
