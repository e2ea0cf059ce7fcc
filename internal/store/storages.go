package store

import (
	"context"
	"fmt"

	"github.com/ndmitriev/coinwatch/internal/config"
	"github.com/ndmitriev/coinwatch/internal/logger"
	"github.com/ndmitriev/coinwatch/migrations"
)

// Storages is the container of all repository implementations handed to the
// service layer. It keeps a reference to the underlying [*DB] so the server
// can expose a liveness probe and close the pool on shutdown.
type Storages struct {
	AccountRepository AccountRepository

	db *DB
}

// NewStorages connects to PostgreSQL, applies pending migrations, and
// constructs all repositories.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := migrations.Migrate(db.DB); err != nil {
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return &Storages{
		AccountRepository: NewAccountRepository(db, log),
		db:                db,
	}, nil
}

// Ping verifies database connectivity; used by the health endpoint.
func (s *Storages) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database connection pool.
func (s *Storages) Close() error {
	return s.db.Close()
}
