package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"fileapi/internal/config"
	"fileapi/internal/database"
	"fileapi/internal/database/migration"
)

// Open builds the store selected by cfg.Storage.Driver. The returned close
// function releases driver resources and is never nil.
func Open(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage.Driver {
	case config.DriverLocal, "":
		s, err := NewLocalDir(cfg.Storage.Root, logger)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil

	case config.DriverMemory:
		return NewMemory(), noop, nil

	case config.DriverMinIO:
		s, err := NewMinIO(cfg.MinIO, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("initialize object storage: %w", err)
		}
		return s, noop, nil

	case config.DriverPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, noop, fmt.Errorf("connect to database: %w", err)
		}
		if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return NewPostgresStore(db, logger), db.Close, nil
	}

	return nil, noop, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
