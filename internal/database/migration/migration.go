package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_files",
		SQL: `CREATE TABLE IF NOT EXISTS files (
  name       TEXT        PRIMARY KEY CHECK (name <> ''),
  content    BYTEA       NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_files_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_files_created_at ON files (created_at);`,
	},
}

// EnsureMigrated checks if the 'files' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *zap.Logger, dbHost string) error {
	start := time.Now()
	log := logger.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("db_migration_check")

	var exists bool
	const query = "SELECT to_regclass('public.files') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("error_message", fmt.Sprintf("failed to check sentinel table: %v", err)),
			zap.Duration("duration_ms", time.Since(start)))
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("reason", "schema already exists"),
			zap.Duration("duration_ms", time.Since(start)))
		return nil
	}

	log.Info("db_migration_start", zap.Int("steps", len(steps)))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Duration("duration_ms", time.Since(start)),
				zap.Duration("step_duration_ms", time.Since(stepStart)))
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			zap.String("migration_step", step.Name),
			zap.Duration("step_duration_ms", time.Since(stepStart)))
	}

	log.Info("db_migration_success", zap.Duration("duration_ms", time.Since(start)))
	return nil
}
