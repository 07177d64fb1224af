package storage

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"
)

// PostgresStore is a PostgreSQL implementation of Store keeping each file as a
// row of the files table (see migration.EnsureMigrated).
// It uses database/sql with parameterized queries.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(db *sql.DB, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

var (
	_ Store   = (*PostgresStore)(nil)
	_ Creator = (*PostgresStore)(nil)
	_ Pinger  = (*PostgresStore)(nil)
)

// Exists reports whether a row with the given name exists.
func (s *PostgresStore) Exists(ctx context.Context, name string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM files WHERE name = $1)`
	var ok bool
	if err := s.db.QueryRowContext(ctx, q, name).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// Read fetches the content of a single file.
func (s *PostgresStore) Read(ctx context.Context, name string) ([]byte, error) {
	const q = `SELECT content FROM files WHERE name = $1`
	var b []byte
	if err := s.db.QueryRowContext(ctx, q, name).Scan(&b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// Write upserts the file row, replacing any previous content.
func (s *PostgresStore) Write(ctx context.Context, name string, data []byte) error {
	const q = `
		INSERT INTO files (name, content)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE
		SET content = EXCLUDED.content, updated_at = now()
	`
	if _, err := s.db.ExecContext(ctx, q, name, data); err != nil {
		s.logger.Error("Failed to write file row", zap.String("name", name), zap.Error(err))
		return err
	}
	return nil
}

// Create inserts the file row only when the name is free.
func (s *PostgresStore) Create(ctx context.Context, name string, data []byte) error {
	const q = `
		INSERT INTO files (name, content)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, q, name, data)
	if err != nil {
		s.logger.Error("Failed to insert file row", zap.String("name", name), zap.Error(err))
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrExists
	}
	return nil
}

// Delete removes a file row.
func (s *PostgresStore) Delete(ctx context.Context, name string) error {
	const q = `DELETE FROM files WHERE name = $1`
	res, err := s.db.ExecContext(ctx, q, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns file names in creation order.
func (s *PostgresStore) List(ctx context.Context) ([]string, error) {
	const q = `SELECT name FROM files ORDER BY created_at, name`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
