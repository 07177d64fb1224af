package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPostgresMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db, zap.NewNop()), mock
}

func TestPostgresStore_Exists(t *testing.T) {
	s, mock := newPostgresMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM files WHERE name = $1)")).
		WithArgs("a.csv").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := s.Exists(context.Background(), "a.csv")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Read(t *testing.T) {
	ctx := context.Background()
	const q = "SELECT content FROM files WHERE name = $1"

	t.Run("found", func(t *testing.T) {
		s, mock := newPostgresMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(q)).WithArgs("a.json").
			WillReturnRows(sqlmock.NewRows([]string{"content"}).AddRow([]byte(`{"a":1}`)))

		b, err := s.Read(ctx, "a.json")
		assert.NoError(t, err)
		assert.Equal(t, `{"a":1}`, string(b))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newPostgresMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(q)).WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"content"}))

		_, err := s.Read(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		s, mock := newPostgresMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(q)).WithArgs("x").WillReturnError(errors.New("db fail"))

		_, err := s.Read(ctx, "x")
		assert.EqualError(t, err, "db fail")
	})
}

func TestPostgresStore_Write(t *testing.T) {
	s, mock := newPostgresMock(t)

	mock.ExpectExec("INSERT INTO files .* ON CONFLICT \\(name\\) DO UPDATE").
		WithArgs("a.txt", []byte("hello")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, s.Write(context.Background(), "a.txt", []byte("hello")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Create(t *testing.T) {
	ctx := context.Background()
	const q = "INSERT INTO files .* ON CONFLICT \\(name\\) DO NOTHING"

	t.Run("inserted", func(t *testing.T) {
		s, mock := newPostgresMock(t)
		mock.ExpectExec(q).WithArgs("a.txt", []byte("x")).WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.Create(ctx, "a.txt", []byte("x")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("name taken", func(t *testing.T) {
		s, mock := newPostgresMock(t)
		mock.ExpectExec(q).WithArgs("a.txt", []byte("x")).WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.Create(ctx, "a.txt", []byte("x")), ErrExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_Delete(t *testing.T) {
	ctx := context.Background()
	const q = "DELETE FROM files WHERE name = $1"

	t.Run("deleted", func(t *testing.T) {
		s, mock := newPostgresMock(t)
		mock.ExpectExec(regexp.QuoteMeta(q)).WithArgs("a.txt").WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.Delete(ctx, "a.txt"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		s, mock := newPostgresMock(t)
		mock.ExpectExec(regexp.QuoteMeta(q)).WithArgs("a.txt").WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.Delete(ctx, "a.txt"), ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_List(t *testing.T) {
	s, mock := newPostgresMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM files ORDER BY created_at, name")).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("b.csv").AddRow("a.json"))

	names, err := s.List(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"b.csv", "a.json"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	s := NewPostgresStore(db, zap.NewNop())

	mock.ExpectPing().WillDelayFor(time.Millisecond)
	assert.NoError(t, s.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	assert.Error(t, s.Ping(context.Background()))
}
