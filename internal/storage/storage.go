// Package storage contains the backing store abstraction for files and its drivers
// (local directory, in-memory, S3-compatible object storage, PostgreSQL table).
// Stores hold flat files addressed by name inside a single namespace.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when the named file is not in the store.
	ErrNotFound = errors.New("file not found in store")
	// ErrExists is returned by Creator.Create when the name is already taken.
	ErrExists = errors.New("file already exists in store")
	// ErrInvalidName is returned when the name cannot hold a file, such as a
	// name taken by a directory.
	ErrInvalidName = errors.New("name cannot hold a file")
)

// Store is the file persistence capability the services depend on.
// Every call reaches the backing store; implementations keep no metadata cache.
type Store interface {
	// Exists reports whether a file with the given name is present.
	Exists(ctx context.Context, name string) (bool, error)
	// Read returns the whole content of a file, or ErrNotFound.
	Read(ctx context.Context, name string) ([]byte, error)
	// Write creates or fully replaces a file.
	Write(ctx context.Context, name string, data []byte) error
	// Delete removes a file, or returns ErrNotFound.
	Delete(ctx context.Context, name string) error
	// List returns the names of all files in store enumeration order.
	List(ctx context.Context) ([]string, error)
}

// Creator is implemented by stores with an atomic create-if-absent primitive.
type Creator interface {
	// Create writes a new file and fails with ErrExists if the name is taken
	// by a file, or ErrInvalidName if it is taken by something else.
	Create(ctx context.Context, name string, data []byte) error
}

// Pinger is implemented by stores that can report their availability.
type Pinger interface {
	Ping(ctx context.Context) error
}
