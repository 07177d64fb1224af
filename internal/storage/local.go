package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// localStorage keeps files in a directory through an afero filesystem.
// The filesystem is expected to be rooted at the storage directory.
type localStorage struct {
	fs     afero.Fs
	logger *zap.Logger
}

var (
	_ Store   = (*localStorage)(nil)
	_ Creator = (*localStorage)(nil)
	_ Pinger  = (*localStorage)(nil)
)

// NewLocal creates a store over an already rooted filesystem.
// Tests pass afero.NewMemMapFs().
func NewLocal(fsys afero.Fs, logger *zap.Logger) Store {
	return &localStorage{fs: fsys, logger: logger}
}

// NewLocalDir creates a store rooted at dir on the OS filesystem, creating the
// directory when it is missing.
func NewLocalDir(dir string, logger *zap.Logger) (Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return NewLocal(afero.NewBasePathFs(osFs, dir), logger), nil
}

func (s *localStorage) Exists(ctx context.Context, name string) (bool, error) {
	fi, err := s.fs.Stat(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !fi.IsDir(), nil
}

func (s *localStorage) Read(ctx context.Context, name string) ([]byte, error) {
	if err := s.statFile(name); err != nil {
		return nil, err
	}
	b, err := afero.ReadFile(s.fs, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		s.logger.Error("Failed to read file", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	s.logger.Debug("File read", zap.String("name", name), zap.Int("size", len(b)))
	return b, nil
}

func (s *localStorage) Write(ctx context.Context, name string, data []byte) error {
	if err := afero.WriteFile(s.fs, name, data, 0o644); err != nil {
		s.logger.Error("Failed to write file", zap.String("name", name), zap.Error(err))
		return err
	}
	s.logger.Debug("File written", zap.String("name", name), zap.Int("size", len(data)))
	return nil
}

// Create relies on O_EXCL so concurrent creators cannot both succeed.
func (s *localStorage) Create(ctx context.Context, name string, data []byte) error {
	f, err := s.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			if fi, serr := s.fs.Stat(name); serr == nil && fi.IsDir() {
				return fmt.Errorf("%w: %s is a directory", ErrInvalidName, name)
			}
			return ErrExists
		}
		return err
	}
	if _, err := f.Write(data); err != nil {
		return errors.Join(err, f.Close(), s.fs.Remove(name))
	}
	if err := f.Close(); err != nil {
		return err
	}
	s.logger.Debug("File created", zap.String("name", name), zap.Int("size", len(data)))
	return nil
}

// Delete never removes directories, empty or not.
func (s *localStorage) Delete(ctx context.Context, name string) error {
	if err := s.statFile(name); err != nil {
		return err
	}
	if err := s.fs.Remove(name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		s.logger.Error("Failed to delete file", zap.String("name", name), zap.Error(err))
		return err
	}
	s.logger.Debug("File deleted", zap.String("name", name))
	return nil
}

// statFile reports ErrNotFound unless name is a file directly under the root.
func (s *localStorage) statFile(name string) error {
	fi, err := s.fs.Stat(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		s.logger.Error("Failed to stat file", zap.String("name", name), zap.Error(err))
		return err
	}
	if fi.IsDir() {
		return ErrNotFound
	}
	return nil
}

// List returns regular files in the root directory; subdirectories are ignored.
func (s *localStorage) List(ctx context.Context) ([]string, error) {
	entries, err := afero.ReadDir(s.fs, ".")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func (s *localStorage) Ping(ctx context.Context) error {
	fi, err := s.fs.Stat(".")
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("storage root is not a directory")
	}
	return nil
}
