package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"fileapi/internal/content"
	"fileapi/internal/model"
	"fileapi/internal/storage"
)

var (
	// ErrValidation reports missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrAlreadyExists reports a create for a name that is taken.
	ErrAlreadyExists = errors.New("file already exists")
	// ErrNotFound reports an operation on a missing file.
	ErrNotFound = errors.New("file not found")
	// ErrUnsupportedContent reports content rejected by the kind's format.
	ErrUnsupportedContent = errors.New("unsupported content")
)

var tracer = otel.Tracer("fileapi/service")

// FileService defines the use cases for the files of one kind.
type FileService interface {
	// Kind returns the resource kind the service is bound to.
	Kind() model.Kind

	// List returns the names of the stored files belonging to the kind, in store order.
	List(ctx context.Context) ([]string, error)

	// Create stores a new file. Both name and content are required; an existing
	// name is rejected before the content is validated.
	Create(ctx context.Context, name, content string) error

	// Read returns the file content shaped by the kind: the raw text, the
	// decoded JSON value, or the CSV rows.
	Read(ctx context.Context, name string) (any, error)

	// Update fully replaces the content of an existing file.
	Update(ctx context.Context, name, content string) error

	// Delete removes a file.
	Delete(ctx context.Context, name string) error
}

// fileService is a concrete implementation of FileService.
type fileService struct {
	store  storage.Store
	format content.Format
	logger *zap.Logger
}

// NewFileService constructs the FileService for kind k over store.
func NewFileService(k model.Kind, store storage.Store, logger *zap.Logger) (FileService, error) {
	f, err := content.ForKind(k)
	if err != nil {
		return nil, err
	}
	return &fileService{
		store:  store,
		format: f,
		logger: logger.With(zap.String("kind", string(k))),
	}, nil
}

func (s *fileService) Kind() model.Kind { return s.format.Kind() }

func (s *fileService) List(ctx context.Context) (_ []string, err error) {
	ctx, span := s.startSpan(ctx, "files.list", "")
	defer func() { endSpan(span, err) }()

	names, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	out := make([]string, 0, len(names))
	for _, name := range names {
		ok, err := s.format.Includes(name, func() ([]byte, error) {
			return s.store.Read(ctx, name)
		})
		if err != nil {
			// Removed between enumeration and read.
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("inspect file %s: %w", name, err)
		}
		if ok {
			out = append(out, name)
		}
	}
	span.SetAttributes(attribute.Int("file.count", len(out)))
	return out, nil
}

func (s *fileService) Create(ctx context.Context, name, body string) (err error) {
	ctx, span := s.startSpan(ctx, "files.create", name)
	defer func() { endSpan(span, err) }()

	if name == "" || body == "" {
		return fmt.Errorf("%w: filename and content are required", ErrValidation)
	}
	if !validName(name) {
		return fmt.Errorf("%w: invalid filename %q", ErrValidation, name)
	}

	exists, err := s.store.Exists(ctx, name)
	if err != nil {
		return fmt.Errorf("check file: %w", err)
	}
	if exists {
		return ErrAlreadyExists
	}

	data := []byte(body)
	if err := s.format.ValidateCreate(data); err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedContent, err)
	}

	if c, ok := s.store.(storage.Creator); ok {
		err = c.Create(ctx, name, data)
	} else {
		err = s.store.Write(ctx, name, data)
	}
	if err != nil {
		if errors.Is(err, storage.ErrExists) {
			return ErrAlreadyExists
		}
		if errors.Is(err, storage.ErrInvalidName) {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return fmt.Errorf("write file: %w", err)
	}

	s.logger.Debug("File created", zap.String("name", name), zap.Int("size", len(data)))
	return nil
}

func (s *fileService) Read(ctx context.Context, name string) (_ any, err error) {
	ctx, span := s.startSpan(ctx, "files.read", name)
	defer func() { endSpan(span, err) }()

	if !validName(name) {
		return nil, ErrNotFound
	}

	data, err := s.store.Read(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read file: %w", err)
	}

	v, err := s.format.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedContent, err)
	}
	return v, nil
}

func (s *fileService) Update(ctx context.Context, name, body string) (err error) {
	ctx, span := s.startSpan(ctx, "files.update", name)
	defer func() { endSpan(span, err) }()

	if body == "" {
		return fmt.Errorf("%w: content is required", ErrValidation)
	}
	if !validName(name) {
		return ErrNotFound
	}

	exists, err := s.store.Exists(ctx, name)
	if err != nil {
		return fmt.Errorf("check file: %w", err)
	}
	if !exists {
		return ErrNotFound
	}

	data := []byte(body)
	if err := s.format.ValidateUpdate(data); err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedContent, err)
	}

	if err := s.store.Write(ctx, name, data); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	s.logger.Debug("File updated", zap.String("name", name), zap.Int("size", len(data)))
	return nil
}

func (s *fileService) Delete(ctx context.Context, name string) (err error) {
	ctx, span := s.startSpan(ctx, "files.delete", name)
	defer func() { endSpan(span, err) }()

	if !validName(name) {
		return ErrNotFound
	}

	if err := s.store.Delete(ctx, name); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete file: %w", err)
	}

	s.logger.Debug("File deleted", zap.String("name", name))
	return nil
}

// validName accepts plain file names only, so every name stays inside the store root.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}

func (s *fileService) startSpan(ctx context.Context, op, name string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("file.kind", string(s.Kind()))}
	if name != "" {
		attrs = append(attrs, attribute.String("file.name", name))
	}
	return tracer.Start(ctx, op, trace.WithAttributes(attrs...))
}

// endSpan records err on the span unless it is an expected domain outcome.
func endSpan(span trace.Span, err error) {
	if err != nil && !isDomainError(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func isDomainError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUnsupportedContent)
}
