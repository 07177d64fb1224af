package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"fileapi/internal/config"
)

// minioStorage implements the Store interface using an S3-compatible backend (MinIO, AWS S3, etc.).
// Files live under an optional key prefix inside one bucket.
// It is safe for concurrent use by multiple goroutines.
type minioStorage struct {
	client *minio.Client
	bucket string
	prefix string
	logger *zap.Logger
}

var (
	_ Store  = (*minioStorage)(nil)
	_ Pinger = (*minioStorage)(nil)
)

// NewMinIO creates a new S3-compatible store backed by MinIO.
// It validates connectivity and ensures the bucket exists (creates it if missing).
func NewMinIO(cfg config.MinIOConfig, logger *zap.Logger) (Store, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ms := &minioStorage{
		client: cli,
		bucket: cfg.Bucket,
		prefix: normalizePrefix(cfg.Prefix),
		logger: logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ensure bucket exists.
	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		logger.Info("Created bucket", zap.String("bucket", cfg.Bucket))
	}

	return ms, nil
}

func normalizePrefix(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	return p + "/"
}

func (m *minioStorage) key(name string) string {
	return m.prefix + name
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

func (m *minioStorage) Exists(ctx context.Context, name string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucket, m.key(name), minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Read downloads the whole object; GetObject is lazy so missing keys surface on read.
func (m *minioStorage) Read(ctx context.Context, name string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, m.key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	b, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, ErrNotFound
		}
		m.logger.Error("Failed to read object", zap.String("key", m.key(name)), zap.Error(err))
		return nil, err
	}
	return b, nil
}

func (m *minioStorage) Write(ctx context.Context, name string, data []byte) error {
	ct := mime.TypeByExtension(path.Ext(name))
	if ct == "" {
		ct = "application/octet-stream"
	}
	_, err := m.client.PutObject(ctx, m.bucket, m.key(name), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: ct,
	})
	if err != nil {
		m.logger.Error("Failed to put object", zap.String("key", m.key(name)), zap.Error(err))
		return err
	}
	m.logger.Debug("Object written", zap.String("key", m.key(name)), zap.Int("size", len(data)))
	return nil
}

// Delete checks presence first because RemoveObject succeeds on missing keys.
func (m *minioStorage) Delete(ctx context.Context, name string) error {
	ok, err := m.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return m.client.RemoveObject(ctx, m.bucket, m.key(name), minio.RemoveObjectOptions{})
}

// List enumerates objects directly under the prefix.
func (m *minioStorage) List(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	names := make([]string, 0)
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: m.prefix}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		names = append(names, strings.TrimPrefix(obj.Key, m.prefix))
	}
	return names, nil
}

func (m *minioStorage) Ping(ctx context.Context) error {
	ok, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %s does not exist", m.bucket)
	}
	return nil
}
