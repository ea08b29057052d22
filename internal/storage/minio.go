package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"repoapi/internal/config"
)

const connectTimeout = 10 * time.Second

// minioStorage is safe for concurrent use; the underlying client pools connections.
type minioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIO connects to the configured bucket. It fails when the bucket is missing
// because the API only reads and never creates it.
func NewMinIO(cfg config.MinIOConfig) (Storage, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	s := &minioStorage{client: cli, bucket: cfg.Bucket}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func validate(cfg config.MinIOConfig) error {
	switch {
	case cfg.Endpoint == "":
		return errors.New("minio endpoint is required")
	case cfg.AccessKey == "" || cfg.SecretKey == "":
		return errors.New("minio credentials are required")
	case cfg.Bucket == "":
		return errors.New("minio bucket is required")
	}
	return nil
}

// PingContext checks that the bucket exists and is reachable.
func (m *minioStorage) PingContext(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", m.bucket, err)
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist", m.bucket)
	}
	return nil
}

// Fetch reads the object at key into memory.
func (m *minioStorage) Fetch(ctx context.Context, key string, limit int64) ([]byte, ObjectInfo, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, translate(err)
	}
	defer obj.Close()

	// GetObject is lazy; Stat issues the request and surfaces a missing key.
	st, err := obj.Stat()
	if err != nil {
		return nil, ObjectInfo{}, translate(err)
	}
	info := ObjectInfo{Key: key, Size: st.Size, ETag: st.ETag, LastModified: st.LastModified}
	if st.Size > limit {
		return nil, info, fmt.Errorf("%w: %s is %d bytes", ErrObjectTooLarge, key, st.Size)
	}

	data, err := io.ReadAll(io.LimitReader(obj, limit))
	if err != nil {
		return nil, info, fmt.Errorf("read %s: %w", key, translate(err))
	}
	return data, info, nil
}

func translate(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("%w: %v", ErrObjectNotFound, err)
	}
	return err
}
