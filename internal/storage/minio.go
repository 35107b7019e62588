package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"recordgate/internal/config"
	"recordgate/internal/contenthash"
)

const keyPrefix = "records/"

// minioStorage implements ContentStore on an S3-compatible backend (MinIO, AWS S3, etc.).
// It is safe for concurrent use by multiple goroutines.
type minioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIO creates a new S3-compatible content store backed by MinIO.
// It validates connectivity and ensures the bucket exists (creates it if missing).
func NewMinIO(cfg config.MinIOConfig) (ContentStore, error) {
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

	ms := &minioStorage{client: cli, bucket: cfg.Bucket}

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
	}

	return ms, nil
}

func objectKey(hash string) string {
	return keyPrefix + hash
}

// Put reads the content, derives its CID and uploads it under that CID.
// An object already present is not uploaded again.
func (m *minioStorage) Put(ctx context.Context, r io.Reader) (ObjectInfo, error) {
	if r == nil {
		return ObjectInfo{}, errors.New("storage: reader is nil")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("read content: %w", err)
	}
	hash, err := contenthash.Compute(data)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("compute hash: %w", err)
	}

	if ok, err := m.Has(ctx, hash); err != nil {
		return ObjectInfo{}, err
	} else if ok {
		return ObjectInfo{Hash: hash, Size: int64(len(data))}, nil
	}

	// Content type is deliberately generic: the type served to readers is
	// sniffed from the bytes, never taken from upload metadata.
	info, err := m.client.PutObject(ctx, m.bucket, objectKey(hash), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return ObjectInfo{}, classify(err)
	}
	return ObjectInfo{
		Hash:         hash,
		Size:         info.Size,
		LastModified: time.Now().UTC(), // MinIO PutObjectInfo doesn't return LastModified
	}, nil
}

// Get streams an object; the content is not read into memory.
func (m *minioStorage) Get(ctx context.Context, hash string) (io.ReadCloser, ObjectInfo, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, objectKey(hash), minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, classify(err)
	}
	// GetObject is lazy; Stat surfaces a missing key before any byte is served.
	st, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, ObjectInfo{}, classify(err)
	}
	return obj, ObjectInfo{Hash: hash, Size: st.Size, LastModified: st.LastModified}, nil
}

// Has reports whether hash is stored.
func (m *minioStorage) Has(ctx context.Context, hash string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucket, objectKey(hash), minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if err = classify(err); errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}

// classify maps MinIO and transport errors onto ErrNotFound and ErrUnavailable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch {
	case resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusBadGateway:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
