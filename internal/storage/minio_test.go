package storage

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"

	"recordgate/internal/config"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "missing key",
			err:  minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound},
			want: ErrNotFound,
		},
		{
			name: "backend down",
			err:  minio.ErrorResponse{Code: "ServiceUnavailable", StatusCode: http.StatusServiceUnavailable},
			want: ErrUnavailable,
		},
		{
			name: "connection refused",
			err:  &url.Error{Op: "Get", URL: "http://minio:9000", Err: errors.New("connection refused")},
			want: ErrUnavailable,
		},
		{
			name: "deadline",
			err:  context.DeadlineExceeded,
			want: ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classify(tt.err), tt.want)
		})
	}

	other := minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}
	got := classify(other)
	assert.False(t, errors.Is(got, ErrNotFound))
	assert.False(t, errors.Is(got, ErrUnavailable))
	assert.NoError(t, classify(nil))
}

func TestNewMinIO_Validation(t *testing.T) {
	_, err := NewMinIO(config.MinIOConfig{})
	assert.EqualError(t, err, "minio endpoint is required")

	_, err = NewMinIO(config.MinIOConfig{Endpoint: "localhost:9000"})
	assert.EqualError(t, err, "minio credentials are required")

	_, err = NewMinIO(config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	assert.EqualError(t, err, "minio bucket is required")
}
