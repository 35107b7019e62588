package mocks

import (
	"context"
	"io"

	"recordgate/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

var _ storage.ContentStore = (*MockStorage)(nil)

func (m *MockStorage) Put(ctx context.Context, r io.Reader) (storage.ObjectInfo, error) {
	args := m.Called(ctx, r)
	if f, ok := args.Get(0).(func(context.Context, io.Reader) storage.ObjectInfo); ok {
		return f(ctx, r), args.Error(1)
	}
	return args.Get(0).(storage.ObjectInfo), args.Error(1)
}

func (m *MockStorage) Get(ctx context.Context, hash string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, hash)
	var rc io.ReadCloser
	if v := args.Get(0); v != nil {
		rc = v.(io.ReadCloser)
	}
	return rc, args.Get(1).(storage.ObjectInfo), args.Error(2)
}

func (m *MockStorage) Has(ctx context.Context, hash string) (bool, error) {
	args := m.Called(ctx, hash)
	return args.Bool(0), args.Error(1)
}
