package mocks

import (
	"context"
	"io"

	"recordgate/internal/ledger"
	"recordgate/internal/model"
	"recordgate/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAccessGateway struct {
	mock.Mock
}

var _ service.AccessGateway = (*MockAccessGateway)(nil)

func (m *MockAccessGateway) Fetch(ctx context.Context, hash, owner, requester string) (*service.FetchResult, error) {
	args := m.Called(ctx, hash, owner, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FetchResult), args.Error(1)
}

type MockRecordService struct {
	mock.Mock
}

var _ service.RecordService = (*MockRecordService)(nil)

func (m *MockRecordService) Upload(ctx context.Context, owner string, r io.Reader) (*service.UploadResult, error) {
	args := m.Called(ctx, owner, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}

func (m *MockRecordService) Grant(ctx context.Context, owner, grantee, hash string) (ledger.Receipt, error) {
	args := m.Called(ctx, owner, grantee, hash)
	return args.Get(0).(ledger.Receipt), args.Error(1)
}

func (m *MockRecordService) Revoke(ctx context.Context, owner, grantee, hash string) (ledger.Receipt, error) {
	args := m.Called(ctx, owner, grantee, hash)
	return args.Get(0).(ledger.Receipt), args.Error(1)
}

func (m *MockRecordService) ListRecords(ctx context.Context, owner string, newestFirst bool) ([]model.Record, error) {
	args := m.Called(ctx, owner, newestFirst)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Record), args.Error(1)
}

func (m *MockRecordService) ListShared(ctx context.Context, grantee string) ([]model.SharedRecord, error) {
	args := m.Called(ctx, grantee)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SharedRecord), args.Error(1)
}

func (m *MockRecordService) TxStatus(ctx context.Context, handle string) (ledger.Receipt, error) {
	args := m.Called(ctx, handle)
	return args.Get(0).(ledger.Receipt), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

var _ service.UserService = (*MockUserService)(nil)

func (m *MockUserService) Register(ctx context.Context, in service.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) GetByWallet(ctx context.Context, wallet string) (*model.User, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, limit, offset int) (*service.UserListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserListResult), args.Error(1)
}

func (m *MockUserService) Classify(ctx context.Context, wallet string) model.Role {
	args := m.Called(ctx, wallet)
	return args.Get(0).(model.Role)
}
