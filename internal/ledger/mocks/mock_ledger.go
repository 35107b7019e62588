package mocks

import (
	"context"

	"recordgate/internal/ledger"
	"recordgate/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockLedger struct {
	mock.Mock
}

var _ ledger.Ledger = (*MockLedger)(nil)

func (m *MockLedger) CheckAccess(ctx context.Context, owner, requester, hash string) (bool, error) {
	args := m.Called(ctx, owner, requester, hash)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedger) ListRecordsOf(ctx context.Context, owner string) ([]model.Record, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Record), args.Error(1)
}

func (m *MockLedger) ListSharedWith(ctx context.Context, grantee string) ([]model.SharedRecord, error) {
	args := m.Called(ctx, grantee)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SharedRecord), args.Error(1)
}

func (m *MockLedger) Submit(ctx context.Context, tx ledger.Transaction) (ledger.Handle, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(ledger.Handle), args.Error(1)
}

func (m *MockLedger) AwaitFinality(ctx context.Context, h ledger.Handle) (ledger.Receipt, error) {
	args := m.Called(ctx, h)
	return args.Get(0).(ledger.Receipt), args.Error(1)
}

func (m *MockLedger) Status(ctx context.Context, h ledger.Handle) (ledger.Receipt, error) {
	args := m.Called(ctx, h)
	return args.Get(0).(ledger.Receipt), args.Error(1)
}
