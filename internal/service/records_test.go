package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"recordgate/internal/ledger"
	ledgerMocks "recordgate/internal/ledger/mocks"
	"recordgate/internal/model"
	"recordgate/internal/storage"
	storeMocks "recordgate/internal/storage/mocks"
)

func TestRecordService_Upload(t *testing.T) {
	ctx := context.Background()
	h1 := hashOf(t, "chart")

	tests := []struct {
		name       string
		owner      string
		setupMocks func(l *ledgerMocks.MockLedger, s *storeMocks.MockStorage)
		wantErr    error
		wantErrMsg string
		wantStatus ledger.Status
	}{
		{
			name:  "happy path",
			owner: strings.ToUpper(patient),
			setupMocks: func(l *ledgerMocks.MockLedger, s *storeMocks.MockStorage) {
				s.On("Put", ctx, mock.Anything).Return(storage.ObjectInfo{Hash: h1, Size: 5}, nil)
				l.On("Submit", ctx, ledger.RegisterRecord(patient, h1)).Return(ledger.Handle("tx-1"), nil)
				l.On("AwaitFinality", mock.Anything, ledger.Handle("tx-1")).
					Return(ledger.Receipt{Handle: "tx-1", Status: ledger.StatusApplied, Seq: 1}, nil)
			},
			wantStatus: ledger.StatusApplied,
		},
		{
			name:    "invalid owner stores nothing",
			owner:   "patient-1",
			wantErr: ErrInvalidInput,
		},
		{
			name:  "storage error",
			owner: patient,
			setupMocks: func(l *ledgerMocks.MockLedger, s *storeMocks.MockStorage) {
				s.On("Put", ctx, mock.Anything).Return(storage.ObjectInfo{}, errors.New("disk full"))
			},
			wantErrMsg: "upload to storage: disk full",
		},
		{
			name:  "hash owned by someone else",
			owner: patient,
			setupMocks: func(l *ledgerMocks.MockLedger, s *storeMocks.MockStorage) {
				s.On("Put", ctx, mock.Anything).Return(storage.ObjectInfo{Hash: h1, Size: 5}, nil)
				l.On("Submit", ctx, ledger.RegisterRecord(patient, h1)).Return(ledger.Handle("tx-2"), nil)
				l.On("AwaitFinality", mock.Anything, ledger.Handle("tx-2")).
					Return(ledger.Receipt{Handle: "tx-2", Status: ledger.StatusRejected, Reason: ledger.ErrDuplicateRecord.Error()}, ledger.ErrDuplicateRecord)
			},
			wantErr:    ledger.ErrDuplicateRecord,
			wantStatus: ledger.StatusRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := new(ledgerMocks.MockLedger)
			s := new(storeMocks.MockStorage)
			if tt.setupMocks != nil {
				tt.setupMocks(l, s)
			}
			svc := NewRecordService(l, s, time.Second)

			res, err := svc.Upload(ctx, tt.owner, strings.NewReader("chart"))

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrMsg != "":
				assert.EqualError(t, err, tt.wantErrMsg)
			default:
				require.NoError(t, err)
			}
			if tt.wantStatus != "" {
				require.NotNil(t, res)
				assert.Equal(t, h1, res.Hash)
				assert.Equal(t, tt.wantStatus, res.Receipt.Status)
			}
			if errors.Is(tt.wantErr, ErrInvalidInput) {
				s.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
			}
			l.AssertExpectations(t)
			s.AssertExpectations(t)
		})
	}

	t.Run("nil reader", func(t *testing.T) {
		_, err := NewRecordService(nil, nil, 0).Upload(ctx, patient, nil)
		assert.ErrorIs(t, err, ErrReaderNil)
	})
}

func TestRecordService_GrantRevoke(t *testing.T) {
	ctx := context.Background()
	h1 := hashOf(t, "chart")

	t.Run("grant applied", func(t *testing.T) {
		l := new(ledgerMocks.MockLedger)
		l.On("Submit", ctx, ledger.GrantAccess(patient, provider, h1)).Return(ledger.Handle("tx"), nil)
		l.On("AwaitFinality", mock.Anything, ledger.Handle("tx")).
			Return(ledger.Receipt{Handle: "tx", Status: ledger.StatusApplied}, nil)

		r, err := NewRecordService(l, nil, time.Second).Grant(ctx, patient, strings.ToUpper(provider), h1)

		require.NoError(t, err)
		assert.Equal(t, ledger.StatusApplied, r.Status)
		l.AssertExpectations(t)
	})

	t.Run("grant by non-owner", func(t *testing.T) {
		l := new(ledgerMocks.MockLedger)
		l.On("Submit", ctx, ledger.GrantAccess(stranger, provider, h1)).Return(ledger.Handle("tx"), nil)
		l.On("AwaitFinality", mock.Anything, ledger.Handle("tx")).
			Return(ledger.Receipt{Handle: "tx", Status: ledger.StatusRejected, Reason: ledger.ErrNotOwner.Error()}, ledger.ErrNotOwner)

		r, err := NewRecordService(l, nil, time.Second).Grant(ctx, stranger, provider, h1)

		assert.ErrorIs(t, err, ledger.ErrNotOwner)
		assert.Equal(t, ledger.StatusRejected, r.Status)
	})

	t.Run("still pending after await timeout", func(t *testing.T) {
		l := new(ledgerMocks.MockLedger)
		l.On("Submit", ctx, ledger.RevokeAccess(patient, provider, h1)).Return(ledger.Handle("tx"), nil)
		l.On("AwaitFinality", mock.Anything, ledger.Handle("tx")).
			Return(ledger.Receipt{Handle: "tx", Status: ledger.StatusPending}, context.DeadlineExceeded)

		_, err := NewRecordService(l, nil, time.Millisecond).Revoke(ctx, patient, provider, h1)

		var pending *PendingError
		require.ErrorAs(t, err, &pending)
		assert.Equal(t, ledger.Handle("tx"), pending.Receipt.Handle)
		assert.NotErrorIs(t, err, ErrTransient)
	})

	t.Run("invalid grantee submits nothing", func(t *testing.T) {
		l := new(ledgerMocks.MockLedger)

		_, err := NewRecordService(l, nil, time.Second).Grant(ctx, patient, "0x123", h1)

		var inErr *InputError
		require.ErrorAs(t, err, &inErr)
		assert.Equal(t, "grantee", inErr.Field)
		assert.Equal(t, "invalid address format", inErr.Reason)
		l.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	})

	t.Run("ledger closed", func(t *testing.T) {
		l := new(ledgerMocks.MockLedger)
		l.On("Submit", ctx, mock.Anything).Return(ledger.Handle(""), ledger.ErrClosed)

		_, err := NewRecordService(l, nil, time.Second).Revoke(ctx, patient, provider, h1)

		assert.ErrorIs(t, err, ErrTransient)
		assert.ErrorIs(t, err, ledger.ErrClosed)
	})
}

func TestRecordService_Lists(t *testing.T) {
	ctx := context.Background()
	l := new(ledgerMocks.MockLedger)
	first := model.Record{Owner: patient, Hash: hashOf(t, "a")}
	second := model.Record{Owner: patient, Hash: hashOf(t, "b")}
	l.On("ListRecordsOf", ctx, patient).Return([]model.Record{first, second}, nil).Once()
	l.On("ListRecordsOf", ctx, patient).Return([]model.Record{first, second}, nil).Once()
	l.On("ListSharedWith", ctx, provider).Return(nil, nil)

	svc := NewRecordService(l, nil, time.Second)

	asc, err := svc.ListRecords(ctx, patient, false)
	require.NoError(t, err)
	assert.Equal(t, []model.Record{first, second}, asc)

	desc, err := svc.ListRecords(ctx, strings.ToUpper(patient), true)
	require.NoError(t, err)
	assert.Equal(t, []model.Record{second, first}, desc)

	shared, err := svc.ListShared(ctx, provider)
	require.NoError(t, err)
	assert.NotNil(t, shared)
	assert.Empty(t, shared)

	_, err = svc.ListShared(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRecordService_TxStatus(t *testing.T) {
	ctx := context.Background()
	l := new(ledgerMocks.MockLedger)
	l.On("Status", ctx, ledger.Handle("known")).Return(ledger.Receipt{Handle: "known", Status: ledger.StatusNoop}, nil)
	l.On("Status", ctx, ledger.Handle("missing")).Return(ledger.Receipt{}, ledger.ErrUnknownTransaction)

	svc := NewRecordService(l, nil, time.Second)

	r, err := svc.TxStatus(ctx, "known")
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusNoop, r.Status)

	_, err = svc.TxStatus(ctx, "missing")
	assert.ErrorIs(t, err, ledger.ErrUnknownTransaction)

	_, err = svc.TxStatus(ctx, " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRecordService_SelfGrantIsNoop(t *testing.T) {
	ctx := context.Background()
	_, _, _, records := newScenario(t)

	up, err := records.Upload(ctx, patient, strings.NewReader("self"))
	require.NoError(t, err)

	r, err := records.Grant(ctx, patient, strings.ToUpper(patient), up.Hash)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusNoop, r.Status)

	// Revoking a grant that was never made is also a no-op.
	r, err = records.Revoke(ctx, patient, provider, up.Hash)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusNoop, r.Status)

	// Re-uploading the same bytes by the owner is idempotent.
	again, err := records.Upload(ctx, patient, strings.NewReader("self"))
	require.NoError(t, err)
	assert.Equal(t, up.Hash, again.Hash)
	assert.Equal(t, ledger.StatusNoop, again.Receipt.Status)

	// Another owner cannot claim the same bytes.
	_, err = records.Upload(ctx, provider, strings.NewReader("self"))
	assert.ErrorIs(t, err, ledger.ErrDuplicateRecord)
}
