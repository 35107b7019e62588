package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"recordgate/internal/ledger"
	"recordgate/internal/model"
	"recordgate/internal/storage"
)

// UploadResult describes stored content and its ledger registration.
type UploadResult struct {
	Hash    string         `json:"hash"`
	Size    int64          `json:"size"`
	Receipt ledger.Receipt `json:"receipt"`
}

// RecordService is the write side of the ledger plus the owner and grantee views.
// Writes wait for finality up to the configured timeout; a transaction that is
// still pending after that is reported with *PendingError.
type RecordService interface {
	// Upload stores the content and registers its hash to owner. The result
	// is returned alongside a rejection or *PendingError so callers can
	// still report the hash.
	Upload(ctx context.Context, owner string, r io.Reader) (*UploadResult, error)

	// Grant authorizes grantee to read owner's record. A self-grant is accepted
	// and finalizes as a no-op.
	Grant(ctx context.Context, owner, grantee, hash string) (ledger.Receipt, error)

	// Revoke withdraws grantee's access. Revoking an inactive grant is a no-op.
	Revoke(ctx context.Context, owner, grantee, hash string) (ledger.Receipt, error)

	// ListRecords returns owner's records in registration order, or newest first.
	ListRecords(ctx context.Context, owner string, newestFirst bool) ([]model.Record, error)

	// ListShared returns the records currently shared with grantee.
	ListShared(ctx context.Context, grantee string) ([]model.SharedRecord, error)

	// TxStatus returns the current receipt of a submitted transaction.
	TxStatus(ctx context.Context, handle string) (ledger.Receipt, error)
}

type recordService struct {
	ledger       ledger.Ledger
	store        storage.ContentStore
	awaitTimeout time.Duration
}

// NewRecordService constructs a RecordService. A non-positive awaitTimeout
// waits until the caller's context ends.
func NewRecordService(l ledger.Ledger, store storage.ContentStore, awaitTimeout time.Duration) RecordService {
	return &recordService{ledger: l, store: store, awaitTimeout: awaitTimeout}
}

func (s *recordService) Upload(ctx context.Context, owner string, r io.Reader) (*UploadResult, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	o, err := parseAddress("owner", owner)
	if err != nil {
		return nil, err
	}

	info, err := s.store.Put(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", classify(err))
	}

	// Stored content is immutable and shared by hash, so a rejected
	// registration leaves the object in place.
	receipt, err := s.execute(ctx, ledger.RegisterRecord(o, info.Hash))
	return &UploadResult{Hash: info.Hash, Size: info.Size, Receipt: receipt}, err
}

func (s *recordService) Grant(ctx context.Context, owner, grantee, hash string) (ledger.Receipt, error) {
	tx, err := accessTx(owner, grantee, hash)
	if err != nil {
		return ledger.Receipt{}, err
	}
	return s.execute(ctx, ledger.GrantAccess(tx.Sender, tx.Grantee, tx.Hash))
}

func (s *recordService) Revoke(ctx context.Context, owner, grantee, hash string) (ledger.Receipt, error) {
	tx, err := accessTx(owner, grantee, hash)
	if err != nil {
		return ledger.Receipt{}, err
	}
	return s.execute(ctx, ledger.RevokeAccess(tx.Sender, tx.Grantee, tx.Hash))
}

func accessTx(owner, grantee, hash string) (ledger.Transaction, error) {
	h, err := parseHash(hash)
	if err != nil {
		return ledger.Transaction{}, err
	}
	o, err := parseAddress("owner", owner)
	if err != nil {
		return ledger.Transaction{}, err
	}
	g, err := parseAddress("grantee", grantee)
	if err != nil {
		return ledger.Transaction{}, err
	}
	return ledger.Transaction{Sender: o, Grantee: g, Hash: h}, nil
}

// execute submits tx and waits for its receipt. Ledger rejections are
// returned unchanged so callers can match them with errors.Is.
func (s *recordService) execute(ctx context.Context, tx ledger.Transaction) (ledger.Receipt, error) {
	h, err := s.ledger.Submit(ctx, tx)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidArgument) {
			return ledger.Receipt{}, &InputError{Field: "transaction", Reason: err.Error()}
		}
		return ledger.Receipt{}, fmt.Errorf("submit %s: %w", tx.Kind, classify(err))
	}

	awaitCtx := ctx
	if s.awaitTimeout > 0 {
		var cancel context.CancelFunc
		awaitCtx, cancel = context.WithTimeout(ctx, s.awaitTimeout)
		defer cancel()
	}

	receipt, err := s.ledger.AwaitFinality(awaitCtx, h)
	switch {
	case err == nil:
		return receipt, nil
	case receipt.Status == ledger.StatusRejected:
		return receipt, err
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		if receipt.Handle == "" {
			receipt = ledger.Receipt{Handle: h, Tx: tx, Status: ledger.StatusPending}
		}
		return receipt, &PendingError{Receipt: receipt}
	default:
		return receipt, fmt.Errorf("await %s: %w", tx.Kind, classify(err))
	}
}

func (s *recordService) ListRecords(ctx context.Context, owner string, newestFirst bool) ([]model.Record, error) {
	o, err := parseAddress("owner", owner)
	if err != nil {
		return nil, err
	}
	records, err := s.ledger.ListRecordsOf(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", classify(err))
	}
	if records == nil {
		records = []model.Record{}
	}
	if newestFirst {
		slices.Reverse(records)
	}
	return records, nil
}

func (s *recordService) ListShared(ctx context.Context, grantee string) ([]model.SharedRecord, error) {
	g, err := parseAddress("grantee", grantee)
	if err != nil {
		return nil, err
	}
	shared, err := s.ledger.ListSharedWith(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("list shared: %w", classify(err))
	}
	if shared == nil {
		shared = []model.SharedRecord{}
	}
	return shared, nil
}

func (s *recordService) TxStatus(ctx context.Context, handle string) (ledger.Receipt, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return ledger.Receipt{}, &InputError{Field: "handle", Reason: "handle is required"}
	}
	r, err := s.ledger.Status(ctx, ledger.Handle(handle))
	if err != nil {
		if errors.Is(err, ledger.ErrUnknownTransaction) {
			return ledger.Receipt{}, err
		}
		return ledger.Receipt{}, fmt.Errorf("transaction status: %w", classify(err))
	}
	return r, nil
}
