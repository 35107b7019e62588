// Package ledger defines the access ledger: the authoritative record of who
// owns which content hash and who has been granted access to it.
//
// Reads are synchronous views over finalized state. Writes are transactions:
// Submit returns a handle immediately and the effect becomes visible only
// once the transaction is finalized, which AwaitFinality waits for.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recordgate/internal/address"
	"recordgate/internal/contenthash"
	"recordgate/internal/model"
)

// Kind names a state-changing ledger operation.
type Kind string

const (
	KindRegister Kind = "register_record"
	KindGrant    Kind = "grant_access"
	KindRevoke   Kind = "revoke_access"
)

// Transaction is a write submitted to the ledger. Sender is the principal
// issuing it (the owner for every kind); Grantee is only used by grant and
// revoke.
type Transaction struct {
	Kind    Kind   `json:"kind" yaml:"kind" cbor:"kind"`
	Sender  string `json:"sender" yaml:"sender" cbor:"sender"`
	Grantee string `json:"grantee,omitempty" yaml:"grantee,omitempty" cbor:"grantee,omitempty"`
	Hash    string `json:"hash" yaml:"hash" cbor:"hash"`
}

// RegisterRecord builds the transaction registering hash to owner.
func RegisterRecord(owner, hash string) Transaction {
	return Transaction{Kind: KindRegister, Sender: owner, Hash: hash}
}

// GrantAccess builds the transaction authorizing grantee for owner's hash.
func GrantAccess(owner, grantee, hash string) Transaction {
	return Transaction{Kind: KindGrant, Sender: owner, Grantee: grantee, Hash: hash}
}

// RevokeAccess builds the transaction withdrawing grantee's access.
func RevokeAccess(owner, grantee, hash string) Transaction {
	return Transaction{Kind: KindRevoke, Sender: owner, Grantee: grantee, Hash: hash}
}

// Normalize validates tx and returns a copy with canonical addresses. The
// copy owns its strings: callers may pass views into reused request
// buffers, and the ledger keeps these values for its lifetime.
func (tx Transaction) Normalize() (Transaction, error) {
	switch tx.Kind {
	case KindRegister, KindGrant, KindRevoke:
	default:
		return Transaction{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidArgument, tx.Kind)
	}

	sender, err := address.Normalize(tx.Sender)
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: sender: %v", ErrInvalidArgument, err)
	}
	hash, err := contenthash.Parse(tx.Hash)
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: hash: %v", ErrInvalidArgument, err)
	}

	out := Transaction{Kind: tx.Kind, Sender: strings.Clone(sender), Hash: strings.Clone(hash)}
	if tx.Kind == KindRegister {
		return out, nil
	}
	grantee, err := address.Normalize(tx.Grantee)
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: grantee: %v", ErrInvalidArgument, err)
	}
	out.Grantee = strings.Clone(grantee)
	return out, nil
}

// Handle identifies a submitted transaction.
type Handle string

// Status is the lifecycle position of a submitted transaction.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApplied  Status = "applied"
	StatusNoop     Status = "noop"
	StatusRejected Status = "rejected"
	// StatusFailed marks a transaction the ledger could not persist. It
	// consumed no sequence number and changed nothing.
	StatusFailed Status = "failed"
)

// Final reports whether s will not change any more.
func (s Status) Final() bool {
	return s != StatusPending
}

// Receipt describes a transaction's outcome. Seq and FinalizedAt are zero
// unless the transaction was finalized.
type Receipt struct {
	Handle      Handle      `json:"handle" yaml:"handle"`
	Tx          Transaction `json:"tx" yaml:"tx"`
	Status      Status      `json:"status" yaml:"status"`
	Seq         uint64      `json:"seq,omitempty" yaml:"seq,omitempty"`
	FinalizedAt time.Time   `json:"finalized_at,omitempty" yaml:"finalized_at,omitempty"`
	Reason      string      `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Err returns the rejection as a sentinel error, or nil unless the
// transaction was rejected.
func (r Receipt) Err() error {
	if r.Status != StatusRejected {
		return nil
	}
	return rejectionFromReason(r.Reason)
}

// Reader answers view calls over finalized state.
type Reader interface {
	// CheckAccess reports whether requester may read owner's hash. Unknown
	// hashes and absent grants yield false, not an error.
	CheckAccess(ctx context.Context, owner, requester, hash string) (bool, error)
	// ListRecordsOf returns owner's records in registration order.
	ListRecordsOf(ctx context.Context, owner string) ([]model.Record, error)
	// ListSharedWith returns the active grants whose recipient is grantee.
	ListSharedWith(ctx context.Context, grantee string) ([]model.SharedRecord, error)
}

// Writer submits transactions and tracks them to finality.
type Writer interface {
	Submit(ctx context.Context, tx Transaction) (Handle, error)
	// AwaitFinality blocks until h is finalized or ctx ends. A rejected
	// transaction returns its receipt together with the rejection error.
	AwaitFinality(ctx context.Context, h Handle) (Receipt, error)
	// Status returns the current receipt of h without blocking.
	Status(ctx context.Context, h Handle) (Receipt, error)
}

// Ledger is the full access ledger.
type Ledger interface {
	Reader
	Writer
}

// Execute submits tx and waits for it to finalize.
func Execute(ctx context.Context, w Writer, tx Transaction) (Receipt, error) {
	h, err := w.Submit(ctx, tx)
	if err != nil {
		return Receipt{}, err
	}
	return w.AwaitFinality(ctx, h)
}
