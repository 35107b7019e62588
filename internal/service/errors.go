package service

import (
	"context"
	"errors"
	"fmt"
	"net"

	"recordgate/internal/address"
	"recordgate/internal/contenthash"
	"recordgate/internal/ledger"
	"recordgate/internal/storage"
)

var (
	// ErrInvalidInput is matched by every *InputError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized means the ledger does not let the requester read the record.
	ErrUnauthorized = errors.New("requester is not authorized for this record")
	// ErrContentNotFound means access was granted but the store has no such object.
	ErrContentNotFound = errors.New("record content not found")
	// ErrTransient wraps failures of the ledger or the store that may succeed on retry.
	ErrTransient = errors.New("temporary failure, retry later")

	ErrReaderNil    = errors.New("reader is nil")
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

// InputError reports a missing or malformed request field.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// PendingError is returned by writes whose transaction did not finalize
// within the await timeout. The transaction may still be applied later.
type PendingError struct {
	Receipt ledger.Receipt
}

func (e *PendingError) Error() string {
	return fmt.Sprintf("transaction %s is still pending", e.Receipt.Handle)
}

func parseAddress(field, s string) (string, error) {
	a, err := address.Normalize(s)
	if err != nil {
		return "", &InputError{Field: field, Reason: err.Error()}
	}
	return a, nil
}

func parseHash(s string) (string, error) {
	h, err := contenthash.Parse(s)
	if err != nil {
		return "", &InputError{Field: "hash", Reason: err.Error()}
	}
	return h, nil
}

// classify wraps retryable failures with ErrTransient and leaves everything
// else untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, storage.ErrUnavailable),
		errors.Is(err, ledger.ErrClosed):
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
	return err
}
