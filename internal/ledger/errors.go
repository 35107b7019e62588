package ledger

import "errors"

// Rejections produced by the state machine. A rejected transaction is
// finalized with status StatusRejected and leaves state untouched.
var (
	ErrDuplicateRecord = errors.New("record already registered to another owner")
	ErrUnknownRecord   = errors.New("record is not registered")
	ErrNotOwner        = errors.New("sender does not own the record")
)

var (
	// ErrInvalidArgument marks malformed addresses, hashes or transaction
	// kinds. Nothing is submitted or queried.
	ErrInvalidArgument = errors.New("invalid ledger argument")
	// ErrUnknownTransaction is returned for a handle this ledger never issued.
	ErrUnknownTransaction = errors.New("unknown transaction handle")
	// ErrClosed is returned once the ledger has been shut down.
	ErrClosed = errors.New("ledger closed")
)

var rejections = []error{ErrDuplicateRecord, ErrUnknownRecord, ErrNotOwner}

// rejectionFromReason maps a persisted rejection reason back to its
// sentinel so callers can keep using errors.Is after a restart.
func rejectionFromReason(reason string) error {
	for _, err := range rejections {
		if err.Error() == reason {
			return err
		}
	}
	return errors.New(reason)
}
