package ledger

import "time"

// Entry is one finalized transaction in the ledger's serialized log.
// Rejected transactions are logged too; replaying the log through a fresh
// State must reproduce every recorded Status.
type Entry struct {
	Seq       uint64      `json:"seq" yaml:"seq" cbor:"seq"`
	Handle    Handle      `json:"handle" yaml:"handle" cbor:"handle"`
	Tx        Transaction `json:"tx" yaml:"tx" cbor:"tx"`
	Status    Status      `json:"status" yaml:"status" cbor:"status"`
	Reason    string      `json:"reason,omitempty" yaml:"reason,omitempty" cbor:"reason,omitempty"`
	Timestamp time.Time   `json:"timestamp" yaml:"timestamp" cbor:"-"`
}

// Receipt returns the receipt describing e.
func (e Entry) Receipt() Receipt {
	return Receipt{
		Handle:      e.Handle,
		Tx:          e.Tx,
		Status:      e.Status,
		Seq:         e.Seq,
		FinalizedAt: e.Timestamp,
		Reason:      e.Reason,
	}
}
