package ledger

import (
	"sort"
	"time"

	"recordgate/internal/model"
)

type grantKey struct {
	owner, grantee, hash string
}

type grantRow struct {
	model.Grant
	// seq is the sequence number of the transaction that last activated
	// the grant; it orders the inbox.
	seq uint64
}

// State is the deterministic access-control state machine. Applying the
// same transactions in the same order always yields the same state.
//
// State is not safe for concurrent use; the sequencer that owns it
// serializes access. Arguments are expected in canonical form (see
// Transaction.Normalize).
type State struct {
	owners  map[string]string
	records map[string][]model.Record
	grants  map[grantKey]*grantRow
	inbox   map[string][]grantKey
}

// NewState returns an empty state.
func NewState() *State {
	return &State{
		owners:  make(map[string]string),
		records: make(map[string][]model.Record),
		grants:  make(map[grantKey]*grantRow),
		inbox:   make(map[string][]grantKey),
	}
}

// Check evaluates tx against the current state without changing it. It
// returns StatusApplied or StatusNoop, or StatusRejected with the reason.
func (s *State) Check(tx Transaction) (Status, error) {
	switch tx.Kind {
	case KindRegister:
		owner, ok := s.owners[tx.Hash]
		if !ok {
			return StatusApplied, nil
		}
		if owner == tx.Sender {
			return StatusNoop, nil
		}
		return StatusRejected, ErrDuplicateRecord

	case KindGrant, KindRevoke:
		owner, ok := s.owners[tx.Hash]
		if !ok {
			return StatusRejected, ErrUnknownRecord
		}
		if owner != tx.Sender {
			return StatusRejected, ErrNotOwner
		}
		// Owners always have access; a self grant or revoke changes nothing.
		if tx.Grantee == tx.Sender {
			return StatusNoop, nil
		}
		if tx.Kind == KindRevoke {
			row, ok := s.grants[grantKey{tx.Sender, tx.Grantee, tx.Hash}]
			if !ok || !row.Active {
				return StatusNoop, nil
			}
		}
		return StatusApplied, nil
	}
	return StatusRejected, ErrInvalidArgument
}

// Apply checks tx and, unless it is rejected, commits its effect stamped
// with seq and at.
func (s *State) Apply(tx Transaction, seq uint64, at time.Time) (Status, error) {
	status, err := s.Check(tx)
	if status != StatusApplied {
		return status, err
	}

	switch tx.Kind {
	case KindRegister:
		s.owners[tx.Hash] = tx.Sender
		s.records[tx.Sender] = append(s.records[tx.Sender], model.Record{
			Owner:        tx.Sender,
			Hash:         tx.Hash,
			RegisteredAt: at,
		})

	case KindGrant:
		key := grantKey{tx.Sender, tx.Grantee, tx.Hash}
		row, ok := s.grants[key]
		if !ok {
			row = &grantRow{Grant: model.Grant{Owner: tx.Sender, Grantee: tx.Grantee, Hash: tx.Hash}}
			s.grants[key] = row
			s.inbox[tx.Grantee] = append(s.inbox[tx.Grantee], key)
		}
		row.Active = true
		row.GrantedAt = at
		row.seq = seq

	case KindRevoke:
		s.grants[grantKey{tx.Sender, tx.Grantee, tx.Hash}].Active = false
	}
	return StatusApplied, nil
}

// CheckAccess reports whether requester may read owner's hash.
func (s *State) CheckAccess(owner, requester, hash string) bool {
	if owner == requester {
		return true
	}
	row, ok := s.grants[grantKey{owner, requester, hash}]
	return ok && row.Active
}

// OwnerOf returns the registered owner of hash.
func (s *State) OwnerOf(hash string) (string, bool) {
	owner, ok := s.owners[hash]
	return owner, ok
}

// RecordsOf returns a copy of owner's records in registration order.
func (s *State) RecordsOf(owner string) []model.Record {
	out := make([]model.Record, len(s.records[owner]))
	copy(out, s.records[owner])
	return out
}

// GrantOf returns the grant row for the triple, active or not.
func (s *State) GrantOf(owner, grantee, hash string) (model.Grant, bool) {
	row, ok := s.grants[grantKey{owner, grantee, hash}]
	if !ok {
		return model.Grant{}, false
	}
	return row.Grant, true
}

// SharedWith returns grantee's active grants, oldest grant event first.
func (s *State) SharedWith(grantee string) []model.SharedRecord {
	rows := make([]*grantRow, 0, len(s.inbox[grantee]))
	for _, key := range s.inbox[grantee] {
		if row, ok := s.grants[key]; ok && row.Active {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	out := make([]model.SharedRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.SharedRecord{Owner: row.Owner, Hash: row.Hash, GrantedAt: row.GrantedAt})
	}
	return out
}
