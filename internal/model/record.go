package model

import "time"

// Record is the ledger fact that owner registered hash. A hash has at most
// one owner and the pairing never changes.
type Record struct {
	Owner        string    `json:"owner" yaml:"owner"`
	Hash         string    `json:"hash" yaml:"hash"`
	RegisteredAt time.Time `json:"registered_at" yaml:"registered_at"`
}

// Grant authorizes Grantee to retrieve Hash owned by Owner while Active.
// Revocation flips Active; the row itself is never removed.
type Grant struct {
	Owner     string    `json:"owner" yaml:"owner"`
	Grantee   string    `json:"grantee" yaml:"grantee"`
	Hash      string    `json:"hash" yaml:"hash"`
	GrantedAt time.Time `json:"granted_at" yaml:"granted_at"`
	Active    bool      `json:"active" yaml:"active"`
}

// SharedRecord is one inbox entry of a grantee: an active grant seen from
// the recipient's side.
type SharedRecord struct {
	Owner     string    `json:"owner" yaml:"owner"`
	Hash      string    `json:"hash" yaml:"hash"`
	GrantedAt time.Time `json:"granted_at" yaml:"granted_at"`
}
