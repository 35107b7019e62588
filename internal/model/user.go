package model

import "time"

// Role classifies a registered principal.
type Role string

const (
	RolePatient  Role = "patient"
	RoleProvider Role = "provider"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RolePatient || r == RoleProvider
}

// User is an off-ledger profile keyed by wallet address. It describes a
// caller; it never decides what the caller may read.
type User struct {
	ID            string    `json:"id"`
	WalletAddress string    `json:"wallet_address"`
	Name          string    `json:"name"`
	Role          Role      `json:"role"`
	Hospital      string    `json:"hospital,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
