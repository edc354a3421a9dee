package domain

import (
	"fmt"
	"time"
)

// ApprovalState is the administrator-controlled authorization state of an
// account. Accounts are created pending and only the admin operation moves
// them between approved and revoked.
type ApprovalState string

const (
	StatePending  ApprovalState = "pending"
	StateApproved ApprovalState = "approved"
	StateRevoked  ApprovalState = "revoked"
)

// Valid reports whether s is one of the known approval states.
func (s ApprovalState) Valid() bool {
	switch s {
	case StatePending, StateApproved, StateRevoked:
		return true
	}
	return false
}

// ExpiryLayout is the calendar-day wire format for expiry dates. There is no
// time-of-day or timezone component anywhere in the protocol.
const ExpiryLayout = "2006-01-02"

// ParseExpiry validates a YYYY-MM-DD calendar date and returns it at midnight
// UTC. Invalid dates are rejected at write time and never stored.
func ParseExpiry(s string) (time.Time, error) {
	t, err := time.Parse(ExpiryLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("domain: bad expiry date %q: %w", s, err)
	}
	return t, nil
}

type Account struct {
	ID           string
	Identity     string        // unique, case-sensitive, chosen by the registrant
	SecretDigest string        // argon2id encoded, set once at creation, never serialized
	State        ApprovalState // pending at creation, admin-controlled afterwards
	ExpiresOn    string        // "YYYY-MM-DD"; empty when no expiry is set
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
