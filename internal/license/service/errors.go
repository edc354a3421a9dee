package service

import (
	"errors"

	"github.com/opsgate/keygate/pkg/licensesdk"
)

// Domain outcomes. These are expected, frequent results reported to the
// caller with a reason code; they are never logged as server errors.
var (
	ErrMissingCredentials    = errors.New("missing or too-short identity or secret")
	ErrIdentityTaken         = errors.New("identity already registered")
	ErrNoSuchAccount         = errors.New("no account for identity")
	ErrWrongSecret           = errors.New("secret does not match digest")
	ErrNotApproved           = errors.New("account not approved")
	ErrNoExpirySet           = errors.New("approved account has no expiry set")
	ErrBadExpiryFormat       = errors.New("stored expiry date is malformed")
	ErrExpired               = errors.New("account expired")
	ErrAdminKeyNotConfigured = errors.New("no admin key configured")
	ErrUnauthorized          = errors.New("admin key does not match")
	ErrMissingIdentity       = errors.New("identity is required")
	ErrMissingExpiry         = errors.New("expiry date is required when approving")
)

var reasonByErr = map[error]string{
	ErrMissingCredentials:    licensesdk.ReasonMissingIDOrPw,
	ErrIdentityTaken:         licensesdk.ReasonIDExists,
	ErrNoSuchAccount:         licensesdk.ReasonNoUser,
	ErrWrongSecret:           licensesdk.ReasonWrongPw,
	ErrNotApproved:           licensesdk.ReasonNotApproved,
	ErrNoExpirySet:           licensesdk.ReasonNoExpireSet,
	ErrBadExpiryFormat:       licensesdk.ReasonBadExpireFormat,
	ErrExpired:               licensesdk.ReasonExpired,
	ErrAdminKeyNotConfigured: licensesdk.ReasonAdminKeyNotConfigured,
	ErrUnauthorized:          licensesdk.ReasonUnauthorized,
	ErrMissingIdentity:       licensesdk.ReasonMissingID,
	ErrMissingExpiry:         licensesdk.ReasonMissingExpireAt,
}

// Reason maps a domain outcome error to its wire reason code. The second
// return is false for infrastructure faults, which surface as server errors
// instead of a domain reason.
func Reason(err error) (string, bool) {
	for sentinel, reason := range reasonByErr {
		if errors.Is(err, sentinel) {
			return reason, true
		}
	}
	return "", false
}
