package licensesdk

import (
	"encoding/json"
	"errors"
	"strings"
)

// Failure reason codes. This vocabulary is wire-compatible and closed: the
// server never emits a reason outside this set.
const (
	ReasonMissingIDOrPw         = "missing_id_or_pw"
	ReasonIDExists              = "id_exists"
	ReasonNoUser                = "no_user"
	ReasonWrongPw               = "wrong_pw"
	ReasonNotApproved           = "not_approved"
	ReasonNoExpireSet           = "no_expire_set"
	ReasonBadExpireFormat       = "bad_expire_format"
	ReasonExpired               = "expired"
	ReasonAdminKeyNotConfigured = "admin_key_not_configured"
	ReasonUnauthorized          = "unauthorized"
	ReasonMissingID             = "missing_id"
	ReasonMissingApproved       = "missing_approved"
	ReasonMissingExpireAt       = "missing_expire_at"
	ReasonServerError           = "server_error"
)

// AdminKeyHeader is the request header channel for the admin secret. The
// structured body field `admin_key` is the second accepted channel.
const AdminKeyHeader = "X-Admin-Key"

type RegisterRequest struct {
	ID string `json:"id"`
	PW string `json:"pw"`
}

type RegisterResponse struct {
	OK       bool   `json:"ok"`
	ID       string `json:"id,omitempty"`
	Approved bool   `json:"approved"`
	Reason   string `json:"reason,omitempty"`
}

type LoginRequest struct {
	ID string `json:"id"`
	PW string `json:"pw"`
}

type LoginResponse struct {
	OK       bool   `json:"ok"`
	ExpireAt string `json:"expire_at,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// ApprovalRequest carries the admin approval mutation. Approved is kept raw
// so the server can apply the single tolerant boolean parser below.
type ApprovalRequest struct {
	AdminKey string          `json:"admin_key,omitempty"`
	ID       string          `json:"id"`
	Approved json.RawMessage `json:"approved,omitempty"`
	ExpireAt string          `json:"expire_at,omitempty"`
}

type ApprovalResponse struct {
	OK       bool   `json:"ok"`
	ID       string `json:"id,omitempty"`
	Approved bool   `json:"approved"`
	ExpireAt string `json:"expire_at,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// AccountSummary is the admin-facing view of an account. It deliberately has
// no field for the secret digest.
type AccountSummary struct {
	ID        string `json:"account_id"`
	Identity  string `json:"id"`
	State     string `json:"state"`
	ExpireAt  string `json:"expire_at,omitempty"`
	CreatedAt string `json:"created_at"`
}

type AccountListResponse struct {
	OK       bool             `json:"ok"`
	Accounts []AccountSummary `json:"accounts,omitempty"`
	Reason   string           `json:"reason,omitempty"`
}

type HealthResponse struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// ErrBadApprovedFlag reports an approved value outside the accepted set.
var ErrBadApprovedFlag = errors.New("licensesdk: invalid approved flag")

// ParseApprovedFlag normalizes the admin approved flag. Accepted forms are
// JSON booleans, the strings "true"/"false"/"1"/"0", and the numbers 1/0;
// everything else is rejected. Absent values are the caller's concern.
func ParseApprovedFlag(raw json.RawMessage) (bool, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		// json.Unmarshal treats null as a no-op for every target type, so it
		// has to be rejected before the candidate decodes below.
		return false, ErrBadApprovedFlag
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.TrimSpace(s) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return false, ErrBadApprovedFlag
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		switch n {
		case 1:
			return true, nil
		case 0:
			return false, nil
		}
	}

	return false, ErrBadApprovedFlag
}
