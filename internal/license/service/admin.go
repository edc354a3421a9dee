package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"github.com/opsgate/keygate/internal/license/domain"
	"github.com/opsgate/keygate/internal/license/metrics"
	"github.com/opsgate/keygate/internal/license/store"
	"github.com/opsgate/keygate/pkg/slogx"
)

// AdminService performs the administrator-only approval mutations. AdminKey
// is the shared secret configured at startup; when empty every admin call
// fails closed.
type AdminService struct {
	Store    store.Store
	Metrics  *metrics.Metrics
	AdminKey string
}

// Authorize checks an ordered list of candidate secrets (header channel
// first, then body channel) against the configured admin key. Empty
// candidates are skipped; any constant-time match authorizes the call.
func (s *AdminService) Authorize(candidates []string) error {
	if s.AdminKey == "" {
		return ErrAdminKeyNotConfigured
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(s.AdminKey)) == 1 {
			return nil
		}
	}
	return ErrUnauthorized
}

// SetApproval transitions an account between approved and revoked. Approving
// requires a valid YYYY-MM-DD expiry and stores state and date together;
// revoking always clears the expiry. The operation is idempotent and a failed
// authorization never reaches the store.
func (s *AdminService) SetApproval(
	ctx context.Context,
	candidates []string,
	identity string,
	approved bool,
	expireAt string,
) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	if err := s.Authorize(candidates); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			log.Warn("admin approval call with wrong or missing admin key",
				slog.String("identity", identity),
			)
		}
		return domain.Account{}, err
	}

	identity = strings.TrimSpace(identity)
	if identity == "" {
		return domain.Account{}, ErrMissingIdentity
	}

	state := domain.StateRevoked
	expiresOn := "" // revoking always clears the stored expiry
	if approved {
		expireAt = strings.TrimSpace(expireAt)
		if expireAt == "" {
			return domain.Account{}, ErrMissingExpiry
		}
		if _, err := domain.ParseExpiry(expireAt); err != nil {
			return domain.Account{}, ErrBadExpiryFormat
		}
		state = domain.StateApproved
		expiresOn = expireAt
	}

	var account domain.Account
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().SetApproval(ctx, identity, state, expiresOn); err != nil {
			return err
		}

		var err error
		account, err = tx.Accounts().GetAccountByIdentity(ctx, identity)
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrNoSuchAccount
		}
		log.Error("failed to set approval", slog.Any("error", err))
		return domain.Account{}, err
	}

	s.Metrics.IncrementApprovalChange(string(state))

	log.Info("approval state changed",
		slog.String("identity", account.Identity),
		slog.String("state", string(account.State)),
		slog.String("expires_on", account.ExpiresOn),
	)

	return account, nil
}

// ListAccounts returns all accounts for the admin overview. Callers must
// never serialize the secret digest carried on the returned records.
func (s *AdminService) ListAccounts(ctx context.Context, candidates []string) ([]domain.Account, error) {
	if err := s.Authorize(candidates); err != nil {
		return nil, err
	}

	accounts, err := s.Store.Accounts().ListAccounts(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list accounts", slog.Any("error", err))
		return nil, err
	}
	return accounts, nil
}
