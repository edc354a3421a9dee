package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/opsgate/keygate/internal/license/domain"
	"github.com/opsgate/keygate/internal/license/metrics"
	"github.com/opsgate/keygate/internal/license/store"
	"github.com/opsgate/keygate/pkg/cryptox"
	"github.com/opsgate/keygate/pkg/idx"
	"github.com/opsgate/keygate/pkg/slogx"
)

// Minimum input lengths after trimming. Shorter values are rejected before
// anything touches durable storage.
const (
	MinIdentityLength = 3
	MinSecretLength   = 4
)

type AccountService struct {
	Store   store.Store
	Metrics *metrics.Metrics
}

// Register creates a new pending account for identity. The secret is hashed
// with Argon2id; the raw value is never stored. Duplicate identities are
// rejected by the storage layer's uniqueness constraint, so two concurrent
// registrations for the same identity yield exactly one success.
func (s *AccountService) Register(ctx context.Context, identity, secret string) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	identity = strings.TrimSpace(identity)
	secret = strings.TrimSpace(secret)
	if len(identity) < MinIdentityLength || len(secret) < MinSecretLength {
		return domain.Account{}, ErrMissingCredentials
	}

	digest, err := cryptox.HashSecret(secret)
	if err != nil {
		log.Error("failed to hash secret", slog.Any("error", err))
		return domain.Account{}, err
	}

	account := domain.Account{
		ID:           idx.New().String(),
		Identity:     identity,
		SecretDigest: digest,
		State:        domain.StatePending,
	}

	if err := s.Store.Accounts().CreateAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Account{}, ErrIdentityTaken
		}
		log.Error("failed to create account", slog.Any("error", err))
		return domain.Account{}, err
	}

	s.Metrics.IncrementRegistrations()

	log.Info("account registered",
		slog.String("account_id", account.ID),
		slog.String("identity", account.Identity),
	)

	return account, nil
}
