package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/opsgate/keygate/internal/license/domain"
	"github.com/opsgate/keygate/internal/license/store"
	"github.com/opsgate/keygate/pkg/cryptox"
	"github.com/opsgate/keygate/pkg/slogx"
)

// Decision is the outcome of a successful login evaluation. ExpiresOn is also
// populated alongside ErrExpired so the caller can report when access ended.
type Decision struct {
	ExpiresOn string
}

// Login evaluates a license check-in. It is a pure read-and-evaluate
// operation over current durable state; no mutation ever happens here.
//
// The checks run in strict order and short-circuit on the first failure:
// missing input, unknown identity, wrong secret, not approved, no expiry
// set, malformed stored expiry, expired. An approved account without an
// expiry is a misconfiguration and fails closed rather than meaning
// "never expires".
func (s *AccountService) Login(ctx context.Context, identity, secret string) (Decision, error) {
	decision, err := s.evaluateLogin(ctx, identity, secret)
	s.Metrics.IncrementLoginOutcome(loginOutcomeLabel(err))
	return decision, err
}

func (s *AccountService) evaluateLogin(ctx context.Context, identity, secret string) (Decision, error) {
	log := slogx.FromContext(ctx)

	identity = strings.TrimSpace(identity)
	secret = strings.TrimSpace(secret)
	if identity == "" || secret == "" {
		return Decision{}, ErrMissingCredentials
	}

	account, err := s.Store.Accounts().GetAccountByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Decision{}, ErrNoSuchAccount
		}
		log.Error("failed to fetch account", slog.Any("error", err))
		return Decision{}, err
	}

	if err := cryptox.VerifySecret(secret, account.SecretDigest); err != nil {
		if errors.Is(err, cryptox.ErrSecretMismatch) {
			return Decision{}, ErrWrongSecret
		}
		// A digest we cannot parse was written by us and indicates storage
		// corruption, not a bad credential.
		log.Error("failed to verify secret digest", slog.Any("error", err))
		return Decision{}, err
	}

	if account.State != domain.StateApproved {
		return Decision{}, ErrNotApproved
	}

	if account.ExpiresOn == "" {
		return Decision{}, ErrNoExpirySet
	}

	expiresOn, err := domain.ParseExpiry(account.ExpiresOn)
	if err != nil {
		return Decision{}, ErrBadExpiryFormat
	}

	// Calendar-day comparison in server-local time: access lasts through the
	// whole expiry day and is denied starting the next day.
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if today.After(expiresOn) {
		return Decision{ExpiresOn: account.ExpiresOn}, ErrExpired
	}

	return Decision{ExpiresOn: account.ExpiresOn}, nil
}

func loginOutcomeLabel(err error) string {
	if err == nil {
		return "success"
	}
	if reason, ok := Reason(err); ok {
		return reason
	}
	return "fault"
}
