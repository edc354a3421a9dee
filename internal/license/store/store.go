package store

import (
	"context"
	"errors"

	"github.com/opsgate/keygate/internal/license/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Accounts() Accounts

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// GetAccountByIdentity returns an account by its unique identity.
	GetAccountByIdentity(ctx context.Context, identity string) (domain.Account, error)

	// CreateAccount inserts a new account (id is provided by app via ULID).
	// The identity column carries a uniqueness constraint; a duplicate insert
	// returns ErrAlreadyExists rather than racing a prior existence check.
	CreateAccount(ctx context.Context, a domain.Account) error

	// SetApproval updates the approval state and expiry together in a single
	// statement and bumps updated_at. Returns ErrNotFound for an unknown
	// identity. An empty expiresOn clears the stored expiry.
	SetApproval(ctx context.Context, identity string, state domain.ApprovalState, expiresOn string) error

	// ListAccounts returns all accounts ordered by creation date (newest first).
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// CountAccounts returns the number of registered accounts.
	CountAccounts(ctx context.Context) (int64, error)
}
