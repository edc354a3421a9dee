package sqlite

import (
	"context"
	"time"

	"github.com/opsgate/keygate/internal/license/domain"
	"github.com/opsgate/keygate/internal/license/store"
)

const accountColumns = `id, identity, secret_digest, state, expires_on, created_at, updated_at`

type accountsRepo struct {
	db querier
}

func (r *accountsRepo) GetAccountByIdentity(ctx context.Context, identity string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE identity = ?`, identity)

	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, identity, secret_digest, state, expires_on, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Identity, a.SecretDigest, string(a.State), mapStringNull(a.ExpiresOn), now, now)
	if err != nil {
		return mapConstraint(err)
	}
	return nil
}

func (r *accountsRepo) SetApproval(ctx context.Context, identity string, state domain.ApprovalState, expiresOn string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET state = ?, expires_on = ?, updated_at = ? WHERE identity = ?`,
		string(state), mapStringNull(expiresOn), time.Now().UTC(), identity)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *accountsRepo) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *accountsRepo) CountAccounts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
