package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/autoxmail-server/internal/model"
)

var _ model.AccountStore = (*AccountRepository)(nil)

const accountColumns = `id, user_id, email, credentials_ciphertext, token_ciphertext, last_history_id,
        auto_delete_secs, reauth_required, active, created_at, updated_at`

type AccountRepository struct {
	db *Connection
}

func NewAccountRepository(db *Connection) *AccountRepository {
	return &AccountRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (model.Account, error) {
	var (
		a      model.Account
		cursor sql.NullInt64
	)
	err := row.Scan(
		&a.ID, &a.UserID, &a.Email, &a.CredentialsCiphertext, &a.TokenCiphertext, &cursor,
		&a.AutoDeleteSecs, &a.ReauthRequired, &a.Active, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return model.Account{}, err
	}
	if cursor.Valid {
		v := uint64(cursor.Int64)
		a.LastHistoryID = &v
	}
	return a, nil
}

func (r *AccountRepository) Create(ctx context.Context, account model.Account) (model.Account, error) {
	// Conflicts with an inactive row reactivate it and keep its history cursor.
	// Conflicts with an active row update nothing and return no row.
	query := `
        INSERT INTO accounts (id, user_id, email, credentials_ciphertext, token_ciphertext, auto_delete_secs, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, TRUE, NOW(), NOW())
        ON CONFLICT (user_id, email) DO UPDATE SET
            credentials_ciphertext = EXCLUDED.credentials_ciphertext,
            token_ciphertext = EXCLUDED.token_ciphertext,
            reauth_required = FALSE,
            active = TRUE,
            updated_at = NOW()
        WHERE accounts.active = FALSE
        RETURNING ` + accountColumns

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}

	saved, err := scanAccount(r.db.conn(ctx).QueryRowContext(ctx, query,
		account.ID, account.UserID, strings.ToLower(account.Email),
		account.CredentialsCiphertext, account.TokenCiphertext, account.AutoDeleteSecs,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isUniqueViolation(err) {
			return model.Account{}, model.ErrAlreadyExists
		}
		return model.Account{}, fmt.Errorf("failed to create account: %w", err)
	}
	return saved, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *AccountRepository) getOne(ctx context.Context, query string, id uuid.UUID) (model.Account, error) {
	a, err := scanAccount(r.db.conn(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by id: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) ListActiveByEmail(ctx context.Context, email string) ([]model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE lower(email) = lower($1) AND active ORDER BY created_at`
	return r.list(ctx, query, email)
}

func (r *AccountRepository) ListActiveByUser(ctx context.Context, userID int64) ([]model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND active ORDER BY created_at`
	return r.list(ctx, query, userID)
}

func (r *AccountRepository) ListActive(ctx context.Context) ([]model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE active ORDER BY created_at`
	return r.list(ctx, query)
}

func (r *AccountRepository) ListAll(ctx context.Context) ([]model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at`
	return r.list(ctx, query)
}

func (r *AccountRepository) list(ctx context.Context, query string, args ...any) ([]model.Account, error) {
	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepository) CountActiveByUser(ctx context.Context, userID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM accounts WHERE user_id = $1 AND active`

	var n int
	if err := r.db.conn(ctx).QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return n, nil
}

func (r *AccountRepository) UpdateToken(ctx context.Context, id uuid.UUID, tokenCiphertext []byte) error {
	const query = `
        UPDATE accounts SET token_ciphertext = $2, reauth_required = FALSE, updated_at = NOW()
        WHERE id = $1 AND active
    `
	return r.execOne(ctx, "update token", query, id, tokenCiphertext)
}

func (r *AccountRepository) UpdateCiphertexts(ctx context.Context, id uuid.UUID, credentialsCiphertext, tokenCiphertext []byte) error {
	const query = `
        UPDATE accounts SET credentials_ciphertext = $2, token_ciphertext = $3, updated_at = NOW()
        WHERE id = $1
    `
	return r.execOne(ctx, "update ciphertexts", query, id, credentialsCiphertext, tokenCiphertext)
}

func (r *AccountRepository) MarkReauthRequired(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE accounts SET reauth_required = TRUE, updated_at = NOW() WHERE id = $1`
	return r.execOne(ctx, "mark reauth required", query, id)
}

func (r *AccountRepository) AdvanceHistoryCursor(ctx context.Context, id uuid.UUID, historyID uint64) error {
	// last_history_id is a signed BIGINT.
	if historyID > math.MaxInt64 {
		return fmt.Errorf("%w: history id %d out of range", model.ErrMalformedEvent, historyID)
	}

	const query = `
        UPDATE accounts SET last_history_id = $2, updated_at = NOW()
        WHERE id = $1 AND (last_history_id IS NULL OR last_history_id < $2)
    `
	if _, err := r.db.conn(ctx).ExecContext(ctx, query, id, int64(historyID)); err != nil {
		return fmt.Errorf("failed to advance history cursor: %w", err)
	}
	return nil
}

func (r *AccountRepository) SetAutoDelete(ctx context.Context, id uuid.UUID, secs int) error {
	const query = `UPDATE accounts SET auto_delete_secs = $2, updated_at = NOW() WHERE id = $1 AND active`
	return r.execOne(ctx, "set auto delete", query, id, secs)
}

func (r *AccountRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE accounts SET active = FALSE, updated_at = NOW() WHERE id = $1 AND active`
	return r.execOne(ctx, "deactivate account", query, id)
}

func (r *AccountRepository) execOne(ctx context.Context, op, query string, args ...any) error {
	res, err := r.db.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}
