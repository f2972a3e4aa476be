package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"math"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/autoxmail-server/internal/model"
)

var accountRowColumns = []string{
	"id", "user_id", "email", "credentials_ciphertext", "token_ciphertext", "last_history_id",
	"auto_delete_secs", "reauth_required", "active", "created_at", "updated_at",
}

func accountRow(id uuid.UUID, cursor any) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(accountRowColumns).
		AddRow(id.String(), int64(42), "me@example.com", []byte("creds"), []byte("token"), cursor, 0, false, true, now, now)
}

func TestAccountRepository_Create(t *testing.T) {
	id := uuid.New()
	account := model.Account{
		ID:                    id,
		UserID:                42,
		Email:                 "Me@Example.com",
		CredentialsCiphertext: []byte("creds"),
		TokenCiphertext:       []byte("token"),
	}

	tests := []struct {
		name    string
		setup   func(sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "inserted",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`(?s)INSERT INTO accounts .* ON CONFLICT \(user_id, email\) DO UPDATE .* WHERE accounts.active = FALSE\s+RETURNING`).
					WithArgs(id.String(), int64(42), "me@example.com", []byte("creds"), []byte("token"), 0).
					WillReturnRows(accountRow(id, nil))
			},
		},
		{
			name: "active duplicate",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO accounts`).
					WillReturnRows(sqlmock.NewRows(accountRowColumns))
			},
			wantErr: model.ErrAlreadyExists,
		},
		{
			name: "unique violation",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO accounts`).
					WillReturnError(&pgconn.PgError{Code: "23505"})
			},
			wantErr: model.ErrAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, mock := newMockConnection(t)
			tt.setup(mock)

			saved, err := NewAccountRepository(conn).Create(context.Background(), account)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, id, saved.ID)
			assert.Equal(t, "me@example.com", saved.Email)
			assert.Nil(t, saved.LastHistoryID)
			assert.True(t, saved.Active)
		})
	}
}

func TestAccountRepository_GetByID(t *testing.T) {
	id := uuid.New()

	t.Run("found with cursor", func(t *testing.T) {
		conn, mock := newMockConnection(t)
		mock.ExpectQuery(`(?s)SELECT .* FROM accounts WHERE id = \$1$`).
			WithArgs(id.String()).
			WillReturnRows(accountRow(id, int64(1234)))

		a, err := NewAccountRepository(conn).GetByID(context.Background(), id)
		require.NoError(t, err)
		require.NotNil(t, a.LastHistoryID)
		assert.Equal(t, uint64(1234), *a.LastHistoryID)
		assert.True(t, a.HasCursor())
	})

	t.Run("not found", func(t *testing.T) {
		conn, mock := newMockConnection(t)
		mock.ExpectQuery(`(?s)SELECT .* FROM accounts WHERE id = \$1`).
			WithArgs(id.String()).
			WillReturnError(sql.ErrNoRows)

		_, err := NewAccountRepository(conn).GetByID(context.Background(), id)
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("for update", func(t *testing.T) {
		conn, mock := newMockConnection(t)
		mock.ExpectQuery(`(?s)SELECT .* FROM accounts WHERE id = \$1 FOR UPDATE`).
			WithArgs(id.String()).
			WillReturnRows(accountRow(id, nil))

		a, err := NewAccountRepository(conn).GetByIDForUpdate(context.Background(), id)
		require.NoError(t, err)
		assert.False(t, a.HasCursor())
	})
}

func TestAccountRepository_ListActiveByEmail(t *testing.T) {
	conn, mock := newMockConnection(t)
	id1, id2 := uuid.New(), uuid.New()

	now := time.Now()
	rows := sqlmock.NewRows(accountRowColumns).
		AddRow(id1.String(), int64(1), "me@example.com", []byte("c"), []byte("t"), nil, 0, false, true, now, now).
		AddRow(id2.String(), int64(2), "me@example.com", []byte("c"), nil, int64(9), 30, false, true, now, now)
	mock.ExpectQuery(`WHERE lower\(email\) = lower\(\$1\) AND active`).
		WithArgs("ME@example.com").
		WillReturnRows(rows)

	accounts, err := NewAccountRepository(conn).ListActiveByEmail(context.Background(), "ME@example.com")
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, int64(1), accounts[0].UserID)
	assert.Nil(t, accounts[1].TokenCiphertext)
	assert.Equal(t, 30, accounts[1].AutoDeleteSecs)
}

func TestAccountRepository_CountActiveByUser(t *testing.T) {
	conn, mock := newMockConnection(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM accounts WHERE user_id = \$1 AND active`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := NewAccountRepository(conn).CountActiveByUser(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestAccountRepository_Updates(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name    string
		pattern string
		args    []any
		rows    int64
		call    func(r *AccountRepository) error
		wantErr error
	}{
		{
			name:    "update token",
			pattern: `UPDATE accounts SET token_ciphertext = \$2, reauth_required = FALSE`,
			args:    []any{id.String(), []byte("new")},
			rows:    1,
			call: func(r *AccountRepository) error {
				return r.UpdateToken(context.Background(), id, []byte("new"))
			},
		},
		{
			name:    "update token on inactive account",
			pattern: `UPDATE accounts SET token_ciphertext`,
			args:    []any{id.String(), []byte("new")},
			rows:    0,
			call: func(r *AccountRepository) error {
				return r.UpdateToken(context.Background(), id, []byte("new"))
			},
			wantErr: model.ErrNotFound,
		},
		{
			name:    "deactivate",
			pattern: `UPDATE accounts SET active = FALSE`,
			args:    []any{id.String()},
			rows:    1,
			call: func(r *AccountRepository) error {
				return r.Deactivate(context.Background(), id)
			},
		},
		{
			name:    "deactivate twice",
			pattern: `UPDATE accounts SET active = FALSE`,
			args:    []any{id.String()},
			rows:    0,
			call: func(r *AccountRepository) error {
				return r.Deactivate(context.Background(), id)
			},
			wantErr: model.ErrNotFound,
		},
		{
			name:    "mark reauth required",
			pattern: `UPDATE accounts SET reauth_required = TRUE`,
			args:    []any{id.String()},
			rows:    1,
			call: func(r *AccountRepository) error {
				return r.MarkReauthRequired(context.Background(), id)
			},
		},
		{
			name:    "set auto delete",
			pattern: `UPDATE accounts SET auto_delete_secs = \$2`,
			args:    []any{id.String(), 60},
			rows:    1,
			call: func(r *AccountRepository) error {
				return r.SetAutoDelete(context.Background(), id, 60)
			},
		},
		{
			name:    "update ciphertexts",
			pattern: `UPDATE accounts SET credentials_ciphertext = \$2, token_ciphertext = \$3`,
			args:    []any{id.String(), []byte("c"), []byte("t")},
			rows:    1,
			call: func(r *AccountRepository) error {
				return r.UpdateCiphertexts(context.Background(), id, []byte("c"), []byte("t"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, mock := newMockConnection(t)
			args := make([]driver.Value, 0, len(tt.args))
			for _, a := range tt.args {
				args = append(args, a)
			}
			mock.ExpectExec(tt.pattern).WithArgs(args...).WillReturnResult(sqlmock.NewResult(0, tt.rows))

			err := tt.call(NewAccountRepository(conn))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestAccountRepository_AdvanceHistoryCursor(t *testing.T) {
	conn, mock := newMockConnection(t)
	id := uuid.New()

	mock.ExpectExec(`(?s)UPDATE accounts SET last_history_id = \$2.*WHERE id = \$1 AND \(last_history_id IS NULL OR last_history_id < \$2\)`).
		WithArgs(id.String(), int64(500)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// A stale cursor updates nothing and is not an error.
	require.NoError(t, NewAccountRepository(conn).AdvanceHistoryCursor(context.Background(), id, 500))
}

func TestAccountRepository_AdvanceHistoryCursor_OutOfRange(t *testing.T) {
	conn, mock := newMockConnection(t)

	err := NewAccountRepository(conn).AdvanceHistoryCursor(context.Background(), uuid.New(), math.MaxInt64+1)
	assert.ErrorIs(t, err, model.ErrMalformedEvent)
	assert.NoError(t, mock.ExpectationsWereMet())
}
