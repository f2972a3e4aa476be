package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/autoxmail-server/internal/model"
)

func TestSessionRepository_Create(t *testing.T) {
	conn, mock := newMockConnection(t)
	s := model.OAuthSession{
		ID:                    uuid.New(),
		UserID:                42,
		CredentialsCiphertext: []byte("sealed"),
		ExpiresAt:             time.Now().Add(5 * time.Minute),
	}

	mock.ExpectExec(`INSERT INTO oauth_sessions`).
		WithArgs(s.ID.String(), int64(42), []byte("sealed"), s.ExpiresAt, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewSessionRepository(conn).Create(context.Background(), s))
}

func TestSessionRepository_GetByID(t *testing.T) {
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		conn, mock := newMockConnection(t)
		expires := time.Now().Add(time.Minute)
		mock.ExpectQuery(`(?s)SELECT .* FROM oauth_sessions WHERE id = \$1`).
			WithArgs(id.String()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "credentials_ciphertext", "expires_at", "consumed", "created_at"}).
				AddRow(id.String(), int64(42), []byte("sealed"), expires, false, time.Now()))

		s, err := NewSessionRepository(conn).GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, s.ID)
		assert.True(t, s.Usable(time.Now()))
	})

	t.Run("not found", func(t *testing.T) {
		conn, mock := newMockConnection(t)
		mock.ExpectQuery(`FROM oauth_sessions`).WithArgs(id.String()).WillReturnError(sql.ErrNoRows)

		_, err := NewSessionRepository(conn).GetByID(context.Background(), id)
		require.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestSessionRepository_Consume(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name    string
		rows    int64
		wantErr error
	}{
		{name: "first use", rows: 1},
		{name: "replayed", rows: 0, wantErr: model.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, mock := newMockConnection(t)
			mock.ExpectExec(`UPDATE oauth_sessions SET consumed = TRUE WHERE id = \$1 AND NOT consumed`).
				WithArgs(id.String()).
				WillReturnResult(sqlmock.NewResult(0, tt.rows))

			err := NewSessionRepository(conn).Consume(context.Background(), id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	conn, mock := newMockConnection(t)
	before := time.Now()
	mock.ExpectExec(`DELETE FROM oauth_sessions WHERE expires_at < \$1 OR consumed`).
		WithArgs(before).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := NewSessionRepository(conn).DeleteExpired(context.Background(), before)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
