package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/autoxmail-server/internal/model"
)

var _ model.SessionStore = (*SessionRepository)(nil)

type SessionRepository struct {
	db *Connection
}

func NewSessionRepository(db *Connection) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session model.OAuthSession) error {
	const query = `
        INSERT INTO oauth_sessions (id, user_id, credentials_ciphertext, expires_at, consumed, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
    `

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		session.ID, session.UserID, session.CredentialsCiphertext, session.ExpiresAt, session.Consumed,
	)
	if err != nil {
		return fmt.Errorf("failed to create oauth session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (model.OAuthSession, error) {
	const query = `
        SELECT id, user_id, credentials_ciphertext, expires_at, consumed, created_at
        FROM oauth_sessions WHERE id = $1
    `

	var s model.OAuthSession
	err := r.db.conn(ctx).QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.CredentialsCiphertext, &s.ExpiresAt, &s.Consumed, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.OAuthSession{}, model.ErrNotFound
		}
		return model.OAuthSession{}, fmt.Errorf("failed to get oauth session by id: %w", err)
	}
	return s, nil
}

// Consume marks the session used. Consuming twice reports ErrNotFound so
// that a replayed callback cannot connect the account again.
func (r *SessionRepository) Consume(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE oauth_sessions SET consumed = TRUE WHERE id = $1 AND NOT consumed`

	res, err := r.db.conn(ctx).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to consume oauth session: %w", err)
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

func (r *SessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	const query = `DELETE FROM oauth_sessions WHERE expires_at < $1 OR consumed`

	res, err := r.db.conn(ctx).ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired oauth sessions: %w", err)
	}
	return rowsAffected(res)
}
