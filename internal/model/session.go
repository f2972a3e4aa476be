package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionStore persists pending OAuth connect sessions.
type SessionStore interface {
	Create(ctx context.Context, session OAuthSession) error
	GetByID(ctx context.Context, id uuid.UUID) (OAuthSession, error)
	Consume(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// OAuthSession is a connect flow waiting for the user to return from Google's consent screen.
type OAuthSession struct {
	ID                    uuid.UUID
	UserID                int64
	CredentialsCiphertext []byte
	ExpiresAt             time.Time
	Consumed              bool
	CreatedAt             time.Time
}

// Usable reports whether the session can still complete a connect flow.
func (s OAuthSession) Usable(now time.Time) bool {
	return !s.Consumed && now.Before(s.ExpiresAt)
}
