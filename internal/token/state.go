// Package token signs the OAuth state parameter that ties a consent redirect to a pending session.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/autoxmail-server/internal/model"
)

const typeState = "oauth_state"

// Claims represents the JWT claims carried in the state parameter.
type Claims struct {
	jwt.RegisteredClaims
	SessionID uuid.UUID `json:"sid"`
	UserID    int64     `json:"uid"`
	TokenType string    `json:"typ"`
}

var _ model.StateManager = (*StateSigner)(nil)

// StateSigner implements model.StateManager backed by symmetric HMAC.
type StateSigner struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewStateSigner creates a signer. key should come from the envelope key derivation
// so that it rotates with the master secret.
func NewStateSigner(key []byte, ttl time.Duration) *StateSigner {
	return &StateSigner{key: key, ttl: ttl, now: time.Now}
}

// GenerateState creates a short-lived state token for a pending session.
func (s *StateSigner) GenerateState(sessionID uuid.UUID, userID int64) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		SessionID: sessionID,
		UserID:    userID,
		TokenType: typeState,
	})

	tokenString, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign state: %w", err)
	}

	return tokenString, nil
}

// ParseState validates a state token and returns the session and user it was issued for.
// Every validation failure wraps model.ErrInvalidState.
func (s *StateSigner) ParseState(state string) (uuid.UUID, int64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(state, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return s.key, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, 0, fmt.Errorf("%w: %w", model.ErrSessionExpired, err)
		}
		return uuid.Nil, 0, fmt.Errorf("%w: %v", model.ErrInvalidState, err)
	}
	if !token.Valid {
		return uuid.Nil, 0, fmt.Errorf("%w: token is invalid", model.ErrInvalidState)
	}
	if claims.TokenType != typeState {
		return uuid.Nil, 0, fmt.Errorf("%w: token type mismatch: %s", model.ErrInvalidState, claims.TokenType)
	}
	if claims.SessionID == uuid.Nil {
		return uuid.Nil, 0, fmt.Errorf("%w: missing session id", model.ErrInvalidState)
	}
	return claims.SessionID, claims.UserID, nil
}
