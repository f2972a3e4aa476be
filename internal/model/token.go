package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OAuthToken is the record serialized inside an account's encrypted token blob.
type OAuthToken struct {
	AccessToken   string    `json:"access_token"`
	RefreshToken  string    `json:"refresh_token,omitempty"`
	TokenEndpoint string    `json:"token_endpoint"`
	ClientID      string    `json:"client_id"`
	ClientSecret  string    `json:"client_secret"`
	Scopes        []string  `json:"scopes"`
	Expiry        time.Time `json:"expiry"`
}

// FreshAt reports whether the access token is still usable at now with the given skew.
// A zero expiry means the provider did not report one and the token is treated as fresh.
func (t OAuthToken) FreshAt(now time.Time, skew time.Duration) bool {
	if t.AccessToken == "" {
		return false
	}
	if t.Expiry.IsZero() {
		return true
	}
	return now.Add(skew).Before(t.Expiry)
}

// TokenState is the refresh state of an account token.
type TokenState int

const (
	TokenValid TokenState = iota
	TokenExpired
	TokenRefreshing
	TokenInvalid
)

func (s TokenState) String() string {
	switch s {
	case TokenValid:
		return "VALID"
	case TokenExpired:
		return "EXPIRED"
	case TokenRefreshing:
		return "REFRESHING"
	case TokenInvalid:
		return "INVALID"
	default:
		return "UNKNOWN"
	}
}

// OAuthProvider performs the OAuth 2.0 calls against Google.
type OAuthProvider interface {
	// Refresh exchanges the refresh token for a new access token.
	Refresh(ctx context.Context, token OAuthToken) (OAuthToken, error)
	// AuthCodeURL validates client credentials JSON and builds the consent URL.
	AuthCodeURL(credentials []byte, state string) (string, error)
	// Exchange trades an authorization code for a token.
	Exchange(ctx context.Context, credentials []byte, code string) (OAuthToken, error)
}

// StateManager signs and verifies the OAuth state parameter.
type StateManager interface {
	GenerateState(sessionID uuid.UUID, userID int64) (string, error)
	ParseState(state string) (sessionID uuid.UUID, userID int64, err error)
}
