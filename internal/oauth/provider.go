// Package oauth talks to Google's OAuth 2.0 endpoints on behalf of an account.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/dtroode/autoxmail-server/internal/model"
)

var _ model.OAuthProvider = (*Provider)(nil)

// Provider implements model.OAuthProvider with golang.org/x/oauth2.
type Provider struct {
	redirectURL string
	scopes      []string
	httpClient  *http.Client
}

// NewProvider creates a Provider. A nil httpClient uses http.DefaultClient.
func NewProvider(redirectURL string, scopes []string, httpClient *http.Client) *Provider {
	return &Provider{
		redirectURL: redirectURL,
		scopes:      scopes,
		httpClient:  httpClient,
	}
}

// AuthCodeURL validates the uploaded client credentials and returns the consent URL.
// Offline access with forced consent makes Google issue a refresh token every time.
func (p *Provider) AuthCodeURL(credentials []byte, state string) (string, error) {
	cfg, err := p.config(credentials)
	if err != nil {
		return "", err
	}
	return cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent")), nil
}

// Exchange trades an authorization code for a token.
func (p *Provider) Exchange(ctx context.Context, credentials []byte, code string) (model.OAuthToken, error) {
	cfg, err := p.config(credentials)
	if err != nil {
		return model.OAuthToken{}, err
	}

	tok, err := cfg.Exchange(p.withClient(ctx), code)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && !isServerFailure(rerr) {
			return model.OAuthToken{}, fmt.Errorf("%w: %v", model.ErrCodeRejected, err)
		}
		return model.OAuthToken{}, classify(err)
	}

	return model.OAuthToken{
		AccessToken:   tok.AccessToken,
		RefreshToken:  tok.RefreshToken,
		TokenEndpoint: cfg.Endpoint.TokenURL,
		ClientID:      cfg.ClientID,
		ClientSecret:  cfg.ClientSecret,
		Scopes:        cfg.Scopes,
		Expiry:        tok.Expiry,
	}, nil
}

// Refresh exchanges the stored refresh token for a new access token.
// The returned token keeps the old refresh token unless Google rotated it.
func (p *Provider) Refresh(ctx context.Context, token model.OAuthToken) (model.OAuthToken, error) {
	if token.RefreshToken == "" {
		return model.OAuthToken{}, fmt.Errorf("%w: no refresh token stored", model.ErrReauthorizationRequired)
	}

	cfg := &oauth2.Config{
		ClientID:     token.ClientID,
		ClientSecret: token.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: token.TokenEndpoint, AuthStyle: oauth2.AuthStyleInParams},
		Scopes:       token.Scopes,
	}

	// An empty access token forces the source to hit the token endpoint.
	fresh, err := cfg.TokenSource(p.withClient(ctx), &oauth2.Token{RefreshToken: token.RefreshToken}).Token()
	if err != nil {
		return model.OAuthToken{}, classify(err)
	}

	out := token
	out.AccessToken = fresh.AccessToken
	out.Expiry = fresh.Expiry
	if fresh.RefreshToken != "" {
		out.RefreshToken = fresh.RefreshToken
	}
	return out, nil
}

func (p *Provider) config(credentials []byte) (*oauth2.Config, error) {
	cfg, err := google.ConfigFromJSON(credentials, p.scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidCredentials, err)
	}
	if cfg.ClientID == "" || cfg.Endpoint.TokenURL == "" {
		return nil, fmt.Errorf("%w: client id or token uri missing", model.ErrInvalidCredentials)
	}
	cfg.RedirectURL = p.redirectURL
	return cfg, nil
}

func (p *Provider) withClient(ctx context.Context) context.Context {
	if p.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

// classify maps token endpoint failures onto the model error taxonomy.
func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		switch {
		case isServerFailure(rerr):
			return fmt.Errorf("%w: %v", model.ErrTransientProvider, err)
		case rerr.ErrorCode == "invalid_grant", rerr.ErrorCode == "invalid_client", rerr.ErrorCode == "unauthorized_client":
			return fmt.Errorf("%w: %s", model.ErrReauthorizationRequired, rerr.ErrorCode)
		case rerr.Response != nil && (rerr.Response.StatusCode == http.StatusBadRequest || rerr.Response.StatusCode == http.StatusUnauthorized):
			return fmt.Errorf("%w: %v", model.ErrReauthorizationRequired, err)
		}
		return fmt.Errorf("token endpoint rejected request: %w", err)
	}

	// Network failures and unparseable responses.
	return fmt.Errorf("%w: %v", model.ErrTransientProvider, err)
}

func isServerFailure(rerr *oauth2.RetrieveError) bool {
	if rerr.Response == nil {
		return false
	}
	code := rerr.Response.StatusCode
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
