package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/dtroode/autoxmail-server/internal/gmail"
	"github.com/dtroode/autoxmail-server/internal/logger"
	"github.com/dtroode/autoxmail-server/internal/model"
)

// refreshTimeout bounds a refresh that outlives its caller's context.
const refreshTimeout = 30 * time.Second

// ClientFactory builds a Gmail client authorised by ts.
type ClientFactory func(ctx context.Context, ts oauth2.TokenSource) (gmail.API, error)

// ClientProvider hands out Gmail clients for an account.
type ClientProvider interface {
	Client(ctx context.Context, accountID uuid.UUID) (gmail.API, error)
}

// TokenConfig tunes TokenService.
type TokenConfig struct {
	ExpirySkew      time.Duration
	Retry           RetryPolicy
	ClientCacheSize int
}

var _ ClientProvider = (*TokenService)(nil)

// TokenService keeps access tokens usable. Refreshes are collapsed per account
// inside the process and serialised across processes by a row lock.
type TokenService struct {
	creds     *CredentialStore
	accounts  model.AccountStore
	tx        model.Transactor
	provider  model.OAuthProvider
	newClient ClientFactory
	cfg       TokenConfig
	logger    *logger.Logger
	now       func() time.Time

	group   singleflight.Group
	clients *clientCache

	mu         sync.Mutex
	refreshing map[uuid.UUID]struct{}
}

func NewTokenService(
	creds *CredentialStore,
	accounts model.AccountStore,
	tx model.Transactor,
	provider model.OAuthProvider,
	newClient ClientFactory,
	cfg TokenConfig,
	logger *logger.Logger,
) *TokenService {
	s := &TokenService{
		creds:      creds,
		accounts:   accounts,
		tx:         tx,
		provider:   provider,
		newClient:  newClient,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
		clients:    newClientCache(cfg.ClientCacheSize),
		refreshing: make(map[uuid.UUID]struct{}),
	}
	creds.OnDeactivate(func(id uuid.UUID) { s.clients.Remove(id) })
	return s
}

// GetLiveToken returns an access token that stays valid for at least the configured skew.
func (s *TokenService) GetLiveToken(ctx context.Context, accountID uuid.UUID) (string, error) {
	token, err := s.liveToken(ctx, accountID)
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// WorkingCredentials returns live credentials usable with golang.org/x/oauth2 clients.
// The refresh token is deliberately left out.
func (s *TokenService) WorkingCredentials(ctx context.Context, accountID uuid.UUID) (*oauth2.Token, error) {
	token, err := s.liveToken(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken: token.AccessToken,
		TokenType:   "Bearer",
		Expiry:      token.Expiry,
	}, nil
}

// State reports the refresh state of an account's token.
func (s *TokenService) State(ctx context.Context, accountID uuid.UUID) (model.TokenState, error) {
	account, err := s.creds.activeAccount(ctx, accountID)
	if err != nil {
		return model.TokenInvalid, err
	}
	if account.ReauthRequired {
		return model.TokenInvalid, nil
	}
	if s.isRefreshing(accountID) {
		return model.TokenRefreshing, nil
	}

	token, err := s.creds.openToken(ctx, account)
	if err != nil {
		return model.TokenInvalid, err
	}
	if token.FreshAt(s.now(), s.cfg.ExpirySkew) {
		return model.TokenValid, nil
	}
	return model.TokenExpired, nil
}

// Client returns a cached Gmail client for the account. The client pulls its
// access token through GetLiveToken, so it never outlives a revoked grant.
func (s *TokenService) Client(ctx context.Context, accountID uuid.UUID) (gmail.API, error) {
	if c, ok := s.clients.Get(accountID); ok {
		return c, nil
	}

	if _, err := s.creds.activeAccount(ctx, accountID); err != nil {
		return nil, err
	}

	ts := oauth2.ReuseTokenSourceWithExpiry(nil, &accountTokenSource{svc: s, id: accountID}, s.cfg.ExpirySkew)
	c, err := s.newClient(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail client: %w", err)
	}

	s.clients.Add(accountID, c)
	return c, nil
}

func (s *TokenService) liveToken(ctx context.Context, accountID uuid.UUID) (model.OAuthToken, error) {
	account, err := s.creds.activeAccount(ctx, accountID)
	if err != nil {
		return model.OAuthToken{}, err
	}
	if account.ReauthRequired {
		return model.OAuthToken{}, fmt.Errorf("account %s: %w", accountID, model.ErrReauthorizationRequired)
	}

	token, err := s.creds.openToken(ctx, account)
	if err != nil {
		return model.OAuthToken{}, err
	}
	if token.FreshAt(s.now(), s.cfg.ExpirySkew) {
		return token, nil
	}

	// Callers that join an in-flight refresh share its result. The refresh itself
	// is detached from the caller so a shutdown never leaves it half done.
	v, err, _ := s.group.Do(accountID.String(), func() (interface{}, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		return s.refresh(rctx, accountID)
	})
	if err != nil {
		return model.OAuthToken{}, err
	}
	return v.(model.OAuthToken), nil
}

func (s *TokenService) refresh(ctx context.Context, accountID uuid.UUID) (model.OAuthToken, error) {
	s.setRefreshing(accountID, true)
	defer s.setRefreshing(accountID, false)

	var fresh model.OAuthToken
	refreshed := false
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		account, err := s.accounts.GetByIDForUpdate(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to lock account: %w", err)
		}
		if !account.Active {
			return fmt.Errorf("account %s is deactivated: %w", accountID, model.ErrNotFound)
		}
		if account.ReauthRequired {
			return fmt.Errorf("account %s: %w", accountID, model.ErrReauthorizationRequired)
		}

		stored, err := s.creds.openToken(ctx, account)
		if err != nil {
			return err
		}
		// Another process refreshed while we waited for the lock.
		if stored.FreshAt(s.now(), s.cfg.ExpirySkew) {
			fresh = stored
			return nil
		}

		next, err := s.callProvider(ctx, stored)
		if err != nil {
			return err
		}
		if err := s.creds.writeToken(ctx, account, next); err != nil {
			return err
		}
		fresh, refreshed = next, true
		return nil
	})

	if errors.Is(err, model.ErrReauthorizationRequired) {
		// Marked outside the rolled back transaction so the flag sticks.
		if markErr := s.accounts.MarkReauthRequired(ctx, accountID); markErr != nil {
			s.logger.Error("TokenService: failed to mark account for reauthorization", "account_id", accountID, "error", markErr.Error())
		}
		s.clients.Remove(accountID)
		s.logger.Warn("TokenService: refresh token rejected", "account_id", accountID)
		return model.OAuthToken{}, err
	}
	if err != nil {
		s.logger.Error("TokenService: failed to refresh token", "account_id", accountID, "error", err.Error())
		return model.OAuthToken{}, err
	}

	if refreshed {
		s.clients.Remove(accountID)
		s.logger.Debug("TokenService: token refreshed", "account_id", accountID, "expiry", fresh.Expiry)
	}
	return fresh, nil
}

func (s *TokenService) callProvider(ctx context.Context, stored model.OAuthToken) (model.OAuthToken, error) {
	var next model.OAuthToken
	err := retryTransient(ctx, s.cfg.Retry, func(ctx context.Context) error {
		t, err := s.provider.Refresh(ctx, stored)
		if err != nil {
			return err
		}
		next = t
		return nil
	})
	if err != nil {
		return model.OAuthToken{}, fmt.Errorf("failed to refresh token: %w", err)
	}

	if next.RefreshToken == "" {
		next.RefreshToken = stored.RefreshToken
	}
	if next.TokenEndpoint == "" {
		next.TokenEndpoint = stored.TokenEndpoint
	}
	if next.ClientID == "" {
		next.ClientID, next.ClientSecret = stored.ClientID, stored.ClientSecret
	}
	if len(next.Scopes) == 0 {
		next.Scopes = stored.Scopes
	}
	return next, nil
}

func (s *TokenService) setRefreshing(id uuid.UUID, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		s.refreshing[id] = struct{}{}
	} else {
		delete(s.refreshing, id)
	}
}

func (s *TokenService) isRefreshing(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.refreshing[id]
	return ok
}

// accountTokenSource adapts GetLiveToken to oauth2.TokenSource.
type accountTokenSource struct {
	svc *TokenService
	id  uuid.UUID
}

func (a *accountTokenSource) Token() (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	return a.svc.WorkingCredentials(ctx, a.id)
}
