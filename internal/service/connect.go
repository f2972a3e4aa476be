package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/dtroode/autoxmail-server/internal/envelope"
	"github.com/dtroode/autoxmail-server/internal/logger"
	"github.com/dtroode/autoxmail-server/internal/model"
)

// ConnectConfig tunes ConnectService.
type ConnectConfig struct {
	MaxAccountsPerUser int
	SessionTTL         time.Duration
}

// ConnectService runs the OAuth consent flow that connects a mailbox.
type ConnectService struct {
	sessions  model.SessionStore
	users     model.UserStore
	creds     *CredentialStore
	sealer    *envelope.Sealer
	provider  model.OAuthProvider
	state     model.StateManager
	newClient ClientFactory
	watch     *WatchService
	cfg       ConnectConfig
	logger    *logger.Logger
	now       func() time.Time
}

func NewConnectService(
	sessions model.SessionStore,
	users model.UserStore,
	creds *CredentialStore,
	sealer *envelope.Sealer,
	provider model.OAuthProvider,
	state model.StateManager,
	newClient ClientFactory,
	watch *WatchService,
	cfg ConnectConfig,
	logger *logger.Logger,
) *ConnectService {
	return &ConnectService{
		sessions:  sessions,
		users:     users,
		creds:     creds,
		sealer:    sealer,
		provider:  provider,
		state:     state,
		newClient: newClient,
		watch:     watch,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Begin validates the uploaded client credentials, parks them in a pending
// session and returns the consent URL the user has to open.
func (s *ConnectService) Begin(ctx context.Context, userID int64, credentials []byte) (string, error) {
	if err := s.checkLimit(ctx, userID); err != nil {
		return "", err
	}

	sessionID := uuid.New()
	state, err := s.state.GenerateState(sessionID, userID)
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}

	authURL, err := s.provider.AuthCodeURL(credentials, state)
	if err != nil {
		return "", err
	}

	sealed, err := s.sealer.Seal(ctx, userID, envelope.PurposeSession, credentials)
	if err != nil {
		return "", fmt.Errorf("failed to seal credentials: %w", err)
	}

	if err := s.users.Ensure(ctx, userID); err != nil {
		return "", fmt.Errorf("failed to ensure user: %w", err)
	}

	now := s.now()
	err = s.sessions.Create(ctx, model.OAuthSession{
		ID:                    sessionID,
		UserID:                userID,
		CredentialsCiphertext: sealed,
		ExpiresAt:             now.Add(s.cfg.SessionTTL),
		CreatedAt:             now,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("ConnectService: connect flow started", "user_id", userID, "session_id", sessionID)
	return authURL, nil
}

// Complete finishes the flow started by Begin once Google redirects back.
func (s *ConnectService) Complete(ctx context.Context, state, code string) (model.Account, error) {
	if code == "" {
		return model.Account{}, fmt.Errorf("%w: empty authorization code", model.ErrCodeRejected)
	}

	sessionID, userID, err := s.state.ParseState(state)
	if err != nil {
		return model.Account{}, err
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Account{}, fmt.Errorf("%w: unknown session", model.ErrInvalidState)
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to get session: %w", err)
	}
	if session.UserID != userID {
		return model.Account{}, fmt.Errorf("%w: session belongs to another user", model.ErrInvalidState)
	}
	if !session.Usable(s.now()) {
		return model.Account{}, model.ErrSessionExpired
	}

	// Consuming first makes a replayed callback fail even if the exchange below does.
	if err := s.sessions.Consume(ctx, sessionID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Account{}, model.ErrSessionExpired
		}
		return model.Account{}, fmt.Errorf("failed to consume session: %w", err)
	}

	credentials, err := s.sealer.Open(ctx, userID, envelope.PurposeSession, session.CredentialsCiphertext)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to open session credentials: %w", err)
	}
	defer envelope.Wipe(credentials)

	token, err := s.provider.Exchange(ctx, credentials, code)
	if err != nil {
		return model.Account{}, err
	}
	if token.RefreshToken == "" {
		s.logger.Warn("ConnectService: provider issued no refresh token", "user_id", userID)
	}

	api, err := s.newClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token.AccessToken, Expiry: token.Expiry}))
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to create gmail client: %w", err)
	}
	profile, err := api.GetProfile(ctx)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to read profile: %w", err)
	}

	// The limit may have been reached by another flow since Begin.
	if err := s.checkLimit(ctx, userID); err != nil {
		return model.Account{}, err
	}

	account, err := s.creds.Save(ctx, userID, profile.EmailAddress, credentials, token)
	if err != nil {
		return model.Account{}, err
	}

	if s.watch != nil {
		if err := s.watch.Start(ctx, account, api); err != nil {
			s.logger.Warn("ConnectService: push notifications not enabled", "account_id", account.ID, "error", err.Error())
		}
	}

	s.logger.Info("ConnectService: account connected", "user_id", userID, "account_id", account.ID, "email", account.Email)
	return account, nil
}

// Disconnect stops push notifications for the account and deactivates it.
// The account must belong to userID.
func (s *ConnectService) Disconnect(ctx context.Context, userID int64, accountID uuid.UUID) error {
	account, err := s.creds.activeAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if account.UserID != userID {
		return fmt.Errorf("account %s: %w", accountID, model.ErrNotFound)
	}

	if s.watch != nil {
		if err := s.watch.Stop(ctx, account); err != nil {
			s.logger.Warn("ConnectService: failed to stop watch", "account_id", accountID, "error", err.Error())
		}
	}

	return s.creds.Deactivate(ctx, accountID)
}

// PurgeSessions removes expired and consumed sessions.
func (s *ConnectService) PurgeSessions(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	if n > 0 {
		s.logger.Debug("ConnectService: sessions purged", "count", n)
	}
	return n, nil
}

func (s *ConnectService) checkLimit(ctx context.Context, userID int64) error {
	n, err := s.creds.CountActive(ctx, userID)
	if err != nil {
		return err
	}
	if n >= s.cfg.MaxAccountsPerUser {
		return fmt.Errorf("%w: %d of %d", model.ErrAccountLimit, n, s.cfg.MaxAccountsPerUser)
	}
	return nil
}
