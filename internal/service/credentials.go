package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/autoxmail-server/internal/envelope"
	"github.com/dtroode/autoxmail-server/internal/logger"
	"github.com/dtroode/autoxmail-server/internal/model"
)

// RotationReport summarises a RotateKeys run.
type RotationReport struct {
	Snapshot string
	Scanned  int
	Rotated  int
	Failed   int
}

type snapshotWriter interface {
	Write(ctx context.Context) (string, error)
}

// CredentialStore keeps account secrets sealed at rest. Plaintext only exists
// for the duration of a single call.
type CredentialStore struct {
	accounts model.AccountStore
	users    model.UserStore
	tx       model.Transactor
	sealer   *envelope.Sealer
	logger   *logger.Logger

	snapshots snapshotWriter

	mu           sync.Mutex
	onDeactivate []func(uuid.UUID)
}

func NewCredentialStore(
	accounts model.AccountStore,
	users model.UserStore,
	tx model.Transactor,
	sealer *envelope.Sealer,
	logger *logger.Logger,
) *CredentialStore {
	return &CredentialStore{
		accounts: accounts,
		users:    users,
		tx:       tx,
		sealer:   sealer,
		logger:   logger,
	}
}

// SetSnapshotter makes RotateKeys write a ciphertext snapshot before touching any row.
func (s *CredentialStore) SetSnapshotter(w snapshotWriter) {
	s.snapshots = w
}

// OnDeactivate registers fn to run after an account is deactivated.
func (s *CredentialStore) OnDeactivate(fn func(uuid.UUID)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDeactivate = append(s.onDeactivate, fn)
}

// Save seals credentials and token and stores them for (userID, email).
// A previously deactivated account is reactivated with its history cursor kept.
func (s *CredentialStore) Save(ctx context.Context, userID int64, email string, credentials []byte, token model.OAuthToken) (model.Account, error) {
	credCT, err := s.sealer.Seal(ctx, userID, envelope.PurposeCredentials, credentials)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to seal credentials: %w", err)
	}

	tokenCT, err := s.sealToken(ctx, userID, token)
	if err != nil {
		return model.Account{}, err
	}

	var saved model.Account
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.users.Ensure(ctx, userID); err != nil {
			return fmt.Errorf("failed to ensure user: %w", err)
		}

		saved, err = s.accounts.Create(ctx, model.Account{
			ID:                    uuid.New(),
			UserID:                userID,
			Email:                 strings.ToLower(strings.TrimSpace(email)),
			CredentialsCiphertext: credCT,
			TokenCiphertext:       tokenCT,
			Active:                true,
		})
		if err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Account{}, err
	}

	s.logger.Info("CredentialStore: account saved", "account_id", saved.ID, "user_id", userID, "email", saved.Email)
	return saved, nil
}

// LoadCredentials returns the client credentials JSON of an active account.
func (s *CredentialStore) LoadCredentials(ctx context.Context, accountID uuid.UUID) ([]byte, error) {
	account, err := s.activeAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	credentials, err := s.sealer.Open(ctx, account.UserID, envelope.PurposeCredentials, account.CredentialsCiphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to open credentials of account %s: %w", accountID, err)
	}
	return credentials, nil
}

// LoadToken returns the OAuth token record of an active account.
func (s *CredentialStore) LoadToken(ctx context.Context, accountID uuid.UUID) (model.OAuthToken, error) {
	account, err := s.activeAccount(ctx, accountID)
	if err != nil {
		return model.OAuthToken{}, err
	}
	return s.openToken(ctx, account)
}

// UpdateToken re-seals token and overwrites the stored blob in one statement,
// so readers see either the old or the new blob.
func (s *CredentialStore) UpdateToken(ctx context.Context, accountID uuid.UUID, token model.OAuthToken) error {
	account, err := s.activeAccount(ctx, accountID)
	if err != nil {
		return err
	}
	return s.writeToken(ctx, account, token)
}

// Deactivate soft-deletes the account. Ciphertexts are kept so a reconnect
// can reactivate the row.
func (s *CredentialStore) Deactivate(ctx context.Context, accountID uuid.UUID) error {
	if err := s.accounts.Deactivate(ctx, accountID); err != nil {
		return fmt.Errorf("failed to deactivate account: %w", err)
	}

	s.mu.Lock()
	hooks := append([]func(uuid.UUID){}, s.onDeactivate...)
	s.mu.Unlock()
	for _, fn := range hooks {
		fn(accountID)
	}

	s.logger.Info("CredentialStore: account deactivated", "account_id", accountID)
	return nil
}

func (s *CredentialStore) ListAccounts(ctx context.Context, userID int64) ([]model.Account, error) {
	accounts, err := s.accounts.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (s *CredentialStore) CountActive(ctx context.Context, userID int64) (int, error) {
	n, err := s.accounts.CountActiveByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return n, nil
}

func (s *CredentialStore) SetAutoDelete(ctx context.Context, accountID uuid.UUID, secs int) error {
	if secs < 0 {
		return fmt.Errorf("auto-delete must not be negative: %d", secs)
	}
	if err := s.accounts.SetAutoDelete(ctx, accountID, secs); err != nil {
		return fmt.Errorf("failed to set auto-delete: %w", err)
	}
	return nil
}

// RotateKeys re-seals every blob that is not on the current key version.
// Each account is rewritten in its own transaction under a row lock; a failure
// on one account does not stop the others.
func (s *CredentialStore) RotateKeys(ctx context.Context) (RotationReport, error) {
	var report RotationReport

	if s.snapshots != nil {
		key, err := s.snapshots.Write(ctx)
		if err != nil {
			return report, fmt.Errorf("failed to write snapshot: %w", err)
		}
		report.Snapshot = key
	}

	accounts, err := s.accounts.ListAll(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list accounts: %w", err)
	}

	var errs []error
	for _, a := range accounts {
		report.Scanned++
		if !s.sealer.NeedsRotation(a.CredentialsCiphertext) && !s.sealer.NeedsRotation(a.TokenCiphertext) {
			continue
		}

		if err := s.rotateAccount(ctx, a.ID); err != nil {
			report.Failed++
			errs = append(errs, fmt.Errorf("account %s: %w", a.ID, err))
			s.logger.Error("CredentialStore: failed to rotate account keys", "account_id", a.ID, "error", err.Error())
			continue
		}
		report.Rotated++
	}

	s.logger.Info("CredentialStore: key rotation finished",
		"key_version", s.sealer.CurrentVersion(), "scanned", report.Scanned, "rotated", report.Rotated, "failed", report.Failed)
	return report, errors.Join(errs...)
}

func (s *CredentialStore) rotateAccount(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := s.accounts.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		credCT, credChanged, err := s.sealer.Reseal(ctx, a.UserID, envelope.PurposeCredentials, a.CredentialsCiphertext)
		if err != nil {
			return fmt.Errorf("credentials: %w", err)
		}

		tokenCT, tokenChanged := a.TokenCiphertext, false
		if len(a.TokenCiphertext) > 0 {
			tokenCT, tokenChanged, err = s.sealer.Reseal(ctx, a.UserID, envelope.PurposeToken, a.TokenCiphertext)
			if err != nil {
				return fmt.Errorf("token: %w", err)
			}
		}

		if !credChanged && !tokenChanged {
			return nil
		}
		return s.accounts.UpdateCiphertexts(ctx, id, credCT, tokenCT)
	})
}

func (s *CredentialStore) activeAccount(ctx context.Context, id uuid.UUID) (model.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to get account: %w", err)
	}
	if !account.Active {
		return model.Account{}, fmt.Errorf("account %s is deactivated: %w", id, model.ErrNotFound)
	}
	return account, nil
}

func (s *CredentialStore) openToken(ctx context.Context, account model.Account) (model.OAuthToken, error) {
	if len(account.TokenCiphertext) == 0 {
		return model.OAuthToken{}, fmt.Errorf("account %s has no token: %w", account.ID, model.ErrNotFound)
	}

	plain, err := s.sealer.Open(ctx, account.UserID, envelope.PurposeToken, account.TokenCiphertext)
	if err != nil {
		return model.OAuthToken{}, fmt.Errorf("failed to open token of account %s: %w", account.ID, err)
	}
	defer envelope.Wipe(plain)

	var token model.OAuthToken
	if err := json.Unmarshal(plain, &token); err != nil {
		return model.OAuthToken{}, fmt.Errorf("%w: token record of account %s: %v", model.ErrDecryption, account.ID, err)
	}
	return token, nil
}

func (s *CredentialStore) sealToken(ctx context.Context, userID int64, token model.OAuthToken) ([]byte, error) {
	plain, err := json.Marshal(token)
	if err != nil {
		return nil, fmt.Errorf("failed to encode token: %w", err)
	}
	defer envelope.Wipe(plain)

	ct, err := s.sealer.Seal(ctx, userID, envelope.PurposeToken, plain)
	if err != nil {
		return nil, fmt.Errorf("failed to seal token: %w", err)
	}
	return ct, nil
}

// writeToken seals first and writes only on success.
func (s *CredentialStore) writeToken(ctx context.Context, account model.Account, token model.OAuthToken) error {
	ct, err := s.sealToken(ctx, account.UserID, token)
	if err != nil {
		return err
	}
	if err := s.accounts.UpdateToken(ctx, account.ID, ct); err != nil {
		return fmt.Errorf("failed to update token: %w", err)
	}
	return nil
}
