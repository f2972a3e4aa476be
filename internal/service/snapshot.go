package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/autoxmail-server/internal/envelope"
	"github.com/dtroode/autoxmail-server/internal/logger"
	"github.com/dtroode/autoxmail-server/internal/model"
)

// Snapshot is a ciphertext-only copy of the accounts table. It can be read
// back only with the keyring that sealed it.
type Snapshot struct {
	TakenAt    time.Time         `json:"taken_at"`
	KeyVersion byte              `json:"key_version"`
	Accounts   []SnapshotAccount `json:"accounts"`
}

type SnapshotAccount struct {
	ID                    uuid.UUID `json:"id"`
	UserID                int64     `json:"user_id"`
	Email                 string    `json:"email"`
	Active                bool      `json:"active"`
	LastHistoryID         *uint64   `json:"last_history_id,omitempty"`
	CredentialsCiphertext []byte    `json:"credentials_ciphertext"`
	TokenCiphertext       []byte    `json:"token_ciphertext,omitempty"`
}

// SnapshotService writes and reads account snapshots in object storage.
type SnapshotService struct {
	accounts model.AccountStore
	storage  model.ObjectStorage
	logger   *logger.Logger
	now      func() time.Time
}

func NewSnapshotService(accounts model.AccountStore, storage model.ObjectStorage, logger *logger.Logger) *SnapshotService {
	return &SnapshotService{
		accounts: accounts,
		storage:  storage,
		logger:   logger,
		now:      time.Now,
	}
}

// Write stores a snapshot of every account and returns its key.
func (s *SnapshotService) Write(ctx context.Context) (string, error) {
	accounts, err := s.accounts.ListAll(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list accounts: %w", err)
	}

	snap := Snapshot{TakenAt: s.now().UTC(), Accounts: make([]SnapshotAccount, 0, len(accounts))}
	for _, a := range accounts {
		if v, err := envelope.KeyVersion(a.CredentialsCiphertext); err == nil && v > snap.KeyVersion {
			snap.KeyVersion = v
		}
		snap.Accounts = append(snap.Accounts, SnapshotAccount{
			ID:                    a.ID,
			UserID:                a.UserID,
			Email:                 a.Email,
			Active:                a.Active,
			LastHistoryID:         a.LastHistoryID,
			CredentialsCiphertext: a.CredentialsCiphertext,
			TokenCiphertext:       a.TokenCiphertext,
		})
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := fmt.Sprintf("accounts-%s.json", snap.TakenAt.Format("20060102T150405Z"))
	if err := s.storage.Upload(ctx, key, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to upload snapshot: %w", err)
	}

	s.logger.Info("SnapshotService: snapshot written", "key", key, "accounts", len(snap.Accounts))
	return key, nil
}

// Read loads a snapshot by key.
func (s *SnapshotService) Read(ctx context.Context, key string) (Snapshot, error) {
	rc, err := s.storage.Download(ctx, key)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to download snapshot: %w", err)
	}
	defer rc.Close()

	var snap Snapshot
	if err := json.NewDecoder(rc).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}
