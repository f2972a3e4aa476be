package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccountStore defines persistence operations for connected Gmail accounts.
type AccountStore interface {
	// Create inserts the account, or reactivates a previously deactivated row
	// for the same (user, email) pair. An active duplicate yields ErrAlreadyExists.
	Create(ctx context.Context, account Account) (Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (Account, error)
	ListActiveByEmail(ctx context.Context, email string) ([]Account, error)
	ListActiveByUser(ctx context.Context, userID int64) ([]Account, error)
	ListActive(ctx context.Context) ([]Account, error)
	// ListAll includes deactivated rows, whose ciphertexts are retained.
	ListAll(ctx context.Context) ([]Account, error)
	CountActiveByUser(ctx context.Context, userID int64) (int, error)
	UpdateToken(ctx context.Context, id uuid.UUID, tokenCiphertext []byte) error
	UpdateCiphertexts(ctx context.Context, id uuid.UUID, credentialsCiphertext, tokenCiphertext []byte) error
	MarkReauthRequired(ctx context.Context, id uuid.UUID) error
	// AdvanceHistoryCursor stores historyID only when it is ahead of the stored cursor.
	AdvanceHistoryCursor(ctx context.Context, id uuid.UUID, historyID uint64) error
	SetAutoDelete(ctx context.Context, id uuid.UUID, secs int) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// Account is a Gmail mailbox connected by a Telegram user.
type Account struct {
	ID                    uuid.UUID
	UserID                int64
	Email                 string
	CredentialsCiphertext []byte
	TokenCiphertext       []byte
	LastHistoryID         *uint64
	AutoDeleteSecs        int
	ReauthRequired        bool
	Active                bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// HasCursor reports whether a history cursor has been stored for the account.
func (a Account) HasCursor() bool {
	return a.LastHistoryID != nil && *a.LastHistoryID > 0
}
