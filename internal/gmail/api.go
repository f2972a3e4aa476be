// Package gmail adapts the Gmail REST API to the few calls the push pipeline needs.
package gmail

import (
	"context"
	"time"
)

// API defines the Gmail operations used by the service.
// It enables mocking in tests without hitting the real API.
type API interface {
	// GetProfile returns the authenticated user's profile.
	GetProfile(ctx context.Context) (*Profile, error)

	// ListHistory returns messages added since startHistoryID.
	// A cursor the provider no longer knows yields model.ErrHistoryExpired.
	ListHistory(ctx context.Context, startHistoryID uint64, pageToken string) (*HistoryResponse, error)

	// ListMessages returns message ids carrying every label in labelIDs, newest first.
	ListMessages(ctx context.Context, labelIDs []string, maxResults int64) ([]MessageID, error)

	// GetMessageRaw fetches a single message with raw MIME data.
	GetMessageRaw(ctx context.Context, messageID string) (*RawMessage, error)

	// Watch starts or renews push notifications to a Pub/Sub topic.
	Watch(ctx context.Context, topic string, labelIDs []string) (*WatchResponse, error)

	// StopWatch stops push notifications for the mailbox.
	StopWatch(ctx context.Context) error
}

// Profile represents a Gmail user profile.
type Profile struct {
	EmailAddress  string
	MessagesTotal int64
	HistoryID     uint64
}

// MessageID represents a message reference from list operations.
type MessageID struct {
	ID       string
	ThreadID string
}

// RawMessage contains the raw MIME data for a message.
type RawMessage struct {
	ID           string
	ThreadID     string
	LabelIDs     []string
	Snippet      string
	HistoryID    uint64
	InternalDate int64 // Unix milliseconds
	Raw          []byte
}

// HistoryResponse contains a page of changes since a history ID.
type HistoryResponse struct {
	History       []HistoryRecord
	NextPageToken string
	HistoryID     uint64
}

// HistoryRecord represents a single history change.
type HistoryRecord struct {
	ID            uint64
	MessagesAdded []MessageID
}

// WatchResponse describes an active push subscription.
type WatchResponse struct {
	HistoryID  uint64
	Expiration time.Time
}

// Well-known system labels.
const (
	LabelInbox      = "INBOX"
	LabelSpam       = "SPAM"
	LabelSent       = "SENT"
	LabelDraft      = "DRAFT"
	LabelPromotions = "CATEGORY_PROMOTIONS"
)
