package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DecisionReason explains why a message was selected for delivery.
type DecisionReason string

const (
	ReasonVIP DecisionReason = "vip"
	ReasonOTP DecisionReason = "otp"
	ReasonAll DecisionReason = "all"
)

// NotificationDecision is a message the push pipeline decided to relay to Telegram.
type NotificationDecision struct {
	UserID       int64
	AccountID    uuid.UUID
	AccountEmail string
	MessageID    string
	From         string
	Subject      string
	Snippet      string
	OTP          string
	VIP          bool
	Reason       DecisionReason
	// DeleteAt is the auto-delete deadline of the delivered message; zero means never.
	DeleteAt time.Time
}

// Notifier delivers text to a Telegram chat.
type Notifier interface {
	SendMessage(ctx context.Context, chatID int64, text string) (int64, error)
	DeleteMessage(ctx context.Context, chatID int64, messageID int64) error
}
