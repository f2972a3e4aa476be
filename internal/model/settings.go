package model

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// PushMode controls which incoming messages produce a notification.
type PushMode string

const (
	PushModeOff PushMode = "off"
	PushModeOTP PushMode = "otp"
	PushModeVIP PushMode = "vip"
	PushModeAll PushMode = "all"
)

// ParsePushMode validates a user supplied push mode.
func ParsePushMode(s string) (PushMode, error) {
	switch m := PushMode(strings.ToLower(strings.TrimSpace(s))); m {
	case PushModeOff, PushModeOTP, PushModeVIP, PushModeAll:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPushMode, s)
	}
}

// NotificationSettings are per-user push preferences.
type NotificationSettings struct {
	UserID            int64
	PushMode          PushMode
	ExcludeSpam       bool
	ExcludePromotions bool
}

// DefaultNotificationSettings mirrors the column defaults for users without a row.
func DefaultNotificationSettings(userID int64) NotificationSettings {
	return NotificationSettings{
		UserID:            userID,
		PushMode:          PushModeAll,
		ExcludeSpam:       true,
		ExcludePromotions: true,
	}
}

// PrivacySettings hold the user's global auto-delete duration; zero disables it.
type PrivacySettings struct {
	UserID               int64
	GlobalAutoDeleteSecs int
}

// SettingsStore persists notification and privacy settings.
// Getters return defaults when the user has no row yet.
type SettingsStore interface {
	GetNotificationSettings(ctx context.Context, userID int64) (NotificationSettings, error)
	SaveNotificationSettings(ctx context.Context, settings NotificationSettings) error
	GetPrivacySettings(ctx context.Context, userID int64) (PrivacySettings, error)
	SavePrivacySettings(ctx context.Context, settings PrivacySettings) error
}

// SenderList names one of the per-user sender lists.
type SenderList string

const (
	SenderListBlock SenderList = "blocklist"
	SenderListVIP   SenderList = "vip_senders"
)

// SenderEntry is an address or an "@domain.tld" pattern.
type SenderEntry struct {
	UserID    int64
	Value     string
	CreatedAt time.Time
}

// SenderListStore persists blocklist and VIP entries with set semantics.
type SenderListStore interface {
	Add(ctx context.Context, list SenderList, userID int64, value string) error
	Remove(ctx context.Context, list SenderList, userID int64, value string) error
	List(ctx context.Context, list SenderList, userID int64) ([]SenderEntry, error)
}
