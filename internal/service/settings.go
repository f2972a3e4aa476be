package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/autoxmail-server/internal/logger"
	"github.com/dtroode/autoxmail-server/internal/model"
)

// SettingsService backs the bot's settings screens.
type SettingsService struct {
	settings model.SettingsStore
	lists    model.SenderListStore
	creds    *CredentialStore
	logger   *logger.Logger
}

func NewSettingsService(settings model.SettingsStore, lists model.SenderListStore, creds *CredentialStore, logger *logger.Logger) *SettingsService {
	return &SettingsService{
		settings: settings,
		lists:    lists,
		creds:    creds,
		logger:   logger,
	}
}

// AddSender adds an address or "@domain" entry to one of the user's sender lists.
func (s *SettingsService) AddSender(ctx context.Context, list model.SenderList, userID int64, value string) (string, error) {
	entry, err := NormalizeSenderEntry(value)
	if err != nil {
		return "", err
	}
	if err := s.lists.Add(ctx, list, userID, entry); err != nil {
		return "", fmt.Errorf("failed to add %s entry: %w", list, err)
	}
	return entry, nil
}

func (s *SettingsService) RemoveSender(ctx context.Context, list model.SenderList, userID int64, value string) error {
	entry := strings.ToLower(strings.TrimSpace(value))
	if err := s.lists.Remove(ctx, list, userID, entry); err != nil {
		return fmt.Errorf("failed to remove %s entry: %w", list, err)
	}
	return nil
}

func (s *SettingsService) ListSenders(ctx context.Context, list model.SenderList, userID int64) ([]string, error) {
	entries, err := s.lists.List(ctx, list, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", list, err)
	}
	return entryValues(entries), nil
}

func (s *SettingsService) NotificationSettings(ctx context.Context, userID int64) (model.NotificationSettings, error) {
	return s.settings.GetNotificationSettings(ctx, userID)
}

// SetPushMode validates and stores the push mode, keeping the other settings.
func (s *SettingsService) SetPushMode(ctx context.Context, userID int64, mode string) error {
	m, err := model.ParsePushMode(mode)
	if err != nil {
		return err
	}
	return s.updateNotifications(ctx, userID, func(n *model.NotificationSettings) { n.PushMode = m })
}

func (s *SettingsService) SetExclusions(ctx context.Context, userID int64, spam, promotions bool) error {
	return s.updateNotifications(ctx, userID, func(n *model.NotificationSettings) {
		n.ExcludeSpam = spam
		n.ExcludePromotions = promotions
	})
}

func (s *SettingsService) PrivacySettings(ctx context.Context, userID int64) (model.PrivacySettings, error) {
	return s.settings.GetPrivacySettings(ctx, userID)
}

// SetGlobalAutoDelete sets the fallback auto-delete; zero disables it.
func (s *SettingsService) SetGlobalAutoDelete(ctx context.Context, userID int64, secs int) error {
	if secs < 0 {
		return fmt.Errorf("auto-delete must not be negative: %d", secs)
	}
	err := s.settings.SavePrivacySettings(ctx, model.PrivacySettings{UserID: userID, GlobalAutoDeleteSecs: secs})
	if err != nil {
		return fmt.Errorf("failed to save privacy settings: %w", err)
	}
	return nil
}

// SetAccountAutoDelete overrides auto-delete for one of the user's accounts.
func (s *SettingsService) SetAccountAutoDelete(ctx context.Context, userID int64, accountID uuid.UUID, secs int) error {
	account, err := s.creds.activeAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if account.UserID != userID {
		return fmt.Errorf("account %s: %w", accountID, model.ErrNotFound)
	}
	return s.creds.SetAutoDelete(ctx, accountID, secs)
}

func (s *SettingsService) updateNotifications(ctx context.Context, userID int64, apply func(*model.NotificationSettings)) error {
	current, err := s.settings.GetNotificationSettings(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get notification settings: %w", err)
	}
	current.UserID = userID
	apply(&current)

	if err := s.settings.SaveNotificationSettings(ctx, current); err != nil {
		return fmt.Errorf("failed to save notification settings: %w", err)
	}
	return nil
}

// NormalizeSenderEntry lower-cases value and checks it is either an address
// or an "@domain.tld" pattern. Display-name forms are reduced to the address.
func NormalizeSenderEntry(value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if strings.HasPrefix(v, "@") {
		domain := v[1:]
		if domain == "" || strings.ContainsAny(domain, "@ ") || !strings.Contains(domain, ".") {
			return "", fmt.Errorf("%w: %q", model.ErrInvalidSenderEntry, value)
		}
		return v, nil
	}

	addr, err := mail.ParseAddress(v)
	if err != nil {
		return "", fmt.Errorf("%w: %q", model.ErrInvalidSenderEntry, value)
	}
	return strings.ToLower(addr.Address), nil
}
