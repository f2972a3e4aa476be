package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dtroode/autoxmail-server/internal/model"
)

var _ model.SettingsStore = (*SettingsRepository)(nil)

type SettingsRepository struct {
	db *Connection
}

func NewSettingsRepository(db *Connection) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) GetNotificationSettings(ctx context.Context, userID int64) (model.NotificationSettings, error) {
	const query = `
        SELECT push_mode, exclude_spam, exclude_promotions
        FROM notification_settings WHERE user_id = $1
    `

	s := model.NotificationSettings{UserID: userID}
	var mode string
	err := r.db.conn(ctx).QueryRowContext(ctx, query, userID).Scan(&mode, &s.ExcludeSpam, &s.ExcludePromotions)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.DefaultNotificationSettings(userID), nil
		}
		return model.NotificationSettings{}, fmt.Errorf("failed to get notification settings: %w", err)
	}

	s.PushMode, err = model.ParsePushMode(mode)
	if err != nil {
		// Rows written before a mode was renamed fall back to the default.
		s.PushMode = model.PushModeAll
	}
	return s, nil
}

func (r *SettingsRepository) SaveNotificationSettings(ctx context.Context, settings model.NotificationSettings) error {
	const query = `
        INSERT INTO notification_settings (user_id, push_mode, exclude_spam, exclude_promotions, updated_at)
        VALUES ($1, $2, $3, $4, NOW())
        ON CONFLICT (user_id) DO UPDATE SET
            push_mode = EXCLUDED.push_mode,
            exclude_spam = EXCLUDED.exclude_spam,
            exclude_promotions = EXCLUDED.exclude_promotions,
            updated_at = NOW()
    `

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		settings.UserID, string(settings.PushMode), settings.ExcludeSpam, settings.ExcludePromotions,
	)
	if err != nil {
		return fmt.Errorf("failed to save notification settings: %w", err)
	}
	return nil
}

func (r *SettingsRepository) GetPrivacySettings(ctx context.Context, userID int64) (model.PrivacySettings, error) {
	const query = `SELECT global_auto_delete_secs FROM privacy_settings WHERE user_id = $1`

	s := model.PrivacySettings{UserID: userID}
	err := r.db.conn(ctx).QueryRowContext(ctx, query, userID).Scan(&s.GlobalAutoDeleteSecs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s, nil
		}
		return model.PrivacySettings{}, fmt.Errorf("failed to get privacy settings: %w", err)
	}
	return s, nil
}

func (r *SettingsRepository) SavePrivacySettings(ctx context.Context, settings model.PrivacySettings) error {
	const query = `
        INSERT INTO privacy_settings (user_id, global_auto_delete_secs, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (user_id) DO UPDATE SET
            global_auto_delete_secs = EXCLUDED.global_auto_delete_secs,
            updated_at = NOW()
    `

	if _, err := r.db.conn(ctx).ExecContext(ctx, query, settings.UserID, settings.GlobalAutoDeleteSecs); err != nil {
		return fmt.Errorf("failed to save privacy settings: %w", err)
	}
	return nil
}
