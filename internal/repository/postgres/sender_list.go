package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/dtroode/autoxmail-server/internal/model"
)

var _ model.SenderListStore = (*SenderListRepository)(nil)

type SenderListRepository struct {
	db *Connection
}

func NewSenderListRepository(db *Connection) *SenderListRepository {
	return &SenderListRepository{db: db}
}

// table maps a list to its table name; the names never come from user input.
func table(list model.SenderList) (string, error) {
	switch list {
	case model.SenderListBlock:
		return "blocklist", nil
	case model.SenderListVIP:
		return "vip_senders", nil
	default:
		return "", fmt.Errorf("unknown sender list %q", list)
	}
}

func (r *SenderListRepository) Add(ctx context.Context, list model.SenderList, userID int64, value string) error {
	t, err := table(list)
	if err != nil {
		return err
	}
	query := `INSERT INTO ` + t + ` (user_id, value, created_at) VALUES ($1, $2, NOW()) ON CONFLICT (user_id, value) DO NOTHING`

	res, err := r.db.conn(ctx).ExecContext(ctx, query, userID, strings.ToLower(value))
	if err != nil {
		return fmt.Errorf("failed to add %s entry: %w", t, err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrAlreadyExists
	}
	return nil
}

func (r *SenderListRepository) Remove(ctx context.Context, list model.SenderList, userID int64, value string) error {
	t, err := table(list)
	if err != nil {
		return err
	}
	query := `DELETE FROM ` + t + ` WHERE user_id = $1 AND value = $2`

	res, err := r.db.conn(ctx).ExecContext(ctx, query, userID, strings.ToLower(value))
	if err != nil {
		return fmt.Errorf("failed to remove %s entry: %w", t, err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *SenderListRepository) List(ctx context.Context, list model.SenderList, userID int64) ([]model.SenderEntry, error) {
	t, err := table(list)
	if err != nil {
		return nil, err
	}
	query := `SELECT user_id, value, created_at FROM ` + t + ` WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", t, err)
	}
	defer rows.Close()

	var entries []model.SenderEntry
	for rows.Next() {
		var e model.SenderEntry
		if err := rows.Scan(&e.UserID, &e.Value, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan %s entry: %w", t, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", t, err)
	}
	return entries, nil
}
