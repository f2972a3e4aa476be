package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dtroode/autoxmail-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Ensure(ctx context.Context, id int64) error {
	const query = `INSERT INTO users (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`

	if _, err := r.db.conn(ctx).ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (model.User, error) {
	const query = `SELECT id, created_at FROM users WHERE id = $1`

	var u model.User
	err := r.db.conn(ctx).QueryRowContext(ctx, query, id).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, nil
}
