package model

import (
	"context"
	"time"
)

// UserStore defines persistence operations for bot users.
type UserStore interface {
	// Ensure creates the user row on first contact and is a no-op afterwards.
	Ensure(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (User, error)
}

// User is a Telegram user; the id doubles as the private chat id.
type User struct {
	ID        int64
	CreatedAt time.Time
}
