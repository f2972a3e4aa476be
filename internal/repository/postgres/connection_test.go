package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnection_WithinTx(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		conn, mock := newMockConnection(t)
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO users`).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := conn.WithinTx(context.Background(), func(ctx context.Context) error {
			return NewUserRepository(conn).Ensure(ctx, 1)
		})
		require.NoError(t, err)
	})

	t.Run("rollback on error", func(t *testing.T) {
		conn, mock := newMockConnection(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := conn.WithinTx(context.Background(), func(ctx context.Context) error {
			return assert.AnError
		})
		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("rollback on panic", func(t *testing.T) {
		conn, mock := newMockConnection(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.Panics(t, func() {
			_ = conn.WithinTx(context.Background(), func(ctx context.Context) error {
				panic("boom")
			})
		})
	})

	t.Run("nested joins outer", func(t *testing.T) {
		conn, mock := newMockConnection(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		calls := 0
		err := conn.WithinTx(context.Background(), func(ctx context.Context) error {
			return conn.WithinTx(ctx, func(ctx context.Context) error {
				calls++
				return nil
			})
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("begin fails", func(t *testing.T) {
		conn, mock := newMockConnection(t)
		mock.ExpectBegin().WillReturnError(assert.AnError)

		err := conn.WithinTx(context.Background(), func(ctx context.Context) error { return nil })
		require.ErrorIs(t, err, assert.AnError)
	})
}

func TestConnection_Ping(t *testing.T) {
	require.Error(t, (&Connection{}).Ping(context.Background()))
	require.NoError(t, (&Connection{}).Close())
}
