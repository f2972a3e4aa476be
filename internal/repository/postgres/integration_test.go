//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/autoxmail-server/internal/model"
	repo "github.com/dtroode/autoxmail-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "autoxmail_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/autoxmail_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestRepositories_Accounts(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	users := repo.NewUserRepository(conn)
	accounts := repo.NewAccountRepository(conn)

	require.NoError(t, users.Ensure(ctx, 42))
	require.NoError(t, users.Ensure(ctx, 42))

	saved, err := accounts.Create(ctx, model.Account{
		UserID:                42,
		Email:                 "Me@Example.com",
		CredentialsCiphertext: []byte("creds"),
		TokenCiphertext:       []byte("token"),
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, saved.ID)

	t.Run("duplicate active account", func(t *testing.T) {
		_, err := accounts.Create(ctx, model.Account{UserID: 42, Email: "me@example.com", CredentialsCiphertext: []byte("x")})
		require.ErrorIs(t, err, model.ErrAlreadyExists)
	})

	t.Run("cursor never moves backward", func(t *testing.T) {
		require.NoError(t, accounts.AdvanceHistoryCursor(ctx, saved.ID, 200))
		require.NoError(t, accounts.AdvanceHistoryCursor(ctx, saved.ID, 150))

		got, err := accounts.GetByID(ctx, saved.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastHistoryID)
		assert.Equal(t, uint64(200), *got.LastHistoryID)
	})

	t.Run("concurrent cursor updates keep the maximum", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := uint64(300); i < 320; i++ {
			wg.Add(1)
			go func(id uint64) {
				defer wg.Done()
				_ = accounts.AdvanceHistoryCursor(ctx, saved.ID, id)
			}(i)
		}
		wg.Wait()

		got, err := accounts.GetByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, uint64(319), *got.LastHistoryID)
	})

	t.Run("lookup by email is case insensitive", func(t *testing.T) {
		list, err := accounts.ListActiveByEmail(ctx, "ME@EXAMPLE.COM")
		require.NoError(t, err)
		require.Len(t, list, 1)
	})

	t.Run("row lock inside transaction", func(t *testing.T) {
		err := conn.WithinTx(ctx, func(ctx context.Context) error {
			a, err := accounts.GetByIDForUpdate(ctx, saved.ID)
			if err != nil {
				return err
			}
			return accounts.UpdateToken(ctx, a.ID, []byte("refreshed"))
		})
		require.NoError(t, err)

		got, err := accounts.GetByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, []byte("refreshed"), got.TokenCiphertext)
	})

	t.Run("deactivate then reconnect keeps cursor", func(t *testing.T) {
		require.NoError(t, accounts.Deactivate(ctx, saved.ID))
		require.ErrorIs(t, accounts.UpdateToken(ctx, saved.ID, []byte("x")), model.ErrNotFound)

		n, err := accounts.CountActiveByUser(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		again, err := accounts.Create(ctx, model.Account{UserID: 42, Email: "me@example.com", CredentialsCiphertext: []byte("c2"), TokenCiphertext: []byte("t2")})
		require.NoError(t, err)
		assert.Equal(t, saved.ID, again.ID)
		assert.True(t, again.Active)
		require.NotNil(t, again.LastHistoryID)
		assert.Equal(t, uint64(319), *again.LastHistoryID)
	})
}

func TestRepositories_SettingsAndSessions(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	t.Run("sender lists", func(t *testing.T) {
		lists := repo.NewSenderListRepository(conn)
		require.NoError(t, lists.Add(ctx, model.SenderListBlock, 7, "@Newsletter.com"))
		require.ErrorIs(t, lists.Add(ctx, model.SenderListBlock, 7, "@newsletter.com"), model.ErrAlreadyExists)
		require.NoError(t, lists.Add(ctx, model.SenderListVIP, 7, "@newsletter.com"))

		entries, err := lists.List(ctx, model.SenderListBlock, 7)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "@newsletter.com", entries[0].Value)

		require.NoError(t, lists.Remove(ctx, model.SenderListBlock, 7, "@newsletter.com"))
		require.ErrorIs(t, lists.Remove(ctx, model.SenderListBlock, 7, "@newsletter.com"), model.ErrNotFound)
	})

	t.Run("settings", func(t *testing.T) {
		settings := repo.NewSettingsRepository(conn)
		got, err := settings.GetNotificationSettings(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, model.DefaultNotificationSettings(7), got)

		require.NoError(t, settings.SaveNotificationSettings(ctx, model.NotificationSettings{UserID: 7, PushMode: model.PushModeOTP}))
		got, err = settings.GetNotificationSettings(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, model.PushModeOTP, got.PushMode)

		require.NoError(t, settings.SavePrivacySettings(ctx, model.PrivacySettings{UserID: 7, GlobalAutoDeleteSecs: 60}))
		p, err := settings.GetPrivacySettings(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, 60, p.GlobalAutoDeleteSecs)
	})

	t.Run("sessions", func(t *testing.T) {
		sessions := repo.NewSessionRepository(conn)
		s := model.OAuthSession{ID: uuid.New(), UserID: 7, CredentialsCiphertext: []byte("c"), ExpiresAt: time.Now().Add(time.Minute)}
		require.NoError(t, sessions.Create(ctx, s))

		got, err := sessions.GetByID(ctx, s.ID)
		require.NoError(t, err)
		assert.True(t, got.Usable(time.Now()))

		require.NoError(t, sessions.Consume(ctx, s.ID))
		require.ErrorIs(t, sessions.Consume(ctx, s.ID), model.ErrNotFound)

		n, err := sessions.DeleteExpired(ctx, time.Now())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(1))
	})
}
