package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/dtroode/autoxmail-server/internal/config"
	"github.com/dtroode/autoxmail-server/internal/envelope"
	"github.com/dtroode/autoxmail-server/internal/gmail"
	"github.com/dtroode/autoxmail-server/internal/logger"
	"github.com/dtroode/autoxmail-server/internal/oauth"
	"github.com/dtroode/autoxmail-server/internal/repository/postgres"
	"github.com/dtroode/autoxmail-server/internal/service"
	storage "github.com/dtroode/autoxmail-server/internal/storage/minio"
	"github.com/dtroode/autoxmail-server/internal/telegram"
	"github.com/dtroode/autoxmail-server/internal/token"
)

const outboundTimeout = 30 * time.Second

// app holds the wired services shared by the subcommands.
type app struct {
	db         *postgres.Connection
	sealer     *envelope.Sealer
	creds      *service.CredentialStore
	tokens     *service.TokenService
	watch      *service.WatchService
	push       *service.PushRouter
	connect    *service.ConnectService
	settings   *service.SettingsService
	dispatcher *service.Dispatcher       // nil without a bot token
	snapshots  *service.SnapshotService // nil without object storage
}

func newApp(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	keyring, err := cfg.Crypto.Keyring()
	if err != nil {
		return nil, err
	}
	params := envelope.KDFParams{
		Time:      cfg.Crypto.KDFTime,
		MemoryKiB: cfg.Crypto.KDFMemoryKiB,
		Threads:   cfg.Crypto.KDFThreads,
	}
	sealer, err := envelope.NewSealer(cfg.Crypto.KeyVersion, keyring, params)
	if err != nil {
		return nil, err
	}
	// User 0 is never a Telegram id; it scopes service-wide keys.
	stateKey, err := envelope.DeriveKey([]byte(cfg.Crypto.MasterKey), 0, envelope.PurposeOAuthState, params)
	if err != nil {
		return nil, err
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	accounts := postgres.NewAccountRepository(db)
	users := postgres.NewUserRepository(db)
	sessions := postgres.NewSessionRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)
	lists := postgres.NewSenderListRepository(db)

	httpClient := &http.Client{Timeout: outboundTimeout}
	provider := oauth.NewProvider(cfg.OAuth.RedirectURL, cfg.OAuth.Scopes, httpClient)
	newClient := func(ctx context.Context, ts oauth2.TokenSource) (gmail.API, error) {
		c, err := gmail.NewClient(ctx, ts)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	retry := service.RetryPolicy{Retries: cfg.Token.RefreshRetries, BaseDelay: cfg.Token.RetryBaseDelay}

	creds := service.NewCredentialStore(accounts, users, db, sealer, logger)
	tokens := service.NewTokenService(creds, accounts, db, provider, newClient, service.TokenConfig{
		ExpirySkew:      cfg.Token.ExpirySkew,
		Retry:           retry,
		ClientCacheSize: cfg.Gmail.ClientCacheSize,
	}, logger)
	watch := service.NewWatchService(accounts, tokens, cfg.Gmail.PubSubTopic, logger)

	a := &app{
		db:     db,
		sealer: sealer,
		creds:  creds,
		tokens: tokens,
		watch:  watch,
		push:   service.NewPushRouter(accounts, settingsRepo, lists, tokens, retry, logger),
		connect: service.NewConnectService(sessions, users, creds, sealer, provider,
			token.NewStateSigner(stateKey, cfg.OAuth.StateTTL), newClient, watch,
			service.ConnectConfig{MaxAccountsPerUser: cfg.Accounts.MaxPerUser, SessionTTL: cfg.OAuth.StateTTL}, logger),
		settings: service.NewSettingsService(settingsRepo, lists, creds, logger),
	}

	// Only serve delivers notifications; admin commands run without a bot token.
	if cfg.Telegram.BotToken != "" {
		notifier, err := telegram.NewClient(cfg.Telegram.APIURL, cfg.Telegram.BotToken, httpClient)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		a.dispatcher = service.NewDispatcher(notifier, logger)
	}

	if cfg.Storage.SnapshotsEnabled() {
		store, err := storage.Dial(ctx, cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.Bucket, cfg.Storage.UseSSL)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to initialize snapshot storage: %w", err)
		}
		a.snapshots = service.NewSnapshotService(accounts, store, logger)
		creds.SetSnapshotter(a.snapshots)
	}

	return a, nil
}

func (a *app) Close() error {
	if a.dispatcher != nil {
		a.dispatcher.Stop()
	}
	return a.db.Close()
}
