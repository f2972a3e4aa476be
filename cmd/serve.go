package main

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtroode/autoxmail-server/internal/api/http/router"
	httpserver "github.com/dtroode/autoxmail-server/internal/api/http/server"
	"github.com/dtroode/autoxmail-server/internal/model"
	"github.com/dtroode/autoxmail-server/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the push webhook and OAuth callback server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if cfg.Telegram.BotToken == "" {
		log.Fatal("failed to start", "error", fmt.Errorf("%w: TELEGRAM_BOT_TOKEN is not set", model.ErrConfiguration).Error())
	}

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to initialize", "error", err.Error())
	}
	defer a.Close()

	if !a.watch.Enabled() {
		log.Warn("GMAIL_PUBSUB_TOPIC is not set, push notifications are disabled")
	}

	handler := router.New(a.push, a.dispatcher, a.connect, a.db, cfg.Gmail.WebhookSecret, log).Register()
	httpServer := httpserver.NewHTTPServer(handler, cfg.HTTP.Address, cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout)
	sl := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		log.Info("Starting server on", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			log.Error("failed to start server", "error", err.Error())
			stop()
		}
	}(httpServer)

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.watch.Run(ctx, cfg.Gmail.WatchRenewInterval)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		purgeSessions(ctx, a, cfg.OAuth.StateTTL)
	}()

	logAppVersion()

	<-ctx.Done()
	log.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		log.Error("error during server shutdown", "error", err.Error(), "address", httpServer.Address())
	}

	wg.Wait()
	if n := a.dispatcher.Pending(); n > 0 {
		log.Warn("cancelling pending auto-deletes", "count", n)
	}
	log.Info("shutdown complete")
	return nil
}

// purgeSessions drops abandoned connect flows once per session lifetime.
func purgeSessions(ctx context.Context, a *app, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := a.connect.PurgeSessions(ctx); err != nil {
				log.Error("failed to purge sessions", "error", err.Error())
			}
		}
	}
}
