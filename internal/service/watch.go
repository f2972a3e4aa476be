package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/autoxmail-server/internal/gmail"
	"github.com/dtroode/autoxmail-server/internal/logger"
	"github.com/dtroode/autoxmail-server/internal/model"
)

// RenewReport summarises a RenewAll run.
type RenewReport struct {
	Renewed int
	Skipped int
	Failed  int
}

// WatchService keeps Gmail push subscriptions alive. Gmail expires a watch
// after seven days, so it has to be renewed periodically.
type WatchService struct {
	accounts model.AccountStore
	clients  ClientProvider
	topic    string
	logger   *logger.Logger
}

func NewWatchService(accounts model.AccountStore, clients ClientProvider, topic string, logger *logger.Logger) *WatchService {
	return &WatchService{
		accounts: accounts,
		clients:  clients,
		topic:    topic,
		logger:   logger,
	}
}

// Enabled reports whether a Pub/Sub topic is configured.
func (s *WatchService) Enabled() bool {
	return s.topic != ""
}

// Start subscribes a freshly connected account and seeds its history cursor.
func (s *WatchService) Start(ctx context.Context, account model.Account, api gmail.API) error {
	if !s.Enabled() {
		return nil
	}

	resp, err := api.Watch(ctx, s.topic, []string{gmail.LabelInbox})
	if err != nil {
		return fmt.Errorf("failed to start watch: %w", err)
	}
	if err := s.accounts.AdvanceHistoryCursor(ctx, account.ID, resp.HistoryID); err != nil {
		return fmt.Errorf("failed to seed history cursor: %w", err)
	}

	s.logger.Info("WatchService: watch started", "account_id", account.ID, "history_id", resp.HistoryID, "expiration", resp.Expiration)
	return nil
}

// Stop unsubscribes the account.
func (s *WatchService) Stop(ctx context.Context, account model.Account) error {
	if !s.Enabled() {
		return nil
	}

	api, err := s.clients.Client(ctx, account.ID)
	if err != nil {
		return err
	}
	if err := api.StopWatch(ctx); err != nil {
		return fmt.Errorf("failed to stop watch: %w", err)
	}
	return nil
}

// RenewAll renews the watch of every active account. Failures are per account.
func (s *WatchService) RenewAll(ctx context.Context) (RenewReport, error) {
	var report RenewReport
	if !s.Enabled() {
		return report, nil
	}

	accounts, err := s.accounts.ListActive(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list accounts: %w", err)
	}

	for _, account := range accounts {
		if account.ReauthRequired {
			report.Skipped++
			continue
		}

		err := s.renew(ctx, account)
		switch {
		case err == nil:
			report.Renewed++
		case errors.Is(err, model.ErrReauthorizationRequired):
			report.Skipped++
			s.logger.Warn("WatchService: account needs reauthorization", "account_id", account.ID)
		default:
			report.Failed++
			s.logger.Error("WatchService: failed to renew watch", "account_id", account.ID, "error", err.Error())
		}
	}

	s.logger.Info("WatchService: renewal finished", "renewed", report.Renewed, "skipped", report.Skipped, "failed", report.Failed)
	return report, nil
}

// Run renews all watches every interval until ctx is done.
func (s *WatchService) Run(ctx context.Context, interval time.Duration) {
	if !s.Enabled() || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RenewAll(ctx); err != nil {
				s.logger.Error("WatchService: renewal run failed", "error", err.Error())
			}
		}
	}
}

func (s *WatchService) renew(ctx context.Context, account model.Account) error {
	api, err := s.clients.Client(ctx, account.ID)
	if err != nil {
		return err
	}
	_, err = api.Watch(ctx, s.topic, []string{gmail.LabelInbox})
	return err
}
