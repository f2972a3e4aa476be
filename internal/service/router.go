package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/autoxmail-server/internal/filter"
	"github.com/dtroode/autoxmail-server/internal/gmail"
	"github.com/dtroode/autoxmail-server/internal/logger"
	"github.com/dtroode/autoxmail-server/internal/model"
)

// PushRouter turns Gmail push notifications into notification decisions.
type PushRouter struct {
	accounts model.AccountStore
	settings model.SettingsStore
	lists    model.SenderListStore
	clients  ClientProvider
	retry    RetryPolicy
	logger   *logger.Logger
	now      func() time.Time
	parse    func(*gmail.RawMessage) (*gmail.Message, error)
}

func NewPushRouter(
	accounts model.AccountStore,
	settings model.SettingsStore,
	lists model.SenderListStore,
	clients ClientProvider,
	retry RetryPolicy,
	logger *logger.Logger,
) *PushRouter {
	return &PushRouter{
		accounts: accounts,
		settings: settings,
		lists:    lists,
		clients:  clients,
		retry:    retry,
		logger:   logger,
		now:      time.Now,
		parse:    gmail.ParseMessage,
	}
}

// HandleEvent never fails: push delivery is best effort, so every error is
// logged and the affected account is skipped with its cursor untouched.
func (r *PushRouter) HandleEvent(ctx context.Context, raw []byte) []model.NotificationDecision {
	n, err := gmail.DecodeNotification(raw)
	if err != nil {
		r.logger.Warn("PushRouter: discarding malformed event", "error", err.Error())
		return nil
	}

	accounts, err := r.accounts.ListActiveByEmail(ctx, n.EmailAddress)
	if err != nil {
		r.logger.Error("PushRouter: failed to resolve accounts", "email", n.EmailAddress, "error", err.Error())
		return nil
	}
	if len(accounts) == 0 {
		r.logger.Debug("PushRouter: no active account for event", "email", n.EmailAddress)
		return nil
	}

	var decisions []model.NotificationDecision
	for _, account := range accounts {
		out, err := r.handleAccount(ctx, account, n.HistoryID)
		if err != nil {
			r.logAccountError(account, n.HistoryID, err)
			continue
		}
		decisions = append(decisions, out...)
	}
	return decisions
}

func (r *PushRouter) handleAccount(ctx context.Context, account model.Account, historyID uint64) ([]model.NotificationDecision, error) {
	if account.HasCursor() && historyID <= *account.LastHistoryID {
		r.logger.Debug("PushRouter: duplicate event", "account_id", account.ID, "history_id", historyID)
		return nil, nil
	}

	api, err := r.clients.Client(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	rules, privacy, err := r.loadRules(ctx, account.UserID)
	if err != nil {
		return nil, err
	}

	cursor := historyID
	var ids []string
	if account.HasCursor() {
		var maxSeen uint64
		ids, maxSeen, err = r.collectHistory(ctx, api, *account.LastHistoryID)
		if errors.Is(err, model.ErrHistoryExpired) {
			r.logger.Info("PushRouter: history cursor expired, resyncing", "account_id", account.ID)
			ids, err = r.latestInbox(ctx, api)
		}
		cursor = max(cursor, maxSeen)
	} else {
		ids, err = r.latestInbox(ctx, api)
	}
	if err != nil {
		return nil, err
	}

	var decisions []model.NotificationDecision
	for _, id := range ids {
		msg, err := r.fetch(ctx, api, id)
		if errors.Is(err, model.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		verdict := filter.Evaluate(candidate(msg), rules)
		if !verdict.Notify {
			continue
		}

		decisions = append(decisions, model.NotificationDecision{
			UserID:       account.UserID,
			AccountID:    account.ID,
			AccountEmail: account.Email,
			MessageID:    msg.ID,
			From:         msg.From,
			Subject:      msg.Subject,
			Snippet:      msg.Snippet,
			OTP:          verdict.OTP,
			VIP:          verdict.VIP,
			Reason:       verdict.Reason,
			DeleteAt:     filter.DeleteDeadline(r.now(), account.AutoDeleteSecs, privacy.GlobalAutoDeleteSecs),
		})
	}

	// Only now is the whole batch processed; a failure above leaves the cursor
	// where it was so the next event covers these messages again.
	if err := r.accounts.AdvanceHistoryCursor(ctx, account.ID, cursor); err != nil {
		r.logger.Error("PushRouter: failed to advance history cursor", "account_id", account.ID, "history_id", cursor, "error", err.Error())
	}

	return decisions, nil
}

// collectHistory pages through history and returns de-duplicated added message
// ids in order together with the highest history record id seen.
func (r *PushRouter) collectHistory(ctx context.Context, api gmail.API, start uint64) ([]string, uint64, error) {
	var (
		ids       []string
		seen      = make(map[string]struct{})
		maxSeen   uint64
		pageToken string
	)
	for {
		var resp *gmail.HistoryResponse
		err := retryTransient(ctx, r.retry, func(ctx context.Context) error {
			var err error
			resp, err = api.ListHistory(ctx, start, pageToken)
			return err
		})
		if err != nil {
			return nil, 0, err
		}

		for _, h := range resp.History {
			maxSeen = max(maxSeen, h.ID)
			for _, m := range h.MessagesAdded {
				if _, dup := seen[m.ID]; dup {
					continue
				}
				seen[m.ID] = struct{}{}
				ids = append(ids, m.ID)
			}
		}

		if resp.NextPageToken == "" {
			return ids, maxSeen, nil
		}
		pageToken = resp.NextPageToken
	}
}

// latestInbox is the resync path: the newest inbox message is the only candidate.
func (r *PushRouter) latestInbox(ctx context.Context, api gmail.API) ([]string, error) {
	var refs []gmail.MessageID
	err := retryTransient(ctx, r.retry, func(ctx context.Context) error {
		var err error
		refs, err = api.ListMessages(ctx, []string{gmail.LabelInbox}, 1)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list latest inbox message: %w", err)
	}
	if len(refs) == 0 {
		return nil, nil
	}
	return []string{refs[0].ID}, nil
}

// fetch falls back to the message metadata when the MIME payload cannot be
// parsed, so the mail is still evaluated on its labels and snippet.
func (r *PushRouter) fetch(ctx context.Context, api gmail.API, id string) (*gmail.Message, error) {
	var raw *gmail.RawMessage
	err := retryTransient(ctx, r.retry, func(ctx context.Context) error {
		var err error
		raw, err = api.GetMessageRaw(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	msg, err := r.parse(raw)
	if err != nil {
		r.logger.Warn("PushRouter: unparseable message, using metadata", "message_id", id, "error", err.Error())
		return gmail.MetadataMessage(raw), nil
	}
	return msg, nil
}

func (r *PushRouter) loadRules(ctx context.Context, userID int64) (filter.Rules, model.PrivacySettings, error) {
	blocked, err := r.lists.List(ctx, model.SenderListBlock, userID)
	if err != nil {
		return filter.Rules{}, model.PrivacySettings{}, fmt.Errorf("failed to load blocklist: %w", err)
	}
	vip, err := r.lists.List(ctx, model.SenderListVIP, userID)
	if err != nil {
		return filter.Rules{}, model.PrivacySettings{}, fmt.Errorf("failed to load vip list: %w", err)
	}
	notifications, err := r.settings.GetNotificationSettings(ctx, userID)
	if err != nil {
		return filter.Rules{}, model.PrivacySettings{}, fmt.Errorf("failed to load notification settings: %w", err)
	}
	privacy, err := r.settings.GetPrivacySettings(ctx, userID)
	if err != nil {
		return filter.Rules{}, model.PrivacySettings{}, fmt.Errorf("failed to load privacy settings: %w", err)
	}

	return filter.Rules{
		Blocklist:     entryValues(blocked),
		VIP:           entryValues(vip),
		Notifications: notifications,
	}, privacy, nil
}

func (r *PushRouter) logAccountError(account model.Account, historyID uint64, err error) {
	args := []any{"account_id", account.ID, "history_id", historyID, "error", err.Error()}
	switch {
	case errors.Is(err, model.ErrReauthorizationRequired):
		r.logger.Warn("PushRouter: account needs reauthorization", args...)
	case errors.Is(err, model.ErrTransientProvider):
		r.logger.Warn("PushRouter: provider unavailable, event dropped", args...)
	default:
		r.logger.Error("PushRouter: failed to process event", args...)
	}
}

func candidate(msg *gmail.Message) filter.Candidate {
	from := msg.FromAddress
	if from == "" {
		from = msg.From
	}
	return filter.Candidate{
		From:     from,
		Subject:  msg.Subject,
		Snippet:  msg.Snippet,
		Text:     msg.Text,
		Spam:     msg.HasLabel(gmail.LabelSpam),
		Promo:    msg.HasLabel(gmail.LabelPromotions),
		Outgoing: !msg.HasLabel(gmail.LabelInbox) && (msg.HasLabel(gmail.LabelSent) || msg.HasLabel(gmail.LabelDraft)),
	}
}

func entryValues(entries []model.SenderEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Value)
	}
	return out
}
