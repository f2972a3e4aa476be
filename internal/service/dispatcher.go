package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dtroode/autoxmail-server/internal/logger"
	"github.com/dtroode/autoxmail-server/internal/model"
)

const deleteTimeout = 10 * time.Second

type timerKey struct {
	chatID    int64
	messageID int64
}

// Dispatcher delivers decisions to Telegram and removes them again once
// their auto-delete deadline passes.
type Dispatcher struct {
	notifier model.Notifier
	logger   *logger.Logger
	now      func() time.Time

	mu      sync.Mutex
	timers  map[timerKey]*time.Timer
	stopped bool
}

func NewDispatcher(notifier model.Notifier, logger *logger.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		timers:   make(map[timerKey]*time.Timer),
	}
}

// Dispatch sends every decision to the owning user's chat. A failed send is
// logged and does not stop the remaining ones.
func (d *Dispatcher) Dispatch(ctx context.Context, decisions []model.NotificationDecision) {
	for _, dec := range decisions {
		messageID, err := d.notifier.SendMessage(ctx, dec.UserID, FormatNotification(dec))
		if err != nil {
			d.logger.Error("Dispatcher: failed to send notification",
				"user_id", dec.UserID, "account_id", dec.AccountID, "message_id", dec.MessageID, "error", err.Error())
			continue
		}
		if !dec.DeleteAt.IsZero() {
			d.schedule(dec.UserID, messageID, dec.DeleteAt.Sub(d.now()))
		}
	}
}

// Pending returns the number of scheduled deletions.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Stop cancels every pending deletion. Later Dispatch calls still send but
// schedule nothing.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}

func (d *Dispatcher) schedule(chatID, messageID int64, after time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	key := timerKey{chatID: chatID, messageID: messageID}
	d.timers[key] = time.AfterFunc(max(after, 0), func() {
		d.mu.Lock()
		delete(d.timers, key)
		d.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
		defer cancel()

		// The user may have deleted the message already.
		if err := d.notifier.DeleteMessage(ctx, chatID, messageID); err != nil {
			d.logger.Debug("Dispatcher: auto-delete failed", "chat_id", chatID, "message_id", messageID, "error", err.Error())
		}
	})
}

// FormatNotification renders a decision as plain text.
func FormatNotification(dec model.NotificationDecision) string {
	var b strings.Builder

	if dec.VIP {
		b.WriteString("[VIP] ")
	}
	fmt.Fprintf(&b, "New mail in %s\n", dec.AccountEmail)
	if dec.From != "" {
		fmt.Fprintf(&b, "From: %s\n", dec.From)
	}
	if dec.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", dec.Subject)
	}
	if dec.OTP != "" {
		fmt.Fprintf(&b, "Code: %s\n", dec.OTP)
	}
	if dec.Snippet != "" {
		b.WriteString("\n")
		b.WriteString(dec.Snippet)
	}

	return strings.TrimRight(b.String(), "\n")
}
