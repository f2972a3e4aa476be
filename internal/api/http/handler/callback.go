package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dtroode/autoxmail-server/internal/logger"
	"github.com/dtroode/autoxmail-server/internal/model"
)

// ConnectCompleter finishes an OAuth connect flow.
type ConnectCompleter interface {
	Complete(ctx context.Context, state, code string) (model.Account, error)
}

// Callback handles Google's OAuth redirect.
type Callback struct {
	completer ConnectCompleter
	logger    *logger.Logger
}

func NewCallback(completer ConnectCompleter, logger *logger.Logger) *Callback {
	return &Callback{completer: completer, logger: logger}
}

func (h *Callback) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// The user pressed "Cancel" on the consent screen.
	if reason := q.Get("error"); reason != "" {
		h.logger.Info("Callback handler: consent denied", "reason", reason)
		writeText(w, http.StatusBadRequest, "Access was not granted. Start again from the bot.")
		return
	}

	account, err := h.completer.Complete(r.Context(), q.Get("state"), q.Get("code"))
	if err != nil {
		h.logger.Error("Callback handler: failed to complete connect flow", "error", err.Error())
		handleError(w, err)
		return
	}

	h.logger.Info("Callback handler: account connected", "account_id", account.ID, "user_id", account.UserID)
	writeText(w, http.StatusOK, fmt.Sprintf("Connected %s. You can return to Telegram.", account.Email))
}
