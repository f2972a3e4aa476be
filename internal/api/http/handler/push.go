package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/dtroode/autoxmail-server/internal/logger"
	"github.com/dtroode/autoxmail-server/internal/model"
)

// maxPushBody caps a Pub/Sub push request. Gmail notifications are tiny.
const maxPushBody = 1 << 20

// PushProcessor turns a raw push body into notification decisions.
type PushProcessor interface {
	HandleEvent(ctx context.Context, raw []byte) []model.NotificationDecision
}

// NotificationDispatcher delivers decisions to users.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, decisions []model.NotificationDecision)
}

// Push handles the Pub/Sub push endpoint.
type Push struct {
	processor  PushProcessor
	dispatcher NotificationDispatcher
	logger     *logger.Logger
}

func NewPush(processor PushProcessor, dispatcher NotificationDispatcher, logger *logger.Logger) *Push {
	return &Push{
		processor:  processor,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// ServeHTTP always acknowledges. Pub/Sub redelivers anything that is not a
// 2xx, and a malformed event would only come back again.
func (h *Push) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPushBody))
	if err != nil {
		h.logger.Warn("Push handler: failed to read body", "error", err.Error())
		w.WriteHeader(http.StatusNoContent)
		return
	}

	// Pub/Sub may drop the connection once it times out; finish the batch anyway.
	ctx := context.WithoutCancel(r.Context())

	decisions := h.processor.HandleEvent(ctx, body)
	if len(decisions) > 0 {
		h.dispatcher.Dispatch(ctx, decisions)
	}

	h.logger.Debug("Push handler: event processed", "decisions", len(decisions))
	w.WriteHeader(http.StatusNoContent)
}
