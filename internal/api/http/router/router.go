package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/autoxmail-server/internal/api/http/handler"
	"github.com/dtroode/autoxmail-server/internal/api/http/middleware"
	"github.com/dtroode/autoxmail-server/internal/logger"
)

// Router wires the webhook, OAuth callback and health endpoints.
type Router struct {
	processor     handler.PushProcessor
	dispatcher    handler.NotificationDispatcher
	completer     handler.ConnectCompleter
	health        handler.HealthChecker
	webhookSecret string
	logger        *logger.Logger
}

// New creates a Router.
func New(
	processor handler.PushProcessor,
	dispatcher handler.NotificationDispatcher,
	completer handler.ConnectCompleter,
	health handler.HealthChecker,
	webhookSecret string,
	logger *logger.Logger,
) *Router {
	return &Router{
		processor:     processor,
		dispatcher:    dispatcher,
		completer:     completer,
		health:        health,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// Register builds the handler tree with request logging and panic recovery.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	secret := middleware.NewWebhookSecret(r.webhookSecret, r.logger)

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID, logging.Handle, chimw.Recoverer)

	mux.With(secret.Handle).Method(http.MethodPost, "/webhook/push", handler.NewPush(r.processor, r.dispatcher, r.logger))
	mux.Method(http.MethodGet, "/oauth/callback", handler.NewCallback(r.completer, r.logger))
	mux.Method(http.MethodGet, "/health", handler.NewHealth(r.health, r.logger))

	return mux
}
