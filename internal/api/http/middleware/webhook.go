package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/dtroode/autoxmail-server/internal/logger"
)

// ChannelTokenHeader carries the shared secret when it is not in the query.
const ChannelTokenHeader = "X-Goog-Channel-Token"

// WebhookSecret rejects push requests that do not present the shared secret.
type WebhookSecret struct {
	secret []byte
	logger *logger.Logger
}

// NewWebhookSecret creates the middleware. An empty secret disables the check.
func NewWebhookSecret(secret string, logger *logger.Logger) *WebhookSecret {
	return &WebhookSecret{secret: []byte(secret), logger: logger}
}

func (m *WebhookSecret) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(m.secret) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		presented := r.URL.Query().Get("token")
		if presented == "" {
			presented = r.Header.Get(ChannelTokenHeader)
		}

		if subtle.ConstantTimeCompare([]byte(presented), m.secret) != 1 {
			m.logger.Warn("WebhookSecret: rejected push request", "remote_addr", r.RemoteAddr)
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
