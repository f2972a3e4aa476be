package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/autoxmail-server/internal/logger"
)

func TestLogging_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "implicit ok",
			handler:    func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) },
			wantStatus: http.StatusOK,
			wantMsg:    "HTTP request completed",
		},
		{
			name:       "client error",
			handler:    func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusGone) },
			wantStatus: http.StatusGone,
			wantMsg:    "HTTP request completed",
		},
		{
			name:       "server error",
			handler:    func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadGateway) },
			wantStatus: http.StatusBadGateway,
			wantMsg:    "HTTP request failed",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			lg := NewLogging(logger.NewWithWriter(&buf, 0))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/oauth/callback?code=secret-code", nil)
			lg.Handle(tt.handler).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			out := buf.String()
			assert.Contains(t, out, tt.wantMsg)
			assert.Contains(t, out, "path=/oauth/callback")
			assert.NotContains(t, out, "secret-code")
		})
	}
}
