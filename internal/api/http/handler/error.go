package handler

import (
	"errors"
	"net/http"

	"github.com/dtroode/autoxmail-server/internal/model"
)

// statusFor maps service errors to HTTP status codes and user-facing text.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrInvalidState), errors.Is(err, model.ErrCodeRejected):
		return http.StatusBadRequest, "The authorization link is invalid. Start again from the bot."
	case errors.Is(err, model.ErrSessionExpired):
		return http.StatusGone, "The authorization link has expired. Start again from the bot."
	case errors.Is(err, model.ErrAlreadyExists):
		return http.StatusConflict, "This mailbox is already connected."
	case errors.Is(err, model.ErrAccountLimit):
		return http.StatusConflict, "You have reached the maximum number of connected mailboxes."
	case errors.Is(err, model.ErrInvalidCredentials):
		return http.StatusBadRequest, "The uploaded client credentials are invalid."
	case errors.Is(err, model.ErrTransientProvider), errors.Is(err, model.ErrReauthorizationRequired):
		return http.StatusBadGateway, "Google did not accept the request. Please try again."
	default:
		return http.StatusInternalServerError, "Internal server error."
	}
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(text + "\n"))
}

func handleError(w http.ResponseWriter, err error) {
	status, text := statusFor(err)
	writeText(w, status, text)
}
