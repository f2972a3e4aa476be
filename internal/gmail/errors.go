package gmail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"

	"github.com/dtroode/autoxmail-server/internal/model"
)

// classify maps Gmail API failures onto the model error taxonomy.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	// Errors produced by our own token source pass through untouched.
	for _, sentinel := range []error{
		model.ErrReauthorizationRequired, model.ErrDecryption, model.ErrNotFound, model.ErrTransientProvider,
		context.Canceled, context.DeadlineExceeded,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == http.StatusNotFound:
			return fmt.Errorf("gmail %s: %w", op, model.ErrNotFound)
		case gerr.Code == http.StatusUnauthorized:
			return fmt.Errorf("gmail %s: %w", op, model.ErrReauthorizationRequired)
		case gerr.Code == http.StatusTooManyRequests, gerr.Code >= http.StatusInternalServerError:
			return fmt.Errorf("gmail %s: %w: %v", op, model.ErrTransientProvider, err)
		case gerr.Code == http.StatusForbidden && isRateLimited(gerr):
			return fmt.Errorf("gmail %s: %w: %v", op, model.ErrTransientProvider, err)
		}
		return fmt.Errorf("gmail %s: %w", op, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("gmail %s: %w: %v", op, model.ErrTransientProvider, err)
	}

	return fmt.Errorf("gmail %s: %w", op, err)
}

// classifyHistory treats an unknown start history id as an expired cursor.
func classifyHistory(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
		return fmt.Errorf("gmail list history: %w", model.ErrHistoryExpired)
	}
	return classify("list history", err)
}

func isRateLimited(gerr *googleapi.Error) bool {
	for _, item := range gerr.Errors {
		switch strings.ToLower(item.Reason) {
		case "ratelimitexceeded", "userratelimitexceeded", "quotaexceeded":
			return true
		}
	}
	return strings.Contains(strings.ToLower(gerr.Message), "quota exceeded")
}
