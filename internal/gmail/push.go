package gmail

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dtroode/autoxmail-server/internal/model"
)

// PushEnvelope is the Pub/Sub push request body.
type PushEnvelope struct {
	Message struct {
		Data        string `json:"data"`
		MessageID   string `json:"messageId"`
		PublishTime string `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// Notification is the Gmail payload carried in PushEnvelope.Message.Data.
type Notification struct {
	EmailAddress string
	HistoryID    uint64
}

type notificationJSON struct {
	EmailAddress string          `json:"emailAddress"`
	HistoryID    json.RawMessage `json:"historyId"`
}

// DecodeNotification parses a Pub/Sub push body into a Gmail notification.
// Every failure wraps model.ErrMalformedEvent.
func DecodeNotification(body []byte) (Notification, error) {
	var env PushEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Notification{}, fmt.Errorf("%w: envelope: %v", model.ErrMalformedEvent, err)
	}
	if env.Message.Data == "" {
		return Notification{}, fmt.Errorf("%w: empty message data", model.ErrMalformedEvent)
	}

	data, err := decodeData(env.Message.Data)
	if err != nil {
		return Notification{}, fmt.Errorf("%w: data: %v", model.ErrMalformedEvent, err)
	}

	var payload notificationJSON
	if err := json.Unmarshal(data, &payload); err != nil {
		return Notification{}, fmt.Errorf("%w: payload: %v", model.ErrMalformedEvent, err)
	}

	email := strings.ToLower(strings.TrimSpace(payload.EmailAddress))
	if email == "" {
		return Notification{}, fmt.Errorf("%w: missing emailAddress", model.ErrMalformedEvent)
	}

	historyID, err := parseHistoryID(payload.HistoryID)
	if err != nil {
		return Notification{}, fmt.Errorf("%w: historyId: %v", model.ErrMalformedEvent, err)
	}

	return Notification{EmailAddress: email, HistoryID: historyID}, nil
}

// decodeData accepts standard and URL-safe alphabets, padded or not.
func decodeData(s string) ([]byte, error) {
	s = strings.TrimRight(strings.TrimSpace(s), "=")
	if strings.ContainsAny(s, "-_") {
		return base64.RawURLEncoding.DecodeString(s)
	}
	return base64.RawStdEncoding.DecodeString(s)
}

// parseHistoryID accepts a JSON number or a numeric string.
func parseHistoryID(raw json.RawMessage) (uint64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, fmt.Errorf("missing")
	}
	s := string(raw)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return id, nil
}
