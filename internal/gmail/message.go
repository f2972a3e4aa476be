package gmail

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/jhillyerd/enmime"
)

// Message is the parsed subset of a mail the notification pipeline looks at.
type Message struct {
	ID          string
	LabelIDs    []string
	Snippet     string
	HistoryID   uint64
	From        string // raw From header
	FromAddress string // lower-cased address, empty if unparseable
	FromName    string
	Subject     string
	Text        string
}

// ParseMessage decodes the MIME payload of raw.
func ParseMessage(raw *RawMessage) (*Message, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw.Raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse message %s: %w", raw.ID, err)
	}

	msg := &Message{
		ID:        raw.ID,
		LabelIDs:  raw.LabelIDs,
		Snippet:   raw.Snippet,
		HistoryID: raw.HistoryID,
		From:      env.GetHeader("From"),
		Subject:   env.GetHeader("Subject"),
		Text:      env.Text,
	}

	// enmime tolerates malformed lists better than net/mail, but may still fail.
	if list, err := env.AddressList("From"); err == nil && len(list) > 0 {
		msg.FromAddress = strings.ToLower(strings.TrimSpace(list[0].Address))
		msg.FromName = list[0].Name
	}

	return msg, nil
}

// MetadataMessage builds a Message from the fields Gmail returns next to the
// MIME payload. It is used when the payload itself cannot be parsed.
func MetadataMessage(raw *RawMessage) *Message {
	return &Message{
		ID:        raw.ID,
		LabelIDs:  raw.LabelIDs,
		Snippet:   raw.Snippet,
		HistoryID: raw.HistoryID,
	}
}

// HasLabel reports whether the message carries label.
func (m *Message) HasLabel(label string) bool {
	return slices.Contains(m.LabelIDs, label)
}
