package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	gmailv1 "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const me = "me"

var _ API = (*Client)(nil)

// Client implements API on top of google.golang.org/api/gmail/v1.
type Client struct {
	svc *gmailv1.Service
}

// NewClient creates a Client authorised by ts. Extra options are appended,
// which lets tests point the client at an httptest server.
func NewClient(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*Client, error) {
	all := append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)
	svc, err := gmailv1.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return &Client{svc: svc}, nil
}

func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	p, err := c.svc.Users.GetProfile(me).Context(ctx).Do()
	if err != nil {
		return nil, classify("get profile", err)
	}
	return &Profile{
		EmailAddress:  p.EmailAddress,
		MessagesTotal: p.MessagesTotal,
		HistoryID:     p.HistoryId,
	}, nil
}

func (c *Client) ListHistory(ctx context.Context, startHistoryID uint64, pageToken string) (*HistoryResponse, error) {
	call := c.svc.Users.History.List(me).
		StartHistoryId(startHistoryID).
		HistoryTypes("messageAdded").
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, classifyHistory(err)
	}

	out := &HistoryResponse{
		NextPageToken: resp.NextPageToken,
		HistoryID:     resp.HistoryId,
	}
	for _, h := range resp.History {
		rec := HistoryRecord{ID: h.Id}
		for _, added := range h.MessagesAdded {
			if added.Message == nil {
				continue
			}
			rec.MessagesAdded = append(rec.MessagesAdded, MessageID{ID: added.Message.Id, ThreadID: added.Message.ThreadId})
		}
		out.History = append(out.History, rec)
	}
	return out, nil
}

func (c *Client) ListMessages(ctx context.Context, labelIDs []string, maxResults int64) ([]MessageID, error) {
	resp, err := c.svc.Users.Messages.List(me).
		LabelIds(labelIDs...).
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify("list messages", err)
	}

	ids := make([]MessageID, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, MessageID{ID: m.Id, ThreadID: m.ThreadId})
	}
	return ids, nil
}

func (c *Client) GetMessageRaw(ctx context.Context, messageID string) (*RawMessage, error) {
	m, err := c.svc.Users.Messages.Get(me, messageID).Format("raw").Context(ctx).Do()
	if err != nil {
		return nil, classify("get message", err)
	}

	raw, err := decodeRaw(m.Raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode message %s: %w", messageID, err)
	}

	return &RawMessage{
		ID:           m.Id,
		ThreadID:     m.ThreadId,
		LabelIDs:     m.LabelIds,
		Snippet:      m.Snippet,
		HistoryID:    m.HistoryId,
		InternalDate: m.InternalDate,
		Raw:          raw,
	}, nil
}

func (c *Client) Watch(ctx context.Context, topic string, labelIDs []string) (*WatchResponse, error) {
	resp, err := c.svc.Users.Watch(me, &gmailv1.WatchRequest{
		TopicName:           topic,
		LabelIds:            labelIDs,
		LabelFilterBehavior: "include",
	}).Context(ctx).Do()
	if err != nil {
		return nil, classify("watch", err)
	}
	return &WatchResponse{
		HistoryID:  resp.HistoryId,
		Expiration: time.UnixMilli(resp.Expiration),
	}, nil
}

func (c *Client) StopWatch(ctx context.Context) error {
	if err := c.svc.Users.Stop(me).Context(ctx).Do(); err != nil {
		return classify("stop watch", err)
	}
	return nil
}

// decodeRaw accepts both padded and unpadded base64url, as Gmail is not consistent.
func decodeRaw(s string) ([]byte, error) {
	if strings.HasSuffix(s, "=") {
		return base64.URLEncoding.DecodeString(s)
	}
	return base64.RawURLEncoding.DecodeString(s)
}
