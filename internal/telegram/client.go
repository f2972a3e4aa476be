// Package telegram sends and deletes chat messages through the Bot API.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/dtroode/autoxmail-server/internal/model"
)

const (
	defaultAPIURL = "https://api.telegram.org"
	redacted      = "<redacted>"
)

var _ model.Notifier = (*Client)(nil)

// Client implements model.Notifier on top of go-telegram/bot.
type Client struct {
	bot   *bot.Bot
	token string
}

// NewClient creates a client for the bot identified by token.
// An empty apiURL targets the public Bot API. No request is made until the
// first message is sent.
func NewClient(apiURL, token string, httpClient *http.Client) (*Client, error) {
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	b, err := bot.New(token,
		bot.WithServerURL(strings.TrimRight(apiURL, "/")),
		bot.WithHTTPClient(time.Minute, httpClient),
		bot.WithSkipGetMe(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Client{bot: b, token: token}, nil
}

// SendMessage posts plain text to chatID and returns the new message id.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) (int64, error) {
	disabled := true
	msg, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:             chatID,
		Text:               text,
		LinkPreviewOptions: &models.LinkPreviewOptions{IsDisabled: &disabled},
	})
	if err != nil {
		return 0, c.wrap("sendMessage", err)
	}
	return int64(msg.ID), nil
}

// DeleteMessage removes a message previously sent by the bot.
func (c *Client) DeleteMessage(ctx context.Context, chatID int64, messageID int64) error {
	_, err := c.bot.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: int(messageID),
	})
	if err != nil {
		return c.wrap("deleteMessage", err)
	}
	return nil
}

// wrap keeps the bot token out of error text. Transport errors quote the
// request URL, and the token is part of its path.
func (c *Client) wrap(method string, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("failed to call %s: %w", method, urlErr.Err)
	}
	if c.token != "" && strings.Contains(err.Error(), c.token) {
		return fmt.Errorf("failed to call %s: %s", method, strings.ReplaceAll(err.Error(), c.token, redacted))
	}
	return fmt.Errorf("failed to call %s: %w", method, err)
}
