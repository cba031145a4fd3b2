package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	drepo "GoldPulse/internal/domain/repository"
	"GoldPulse/internal/service/ratelimit"
	"GoldPulse/internal/service/source"
)

var ErrNotConfigured = errors.New("telegram: bot token or chat id missing")

// Client sends Markdown messages through the Bot API, rate limited per chat.
type Client struct {
	base    *source.Base
	token   string
	chatID  string
	limiter *ratelimit.Limiter
}

func New(baseURL, token, chatID string, limiter *ratelimit.Limiter, opts ...source.Option) *Client {
	return &Client{
		base:    source.NewBase("telegram", strings.TrimRight(baseURL, "/"), opts...),
		token:   token,
		chatID:  chatID,
		limiter: limiter,
	}
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

func (c *Client) Send(ctx context.Context, text string) error {
	if c.token == "" || c.chatID == "" {
		return ErrNotConfigured
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, c.chatID); err != nil {
			return fmt.Errorf("telegram rate limit: %w", err)
		}
	}
	body, err := c.base.PostJSON(ctx, "/bot"+c.token+"/sendMessage", sendMessageRequest{
		ChatID:                c.chatID,
		Text:                  text,
		ParseMode:             "Markdown",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return err
	}
	if !gjson.GetBytes(body, "ok").Bool() {
		return fmt.Errorf("telegram send: %s", gjson.GetBytes(body, "description").String())
	}
	return nil
}

var _ drepo.Notifier = (*Client)(nil)
