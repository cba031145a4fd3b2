package tradingeconomics

import (
	"context"
	"strings"

	"github.com/tidwall/gjson"

	"GoldPulse/internal/domain/models"
	drepo "GoldPulse/internal/domain/repository"
	"GoldPulse/internal/service/source"
	"GoldPulse/pkg/util"
)

// Client reads the TradingEconomics economic calendar. Without a key it
// returns no events.
type Client struct {
	base     *source.Base
	apiKey   string
	maxItems int
}

func New(apiKey, baseURL string, maxItems int, opts ...source.Option) *Client {
	return &Client{
		base:     source.NewBase("tradingeconomics", strings.TrimRight(baseURL, "/"), opts...),
		apiKey:   apiKey,
		maxItems: maxItems,
	}
}

func (c *Client) FetchMacro(ctx context.Context) ([]models.MacroEvent, error) {
	if c.apiKey == "" {
		return nil, nil
	}
	body, err := c.base.Get(ctx, "/calendar", map[string][]string{
		"c":      {c.apiKey},
		"format": {"json"},
	})
	if err != nil {
		return nil, err
	}

	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, nil
	}
	var out []models.MacroEvent
	root.ForEach(func(_, e gjson.Result) bool {
		if c.maxItems > 0 && len(out) >= c.maxItems {
			return false
		}
		ev := models.MacroEvent{
			Title:      field(e, "Event"),
			Country:    field(e, "Country"),
			Importance: int(e.Get("Importance").Int()),
			Actual:     field(e, "Actual"),
			Forecast:   field(e, "Forecast"),
			Previous:   field(e, "Previous"),
		}
		if ev.Importance == 0 {
			ev.Importance = int(e.Get("importance").Int())
		}
		if ts, ok := util.ParseTime(field(e, "Date")); ok {
			ev.Time = ts
		}
		out = append(out, ev)
		return true
	})
	return out, nil
}

// field reads a key in its capitalized form, falling back to lower case.
func field(e gjson.Result, key string) string {
	if v := e.Get(key); v.Exists() && v.Type != gjson.Null {
		return v.String()
	}
	v := e.Get(strings.ToLower(key))
	if v.Type == gjson.Null {
		return ""
	}
	return v.String()
}

var _ drepo.MacroSource = (*Client)(nil)
