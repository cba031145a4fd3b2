package twelvedata

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"GoldPulse/internal/domain/models"
	drepo "GoldPulse/internal/domain/repository"
	"GoldPulse/internal/service/source"
	"GoldPulse/pkg/util"
)

var (
	ErrMissingAPIKey = errors.New("twelvedata: missing api key")
	ErrInvalidSymbol = fmt.Errorf("twelvedata: %w", drepo.ErrInvalidSymbol)
)

const probeBars = 10

// Client reads OHLC candles from the TwelveData REST API.
type Client struct {
	base   *source.Base
	apiKey string
}

func New(apiKey, baseURL string, opts ...source.Option) *Client {
	return &Client{base: source.NewBase("twelvedata", strings.TrimRight(baseURL, "/"), opts...), apiKey: apiKey}
}

// FetchCandles returns up to n candles in ascending time order.
func (c *Client) FetchCandles(ctx context.Context, symbol, interval string, n int) ([]models.Candle, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	body, err := c.base.Get(ctx, "/time_series", map[string][]string{
		"symbol":     {symbol},
		"interval":   {interval},
		"outputsize": {strconv.Itoa(n)},
		"apikey":     {c.apiKey},
		"format":     {"JSON"},
		"type":       {"candles"},
	})
	if err != nil {
		return nil, err
	}
	if err := statusError(body); err != nil {
		return nil, err
	}

	values := gjson.GetBytes(body, "values").Array()
	out := make([]models.Candle, 0, len(values))
	// newest first on the wire
	for i := len(values) - 1; i >= 0; i-- {
		row := values[i]
		ts, ok := util.ParseTime(row.Get("datetime").String())
		if !ok {
			continue
		}
		candle := models.Candle{
			Symbol:   symbol,
			Interval: interval,
			Time:     ts.UTC(),
			Open:     row.Get("open").Float(),
			High:     row.Get("high").Float(),
			Low:      row.Get("low").Float(),
			Close:    row.Get("close").Float(),
		}
		if v := row.Get("volume"); v.Exists() && v.String() != "" && v.String() != "null" {
			vol := v.Float()
			candle.Volume = &vol
		}
		out = append(out, candle)
	}
	return out, nil
}

// ResolveSymbol probes each candidate, then falls back to symbol search.
func (c *Client) ResolveSymbol(ctx context.Context, candidates []string) (string, error) {
	var lastErr error
	for _, s := range candidates {
		if _, err := c.FetchCandles(ctx, s, "1min", probeBars); err != nil {
			if errors.Is(err, ErrMissingAPIKey) {
				return "", err
			}
			lastErr = err
			continue
		}
		return s, nil
	}

	sym, err := c.search(ctx, "XAU")
	if err == nil && sym != "" {
		return sym, nil
	}
	if err != nil {
		lastErr = err
	}
	return "", fmt.Errorf("%w: could not resolve a gold symbol: %v", ErrInvalidSymbol, lastErr)
}

type scored struct {
	score  int
	symbol string
}

func (c *Client) search(ctx context.Context, query string) (string, error) {
	body, err := c.base.Get(ctx, "/symbol_search", map[string][]string{
		"symbol":     {query},
		"apikey":     {c.apiKey},
		"outputsize": {"50"},
	})
	if err != nil {
		return "", err
	}
	if err := statusError(body); err != nil {
		return "", err
	}

	var rows []scored
	gjson.GetBytes(body, "data").ForEach(func(_, r gjson.Result) bool {
		rows = append(rows, scored{score: scoreSymbol(r), symbol: r.Get("symbol").String()})
		return true
	})
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].score != rows[j].score {
			return rows[i].score > rows[j].score
		}
		return rows[i].symbol > rows[j].symbol
	})
	if len(rows) == 0 || rows[0].score <= 0 {
		return "", nil
	}
	return rows[0].symbol, nil
}

func scoreSymbol(r gjson.Result) int {
	sym := strings.ToLower(r.Get("symbol").String())
	name := strings.ToLower(r.Get("instrument_name").String())
	typ := strings.ToLower(r.Get("instrument_type").String())
	exch := strings.ToLower(r.Get("exchange").String())

	score := 0
	if strings.Contains(sym, "xau") {
		score += 3
	}
	if strings.Contains(sym, "usd") {
		score += 2
	}
	if strings.Contains(sym, "/") {
		score += 2
	}
	if strings.Contains(name, "gold") {
		score += 2
	}
	if strings.Contains(typ, "forex") || strings.Contains(typ, "fx") {
		score += 2
	}
	switch exch {
	case "forex", "oanda", "fx":
		score++
	}
	return score
}

func statusError(body []byte) error {
	if gjson.GetBytes(body, "status").String() != "error" {
		return nil
	}
	msg := gjson.GetBytes(body, "message").String()
	if msg == "" {
		msg = "twelvedata error"
	}
	low := strings.ToLower(msg)
	if strings.Contains(low, "symbol") && strings.Contains(low, "invalid") {
		return fmt.Errorf("%w: %s", ErrInvalidSymbol, msg)
	}
	return errors.New(msg)
}

var _ drepo.CandleSource = (*Client)(nil)
