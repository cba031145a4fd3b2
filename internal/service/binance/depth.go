package binance

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"GoldPulse/internal/domain/models"
	drepo "GoldPulse/internal/domain/repository"
	"GoldPulse/internal/service/source"
)

// Client reads order book depth from the Binance spot REST API.
type Client struct {
	base *source.Base
	now  func() time.Time
}

func New(restURL string, opts ...source.Option) *Client {
	return &Client{base: source.NewBase("binance", strings.TrimRight(restURL, "/"), opts...), now: time.Now}
}

// ClampLimit bounds a depth limit to what the API accepts.
func ClampLimit(limit int) int {
	if limit < 5 {
		return 5
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}

func (c *Client) FetchDepth(ctx context.Context, symbol string, limit int) (models.Depth, error) {
	body, err := c.base.Get(ctx, "/api/v3/depth", map[string][]string{
		"symbol": {strings.ToUpper(symbol)},
		"limit":  {strconv.Itoa(ClampLimit(limit))},
	})
	if err != nil {
		return models.Depth{}, err
	}
	d := ParseDepth(body)
	d.Time = c.now().UTC()
	return d, nil
}

// ParseDepth reads {bids:[[p,q]], asks:[[p,q]]}; unparseable rows are skipped.
func ParseDepth(body []byte) models.Depth {
	res := gjson.GetManyBytes(body, "bids", "asks")
	return models.Depth{Bids: levels(res[0]), Asks: levels(res[1])}
}

func levels(side gjson.Result) []models.DepthLevel {
	rows := side.Array()
	out := make([]models.DepthLevel, 0, len(rows))
	for _, r := range rows {
		pair := r.Array()
		if len(pair) < 2 {
			continue
		}
		p, err1 := strconv.ParseFloat(pair[0].String(), 64)
		q, err2 := strconv.ParseFloat(pair[1].String(), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, models.DepthLevel{Price: p, Qty: q})
	}
	return out
}

var _ drepo.DepthSource = (*Client)(nil)
