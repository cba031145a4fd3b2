package gdelt

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"GoldPulse/internal/domain/models"
	drepo "GoldPulse/internal/domain/repository"
	"GoldPulse/internal/service/source"
	"GoldPulse/pkg/util"
)

const query = `(gold OR XAU OR bullion OR "safe haven") (Fed OR CPI OR inflation OR yields OR dollar OR geopolitical OR war OR sanctions)`

var (
	goldWords  = []string{"gold", "xau", "bullion", "safe haven"}
	macroWords = []string{"cpi", "pce", "fomc", "fed", "powell", "rates", "yields", "treasury", "inflation", "dollar"}
	geoWords   = []string{"geopolitical", "war", "sanctions", "attack", "conflict", "crisis"}
)

// Client pulls gold-related headlines from the GDELT doc API.
type Client struct {
	base         *source.Base
	maxItems     int
	relevanceMin float64
}

func New(baseURL string, maxItems int, relevanceMin float64, opts ...source.Option) *Client {
	return &Client{
		base:         source.NewBase("gdelt", strings.TrimRight(baseURL, "/"), opts...),
		maxItems:     maxItems,
		relevanceMin: relevanceMin,
	}
}

// FetchNews returns headlines sorted by relevance, dropping those below
// the configured minimum.
func (c *Client) FetchNews(ctx context.Context) ([]models.NewsItem, error) {
	body, err := c.base.Get(ctx, "/api/v2/doc/doc", map[string][]string{
		"query":      {query},
		"mode":       {"ArtList"},
		"format":     {"json"},
		"maxrecords": {strconv.Itoa(c.maxItems)},
		"sort":       {"HybridRel"},
	})
	if err != nil {
		return nil, err
	}

	var out []models.NewsItem
	gjson.GetBytes(body, "articles").ForEach(func(_, a gjson.Result) bool {
		title, url := a.Get("title").String(), a.Get("url").String()
		if title == "" || url == "" {
			return true
		}
		src := a.Get("sourceCountry").String()
		if src == "" {
			src = a.Get("sourceCollection").String()
		}
		if src == "" {
			src = "GDELT"
		}
		item := models.NewsItem{Title: title, URL: url, Source: src, Relevance: Relevance(title)}
		if ts, ok := util.ParseTime(a.Get("seendate").String()); ok {
			item.Published = ts
		}
		if item.Relevance >= c.relevanceMin {
			out = append(out, item)
		}
		return true
	})

	sort.SliceStable(out, func(i, j int) bool { return out[i].Relevance > out[j].Relevance })
	if c.maxItems > 0 && len(out) > c.maxItems {
		out = out[:c.maxItems]
	}
	return out, nil
}

// Relevance scores a headline for gold: 0.35 for a gold mention, 0.18 each
// for macro and geopolitical wording, capped at 1.
func Relevance(title string) float64 {
	t := strings.ToLower(title)
	score := 0.0
	if containsAny(t, goldWords) {
		score += 0.35
	}
	if containsAny(t, macroWords) {
		score += 0.18
	}
	if containsAny(t, geoWords) {
		score += 0.18
	}
	if score > 1 {
		score = 1
	}
	return score
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

var _ drepo.NewsSource = (*Client)(nil)
