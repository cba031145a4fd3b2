package source

import (
	"context"
	"fmt"
	"time"

	drepo "GoldPulse/internal/domain/repository"
	xhttp "GoldPulse/pkg/http"
	"GoldPulse/pkg/metrics"
)

// Base is the shared foundation of every upstream client: one retrying
// HTTP client, a base URL and fetch metrics under the source's name.
type Base struct {
	name    string
	baseURL string
	client  *xhttp.Client
	metrics drepo.Metrics
}

type Option func(*Base)

func WithClient(c *xhttp.Client) Option {
	return func(b *Base) { b.client = c }
}

func WithMetrics(m drepo.Metrics) Option {
	return func(b *Base) {
		if m != nil {
			b.metrics = m
		}
	}
}

func NewBase(name, baseURL string, opts ...Option) *Base {
	b := &Base{name: name, baseURL: baseURL, metrics: metrics.Nop{}}
	for _, opt := range opts {
		opt(b)
	}
	if b.client == nil {
		b.client = xhttp.NewClient()
	}
	return b
}

func (b *Base) Name() string    { return b.name }
func (b *Base) BaseURL() string { return b.baseURL }

// Get fetches baseURL+path with the given query and returns the raw body.
func (b *Base) Get(ctx context.Context, path string, query map[string][]string) ([]byte, error) {
	if b.client == nil || b.baseURL == "" {
		return nil, fmt.Errorf("%s client not initialized", b.name)
	}
	start := time.Now()
	body, err := b.client.Do(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         b.baseURL + path,
		QueryParams: query,
	})
	b.metrics.RecordFetch(b.name, time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("get %s%s: %w", b.name, path, err)
	}
	return body, nil
}

// PostJSON sends payload as JSON and returns the raw body.
func (b *Base) PostJSON(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	if b.client == nil || b.baseURL == "" {
		return nil, fmt.Errorf("%s client not initialized", b.name)
	}
	start := time.Now()
	body, err := b.client.Do(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     b.baseURL + path,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    payload,
	})
	b.metrics.RecordFetch(b.name, time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("post %s%s: %w", b.name, path, err)
	}
	return body, nil
}
