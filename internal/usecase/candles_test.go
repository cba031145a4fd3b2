package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldPulse/internal/domain/models"
	domrepo "GoldPulse/internal/domain/repository"
	"GoldPulse/internal/repository"
	"GoldPulse/pkg/metrics"
)

func TestSymbolResolverCurrentFallsBackToFirstCandidate(t *testing.T) {
	r := NewSymbolResolver(&fakeCandleSource{}, []string{"XAU/USD", "XAUUSD"})
	assert.Equal(t, "", r.Resolved())
	assert.Equal(t, "XAU/USD", r.Current())

	_, err := r.Resolve(context.Background())
	require.Error(t, err)
	assert.Equal(t, "XAU/USD", r.Current())
}

func TestCandleIngestUpsertsAndStampsSymbol(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	src := &fakeCandleSource{resolveTo: []string{"XAU/USD"}, candles: minuteCandles("", 5, start)}
	store := repository.NewMemoryCandleStore()
	job := NewCandleIngestJob(NewSymbolResolver(src, []string{"XAU/USD"}), src, store, metrics.Nop{}, "1min", 720)

	require.NoError(t, job.Run(context.Background()))
	require.NoError(t, job.Run(context.Background()))

	got, err := store.LatestCandles(context.Background(), "XAU/USD", "1min", 100)
	require.NoError(t, err)
	assert.Len(t, got, 5, "re-fetching the same window must not duplicate rows")
	assert.Equal(t, 1, src.resolves, "symbol is resolved once and cached")
}

func TestCandleIngestReResolvesAfterInvalidSymbol(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	src := &fakeCandleSource{
		resolveTo: []string{"XAUUSD", "XAU/USD"},
		fetchErr:  map[string]error{"XAUUSD": fmt.Errorf("vendor: %w", domrepo.ErrInvalidSymbol)},
		candles:   minuteCandles("", 3, start),
	}
	store := repository.NewMemoryCandleStore()
	resolver := NewSymbolResolver(src, []string{"XAUUSD", "XAU/USD"})
	job := NewCandleIngestJob(resolver, src, store, metrics.Nop{}, "1min", 720)

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, "", resolver.Resolved())

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, "XAU/USD", resolver.Resolved())
	assert.Equal(t, []string{"XAUUSD", "XAU/USD"}, src.fetched)
	assert.Equal(t, 2, src.resolves)

	got, _ := store.LatestCandles(context.Background(), "XAU/USD", "1min", 10)
	assert.Len(t, got, 3)
}

func TestCandleIngestSurfacesOtherErrors(t *testing.T) {
	src := &fakeCandleSource{
		resolveTo: []string{"XAU/USD"},
		fetchErr:  map[string]error{"XAU/USD": errors.New("502 bad gateway")},
	}
	resolver := NewSymbolResolver(src, []string{"XAU/USD"})
	job := NewCandleIngestJob(resolver, src, repository.NewMemoryCandleStore(), metrics.Nop{}, "1min", 720)

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, "XAU/USD", resolver.Resolved(), "transient errors keep the symbol")
}

func TestCatalystPollKeepsLastGoodOnFailure(t *testing.T) {
	store := &staticCatalysts{news: []models.NewsItem{{Title: "old"}}}
	job := NewNewsPollJob(failingNews{}, store, metrics.Nop{})

	require.Error(t, job.Run(context.Background()))
	assert.Equal(t, "old", store.news[0].Title)

	ok := NewNewsPollJob(staticNews{{Title: "Gold rallies"}}, store, metrics.Nop{})
	require.NoError(t, ok.Run(context.Background()))
	assert.Equal(t, "Gold rallies", store.news[0].Title)
}

type failingNews struct{}

func (failingNews) FetchNews(context.Context) ([]models.NewsItem, error) {
	return nil, errors.New("timeout")
}

type staticNews []models.NewsItem

func (s staticNews) FetchNews(context.Context) ([]models.NewsItem, error) { return s, nil }
