package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldPulse/internal/domain/models"
	mid "GoldPulse/internal/middleware"
	"GoldPulse/internal/repository"
	"GoldPulse/internal/services/orderbook"
	"GoldPulse/pkg/metrics"
)

func wallBook(ts time.Time) models.Depth {
	return models.Depth{
		Bids: []models.DepthLevel{{Price: 1999.5, Qty: 100}},
		Asks: []models.DepthLevel{{Price: 2000.5, Qty: 10}},
		Time: ts,
	}
}

func newMonitor(t *testing.T, books ...models.Depth) (*OrderBookMonitorJob, *repository.MemoryAlertStore, *recordingDeliverer) {
	t.Helper()
	s := orderbook.DefaultSettings()
	s.MinSamples = 3
	s.ConfirmWindow = 1
	s.ConfirmHits = 1
	s.WallUSD = 100_000

	store := repository.NewMemoryAlertStore()
	deliverer := &recordingDeliverer{}
	proc := NewOrderBookProcessor("PAXGUSDT",
		orderbook.DepthConfig{Band: 0.0025, WallUSD: 100_000},
		orderbook.NewDetector("PAXGUSDT", s),
		repository.NewStorePublisher(store), deliverer, metrics.Nop{})
	pipe := mid.NewDepthPipeline(proc, metrics.Nop{}, mid.WithMaxRPS(0))
	job := NewOrderBookMonitorJob(&fakeDepthSource{books: books}, nil, proc, pipe, 100, metrics.Nop{})
	return job, store, deliverer
}

func TestOrderBookMonitorAlertsOnceThenCoolsDown(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	job, store, deliverer := newMonitor(t, wallBook(ts), wallBook(ts.Add(time.Second)))
	ctx := context.Background()

	require.NoError(t, job.Run(ctx))
	require.NoError(t, job.Run(ctx))

	recs, err := store.RecentAlerts(ctx, models.AlertKindOrderBook, 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "PAXGUSDT", recs[0].Symbol)

	got := deliverer.all()
	require.Len(t, got, 1)
	assert.Equal(t, recs[0].ID, got[0].EventID)
	assert.Contains(t, got[0].Text, "wall_present")

	st, ok := job.State("PAXGUSDT")
	require.True(t, ok)
	assert.Equal(t, 2, st.Samples)
	require.NotNil(t, st.LastAlertAt)
	assert.Equal(t, ts, *st.LastAlertAt)
	require.NotNil(t, st.Last)
	assert.Zero(t, st.Last.DeltaBidDepthUSD)
}

func TestOrderBookMonitorStateUnknownSymbol(t *testing.T) {
	job, _, _ := newMonitor(t)
	_, ok := job.State("BTCUSDT")
	assert.False(t, ok)
	assert.False(t, job.Streaming())
}

func TestOrderBookMonitorRejectsInvalidBook(t *testing.T) {
	job, store, _ := newMonitor(t, models.Depth{Bids: []models.DepthLevel{{Price: 1999, Qty: 1}}})
	err := job.Run(context.Background())
	assert.ErrorIs(t, err, mid.ErrInvalidDepth)

	recs, _ := store.RecentAlerts(context.Background(), models.AlertKindOrderBook, 10)
	assert.Empty(t, recs)
	st, _ := job.State("")
	assert.Equal(t, 0, st.Samples)
}

func TestOrderBookMonitorFetchError(t *testing.T) {
	job, _, _ := newMonitor(t)
	assert.Error(t, job.Run(context.Background()))
}
