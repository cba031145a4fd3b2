package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldPulse/internal/domain/models"
	"GoldPulse/internal/repository"
	pkgcache "GoldPulse/pkg/cache"
	"GoldPulse/pkg/logger"
	"GoldPulse/pkg/metrics"
	"GoldPulse/pkg/queue"
)

func payload(t *testing.T, d Delivery) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(d)
	require.NoError(t, err)
	return b
}

func TestDeliveryJobSendsOncePerEvent(t *testing.T) {
	n := &fakeNotifier{}
	job := NewDeliveryJob(n, pkgcache.NewMemoryCache(), metrics.Nop{})
	ctx := context.Background()
	d := Delivery{EventID: "ev-1", Kind: models.AlertKindOrderBook, Text: "hello"}

	require.NoError(t, job.Handle(ctx, payload(t, d)))
	require.NoError(t, job.Handle(ctx, payload(t, d)))
	assert.Equal(t, 1, n.count())
}

func TestDeliveryJobReleasesLockOnFailure(t *testing.T) {
	n := &fakeNotifier{err: errors.New("429 too many requests")}
	job := NewDeliveryJob(n, pkgcache.NewMemoryCache(), metrics.Nop{})
	ctx := context.Background()
	d := Delivery{EventID: "ev-2", Kind: models.AlertKindTrade, Text: "idea"}

	require.Error(t, job.Handle(ctx, payload(t, d)))
	n.err = nil
	require.NoError(t, job.Handle(ctx, payload(t, d)))
	assert.Equal(t, 1, n.count())
}

func TestDeliveryThroughMemoryQueue(t *testing.T) {
	n := &fakeNotifier{}
	job := NewDeliveryJob(n, pkgcache.NewMemoryCache(), metrics.Nop{})
	q := queue.NewMemoryQueue(logger.Nop(), &queue.QueueConfig{Workers: 1, RetryLimit: 1, RetryDelay: time.Millisecond}, job)
	require.NoError(t, q.Start())
	defer q.Stop(context.Background())

	deliverer := NewQueueDeliverer(q)
	require.NoError(t, deliverer.Deliver(context.Background(), Delivery{EventID: "ev-3", Text: "queued"}))
	require.Eventually(t, func() bool { return n.count() == 1 }, 2*time.Second, 5*time.Millisecond)
}

func TestNilQueueDelivererDrops(t *testing.T) {
	var d *QueueDeliverer
	assert.NoError(t, d.Deliver(context.Background(), Delivery{EventID: "x"}))
	assert.NoError(t, NewQueueDeliverer(nil).Deliver(context.Background(), Delivery{EventID: "x"}))
}

func TestAlertSinkPersistsBothKinds(t *testing.T) {
	store := repository.NewMemoryAlertStore()
	h := NewAlertSinkHandler("goldpulse.alerts", store, metrics.Nop{})
	ctx := context.Background()
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	trade, err := models.NewTradeIdeaEvent(models.TradeIdea{ID: "t-1", Symbol: "XAU/USD", Time: ts, Decision: longDecision(2000)})
	require.NoError(t, err)
	ob, err := models.NewOrderBookEvent(models.OrderBookAlert{EventID: "o-1", Symbol: "PAXGUSDT", Time: ts, Events: []models.EventKind{models.EventWallPresent}})
	require.NoError(t, err)

	for _, ev := range []models.AlertEvent{trade, ob, ob} {
		b, err := json.Marshal(ev)
		require.NoError(t, err)
		require.NoError(t, h.Handle(ctx, b))
	}

	trades, _ := store.RecentAlerts(ctx, models.AlertKindTrade, 10)
	books, _ := store.RecentAlerts(ctx, models.AlertKindOrderBook, 10)
	assert.Len(t, trades, 1)
	assert.Len(t, books, 1, "redelivered events dedupe on id")
	assert.Equal(t, "goldpulse.alerts", h.Topic())
}

func TestAlertSinkRejectsUnknownKind(t *testing.T) {
	h := NewAlertSinkHandler("t", repository.NewMemoryAlertStore(), metrics.Nop{})
	assert.Error(t, h.Handle(context.Background(), []byte(`{"kind":"chart","event_id":"x"}`)))
	assert.Error(t, h.Handle(context.Background(), []byte(`not json`)))
}
