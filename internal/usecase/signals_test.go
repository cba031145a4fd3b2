package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldPulse/internal/domain/models"
	"GoldPulse/internal/repository"
	"GoldPulse/internal/services/alertgate"
	"GoldPulse/pkg/metrics"
)

type signalHarness struct {
	job       *TradeSignalJob
	alerts    *repository.MemoryAlertStore
	deliverer *recordingDeliverer
	assembler *fakeAssembler
	engine    *fakeEngine
	clock     time.Time
}

func longDecision(mid float64) models.Decision {
	return models.Decision{
		Direction:  models.Long,
		Confidence: 85,
		Reasons:    []string{"Trend UP"},
		Risk: &models.RiskPlan{
			EntryLow: mid - 1, EntryHigh: mid + 1,
			StopLoss: mid - 5, TakeProfit1: mid + 7.5, TakeProfit2: mid + 12.5, RiskReward: 1.5,
		},
	}
}

func newSignalHarness(t *testing.T, bars int) *signalHarness {
	t.Helper()
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	candles := repository.NewMemoryCandleStore()
	_, err := candles.UpsertCandles(context.Background(), minuteCandles("XAU/USD", bars, start))
	require.NoError(t, err)

	h := &signalHarness{
		alerts:    repository.NewMemoryAlertStore(),
		deliverer: &recordingDeliverer{},
		assembler: &fakeAssembler{},
		engine:    &fakeEngine{d: longDecision(2000)},
		clock:     start.Add(time.Duration(bars) * time.Minute),
	}
	h.job = NewTradeSignalJob(SignalConfig{
		Interval: "1min", Lookback: 720, MinBars: 240, MacroSuppress: 0.60, Label: "Gold (XAU) / USD",
	}, SignalDeps{
		Resolver:  NewSymbolResolver(&fakeCandleSource{}, []string{"XAU/USD"}),
		Candles:   candles,
		Catalysts: &staticCatalysts{},
		Assembler: h.assembler,
		Engine:    h.engine,
		Gate:      alertgate.NewTradeGate(30*time.Minute, 0.0012),
		Publisher: repository.NewStorePublisher(h.alerts),
		Deliverer: h.deliverer,
		Metrics:   metrics.Nop{},
	})
	ids := 0
	h.job.now = func() time.Time { return h.clock }
	h.job.newID = func() string {
		ids++
		return fmt.Sprintf("idea-%d", ids)
	}
	return h
}

func (h *signalHarness) sent(t *testing.T) int {
	recs, err := h.alerts.RecentAlerts(context.Background(), models.AlertKindTrade, 100)
	require.NoError(t, err)
	return len(recs)
}

func TestTradeSignalSkipsShortHistory(t *testing.T) {
	h := newSignalHarness(t, 239)
	require.NoError(t, h.job.Run(context.Background()))
	assert.Equal(t, 0, h.assembler.calls)
	assert.Equal(t, 0, h.sent(t))
}

func TestTradeSignalMacroSuppression(t *testing.T) {
	h := newSignalHarness(t, 300)
	h.assembler.fs.Catalysts.MacroScore = 0.60
	require.NoError(t, h.job.Run(context.Background()))
	assert.Equal(t, 0, h.sent(t))
	assert.Nil(t, h.job.Gate().LastAt)
}

func TestTradeSignalNoTradeIsNotSent(t *testing.T) {
	h := newSignalHarness(t, 300)
	h.engine.d = models.Decision{Direction: models.NoTrade, Confidence: 40}
	require.NoError(t, h.job.Run(context.Background()))
	assert.Equal(t, 0, h.sent(t))
	assert.Empty(t, h.deliverer.all())
}

func TestTradeSignalCooldownAndNovelty(t *testing.T) {
	h := newSignalHarness(t, 300)
	ctx := context.Background()

	require.NoError(t, h.job.Run(ctx))
	require.Equal(t, 1, h.sent(t))
	got := h.deliverer.all()
	require.Len(t, got, 1)
	assert.Equal(t, "idea-1", got[0].EventID)
	assert.Equal(t, models.AlertKindTrade, got[0].Kind)
	assert.Contains(t, got[0].Text, "LONG")

	h.clock = h.clock.Add(10 * time.Minute)
	require.NoError(t, h.job.Run(ctx))
	assert.Equal(t, 1, h.sent(t), "inside cooldown")

	// Entry moves 0.05%, under the 0.12% novelty fraction.
	h.clock = h.clock.Add(30 * time.Minute)
	h.engine.d = longDecision(2001)
	require.NoError(t, h.job.Run(ctx))
	assert.Equal(t, 1, h.sent(t), "same direction at nearly the same entry")

	h.engine.d = longDecision(2010)
	require.NoError(t, h.job.Run(ctx))
	assert.Equal(t, 2, h.sent(t))

	snap := h.job.Gate()
	require.NotNil(t, snap.LastAt)
	assert.Equal(t, models.Long, snap.Direction)
	assert.InDelta(t, 2010, snap.EntryMid, 1e-9)
}

func TestTradeSignalOppositeDirectionBypassesNovelty(t *testing.T) {
	h := newSignalHarness(t, 300)
	ctx := context.Background()
	require.NoError(t, h.job.Run(ctx))

	h.clock = h.clock.Add(31 * time.Minute)
	short := longDecision(2000)
	short.Direction = models.Short
	h.engine.d = short
	require.NoError(t, h.job.Run(ctx))
	assert.Equal(t, 2, h.sent(t))
}

func TestTradeSignalDeliveryFailureStillHoldsTheGate(t *testing.T) {
	h := newSignalHarness(t, 300)
	ctx := context.Background()

	h.deliverer.err = fmt.Errorf("queue unavailable")
	require.Error(t, h.job.Run(ctx))
	assert.Equal(t, 1, h.sent(t), "the idea is persisted before delivery")

	h.deliverer.err = nil
	h.clock = h.clock.Add(time.Minute)
	require.NoError(t, h.job.Run(ctx))
	assert.Equal(t, 1, h.sent(t), "the persisted idea starts the cooldown")
	assert.Empty(t, h.deliverer.all())
}

func TestRunOnceHasNoSideEffects(t *testing.T) {
	h := newSignalHarness(t, 50)
	res, err := h.job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "XAU/USD", res.Symbol)
	assert.Equal(t, 50, res.Bars)
	assert.Equal(t, models.Long, res.Decision.Direction)
	assert.Equal(t, 0, h.sent(t))
	assert.Nil(t, h.job.Gate().LastAt)
}

func TestRunOnceWithoutCandles(t *testing.T) {
	h := newSignalHarness(t, 0)
	_, err := h.job.RunOnce(context.Background())
	assert.ErrorIs(t, err, ErrNoCandles)
}
