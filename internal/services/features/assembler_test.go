package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldPulse/internal/domain/models"
)

func flatCandles(n int, px float64) []models.Candle {
	t0 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, n)
	for i := range out {
		out[i] = models.Candle{
			Symbol: "XAU/USD", Interval: "1min", Time: t0.Add(time.Duration(i) * time.Minute),
			Open: px, High: px, Low: px, Close: px,
		}
	}
	return out
}

func trendingCandles(n int, start, step float64) []models.Candle {
	out := flatCandles(n, 0)
	for i := range out {
		c := start + float64(i)*step
		out[i].Open, out[i].Close = c-step/2, c
		out[i].High, out[i].Low = c+1, c-1
	}
	return out
}

func TestAssembleEmptyHistoryIsNeutral(t *testing.T) {
	a := New(Config{})
	var fs models.FeatureSet
	require.NotPanics(t, func() { fs = a.Assemble(nil, nil, nil) })

	assert.Equal(t, models.TrendRange, fs.Regime.Trend)
	assert.Equal(t, 50.0, fs.Market.RSI)
	assert.Equal(t, 0.0, fs.Market.ATR)
	assert.Nil(t, fs.Market.SwingHigh)
	assert.Equal(t, models.BiasNeutral, fs.Catalysts.Bias)
	assert.Equal(t, 0.0, fs.Flow.Score)
}

func TestAssembleFlatHistory(t *testing.T) {
	fs := New(DefaultConfig()).Assemble(flatCandles(300, 2000), nil, nil)

	assert.Equal(t, 2000.0, fs.Regime.Last)
	assert.Equal(t, models.TrendUp, fs.Regime.Trend, "equal EMAs satisfy the UP ordering")
	assert.Equal(t, 0.0, fs.Regime.ATR)
	assert.Equal(t, models.VolNormal, fs.Regime.VolRegime)
	assert.Equal(t, 50.0, fs.Market.RSI)
	require.NotNil(t, fs.Market.SwingHigh)
	assert.Equal(t, 2000.0, *fs.Market.SwingHigh)
	assert.Equal(t, 2000.0, *fs.Market.SwingLow)
	assert.Equal(t, 0.0, fs.Flow.Score)
	assert.Empty(t, fs.Flow.Notes)
}

func TestAssembleShortHistoryKeepsMomentumDefaults(t *testing.T) {
	fs := New(DefaultConfig()).Assemble(trendingCandles(15, 2000, 1), nil, nil)

	assert.Equal(t, 50.0, fs.Market.RSI)
	assert.Equal(t, 0.0, fs.Market.ATR)
	assert.Greater(t, fs.Regime.ATR, 0.0)
	require.NotNil(t, fs.Market.SwingHigh)
	assert.Equal(t, 2015.0, *fs.Market.SwingHigh)
	assert.Equal(t, 1999.0, *fs.Market.SwingLow)
	assert.Equal(t, []string{"insufficient history"}, fs.Flow.Notes)
}

func TestAssembleUptrend(t *testing.T) {
	fs := New(DefaultConfig()).Assemble(trendingCandles(300, 1900, 0.5), nil, nil)

	assert.Equal(t, models.TrendUp, fs.Regime.Trend)
	assert.Greater(t, fs.Regime.EMA20, fs.Regime.EMA50)
	assert.Greater(t, fs.Regime.EMA50, fs.Regime.EMA200)
	assert.Equal(t, 100.0, fs.Market.RSI)

	down := New(DefaultConfig()).Assemble(trendingCandles(300, 2100, -0.5), nil, nil)
	assert.Equal(t, models.TrendDown, down.Regime.Trend)
}

func TestCatalystScoring(t *testing.T) {
	a := New(DefaultConfig())
	news := []models.NewsItem{
		{Title: "Gold jumps as Safe Haven demand rises on geopolitical conflict"},
		{Title: "War fears lift bullion; war premium builds"},
		{Title: "Fed sounds hawkish"},
	}
	c := a.Catalysts(news, nil)

	// safe haven, geopolitical, conflict, war vs hawkish
	assert.Equal(t, models.BiasBull, c.Bias)
	assert.InDelta(t, 5.0/8.0, c.NewsScore, 1e-12)
	assert.Equal(t, 0.0, c.MacroScore)
	assert.Len(t, c.TopNews, 3)
}

func TestMacroScoreAndTopN(t *testing.T) {
	a := New(DefaultConfig())
	var macro []models.MacroEvent
	for _, title := range []string{"US CPI", "FOMC statement", "Powell speaks", "Retail sales", "GDP", "PMI", "Housing starts"} {
		macro = append(macro, models.MacroEvent{Title: title})
	}
	c := a.Catalysts(nil, macro)

	// CPI, FOMC, POWELL
	assert.InDelta(t, 0.3, c.MacroScore, 1e-12)
	assert.Len(t, c.MacroEvents, 6)
	assert.Equal(t, models.BiasNeutral, c.Bias)
	assert.NotNil(t, c.TopNews)
}

func TestFlowDetectsImpulse(t *testing.T) {
	candles := flatCandles(200, 2000)
	for i := range candles {
		// small alternating noise so the baseline std is non-zero
		d := 0.1
		if i%2 == 0 {
			d = -0.1
		}
		candles[i].Close = 2000 + d
		candles[i].High = candles[i].Close + 0.5
		candles[i].Low = candles[i].Close - 0.5
	}
	last := &candles[len(candles)-1]
	last.Close = 2030
	last.High = 2035
	last.Low = 2000

	f := New(DefaultConfig()).Flow(candles)
	assert.InDelta(t, 0.7, f.Score, 1e-12)
	require.Len(t, f.Notes, 2)
	assert.Contains(t, f.Notes[0], "impulse z=+")
	assert.Contains(t, f.Notes[1], "range expansion z=+")
}

func TestFlowInsufficientHistory(t *testing.T) {
	f := New(DefaultConfig()).Flow(flatCandles(119, 2000))
	assert.Equal(t, 0.0, f.Score)
	assert.Equal(t, []string{"insufficient history"}, f.Notes)
}
