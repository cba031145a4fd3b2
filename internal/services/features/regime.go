package features

import (
	"math"

	"GoldPulse/internal/domain/models"
	"GoldPulse/pkg/util"
)

func (a *Assembler) regime(closes []float64, atrs []float64) models.Regime {
	e20 := EMA(closes, a.cfg.EMAFast)
	e50 := EMA(closes, a.cfg.EMAMid)
	e200 := EMA(closes, a.cfg.EMASlow)

	trend := models.TrendMixed
	switch {
	case e20 >= e50 && e50 >= e200:
		trend = models.TrendUp
	case e20 <= e50 && e50 <= e200:
		trend = models.TrendDown
	}

	atr := atrs[len(atrs)-1]
	med := util.Median(util.Tail(atrs, a.cfg.VolMedianWindow))
	vol := models.VolNormal
	switch {
	case atr > a.cfg.VolHighMult*med:
		vol = models.VolHigh
	case atr < a.cfg.VolLowMult*med:
		vol = models.VolLow
	}

	return models.Regime{
		Last:      closes[len(closes)-1],
		Trend:     trend,
		EMA20:     e20,
		EMA50:     e50,
		EMA200:    e200,
		ATR:       atr,
		VolRegime: vol,
	}
}

func (a *Assembler) market(candles []models.Candle, closes []float64, atrs []float64) models.Market {
	m := models.Market{RSI: 50}
	if len(candles) >= a.cfg.MinMomentumBars {
		m.RSI = RSI(closes, a.cfg.RSIPeriod)
		m.ATR = atrs[len(atrs)-1]
	}
	if len(candles) >= a.cfg.SwingMinBars {
		hi, lo := math.Inf(-1), math.Inf(1)
		for _, c := range util.Tail(candles, a.cfg.SwingLookback) {
			hi = math.Max(hi, c.High)
			lo = math.Min(lo, c.Low)
		}
		m.SwingHigh, m.SwingLow = &hi, &lo
	}
	return m
}
