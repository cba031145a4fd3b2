package engine

import (
	"fmt"
	"math"
	"strings"

	"GoldPulse/internal/domain/models"
	domsvc "GoldPulse/internal/domain/service"
)

// Engine scores a FeatureSet into a directional decision.
type Engine struct {
	s Settings
}

func New(s Settings) *Engine {
	return &Engine{s: s}
}

func (e *Engine) Settings() Settings { return e.s }

func (e *Engine) Decide(fs models.FeatureSet) models.Decision {
	t := e.s.Thresholds
	reg, mkt, cat := fs.Regime, fs.Market, fs.Catalysts
	atr, rsi := mkt.ATR, mkt.RSI

	var (
		score   int
		reasons []string
	)
	add := func(pts int, reason string) {
		score += pts
		reasons = append(reasons, reason)
	}

	switch reg.Trend {
	case models.TrendUp, models.TrendDown:
		add(t.TrendPoints, fmt.Sprintf("Trend %s (EMA stack)", reg.Trend))
	default:
		add(t.MixedTrendPoints, "Mixed trend (lower conviction)")
	}

	switch {
	case rsi >= t.RSIBull:
		add(t.RSIPoints, fmt.Sprintf("RSI bullish (%.1f)", rsi))
	case rsi <= t.RSIBear:
		add(t.RSIPoints, fmt.Sprintf("RSI bearish (%.1f)", rsi))
	default:
		add(t.RSINeutralPoints, fmt.Sprintf("RSI neutral (%.1f)", rsi))
	}

	var near20, near50 bool
	if atr > 0 {
		near20 = math.Abs(reg.Last-reg.EMA20) <= t.NearEMA20ATR*atr
		near50 = math.Abs(reg.Last-reg.EMA50) <= t.NearEMA50ATR*atr
	}
	switch {
	case near20:
		add(t.EMA20Points, "Pullback near EMA20")
	case near50:
		add(t.EMA50Points, "Pullback near EMA50")
	default:
		add(t.NoZonePoints, "Not at a preferred pullback zone")
	}

	if cat.NewsScore >= t.NewsMin {
		add(t.CatalystPoints, "High-relevance global news catalyst")
	}
	if cat.MacroScore >= t.MacroMin {
		add(t.CatalystPoints, "Macro-event relevance elevated")
	}
	if fs.Flow.Score >= t.FlowMin {
		add(t.CatalystPoints, fmt.Sprintf("Flow proxy active (%s)", strings.Join(fs.Flow.Notes, ", ")))
	}

	switch cat.Bias {
	case models.BiasBull:
		add(t.BiasPoints, "Catalyst bias: BULL (gold supportive)")
	case models.BiasBear:
		add(t.BiasPoints, "Catalyst bias: BEAR (gold headwind)")
	}

	confidence := score
	if confidence > 100 {
		confidence = 100
	}
	if confidence < 0 {
		confidence = 0
	}

	dir := models.NoTrade
	switch {
	case reg.Trend == models.TrendUp && rsi >= t.LongRSIMin && cat.Bias != models.BiasBear:
		dir = models.Long
	case reg.Trend == models.TrendDown && rsi <= t.ShortRSIMax && cat.Bias != models.BiasBull:
		dir = models.Short
	}

	d := models.Decision{Direction: models.NoTrade, Confidence: confidence, Reasons: reasons}
	if dir == models.NoTrade || confidence < e.s.MinConfidence || atr <= 0 {
		return d
	}

	mid := reg.EMA50
	if near20 {
		mid = reg.EMA20
	}
	d.Direction = dir
	d.Risk = BuildRiskPlan(dir, mid, atr, e.s.SLATRMult, e.s.TP1R, e.s.TP2R)
	return d
}

var _ domsvc.DecisionEngine = (*Engine)(nil)
