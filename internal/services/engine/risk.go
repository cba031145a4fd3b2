package engine

import (
	"math"

	"GoldPulse/internal/domain/models"
)

const minRisk = 1e-12

// Entry-zone offsets as fractions of ATR. The zone leans toward the
// stop side: 0.30 ATR against the trade, 0.10 ATR with it.
const (
	zoneAdverse   = 0.30
	zoneFavorable = 0.10
)

// BuildRiskPlan turns a direction, entry midpoint and ATR into an entry zone,
// stop and two targets. It returns nil for NO_TRADE.
func BuildRiskPlan(dir models.Direction, entryMid, atr, slATRMult, tp1R, tp2R float64) *models.RiskPlan {
	var p models.RiskPlan
	switch dir {
	case models.Long:
		p.EntryLow = entryMid - zoneAdverse*atr
		p.EntryHigh = entryMid + zoneFavorable*atr
		p.StopLoss = p.EntryLow - slATRMult*atr
		risk := math.Max(entryMid-p.StopLoss, minRisk)
		p.TakeProfit1 = entryMid + tp1R*risk
		p.TakeProfit2 = entryMid + tp2R*risk
		p.RiskReward = (p.TakeProfit1 - entryMid) / risk
	case models.Short:
		p.EntryLow = entryMid - zoneFavorable*atr
		p.EntryHigh = entryMid + zoneAdverse*atr
		p.StopLoss = p.EntryHigh + slATRMult*atr
		risk := math.Max(p.StopLoss-entryMid, minRisk)
		p.TakeProfit1 = entryMid - tp1R*risk
		p.TakeProfit2 = entryMid - tp2R*risk
		p.RiskReward = (entryMid - p.TakeProfit1) / risk
	default:
		return nil
	}
	return &p
}
