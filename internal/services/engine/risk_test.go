package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldPulse/internal/domain/models"
)

func TestBuildRiskPlanLong(t *testing.T) {
	p := BuildRiskPlan(models.Long, 2000, 10, 1.0, 1.5, 2.5)
	require.NotNil(t, p)

	assert.InDelta(t, 1997.0, p.EntryLow, 1e-9)
	assert.InDelta(t, 2001.0, p.EntryHigh, 1e-9)
	assert.InDelta(t, 1986.0, p.StopLoss, 1e-9)
	assert.InDelta(t, 2021.0, p.TakeProfit1, 1e-9)
	assert.InDelta(t, 2035.0, p.TakeProfit2, 1e-9)
	assert.InDelta(t, 1.5, p.RiskReward, 1e-9)
}

func TestBuildRiskPlanShortMirrors(t *testing.T) {
	p := BuildRiskPlan(models.Short, 2000, 10, 1.0, 1.5, 2.5)
	require.NotNil(t, p)

	assert.InDelta(t, 1999.0, p.EntryLow, 1e-9)
	assert.InDelta(t, 2003.0, p.EntryHigh, 1e-9)
	assert.InDelta(t, 2013.0, p.StopLoss, 1e-9)
	assert.InDelta(t, 1980.5, p.TakeProfit1, 1e-9)
	assert.InDelta(t, 1967.5, p.TakeProfit2, 1e-9)
	assert.InDelta(t, 1.5, p.RiskReward, 1e-9)
}

func TestBuildRiskPlanOrdering(t *testing.T) {
	for _, atr := range []float64{0.5, 3, 17.25} {
		l := BuildRiskPlan(models.Long, 1950, atr, 1.2, 1.5, 2.5)
		assert.Less(t, l.StopLoss, l.EntryLow)
		assert.Less(t, l.EntryLow, l.EntryHigh)
		assert.Less(t, l.EntryHigh, l.TakeProfit1)
		assert.Less(t, l.TakeProfit1, l.TakeProfit2)

		s := BuildRiskPlan(models.Short, 1950, atr, 1.2, 1.5, 2.5)
		assert.Greater(t, s.StopLoss, s.EntryHigh)
		assert.Greater(t, s.EntryHigh, s.EntryLow)
		assert.Greater(t, s.EntryLow, s.TakeProfit1)
		assert.Greater(t, s.TakeProfit1, s.TakeProfit2)
	}
}

func TestBuildRiskPlanDegenerateInputs(t *testing.T) {
	assert.Nil(t, BuildRiskPlan(models.NoTrade, 2000, 10, 1, 1.5, 2.5))

	p := BuildRiskPlan(models.Long, 2000, 0, 0, 1.5, 2.5)
	require.NotNil(t, p)
	assert.False(t, p.RiskReward != p.RiskReward, "risk reward must not be NaN")
}
