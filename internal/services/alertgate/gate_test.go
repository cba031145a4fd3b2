package alertgate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"GoldPulse/internal/domain/models"
)

func TestTradeGateFirstIdeaPasses(t *testing.T) {
	g := NewTradeGate(30*time.Minute, 0.0012)
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	assert.True(t, g.CooldownOK(now))
	assert.Equal(t, Passed, g.Check(now, models.Long, 2000))
	assert.Nil(t, g.Snapshot().LastAt)
}

func TestTradeGateCooldown(t *testing.T) {
	g := NewTradeGate(30*time.Minute, 0.0012)
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	g.Record(now, models.Long, 2000)

	assert.False(t, g.CooldownOK(now.Add(29*time.Minute)))
	assert.Equal(t, Cooldown, g.Check(now.Add(29*time.Minute), models.Short, 1900))
	assert.True(t, g.CooldownOK(now.Add(30*time.Minute)))
}

func TestTradeGateNovelty(t *testing.T) {
	g := NewTradeGate(30*time.Minute, 0.0012)
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	g.Record(now, models.Long, 2000)
	later := now.Add(time.Hour)

	// 2.0 / 2000 = 0.001 < 0.0012
	assert.Equal(t, Repeat, g.Check(later, models.Long, 2002))
	// 3.0 / 2000 = 0.0015
	assert.Equal(t, Passed, g.Check(later, models.Long, 2003))
	assert.Equal(t, Passed, g.Check(later, models.Short, 2000), "direction change is always novel")

	s := g.Snapshot()
	assert.Equal(t, models.Long, s.Direction)
	assert.Equal(t, 2000.0, s.EntryMid)
}
