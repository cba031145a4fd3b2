package alertgate

import (
	"math"
	"sync"
	"time"

	"GoldPulse/internal/domain/models"
)

const eps = 1e-12

// Reason explains why a gate check failed.
type Reason string

const (
	Passed   Reason = ""
	Cooldown Reason = "cooldown"
	Repeat   Reason = "novelty"
)

// TradeGate suppresses trade ideas that arrive too soon after the last one
// or repeat its direction at nearly the same entry.
type TradeGate struct {
	mu       sync.Mutex
	cooldown time.Duration
	frac     float64

	lastAt  time.Time
	lastDir models.Direction
	lastMid float64
}

// Snapshot is the gate's remembered last trade.
type Snapshot struct {
	LastAt    *time.Time       `json:"last_at"`
	Direction models.Direction `json:"direction,omitempty"`
	EntryMid  float64          `json:"entry_mid"`
}

func NewTradeGate(cooldown time.Duration, noveltyFrac float64) *TradeGate {
	return &TradeGate{cooldown: cooldown, frac: noveltyFrac}
}

// CooldownOK is checked first so a job can bail before fetching anything.
func (g *TradeGate) CooldownOK(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cooldownOK(now)
}

func (g *TradeGate) cooldownOK(now time.Time) bool {
	return g.lastAt.IsZero() || now.Sub(g.lastAt) >= g.cooldown
}

// Check applies both gates without recording anything.
func (g *TradeGate) Check(now time.Time, dir models.Direction, entryMid float64) Reason {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.cooldownOK(now) {
		return Cooldown
	}
	if g.lastAt.IsZero() || dir != g.lastDir {
		return Passed
	}
	if math.Abs(entryMid-g.lastMid)/math.Max(math.Abs(g.lastMid), eps) < g.frac {
		return Repeat
	}
	return Passed
}

// Record remembers a sent idea.
func (g *TradeGate) Record(now time.Time, dir models.Direction, entryMid float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastAt, g.lastDir, g.lastMid = now, dir, entryMid
}

func (g *TradeGate) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := Snapshot{Direction: g.lastDir, EntryMid: g.lastMid}
	if !g.lastAt.IsZero() {
		t := g.lastAt
		s.LastAt = &t
	}
	return s
}
