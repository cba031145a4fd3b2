package orderbook

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"GoldPulse/internal/domain/models"
	domsvc "GoldPulse/internal/domain/service"
)

// State is a read-only view of a detector for diagnostics.
type State struct {
	Symbol        string                    `json:"symbol"`
	Samples       int                       `json:"samples"`
	WindowSize    int                       `json:"window_size"`
	LastAlertAt   *time.Time                `json:"last_alert_at"`
	LastSignature string                    `json:"last_signature"`
	LastZ         models.ZScores            `json:"last_z"`
	ConfirmCounts map[models.EventKind]int  `json:"confirm_counts"`
	Last          *models.OrderBookSnapshot `json:"last_snapshot"`
}

// Detector keeps rolling statistics and alert state for one symbol.
type Detector struct {
	mu sync.Mutex
	s  Settings

	symbol                string
	spread, imb, bid, ask *RollingWindow
	deltaBid, deltaAsk    *RollingWindow
	confirm               map[models.EventKind]*ConfirmBuffer
	lastAlertAt           time.Time
	lastSignature         string
	last                  *models.OrderBookSnapshot
	lastZ                 models.ZScores

	now   func() time.Time
	newID func() string
}

func NewDetector(symbol string, s Settings) *Detector {
	win := func() *RollingWindow { return NewRollingWindow(s.WindowSize, s.MinSamples) }
	d := &Detector{
		s:        s,
		symbol:   symbol,
		spread:   win(),
		imb:      win(),
		bid:      win(),
		ask:      win(),
		deltaBid: win(),
		deltaAsk: win(),
		confirm:  make(map[models.EventKind]*ConfirmBuffer, len(models.EventKinds)),
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
	for _, k := range models.EventKinds {
		d.confirm[k] = NewConfirmBuffer(s.ConfirmWindow, s.ConfirmHits)
	}
	return d
}

// Observe ingests one snapshot and returns an alert when one passes
// confirmation and gating, nil otherwise.
func (d *Detector) Observe(snap models.OrderBookSnapshot) *models.OrderBookAlert {
	d.mu.Lock()
	defer d.mu.Unlock()

	ts := snap.Time
	if ts.IsZero() {
		ts = d.now()
	}

	z := models.ZScores{
		Spread:    d.spread.Z(snap.SpreadBps),
		Imbalance: d.imb.Z(snap.Imbalance),
		BidDepth:  d.bid.Z(snap.BidDepthUSD),
		AskDepth:  d.ask.Z(snap.AskDepthUSD),
		DeltaBid:  d.deltaBid.Z(snap.DeltaBidDepthUSD),
		DeltaAsk:  d.deltaAsk.Z(snap.DeltaAskDepthUSD),
	}
	pullBid := math.Max(d.s.DeltaAbsUSD, d.s.DeltaStdK*d.deltaBid.Std())
	pullAsk := math.Max(d.s.DeltaAbsUSD, d.s.DeltaStdK*d.deltaAsk.Std())

	d.spread.Push(snap.SpreadBps)
	d.imb.Push(snap.Imbalance)
	d.bid.Push(snap.BidDepthUSD)
	d.ask.Push(snap.AskDepthUSD)
	d.deltaBid.Push(snap.DeltaBidDepthUSD)
	d.deltaAsk.Push(snap.DeltaAskDepthUSD)
	cp := snap
	d.last = &cp
	d.lastZ = z

	majorImb := math.Abs(z.Imbalance) >= d.s.MajorImbalanceZ
	flags := map[models.EventKind]bool{
		models.EventSpreadStress: z.Spread >= d.s.SpreadZ,
		// an extreme imbalance z counts as a shock even below the absolute floor
		models.EventImbalanceShock: majorImb || (math.Abs(snap.Imbalance) >= d.s.ImbalanceAbs && math.Abs(z.Imbalance) >= d.s.ImbalanceZ),
		models.EventDepthVacuum:    z.BidDepth <= d.s.VacuumZ || z.AskDepth <= d.s.VacuumZ,
		models.EventLiquidityPull:  snap.DeltaBidDepthUSD < -pullBid || snap.DeltaAskDepthUSD < -pullAsk,
		models.EventLiquidityAdd:   snap.DeltaBidDepthUSD > pullBid || snap.DeltaAskDepthUSD > pullAsk,
		models.EventWallPresent:    snap.TopWallSide != models.WallNone && snap.TopWallUSD >= d.s.WallUSD,
	}

	var (
		events    []models.EventKind
		confirmed bool
	)
	for _, k := range models.EventKinds {
		buf := d.confirm[k]
		buf.Push(flags[k])
		if flags[k] {
			events = append(events, k)
		}
		if buf.Confirmed() {
			confirmed = true
		}
	}

	major := (flags[models.EventDepthVacuum] && flags[models.EventSpreadStress]) || majorImb
	if len(events) == 0 || (!confirmed && !major) {
		return nil
	}

	sig := Signature(&snap, d.s.Buckets)
	if !major {
		if !d.lastAlertAt.IsZero() && ts.Sub(d.lastAlertAt) < d.s.Cooldown {
			return nil
		}
		if sig == d.lastSignature {
			return nil
		}
	}

	d.lastAlertAt = ts
	d.lastSignature = sig

	return &models.OrderBookAlert{
		EventID:   d.newID(),
		Symbol:    d.symbol,
		Time:      ts,
		Events:    events,
		Major:     major,
		Mid:       snap.Mid,
		SpreadBps: snap.SpreadBps,
		Imbalance: snap.Imbalance,
		ZScores:   z,
		Wall:      models.Wall{Side: snap.TopWallSide, USD: snap.TopWallUSD, Price: snap.TopWallPrice},
		Signature: sig,
	}
}

// State returns a copy of the detector's diagnostics.
func (d *Detector) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	st := State{
		Symbol:        d.symbol,
		Samples:       d.spread.Len(),
		WindowSize:    d.s.WindowSize,
		LastSignature: d.lastSignature,
		LastZ:         d.lastZ,
		ConfirmCounts: make(map[models.EventKind]int, len(d.confirm)),
	}
	if !d.lastAlertAt.IsZero() {
		t := d.lastAlertAt
		st.LastAlertAt = &t
	}
	if d.last != nil {
		cp := *d.last
		st.Last = &cp
	}
	for k, b := range d.confirm {
		st.ConfirmCounts[k] = b.Count()
	}
	return st
}

func (d *Detector) Symbol() string { return d.symbol }

// LastZ returns the z-scores of the most recent snapshot.
func (d *Detector) LastZ() models.ZScores {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastZ
}

var _ domsvc.OrderBookDetector = (*Detector)(nil)
