package middleware

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"GoldPulse/internal/domain/models"
	domrepo "GoldPulse/internal/domain/repository"
)

var ErrInvalidDepth = errors.New("invalid depth")

// DepthProc is the downstream the pipeline feeds.
type DepthProc interface {
	Process(ctx context.Context, symbol string, d models.Depth) error
}

// DepthPipeline sits between the depth feeds and the detector. It validates
// books, stamps missing times and throttles per symbol. Books are never
// buffered or replayed: the detector windows must see each book at most once.
type DepthPipeline struct {
	proc    DepthProc
	metrics domrepo.Metrics
	maxRPS  int

	mu       sync.Mutex
	lastSeen map[string]time.Time
	now      func() time.Time
}

type PipelineOption func(*DepthPipeline)

// WithMaxRPS caps accepted books per second per symbol. Zero disables throttling.
func WithMaxRPS(n int) PipelineOption {
	return func(p *DepthPipeline) {
		if n >= 0 {
			p.maxRPS = n
		}
	}
}

func withClock(now func() time.Time) PipelineOption {
	return func(p *DepthPipeline) { p.now = now }
}

func NewDepthPipeline(proc DepthProc, metrics domrepo.Metrics, opts ...PipelineOption) *DepthPipeline {
	p := &DepthPipeline{
		proc:     proc,
		metrics:  metrics,
		maxRPS:   10,
		lastSeen: make(map[string]time.Time),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process validates, throttles, and forwards one book.
func (p *DepthPipeline) Process(ctx context.Context, symbol string, d models.Depth) error {
	now := p.now()
	if err := validateDepth(symbol, d); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if d.Time.IsZero() {
		d.Time = now
	}
	if !p.allow(symbol, now) {
		p.metrics.RecordError("pipeline_throttle")
		return nil
	}
	if err := p.proc.Process(ctx, symbol, d); err != nil {
		p.metrics.RecordError("pipeline_process")
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	return nil
}

func validateDepth(symbol string, d models.Depth) error {
	if symbol == "" {
		return fmt.Errorf("%w: symbol empty", ErrInvalidDepth)
	}
	if len(d.Bids) == 0 || len(d.Asks) == 0 {
		return fmt.Errorf("%w: empty side", ErrInvalidDepth)
	}
	for _, side := range [][]models.DepthLevel{d.Bids, d.Asks} {
		for _, l := range side {
			if l.Price <= 0 || l.Qty < 0 {
				return fmt.Errorf("%w: level %.8f x %.8f", ErrInvalidDepth, l.Price, l.Qty)
			}
		}
	}
	return nil
}

func (p *DepthPipeline) allow(symbol string, now time.Time) bool {
	if p.maxRPS <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	last := p.lastSeen[symbol]
	if !last.IsZero() && now.Sub(last) < time.Second/time.Duration(p.maxRPS) {
		return false
	}
	p.lastSeen[symbol] = now
	return true
}
