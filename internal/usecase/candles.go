package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"GoldPulse/internal/domain/models"
	domrepo "GoldPulse/internal/domain/repository"
	applogger "GoldPulse/pkg/logger"
)

var (
	errPanic          = errors.New("task panicked")
	ErrNoCandles      = errors.New("no candle data stored yet")
	ErrNoSymbolResult = errors.New("symbol resolution returned nothing")
)

// SymbolResolver caches the vendor symbol for gold.
type SymbolResolver struct {
	source     domrepo.CandleSource
	candidates []string

	mu       sync.RWMutex
	resolved string
}

func NewSymbolResolver(source domrepo.CandleSource, candidates []string) *SymbolResolver {
	return &SymbolResolver{source: source, candidates: candidates}
}

// Resolved is the cached symbol, empty until the first successful resolve.
func (r *SymbolResolver) Resolved() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolved
}

// Current prefers the resolved symbol and falls back to the first candidate.
func (r *SymbolResolver) Current() string {
	if s := r.Resolved(); s != "" {
		return s
	}
	if len(r.candidates) > 0 {
		return r.candidates[0]
	}
	return ""
}

func (r *SymbolResolver) Candidates() []string {
	return append([]string(nil), r.candidates...)
}

// Ensure resolves once and returns the cached value afterwards.
func (r *SymbolResolver) Ensure(ctx context.Context) (string, error) {
	if s := r.Resolved(); s != "" {
		return s, nil
	}
	return r.Resolve(ctx)
}

// Resolve always asks the vendor and replaces the cached symbol on success.
func (r *SymbolResolver) Resolve(ctx context.Context) (string, error) {
	s, err := r.source.ResolveSymbol(ctx, r.candidates)
	if err != nil {
		return "", fmt.Errorf("resolve symbol: %w", err)
	}
	if s == "" {
		return "", ErrNoSymbolResult
	}
	r.mu.Lock()
	r.resolved = s
	r.mu.Unlock()
	return s, nil
}

// Invalidate forces the next Ensure to resolve again.
func (r *SymbolResolver) Invalidate() {
	r.mu.Lock()
	r.resolved = ""
	r.mu.Unlock()
}

// CandleIngestJob pulls the latest candle window and upserts it.
type CandleIngestJob struct {
	resolver *SymbolResolver
	source   domrepo.CandleSource
	store    domrepo.CandleStore
	metrics  domrepo.Metrics
	logger   *applogger.Logger
	interval string
	lookback int
}

func NewCandleIngestJob(resolver *SymbolResolver, source domrepo.CandleSource, store domrepo.CandleStore, metrics domrepo.Metrics, interval string, lookback int) *CandleIngestJob {
	return &CandleIngestJob{
		resolver: resolver,
		source:   source,
		store:    store,
		metrics:  metrics,
		logger:   applogger.Nop(),
		interval: interval,
		lookback: lookback,
	}
}

func (j *CandleIngestJob) SetLogger(l *applogger.Logger) {
	if l != nil {
		j.logger = l
	}
}

func (j *CandleIngestJob) Name() string { return "fetch_candles" }

// Run never retries an invalid symbol; it drops the cached symbol so the next
// run resolves again.
func (j *CandleIngestJob) Run(ctx context.Context) error {
	symbol, err := j.resolver.Ensure(ctx)
	if err != nil {
		j.metrics.RecordError("symbol_resolve")
		return err
	}

	candles, err := j.source.FetchCandles(ctx, symbol, j.interval, j.lookback)
	if errors.Is(err, domrepo.ErrInvalidSymbol) {
		j.logger.Error("invalid symbol, will re-resolve", applogger.String("symbol", symbol), applogger.Error(err))
		j.resolver.Invalidate()
		j.metrics.RecordError("invalid_symbol")
		return nil
	}
	if err != nil {
		j.metrics.RecordError("candle_fetch")
		return fmt.Errorf("fetch candles %s: %w", symbol, err)
	}
	if len(candles) == 0 {
		return nil
	}

	for i := range candles {
		candles[i].Symbol = symbol
		candles[i].Interval = j.interval
	}
	n, err := j.store.UpsertCandles(ctx, candles)
	if err != nil {
		j.metrics.RecordError("candle_store")
		return fmt.Errorf("upsert candles: %w", err)
	}
	j.metrics.RecordLastPrice(symbol, candles[len(candles)-1].Close)
	j.logger.Info("candles upserted", applogger.String("symbol", symbol), applogger.Int("n", n))
	return nil
}

// LoadCandles reads the analysis window for the runtime symbol.
func LoadCandles(ctx context.Context, store domrepo.CandleStore, symbol, interval string, n int) ([]models.Candle, error) {
	candles, err := store.LatestCandles(ctx, symbol, interval, n)
	if err != nil {
		return nil, fmt.Errorf("load candles %s: %w", symbol, err)
	}
	return candles, nil
}

var _ Task = (*CandleIngestJob)(nil)
