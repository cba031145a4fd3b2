package usecase

import (
	"context"
	"fmt"
	"sync"

	"GoldPulse/internal/domain/models"
	domrepo "GoldPulse/internal/domain/repository"
	mid "GoldPulse/internal/middleware"
	"GoldPulse/internal/service/telegram"
	"GoldPulse/internal/services/orderbook"
	applogger "GoldPulse/pkg/logger"
)

// OrderBookProcessor turns raw books into snapshots, runs the detector and
// emits alerts. It owns the only detector for its symbol.
type OrderBookProcessor struct {
	symbol    string
	depthCfg  orderbook.DepthConfig
	detector  *orderbook.Detector
	publisher domrepo.AlertPublisher
	deliverer Deliverer
	metrics   domrepo.Metrics
	logger    *applogger.Logger

	mu   sync.Mutex
	prev *models.OrderBookSnapshot
}

func NewOrderBookProcessor(symbol string, depthCfg orderbook.DepthConfig, detector *orderbook.Detector, publisher domrepo.AlertPublisher, deliverer Deliverer, metrics domrepo.Metrics) *OrderBookProcessor {
	return &OrderBookProcessor{
		symbol:    symbol,
		depthCfg:  depthCfg,
		detector:  detector,
		publisher: publisher,
		deliverer: deliverer,
		metrics:   metrics,
		logger:    applogger.Nop(),
	}
}

func (p *OrderBookProcessor) SetLogger(l *applogger.Logger) {
	if l != nil {
		p.logger = l
	}
}

func (p *OrderBookProcessor) Symbol() string { return p.symbol }

// State is the detector diagnostics snapshot.
func (p *OrderBookProcessor) State() orderbook.State { return p.detector.State() }

func (p *OrderBookProcessor) Process(ctx context.Context, symbol string, d models.Depth) error {
	if symbol != p.symbol {
		return fmt.Errorf("orderbook processor for %s got %s", p.symbol, symbol)
	}

	// Books arrive from one feed at a time but the REST tick and a manual
	// trigger may race; deltas need a consistent prev.
	p.mu.Lock()
	snap := orderbook.AnalyzeDepth(d, symbol, p.depthCfg, p.prev)
	if snap == nil {
		p.mu.Unlock()
		p.metrics.RecordError("depth_unusable")
		return nil
	}
	p.prev = snap
	alert := p.detector.Observe(*snap)
	p.mu.Unlock()

	p.metrics.RecordLastPrice(symbol, snap.Mid)
	p.metrics.RecordOrderBookZ(symbol, p.detector.LastZ())
	if alert == nil {
		return nil
	}

	p.metrics.RecordOrderBookAlert(*alert)
	p.logger.Info("orderbook alert",
		applogger.String("event_id", alert.EventID),
		applogger.String("summary", alert.Summary()),
		applogger.Bool("major", alert.Major))

	if err := p.publisher.PublishOrderBookAlert(ctx, *alert); err != nil {
		p.metrics.RecordError("orderbook_publish")
		return err
	}
	if p.deliverer != nil {
		if err := p.deliverer.Deliver(ctx, Delivery{EventID: alert.EventID, Kind: models.AlertKindOrderBook, Text: telegram.RenderOrderBook(*alert)}); err != nil {
			p.metrics.RecordError("orderbook_deliver")
			return err
		}
	}
	return nil
}

// OrderBookMonitorJob feeds the processor either from REST polling (Run on a
// schedule) or from the websocket stream (Start).
type OrderBookMonitorJob struct {
	source  domrepo.DepthSource
	stream  domrepo.DepthStream
	pipe    *mid.DepthPipeline
	proc    *OrderBookProcessor
	limit   int
	metrics domrepo.Metrics
	logger  *applogger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrderBookMonitorJob builds the monitor. stream may be nil for REST-only mode.
func NewOrderBookMonitorJob(source domrepo.DepthSource, stream domrepo.DepthStream, proc *OrderBookProcessor, pipe *mid.DepthPipeline, limit int, metrics domrepo.Metrics) *OrderBookMonitorJob {
	return &OrderBookMonitorJob{
		source:  source,
		stream:  stream,
		pipe:    pipe,
		proc:    proc,
		limit:   limit,
		metrics: metrics,
		logger:  applogger.Nop(),
	}
}

func (j *OrderBookMonitorJob) SetLogger(l *applogger.Logger) {
	if l != nil {
		j.logger = l
	}
}

func (j *OrderBookMonitorJob) Name() string { return "orderbook_monitor" }

// Streaming reports whether books come from the websocket.
func (j *OrderBookMonitorJob) Streaming() bool { return j.stream != nil }

// State returns detector diagnostics for symbol, false when it is not monitored.
func (j *OrderBookMonitorJob) State(symbol string) (orderbook.State, bool) {
	if symbol != "" && symbol != j.proc.Symbol() {
		return orderbook.State{}, false
	}
	return j.proc.State(), true
}

// Run is one REST tick.
func (j *OrderBookMonitorJob) Run(ctx context.Context) error {
	symbol := j.proc.Symbol()
	d, err := j.source.FetchDepth(ctx, symbol, j.limit)
	if err != nil {
		j.metrics.RecordError("depth_fetch")
		return fmt.Errorf("fetch depth %s: %w", symbol, err)
	}
	return j.pipe.Process(ctx, symbol, d)
}

// Start connects the stream and consumes it until ctx ends.
func (j *OrderBookMonitorJob) Start(ctx context.Context) error {
	if j.stream == nil {
		return nil
	}
	if err := j.stream.Connect(ctx); err != nil {
		return err
	}
	ctx, j.cancel = context.WithCancel(ctx)
	j.wg.Add(1)
	go j.consume(ctx)
	return nil
}

func (j *OrderBookMonitorJob) consume(ctx context.Context) {
	defer j.wg.Done()
	symbol := j.proc.Symbol()
	for ctx.Err() == nil {
		books, errs := j.stream.Read(ctx)
		j.drain(ctx, symbol, books, errs)
		if ctx.Err() != nil {
			return
		}
		j.metrics.RecordError("stream")
		if err := j.stream.Reconnect(ctx); err != nil && ctx.Err() == nil {
			j.logger.Error("depth stream reconnect failed", applogger.Error(err))
		}
	}
}

func (j *OrderBookMonitorJob) drain(ctx context.Context, symbol string, books <-chan models.Depth, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errs:
			if ok && err != nil {
				j.logger.Warn("depth stream error", applogger.Error(err))
				return
			}
			if !ok {
				errs = nil
			}
		case d, ok := <-books:
			if !ok {
				return
			}
			if err := j.pipe.Process(ctx, symbol, d); err != nil {
				j.logger.Warn("depth book dropped", applogger.Error(err))
			}
		}
	}
}

// Shutdown closes the stream and waits for the consumer.
func (j *OrderBookMonitorJob) Shutdown(ctx context.Context) error {
	if j.stream == nil {
		return nil
	}
	if j.cancel != nil {
		j.cancel()
	}
	err := j.stream.Close()
	done := make(chan struct{})
	go func() {
		j.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return err
}

var (
	_ Task          = (*OrderBookMonitorJob)(nil)
	_ mid.DepthProc = (*OrderBookProcessor)(nil)
)
