package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"GoldPulse/internal/domain/models"
	domrepo "GoldPulse/internal/domain/repository"
	domsvc "GoldPulse/internal/domain/service"
	"GoldPulse/internal/service/telegram"
	"GoldPulse/internal/services/alertgate"
	applogger "GoldPulse/pkg/logger"
)

// Trade idea outcomes recorded in metrics.
const (
	OutcomeSent         = "sent"
	OutcomeCooldown     = "cooldown"
	OutcomeNovelty      = "novelty"
	OutcomeMacro        = "macro_suppressed"
	OutcomeNoTrade      = "no_trade"
	OutcomeInsufficient = "insufficient_history"
)

type SignalConfig struct {
	Interval      string
	Lookback      int
	MinBars       int
	MacroSuppress float64
	Label         string
}

// TradeSignalJob evaluates the latest candles and emits gated trade ideas.
type TradeSignalJob struct {
	cfg       SignalConfig
	resolver  *SymbolResolver
	candles   domrepo.CandleStore
	catalysts CatalystStore
	assembler domsvc.FeatureAssembler
	engine    domsvc.DecisionEngine
	gate      *alertgate.TradeGate
	publisher domrepo.AlertPublisher
	deliverer Deliverer
	metrics   domrepo.Metrics
	logger    *applogger.Logger

	now   func() time.Time
	newID func() string
}

type SignalDeps struct {
	Resolver  *SymbolResolver
	Candles   domrepo.CandleStore
	Catalysts CatalystStore
	Assembler domsvc.FeatureAssembler
	Engine    domsvc.DecisionEngine
	Gate      *alertgate.TradeGate
	Publisher domrepo.AlertPublisher
	Deliverer Deliverer
	Metrics   domrepo.Metrics
}

func NewTradeSignalJob(cfg SignalConfig, deps SignalDeps) *TradeSignalJob {
	return &TradeSignalJob{
		cfg:       cfg,
		resolver:  deps.Resolver,
		candles:   deps.Candles,
		catalysts: deps.Catalysts,
		assembler: deps.Assembler,
		engine:    deps.Engine,
		gate:      deps.Gate,
		publisher: deps.Publisher,
		deliverer: deps.Deliverer,
		metrics:   deps.Metrics,
		logger:    applogger.Nop(),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

func (j *TradeSignalJob) SetLogger(l *applogger.Logger) {
	if l != nil {
		j.logger = l
	}
}

func (j *TradeSignalJob) Name() string { return "evaluate_and_signal" }

// Gate exposes the remembered last trade for the HTTP layer.
func (j *TradeSignalJob) Gate() alertgate.Snapshot { return j.gate.Snapshot() }

func (j *TradeSignalJob) Run(ctx context.Context) error {
	now := j.now()
	if !j.gate.CooldownOK(now) {
		j.metrics.RecordTradeIdea(OutcomeCooldown)
		return nil
	}

	symbol := j.resolver.Current()
	candles, err := LoadCandles(ctx, j.candles, symbol, j.cfg.Interval, j.cfg.Lookback)
	if err != nil {
		return err
	}
	if len(candles) < j.cfg.MinBars {
		j.logger.Info("eval skipped, not enough data", applogger.Int("bars", len(candles)), applogger.Int("min_bars", j.cfg.MinBars))
		j.metrics.RecordTradeIdea(OutcomeInsufficient)
		return nil
	}

	news, macro := loadCatalysts(ctx, j.catalysts, j.logger)
	fs := j.assembler.Assemble(candles, news, macro)

	if fs.Catalysts.MacroScore >= j.cfg.MacroSuppress {
		j.logger.Info("trade suppressed, macro score high", applogger.Float64("macro_score", fs.Catalysts.MacroScore))
		j.metrics.RecordTradeIdea(OutcomeMacro)
		return nil
	}

	d := j.engine.Decide(fs)
	j.metrics.RecordDecision(d)
	if !d.Actionable() {
		j.logger.Info("no trade", applogger.Int("confidence", d.Confidence))
		j.metrics.RecordTradeIdea(OutcomeNoTrade)
		return nil
	}

	mid := d.Risk.EntryMid()
	if reason := j.gate.Check(now, d.Direction, mid); reason != alertgate.Passed {
		j.logger.Info("trade suppressed", applogger.String("gate", string(reason)))
		j.metrics.RecordTradeIdea(string(reason))
		return nil
	}

	idea := models.TradeIdea{
		ID:       j.newID(),
		Symbol:   symbol,
		Time:     now,
		Label:    j.cfg.Label,
		Decision: d,
		Features: fs,
	}
	if err := j.publisher.PublishTradeIdea(ctx, idea); err != nil {
		j.metrics.RecordError("trade_publish")
		return err
	}
	// a persisted idea holds the gate even if delivery fails
	j.gate.Record(now, d.Direction, mid)
	if j.deliverer != nil {
		if err := j.deliverer.Deliver(ctx, Delivery{EventID: idea.ID, Kind: models.AlertKindTrade, Text: telegram.RenderTrade(idea)}); err != nil {
			j.metrics.RecordError("trade_deliver")
			return fmt.Errorf("deliver trade idea %s: %w", idea.ID, err)
		}
	}

	j.metrics.RecordTradeIdea(OutcomeSent)
	j.logger.Info("trade sent",
		applogger.String("id", idea.ID),
		applogger.String("direction", string(d.Direction)),
		applogger.Int("confidence", d.Confidence))
	return nil
}

// RunOnceResult is a side-effect free evaluation of the stored candles.
type RunOnceResult struct {
	Symbol   string            `json:"symbol"`
	Bars     int               `json:"bars"`
	Decision models.Decision   `json:"decision"`
	Features models.FeatureSet `json:"features"`
}

// RunOnce assembles and decides without gating, persisting or sending.
func (j *TradeSignalJob) RunOnce(ctx context.Context) (*RunOnceResult, error) {
	symbol := j.resolver.Current()
	candles, err := LoadCandles(ctx, j.candles, symbol, j.cfg.Interval, j.cfg.Lookback)
	if err != nil {
		return nil, err
	}
	if len(candles) == 0 {
		return nil, ErrNoCandles
	}
	news, macro := loadCatalysts(ctx, j.catalysts, j.logger)
	fs := j.assembler.Assemble(candles, news, macro)
	return &RunOnceResult{
		Symbol:   symbol,
		Bars:     len(candles),
		Decision: j.engine.Decide(fs),
		Features: fs,
	}, nil
}

var _ Task = (*TradeSignalJob)(nil)
