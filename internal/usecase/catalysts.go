package usecase

import (
	"context"
	"fmt"

	"GoldPulse/internal/domain/models"
	domrepo "GoldPulse/internal/domain/repository"
	applogger "GoldPulse/pkg/logger"
)

// CatalystStore keeps the most recent catalyst pulls.
type CatalystStore interface {
	SetNews(ctx context.Context, items []models.NewsItem) error
	SetMacro(ctx context.Context, events []models.MacroEvent) error
	News(ctx context.Context) ([]models.NewsItem, error)
	Macro(ctx context.Context) ([]models.MacroEvent, error)
}

// NewsPollJob refreshes cached headlines. A failed pull keeps the previous list.
type NewsPollJob struct {
	source  domrepo.NewsSource
	store   CatalystStore
	metrics domrepo.Metrics
	logger  *applogger.Logger
}

func NewNewsPollJob(source domrepo.NewsSource, store CatalystStore, metrics domrepo.Metrics) *NewsPollJob {
	return &NewsPollJob{source: source, store: store, metrics: metrics, logger: applogger.Nop()}
}

func (j *NewsPollJob) SetLogger(l *applogger.Logger) {
	if l != nil {
		j.logger = l
	}
}

func (j *NewsPollJob) Name() string { return "poll_news" }

func (j *NewsPollJob) Run(ctx context.Context) error {
	items, err := j.source.FetchNews(ctx)
	if err != nil {
		j.metrics.RecordError("news_fetch")
		return fmt.Errorf("fetch news: %w", err)
	}
	if err := j.store.SetNews(ctx, items); err != nil {
		return err
	}
	j.logger.Info("news cached", applogger.Int("n", len(items)))
	return nil
}

// MacroPollJob refreshes the cached economic calendar.
type MacroPollJob struct {
	source  domrepo.MacroSource
	store   CatalystStore
	metrics domrepo.Metrics
	logger  *applogger.Logger
}

func NewMacroPollJob(source domrepo.MacroSource, store CatalystStore, metrics domrepo.Metrics) *MacroPollJob {
	return &MacroPollJob{source: source, store: store, metrics: metrics, logger: applogger.Nop()}
}

func (j *MacroPollJob) SetLogger(l *applogger.Logger) {
	if l != nil {
		j.logger = l
	}
}

func (j *MacroPollJob) Name() string { return "poll_macro" }

func (j *MacroPollJob) Run(ctx context.Context) error {
	events, err := j.source.FetchMacro(ctx)
	if err != nil {
		j.metrics.RecordError("macro_fetch")
		return fmt.Errorf("fetch macro: %w", err)
	}
	if err := j.store.SetMacro(ctx, events); err != nil {
		return err
	}
	j.logger.Info("macro cached", applogger.Int("n", len(events)))
	return nil
}

// loadCatalysts reads both caches. Read failures degrade to empty lists.
func loadCatalysts(ctx context.Context, store CatalystStore, logger *applogger.Logger) ([]models.NewsItem, []models.MacroEvent) {
	if store == nil {
		return nil, nil
	}
	news, err := store.News(ctx)
	if err != nil {
		logger.Warn("news cache read failed", applogger.Error(err))
		news = nil
	}
	macro, err := store.Macro(ctx)
	if err != nil {
		logger.Warn("macro cache read failed", applogger.Error(err))
		macro = nil
	}
	return news, macro
}

var (
	_ Task = (*NewsPollJob)(nil)
	_ Task = (*MacroPollJob)(nil)
)
