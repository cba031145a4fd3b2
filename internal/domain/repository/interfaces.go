package repository

import (
	"context"
	"errors"

	"GoldPulse/internal/domain/models"
)

// ErrInvalidSymbol marks a vendor rejection of the requested symbol. Callers
// re-resolve instead of retrying.
var ErrInvalidSymbol = errors.New("invalid symbol")

// CandleSource fetches OHLC history from a market data vendor.
type CandleSource interface {
	FetchCandles(ctx context.Context, symbol, interval string, n int) ([]models.Candle, error)
	ResolveSymbol(ctx context.Context, candidates []string) (string, error)
}

type NewsSource interface {
	FetchNews(ctx context.Context) ([]models.NewsItem, error)
}

type MacroSource interface {
	FetchMacro(ctx context.Context) ([]models.MacroEvent, error)
}

// DepthSource returns one order book snapshot.
type DepthSource interface {
	FetchDepth(ctx context.Context, symbol string, limit int) (models.Depth, error)
}

// DepthStream pushes partial-book updates.
type DepthStream interface {
	Connect(ctx context.Context) error
	Read(ctx context.Context) (<-chan models.Depth, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// CandleStore persists candles; upserts are idempotent per (symbol, interval, ts).
type CandleStore interface {
	UpsertCandles(ctx context.Context, candles []models.Candle) (int, error)
	LatestCandles(ctx context.Context, symbol, interval string, n int) ([]models.Candle, error)
}

// AlertStore persists emitted trade ideas and order book alerts.
type AlertStore interface {
	SaveTradeIdea(ctx context.Context, idea models.TradeIdea) error
	SaveOrderBookAlert(ctx context.Context, alert models.OrderBookAlert) error
	RecentAlerts(ctx context.Context, kind models.AlertKind, limit int) ([]models.AlertRecord, error)
}

// AlertPublisher routes alerts to the configured backend.
type AlertPublisher interface {
	PublishTradeIdea(ctx context.Context, idea models.TradeIdea) error
	PublishOrderBookAlert(ctx context.Context, alert models.OrderBookAlert) error
}

// Notifier delivers a rendered message to humans.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

type Metrics interface {
	RecordFetch(source string, seconds float64, err error)
	RecordJob(job string, seconds float64, err error)
	RecordDecision(d models.Decision)
	RecordTradeIdea(outcome string)
	RecordOrderBookAlert(alert models.OrderBookAlert)
	RecordOrderBookZ(symbol string, z models.ZScores)
	RecordLastPrice(symbol string, price float64)
	RecordError(kind string)
}
