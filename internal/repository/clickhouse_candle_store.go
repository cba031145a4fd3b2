package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"GoldPulse/internal/domain/models"
	domrepo "GoldPulse/internal/domain/repository"
	pkgch "GoldPulse/pkg/clickhouse"
	applogger "GoldPulse/pkg/logger"
)

const insertCandle = `INSERT INTO candles (symbol, interval, ts, open, high, low, close, volume) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// CHCandleStore keeps candle history in a ReplacingMergeTree so re-fetched
// bars overwrite instead of duplicating.
type CHCandleStore struct {
	ch *pkgch.Client
	l  *applogger.Logger
}

func NewCHCandleStore(ch *pkgch.Client) *CHCandleStore {
	return &CHCandleStore{ch: ch, l: applogger.Nop()}
}

func (s *CHCandleStore) SetLogger(l *applogger.Logger) {
	if l != nil {
		s.l = l
	}
}

func (s *CHCandleStore) UpsertCandles(ctx context.Context, candles []models.Candle) (int, error) {
	if len(candles) == 0 {
		return 0, nil
	}
	rows := make([][]any, 0, len(candles))
	for _, c := range candles {
		var vol any
		if c.Volume != nil {
			vol = *c.Volume
		}
		rows = append(rows, []any{c.Symbol, c.Interval, c.Time.UTC(), c.Open, c.High, c.Low, c.Close, vol})
	}
	start := time.Now()
	if err := s.ch.InsertBatch(ctx, insertCandle, rows); err != nil {
		s.l.Error("clickhouse upsert_candles error", applogger.Int("rows", len(rows)), applogger.Error(err))
		return 0, fmt.Errorf("upsert candles: %w", err)
	}
	s.l.Debug("clickhouse upsert_candles ok",
		applogger.String("symbol", candles[0].Symbol),
		applogger.Int("rows", len(rows)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return len(rows), nil
}

// LatestCandles returns the newest n bars in ascending order.
func (s *CHCandleStore) LatestCandles(ctx context.Context, symbol, interval string, n int) ([]models.Candle, error) {
	const q = `
        SELECT symbol, interval, ts, open, high, low, close, volume
        FROM candles FINAL
        WHERE symbol = ? AND interval = ?
        ORDER BY ts DESC
        LIMIT ?
    `
	rows, err := s.ch.DB().QueryContext(ctx, q, symbol, interval, n)
	if err != nil {
		s.l.Error("clickhouse latest_candles query error",
			applogger.String("symbol", symbol),
			applogger.Int("limit", n),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("latest candles: %w", err)
	}
	defer rows.Close()

	tmp := make([]models.Candle, 0, n)
	for rows.Next() {
		var (
			c   models.Candle
			vol sql.NullFloat64
		)
		if err := rows.Scan(&c.Symbol, &c.Interval, &c.Time, &c.Open, &c.High, &c.Low, &c.Close, &vol); err != nil {
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		if vol.Valid {
			v := vol.Float64
			c.Volume = &v
		}
		tmp = append(tmp, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	out := make([]models.Candle, len(tmp))
	for i := range tmp {
		out[len(tmp)-1-i] = tmp[i]
	}
	return out, nil
}

var _ domrepo.CandleStore = (*CHCandleStore)(nil)
