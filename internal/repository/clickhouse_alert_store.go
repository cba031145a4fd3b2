package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"GoldPulse/internal/domain/models"
	domrepo "GoldPulse/internal/domain/repository"
	pkgch "GoldPulse/pkg/clickhouse"
	applogger "GoldPulse/pkg/logger"
)

const (
	insertTradeIdea = `INSERT INTO trade_ideas
        (event_id, symbol, ts, direction, confidence, entry_low, entry_high, stop_loss, tp1, tp2, rr, summary, payload)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	insertOrderBookAlert = `INSERT INTO orderbook_alerts
        (event_id, symbol, ts, events, major, mid, spread_bps, imbalance, signature, summary, payload)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
)

// CHAlertStore persists alerts. Both tables dedupe on event_id, so a
// redelivered Kafka message is harmless.
type CHAlertStore struct {
	ch *pkgch.Client
	l  *applogger.Logger
}

func NewCHAlertStore(ch *pkgch.Client) *CHAlertStore {
	return &CHAlertStore{ch: ch, l: applogger.Nop()}
}

func (s *CHAlertStore) SetLogger(l *applogger.Logger) {
	if l != nil {
		s.l = l
	}
}

func (s *CHAlertStore) SaveTradeIdea(ctx context.Context, idea models.TradeIdea) error {
	payload, err := json.Marshal(idea)
	if err != nil {
		return fmt.Errorf("marshal trade idea: %w", err)
	}
	var r models.RiskPlan
	if idea.Decision.Risk != nil {
		r = *idea.Decision.Risk
	}
	row := []any{
		idea.ID, idea.Symbol, idea.Time.UTC(), string(idea.Decision.Direction), uint8(idea.Decision.Confidence),
		r.EntryLow, r.EntryHigh, r.StopLoss, r.TakeProfit1, r.TakeProfit2, r.RiskReward,
		idea.Summary(), string(payload),
	}
	if err := s.ch.InsertBatch(ctx, insertTradeIdea, [][]any{row}); err != nil {
		s.l.Error("clickhouse save_trade_idea error", applogger.String("event_id", idea.ID), applogger.Error(err))
		return fmt.Errorf("save trade idea: %w", err)
	}
	return nil
}

func (s *CHAlertStore) SaveOrderBookAlert(ctx context.Context, a models.OrderBookAlert) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal orderbook alert: %w", err)
	}
	events := make([]string, len(a.Events))
	for i, e := range a.Events {
		events[i] = string(e)
	}
	var major uint8
	if a.Major {
		major = 1
	}
	row := []any{
		a.EventID, a.Symbol, a.Time.UTC(), events, major,
		a.Mid, a.SpreadBps, a.Imbalance, a.Signature, a.Summary(), string(payload),
	}
	if err := s.ch.InsertBatch(ctx, insertOrderBookAlert, [][]any{row}); err != nil {
		s.l.Error("clickhouse save_orderbook_alert error", applogger.String("event_id", a.EventID), applogger.Error(err))
		return fmt.Errorf("save orderbook alert: %w", err)
	}
	return nil
}

func (s *CHAlertStore) RecentAlerts(ctx context.Context, kind models.AlertKind, limit int) ([]models.AlertRecord, error) {
	var table string
	switch kind {
	case models.AlertKindTrade:
		table = "trade_ideas"
	case models.AlertKindOrderBook:
		table = "orderbook_alerts"
	default:
		return nil, fmt.Errorf("unknown alert kind %q", kind)
	}
	q := fmt.Sprintf(`SELECT event_id, symbol, ts, summary, payload FROM %s FINAL ORDER BY ts DESC LIMIT ?`, table)
	rows, err := s.ch.DB().QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("recent alerts: %w", err)
	}
	defer rows.Close()

	var out []models.AlertRecord
	for rows.Next() {
		rec := models.AlertRecord{Kind: kind}
		if err := rows.Scan(&rec.ID, &rec.Symbol, &rec.Time, &rec.Summary, &rec.Payload); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

var _ domrepo.AlertStore = (*CHAlertStore)(nil)
