package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"GoldPulse/internal/domain/models"
	domrepo "GoldPulse/internal/domain/repository"
)

type candleKey struct {
	symbol, interval string
	ts               int64
}

// MemoryCandleStore is an in-process CandleStore with the same upsert
// semantics as the ClickHouse table.
type MemoryCandleStore struct {
	mu sync.RWMutex
	m  map[candleKey]models.Candle
}

func NewMemoryCandleStore() *MemoryCandleStore {
	return &MemoryCandleStore{m: make(map[candleKey]models.Candle)}
}

func (s *MemoryCandleStore) UpsertCandles(_ context.Context, candles []models.Candle) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range candles {
		s.m[candleKey{c.Symbol, c.Interval, c.Time.UnixNano()}] = c
	}
	return len(candles), nil
}

func (s *MemoryCandleStore) LatestCandles(_ context.Context, symbol, interval string, n int) ([]models.Candle, error) {
	s.mu.RLock()
	out := make([]models.Candle, 0, len(s.m))
	for k, c := range s.m {
		if k.symbol == symbol && k.interval == interval {
			out = append(out, c)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out, nil
}

// MemoryAlertStore keeps alerts in insertion order, deduped by event id.
type MemoryAlertStore struct {
	mu      sync.RWMutex
	records map[models.AlertKind][]models.AlertRecord
	seen    map[string]struct{}
}

func NewMemoryAlertStore() *MemoryAlertStore {
	return &MemoryAlertStore{
		records: make(map[models.AlertKind][]models.AlertRecord),
		seen:    make(map[string]struct{}),
	}
}

func (s *MemoryAlertStore) SaveTradeIdea(_ context.Context, idea models.TradeIdea) error {
	raw, err := json.Marshal(idea)
	if err != nil {
		return fmt.Errorf("marshal trade idea: %w", err)
	}
	s.add(models.AlertRecord{
		ID: idea.ID, Kind: models.AlertKindTrade, Symbol: idea.Symbol, Time: idea.Time,
		Summary: idea.Summary(), Payload: string(raw),
	})
	return nil
}

func (s *MemoryAlertStore) SaveOrderBookAlert(_ context.Context, a models.OrderBookAlert) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal orderbook alert: %w", err)
	}
	s.add(models.AlertRecord{
		ID: a.EventID, Kind: models.AlertKindOrderBook, Symbol: a.Symbol, Time: a.Time,
		Summary: a.Summary(), Payload: string(raw),
	})
	return nil
}

func (s *MemoryAlertStore) add(rec models.AlertRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.seen[rec.ID]; dup {
		return
	}
	s.seen[rec.ID] = struct{}{}
	s.records[rec.Kind] = append(s.records[rec.Kind], rec)
}

// RecentAlerts returns newest first.
func (s *MemoryAlertStore) RecentAlerts(_ context.Context, kind models.AlertKind, limit int) ([]models.AlertRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.records[kind]
	out := make([]models.AlertRecord, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, src[i])
	}
	return out, nil
}

var (
	_ domrepo.CandleStore = (*MemoryCandleStore)(nil)
	_ domrepo.AlertStore  = (*MemoryAlertStore)(nil)
)
