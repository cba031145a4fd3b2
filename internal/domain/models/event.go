package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// AlertEvent is the wire envelope published for every emitted alert.
type AlertEvent struct {
	Kind    AlertKind       `json:"kind"`
	EventID string          `json:"event_id"`
	Symbol  string          `json:"symbol"`
	Time    time.Time       `json:"ts"`
	Payload json.RawMessage `json:"payload"`
}

func NewTradeIdeaEvent(idea TradeIdea) (AlertEvent, error) {
	raw, err := json.Marshal(idea)
	if err != nil {
		return AlertEvent{}, fmt.Errorf("marshal trade idea: %w", err)
	}
	return AlertEvent{Kind: AlertKindTrade, EventID: idea.ID, Symbol: idea.Symbol, Time: idea.Time, Payload: raw}, nil
}

func NewOrderBookEvent(alert OrderBookAlert) (AlertEvent, error) {
	raw, err := json.Marshal(alert)
	if err != nil {
		return AlertEvent{}, fmt.Errorf("marshal orderbook alert: %w", err)
	}
	return AlertEvent{Kind: AlertKindOrderBook, EventID: alert.EventID, Symbol: alert.Symbol, Time: alert.Time, Payload: raw}, nil
}

// Summary is a one-line description used in alert listings.
func (t TradeIdea) Summary() string {
	d := t.Decision
	if d.Risk == nil {
		return fmt.Sprintf("%s %d/100", d.Direction, d.Confidence)
	}
	return fmt.Sprintf("%s %d/100 entry %.2f-%.2f sl %.2f", d.Direction, d.Confidence, d.Risk.EntryLow, d.Risk.EntryHigh, d.Risk.StopLoss)
}

func (a OrderBookAlert) Summary() string {
	tags := make([]string, len(a.Events))
	for i, e := range a.Events {
		tags[i] = string(e)
	}
	s := strings.Join(tags, ",")
	if a.Major {
		s = "MAJOR " + s
	}
	return fmt.Sprintf("%s mid %.2f spread %.1fbps", s, a.Mid, a.SpreadBps)
}
