package models

import "time"

// Direction of a trade idea.
type Direction string

const (
	Long    Direction = "LONG"
	Short   Direction = "SHORT"
	NoTrade Direction = "NO_TRADE"
)

// RiskPlan is an entry zone with stop and targets.
type RiskPlan struct {
	EntryLow    float64 `json:"entry_low"`
	EntryHigh   float64 `json:"entry_high"`
	StopLoss    float64 `json:"stop_loss"`
	TakeProfit1 float64 `json:"take_profit1"`
	TakeProfit2 float64 `json:"take_profit2"`
	RiskReward  float64 `json:"risk_reward"`
}

// EntryMid is the center of the entry zone.
func (r RiskPlan) EntryMid() float64 {
	return (r.EntryLow + r.EntryHigh) / 2
}

// Decision is the engine output. Risk is nil unless a trade is actionable.
type Decision struct {
	Direction  Direction `json:"direction"`
	Confidence int       `json:"confidence"`
	Reasons    []string  `json:"reasons"`
	Risk       *RiskPlan `json:"risk"`
}

// Actionable reports whether the decision carries a trade.
func (d Decision) Actionable() bool {
	return d.Direction != NoTrade && d.Risk != nil
}

// TradeIdea is a sent decision together with the features that produced it.
type TradeIdea struct {
	ID       string     `json:"id"`
	Symbol   string     `json:"symbol"`
	Time     time.Time  `json:"ts"`
	Label    string     `json:"label"`
	Decision Decision   `json:"decision"`
	Features FeatureSet `json:"features"`
}
