package models

import "time"

// DepthLevel is one [price, qty] row of an order book side.
type DepthLevel struct {
	Price float64 `json:"price"`
	Qty   float64 `json:"qty"`
}

// Depth is a raw book: bids best-first descending, asks best-first ascending.
type Depth struct {
	Bids []DepthLevel `json:"bids"`
	Asks []DepthLevel `json:"asks"`
	Time time.Time    `json:"ts"`
}

// WallSide names the side holding the largest single-level notional.
type WallSide string

const (
	WallBid  WallSide = "BID"
	WallAsk  WallSide = "ASK"
	WallNone WallSide = "NONE"
)

// OrderBookSnapshot is the per-tick summary fed to the detector.
type OrderBookSnapshot struct {
	Symbol           string    `json:"symbol"`
	Time             time.Time `json:"ts"`
	Mid              float64   `json:"mid"`
	SpreadBps        float64   `json:"spread_bps"`
	BidDepthUSD      float64   `json:"bid_depth_usd"`
	AskDepthUSD      float64   `json:"ask_depth_usd"`
	Imbalance        float64   `json:"imbalance"`
	TopWallSide      WallSide  `json:"top_wall_side"`
	TopWallUSD       float64   `json:"top_wall_usd"`
	TopWallPrice     float64   `json:"top_wall_price"`
	DeltaBidDepthUSD float64   `json:"delta_bid_depth_usd"`
	DeltaAskDepthUSD float64   `json:"delta_ask_depth_usd"`
}

// EventKind is an order book anomaly tag.
type EventKind string

const (
	EventSpreadStress   EventKind = "spread_stress"
	EventImbalanceShock EventKind = "imbalance_shock"
	EventDepthVacuum    EventKind = "depth_vacuum"
	EventLiquidityPull  EventKind = "liquidity_pull"
	EventLiquidityAdd   EventKind = "liquidity_add"
	EventWallPresent    EventKind = "wall_present"
)

// EventKinds lists every kind in reporting order.
var EventKinds = []EventKind{
	EventSpreadStress,
	EventImbalanceShock,
	EventDepthVacuum,
	EventLiquidityPull,
	EventLiquidityAdd,
	EventWallPresent,
}

// ZScores of one snapshot against the prior window.
type ZScores struct {
	Spread    float64 `json:"spread"`
	Imbalance float64 `json:"imbalance"`
	BidDepth  float64 `json:"bid_depth"`
	AskDepth  float64 `json:"ask_depth"`
	DeltaBid  float64 `json:"delta_bid"`
	DeltaAsk  float64 `json:"delta_ask"`
}

// Wall describes the top wall at alert time.
type Wall struct {
	Side  WallSide `json:"side"`
	USD   float64  `json:"usd"`
	Price float64  `json:"price"`
}

// OrderBookAlert is an emitted anomaly.
type OrderBookAlert struct {
	EventID   string      `json:"event_id"`
	Symbol    string      `json:"symbol"`
	Time      time.Time   `json:"ts"`
	Events    []EventKind `json:"events"`
	Major     bool        `json:"major"`
	Mid       float64     `json:"mid"`
	SpreadBps float64     `json:"spread_bps"`
	Imbalance float64     `json:"imbalance"`
	ZScores   ZScores     `json:"z_scores"`
	Wall      Wall        `json:"wall"`
	Signature string      `json:"signature"`
}

// AlertKind selects which alert stream a query reads.
type AlertKind string

const (
	AlertKindTrade     AlertKind = "trade"
	AlertKindOrderBook AlertKind = "orderbook"
)

// AlertRecord is a persisted alert row in a form shared by both streams.
type AlertRecord struct {
	ID      string    `json:"id"`
	Kind    AlertKind `json:"kind"`
	Symbol  string    `json:"symbol"`
	Time    time.Time `json:"ts"`
	Summary string    `json:"summary"`
	Payload string    `json:"payload"`
}
