package models

import "time"

// Candle is one OHLC bar. Candles are unique per (Symbol, Interval, Time)
// and are always handled in ascending time order.
type Candle struct {
	Symbol   string    `json:"symbol"`
	Interval string    `json:"interval"`
	Time     time.Time `json:"ts"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   *float64  `json:"volume,omitempty"`
}

// Closes extracts the close series.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}
