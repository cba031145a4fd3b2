package orderbook

import (
	"strings"

	"github.com/shopspring/decimal"

	"GoldPulse/internal/domain/models"
)

// Signature quantizes a snapshot so near-identical books compare equal.
func Signature(s *models.OrderBookSnapshot, b Buckets) string {
	parts := []string{
		decimal.NewFromFloat(s.Mid).Round(b.MidPlaces).String(),
		bucket(s.SpreadBps, b.SpreadBps),
		bucket(s.Imbalance, b.Imbalance),
		string(s.TopWallSide),
		bucket(s.TopWallUSD, b.WallUSD),
		bucket(s.DeltaBidDepthUSD, b.DeltaUSD),
		bucket(s.DeltaAskDepthUSD, b.DeltaUSD),
	}
	return strings.Join(parts, "|")
}

func bucket(v, step float64) string {
	if step <= 0 {
		return decimal.NewFromFloat(v).String()
	}
	return decimal.NewFromFloat(v).Div(decimal.NewFromFloat(step)).Round(0).String()
}
