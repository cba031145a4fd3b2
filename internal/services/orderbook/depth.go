package orderbook

import "GoldPulse/internal/domain/models"

// DepthConfig controls how a raw book is summarized.
type DepthConfig struct {
	// Band is the half-width around mid, as a fraction, that counts toward depth.
	Band    float64
	WallUSD float64
}

// AnalyzeDepth summarizes one book. It returns nil when either side is
// empty or the mid is not positive. prev may be nil; deltas are then the
// depth itself.
func AnalyzeDepth(d models.Depth, symbol string, cfg DepthConfig, prev *models.OrderBookSnapshot) *models.OrderBookSnapshot {
	if len(d.Bids) == 0 || len(d.Asks) == 0 {
		return nil
	}
	bestBid, bestAsk := d.Bids[0].Price, d.Asks[0].Price
	mid := (bestBid + bestAsk) / 2
	if mid <= 0 {
		return nil
	}
	low, high := mid*(1-cfg.Band), mid*(1+cfg.Band)

	var bidUSD, askUSD float64
	var bidWall, askWall models.Wall
	for _, l := range d.Bids {
		if l.Price < low {
			break
		}
		usd := l.Price * l.Qty
		bidUSD += usd
		if usd > bidWall.USD {
			bidWall = models.Wall{Side: models.WallBid, USD: usd, Price: l.Price}
		}
	}
	for _, l := range d.Asks {
		if l.Price > high {
			break
		}
		usd := l.Price * l.Qty
		askUSD += usd
		if usd > askWall.USD {
			askWall = models.Wall{Side: models.WallAsk, USD: usd, Price: l.Price}
		}
	}

	var imbalance float64
	if den := bidUSD + askUSD; den != 0 {
		imbalance = (bidUSD - askUSD) / den
	}

	wall := models.Wall{Side: models.WallNone}
	if bidWall.USD >= cfg.WallUSD || askWall.USD >= cfg.WallUSD {
		if bidWall.USD >= askWall.USD {
			wall = bidWall
		} else {
			wall = askWall
		}
	}

	var prevBid, prevAsk float64
	if prev != nil {
		prevBid, prevAsk = prev.BidDepthUSD, prev.AskDepthUSD
	}

	return &models.OrderBookSnapshot{
		Symbol:           symbol,
		Time:             d.Time,
		Mid:              mid,
		SpreadBps:        (bestAsk - bestBid) / mid * 1e4,
		BidDepthUSD:      bidUSD,
		AskDepthUSD:      askUSD,
		Imbalance:        imbalance,
		TopWallSide:      wall.Side,
		TopWallUSD:       wall.USD,
		TopWallPrice:     wall.Price,
		DeltaBidDepthUSD: bidUSD - prevBid,
		DeltaAskDepthUSD: askUSD - prevAsk,
	}
}
