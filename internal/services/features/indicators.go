package features

import (
	"math"

	"GoldPulse/internal/domain/models"
)

const eps = 1e-12

// EMASeries computes the recursive exponential average with
// alpha = 2/(span+1), seeded with the first value.
func EMASeries(xs []float64, span int) []float64 {
	if len(xs) == 0 {
		return nil
	}
	return smooth(xs, 2/(float64(span)+1))
}

// EMA returns the last value of EMASeries, 0 for an empty input.
func EMA(xs []float64, span int) float64 {
	s := EMASeries(xs, span)
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}

func smooth(xs []float64, alpha float64) []float64 {
	out := make([]float64, len(xs))
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = alpha*xs[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RSI uses Wilder smoothing (alpha = 1/period) of gains and losses.
// A flat series yields 50; a series with no losses yields 100.
func RSI(closes []float64, period int) float64 {
	if len(closes) < 2 || period <= 0 {
		return 50
	}
	gains := make([]float64, 0, len(closes)-1)
	losses := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		gains = append(gains, math.Max(d, 0))
		losses = append(losses, math.Max(-d, 0))
	}
	alpha := 1 / float64(period)
	g := smooth(gains, alpha)
	l := smooth(losses, alpha)
	avgGain, avgLoss := g[len(g)-1], l[len(l)-1]
	if avgLoss < eps {
		if avgGain < eps {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// TrueRanges returns max(h-l, |h-prevC|, |l-prevC|) per bar; the first bar
// has no previous close and uses h-l.
func TrueRanges(candles []models.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		tr := c.High - c.Low
		if i > 0 {
			prev := candles[i-1].Close
			tr = math.Max(tr, math.Max(math.Abs(c.High-prev), math.Abs(c.Low-prev)))
		}
		out[i] = tr
	}
	return out
}

// ATRSeries smooths the true range with alpha = 1/period.
func ATRSeries(candles []models.Candle, period int) []float64 {
	if len(candles) == 0 || period <= 0 {
		return nil
	}
	return smooth(TrueRanges(candles), 1/float64(period))
}

// PctReturns computes C_t/C_{t-1} - 1 with the first element set to 0.
// A non-positive previous close yields a 0 return.
func PctReturns(closes []float64) []float64 {
	out := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev <= 0 {
			continue
		}
		out[i] = closes[i]/prev - 1
	}
	return out
}
