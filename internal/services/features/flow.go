package features

import (
	"fmt"
	"math"

	"GoldPulse/internal/domain/models"
	"GoldPulse/pkg/util"
)

// Flow is a volume-free activity proxy built from return and range z-scores.
func (a *Assembler) Flow(candles []models.Candle) models.Flow {
	if len(candles) < a.cfg.FlowMinBars {
		return models.Flow{Notes: []string{"insufficient history"}}
	}

	rets := PctReturns(models.Closes(candles))
	ranges := make([]float64, len(candles))
	for i, c := range candles {
		ranges[i] = c.High - c.Low
	}

	zRet := lastZ(util.Tail(rets, a.cfg.FlowBaseline))
	zRng := lastZ(util.Tail(ranges, a.cfg.FlowBaseline))

	f := models.Flow{Notes: []string{}}
	if math.Abs(zRet) >= a.cfg.FlowZ {
		f.Score += a.cfg.FlowStep
		f.Notes = append(f.Notes, fmt.Sprintf("impulse z=%+.1f", zRet))
	}
	if zRng >= a.cfg.FlowZ {
		f.Score += a.cfg.FlowStep
		f.Notes = append(f.Notes, fmt.Sprintf("range expansion z=%+.1f", zRng))
	}
	f.Score = math.Min(1, f.Score)
	return f
}

// lastZ scores the final element against the whole slice (sample std).
func lastZ(xs []float64) float64 {
	sd := math.Max(util.StdDev(xs, 1), eps)
	return (xs[len(xs)-1] - util.Mean(xs)) / sd
}
