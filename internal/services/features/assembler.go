package features

import (
	"GoldPulse/internal/domain/models"
	domsvc "GoldPulse/internal/domain/service"
)

// Assembler builds FeatureSets. It is stateless and safe for concurrent use.
type Assembler struct {
	cfg Config
}

func New(cfg Config) *Assembler {
	return &Assembler{cfg: cfg.withDefaults()}
}

func (a *Assembler) Config() Config { return a.cfg }

// Assemble never panics; empty history yields a neutral set.
func (a *Assembler) Assemble(candles []models.Candle, news []models.NewsItem, macro []models.MacroEvent) models.FeatureSet {
	fs := models.FeatureSet{
		Catalysts: a.Catalysts(news, macro),
	}
	if len(candles) == 0 {
		fs.Regime = models.Regime{Trend: models.TrendRange, VolRegime: models.VolNormal}
		fs.Market = models.Market{RSI: 50}
		fs.Flow = models.Flow{Notes: []string{"insufficient history"}}
		return fs
	}

	closes := models.Closes(candles)
	atrs := ATRSeries(candles, a.cfg.ATRPeriod)

	fs.Regime = a.regime(closes, atrs)
	fs.Market = a.market(candles, closes, atrs)
	fs.Flow = a.Flow(candles)
	return fs
}

var _ domsvc.FeatureAssembler = (*Assembler)(nil)
