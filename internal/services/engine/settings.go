package engine

// Thresholds names every point value and cutoff used by the scorer.
type Thresholds struct {
	TrendPoints      int `yaml:"trend_points" default:"30"`
	MixedTrendPoints int `yaml:"mixed_trend_points" default:"10"`

	RSIBull          float64 `yaml:"rsi_bull" default:"54"`
	RSIBear          float64 `yaml:"rsi_bear" default:"46"`
	RSIPoints        int     `yaml:"rsi_points" default:"12"`
	RSINeutralPoints int     `yaml:"rsi_neutral_points" default:"5"`

	NearEMA20ATR float64 `yaml:"near_ema20_atr" default:"0.60"`
	NearEMA50ATR float64 `yaml:"near_ema50_atr" default:"0.95"`
	EMA20Points  int     `yaml:"ema20_points" default:"18"`
	EMA50Points  int     `yaml:"ema50_points" default:"12"`
	NoZonePoints int     `yaml:"no_zone_points" default:"3"`

	NewsMin        float64 `yaml:"news_min" default:"0.35"`
	MacroMin       float64 `yaml:"macro_min" default:"0.35"`
	FlowMin        float64 `yaml:"flow_min" default:"0.35"`
	CatalystPoints int     `yaml:"catalyst_points" default:"10"`
	BiasPoints     int     `yaml:"bias_points" default:"6"`

	LongRSIMin  float64 `yaml:"long_rsi_min" default:"52"`
	ShortRSIMax float64 `yaml:"short_rsi_max" default:"48"`
}

// Settings configure the decision engine.
type Settings struct {
	MinConfidence int        `yaml:"min_confidence" default:"80"`
	SLATRMult     float64    `yaml:"sl_atr_mult" default:"1.0"`
	TP1R          float64    `yaml:"tp1_r" default:"1.5"`
	TP2R          float64    `yaml:"tp2_r" default:"2.5"`
	Thresholds    Thresholds `yaml:"thresholds"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		TrendPoints:      30,
		MixedTrendPoints: 10,
		RSIBull:          54,
		RSIBear:          46,
		RSIPoints:        12,
		RSINeutralPoints: 5,
		NearEMA20ATR:     0.60,
		NearEMA50ATR:     0.95,
		EMA20Points:      18,
		EMA50Points:      12,
		NoZonePoints:     3,
		NewsMin:          0.35,
		MacroMin:         0.35,
		FlowMin:          0.35,
		CatalystPoints:   10,
		BiasPoints:       6,
		LongRSIMin:       52,
		ShortRSIMax:      48,
	}
}

func DefaultSettings() Settings {
	return Settings{
		MinConfidence: 80,
		SLATRMult:     1.0,
		TP1R:          1.5,
		TP2R:          2.5,
		Thresholds:    DefaultThresholds(),
	}
}
