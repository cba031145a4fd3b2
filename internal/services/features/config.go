package features

// Config holds every feature-assembly constant. Zero values are replaced
// with defaults by New.
type Config struct {
	EMAFast   int `yaml:"ema_fast" default:"20"`
	EMAMid    int `yaml:"ema_mid" default:"50"`
	EMASlow   int `yaml:"ema_slow" default:"200"`
	RSIPeriod int `yaml:"rsi_period" default:"14"`
	ATRPeriod int `yaml:"atr_period" default:"14"`

	// MinMomentumBars is the history needed before RSI/ATR leave their defaults.
	MinMomentumBars int     `yaml:"min_momentum_bars" default:"20"`
	VolMedianWindow int     `yaml:"vol_median_window" default:"240"`
	VolHighMult     float64 `yaml:"vol_high_mult" default:"1.25"`
	VolLowMult      float64 `yaml:"vol_low_mult" default:"0.85"`

	SwingLookback int `yaml:"swing_lookback" default:"240"`
	SwingMinBars  int `yaml:"swing_min_bars" default:"10"`

	NewsSaturation  float64 `yaml:"news_saturation" default:"8"`
	MacroSaturation float64 `yaml:"macro_saturation" default:"10"`
	TopN            int     `yaml:"top_n" default:"6"`

	FlowMinBars  int     `yaml:"flow_min_bars" default:"120"`
	FlowBaseline int     `yaml:"flow_baseline" default:"240"`
	FlowZ        float64 `yaml:"flow_z" default:"2.0"`
	FlowStep     float64 `yaml:"flow_step" default:"0.35"`

	BullWords  []string `yaml:"bull_words"`
	BearWords  []string `yaml:"bear_words"`
	MacroWords []string `yaml:"macro_words"`
}

var (
	defaultBullWords  = []string{"safe haven", "risk-off", "geopolitical", "conflict", "war", "sanctions", "crisis", "inflation"}
	defaultBearWords  = []string{"hawkish", "rate hike", "yields rise", "strong dollar", "dollar strength", "tightening"}
	defaultMacroWords = []string{"CPI", "PCE", "FOMC", "FED", "POWELL", "NFP", "JOBS", "INFLATION", "RATES", "YIELDS", "TREASURY"}
)

// DefaultConfig returns the production feature settings.
func DefaultConfig() Config {
	return Config{
		EMAFast:         20,
		EMAMid:          50,
		EMASlow:         200,
		RSIPeriod:       14,
		ATRPeriod:       14,
		MinMomentumBars: 20,
		VolMedianWindow: 240,
		VolHighMult:     1.25,
		VolLowMult:      0.85,
		SwingLookback:   240,
		SwingMinBars:    10,
		NewsSaturation:  8,
		MacroSaturation: 10,
		TopN:            6,
		FlowMinBars:     120,
		FlowBaseline:    240,
		FlowZ:           2.0,
		FlowStep:        0.35,
		BullWords:       defaultBullWords,
		BearWords:       defaultBearWords,
		MacroWords:      defaultMacroWords,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	setInt := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	setFloat := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}
	setInt(&c.EMAFast, d.EMAFast)
	setInt(&c.EMAMid, d.EMAMid)
	setInt(&c.EMASlow, d.EMASlow)
	setInt(&c.RSIPeriod, d.RSIPeriod)
	setInt(&c.ATRPeriod, d.ATRPeriod)
	setInt(&c.MinMomentumBars, d.MinMomentumBars)
	setInt(&c.VolMedianWindow, d.VolMedianWindow)
	setFloat(&c.VolHighMult, d.VolHighMult)
	setFloat(&c.VolLowMult, d.VolLowMult)
	setInt(&c.SwingLookback, d.SwingLookback)
	setInt(&c.SwingMinBars, d.SwingMinBars)
	setFloat(&c.NewsSaturation, d.NewsSaturation)
	setFloat(&c.MacroSaturation, d.MacroSaturation)
	setInt(&c.TopN, d.TopN)
	setInt(&c.FlowMinBars, d.FlowMinBars)
	setInt(&c.FlowBaseline, d.FlowBaseline)
	setFloat(&c.FlowZ, d.FlowZ)
	setFloat(&c.FlowStep, d.FlowStep)
	if len(c.BullWords) == 0 {
		c.BullWords = d.BullWords
	}
	if len(c.BearWords) == 0 {
		c.BearWords = d.BearWords
	}
	if len(c.MacroWords) == 0 {
		c.MacroWords = d.MacroWords
	}
	return c
}
