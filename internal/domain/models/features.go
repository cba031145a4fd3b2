package models

// Trend is the EMA-stack ordering.
type Trend string

const (
	TrendUp    Trend = "UP"
	TrendDown  Trend = "DOWN"
	TrendMixed Trend = "MIXED"
	// TrendRange labels a neutral regime built from too little history.
	TrendRange Trend = "RANGE"
)

// VolRegime classifies current ATR against its trailing median.
type VolRegime string

const (
	VolLow    VolRegime = "LOW"
	VolNormal VolRegime = "NORMAL"
	VolHigh   VolRegime = "HIGH"
)

// Bias is the gold-specific reading of the news flow.
type Bias string

const (
	BiasBull    Bias = "BULL"
	BiasBear    Bias = "BEAR"
	BiasNeutral Bias = "NEUTRAL"
)

type Regime struct {
	Last      float64   `json:"last"`
	Trend     Trend     `json:"trend"`
	EMA20     float64   `json:"ema20"`
	EMA50     float64   `json:"ema50"`
	EMA200    float64   `json:"ema200"`
	ATR       float64   `json:"atr"`
	VolRegime VolRegime `json:"vol_regime"`
}

type Market struct {
	RSI       float64  `json:"rsi"`
	ATR       float64  `json:"atr"`
	SwingHigh *float64 `json:"swing_high"`
	SwingLow  *float64 `json:"swing_low"`
}

type Catalysts struct {
	Bias        Bias         `json:"bias"`
	NewsScore   float64      `json:"news_score"`
	MacroScore  float64      `json:"macro_score"`
	TopNews     []string     `json:"top_news"`
	MacroEvents []MacroEvent `json:"macro_events"`
}

type Flow struct {
	Score float64  `json:"flow_score"`
	Notes []string `json:"notes"`
}

// FeatureSet is everything the decision engine looks at.
type FeatureSet struct {
	Regime    Regime    `json:"regime"`
	Market    Market    `json:"market"`
	Catalysts Catalysts `json:"catalysts"`
	Flow      Flow      `json:"flow"`
}
