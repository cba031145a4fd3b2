package models

// Requests for the HTTP API. Defined in domain for reuse by handlers and tests.

type RiskPlanRequest struct {
	Direction Direction `json:"direction" validate:"required,oneof=LONG SHORT"`
	EntryMid  float64   `json:"entry_mid" validate:"gt=0"`
	ATR       float64   `json:"atr" validate:"gt=0"`
	SLATRMult float64   `json:"sl_atr_mult" default:"1.0" validate:"gt=0"`
	TP1R      float64   `json:"tp1_r" default:"1.5" validate:"gt=0"`
	TP2R      float64   `json:"tp2_r" default:"2.5" validate:"gtfield=TP1R"`
}

type AlertsRequest struct {
	Kind  string `query:"kind" json:"kind" default:"orderbook" validate:"oneof=trade orderbook"`
	Limit int    `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=500"`
}

type OrderBookStateRequest struct {
	Symbol string `query:"symbol" json:"symbol"`
}
