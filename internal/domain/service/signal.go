package service

import "GoldPulse/internal/domain/models"

// FeatureAssembler turns candle history and catalysts into features.
type FeatureAssembler interface {
	Assemble(candles []models.Candle, news []models.NewsItem, macro []models.MacroEvent) models.FeatureSet
}

// DecisionEngine scores features into a decision.
type DecisionEngine interface {
	Decide(fs models.FeatureSet) models.Decision
}

// OrderBookDetector consumes snapshots and returns an alert when one fires.
type OrderBookDetector interface {
	Observe(snap models.OrderBookSnapshot) *models.OrderBookAlert
}
