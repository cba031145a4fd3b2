package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"GoldPulse/internal/domain/models"
	domrepo "GoldPulse/internal/domain/repository"
	pkgkafka "GoldPulse/pkg/kafka"
)

// AlertSinkHandler consumes alert events from Kafka and persists them.
// Stores dedupe on event ID, so redelivery is harmless.
type AlertSinkHandler struct {
	topic   string
	store   domrepo.AlertStore
	metrics domrepo.Metrics
}

func NewAlertSinkHandler(topic string, store domrepo.AlertStore, metrics domrepo.Metrics) *AlertSinkHandler {
	return &AlertSinkHandler{topic: topic, store: store, metrics: metrics}
}

func (h *AlertSinkHandler) Topic() string { return h.topic }

func (h *AlertSinkHandler) Handle(ctx context.Context, b []byte) error {
	var ev models.AlertEvent
	if err := json.Unmarshal(b, &ev); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}

	var err error
	switch ev.Kind {
	case models.AlertKindTrade:
		var idea models.TradeIdea
		if err = json.Unmarshal(ev.Payload, &idea); err != nil {
			break
		}
		err = h.store.SaveTradeIdea(ctx, idea)
	case models.AlertKindOrderBook:
		var alert models.OrderBookAlert
		if err = json.Unmarshal(ev.Payload, &alert); err != nil {
			break
		}
		err = h.store.SaveOrderBookAlert(ctx, alert)
	default:
		h.metrics.RecordError("consumer_unknown_kind")
		return fmt.Errorf("alert sink: unknown kind %q", ev.Kind)
	}
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return fmt.Errorf("alert sink %s %s: %w", ev.Kind, ev.EventID, err)
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*AlertSinkHandler)(nil)
