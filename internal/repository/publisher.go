package repository

import (
	"context"
	"fmt"

	"GoldPulse/internal/domain/models"
	domrepo "GoldPulse/internal/domain/repository"
	pkgkafka "GoldPulse/pkg/kafka"
)

// StorePublisher writes alerts straight to an AlertStore (backend "clickhouse").
type StorePublisher struct {
	store domrepo.AlertStore
}

func NewStorePublisher(store domrepo.AlertStore) *StorePublisher {
	return &StorePublisher{store: store}
}

func (p *StorePublisher) PublishTradeIdea(ctx context.Context, idea models.TradeIdea) error {
	return p.store.SaveTradeIdea(ctx, idea)
}

func (p *StorePublisher) PublishOrderBookAlert(ctx context.Context, a models.OrderBookAlert) error {
	return p.store.SaveOrderBookAlert(ctx, a)
}

// EventProducer is the slice of the Kafka producer the publisher needs.
type EventProducer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
}

// KafkaPublisher emits AlertEvent envelopes keyed by symbol (backend "kafka").
type KafkaPublisher struct {
	producer EventProducer
	topic    string
}

func NewKafkaPublisher(producer EventProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishTradeIdea(ctx context.Context, idea models.TradeIdea) error {
	ev, err := models.NewTradeIdeaEvent(idea)
	if err != nil {
		return err
	}
	return p.publish(ctx, ev)
}

func (p *KafkaPublisher) PublishOrderBookAlert(ctx context.Context, a models.OrderBookAlert) error {
	ev, err := models.NewOrderBookEvent(a)
	if err != nil {
		return err
	}
	return p.publish(ctx, ev)
}

func (p *KafkaPublisher) publish(ctx context.Context, ev models.AlertEvent) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(ev.Symbol), ev); err != nil {
		return fmt.Errorf("publish %s alert %s: %w", ev.Kind, ev.EventID, err)
	}
	return nil
}

var (
	_ domrepo.AlertPublisher = (*StorePublisher)(nil)
	_ domrepo.AlertPublisher = (*KafkaPublisher)(nil)
	_ EventProducer          = (*pkgkafka.Producer)(nil)
)
