package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"GoldPulse/internal/domain/models"
	domrepo "GoldPulse/internal/domain/repository"
	pkgcache "GoldPulse/pkg/cache"
	applogger "GoldPulse/pkg/logger"
	"GoldPulse/pkg/queue"
)

// DeliveryType routes delivery messages to DeliveryJob.
const DeliveryType = "telegram.send"

const sentMarkTTL = 24 * time.Hour

// Delivery is the queued notification payload.
type Delivery struct {
	EventID string           `json:"event_id"`
	Kind    models.AlertKind `json:"kind"`
	Text    string           `json:"text"`
}

// Deliverer hands rendered alerts to the delivery queue.
type Deliverer interface {
	Deliver(ctx context.Context, d Delivery) error
}

// QueueDeliverer enqueues deliveries. A nil publisher drops them, which is
// how a disabled notifier is expressed.
type QueueDeliverer struct {
	pub queue.Publisher
}

func NewQueueDeliverer(pub queue.Publisher) *QueueDeliverer {
	return &QueueDeliverer{pub: pub}
}

func (q *QueueDeliverer) Deliver(ctx context.Context, d Delivery) error {
	if q == nil || q.pub == nil {
		return nil
	}
	if err := q.pub.Enqueue(ctx, DeliveryType, d); err != nil {
		return fmt.Errorf("enqueue delivery %s: %w", d.EventID, err)
	}
	return nil
}

// DeliveryJob sends queued messages through the notifier exactly once per
// event ID while the sent mark lives.
type DeliveryJob struct {
	notifier domrepo.Notifier
	locks    pkgcache.Service
	metrics  domrepo.Metrics
	logger   *applogger.Logger
}

func NewDeliveryJob(notifier domrepo.Notifier, locks pkgcache.Service, metrics domrepo.Metrics) *DeliveryJob {
	return &DeliveryJob{notifier: notifier, locks: locks, metrics: metrics, logger: applogger.Nop()}
}

func (j *DeliveryJob) SetLogger(l *applogger.Logger) {
	if l != nil {
		j.logger = l
	}
}

func (j *DeliveryJob) Name() string { return "telegram_delivery" }
func (j *DeliveryJob) Type() string { return DeliveryType }

func (j *DeliveryJob) Handle(ctx context.Context, payload json.RawMessage) error {
	d, err := queue.ParsePayload[Delivery](payload)
	if err != nil {
		return err
	}

	key := pkgcache.Key("delivery", d.EventID)
	if j.locks != nil && d.EventID != "" {
		ok, err := j.locks.TryLock(ctx, key, sentMarkTTL)
		if err != nil {
			return fmt.Errorf("delivery lock: %w", err)
		}
		if !ok {
			j.logger.Debug("delivery already sent", applogger.String("event_id", d.EventID))
			return nil
		}
	}

	if err := j.notifier.Send(ctx, d.Text); err != nil {
		j.metrics.RecordError("telegram_send")
		if j.locks != nil && d.EventID != "" {
			_ = j.locks.Unlock(ctx, key)
		}
		return fmt.Errorf("send %s %s: %w", d.Kind, d.EventID, err)
	}
	j.logger.Info("delivered", applogger.String("kind", string(d.Kind)), applogger.String("event_id", d.EventID))
	return nil
}

var (
	_ queue.Job = (*DeliveryJob)(nil)
	_ Deliverer = (*QueueDeliverer)(nil)
)
