package queue

import (
	"context"
	"encoding/json"
)

// Job defines a queue job handler.
type Job interface {
	// Name identifies the job in logs.
	Name() string

	// Type is the message type routed to this job.
	Type() string

	// Handle processes one message payload. A returned error schedules a retry.
	Handle(ctx context.Context, payload json.RawMessage) error
}

// Publisher enqueues messages for a registered job type.
type Publisher interface {
	Enqueue(ctx context.Context, msgType string, payload interface{}) error
}

// Queue is a Publisher with a worker lifecycle.
type Queue interface {
	Publisher
	Start() error
	Stop(ctx context.Context) error
}
