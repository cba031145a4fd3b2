package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoffWithJitterStaysInRange(t *testing.T) {
	for attempt := 1; attempt <= 8; attempt++ {
		d := backoffWithJitter(100*time.Millisecond, time.Second, attempt)
		assert.Greater(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, time.Second)
	}
}

type failingHook struct{ NoopHook }

func (failingHook) BeforeHandle(ctx context.Context, _ kafka.Message) (context.Context, error) {
	return ctx, errors.New("rejected")
}

type panicHook struct{ NoopHook }

func (panicHook) BeforeHandle(context.Context, kafka.Message) (context.Context, error) {
	panic("boom")
}

func TestHookChainThreadsTraceID(t *testing.T) {
	msg := kafka.Message{Headers: []kafka.Header{{Key: "trace_id", Value: []byte("evt-1")}}}
	ctx, err := HookChain{NoopHook{}, TraceHook{}}.BeforeHandle(context.Background(), msg)
	require.NoError(t, err)
	assert.Equal(t, "evt-1", TraceIDFrom(ctx))
}

func TestHookChainStopsOnError(t *testing.T) {
	_, err := HookChain{TraceHook{}, failingHook{}}.BeforeHandle(context.Background(), kafka.Message{})
	assert.EqualError(t, err, "rejected")

	_, err = HookChain{panicHook{}}.BeforeHandle(context.Background(), kafka.Message{})
	assert.ErrorContains(t, err, "hook panic")
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)

	p, err := NewProducer(WithBrokers([]string{"localhost:9092"}), WithCompression("zstd"))
	require.NoError(t, err)
	assert.Equal(t, kafka.Zstd, p.writer.Compression)
	require.NoError(t, p.Close())
}
