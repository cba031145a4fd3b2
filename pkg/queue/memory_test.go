package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"GoldPulse/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	Text string `json:"text"`
}

type flakyJob struct {
	failures int32
	calls    int32
	got      atomic.Value
}

func (j *flakyJob) Name() string { return "flaky" }
func (j *flakyJob) Type() string { return "note" }
func (j *flakyJob) Handle(_ context.Context, payload json.RawMessage) error {
	n := atomic.AddInt32(&j.calls, 1)
	if n <= j.failures {
		return errors.New("upstream 502")
	}
	p, err := ParsePayload[note](payload)
	if err != nil {
		return err
	}
	j.got.Store(p.Text)
	return nil
}

func TestMemoryQueueRetriesUntilSuccess(t *testing.T) {
	job := &flakyJob{failures: 2}
	q := NewMemoryQueue(logger.Nop(), &QueueConfig{RetryLimit: 3, RetryDelay: time.Millisecond}, job)
	require.NoError(t, q.Start())
	defer q.Stop(context.Background())

	require.NoError(t, q.Enqueue(context.Background(), "note", note{Text: "hello"}))
	require.Eventually(t, func() bool { return job.got.Load() == "hello" }, 2*time.Second, 5*time.Millisecond)
	assert.EqualValues(t, 3, atomic.LoadInt32(&job.calls))
	assert.Empty(t, q.DeadLetters())
}

func TestMemoryQueueDeadLettersAfterRetryLimit(t *testing.T) {
	job := &flakyJob{failures: 100}
	q := NewMemoryQueue(logger.Nop(), &QueueConfig{RetryLimit: 1, RetryDelay: time.Millisecond}, job)
	require.NoError(t, q.Start())
	defer q.Stop(context.Background())

	require.NoError(t, q.Enqueue(context.Background(), "note", note{Text: "x"}))
	require.Eventually(t, func() bool { return len(q.DeadLetters()) == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, q.DeadLetters()[0].Attempts)
}

func TestMemoryQueueRejectsUnknownType(t *testing.T) {
	q := NewMemoryQueue(logger.Nop(), nil, &flakyJob{})
	require.NoError(t, q.Start())
	defer q.Stop(context.Background())
	assert.Error(t, q.Enqueue(context.Background(), "other", nil))
}

func TestRetryDelayDoubles(t *testing.T) {
	assert.Equal(t, time.Second, retryDelay(time.Second, 1))
	assert.Equal(t, 4*time.Second, retryDelay(time.Second, 3))
}
