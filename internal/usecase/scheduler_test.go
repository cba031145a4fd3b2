package usecase

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldPulse/pkg/metrics"
)

type countingTask struct {
	name    string
	runs    int32
	active  int32
	overlap int32
	hold    chan struct{}
}

func (c *countingTask) Name() string { return c.name }

func (c *countingTask) Run(ctx context.Context) error {
	if atomic.AddInt32(&c.active, 1) > 1 {
		atomic.StoreInt32(&c.overlap, 1)
	}
	defer atomic.AddInt32(&c.active, -1)
	atomic.AddInt32(&c.runs, 1)
	if c.hold != nil {
		select {
		case <-c.hold:
		case <-ctx.Done():
		}
	}
	return nil
}

type panickyTask struct{ runs int32 }

func (p *panickyTask) Name() string { return "panicky" }
func (p *panickyTask) Run(context.Context) error {
	atomic.AddInt32(&p.runs, 1)
	panic("boom")
}

func TestSchedulerRunsImmediatelyAndRepeats(t *testing.T) {
	s := NewScheduler(metrics.Nop{})
	task := &countingTask{name: "tick"}
	s.Every(10*time.Millisecond, task)
	s.Every(0, &countingTask{name: "disabled"})
	assert.Equal(t, []string{"tick"}, s.Tasks())

	s.Start(context.Background())
	require.Eventually(t, func() bool { return atomic.LoadInt32(&task.runs) >= 3 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))
}

func TestSchedulerNeverOverlapsATask(t *testing.T) {
	s := NewScheduler(metrics.Nop{})
	task := &countingTask{name: "slow", hold: make(chan struct{})}
	s.Every(time.Millisecond, task)
	s.Start(context.Background())

	require.Eventually(t, func() bool { return atomic.LoadInt32(&task.runs) == 1 }, time.Second, time.Millisecond)
	ran, err := s.RunNow(context.Background(), "slow")
	require.NoError(t, err)
	assert.False(t, ran, "a running task is not started twice")

	time.Sleep(20 * time.Millisecond)
	assert.EqualValues(t, 1, atomic.LoadInt32(&task.runs), "ticks during a run are coalesced")

	close(task.hold)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&task.runs) >= 2 }, time.Second, time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))
	assert.EqualValues(t, 0, atomic.LoadInt32(&task.overlap))
}

func TestSchedulerSurvivesPanics(t *testing.T) {
	s := NewScheduler(metrics.Nop{})
	p := &panickyTask{}
	s.Every(5*time.Millisecond, p)
	s.Start(context.Background())
	require.Eventually(t, func() bool { return atomic.LoadInt32(&p.runs) >= 2 }, time.Second, time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))
}

func TestSchedulerRunNowUnknownTask(t *testing.T) {
	s := NewScheduler(metrics.Nop{})
	ran, err := s.RunNow(context.Background(), "missing")
	assert.False(t, ran)
	assert.ErrorIs(t, err, ErrUnknownTask)
}
