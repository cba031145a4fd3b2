package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterBurstThenRefill(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(2, 60)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("chat"))
	assert.True(t, l.Allow("chat"))
	assert.False(t, l.Allow("chat"))
	assert.True(t, l.Allow("other"), "buckets are per key")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("chat"))
	assert.False(t, l.Allow("chat"))
}

func TestLimiterWaitHonoursContext(t *testing.T) {
	l := New(1, 0.001)
	assert.NoError(t, l.Wait(context.Background(), "k"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Wait(ctx, "k"), context.DeadlineExceeded)
}
