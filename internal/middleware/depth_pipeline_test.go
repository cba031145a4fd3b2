package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldPulse/internal/domain/models"
	"GoldPulse/pkg/metrics"
)

type recordingProc struct {
	books []models.Depth
	err   error
}

func (r *recordingProc) Process(_ context.Context, _ string, d models.Depth) error {
	if r.err != nil {
		return r.err
	}
	r.books = append(r.books, d)
	return nil
}

func book() models.Depth {
	return models.Depth{
		Bids: []models.DepthLevel{{Price: 2000, Qty: 1}},
		Asks: []models.DepthLevel{{Price: 2001, Qty: 1}},
	}
}

func TestDepthPipelineThrottlesPerSymbol(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	proc := &recordingProc{}
	p := NewDepthPipeline(proc, metrics.Nop{}, WithMaxRPS(2), withClock(func() time.Time { return now }))
	ctx := context.Background()

	require.NoError(t, p.Process(ctx, "PAXGUSDT", book()))
	require.NoError(t, p.Process(ctx, "PAXGUSDT", book()))
	require.NoError(t, p.Process(ctx, "XAUTUSDT", book()))
	now = now.Add(500 * time.Millisecond)
	require.NoError(t, p.Process(ctx, "PAXGUSDT", book()))

	require.Len(t, proc.books, 3)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), proc.books[0].Time, "missing time is stamped")
}

func TestDepthPipelineValidates(t *testing.T) {
	p := NewDepthPipeline(&recordingProc{}, metrics.Nop{}, WithMaxRPS(0))
	ctx := context.Background()

	cases := map[string]models.Depth{
		"empty asks":       {Bids: []models.DepthLevel{{Price: 1, Qty: 1}}},
		"zero price":       {Bids: []models.DepthLevel{{Price: 0, Qty: 1}}, Asks: []models.DepthLevel{{Price: 1, Qty: 1}}},
		"negative qty":     {Bids: []models.DepthLevel{{Price: 1, Qty: 1}}, Asks: []models.DepthLevel{{Price: 2, Qty: -1}}},
		"no levels at all": {},
	}
	for name, d := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, p.Process(ctx, "PAXGUSDT", d), ErrInvalidDepth)
		})
	}
	assert.ErrorIs(t, p.Process(ctx, "", book()), ErrInvalidDepth)
}

func TestDepthPipelineWrapsDownstreamErrors(t *testing.T) {
	boom := errors.New("clickhouse down")
	p := NewDepthPipeline(&recordingProc{err: boom}, metrics.Nop{}, WithMaxRPS(0))
	err := p.Process(context.Background(), "PAXGUSDT", book())
	assert.ErrorIs(t, err, boom)
}
