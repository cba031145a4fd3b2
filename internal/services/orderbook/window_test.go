package orderbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollingWindowZAgainstPriorSamples(t *testing.T) {
	w := NewRollingWindow(48, 10)
	for i := 0; i < 40; i++ {
		if i%2 == 0 {
			w.Push(950_000)
		} else {
			w.Push(1_050_000)
		}
	}
	assert.InDelta(t, 50_000, w.Std(), 1e-6)
	assert.InDelta(t, -10.0, w.Z(500_000), 1e-9)
	assert.Equal(t, 40, w.Len(), "Z must not ingest the scored value")
}

func TestRollingWindowNeedsMinSamples(t *testing.T) {
	w := NewRollingWindow(48, 10)
	for i := 0; i < 9; i++ {
		w.Push(float64(i))
	}
	assert.Equal(t, 0.0, w.Z(100))
	assert.Equal(t, 0.0, w.Std())

	w.Push(9)
	assert.NotEqual(t, 0.0, w.Z(100))
}

func TestRollingWindowFlatIsZero(t *testing.T) {
	w := NewRollingWindow(48, 10)
	for i := 0; i < 20; i++ {
		w.Push(3)
	}
	assert.Equal(t, 0.0, w.Z(1e9))
}

func TestRollingWindowEvictsOldest(t *testing.T) {
	w := NewRollingWindow(48, 10)
	for i := 0; i < 60; i++ {
		w.Push(float64(i))
	}
	vals := w.Values()
	assert.Len(t, vals, 48)
	assert.Equal(t, 12.0, vals[0])
	assert.Equal(t, 59.0, vals[47])
}

func TestConfirmBufferThreeOfFive(t *testing.T) {
	c := NewConfirmBuffer(5, 3)
	for _, v := range []bool{true, false, true, true, false} {
		c.Push(v)
	}
	assert.True(t, c.Confirmed())
	assert.Equal(t, 3, c.Count())

	c.Push(false)
	c.Push(false)
	// last five: true, true, false, false, false
	assert.Equal(t, 2, c.Count())
	assert.False(t, c.Confirmed())
}
