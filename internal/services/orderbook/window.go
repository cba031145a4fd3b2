package orderbook

import (
	"math"

	"GoldPulse/pkg/util"
)

const minSigma = 1e-12

// RollingWindow is a fixed-capacity FIFO of samples; the oldest is evicted
// first.
type RollingWindow struct {
	buf        []float64
	capacity   int
	minSamples int
}

func NewRollingWindow(capacity, minSamples int) *RollingWindow {
	if capacity <= 0 {
		capacity = 1
	}
	return &RollingWindow{buf: make([]float64, 0, capacity), capacity: capacity, minSamples: minSamples}
}

func (w *RollingWindow) Push(v float64) {
	if len(w.buf) == w.capacity {
		copy(w.buf, w.buf[1:])
		w.buf = w.buf[:len(w.buf)-1]
	}
	w.buf = append(w.buf, v)
}

func (w *RollingWindow) Len() int { return len(w.buf) }

func (w *RollingWindow) Values() []float64 {
	return append([]float64(nil), w.buf...)
}

// Std is the population standard deviation, 0 until minSamples are held.
func (w *RollingWindow) Std() float64 {
	if len(w.buf) < w.minSamples {
		return 0
	}
	return util.StdDev(w.buf, 0)
}

// Z scores v against the current contents without adding it.
func (w *RollingWindow) Z(v float64) float64 {
	if len(w.buf) < w.minSamples || len(w.buf) == 0 {
		return 0
	}
	sd := util.StdDev(w.buf, 0)
	if sd < minSigma || math.IsNaN(sd) {
		return 0
	}
	return (v - util.Mean(w.buf)) / sd
}

// ConfirmBuffer is a fixed-size boolean FIFO that reports whether an
// event recurred often enough.
type ConfirmBuffer struct {
	flags []bool
	size  int
	hits  int
}

func NewConfirmBuffer(size, hits int) *ConfirmBuffer {
	if size <= 0 {
		size = 1
	}
	return &ConfirmBuffer{flags: make([]bool, 0, size), size: size, hits: hits}
}

func (c *ConfirmBuffer) Push(v bool) {
	if len(c.flags) == c.size {
		copy(c.flags, c.flags[1:])
		c.flags = c.flags[:len(c.flags)-1]
	}
	c.flags = append(c.flags, v)
}

func (c *ConfirmBuffer) Count() int {
	n := 0
	for _, f := range c.flags {
		if f {
			n++
		}
	}
	return n
}

func (c *ConfirmBuffer) Confirmed() bool {
	return c.Count() >= c.hits
}
