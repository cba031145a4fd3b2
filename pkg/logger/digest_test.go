package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu      sync.Mutex
	topic   string
	batches [][]DigestEntry
}

func (p *capturePublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topic = topic
	p.batches = append(p.batches, payload.([]DigestEntry))
	return nil
}

func (p *capturePublisher) snapshot() (string, [][]DigestEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.topic, append([][]DigestEntry(nil), p.batches...)
}

func TestDigestFoldsRepeatedErrors(t *testing.T) {
	pub := &capturePublisher{}
	d := NewDigest(DigestConfig{FlushInterval: time.Hour, MaxEntries: 10, Topic: "ops", Publisher: pub})

	l := NewWriter(&bytes.Buffer{})
	l.AttachDigest(d)

	for i := 0; i < 3; i++ {
		l.Error("fetch failed", String("source", "twelvedata"))
	}
	l.Error("fetch failed", String("source", "gdelt"))
	require.Equal(t, 2, d.Pending())

	d.Close()

	require.Eventually(t, func() bool {
		_, b := pub.snapshot()
		return len(b) == 1
	}, time.Second, 10*time.Millisecond)

	topic, batches := pub.snapshot()
	assert.Equal(t, "ops", topic)
	counts := map[string]int{}
	for _, e := range batches[0] {
		counts[e.Fields["source"].(string)] = e.Count
	}
	assert.Equal(t, 3, counts["twelvedata"])
	assert.Equal(t, 1, counts["gdelt"])
}

func TestLoggerWritesTypedFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf)
	l.Info("decision", Float64("confidence", 82.5), Int("bars", 720), Error(errors.New("boom")))

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "decision", out["message"])
	assert.Equal(t, 82.5, out["confidence"])
	assert.Equal(t, float64(720), out["bars"])
	assert.Equal(t, "boom", out["error"])
}
