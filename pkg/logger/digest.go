package logger

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Publisher ships a digest batch somewhere (kafka topic, queue).
type Publisher interface {
	PublishMessage(ctx context.Context, topic string, payload interface{}) error
}

type DigestConfig struct {
	FlushInterval time.Duration // e.g. 30s
	MaxEntries    int           // distinct entries before an early flush
	Topic         string
	Publisher     Publisher
}

// DigestEntry is one distinct error line with its repeat count.
type DigestEntry struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields"`
	Caller    string                 `json:"caller"`
	Count     int                    `json:"count"`
	FirstSeen time.Time              `json:"first_seen"`
	LastSeen  time.Time              `json:"last_seen"`
}

// Digest folds repeated error logs into counted entries and publishes them
// periodically, so a flapping upstream produces one record per interval.
type Digest struct {
	cfg     DigestConfig
	mu      sync.Mutex
	entries map[string]*DigestEntry
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewDigest(cfg DigestConfig) *Digest {
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 30 * time.Second
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 100
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Digest{
		cfg:     cfg,
		entries: make(map[string]*DigestEntry),
		ctx:     ctx,
		cancel:  cancel,
	}
	d.wg.Add(1)
	go d.loop()
	return d
}

func (d *Digest) Add(level, msg string, fields map[string]interface{}, caller string) {
	now := time.Now()
	key := digestKey(level, msg, fields, caller)

	d.mu.Lock()
	defer d.mu.Unlock()
	if e, ok := d.entries[key]; ok {
		e.Count++
		e.LastSeen = now
	} else {
		d.entries[key] = &DigestEntry{
			Level: level, Message: msg, Fields: fields, Caller: caller,
			Count: 1, FirstSeen: now, LastSeen: now,
		}
	}
	if len(d.entries) >= d.cfg.MaxEntries {
		d.flushLocked()
	}
}

// Pending returns the number of distinct entries waiting for the next flush.
func (d *Digest) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

func (d *Digest) Close() {
	d.cancel()
	d.wg.Wait()
}

func (d *Digest) loop() {
	defer d.wg.Done()
	t := time.NewTicker(d.cfg.FlushInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			d.mu.Lock()
			d.flushLocked()
			d.mu.Unlock()
		case <-d.ctx.Done():
			d.mu.Lock()
			d.flushLocked()
			d.mu.Unlock()
			return
		}
	}
}

func (d *Digest) flushLocked() {
	if len(d.entries) == 0 || d.cfg.Publisher == nil {
		return
	}
	batch := make([]DigestEntry, 0, len(d.entries))
	for _, e := range d.entries {
		batch = append(batch, *e)
	}
	d.entries = make(map[string]*DigestEntry)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := d.cfg.Publisher.PublishMessage(ctx, d.cfg.Topic, batch); err != nil {
			fmt.Fprintf(os.Stderr, "log digest publish failed: %v\n", err)
		}
	}()
}

func digestKey(level, msg string, fields map[string]interface{}, caller string) string {
	b, _ := json.Marshal(struct {
		L string                 `json:"l"`
		M string                 `json:"m"`
		F map[string]interface{} `json:"f"`
		C string                 `json:"c"`
	}{level, msg, fields, caller})
	return fmt.Sprintf("%x", sha256.Sum256(b))
}
