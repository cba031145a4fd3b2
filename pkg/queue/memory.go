package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"GoldPulse/pkg/logger"
)

// MemoryQueue is the single-process counterpart of RedisQueue, used when
// Redis is not configured. Messages do not survive a restart.
type MemoryQueue struct {
	logger *logger.Logger
	config *QueueConfig
	jobs   map[string]Job
	ch     chan Message

	mu      sync.RWMutex
	running bool
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	dead    []Message
}

// NewMemoryQueue creates an in-process queue.
func NewMemoryQueue(lgr *logger.Logger, config *QueueConfig, jobs ...Job) *MemoryQueue {
	if config == nil {
		config = &QueueConfig{}
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 256
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 10 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	q := &MemoryQueue{
		logger: lgr,
		config: config,
		jobs:   make(map[string]Job),
		ch:     make(chan Message, config.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, j := range jobs {
		q.jobs[j.Type()] = j
	}
	return q
}

// Start launches the workers.
func (q *MemoryQueue) Start() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		return fmt.Errorf("queue already running")
	}
	q.running = true
	for i := 0; i < q.config.Workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.logger.Info("memory queue started", logger.Int("workers", q.config.Workers))
	return nil
}

// Enqueue implements Publisher. It fails fast when the buffer is full.
func (q *MemoryQueue) Enqueue(_ context.Context, msgType string, payload interface{}) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if !q.running {
		return fmt.Errorf("queue not running")
	}
	if _, ok := q.jobs[msgType]; !ok {
		return fmt.Errorf("no job registered for type: %s", msgType)
	}
	msg, err := newMessage(msgType, payload)
	if err != nil {
		return err
	}
	select {
	case q.ch <- msg:
		return nil
	default:
		return fmt.Errorf("queue full")
	}
}

// Stop cancels pending retries and waits for the workers.
func (q *MemoryQueue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return nil
	}
	q.running = false
	q.cancel()
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return fmt.Errorf("timeout: %w", ctx.Err())
	case <-done:
		return nil
	}
}

// DeadLetters returns messages that exhausted their retries.
func (q *MemoryQueue) DeadLetters() []Message {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return append([]Message(nil), q.dead...)
}

func (q *MemoryQueue) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case msg := <-q.ch:
			q.process(msg)
		}
	}
}

func (q *MemoryQueue) process(msg Message) {
	job := q.jobs[msg.Type]
	err := job.Handle(q.ctx, msg.Payload)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}

	msg.Attempts++
	q.logger.Warn("queue job failed",
		logger.String("id", msg.ID),
		logger.String("job", job.Name()),
		logger.Int("attempt", msg.Attempts),
		logger.Error(err))
	if msg.Attempts > q.config.RetryLimit {
		q.mu.Lock()
		q.dead = append(q.dead, msg)
		q.mu.Unlock()
		return
	}

	delay := retryDelay(q.config.RetryDelay, msg.Attempts)
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-q.ctx.Done():
		case <-t.C:
			select {
			case q.ch <- msg:
			case <-q.ctx.Done():
			}
		}
	}()
}

var _ Queue = (*MemoryQueue)(nil)
