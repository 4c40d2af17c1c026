package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// ErrQueueFull is returned by MemoryDriver.Push when the buffer is full.
var ErrQueueFull = errors.New("queue: memory buffer is full")

// MemoryDriver is an in-process, channel-backed driver. Jobs do not survive
// a restart.
type MemoryDriver struct {
	ch chan []byte

	mu     sync.Mutex
	timers map[*time.Timer]struct{}
	closed bool
}

// NewMemoryDriver creates an in-memory queue with a buffer of 1000 jobs.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{
		ch:     make(chan []byte, 1000),
		timers: map[*time.Timer]struct{}{},
	}
}

func (d *MemoryDriver) Push(payload []byte) error {
	select {
	case d.ch <- payload:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *MemoryDriver) Pop(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case payload := <-d.ch:
		return payload, nil
	}
}

// PushDelayed holds payload on a timer. Pending timers are dropped by Close.
func (d *MemoryDriver) PushDelayed(payload []byte, delay time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errors.New("queue: memory driver closed")
	}

	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		d.mu.Lock()
		delete(d.timers, t)
		d.mu.Unlock()
		if err := d.Push(payload); err != nil {
			logger.Error("queue: delayed job dropped", "bytes", len(payload), "error", err)
		}
	})
	d.timers[t] = struct{}{}
	return nil
}

// Pending reports how many delayed payloads have not been released yet.
func (d *MemoryDriver) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Close cancels every pending delayed payload.
func (d *MemoryDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	for t := range d.timers {
		t.Stop()
		delete(d.timers, t)
	}
	return nil
}
