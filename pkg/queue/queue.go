// Package queue runs background jobs, most importantly Telegram deliveries,
// outside the request that triggered them.
//
// Usage:
//
//	type PingJob struct{ URL string }
//	func (j *PingJob) Handle(ctx context.Context) error { ... }
//
//	q := queue.New(queue.NewMemoryDriver(), queue.WithMaxAttempts(3))
//	q.Register(func() queue.Job { return &PingJob{} })
//	q.StartWorkers(ctx, 2)
//
//	q.Dispatch(&PingJob{URL: "http://localhost:3001/api/ping"})
//	q.DispatchAfter(&PingJob{}, 4*time.Second)
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

// Job is the interface every queued job must satisfy. Jobs are serialised
// to JSON, so only exported fields survive the trip through the driver.
type Job interface {
	Handle(ctx context.Context) error
}

// Driver is the queue storage backend.
type Driver interface {
	Push(payload []byte) error
	// Pop blocks until a payload is ready. A nil payload with a nil error
	// means the wait timed out and the caller should poll again.
	Pop(ctx context.Context) ([]byte, error)
}

// Delayer is implemented by drivers that can hold a payload until its run
// time themselves (Redis sorted set, in-memory timers).
type Delayer interface {
	PushDelayed(payload []byte, delay time.Duration) error
}

// ErrUnknownJob is returned when dispatching a job type that was never
// registered; the worker could not decode it.
var ErrUnknownJob = errors.New("queue: job type not registered")

// Option configures a Manager.
type Option func(*Manager)

// WithMaxAttempts sets how many times a job runs before it is recorded as
// failed. Values below 1 mean a single attempt.
func WithMaxAttempts(n int) Option {
	return func(m *Manager) {
		if n < 1 {
			n = 1
		}
		m.maxAttempts = n
	}
}

// WithBackoff overrides the wait between attempts.
func WithBackoff(fn func(attempt int) time.Duration) Option {
	return func(m *Manager) { m.backoff = fn }
}

// Manager owns the driver, the job registry and the worker pool.
type Manager struct {
	mu          sync.RWMutex
	driver      Driver
	registry    map[string]func() Job
	maxAttempts int
	backoff     func(attempt int) time.Duration
	db          *gorm.DB

	wg sync.WaitGroup
}

// New creates a Manager on top of driver.
func New(driver Driver, opts ...Option) *Manager {
	m := &Manager{
		driver:      driver,
		registry:    map[string]func() Job{},
		maxAttempts: 1,
		backoff:     func(attempt int) time.Duration { return time.Duration(attempt) * time.Second },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register makes a job type available for decoding. The type name is taken
// from the value the factory returns.
func (m *Manager) Register(factory func() Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry[typeName(factory())] = factory
}

// UseDB persists jobs that exhaust their attempts to the failed_jobs table.
func (m *Manager) UseDB(db *gorm.DB) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.db = db
}

// Driver returns the backing driver.
func (m *Manager) Driver() Driver { return m.driver }

// ------------------- Dispatch -------------------

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatch pushes job onto the queue immediately.
func (m *Manager) Dispatch(job Job) error {
	raw, err := m.encode(job)
	if err != nil {
		return err
	}
	return m.driver.Push(raw)
}

// DispatchAfter makes job available to workers once delay has elapsed.
// Drivers without delay support fall back to a timer in this process.
func (m *Manager) DispatchAfter(job Job, delay time.Duration) error {
	if delay <= 0 {
		return m.Dispatch(job)
	}

	raw, err := m.encode(job)
	if err != nil {
		return err
	}

	if d, ok := m.driver.(Delayer); ok {
		return d.PushDelayed(raw, delay)
	}

	time.AfterFunc(delay, func() {
		if err := m.driver.Push(raw); err != nil {
			logger.Error("queue: delayed dispatch failed", "type", typeName(job), "error", err)
		}
	})
	return nil
}

func (m *Manager) encode(job Job) ([]byte, error) {
	name := typeName(job)

	m.mu.RLock()
	_, known := m.registry[name]
	m.mu.RUnlock()
	if !known {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("queue: marshal job %s: %w", name, err)
	}

	env, err := json.Marshal(envelope{Type: name, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("queue: marshal envelope: %w", err)
	}
	return env, nil
}

func typeName(job Job) string { return fmt.Sprintf("%T", job) }

// ------------------- Workers -------------------

// StartWorkers launches a poller feeding a pool of n workers. Processing
// stops when ctx is cancelled; Wait blocks until in-flight jobs finish.
func (m *Manager) StartWorkers(ctx context.Context, n int) {
	pool := workerpool.New(n, func(r any) {
		logger.Error("queue: job panicked", "panic", r)
	})

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer pool.Shutdown()
		m.poll(ctx, pool)
	}()

	logger.Info("queue: workers started", "count", n)
}

// Wait blocks until every poller started by StartWorkers has drained.
func (m *Manager) Wait() { m.wg.Wait() }

func (m *Manager) poll(ctx context.Context, pool *workerpool.Pool) {
	for {
		if ctx.Err() != nil {
			return
		}

		raw, err := m.driver.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("queue: pop failed", "error", err)
			sleep(ctx, 500*time.Millisecond)
			continue
		}
		if raw == nil {
			continue
		}

		if err := pool.SubmitWait(ctx, func() { m.process(ctx, raw) }); err != nil {
			// ctx cancelled while every worker was busy; put the job back.
			if perr := m.driver.Push(raw); perr != nil {
				logger.Error("queue: requeue on shutdown failed", "error", perr)
			}
			return
		}
	}
}

func (m *Manager) process(ctx context.Context, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()
	if !ok {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
		return
	}

	m.runWithRetry(ctx, job, env)
}

func (m *Manager) runWithRetry(ctx context.Context, job Job, env envelope) {
	var lastErr error
	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		start := time.Now()
		err := job.Handle(ctx)
		if err == nil {
			metrics.RecordQueueJob(env.Type, "success", start)
			logger.Debug("queue: job processed", "type", env.Type)
			return
		}

		lastErr = err
		metrics.RecordQueueJob(env.Type, "failed", start)

		if attempt < m.maxAttempts {
			logger.Warn("queue: job failed, retrying", "type", env.Type, "attempt", attempt, "error", err)
			if !sleep(ctx, m.backoff(attempt)) {
				break
			}
		}
	}

	m.persistFailed(ctx, env, lastErr)
	logger.Error("queue: job failed", "type", env.Type, "attempts", m.maxAttempts, "error", lastErr)
}

// sleep waits for d or until ctx is done; it reports whether d elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
