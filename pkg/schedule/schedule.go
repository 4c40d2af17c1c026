// Package schedule runs recurring background tasks on robfig/cron.
//
//	s := schedule.New()
//	s.Every(2*time.Minute, "keep-alive", ping)
//	s.After(5*time.Second, "keep-alive:boot", ping)
//	s.Start()
//	defer s.Stop(ctx)
package schedule

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Task is a scheduled function. The context is cancelled by Stop.
type Task func(ctx context.Context)

// Scheduler owns a cron instance and the one-shot timers added with After.
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	names   map[cron.EntryID]string
	timers  []*time.Timer
	running sync.WaitGroup
}

// New creates a stopped Scheduler. Overlapping runs of the same entry are
// skipped.
func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DiscardLogger),
		)),
		ctx:    ctx,
		cancel: cancel,
		names:  map[cron.EntryID]string{},
	}
}

// Every runs task at a fixed interval.
func (s *Scheduler) Every(interval time.Duration, name string, task Task) {
	id := s.cron.Schedule(cron.Every(interval), cron.FuncJob(s.wrap(name, task)))
	s.mu.Lock()
	s.names[id] = name
	s.mu.Unlock()
}

// After runs task once after delay unless the scheduler stops first.
func (s *Scheduler) After(delay time.Duration, name string, task Task) {
	t := time.AfterFunc(delay, s.wrap(name, task))
	s.mu.Lock()
	s.timers = append(s.timers, t)
	s.mu.Unlock()
}

// Start begins dispatching.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("schedule: scheduler started", "entries", len(s.cron.Entries()))
}

// Stop halts new runs, cancels the task context and waits for running
// tasks until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	for _, t := range s.timers {
		t.Stop()
	}
	s.mu.Unlock()

	cronDone := s.cron.Stop()
	s.cancel()

	waited := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.running.Wait()
		close(waited)
	}()

	select {
	case <-waited:
		logger.Info("schedule: scheduler stopped")
	case <-ctx.Done():
		logger.Warn("schedule: stop timed out with tasks still running")
	}
}

// Entry describes a registered recurring task.
type Entry struct {
	Name string
	Next time.Time
}

// List returns the recurring entries ordered by name.
func (s *Scheduler) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Entry
	for _, e := range s.cron.Entries() {
		out = append(out, Entry{Name: s.names[e.ID], Next: e.Next})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Scheduler) wrap(name string, task Task) func() {
	return func() {
		if s.ctx.Err() != nil {
			return
		}
		s.running.Add(1)
		defer s.running.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("schedule: task panicked", "task", name, "panic", fmt.Sprintf("%v", r), "stack", string(debug.Stack()))
			}
		}()
		logger.Debug("schedule: running task", "task", name)
		task(s.ctx)
	}
}
