// Package workerpool provides a bounded goroutine pool with backpressure.
//
// The queue workers hand every popped job to a Pool so at most N jobs run at
// once; the poller blocks in SubmitWait while all workers are busy, which
// leaves further jobs in the queue backend instead of in memory.
//
//	pool := workerpool.New(4, nil)
//	defer pool.Shutdown()
//
//	if err := pool.SubmitWait(ctx, task); err != nil {
//	    // ctx cancelled or pool closed
//	}
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrPoolClosed is returned after Shutdown has been called.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// PanicHandler receives the value recovered from a panicking task.
type PanicHandler func(recovered any)

// Pool is a bounded goroutine pool.
type Pool struct {
	tasks   chan func()
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	onPanic PanicHandler
}

// New creates a Pool with size workers. A nil onPanic swallows panics.
func New(size int, onPanic PanicHandler) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		tasks:   make(chan func(), size*2),
		onPanic: onPanic,
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

// SubmitWait blocks until a slot frees up, ctx is done, or the pool closes.
func (p *Pool) SubmitWait(ctx context.Context, task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting tasks, waits for queued and in-flight tasks to
// finish, then releases the workers. Safe to call more than once.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task func()) {
	defer func() {
		if r := recover(); r != nil && p.onPanic != nil {
			p.onPanic(fmt.Sprintf("%v", r))
		}
	}()
	task()
}
