// Package worker runs model inference on a fixed set of goroutines, apart
// from the goroutines accepting requests.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
)

var ErrPoolClosed = errors.New("worker pool is closed")

type Task func(ctx context.Context) error

type job struct {
	ctx    context.Context
	task   Task
	result chan error
}

type Pool struct {
	mu     sync.RWMutex
	closed bool
	queue  chan job
	wg     sync.WaitGroup
	size   int
}

// DefaultSize is the number of workers used when none is configured.
func DefaultSize() int {
	return min(max(runtime.NumCPU(), 1), 8)
}

// NewPool starts size workers reading from a queue of queueSize pending tasks.
func NewPool(size, queueSize int) *Pool {
	if size <= 0 {
		size = DefaultSize()
	}
	if queueSize < 0 {
		queueSize = 0
	}
	p := &Pool{
		queue: make(chan job, queueSize),
		size:  size,
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

func (p *Pool) Size() int { return p.size }

// Do runs task on a worker and waits for it. If ctx ends first Do returns
// ctx.Err(); a task already running is left to finish on its own.
func (p *Pool) Do(ctx context.Context, task Task) error {
	j := job{ctx: ctx, task: task, result: make(chan error, 1)}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrPoolClosed
	}
	select {
	case p.queue <- j:
		p.mu.RUnlock()
	case <-ctx.Done():
		p.mu.RUnlock()
		return ctx.Err()
	}

	select {
	case err := <-j.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks and waits for queued ones to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pool) run() {
	defer p.wg.Done()
	for j := range p.queue {
		if err := j.ctx.Err(); err != nil {
			j.result <- err
			continue
		}
		j.result <- execute(j.ctx, j.task)
	}
}

func execute(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in inference task: %v", r)
		}
	}()
	return task(ctx)
}
