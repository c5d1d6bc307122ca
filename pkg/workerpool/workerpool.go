// Package workerpool runs jobs in per-key serial lanes on a bounded number of goroutines.
//
// Jobs submitted under the same key run one after another in submission order.
// Jobs under different keys run concurrently, at most MaxConcurrency at a time.
package workerpool

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrQueueFull is returned when a lane already holds MaxPending jobs.
	ErrQueueFull = errors.New("workerpool: lane queue full")

	// ErrClosed is returned after the pool context is done.
	ErrClosed = errors.New("workerpool: pool closed")
)

const (
	DefaultMaxConcurrency = 16
	DefaultMaxPending     = 32
)

// Job is a unit of work. ctx is the pool context.
type Job func(ctx context.Context)

// Options configures a Pool.
type Options[K comparable] struct {
	MaxConcurrency int
	MaxPending     int
	// OnPanic is called with the recovered value when a job panics.
	OnPanic func(ctx context.Context, key K, recovered any)
}

// Pool is a keyed serial-lane scheduler.
type Pool[K comparable] struct {
	ctx        context.Context
	sem        chan struct{}
	maxPending int
	onPanic    func(ctx context.Context, key K, recovered any)

	mu    sync.Mutex
	lanes map[K]*lane

	wg sync.WaitGroup
}

type lane struct {
	pending []Job
}

// New creates a Pool bound to ctx. Cancelling ctx stops dispatch; queued jobs are dropped.
func New[K comparable](ctx context.Context, opts Options[K]) *Pool[K] {
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = DefaultMaxConcurrency
	}
	if opts.MaxPending <= 0 {
		opts.MaxPending = DefaultMaxPending
	}
	return &Pool[K]{
		ctx:        ctx,
		sem:        make(chan struct{}, opts.MaxConcurrency),
		maxPending: opts.MaxPending,
		onPanic:    opts.OnPanic,
		lanes:      make(map[K]*lane),
	}
}

// Submit queues job on the lane for key. It never blocks.
func (p *Pool[K]) Submit(key K, job Job) error {
	if p.ctx.Err() != nil {
		return ErrClosed
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	l, ok := p.lanes[key]
	if !ok {
		l = &lane{}
		p.lanes[key] = l
	}
	if len(l.pending) >= p.maxPending {
		return ErrQueueFull
	}
	l.pending = append(l.pending, job)

	// A lane with no drainer is one that was just created.
	if !ok {
		p.wg.Add(1)
		go p.drain(key, l)
	}
	return nil
}

// Wait blocks until every lane has drained or been dropped.
func (p *Pool[K]) Wait() {
	p.wg.Wait()
}

// Lanes returns the number of active lanes.
func (p *Pool[K]) Lanes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.lanes)
}

func (p *Pool[K]) drain(key K, l *lane) {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		if len(l.pending) == 0 || p.ctx.Err() != nil {
			delete(p.lanes, key)
			p.mu.Unlock()
			return
		}
		job := l.pending[0]
		l.pending[0] = nil
		l.pending = l.pending[1:]
		p.mu.Unlock()

		select {
		case p.sem <- struct{}{}:
		case <-p.ctx.Done():
			continue
		}
		p.run(key, job)
		<-p.sem
	}
}

func (p *Pool[K]) run(key K, job Job) {
	defer func() {
		if r := recover(); r != nil && p.onPanic != nil {
			p.onPanic(p.ctx, key, r)
		}
	}()
	job(p.ctx)
}
