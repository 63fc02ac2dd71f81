// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent, reusable worker pool with a
// scoped spawn and join-all primitive. A Pool is created once and reused
// across many blur calls, so the two waves of every call run on warm
// goroutines instead of spawning fresh ones.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	for _, frame := range frames {
//	    pool.Run(len(bands), func(i int) {
//	        process(bands[i])
//	    })
//	}
//
// Run and ParallelFor must not be called from inside a task of the same
// pool: the inner call would wait for workers that are busy running the
// outer one.
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent worker pool that can be reused across many parallel
// operations. Workers are spawned once at creation and reused.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool

	// sendMu is held for reading while Run queues a scope and for writing
	// while Close closes workC.
	sendMu sync.RWMutex
}

// workItem represents a single task of a scope.
type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New creates a new worker pool with the specified number of workers.
// Workers are spawned immediately and persist until Close is called.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan workItem, numWorkers*2),
	}
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the worker pool. All pending work will complete.
// Calling Close multiple times is safe, and so is calling it while other
// goroutines are inside Run: those scopes either finish on the workers or
// run inline.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.sendMu.Lock()
		p.closed.Store(true)
		close(p.workC)
		p.sendMu.Unlock()
	})
}

// Closed reports whether Close has been called.
func (p *Pool) Closed() bool {
	return p.closed.Load()
}

// Run executes fn(i) for every i in [0, n) and blocks until all calls have
// returned. Tasks are queued in index order; there is no work stealing.
//
// If any task panics, the remaining tasks still run to completion and the
// first recovered value is re-panicked on the calling goroutine after the
// join, so the caller can recover it like a local panic.
func (p *Pool) Run(n int, fn func(i int)) {
	if n <= 0 {
		return
	}

	var pv panicValue
	p.sendMu.RLock()
	if n == 1 || p.closed.Load() {
		p.sendMu.RUnlock()
		// Inline, but with the same panic-after-join contract.
		for i := range n {
			pv.call(func() { fn(i) })
		}
		pv.repanic()
		return
	}

	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		p.workC <- workItem{
			fn:      func() { pv.call(func() { fn(i) }) },
			barrier: &wg,
		}
	}
	p.sendMu.RUnlock()
	wg.Wait()
	pv.repanic()
}

// ParallelFor splits [0, n) into min(NumWorkers, n) contiguous ranges
// [i*n/w, (i+1)*n/w) and runs fn once per range. Blocks until all ranges
// complete. Panics propagate as in Run.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := min(p.numWorkers, n)
	p.Run(workers, func(i int) {
		fn(i*n/workers, (i+1)*n/workers)
	})
}

// panicValue records the first panic raised by the tasks of one scope.
type panicValue struct {
	mu  sync.Mutex
	val any
	set bool
}

func (pv *panicValue) call(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			pv.mu.Lock()
			if !pv.set {
				pv.val, pv.set = r, true
			}
			pv.mu.Unlock()
		}
	}()
	fn()
}

func (pv *panicValue) repanic() {
	pv.mu.Lock()
	val, set := pv.val, pv.set
	pv.mu.Unlock()
	if set {
		panic(val)
	}
}
