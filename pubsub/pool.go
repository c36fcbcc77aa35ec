package pubsub

import (
	"sync/atomic"

	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
)

// Handle is a non-blocking poll on a submitted callback's completion,
// plus a blocking Wait used only while closing a subscriber or tearing
// down the broker (spec.md §4.4).
type Handle interface {
	Finished() bool
	Wait()
}

// WorkerPool executes subscriber callbacks off the broker goroutine.
// Submit must not block the caller on the callback itself; callbacks for
// different subscribers may run concurrently, but the dispatcher never
// submits a second callback for one subscriber while its Handle reports
// unfinished (spec.md §5).
type WorkerPool interface {
	Submit(fn func()) Handle
}

// futureHandle is the Handle returned by concPool. Finished is a
// non-blocking channel poll; Wait blocks until the callback returns.
type futureHandle struct {
	done chan struct{}
	rec  atomic.Pointer[panics.Recovered]
}

func newFutureHandle() *futureHandle {
	return &futureHandle{done: make(chan struct{})}
}

func (h *futureHandle) Finished() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

func (h *futureHandle) Wait() {
	<-h.done
}

// Recovered returns the panic caught while running the callback, if the
// callback panicked. Nil if it returned normally.
func (h *futureHandle) Recovered() *panics.Recovered {
	return h.rec.Load()
}

// concPool is the default WorkerPool: a sourcegraph/conc pool bounding
// concurrency, with a per-submission panics.Catcher so a panicking
// subscriber callback surfaces through its own Handle instead of
// crashing the broker goroutine or poisoning other subscribers' futures.
type concPool struct {
	p *pool.Pool
}

// NewWorkerPool returns a WorkerPool backed by goroutines bounded to
// maxConcurrency (0 = unbounded, matching the source's Qt global thread
// pool default).
func NewWorkerPool(maxConcurrency int) WorkerPool {
	p := pool.New()
	if maxConcurrency > 0 {
		p = p.WithMaxGoroutines(maxConcurrency)
	}
	return &concPool{p: p}
}

func (c *concPool) Submit(fn func()) Handle {
	h := newFutureHandle()
	c.p.Go(func() {
		defer close(h.done)
		var catcher panics.Catcher
		catcher.Try(fn)
		if r := catcher.Recovered(); r != nil {
			h.rec.Store(r)
			logger.Error("pubsub: subscriber callback panicked", "panic", r.String())
		}
	})
	return h
}
