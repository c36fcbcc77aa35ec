package pubsub

import (
	"sync"
	"time"
)

// defaultPollInterval is the timed wait the dispatch loop uses to come
// back and check for finished callbacks while it believes work is still
// in flight (spec.md §4.3).
const defaultPollInterval = 100 * time.Millisecond

// Options configures a Broker. The zero value is a usable default:
// unbounded per-topic buffers and an unbounded worker pool.
type Options struct {
	// MaxBuffer caps every topic's shared buffer (0 = unbounded).
	MaxBuffer int
	// Concurrency bounds the default worker pool (0 = unbounded). Has no
	// effect if Pool is set.
	Concurrency int
	// PollInterval overrides the dispatch loop's timed re-check wait
	// (<=0 uses the 100ms default from spec.md §4.3).
	PollInterval time.Duration
	// Pool overrides the default sourcegraph/conc-backed WorkerPool.
	Pool WorkerPool
}

// Broker is the single dedicated dispatch loop draining every topic's
// buffered messages onto a worker pool, guarded by one mutex shared
// across the registry and all per-channel operations (spec.md §5). The
// zero value is not usable; construct with New.
type Broker struct {
	mu       sync.Mutex
	reg      *registry
	wake     chan struct{}
	stop     chan struct{}
	done     chan struct{}
	running  bool
	pollWait time.Duration
}

// New constructs a locally-owned Broker. Callers own its lifetime:
// spec.md §9 deliberately rejects implicit initialize-on-first-use, so
// there is no package-level default instance here — see package facade
// for an explicit, opt-in process-wide singleton.
func New(opts Options) *Broker {
	pool := opts.Pool
	if pool == nil {
		pool = NewWorkerPool(opts.Concurrency)
	}
	poll := opts.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}
	return &Broker{
		reg:      newRegistry(pool, opts.MaxBuffer),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		pollWait: poll,
	}
}

// Run starts the broker's dedicated dispatch goroutine. Calling Run on
// an already-running broker is a no-op.
func (b *Broker) Run() {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return
	}
	b.running = true
	b.done = make(chan struct{})
	stop := b.stop
	b.mu.Unlock()

	go b.loop(stop, b.done)
}

func (b *Broker) loop(stop, done chan struct{}) {
	defer close(done)
	processing := false
	for {
		if processing {
			select {
			case <-b.wake:
			case <-time.After(b.pollWait):
			case <-stop:
				return
			}
		} else {
			select {
			case <-b.wake:
			case <-stop:
				return
			}
		}

		select {
		case <-stop:
			return
		default:
		}

		b.mu.Lock()
		processing = b.reg.dispatchOnce()
		b.mu.Unlock()
	}
}

// Stop signals the dispatch loop, joins it, and waits for any callback
// that was in flight at the moment of the stop request to finish. It
// does not cancel in-flight callbacks — they run to completion
// (spec.md §5, §8 scenario 6). Idempotent: stopping a broker that is not
// running is a no-op. A stopped Broker can be Run again.
func (b *Broker) Stop() {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return
	}
	b.running = false
	close(b.stop)
	done := b.done
	b.mu.Unlock()

	<-done

	b.mu.Lock()
	b.reg.waitAllInFlight()
	b.stop = make(chan struct{})
	b.mu.Unlock()
}

// notify wakes the dispatch loop if it is parked waiting for work. It
// never blocks: the wake channel is buffered to depth 1 and a pending
// wake is as good as two.
func (b *Broker) notify() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}
