package handler

import (
	"sync"
	"time"

	"github.com/logtools-dev/logtools/core"
	"github.com/logtools-dev/logtools/metrics"
)

// asyncQueue is the bounded-queue dispatch shared by the asynchronous
// handlers. enqueue copies the entry into a pooled clone the queue
// owns, so the caller keeps ownership of its entry and may recycle it
// the moment enqueue returns, even while a sibling handler in a
// fan-out is still reading it. Clones are enqueued according to a
// per-level OverflowPolicy and consumed by a single worker goroutine;
// write failures go to the handler error output so the worker never
// stops.
type asyncQueue struct {
	queue        chan *core.Entry
	wg           sync.WaitGroup
	closed       chan struct{}
	closeOnce    sync.Once
	policy       map[core.Level]OverflowPolicy
	blockTimeout time.Duration
	drainTimeout time.Duration
	stats        *Stats
	write        func(*core.Entry) error
}

func newAsyncQueue(size int, policy map[core.Level]OverflowPolicy,
	blockTimeout, drainTimeout time.Duration, stats *Stats,
	write func(*core.Entry) error) *asyncQueue {

	if size <= 0 {
		size = 1000
	}
	if policy == nil {
		policy = DefaultLevelPolicy()
	}
	if blockTimeout == 0 {
		blockTimeout = 100 * time.Millisecond
	}
	if drainTimeout == 0 {
		drainTimeout = 5 * time.Second
	}

	q := &asyncQueue{
		queue:        make(chan *core.Entry, size),
		closed:       make(chan struct{}),
		policy:       policy,
		blockTimeout: blockTimeout,
		drainTimeout: drainTimeout,
		stats:        stats,
		write:        write,
	}
	q.wg.Add(1)
	go q.run()
	return q
}

// enqueue hands a clone of the entry to the worker, applying the
// overflow policy for its level when the queue is full.
func (q *asyncQueue) enqueue(entry *core.Entry) error {
	policy, ok := q.policy[entry.Level]
	if !ok {
		policy = DropNewest
	}

	clone := entry.Clone()

	select {
	case <-q.closed:
		// Worker is gone; write inline so the entry is not lost.
		return q.writeOwned(clone)
	default:
	}

	select {
	case q.queue <- clone:
		return nil
	default:
	}

	// Queue is full.
	switch policy {
	case Block:
		timer := time.NewTimer(q.blockTimeout)
		defer timer.Stop()
		select {
		case q.queue <- clone:
			return nil
		case <-timer.C:
			// Timeout - fall back to a synchronous write
			q.stats.IncrementBlocked()
			return q.writeOwned(clone)
		case <-q.closed:
			return q.writeOwned(clone)
		}

	case DropOldest:
		select {
		case old := <-q.queue:
			q.drop(old)
		default:
		}
		select {
		case q.queue <- clone:
			return nil
		default:
			q.drop(clone)
			return nil
		}

	default: // DropNewest
		q.drop(clone)
		return nil
	}
}

// writeOwned writes a queue-owned clone and returns it to the pool.
func (q *asyncQueue) writeOwned(entry *core.Entry) error {
	err := q.write(entry)
	core.PutEntry(entry)
	return err
}

// drop discards a queue-owned clone and returns it to the pool.
func (q *asyncQueue) drop(entry *core.Entry) {
	q.stats.IncrementDropped(entry.Level)
	metrics.EntriesDropped.WithLabelValues(entry.Level.String()).Inc()
	core.PutEntry(entry)
}

func (q *asyncQueue) run() {
	defer q.wg.Done()

	for {
		select {
		case entry := <-q.queue:
			if err := q.write(entry); err != nil {
				reportError("async write", err)
			}
			core.PutEntry(entry)
		case <-q.closed:
			// Drain remaining entries with timeout
			deadline := time.After(q.drainTimeout)
		drainLoop:
			for {
				select {
				case entry := <-q.queue:
					if err := q.write(entry); err != nil {
						reportError("async write", err)
					}
					core.PutEntry(entry)
				case <-deadline:
					break drainLoop
				default:
					// Queue empty
					break drainLoop
				}
			}
			return
		}
	}
}

// close stops the worker after draining. Safe to call multiple times.
func (q *asyncQueue) close() {
	q.closeOnce.Do(func() {
		close(q.closed)
		q.wg.Wait()
	})
}
