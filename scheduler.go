package kestrel

import (
	"context"
	"sync"
)

// A Scheduler is a single-threaded, cooperative FIFO job runner. Jobs —
// plain func() closures — are posted from any goroutine and popped and
// run, one at a time, by whatever single goroutine calls [Scheduler.Run].
//
// Scheduler.Post is the only cross-thread synchronization primitive the
// rest of this module needs: the [Pool], [Timer] and [SignalSet] all do
// their blocking work off the scheduler's thread, then hand the result
// back by calling Post. The happens-before edge for that handoff is
// established through the queue's mutex.
type Scheduler struct {
	mu      sync.Mutex
	cond    sync.Cond
	queue   fifoQueue[func()]
	stopped bool
	running bool
}

// NewScheduler creates a Scheduler with an empty queue.
func NewScheduler() *Scheduler {
	s := &Scheduler{}
	s.cond.L = &s.mu
	return s
}

// Post appends fn to the tail of the queue and wakes one waiter. Safe
// for concurrent use from any goroutine, including from inside a job
// that Run is currently executing.
func (s *Scheduler) Post(fn func()) {
	s.mu.Lock()
	s.queue.Push(fn)
	s.mu.Unlock()
	s.cond.Signal()
}

// Run pops and runs every job in the queue, blocking for more whenever
// the queue is empty, until [Scheduler.Stop] has been called and the
// queue has drained. Run must not be called twice at the same time.
//
// Jobs run with the lock released, so a job may itself call Post (even
// Post on its own Scheduler) without deadlocking.
func (s *Scheduler) Run() {
	s.mu.Lock()
	s.running = true

	for {
		for s.queue.Empty() {
			if s.stopped {
				s.running = false
				s.mu.Unlock()
				return
			}
			s.cond.Wait()
		}

		fn := s.queue.Pop()
		s.mu.Unlock()
		fn()
		s.mu.Lock()
	}
}

// Stop requests that Run return once the queue drains. Idempotent and
// non-blocking.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.cond.Broadcast()
}

// Pending reports the number of jobs currently queued. Observational
// only — the count can change the instant after it's read.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// Schedule returns once its own resumption has made a round trip
// through s's queue, forcing whatever runs after it to run with the
// scheduler's FIFO ordering guarantees relative to other posted jobs.
// It honors ctx: if ctx is done before the round trip completes,
// Schedule returns ctx.Err() wrapped as [ErrCanceled].
func (s *Scheduler) Schedule(ctx context.Context) error {
	done := make(chan struct{})
	s.Post(func() { close(done) })

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return Wrap(KindCanceled, "schedule canceled", ctx.Err())
	}
}
