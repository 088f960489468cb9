package kestrel

import (
	"sync"
	"time"
)

// timerEntry is one pending job in a [Timer]: a deadline, a
// tie-breaking sequence id, the token that can suppress it, and the job
// to run when it fires.
type timerEntry struct {
	deadline time.Time
	seq      uint64
	token    CancelToken
	fn       func()
}

func (e *timerEntry) less(o *timerEntry) bool {
	if e.deadline.Equal(o.deadline) {
		return e.seq < o.seq
	}
	return e.deadline.Before(o.deadline)
}

// Timer is a deadline-ordered multiset of pending jobs, served by one
// worker goroutine. Built on [priorityQueue], ordered by (deadline, id).
type Timer struct {
	sched *Scheduler

	mu      sync.Mutex
	pq      priorityQueue[*timerEntry]
	nextSeq uint64

	wake chan struct{}
	stop chan struct{}
	wg   sync.WaitGroup

	stopOnce sync.Once
	stopped  bool
}

// NewTimer starts a Timer's worker goroutine. Fired jobs are posted
// onto sched.
func NewTimer(sched *Scheduler) *Timer {
	tm := &Timer{
		sched: sched,
		wake:  make(chan struct{}, 1),
		stop:  make(chan struct{}),
	}
	tm.wg.Add(1)
	go tm.loop()
	return tm
}

func (tm *Timer) notify() {
	select {
	case tm.wake <- struct{}{}:
	default:
	}
}

func (tm *Timer) schedule(d time.Duration, token CancelToken, fn func()) bool {
	tm.mu.Lock()
	if tm.stopped {
		tm.mu.Unlock()
		return false
	}
	tm.nextSeq++
	tm.pq.Push(&timerEntry{
		deadline: time.Now().Add(d),
		seq:      tm.nextSeq,
		token:    token,
		fn:       fn,
	})
	tm.mu.Unlock()
	tm.notify()
	return true
}

// After posts fn onto the Timer's scheduler once d has elapsed,
// provided token is not cancelled by then. Fire-and-forget.
func (tm *Timer) After(d time.Duration, token CancelToken, fn func()) {
	tm.schedule(d, token, func() {
		tm.sched.Post(fn)
	})
}

// SleepFor returns a [Task] that completes after d, or immediately with
// [ErrCanceled] if token is already cancelled, or with [ErrCanceled] as
// soon as token is cancelled during the wait. A duration of zero is
// accepted and still honors cancellation at resume time.
func (tm *Timer) SleepFor(d time.Duration, token CancelToken) *Task[struct{}] {
	out := newRunningTask[struct{}]()
	go func() {
		out.result, out.err = tm.sleepFor(d, token)
		close(out.done)
	}()
	return out
}

func (tm *Timer) sleepFor(d time.Duration, token CancelToken) (struct{}, error) {
	if token.IsCancelled() {
		return struct{}{}, Wrap(KindCanceled, "sleep canceled", ErrCanceled)
	}
	if d <= 0 {
		return struct{}{}, nil
	}

	done := make(chan struct{})
	var canceled bool

	accepted := tm.schedule(d, token, func() {
		tm.sched.Post(func() {
			canceled = token.IsCancelled()
			close(done)
		})
	})
	if !accepted {
		return struct{}{}, Wrap(KindStopped, "timer stopped", ErrStopped)
	}

	// A cancelled entry is suppressed when it comes due and never closes
	// done, so cancellation during the wait is observed here directly.
	select {
	case <-done:
	case <-token.Done():
		return struct{}{}, Wrap(KindCanceled, "sleep canceled", ErrCanceled)
	}
	if canceled {
		return struct{}{}, Wrap(KindCanceled, "sleep canceled", ErrCanceled)
	}
	return struct{}{}, nil
}

func (tm *Timer) loop() {
	defer tm.wg.Done()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		tm.mu.Lock()
		empty := tm.pq.Empty()
		var deadline time.Time
		if !empty {
			deadline = tm.pq.Peek().deadline
		}
		tm.mu.Unlock()

		if empty {
			select {
			case <-tm.stop:
				return
			case <-tm.wake:
				continue
			}
		}

		wait := time.Until(deadline)
		if wait <= 0 {
			tm.fireDue()
			continue
		}

		timer.Reset(wait)
		select {
		case <-tm.stop:
			timer.Stop()
			return
		case <-tm.wake:
			timer.Stop()
			continue
		case <-timer.C:
			tm.fireDue()
		}
	}
}

// fireDue pops and runs every entry whose deadline has passed,
// suppressing any whose token has been cancelled in the meantime.
func (tm *Timer) fireDue() {
	now := time.Now()
	for {
		tm.mu.Lock()
		if tm.pq.Empty() || tm.pq.Peek().deadline.After(now) {
			tm.mu.Unlock()
			return
		}
		e := tm.pq.Pop()
		tm.mu.Unlock()

		if !e.token.IsCancelled() {
			e.fn()
		}
	}
}

// Stop drops every pending entry and joins the worker goroutine.
// Idempotent.
func (tm *Timer) Stop() {
	tm.stopOnce.Do(func() {
		tm.mu.Lock()
		tm.stopped = true
		tm.mu.Unlock()
		close(tm.stop)
		tm.wg.Wait()

		tm.mu.Lock()
		tm.pq = priorityQueue[*timerEntry]{}
		tm.mu.Unlock()
	})
}
