package kestrel

import (
	"log/slog"
	"sync"
)

// Pool runs blocking or CPU-bound work on a fixed set of worker
// goroutines, bridging completions back onto a bound [Scheduler]. A
// pool job is synchronous code that runs to completion on its worker;
// it never suspends the way a Task body can.
type Pool struct {
	sched *Scheduler

	mu      sync.Mutex
	cond    sync.Cond
	jobs    fifoQueue[func()]
	stopped bool
	wg      sync.WaitGroup
}

// NewPool starts n worker goroutines bound to sched. n must be at
// least 1.
func NewPool(sched *Scheduler, n int) *Pool {
	if n < 1 {
		panic("kestrel: NewPool requires at least one worker")
	}
	p := &Pool{sched: sched}
	p.cond.L = &p.mu
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for p.jobs.Empty() && !p.stopped {
			p.cond.Wait()
		}
		if p.jobs.Empty() {
			p.mu.Unlock()
			return
		}
		fn := p.jobs.Pop()
		p.mu.Unlock()

		if err := tryRun(fn); err != nil {
			slog.Error("kestrel: pool worker job panicked", "error", err)
		}
	}
}

// Submit runs fn on a worker, fire-and-forget. A no-op once the pool
// has been stopped.
func (p *Pool) Submit(fn func()) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.jobs.Push(fn)
	p.mu.Unlock()
	p.cond.Signal()
}

// SubmitTask schedules fn on a worker and returns a [Task] that
// completes, via p's scheduler, when fn returns. token is checked
// before fn ever runs: if it's already cancelled, the returned task
// fails with [ErrCanceled] without touching a worker. Cancellation
// observed mid-execution is not propagated, since fn is synchronous.
//
// A method can't introduce its own type parameter in Go, so this is a
// free function taking the Pool as its first argument rather than
// Pool.SubmitTask[R].
func SubmitTask[R any](p *Pool, token CancelToken, fn func() (R, error)) *Task[R] {
	out := newRunningTask[R]()

	if token.IsCancelled() {
		out.err = Wrap(KindCanceled, "pool job canceled before execution", ErrCanceled)
		close(out.done)
		return out
	}

	submitted := false
	p.mu.Lock()
	if !p.stopped {
		p.jobs.Push(func() {
			result, err := fn()
			p.sched.Post(func() {
				out.result, out.err = result, err
				close(out.done)
			})
		})
		submitted = true
	}
	p.mu.Unlock()

	if !submitted {
		out.err = Wrap(KindStopped, "pool stopped", ErrStopped)
		close(out.done)
		return out
	}

	p.cond.Signal()
	return out
}

// Stop closes the pool to new work, waits for in-flight jobs to finish,
// and joins every worker goroutine. Idempotent.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()
	p.cond.Broadcast()
	p.wg.Wait()
}
