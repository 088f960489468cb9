package kestrel

import (
	"context"
	"sync/atomic"
)

// taskState tracks where a Task is in its lifecycle: unstarted, running,
// or terminal.
type taskState int32

const (
	taskUnstarted taskState = iota
	taskRunning
	taskTerminal
)

// Func is the body of a [Task]: ordinary Go code that runs on its own
// goroutine and blocks (suspends) at this module's named suspension
// points. ctx carries whatever [CancelToken] the task was created with,
// already wired to ctx.Done().
type Func[T any] func(ctx context.Context) (T, error)

// A Task is a suspendable computation producing a typed result or an
// error. A Task's frame is a goroutine: Go's own scheduler already
// gives every goroutine the suspend/resume machinery a coroutine frame
// would need, so this type only has to add the typed result slot, the
// captured-panic slot, and the at-most-once await discipline on top.
//
// A Task must be started with [Task.Start] (or created already-running
// by a combinator such as [WhenAll2]) before it can produce a result,
// and may be awaited with [Await] at most once.
type Task[T any] struct {
	fn       Func[T]
	token    CancelToken
	sched    *Scheduler
	done     chan struct{}
	result   T
	err      error
	state    atomic.Int32
	awaited  atomic.Bool
	detached atomic.Bool
}

// NewTask creates an unstarted Task that will run fn when started.
// token, if non-zero, is the [CancelToken] threaded into fn's context;
// a zero CancelToken never cancels.
func NewTask[T any](token CancelToken, fn Func[T]) *Task[T] {
	if fn == nil {
		panic("kestrel: NewTask called with a nil Func")
	}
	t := &Task[T]{fn: fn, token: token, done: make(chan struct{})}
	t.state.Store(int32(taskUnstarted))
	return t
}

func newRunningTask[T any]() *Task[T] {
	t := &Task[T]{done: make(chan struct{})}
	t.state.Store(int32(taskRunning))
	return t
}

// Start consumes t, posting its initial resumption onto s. s now owns
// t's frame: t runs on its own goroutine, launched from inside a job
// posted to s, so Start never races with s's own queue. The task never
// runs inline on the caller's goroutine, even if it would complete
// without ever suspending.
//
// Starting a Task twice panics — a Task frame has exactly one owner.
func (t *Task[T]) Start(s *Scheduler) *Task[T] {
	if !t.state.CompareAndSwap(int32(taskUnstarted), int32(taskRunning)) {
		panic("kestrel: task already started")
	}
	t.sched = s
	s.Post(func() {
		go t.run()
	})
	return t
}

// Detach marks t as fire-and-forget: if t's body panics or returns an
// error and no [Await] call has been made on it by the time it
// finishes, the failure is logged instead of silently discarded. See
// also [Spawn].
func (t *Task[T]) Detach() *Task[T] {
	t.detached.Store(true)
	return t
}

func (t *Task[T]) run() {
	ctx := t.token.Context()

	err := tryRun(func() {
		t.result, t.err = t.fn(ctx)
	})
	if err != nil {
		t.err = err
	}

	t.state.Store(int32(taskTerminal))
	close(t.done)

	if t.err != nil && t.detached.Load() && !t.awaited.Load() {
		logDetachedTaskError(t.err)
	}
}

// Await blocks until t completes and returns its result or error. t
// may be awaited at most once; a second call panics.
//
// Awaiting another task never goes through a Scheduler's queue: it is
// a direct channel receive on t.done. A blocking receive gets the
// caller the same ordering a scheduler round trip would, without
// paying for the round trip.
func Await[T any](t *Task[T]) (T, error) {
	if !t.awaited.CompareAndSwap(false, true) {
		panic("kestrel: task awaited twice")
	}
	<-t.done
	return t.result, t.err
}

// Spawn starts a fire-and-forget [Task] on s and detaches it in one
// step.
func Spawn[T any](s *Scheduler, token CancelToken, fn Func[T]) {
	NewTask(token, fn).Detach().Start(s)
}

var logDetachedTaskError = defaultLogDetachedTaskError
