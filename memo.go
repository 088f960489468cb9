package kestrel

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Memo caches the result of a keyed computation and coalesces
// concurrent callers asking for the same key into a single underlying
// call, the way the single-threaded Memo in this codebase's ancestor
// collapses duplicate recomputation within one executor — generalized
// here to callers spread across goroutines instead of one cooperative
// thread.
type Memo[T any] struct {
	group singleflight.Group

	mu    sync.RWMutex
	cache map[string]T
	stale map[string]bool
}

// NewMemo returns an empty Memo.
func NewMemo[T any]() *Memo[T] {
	return &Memo[T]{
		cache: make(map[string]T),
		stale: make(map[string]bool),
	}
}

// Spawn returns a [Task] that resolves to the cached value for key, or
// runs fn to compute one if key is missing or has been invalidated.
// Concurrent calls sharing the same key, whether via the same Memo or
// different Tasks spawned from it, are coalesced: fn runs once and
// every caller observes its result. The task's completion is bridged
// back through sched, the same way [SubmitTask] and [Timer]
// bridge their own off-scheduler work.
func (m *Memo[T]) Spawn(sched *Scheduler, token CancelToken, key string, fn Func[T]) *Task[T] {
	out := newRunningTask[T]()

	go func() {
		result, err := m.compute(token.Context(), key, fn)
		sched.Post(func() {
			out.result, out.err = result, err
			close(out.done)
		})
	}()

	return out
}

func (m *Memo[T]) compute(ctx context.Context, key string, fn Func[T]) (T, error) {
	m.mu.RLock()
	v, ok := m.cache[key]
	stale := m.stale[key]
	m.mu.RUnlock()
	if ok && !stale {
		return v, nil
	}

	res, err, _ := m.group.Do(key, func() (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	v = res.(T)
	m.mu.Lock()
	m.cache[key] = v
	m.stale[key] = false
	m.mu.Unlock()
	return v, nil
}

// Invalidate marks key stale, forcing the next [Memo.Spawn] call for it
// to recompute rather than return the cached value.
func (m *Memo[T]) Invalidate(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stale[key] = true
}

// Forget removes key from the cache entirely.
func (m *Memo[T]) Forget(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cache, key)
	delete(m.stale, key)
}
