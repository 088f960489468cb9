package kestrel

import "sync"

// Pair2 holds the positional results of [WhenAll2].
type Pair2[A, B any] struct {
	First  A
	Second B
}

// Pair3 holds the positional results of [WhenAll3].
type Pair3[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Pair4 holds the positional results of [WhenAll4].
type Pair4[A, B, C, D any] struct {
	First  A
	Second B
	Third  C
	Fourth D
}

// allState is the shared completion state behind every WhenAll*
// variant: a countdown starting at n, a first-error-wins slot, and a
// completion callback that fires once the countdown reaches zero.
type allState struct {
	mu        sync.Mutex
	remaining int
	firstErr  error
	done      func()
}

func newAllState(n int, done func()) *allState {
	return &allState{remaining: n, done: done}
}

func (st *allState) complete(err error) {
	st.mu.Lock()
	if err != nil && st.firstErr == nil {
		st.firstErr = err
	}
	st.remaining--
	fire := st.remaining == 0
	st.mu.Unlock()
	if fire {
		st.done()
	}
}

// WhenAll2 starts ta and tb on sched and returns a [Task] that
// completes once both have, with their results in argument order. If
// either fails, the first failure observed (by completion order, not
// argument order) is the result's error, and the other's value is
// still populated in the pair.
func WhenAll2[A, B any](sched *Scheduler, ta *Task[A], tb *Task[B]) *Task[Pair2[A, B]] {
	out := newRunningTask[Pair2[A, B]]()
	var result Pair2[A, B]
	var mu sync.Mutex

	var st *allState
	st = newAllState(2, func() {
		sched.Post(func() {
			mu.Lock()
			out.result, out.err = result, st.firstErr
			mu.Unlock()
			close(out.done)
		})
	})

	ta.Start(sched)
	tb.Start(sched)

	go func() {
		v, err := Await(ta)
		mu.Lock()
		result.First = v
		mu.Unlock()
		st.complete(err)
	}()
	go func() {
		v, err := Await(tb)
		mu.Lock()
		result.Second = v
		mu.Unlock()
		st.complete(err)
	}()

	return out
}

// WhenAll3 is [WhenAll2] for three tasks.
func WhenAll3[A, B, C any](sched *Scheduler, ta *Task[A], tb *Task[B], tc *Task[C]) *Task[Pair3[A, B, C]] {
	out := newRunningTask[Pair3[A, B, C]]()
	var result Pair3[A, B, C]
	var mu sync.Mutex

	var st *allState
	st = newAllState(3, func() {
		sched.Post(func() {
			mu.Lock()
			out.result, out.err = result, st.firstErr
			mu.Unlock()
			close(out.done)
		})
	})

	ta.Start(sched)
	tb.Start(sched)
	tc.Start(sched)

	go func() { v, err := Await(ta); mu.Lock(); result.First = v; mu.Unlock(); st.complete(err) }()
	go func() { v, err := Await(tb); mu.Lock(); result.Second = v; mu.Unlock(); st.complete(err) }()
	go func() { v, err := Await(tc); mu.Lock(); result.Third = v; mu.Unlock(); st.complete(err) }()

	return out
}

// WhenAll4 is [WhenAll2] for four tasks.
func WhenAll4[A, B, C, D any](sched *Scheduler, ta *Task[A], tb *Task[B], tc *Task[C], td *Task[D]) *Task[Pair4[A, B, C, D]] {
	out := newRunningTask[Pair4[A, B, C, D]]()
	var result Pair4[A, B, C, D]
	var mu sync.Mutex

	var st *allState
	st = newAllState(4, func() {
		sched.Post(func() {
			mu.Lock()
			out.result, out.err = result, st.firstErr
			mu.Unlock()
			close(out.done)
		})
	})

	ta.Start(sched)
	tb.Start(sched)
	tc.Start(sched)
	td.Start(sched)

	go func() { v, err := Await(ta); mu.Lock(); result.First = v; mu.Unlock(); st.complete(err) }()
	go func() { v, err := Await(tb); mu.Lock(); result.Second = v; mu.Unlock(); st.complete(err) }()
	go func() { v, err := Await(tc); mu.Lock(); result.Third = v; mu.Unlock(); st.complete(err) }()
	go func() { v, err := Await(td); mu.Lock(); result.Fourth = v; mu.Unlock(); st.complete(err) }()

	return out
}

// WhenAllSlice starts every task in tasks on sched and returns a [Task]
// whose result is their values in positional order, once all have
// completed. This is the homogeneous-N counterpart to [WhenAll2]'s
// fixed-arity heterogeneous form.
func WhenAllSlice[T any](sched *Scheduler, tasks []*Task[T]) *Task[[]T] {
	out := newRunningTask[[]T]()
	results := make([]T, len(tasks))

	if len(tasks) == 0 {
		out.result = results
		close(out.done)
		return out
	}

	var st *allState
	st = newAllState(len(tasks), func() {
		sched.Post(func() {
			out.result, out.err = results, st.firstErr
			close(out.done)
		})
	})

	for _, t := range tasks {
		t.Start(sched)
	}
	for i, t := range tasks {
		i, t := i, t
		go func() {
			v, err := Await(t)
			results[i] = v
			st.complete(err)
		}()
	}

	return out
}
