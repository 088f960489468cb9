// Package kestrel is an embeddable asynchronous execution runtime.
//
// It gives servers and tools a coroutine-flavored task model — a
// [Scheduler] running a single-threaded cooperative FIFO loop, a
// [Pool] of worker goroutines for blocking or CPU-bound calls, a
// deadline-ordered [Timer], cooperative cancellation via [CancelToken],
// POSIX signal delivery through [SignalSet], and the structured
// combinators [WhenAll2] / [WhenAny2] (and their higher arities) — without
// pulling in a full framework.
//
// # Tasks Are Goroutines, Not Stackless Frames
//
// Go already gives every program cheap green threads. Rather than
// simulate a stackless coroutine frame, a [Task] runs its body on its
// own goroutine and suspends the way any Go function suspends: by
// blocking on a channel receive at one of the runtime's named
// suspension points (awaiting another task, [Scheduler.Schedule],
// [Timer.SleepFor], [SubmitTask], [SignalSet.AsyncWait]).
// Awaiting another [Task] is a direct receive on its completion
// channel — no trip through the scheduler's queue, which gives the
// same ordering guarantees a symmetric-transfer coroutine handoff
// would.
//
// # One Scheduler, One Thread of Cooperative Execution
//
// A [Scheduler] owns a FIFO queue of posted jobs. Exactly one goroutine
// at a time executes jobs popped from that queue (call [Scheduler.Run]
// from a single goroutine you control). Everything that completes off
// that thread — a worker finishing a pool job, a timer firing, a
// signal arriving — hands control back by calling [Scheduler.Post],
// which is the only cross-thread synchronization primitive the rest
// of the runtime needs to understand.
//
// # Cancellation
//
// A [CancelSource] owns a cancel state; any number of [CancelToken]
// values observe it. Cancellation is monotonic and cooperative: it is
// checked at the suspension points that accept a token, never by
// tearing down a running goroutine.
package kestrel
