package kestrel

import "log/slog"

// defaultLogDetachedTaskError logs a detached task's unrecovered error
// and drops it rather than propagating it, so one misbehaving
// background task can't take the whole runtime down.
//
// It is called through the package-level var logDetachedTaskError (not
// directly) so tests can swap it out, via [SetDetachedTaskErrorLogger],
// to assert a detached task actually failed.
func defaultLogDetachedTaskError(err error) {
	slog.Error("kestrel: detached task failed", "error", err)
}

// SetDetachedTaskErrorLogger replaces the hook used to log a detached
// task's unrecovered error, returning a function that restores the
// previous hook. Intended for tests that need to assert a background
// task actually failed.
func SetDetachedTaskErrorLogger(fn func(err error)) (restore func()) {
	prev := logDetachedTaskError
	logDetachedTaskError = fn
	return func() { logDetachedTaskError = prev }
}
