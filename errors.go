package kestrel

import (
	"errors"
	"fmt"
)

// Kind is a stable error taxonomy shared across every component of the
// runtime. Components never invent ad-hoc error strings for control-flow
// decisions; callers can always recover the Kind with [IsKind] or
// [KindOf].
type Kind int

const (
	KindOK Kind = iota
	KindInvalidArgument
	KindNotReady
	KindTimeout
	KindCanceled
	KindClosed
	KindOverflow
	KindStopped
	KindQueueFull
	KindRejected
	KindNotSupported
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotReady:
		return "not_ready"
	case KindTimeout:
		return "timeout"
	case KindCanceled:
		return "canceled"
	case KindClosed:
		return "closed"
	case KindOverflow:
		return "overflow"
	case KindStopped:
		return "stopped"
	case KindQueueFull:
		return "queue_full"
	case KindRejected:
		return "rejected"
	case KindNotSupported:
		return "not_supported"
	default:
		return "unknown"
	}
}

// Error is the error type returned by every named-error-kind failure a
// Task can carry in its result.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("kestrel: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("kestrel: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a *Error with the same Kind, so that
// errors.Is(err, ErrCanceled) works regardless of wrapping.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

func newKindError(k Kind, msg string) *Error {
	return &Error{Kind: k, Msg: msg}
}

// Wrap attaches k and msg to err, preserving err for [errors.Unwrap].
func Wrap(k Kind, msg string, err error) *Error {
	return &Error{Kind: k, Msg: msg, Err: err}
}

// Sentinel errors for the kinds every component in this module can
// surface. Components construct fresh *Error values carrying the same
// Kind rather than comparing against these by identity, so use
// [IsKind] (or errors.Is) rather than ==.
var (
	ErrInvalidArgument = newKindError(KindInvalidArgument, "invalid argument")
	ErrNotReady        = newKindError(KindNotReady, "not ready")
	ErrTimeout         = newKindError(KindTimeout, "timeout")
	ErrCanceled        = newKindError(KindCanceled, "canceled")
	ErrClosed          = newKindError(KindClosed, "closed")
	ErrOverflow        = newKindError(KindOverflow, "overflow")
	ErrStopped         = newKindError(KindStopped, "stopped")
	ErrQueueFull       = newKindError(KindQueueFull, "queue full")
	ErrRejected        = newKindError(KindRejected, "rejected")
	ErrNotSupported    = newKindError(KindNotSupported, "not supported")
)

// IsKind reports whether err carries the named Kind, unwrapping as
// needed.
func IsKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}

// KindOf returns the Kind carried by err and true, or false if err is
// nil or carries no Kind at all.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
