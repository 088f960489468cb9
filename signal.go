package kestrel

// Signum identifies an OS signal by number, independent of the
// platform-specific syscall.Signal type (which doesn't exist on every
// GOOS kestrel builds for — notably Windows). [SignalSet.Add] and
// friends take a Signum so this file compiles everywhere; only the
// unix build (signal_unix.go) does anything with the value besides
// ignore it.
type Signum int

// Common POSIX signal numbers, usable on any GOOS without importing
// syscall. On a non-unix build these are accepted by [SignalSet.Add]
// and simply never fire.
const (
	SIGHUP  Signum = 1
	SIGINT  Signum = 2
	SIGUSR1 Signum = 10
	SIGUSR2 Signum = 12
	SIGTERM Signum = 15
)
