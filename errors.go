//go:build linux || darwin

package eventmux

import "errors"

var (
	// ErrClosed is returned by operations on a queue after [Queue.Close].
	ErrClosed = errors.New("eventmux: queue closed")

	// ErrConcurrentWait is returned by [Queue.Wait] when another Wait is
	// already outstanding. At most one multiplex request may be armed at a
	// time; the consumer goroutine owns Wait.
	ErrConcurrentWait = errors.New("eventmux: concurrent wait")
)
