//go:build linux || darwin

// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventmux

import (
	"time"

	"golang.org/x/sys/unix"
)

// Request describes one descriptor-readiness wait, mirroring select(2).
//
// The sets are owned by the queue for the duration of [Queue.Wait] and are
// modified in place: on return they contain only the descriptors that are
// ready. Nil sets are allowed, as is a request with no descriptors at all,
// which is a pure timed sleep interruptible by events.
type Request struct {
	// Read, Write and Except select readability, writability, and
	// exceptional conditions respectively.
	Read   *unix.FdSet
	Write  *unix.FdSet
	Except *unix.FdSet
	// NFDs is the highest descriptor number in any set, plus one.
	NFDs int
	// Timeout bounds the wait. A negative timeout blocks indefinitely; zero
	// polls.
	Timeout time.Duration
}

// multiplex performs the blocking wait for req on the helper goroutine.
//
// The cancel descriptor is merged into the read set so a cancel byte
// interrupts the syscall, and subtracted from the reported result. A wait
// whose only ready descriptor was the cancel descriptor reports the
// interruption as (0, unix.EINTR).
func (q *Queue) multiplex(req *Request) (int, error) {
	read := req.Read
	if read == nil {
		read = new(unix.FdSet)
	}
	read.Set(q.cancelR)
	nfds := req.NFDs
	if nfds <= q.cancelR {
		nfds = q.cancelR + 1
	}

	var timeout *unix.Timeval
	if req.Timeout >= 0 {
		tv := unix.NsecToTimeval(req.Timeout.Nanoseconds())
		timeout = &tv
	}

	q.hooks.onBeforeSelect()
	n, err := unix.Select(nfds, read, req.Write, req.Except, timeout)
	if n < 0 {
		n = 0
	}
	if read.IsSet(q.cancelR) {
		// Never leak the cancel descriptor to the caller's result. On an
		// error the kernel leaves the sets unmodified, so the bit may still
		// be the one set before the call; only a successful wait counts it.
		read.Clear(q.cancelR)
		if err == nil && n > 0 {
			n--
			if n == 0 {
				err = unix.EINTR
			}
		}
	}
	return n, err
}
