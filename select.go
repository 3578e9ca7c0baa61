//go:build linux || darwin

// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventmux

// Wait sleeps until at least one event is pending, at least one descriptor
// in req's sets is ready, or the timeout elapses, whichever comes first.
//
// The returned count is the number of ready descriptors, plus one if any
// events were pending when the wait concluded; callers should check
// [Queue.Pending] (or just call [Queue.Next]) to distinguish the sources.
// The descriptor sets are updated in place to hold only the ready
// descriptors. The error is non-nil only when the count is zero: unix.EINTR
// when the sleep was interrupted with nothing ready and no events remaining,
// any other syscall error verbatim, or [ErrClosed]. A timeout with nothing
// ready is (0, nil).
//
// Wait is intended for the single consumer goroutine; a second concurrent
// call fails with [ErrConcurrentWait].
func (q *Queue) Wait(req *Request) (int, error) {
	if req == nil {
		panic(`eventmux: nil request`)
	}
	if !q.waitActive.CompareAndSwap(false, true) {
		return 0, ErrConcurrentWait
	}
	defer q.waitActive.Store(false)

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return 0, ErrClosed
	}
	if q.pending > 0 {
		// Fast path: events are already queued and the helper stays parked.
		q.mu.Unlock()
		return 1, nil
	}
	q.completed = false
	q.mu.Unlock()

	q.selMu.Lock()
	q.req = *req
	q.selMu.Unlock()

	// Arm the helper. The previous wake was consumed before the previous
	// semaphore post, so a capacity-one channel cannot block here.
	q.wake <- struct{}{}

	q.mu.Lock()
	for !q.completed && q.pending == 0 && !q.closed {
		q.readCond.Wait()
	}
	if q.closed && !q.completed {
		// Torn down mid-wait; Close owns the helper shutdown.
		q.mu.Unlock()
		return 0, ErrClosed
	}
	q.mu.Unlock()

	// Cancel unconditionally, whether or not the helper already finished.
	// The stale byte this can leave behind is reclaimed right after the
	// semaphore confirms the helper is idle.
	_ = cancelWrite(q.cancelW)
	<-q.sem
	cancelDrain(q.cancelR)

	q.selMu.Lock()
	n, err := q.selN, q.selErr
	q.req = Request{}
	q.selMu.Unlock()

	q.mu.Lock()
	if q.pending > 0 {
		n++
	}
	q.mu.Unlock()

	// Queued events rescue an interrupted or failed wait.
	if n > 0 {
		return n, nil
	}
	return 0, err
}
