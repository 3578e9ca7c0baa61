//go:build linux || darwin

// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventmux

// runHelper is the multiplex helper goroutine. It parks until a request is
// armed by [Queue.Wait], performs the blocking readiness wait on the
// consumer's behalf, publishes the result, posts the completion semaphore,
// and finally flags completion under the queue lock so a sleeping Wait can
// observe it.
func (q *Queue) runHelper() {
	defer close(q.exited)
	for {
		select {
		case <-q.done:
			return
		case <-q.wake:
		}
		q.hooks.onHelperWoken()

		q.selMu.Lock()
		req := q.req
		q.selMu.Unlock()

		n, err := q.multiplex(&req)

		q.selMu.Lock()
		q.selN, q.selErr = n, err
		q.selMu.Unlock()

		// The semaphore is posted before completion is flagged; Wait reaps
		// it only after its own cancel write, so by the time Wait reads the
		// result the helper is provably idle.
		q.sem <- struct{}{}

		q.mu.Lock()
		q.completed = true
		q.readCond.Broadcast()
		q.mu.Unlock()
	}
}
