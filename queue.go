//go:build linux || darwin

// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventmux

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/joeycumines/logiface"
)

// node is a single queued event. Nodes are allocated per insertion and
// released to the garbage collector on removal.
type node struct {
	next *node
	ev   Event
}

// Queue is a bounded FIFO of input events fused with a descriptor
// multiplexer. Producers call [Queue.Put] from any goroutine; a single
// consumer drains records via [Queue.Next] and sleeps for events or
// descriptor readiness via [Queue.Wait].
//
// The zero value is not usable. Construct with [New] and release with
// [Queue.Close].
type Queue struct {
	log   *logiface.Logger[logiface.Event]
	hooks *testHooks

	// mu guards the event list, pending, closed, and completed. It is never
	// held together with selMu.
	mu        sync.Mutex
	readCond  *sync.Cond // insertion, helper completion, close
	writeCond *sync.Cond // removal, close
	head      *node      // oldest, nil when empty
	tail      *node      // newest, nil when empty
	pending   int
	capacity  int
	closed    bool
	completed bool // the armed multiplex request finished

	waitActive atomic.Bool

	// selMu guards the armed request and its published result.
	selMu  sync.Mutex
	req    Request
	selN   int
	selErr error

	wake   chan struct{} // arms the helper, capacity 1
	sem    chan struct{} // completion semaphore, capacity 1
	done   chan struct{} // closed by Close to stop the helper
	exited chan struct{} // closed when the helper returns

	cancelR int // helper-side read end of the cancel descriptor
	cancelW int // bridge-side write end
}

// New creates a queue and starts its multiplex helper goroutine.
//
// A failure to create the cancel descriptor pair leaves nothing running and
// is fatal to the instance.
func New(opts ...Option) (*Queue, error) {
	cfg, err := resolveQueueOptions(opts)
	if err != nil {
		return nil, err
	}
	q := &Queue{
		log:      cfg.logger,
		hooks:    cfg.hooks,
		capacity: cfg.capacity,
		wake:     make(chan struct{}, 1),
		sem:      make(chan struct{}, 1),
		done:     make(chan struct{}),
		exited:   make(chan struct{}),
	}
	q.readCond = sync.NewCond(&q.mu)
	q.writeCond = sync.NewCond(&q.mu)
	if q.cancelR, q.cancelW, err = newCancelFd(); err != nil {
		return nil, fmt.Errorf(`eventmux: cancel descriptor: %w`, err)
	}
	go q.runHelper()
	return q, nil
}

// Close stops the helper goroutine, closes the cancel descriptors, and
// unblocks any producers or consumers waiting on the queue, which then
// return [ErrClosed]. Close must not be called concurrently with
// [Queue.Wait]; blocked [Queue.Put] and [Queue.Next] calls are safe.
//
// Close returns [ErrClosed] if the queue is already closed.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.closed = true
	q.readCond.Broadcast()
	q.writeCond.Broadcast()
	q.mu.Unlock()

	close(q.done)
	// Kick the helper out of a blocking wait, if a request is armed.
	_ = cancelWrite(q.cancelW)
	<-q.exited

	closeCancelFd(q.cancelR, q.cancelW)
	return nil
}

// Put appends an event for the consumer.
//
// While the queue is at capacity Put blocks, applying backpressure to the
// producer, until the consumer removes an event. If allocation of the queue
// node fails the event is dropped and Put returns nil; the producer cannot
// usefully recover, so the failure is only logged.
//
// Put returns [ErrClosed] once the queue is closed.
func (q *Queue) Put(ev Event) error {
	n, err := q.newNode()
	if err != nil {
		q.log.Warning().
			Err(err).
			Stringer(`kind`, ev.Kind).
			Uint64(`window`, uint64(ev.Window)).
			Log(`event dropped`)
		return nil
	}
	n.ev = ev

	q.mu.Lock()
	for q.pending >= q.capacity && !q.closed {
		q.writeCond.Wait()
	}
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	if q.tail != nil {
		q.tail.next = n
	} else {
		q.head = n
	}
	q.tail = n
	q.pending++
	q.readCond.Signal()
	q.mu.Unlock()
	return nil
}

// Next removes and returns the oldest pending event, blocking while the
// queue is empty. A closed queue drains its remaining events before Next
// reports [ErrClosed].
//
// Next is intended for the single consumer goroutine.
func (q *Queue) Next() (Event, error) {
	q.mu.Lock()
	for q.pending == 0 && !q.closed {
		q.readCond.Wait()
	}
	if q.pending == 0 {
		q.mu.Unlock()
		return Event{}, ErrClosed
	}
	n := q.head
	q.head = n.next
	if q.head == nil {
		q.tail = nil
	}
	q.pending--
	q.writeCond.Signal()
	q.mu.Unlock()
	return n.ev, nil
}

// Pending reports the number of queued events. It is safe from any
// goroutine.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}

func (q *Queue) newNode() (*node, error) {
	if q.hooks != nil && q.hooks.allocNode != nil {
		return q.hooks.allocNode()
	}
	return new(node), nil
}
