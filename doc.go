// Package eventmux bridges input events produced by an embedded UI runtime
// to a single consumer goroutine that also needs descriptor readiness, in
// the manner of select(2).
//
// # Architecture
//
// A [Queue] couples three pieces: a bounded FIFO of fixed-size [Event]
// records, a multiplex helper goroutine that performs blocking readiness
// waits on the consumer's behalf, and [Queue.Wait], which arms the helper
// and sleeps until events arrive, descriptors become ready, or the timeout
// elapses, whichever comes first.
//
// Producers deliver events with [Queue.Put] from any goroutine, and block
// once the queue holds its capacity of records, applying backpressure to
// the UI runtime. The consumer drains records with [Queue.Next]; both sides
// observe strict FIFO order.
//
// # Cancellation
//
// The helper blocks in select(2) with an internal cancel descriptor merged
// into the read set, an eventfd on Linux and a pipe on Darwin. An event
// arriving during a wait is observed through the queue's read condition;
// [Queue.Wait] then writes one byte to the cancel descriptor and the
// helper's syscall returns immediately. The cancel write is unconditional
// and idempotent: stale bytes are drained once the completion semaphore
// confirms the helper is idle, so they can never wake a later wait.
//
// # Thread Safety
//
// [Queue.Put] and [Queue.Pending] are safe from any goroutine. [Queue.Next]
// and [Queue.Wait] belong to the single consumer goroutine; a concurrent
// second Wait is rejected with [ErrConcurrentWait]. [Queue.Close] must not
// be called concurrently with Wait, though it safely unblocks pending Put
// and Next calls.
//
// # Platform Support
//
// Linux and Darwin.
package eventmux
