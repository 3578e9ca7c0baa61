// Package toolkit maintains the handle registry that names UI runtime
// objects on the native side, forwards window and drawing operations to a
// [Driver], and delivers the runtime's input events into an
// [github.com/joeycumines/go-eventmux.Queue].
//
// # Handles
//
// Windows, graphics contexts, and pixmaps are identified by dense 16 bit
// handles; zero is never valid. Handles are recycled oldest-first once
// destroyed, and allocation fails with [ErrHandlesExhausted] when all 65535
// identifiers are live. Every forwarded operation validates liveness and
// kind first, failing with [ErrBadHandle] or [ErrWrongKind] rather than
// touching the driver.
//
// # Division of labour
//
// The [Driver] owns the actual runtime objects, keyed by the handles this
// package assigns; the [Toolkit] owns the bookkeeping and the event
// delivery. Drawing operations are forwarded verbatim, never rasterized
// here.
package toolkit
