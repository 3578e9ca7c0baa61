//go:build linux || darwin

package toolkit

import (
	"time"

	eventmux "github.com/joeycumines/go-eventmux"
)

// Event delivery. These are called from the UI runtime's own goroutines and
// assemble queue records verbatim. The window handle is NOT validated: a
// window may be destroyed while its last events are still in flight, and the
// consumer discards records for windows it no longer knows.

// DeliverKeyPress queues a key press. It blocks while the queue is full and
// returns [eventmux.ErrClosed] after the queue closes.
func (tk *Toolkit) DeliverKeyPress(w Window, t time.Duration, state, keycode uint32) error {
	return tk.queue.Put(eventmux.Event{
		Kind:    eventmux.KindKeyPress,
		Window:  w,
		Time:    t,
		State:   state,
		Keycode: keycode,
	})
}

// DeliverKeyRelease queues a key release. It blocks while the queue is full
// and returns [eventmux.ErrClosed] after the queue closes.
func (tk *Toolkit) DeliverKeyRelease(w Window, t time.Duration, state, keycode uint32) error {
	return tk.queue.Put(eventmux.Event{
		Kind:    eventmux.KindKeyRelease,
		Window:  w,
		Time:    t,
		State:   state,
		Keycode: keycode,
	})
}

// DeliverConfigureNotify queues a geometry change. It blocks while the queue
// is full and returns [eventmux.ErrClosed] after the queue closes.
func (tk *Toolkit) DeliverConfigureNotify(w Window, t time.Duration, x, y, width, height int32) error {
	return tk.queue.Put(eventmux.Event{
		Kind:   eventmux.KindConfigureNotify,
		Window: w,
		Time:   t,
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	})
}
