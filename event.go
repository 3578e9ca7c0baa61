//go:build linux || darwin

package eventmux

import (
	"strconv"
	"time"
)

// Kind identifies the variant of an [Event].
type Kind uint8

// Event kinds. KindNone is the zero value and marks an unpopulated record;
// producers never queue it.
const (
	KindNone Kind = iota
	KindConfigureNotify
	KindKeyPress
	KindKeyRelease
)

// String returns the conventional name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return `None`
	case KindConfigureNotify:
		return `ConfigureNotify`
	case KindKeyPress:
		return `KeyPress`
	case KindKeyRelease:
		return `KeyRelease`
	default:
		return `Kind(` + strconv.Itoa(int(k)) + `)`
	}
}

// Window identifies the UI object an event targets. The zero value is never
// a valid window.
type Window uint16

// Event is a fixed-size input record passed from the UI runtime to the main
// loop. Kind selects which of the remaining fields are meaningful. Records
// are copied by value; the queue retains nothing once [Queue.Next] returns.
type Event struct {
	// Time is a monotonic timestamp supplied by the producer.
	Time time.Duration

	// State and Keycode describe key events. State holds the modifier bits
	// in effect when the key changed.
	State   uint32
	Keycode uint32

	// X, Y, Width and Height describe configure events.
	X, Y          int32
	Width, Height int32

	// Window is the target of the event, zero when not applicable.
	Window Window

	// Kind selects the variant.
	Kind Kind
}
