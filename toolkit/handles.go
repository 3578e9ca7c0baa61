//go:build linux || darwin

// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package toolkit

import (
	"errors"

	"github.com/eapache/queue"
	eventmux "github.com/joeycumines/go-eventmux"
)

// MaxHandle is the largest valid handle identifier. Identifier zero is
// reserved as the none value, leaving MaxHandle usable handles.
const MaxHandle = 65535

type (
	// Handle identifies any object in the registry. The zero value is
	// reserved and never allocated.
	Handle uint16

	// Window identifies a window object; it doubles as the event target
	// type of the queue package.
	Window = eventmux.Window

	// GContext identifies a graphics context object.
	GContext uint16

	// Pixmap identifies an off-screen surface object.
	Pixmap uint16

	// Drawable identifies a window or a pixmap, the two kinds that accept
	// drawing operations.
	Drawable uint16
)

// Kind is the registered kind of a handle.
type Kind uint8

const (
	KindWindow Kind = iota
	KindGContext
	KindPixmap
)

// String returns the conventional name of the kind.
func (k Kind) String() string {
	switch k {
	case KindWindow:
		return `Window`
	case KindGContext:
		return `GContext`
	case KindPixmap:
		return `Pixmap`
	default:
		return `Kind(?)`
	}
}

var (
	// ErrHandlesExhausted is returned when all identifiers are live.
	ErrHandlesExhausted = errors.New(`toolkit: out of handles`)

	// ErrBadHandle is returned when an operation names a handle that is
	// not allocated.
	ErrBadHandle = errors.New(`toolkit: handle is not allocated`)

	// ErrWrongKind is returned when an operation names a live handle of
	// another kind.
	ErrWrongKind = errors.New(`toolkit: handle has wrong kind`)
)

type handleEntry struct {
	kind Kind
	live bool
}

// registry allocates and validates handles. It is not safe for concurrent
// use; the Toolkit serializes access.
type registry struct {
	// free holds destroyed identifiers, reissued oldest-first.
	free *queue.Queue
	// next is the scan cursor for fresh identifiers, subject to
	// wraparound.
	next    uint16
	entries [MaxHandle + 1]handleEntry
}

func newRegistry() *registry {
	return &registry{free: queue.New(), next: 1}
}

// alloc returns an unused identifier marked live with the given kind.
func (r *registry) alloc(kind Kind) (Handle, error) {
	if r.free.Length() > 0 {
		h := r.free.Remove().(Handle)
		r.entries[h] = handleEntry{kind: kind, live: true}
		return h, nil
	}
	for i := 0; i <= MaxHandle; i++ {
		h := r.next
		r.next++
		if h == 0 {
			continue
		}
		if !r.entries[h].live {
			r.entries[h] = handleEntry{kind: kind, live: true}
			return Handle(h), nil
		}
	}
	return 0, ErrHandlesExhausted
}

// release frees a live identifier for reuse.
func (r *registry) release(h Handle) {
	r.entries[h] = handleEntry{}
	r.free.Add(h)
}

// resolve validates that h is live and of the given kind.
func (r *registry) resolve(h Handle, kind Kind) error {
	e := r.entries[h]
	switch {
	case h == 0, !e.live:
		return ErrBadHandle
	case e.kind != kind:
		return ErrWrongKind
	default:
		return nil
	}
}

// resolveDrawable validates that h is a live window or pixmap, returning
// its kind.
func (r *registry) resolveDrawable(h Drawable) (Kind, error) {
	e := r.entries[h]
	switch {
	case h == 0, !e.live:
		return 0, ErrBadHandle
	case e.kind != KindWindow && e.kind != KindPixmap:
		return 0, ErrWrongKind
	default:
		return e.kind, nil
	}
}
