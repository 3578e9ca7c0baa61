//go:build linux || darwin

// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package toolkit

import (
	"sync"

	eventmux "github.com/joeycumines/go-eventmux"
	"github.com/joeycumines/logiface"
)

// Config models optional [Toolkit] behavior. Nil is equivalent to the zero
// value.
type Config struct {
	// Logger receives handle bookkeeping diagnostics. Defaults to no
	// logging, if nil.
	Logger *logiface.Logger[logiface.Event]
}

// Toolkit brokers between a client holding small integer handles and the
// [Driver] owning the objects they name. It validates every request under
// a single lock, then forwards it, so the driver observes a serialized,
// pre-validated request stream.
type Toolkit struct {
	log    *logiface.Logger[logiface.Event]
	driver Driver
	queue  *eventmux.Queue

	mu  sync.Mutex
	reg *registry
}

// New creates a Toolkit delivering events to queue and forwarding requests
// to driver. The config may be nil.
func New(config *Config, driver Driver, queue *eventmux.Queue) *Toolkit {
	if driver == nil {
		panic(`toolkit: nil driver`)
	}
	if queue == nil {
		panic(`toolkit: nil queue`)
	}
	tk := &Toolkit{
		driver: driver,
		queue:  queue,
		reg:    newRegistry(),
	}
	if config != nil {
		tk.log = config.Logger
	}
	return tk
}

// CreateWindow allocates a handle and realizes a window for it. Parent is
// zero for a top level window, otherwise it must name a live window. Mask
// selects which attrs fields apply; attrs may be nil when mask is zero.
func (tk *Toolkit) CreateWindow(parent Window, x, y, width, height int, mask WindowValueMask, attrs *WindowAttributes) (Window, error) {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	if parent != 0 {
		if err := tk.reg.resolve(Handle(parent), KindWindow); err != nil {
			return 0, err
		}
	}
	h, err := tk.reg.alloc(KindWindow)
	if err != nil {
		return 0, err
	}
	if attrs == nil {
		attrs = new(WindowAttributes)
	}
	if err := tk.driver.CreateWindow(Window(h), parent, x, y, width, height, mask, attrs); err != nil {
		tk.reg.release(h)
		return 0, err
	}
	return Window(h), nil
}

// DestroyWindow frees the window's handle after forwarding the request.
func (tk *Toolkit) DestroyWindow(w Window) error {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	if err := tk.reg.resolve(Handle(w), KindWindow); err != nil {
		tk.log.Err().Err(err).Uint64(`window`, uint64(w)).Log(`refusing to destroy window`)
		return err
	}
	tk.driver.DestroyWindow(w)
	tk.reg.release(Handle(w))
	return nil
}

// ChangeWindowAttributes applies the masked attrs fields. The override
// redirect flag cannot be changed after creation and is not dispatched.
func (tk *Toolkit) ChangeWindowAttributes(w Window, mask WindowValueMask, attrs *WindowAttributes) error {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	return tk.changeWindowAttributes(w, mask, attrs)
}

func (tk *Toolkit) changeWindowAttributes(w Window, mask WindowValueMask, attrs *WindowAttributes) error {
	if err := tk.reg.resolve(Handle(w), KindWindow); err != nil {
		return err
	}
	if mask&CWBackPixel != 0 {
		tk.driver.SetWindowBackground(w, attrs.BackgroundPixel)
	}
	return nil
}

// SetWindowBackground changes the pixel painted behind window contents.
func (tk *Toolkit) SetWindowBackground(w Window, pixel uint32) error {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	return tk.changeWindowAttributes(w, CWBackPixel, &WindowAttributes{BackgroundPixel: pixel})
}

// MapWindow makes the window eligible for display.
func (tk *Toolkit) MapWindow(w Window) error {
	return tk.windowOp(w, tk.driver.MapWindow)
}

// UnmapWindow removes the window from display.
func (tk *Toolkit) UnmapWindow(w Window) error {
	return tk.windowOp(w, tk.driver.UnmapWindow)
}

// ClearWindow paints the whole window with its background.
func (tk *Toolkit) ClearWindow(w Window) error {
	return tk.windowOp(w, tk.driver.ClearWindow)
}

// MoveWindow repositions the window relative to its parent.
func (tk *Toolkit) MoveWindow(w Window, x, y int) error {
	return tk.windowOp(w, func(w Window) {
		tk.driver.MoveWindow(w, x, y)
	})
}

// ResizeWindow changes the window's dimensions.
func (tk *Toolkit) ResizeWindow(w Window, width, height int) error {
	return tk.windowOp(w, func(w Window) {
		tk.driver.ResizeWindow(w, width, height)
	})
}

// ClearArea paints a region of the window with its background.
func (tk *Toolkit) ClearArea(w Window, x, y, width, height int) error {
	return tk.windowOp(w, func(w Window) {
		tk.driver.ClearArea(w, x, y, width, height)
	})
}

// SwapBuffers presents the back buffer of each given window. Every window
// is validated before any is presented.
func (tk *Toolkit) SwapBuffers(windows ...Window) error {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	for _, w := range windows {
		if err := tk.reg.resolve(Handle(w), KindWindow); err != nil {
			return err
		}
	}
	for _, w := range windows {
		tk.driver.SwapBuffers(w)
	}
	return nil
}

func (tk *Toolkit) windowOp(w Window, op func(Window)) error {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	if err := tk.reg.resolve(Handle(w), KindWindow); err != nil {
		return err
	}
	op(w)
	return nil
}

// CreatePixmap allocates a handle and realizes a blank off-screen surface
// for it.
func (tk *Toolkit) CreatePixmap(width, height, depth int) (Pixmap, error) {
	return tk.createPixmap(nil, width, height, depth)
}

// CreatePixmapFromBitmapData allocates a handle and realizes an off-screen
// surface initialized from packed 1-bit rows, least significant bit
// leftmost, each row padded to a whole byte. Set bits become foreground
// and clear bits background.
func (tk *Toolkit) CreatePixmapFromBitmapData(data []byte, width, height int, foreground, background uint32, depth int) (Pixmap, error) {
	stride := (width + 7) / 8
	colors := make([]uint32, width*height)
	for y := 0; y < height; y++ {
		row := data[y*stride:]
		for x := 0; x < width; x++ {
			if row[x/8]&(1<<(x%8)) != 0 {
				colors[y*width+x] = foreground
			} else {
				colors[y*width+x] = background
			}
		}
	}
	return tk.createPixmap(colors, width, height, depth)
}

func (tk *Toolkit) createPixmap(colors []uint32, width, height, depth int) (Pixmap, error) {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	h, err := tk.reg.alloc(KindPixmap)
	if err != nil {
		return 0, err
	}
	if err := tk.driver.CreatePixmap(Pixmap(h), colors, width, height, depth); err != nil {
		tk.reg.release(h)
		return 0, err
	}
	return Pixmap(h), nil
}

// FreePixmap frees the pixmap's handle after forwarding the request.
func (tk *Toolkit) FreePixmap(p Pixmap) error {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	if err := tk.reg.resolve(Handle(p), KindPixmap); err != nil {
		tk.log.Err().Err(err).Uint64(`pixmap`, uint64(p)).Log(`refusing to free pixmap`)
		return err
	}
	tk.driver.FreePixmap(p)
	tk.reg.release(Handle(p))
	return nil
}

// FillRectangle fills a rectangle on the drawable using the context's fill
// style.
func (tk *Toolkit) FillRectangle(d Drawable, gc *GC, x, y, width, height int) error {
	return tk.drawOp(d, gc, func(d Drawable, g GContext) {
		tk.driver.FillRectangle(d, g, x, y, width, height)
	})
}

// DrawRectangle outlines a rectangle on the drawable.
func (tk *Toolkit) DrawRectangle(d Drawable, gc *GC, x, y, width, height int) error {
	return tk.drawOp(d, gc, func(d Drawable, g GContext) {
		tk.driver.DrawRectangle(d, g, x, y, width, height)
	})
}

// DrawPoint paints a single pixel on the drawable.
func (tk *Toolkit) DrawPoint(d Drawable, gc *GC, x, y int) error {
	return tk.drawOp(d, gc, func(d Drawable, g GContext) {
		tk.driver.DrawPoint(d, g, x, y)
	})
}

// DrawLine paints a line segment on the drawable.
func (tk *Toolkit) DrawLine(d Drawable, gc *GC, x, y, x2, y2 int) error {
	return tk.drawOp(d, gc, func(d Drawable, g GContext) {
		tk.driver.DrawLine(d, g, x, y, x2, y2)
	})
}

// FillPolygon fills the polygon described by points on the drawable.
func (tk *Toolkit) FillPolygon(d Drawable, gc *GC, points []Point) error {
	return tk.drawOp(d, gc, func(d Drawable, g GContext) {
		tk.driver.FillPolygon(d, g, points)
	})
}

// CopyArea copies a region between drawables using the graphics context.
func (tk *Toolkit) CopyArea(src, dest Drawable, gc *GC, srcX, srcY, width, height, destX, destY int) error {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	if _, err := tk.reg.resolveDrawable(src); err != nil {
		return err
	}
	if _, err := tk.reg.resolveDrawable(dest); err != nil {
		return err
	}
	g, err := tk.resolveGC(gc)
	if err != nil {
		return err
	}
	tk.driver.CopyArea(src, dest, g, srcX, srcY, width, height, destX, destY)
	return nil
}

func (tk *Toolkit) drawOp(d Drawable, gc *GC, op func(Drawable, GContext)) error {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	if _, err := tk.reg.resolveDrawable(d); err != nil {
		return err
	}
	g, err := tk.resolveGC(gc)
	if err != nil {
		return err
	}
	op(d, g)
	return nil
}

func (tk *Toolkit) resolveGC(gc *GC) (GContext, error) {
	if gc == nil {
		return 0, ErrBadHandle
	}
	if err := tk.reg.resolve(Handle(gc.gcontext), KindGContext); err != nil {
		return 0, err
	}
	return gc.gcontext, nil
}
