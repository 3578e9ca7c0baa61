//go:build linux || darwin

// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package toolkit

// GC is a graphics context: a bundle of drawing parameters applied by every
// drawing request naming it. The toolkit caches applied values so they can
// be read back without a round trip to the driver.
type GC struct {
	tk       *Toolkit
	gcontext GContext
	// values is the cache of applied parameters, guarded by tk.mu.
	values GCValues
}

// CreateGC allocates a handle, realizes a graphics context for it, and
// applies the masked values fields. Values may be nil when mask is zero.
func (tk *Toolkit) CreateGC(mask GCValueMask, values *GCValues) (*GC, error) {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	if values == nil {
		values = new(GCValues)
	}
	if err := tk.validateGCValues(mask, values); err != nil {
		return nil, err
	}
	h, err := tk.reg.alloc(KindGContext)
	if err != nil {
		return nil, err
	}
	if err := tk.driver.CreateGC(GContext(h)); err != nil {
		tk.reg.release(h)
		return nil, err
	}
	gc := &GC{tk: tk, gcontext: GContext(h)}
	gc.apply(mask, values)
	return gc, nil
}

// Handle returns the context's handle.
func (gc *GC) Handle() GContext {
	return gc.gcontext
}

// Change applies the masked values fields to the context. Applying a zero
// [GCValues.ClipMask] through [GCClipMask] clears the mask along with any
// clip rectangles.
func (gc *GC) Change(mask GCValueMask, values *GCValues) error {
	gc.tk.mu.Lock()
	defer gc.tk.mu.Unlock()
	if values == nil {
		values = new(GCValues)
	}
	if err := gc.resolve(); err != nil {
		return err
	}
	if err := gc.tk.validateGCValues(mask, values); err != nil {
		return err
	}
	gc.apply(mask, values)
	return nil
}

// SetForeground changes the foreground color.
func (gc *GC) SetForeground(pixel uint32) error {
	return gc.Change(GCForeground, &GCValues{Foreground: pixel})
}

// SetBackground changes the background color.
func (gc *GC) SetBackground(pixel uint32) error {
	return gc.Change(GCBackground, &GCValues{Background: pixel})
}

// SetClipMask changes the clip mask pixmap. Zero clears it.
func (gc *GC) SetClipMask(p Pixmap) error {
	return gc.Change(GCClipMask, &GCValues{ClipMask: p})
}

// SetFillStyle changes the fill style.
func (gc *GC) SetFillStyle(style FillStyle) error {
	return gc.Change(GCFillStyle, &GCValues{FillStyle: style})
}

// SetTSOrigin changes the tile and stipple origin.
func (gc *GC) SetTSOrigin(x, y int) error {
	return gc.Change(GCTileStipXOrigin|GCTileStipYOrigin, &GCValues{TSXOrigin: x, TSYOrigin: y})
}

// SetClipRectangles replaces the context's clip rectangle list and origin.
func (gc *GC) SetClipRectangles(xOrigin, yOrigin int, rects []Rectangle) error {
	gc.tk.mu.Lock()
	defer gc.tk.mu.Unlock()
	if err := gc.resolve(); err != nil {
		return err
	}
	gc.values.ClipXOrigin = xOrigin
	gc.values.ClipYOrigin = yOrigin
	gc.tk.driver.SetClipRectangles(gc.gcontext, xOrigin, yOrigin, rects)
	return nil
}

// Values returns the masked subset of the applied parameters.
func (gc *GC) Values(mask GCValueMask) (GCValues, error) {
	gc.tk.mu.Lock()
	defer gc.tk.mu.Unlock()
	if err := gc.resolve(); err != nil {
		return GCValues{}, err
	}
	var values GCValues
	if mask&GCForeground != 0 {
		values.Foreground = gc.values.Foreground
	}
	if mask&GCBackground != 0 {
		values.Background = gc.values.Background
	}
	if mask&GCFunction != 0 {
		values.Function = gc.values.Function
	}
	if mask&GCClipXOrigin != 0 {
		values.ClipXOrigin = gc.values.ClipXOrigin
	}
	if mask&GCClipYOrigin != 0 {
		values.ClipYOrigin = gc.values.ClipYOrigin
	}
	if mask&GCClipMask != 0 {
		values.ClipMask = gc.values.ClipMask
	}
	if mask&GCStipple != 0 {
		values.Stipple = gc.values.Stipple
	}
	if mask&GCFillStyle != 0 {
		values.FillStyle = gc.values.FillStyle
	}
	if mask&GCTileStipXOrigin != 0 {
		values.TSXOrigin = gc.values.TSXOrigin
	}
	if mask&GCTileStipYOrigin != 0 {
		values.TSYOrigin = gc.values.TSYOrigin
	}
	return values, nil
}

// Free releases the context's handle after forwarding the request. The GC
// must not be used afterwards.
func (gc *GC) Free() error {
	gc.tk.mu.Lock()
	defer gc.tk.mu.Unlock()
	if err := gc.resolve(); err != nil {
		gc.tk.log.Err().Err(err).Uint64(`gcontext`, uint64(gc.gcontext)).Log(`refusing to free graphics context`)
		return err
	}
	gc.tk.driver.FreeGC(gc.gcontext)
	gc.tk.reg.release(Handle(gc.gcontext))
	return nil
}

func (gc *GC) resolve() error {
	return gc.tk.reg.resolve(Handle(gc.gcontext), KindGContext)
}

// apply caches the masked fields and forwards the change. Callers hold
// tk.mu and have validated values.
func (gc *GC) apply(mask GCValueMask, values *GCValues) {
	if mask == 0 {
		return
	}
	if mask&GCForeground != 0 {
		gc.values.Foreground = values.Foreground
	}
	if mask&GCBackground != 0 {
		gc.values.Background = values.Background
	}
	if mask&GCFunction != 0 {
		gc.values.Function = values.Function
	}
	if mask&GCClipXOrigin != 0 {
		gc.values.ClipXOrigin = values.ClipXOrigin
	}
	if mask&GCClipYOrigin != 0 {
		gc.values.ClipYOrigin = values.ClipYOrigin
	}
	if mask&GCClipMask != 0 {
		gc.values.ClipMask = values.ClipMask
	}
	if mask&GCStipple != 0 {
		gc.values.Stipple = values.Stipple
	}
	if mask&GCFillStyle != 0 {
		gc.values.FillStyle = values.FillStyle
	}
	if mask&GCTileStipXOrigin != 0 {
		gc.values.TSXOrigin = values.TSXOrigin
	}
	if mask&GCTileStipYOrigin != 0 {
		gc.values.TSYOrigin = values.TSYOrigin
	}
	gc.tk.driver.ChangeGC(gc.gcontext, mask, values)
}

// validateGCValues checks that masked pixmap references are live pixmaps.
// Zero is legal for both and means none.
func (tk *Toolkit) validateGCValues(mask GCValueMask, values *GCValues) error {
	if mask&GCClipMask != 0 && values.ClipMask != 0 {
		if err := tk.reg.resolve(Handle(values.ClipMask), KindPixmap); err != nil {
			return err
		}
	}
	if mask&GCStipple != 0 && values.Stipple != 0 {
		if err := tk.reg.resolve(Handle(values.Stipple), KindPixmap); err != nil {
			return err
		}
	}
	return nil
}
