//go:build linux || darwin

package toolkit

// Driver is the embedded UI runtime's side of the bridge. The Toolkit
// resolves and validates handles, then forwards each request to exactly one
// driver method; the driver owns the runtime objects the handles name.
//
// Creation methods may fail, in which case the Toolkit releases the handle
// it allocated for the object. The remaining methods are fire and forget:
// by the time they are called the named handles are known live and of the
// right kind, and the runtime applies the request asynchronously.
//
// The Toolkit serializes driver calls and holds its own lock across them.
// Drivers must not call back into the Toolkit, directly or otherwise.
type Driver interface {
	// CreateWindow realizes a window with the given handle. Parent is
	// zero for a top level window. Mask selects which attrs fields
	// apply.
	CreateWindow(w Window, parent Window, x, y, width, height int, mask WindowValueMask, attrs *WindowAttributes) error
	DestroyWindow(w Window)
	MapWindow(w Window)
	UnmapWindow(w Window)
	MoveWindow(w Window, x, y int)
	ResizeWindow(w Window, width, height int)
	// SetWindowBackground changes the pixel painted behind window
	// contents.
	SetWindowBackground(w Window, pixel uint32)
	ClearWindow(w Window)
	ClearArea(w Window, x, y, width, height int)
	// SwapBuffers presents the window's back buffer.
	SwapBuffers(w Window)

	// CreateGC realizes a graphics context with the given handle. The
	// Toolkit applies the initial values through ChangeGC immediately
	// afterwards.
	CreateGC(gc GContext) error
	// ChangeGC applies the masked values fields. When the mask includes
	// [GCClipMask] any clip rectangles are discarded, even if the new
	// mask pixmap is zero.
	ChangeGC(gc GContext, mask GCValueMask, values *GCValues)
	// SetClipRectangles replaces the clip rectangle list and origin.
	SetClipRectangles(gc GContext, xOrigin, yOrigin int, rects []Rectangle)
	FreeGC(gc GContext)

	// CreatePixmap realizes an off-screen surface with the given handle.
	// Colors is nil for a blank surface, otherwise a row-major pixel
	// array of width*height entries.
	CreatePixmap(p Pixmap, colors []uint32, width, height, depth int) error
	FreePixmap(p Pixmap)

	FillRectangle(d Drawable, gc GContext, x, y, width, height int)
	DrawRectangle(d Drawable, gc GContext, x, y, width, height int)
	DrawPoint(d Drawable, gc GContext, x, y int)
	DrawLine(d Drawable, gc GContext, x, y, x2, y2 int)
	FillPolygon(d Drawable, gc GContext, points []Point)
	CopyArea(src, dest Drawable, gc GContext, srcX, srcY, width, height, destX, destY int)
}
