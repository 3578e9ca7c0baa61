//go:build linux || darwin

package toolkit

// Rectangle is an axis-aligned region of a drawable.
type Rectangle struct {
	X, Y          int
	Width, Height int
}

// Point is a coordinate within a drawable.
type Point struct {
	X, Y int
}

// GCValueMask selects which [GCValues] fields an operation applies.
type GCValueMask uint

const (
	GCForeground GCValueMask = 1 << iota
	GCBackground
	GCFunction
	GCClipXOrigin
	GCClipYOrigin
	GCClipMask
	GCStipple
	GCFillStyle
	GCTileStipXOrigin
	GCTileStipYOrigin
)

// Function is the raster operation applied by drawing requests.
type Function int

const (
	// GXCopy replaces destination pixels with source pixels.
	GXCopy Function = iota
	// GXXor combines source and destination pixels with exclusive or.
	GXXor
)

// FillStyle selects how fill requests paint.
type FillStyle int

const (
	// FillSolid paints with the foreground color.
	FillSolid FillStyle = iota
	// FillOpaqueStippled paints foreground through set stipple bits and
	// background through clear ones.
	FillOpaqueStippled
)

// GCValues holds every graphics context parameter. Operations taking a
// mask read only the selected fields.
type GCValues struct {
	Function    Function
	Foreground  uint32
	Background  uint32
	ClipXOrigin int
	ClipYOrigin int
	// ClipMask restricts drawing to the set bits of a pixmap. Zero
	// clears the mask, and with it any clip rectangles.
	ClipMask Pixmap
	// Stipple is the pixmap painted through by stippled fill styles.
	// Zero clears it.
	Stipple   Pixmap
	FillStyle FillStyle
	TSXOrigin int
	TSYOrigin int
}

// WindowValueMask selects which [WindowAttributes] fields an operation
// applies.
type WindowValueMask uint

const (
	// CWOverrideRedirect marks the override redirect flag, which cannot
	// be changed after creation.
	CWOverrideRedirect WindowValueMask = 1 << iota
	// CWBackPixel marks the background pixel.
	CWBackPixel
)

// WindowAttributes holds the changeable window parameters.
type WindowAttributes struct {
	// BackgroundPixel is the color painted behind window contents.
	BackgroundPixel uint32
	// OverrideRedirect exempts the window from ordinary management. It
	// is honored at creation time only.
	OverrideRedirect bool
}
