//go:build linux || darwin

package toolkit

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	eventmux "github.com/joeycumines/go-eventmux"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDriver records forwarded requests as formatted strings, which keeps
// call-order assertions terse.
type fakeDriver struct {
	mu    sync.Mutex
	calls []string

	createWindowErr error
	createGCErr     error
	createPixmapErr error

	lastMask   GCValueMask
	lastValues GCValues
	lastColors []uint32
	lastRects  []Rectangle
	lastPoints []Point
}

func (d *fakeDriver) record(format string, args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *fakeDriver) take() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	calls := d.calls
	d.calls = nil
	return calls
}

func (d *fakeDriver) CreateWindow(w Window, parent Window, x, y, width, height int, mask WindowValueMask, attrs *WindowAttributes) error {
	if d.createWindowErr != nil {
		return d.createWindowErr
	}
	d.record(`CreateWindow %d parent=%d %d,%d %dx%d`, w, parent, x, y, width, height)
	return nil
}

func (d *fakeDriver) DestroyWindow(w Window)      { d.record(`DestroyWindow %d`, w) }
func (d *fakeDriver) MapWindow(w Window)          { d.record(`MapWindow %d`, w) }
func (d *fakeDriver) UnmapWindow(w Window)        { d.record(`UnmapWindow %d`, w) }
func (d *fakeDriver) MoveWindow(w Window, x, y int) {
	d.record(`MoveWindow %d %d,%d`, w, x, y)
}

func (d *fakeDriver) ResizeWindow(w Window, width, height int) {
	d.record(`ResizeWindow %d %dx%d`, w, width, height)
}

func (d *fakeDriver) SetWindowBackground(w Window, pixel uint32) {
	d.record(`SetWindowBackground %d %#x`, w, pixel)
}

func (d *fakeDriver) ClearWindow(w Window) { d.record(`ClearWindow %d`, w) }

func (d *fakeDriver) ClearArea(w Window, x, y, width, height int) {
	d.record(`ClearArea %d %d,%d %dx%d`, w, x, y, width, height)
}

func (d *fakeDriver) SwapBuffers(w Window) { d.record(`SwapBuffers %d`, w) }

func (d *fakeDriver) CreateGC(gc GContext) error {
	if d.createGCErr != nil {
		return d.createGCErr
	}
	d.record(`CreateGC %d`, gc)
	return nil
}

func (d *fakeDriver) ChangeGC(gc GContext, mask GCValueMask, values *GCValues) {
	d.mu.Lock()
	d.lastMask = mask
	d.lastValues = *values
	d.mu.Unlock()
	d.record(`ChangeGC %d %#x`, gc, uint(mask))
}

func (d *fakeDriver) SetClipRectangles(gc GContext, xOrigin, yOrigin int, rects []Rectangle) {
	d.mu.Lock()
	d.lastRects = rects
	d.mu.Unlock()
	d.record(`SetClipRectangles %d %d,%d n=%d`, gc, xOrigin, yOrigin, len(rects))
}

func (d *fakeDriver) FreeGC(gc GContext) { d.record(`FreeGC %d`, gc) }

func (d *fakeDriver) CreatePixmap(p Pixmap, colors []uint32, width, height, depth int) error {
	if d.createPixmapErr != nil {
		return d.createPixmapErr
	}
	d.mu.Lock()
	d.lastColors = colors
	d.mu.Unlock()
	d.record(`CreatePixmap %d %dx%d depth=%d`, p, width, height, depth)
	return nil
}

func (d *fakeDriver) FreePixmap(p Pixmap) { d.record(`FreePixmap %d`, p) }

func (d *fakeDriver) FillRectangle(dr Drawable, gc GContext, x, y, width, height int) {
	d.record(`FillRectangle %d gc=%d %d,%d %dx%d`, dr, gc, x, y, width, height)
}

func (d *fakeDriver) DrawRectangle(dr Drawable, gc GContext, x, y, width, height int) {
	d.record(`DrawRectangle %d gc=%d %d,%d %dx%d`, dr, gc, x, y, width, height)
}

func (d *fakeDriver) DrawPoint(dr Drawable, gc GContext, x, y int) {
	d.record(`DrawPoint %d gc=%d %d,%d`, dr, gc, x, y)
}

func (d *fakeDriver) DrawLine(dr Drawable, gc GContext, x, y, x2, y2 int) {
	d.record(`DrawLine %d gc=%d %d,%d %d,%d`, dr, gc, x, y, x2, y2)
}

func (d *fakeDriver) FillPolygon(dr Drawable, gc GContext, points []Point) {
	d.mu.Lock()
	d.lastPoints = points
	d.mu.Unlock()
	d.record(`FillPolygon %d gc=%d n=%d`, dr, gc, len(points))
}

func (d *fakeDriver) CopyArea(src, dest Drawable, gc GContext, srcX, srcY, width, height, destX, destY int) {
	d.record(`CopyArea %d->%d gc=%d %d,%d %dx%d %d,%d`, src, dest, gc, srcX, srcY, width, height, destX, destY)
}

type logCapture struct {
	mu    sync.Mutex
	lines []string
}

func (c *logCapture) write(e *stumpy.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, string(e.Bytes())+`}`)
	return nil
}

func (c *logCapture) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}

func (c *logCapture) logger() *logiface.Logger[logiface.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithTimeField(``)),
		stumpy.L.WithWriter(logiface.WriterFunc[*stumpy.Event](c.write)),
	).Logger()
}

func newTestToolkit(t *testing.T) (*Toolkit, *fakeDriver, *eventmux.Queue) {
	t.Helper()
	q, err := eventmux.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = q.Close() })
	d := new(fakeDriver)
	return New(nil, d, q), d, q
}

func TestNew_PanicsOnNilArgs(t *testing.T) {
	q, err := eventmux.New()
	require.NoError(t, err)
	defer q.Close()
	assert.PanicsWithValue(t, `toolkit: nil driver`, func() { New(nil, nil, q) })
	assert.PanicsWithValue(t, `toolkit: nil queue`, func() { New(nil, new(fakeDriver), nil) })
}

func TestToolkit_CreateWindow(t *testing.T) {
	tk, d, _ := newTestToolkit(t)

	root, err := tk.CreateWindow(0, 0, 0, 640, 480, CWBackPixel, &WindowAttributes{BackgroundPixel: 0xffffff})
	require.NoError(t, err)
	assert.Equal(t, Window(1), root)

	child, err := tk.CreateWindow(root, 10, 20, 100, 50, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, Window(2), child)

	assert.Equal(t, []string{
		`CreateWindow 1 parent=0 0,0 640x480`,
		`SetWindowBackground 1 0xffffff`,
		`CreateWindow 2 parent=1 10,20 100x50`,
	}, d.take())

	_, err = tk.CreateWindow(Window(99), 0, 0, 1, 1, 0, nil)
	assert.ErrorIs(t, err, ErrBadHandle)
}

func TestToolkit_CreateWindowRollback(t *testing.T) {
	tk, d, _ := newTestToolkit(t)
	d.createWindowErr = errors.New(`runtime rejected window`)

	_, err := tk.CreateWindow(0, 0, 0, 1, 1, 0, nil)
	require.EqualError(t, err, `runtime rejected window`)

	// The failed creation's handle was released and is reissued.
	d.createWindowErr = nil
	w, err := tk.CreateWindow(0, 0, 0, 1, 1, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, Window(1), w)
}

func TestToolkit_WindowOps(t *testing.T) {
	tk, d, _ := newTestToolkit(t)

	w, err := tk.CreateWindow(0, 0, 0, 640, 480, 0, nil)
	require.NoError(t, err)
	d.take()

	require.NoError(t, tk.MapWindow(w))
	require.NoError(t, tk.MoveWindow(w, 5, 6))
	require.NoError(t, tk.ResizeWindow(w, 800, 600))
	require.NoError(t, tk.ClearArea(w, 1, 2, 3, 4))
	require.NoError(t, tk.ClearWindow(w))
	require.NoError(t, tk.SetWindowBackground(w, 0xff00ff))
	require.NoError(t, tk.UnmapWindow(w))
	require.NoError(t, tk.SwapBuffers(w))

	assert.Equal(t, []string{
		`MapWindow 1`,
		`MoveWindow 1 5,6`,
		`ResizeWindow 1 800x600`,
		`ClearArea 1 1,2 3x4`,
		`ClearWindow 1`,
		`SetWindowBackground 1 0xff00ff`,
		`UnmapWindow 1`,
		`SwapBuffers 1`,
	}, d.take())

	assert.ErrorIs(t, tk.MapWindow(Window(42)), ErrBadHandle)

	p, err := tk.CreatePixmap(8, 8, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, tk.ClearWindow(Window(p)), ErrWrongKind)
}

func TestToolkit_SwapBuffersValidatesFirst(t *testing.T) {
	tk, d, _ := newTestToolkit(t)

	w, err := tk.CreateWindow(0, 0, 0, 1, 1, 0, nil)
	require.NoError(t, err)
	d.take()

	// Nothing is presented when any window fails validation.
	assert.ErrorIs(t, tk.SwapBuffers(w, Window(7)), ErrBadHandle)
	assert.Empty(t, d.take())
}

func TestToolkit_DestroyWindow(t *testing.T) {
	var capture logCapture
	q, err := eventmux.New()
	require.NoError(t, err)
	defer q.Close()
	d := new(fakeDriver)
	tk := New(&Config{Logger: capture.logger()}, d, q)

	w, err := tk.CreateWindow(0, 0, 0, 1, 1, 0, nil)
	require.NoError(t, err)

	require.NoError(t, tk.DestroyWindow(w))
	assert.ErrorIs(t, tk.DestroyWindow(w), ErrBadHandle)

	p, err := tk.CreatePixmap(4, 4, 24)
	require.NoError(t, err)
	assert.ErrorIs(t, tk.DestroyWindow(Window(p)), ErrWrongKind)

	lines := capture.all()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"lvl":"err"`)
	assert.Contains(t, lines[0], `"msg":"refusing to destroy window"`)
	assert.Contains(t, lines[1], `"err":"toolkit: handle has wrong kind"`)
}

func TestToolkit_HandleRecycling(t *testing.T) {
	tk, _, _ := newTestToolkit(t)

	w, err := tk.CreateWindow(0, 0, 0, 1, 1, 0, nil)
	require.NoError(t, err)
	require.NoError(t, tk.DestroyWindow(w))

	// Freed identifiers are reissued oldest-first, regardless of kind.
	p, err := tk.CreatePixmap(2, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, Pixmap(w), p)

	assert.ErrorIs(t, tk.MapWindow(w), ErrWrongKind)
}

func TestToolkit_GCLifecycle(t *testing.T) {
	tk, d, _ := newTestToolkit(t)

	gc, err := tk.CreateGC(GCForeground|GCBackground, &GCValues{
		Foreground: 0x112233,
		Background: 0xffffff,
	})
	require.NoError(t, err)
	assert.Equal(t, GContext(1), gc.Handle())

	assert.Equal(t, []string{
		`CreateGC 1`,
		`ChangeGC 1 0x3`,
	}, d.take())
	assert.Equal(t, GCForeground|GCBackground, d.lastMask)
	assert.Equal(t, uint32(0x112233), d.lastValues.Foreground)

	require.NoError(t, gc.SetForeground(0xabcdef))
	require.NoError(t, gc.SetFillStyle(FillOpaqueStippled))
	require.NoError(t, gc.SetTSOrigin(3, 4))

	values, err := gc.Values(GCForeground | GCBackground | GCFillStyle | GCTileStipXOrigin | GCTileStipYOrigin)
	require.NoError(t, err)
	assert.Equal(t, GCValues{
		Foreground: 0xabcdef,
		Background: 0xffffff,
		FillStyle:  FillOpaqueStippled,
		TSXOrigin:  3,
		TSYOrigin:  4,
	}, values)

	// Unmasked fields are not returned.
	values, err = gc.Values(GCBackground)
	require.NoError(t, err)
	assert.Equal(t, GCValues{Background: 0xffffff}, values)

	require.NoError(t, gc.Free())
	assert.ErrorIs(t, gc.SetForeground(0), ErrBadHandle)
	_, err = gc.Values(GCForeground)
	assert.ErrorIs(t, err, ErrBadHandle)
}

func TestToolkit_GCCreateRollback(t *testing.T) {
	tk, d, _ := newTestToolkit(t)
	d.createGCErr = errors.New(`runtime rejected gc`)

	_, err := tk.CreateGC(0, nil)
	require.EqualError(t, err, `runtime rejected gc`)

	d.createGCErr = nil
	gc, err := tk.CreateGC(0, nil)
	require.NoError(t, err)
	assert.Equal(t, GContext(1), gc.Handle())

	// A zero mask applies nothing.
	assert.Equal(t, []string{`CreateGC 1`}, d.take())
}

func TestToolkit_GCPixmapValidation(t *testing.T) {
	tk, d, _ := newTestToolkit(t)

	p, err := tk.CreatePixmap(16, 16, 1)
	require.NoError(t, err)
	w, err := tk.CreateWindow(0, 0, 0, 1, 1, 0, nil)
	require.NoError(t, err)
	d.take()

	gc, err := tk.CreateGC(GCClipMask|GCStipple, &GCValues{ClipMask: p, Stipple: p})
	require.NoError(t, err)

	// None clears the mask.
	require.NoError(t, gc.SetClipMask(0))

	assert.ErrorIs(t, gc.SetClipMask(Pixmap(w)), ErrWrongKind)
	assert.ErrorIs(t, gc.SetClipMask(Pixmap(77)), ErrBadHandle)

	// Failed validation must not register a handle or touch the driver.
	d.take()
	_, err = tk.CreateGC(GCStipple, &GCValues{Stipple: Pixmap(77)})
	assert.ErrorIs(t, err, ErrBadHandle)
	assert.Empty(t, d.take())
}

func TestToolkit_SetClipRectangles(t *testing.T) {
	tk, d, _ := newTestToolkit(t)

	gc, err := tk.CreateGC(0, nil)
	require.NoError(t, err)
	d.take()

	rects := []Rectangle{{X: 0, Y: 0, Width: 10, Height: 10}, {X: 5, Y: 5, Width: 1, Height: 2}}
	require.NoError(t, gc.SetClipRectangles(7, 8, rects))

	assert.Equal(t, []string{`SetClipRectangles 1 7,8 n=2`}, d.take())
	assert.Equal(t, rects, d.lastRects)

	values, err := gc.Values(GCClipXOrigin | GCClipYOrigin)
	require.NoError(t, err)
	assert.Equal(t, GCValues{ClipXOrigin: 7, ClipYOrigin: 8}, values)
}

func TestToolkit_Drawing(t *testing.T) {
	tk, d, _ := newTestToolkit(t)

	w, err := tk.CreateWindow(0, 0, 0, 640, 480, 0, nil)
	require.NoError(t, err)
	p, err := tk.CreatePixmap(64, 64, 24)
	require.NoError(t, err)
	gc, err := tk.CreateGC(0, nil)
	require.NoError(t, err)
	d.take()

	require.NoError(t, tk.FillRectangle(Drawable(w), gc, 1, 2, 3, 4))
	require.NoError(t, tk.DrawRectangle(Drawable(p), gc, 5, 6, 7, 8))
	require.NoError(t, tk.DrawPoint(Drawable(w), gc, 9, 10))
	require.NoError(t, tk.DrawLine(Drawable(w), gc, 0, 0, 11, 12))
	require.NoError(t, tk.FillPolygon(Drawable(p), gc, []Point{{0, 0}, {4, 0}, {2, 3}}))
	require.NoError(t, tk.CopyArea(Drawable(p), Drawable(w), gc, 0, 0, 32, 32, 100, 100))

	assert.Equal(t, []string{
		`FillRectangle 1 gc=3 1,2 3x4`,
		`DrawRectangle 2 gc=3 5,6 7x8`,
		`DrawPoint 1 gc=3 9,10`,
		`DrawLine 1 gc=3 0,0 11,12`,
		`FillPolygon 2 gc=3 n=3`,
		`CopyArea 2->1 gc=3 0,0 32x32 100,100`,
	}, d.take())
	assert.Equal(t, []Point{{0, 0}, {4, 0}, {2, 3}}, d.lastPoints)

	assert.ErrorIs(t, tk.FillRectangle(Drawable(99), gc, 0, 0, 1, 1), ErrBadHandle)
	assert.ErrorIs(t, tk.DrawLine(Drawable(gc.Handle()), gc, 0, 0, 1, 1), ErrWrongKind)
	assert.ErrorIs(t, tk.CopyArea(Drawable(w), Drawable(99), gc, 0, 0, 1, 1, 0, 0), ErrBadHandle)

	require.NoError(t, gc.Free())
	assert.ErrorIs(t, tk.FillRectangle(Drawable(w), gc, 0, 0, 1, 1), ErrBadHandle)
	assert.Empty(t, d.take())
}

func TestToolkit_CreatePixmapFromBitmapData(t *testing.T) {
	tk, d, _ := newTestToolkit(t)

	const fg, bg = uint32(0xff0000), uint32(0x0000ff)

	// Two rows of three bits, one byte per row: 0b101 then 0b010.
	p, err := tk.CreatePixmapFromBitmapData([]byte{0b101, 0b010}, 3, 2, fg, bg, 1)
	require.NoError(t, err)
	assert.Equal(t, Pixmap(1), p)

	assert.Equal(t, []string{`CreatePixmap 1 3x2 depth=1`}, d.take())
	assert.Equal(t, []uint32{fg, bg, fg, bg, fg, bg}, d.lastColors)
}

func TestToolkit_PixmapRollback(t *testing.T) {
	tk, d, _ := newTestToolkit(t)
	d.createPixmapErr = errors.New(`runtime rejected pixmap`)

	_, err := tk.CreatePixmap(8, 8, 24)
	require.EqualError(t, err, `runtime rejected pixmap`)

	d.createPixmapErr = nil
	p, err := tk.CreatePixmap(8, 8, 24)
	require.NoError(t, err)
	assert.Equal(t, Pixmap(1), p)

	require.NoError(t, tk.FreePixmap(p))
	assert.ErrorIs(t, tk.FreePixmap(p), ErrBadHandle)
}

func TestToolkit_DeliverEvents(t *testing.T) {
	tk, _, q := newTestToolkit(t)

	w, err := tk.CreateWindow(0, 0, 0, 1, 1, 0, nil)
	require.NoError(t, err)

	require.NoError(t, tk.DeliverKeyPress(w, 100*time.Millisecond, 4, 38))
	require.NoError(t, tk.DeliverKeyRelease(w, 150*time.Millisecond, 4, 38))
	require.NoError(t, tk.DeliverConfigureNotify(w, 200*time.Millisecond, 0, 0, 800, 600))

	ev, err := q.Next()
	require.NoError(t, err)
	assert.Equal(t, eventmux.Event{
		Kind:    eventmux.KindKeyPress,
		Window:  w,
		Time:    100 * time.Millisecond,
		State:   4,
		Keycode: 38,
	}, ev)

	ev, err = q.Next()
	require.NoError(t, err)
	assert.Equal(t, eventmux.KindKeyRelease, ev.Kind)

	ev, err = q.Next()
	require.NoError(t, err)
	assert.Equal(t, eventmux.Event{
		Kind:   eventmux.KindConfigureNotify,
		Window: w,
		Time:   200 * time.Millisecond,
		Width:  800,
		Height: 600,
	}, ev)

	require.NoError(t, q.Close())
	err = tk.DeliverKeyPress(w, 0, 0, 0)
	assert.ErrorIs(t, err, eventmux.ErrClosed)
}

func TestToolkit_DeliveryDoesNotValidateWindows(t *testing.T) {
	tk, _, q := newTestToolkit(t)

	w, err := tk.CreateWindow(0, 0, 0, 1, 1, 0, nil)
	require.NoError(t, err)
	require.NoError(t, tk.DestroyWindow(w))

	// Producers race window destruction; records for dead windows still
	// queue, and the consumer discards them.
	require.NoError(t, tk.DeliverKeyPress(w, 0, 0, 99))

	ev, err := q.Next()
	require.NoError(t, err)
	assert.Equal(t, w, ev.Window)

	if !strings.HasPrefix(ev.Kind.String(), `Key`) {
		t.Fatalf(`unexpected kind %v`, ev.Kind)
	}
}
