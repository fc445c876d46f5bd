// Package cursor implements the logical pointer and interactive
// move/resize grab state machine of spec.md §4.4/§4.5.
package cursor

import (
	"image"

	"github.com/friedelschoen/wlcompose/handle"
	"github.com/friedelschoen/wlcompose/view"
)

// Mode is one state of the cursor's grab state machine.
type Mode int

const (
	Passthrough Mode = iota
	Move
	Resize
)

func (m Mode) String() string {
	switch m {
	case Passthrough:
		return "passthrough"
	case Move:
		return "move"
	case Resize:
		return "resize"
	default:
		return "unknown-cursor-mode"
	}
}

// Grabbable is the subset of view.View a grab needs: geometry read/write
// and the immediate-move / pending-resize requests view.View already
// implements.
type Grabbable interface {
	Geometry() image.Rectangle
	RequestMove(newOrigin image.Point) (pre, post image.Rectangle)
	RequestResize(w, h int, edges view.Edges) (serial uint32, hasSerial bool)
}

// grab is the record of spec.md §3 Grab record, holding a weak reference
// to the view being dragged so that destroying the view mid-grab cannot
// leave a dangling pointer.
type grab struct {
	view           handle.Ref[Grabbable]
	originalCursor image.Point
	originalGeo    image.Rectangle
	resizeEdges    view.Edges
}

// Overrider is the subset of mousegrab.Grabber the cursor forwards
// motion/button events to while a controller is bound (spec.md §4.8).
type Overrider interface {
	Bound() bool
	NotifyMotion(x, y int32)
	NotifyButton(x, y int32, pressed bool, button uint32) (consumed bool)
}

// Cursor is the singleton of spec.md §3 Cursor.
type Cursor struct {
	views *handle.Slab[Grabbable]

	X, Y int

	mode Mode
	g    grab

	compositorImage string // compositor-requested image name, "" if none
	clientImage     string // client-requested image name, "" if none
	defaultImage    string
	lockSoftware    bool

	override Overrider
}

func New(views *handle.Slab[Grabbable], defaultImage string) *Cursor {
	return &Cursor{views: views, defaultImage: defaultImage}
}

// SetOverride wires in the mousegrabber singleton so passthrough motion
// and button events can be forwarded when a controller is bound.
func (c *Cursor) SetOverride(o Overrider) { c.override = o }

// Mode reports the current grab mode.
func (c *Cursor) Mode() Mode { return c.mode }

// LockSoftwareCursors reports whether software cursor updates must be
// applied synchronously with motion (set while a mousegrabber client is
// bound, spec.md §4.8).
func (c *Cursor) LockSoftwareCursors() bool { return c.lockSoftware }
func (c *Cursor) SetLockSoftwareCursors(v bool) { c.lockSoftware = v }

// Image is the name the renderer should currently draw, in priority
// order: compositor override, client request, default.
func (c *Cursor) Image() string {
	if c.compositorImage != "" {
		return c.compositorImage
	}
	if c.clientImage != "" {
		return c.clientImage
	}
	return c.defaultImage
}

// SetCompositorImage implements mousegrabber's grab() image swap; an
// empty name clears the override, restoring client/default priority.
func (c *Cursor) SetCompositorImage(name string) { c.compositorImage = name }

// SetClientImage honors a client's wl_pointer.set_cursor request; callers
// are responsible for checking that the requester owns pointer focus
// (spec.md §4.6 "honored only if the requesting client owns the
// pointer-focused surface") before calling this.
func (c *Cursor) SetClientImage(name string) { c.clientImage = name }

// BeginMove transitions Passthrough -> Move (spec.md §4.4 row 1),
// snapshotting the grab record. No-op if not currently Passthrough.
func (c *Cursor) BeginMove(r handle.Ref[Grabbable]) {
	if c.mode != Passthrough {
		return
	}
	v, ok := c.views.Get(r)
	if !ok {
		return
	}
	c.mode = Move
	c.g = grab{view: r, originalCursor: image.Pt(c.X, c.Y), originalGeo: v.Geometry()}
}

// BeginResize transitions Passthrough -> Resize (spec.md §4.4 row 2).
func (c *Cursor) BeginResize(r handle.Ref[Grabbable], edges view.Edges) {
	if c.mode != Passthrough {
		return
	}
	v, ok := c.views.Get(r)
	if !ok {
		return
	}
	c.mode = Resize
	c.g = grab{view: r, originalCursor: image.Pt(c.X, c.Y), originalGeo: v.Geometry(), resizeEdges: edges}
}

// EndGrab discards the grab record and returns to Passthrough, per
// spec.md §4.4 rows 3-4 (button release, or grabbed view destroyed).
func (c *Cursor) EndGrab() {
	c.mode = Passthrough
	c.g = grab{}
}

// Motion processes a pointer motion event, advancing the grab state
// machine per spec.md §4.4. In Passthrough mode the caller has already
// run its own point-in-layout query (it needs the hit view/local
// coordinates for seat focus regardless, per §4.6); passthroughFound
// tells Motion whether that query found anything, so it can decide
// whether to revert the client-requested cursor image. inPassthrough
// reports whether the caller's query result was actually consulted (it
// is ignored while an override is bound or a grab is active).
func (c *Cursor) Motion(x, y int, passthroughFound bool) (inPassthrough bool) {
	c.X, c.Y = x, y

	switch c.mode {
	case Move:
		v, ok := c.views.Get(c.g.view)
		if !ok {
			c.EndGrab()
			return false
		}
		newOrigin := image.Pt(
			c.g.originalGeo.Min.X+(x-c.g.originalCursor.X),
			c.g.originalGeo.Min.Y+(y-c.g.originalCursor.Y),
		)
		v.RequestMove(newOrigin)
		return false
	case Resize:
		v, ok := c.views.Get(c.g.view)
		if !ok {
			c.EndGrab()
			return false
		}
		w, h := resizedDims(c.g.originalGeo, c.g.resizeEdges, x-c.g.originalCursor.X, y-c.g.originalCursor.Y)
		v.RequestResize(w, h, c.g.resizeEdges)
		return false
	case Passthrough:
		if c.override != nil && c.override.Bound() {
			c.override.NotifyMotion(int32(x), int32(y))
			return false
		}
		if !passthroughFound && c.clientImage != "" {
			c.clientImage = ""
		}
		return true
	}
	return false
}

// resizedDims applies spec.md §4.4's per-edge resize math: top/left
// edges shift the anchored corner and shrink the opposite dimension;
// right/bottom edges just grow. Dimensions never fall below 1.
func resizedDims(origin image.Rectangle, edges view.Edges, dx, dy int) (w, h int) {
	w, h = origin.Dx(), origin.Dy()
	if edges&view.EdgeLeft != 0 {
		w -= dx
	} else if edges&view.EdgeRight != 0 {
		w += dx
	}
	if edges&view.EdgeTop != 0 {
		h -= dy
	} else if edges&view.EdgeBottom != 0 {
		h += dy
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Button processes a pointer button event per spec.md §4.5: while a
// mousegrabber client is bound, the event is forwarded and swallowed. A
// release always ends any active grab, whether or not it was forwarded.
func (c *Cursor) Button(pressed bool, button uint32) (forwarded bool) {
	if c.override != nil && c.override.Bound() {
		c.override.NotifyButton(int32(c.X), int32(c.Y), pressed, button)
		if !pressed {
			c.EndGrab()
		}
		return true
	}
	if !pressed {
		c.EndGrab()
	}
	return false
}
