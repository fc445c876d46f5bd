// Package view implements the application-surface lifecycle and
// geometry-negotiation state machine of spec.md §4.1–§4.2: a top-to-bottom
// stacking order mixing two toplevel shell variants and an X11-bridge
// role behind one Surface interface.
package view

import (
	"image"

	"github.com/friedelschoen/wlcompose/backend"
)

// View is one composited application surface, regardless of which shell
// protocol produced it (spec.md §3 View).
type View struct {
	Role    Role
	Surface Surface

	Mapped bool

	// Current is the last-committed geometry in output-layout coordinates,
	// except that during an outstanding resize its position is only
	// re-aligned to the dragged edges once the client acknowledges the
	// configure (spec.md §3 invariant ii/iii).
	Current image.Rectangle

	pendingEdges  Edges
	pendingSerial uint32
	isPending     bool
	usesSerial    bool

	appID string

	// Texture is the most recently uploaded client buffer, set by the
	// caller after each commit; the render package reads it, never the
	// view package itself (spec.md §4.9 step 5).
	Texture backend.Texture
}

// New creates an unmapped view. Per spec.md §4.1, a new view is inserted
// at the head of the view list in an unmapped state by the caller
// (Registry.Insert); this constructor only builds the value.
func New(role Role, surface Surface, appID string) *View {
	return &View{Role: role, Surface: surface, appID: appID}
}

// Map records the client's initial committed size as Current. Damage and
// focus are the caller's responsibility (spec.md §4.1 step list), since
// they require the output registry and seat, which this package does not
// depend on.
func (v *View) Map(initial image.Rectangle) {
	v.Mapped = true
	v.Current = initial
}

// Unmap marks the view as not displayed. The caller still owns damaging
// the region Current covered.
func (v *View) Unmap() {
	v.Mapped = false
}

// RequestMove applies an interactive-move target immediately: per spec.md
// scenario S1, a move has no client-visible effect (the client's buffer
// content and size are unchanged) and so needs no configure/ack round
// trip — only Current.Min changes, and it changes synchronously with the
// grab's motion events. Returns the pre- and post-move rectangles the
// caller must damage.
func (v *View) RequestMove(newPos image.Point) (pre, post image.Rectangle) {
	pre = v.Current
	size := v.Current.Size()
	v.Current = image.Rectangle{Min: newPos, Max: newPos.Add(size)}
	return pre, v.Current
}

// RequestResize proposes a new size to the client, going through the
// pending/configure/acknowledge pipeline of spec.md §4.1. edges records
// which edges are being dragged so the eventual commit can keep the
// opposite corner fixed in layout coordinates (spec.md scenario S2); pass
// edges=0 for a view-initiated (non-interactive) resize, which keeps the
// top-left corner fixed, matching ordinary client-resize behavior.
func (v *View) RequestResize(w, h int, edges Edges) (serial uint32, hasSerial bool) {
	v.pendingEdges = edges
	serial, hasSerial = v.Surface.SetSize(w, h)
	v.usesSerial = hasSerial
	v.isPending = true
	if hasSerial {
		v.pendingSerial = serial
	}
	return serial, hasSerial
}

// CommitResult reports what a Commit changed, so the caller (which owns
// the output registry) can accumulate damage.
type CommitResult struct {
	// Dropped is true when the commit arrived for an unmapped view and
	// was silently ignored (spec.md §4.1 failure semantics).
	Dropped bool
	// PreRect/PostRect are non-zero when the view's rectangle changed and
	// both must be damaged.
	SizeChanged     bool
	PreRect         image.Rectangle
	PostRect        image.Rectangle
	SurfaceDamage   image.Rectangle // in view-local coordinates, valid if non-empty
	AlignedAfterAck bool
}

// Commit processes a client buffer commit: committedW/H is the surface's
// new intrinsic size, localDamage is the surface-local damage the client
// reported (may be a zero Rectangle for "none"), and ackedSerial/hasAck
// describe the configure the client is acknowledging, if the shell
// protocol carries one.
func (v *View) Commit(committedW, committedH int, localDamage image.Rectangle, ackedSerial uint32, hasAck bool) CommitResult {
	if !v.Mapped {
		return CommitResult{Dropped: true}
	}

	res := CommitResult{SurfaceDamage: localDamage}

	sizeChanged := committedW != v.Current.Dx() || committedH != v.Current.Dy()
	shouldAlign := v.isPending && v.readyToAlign(ackedSerial, hasAck)

	if sizeChanged || shouldAlign {
		res.SizeChanged = true
		res.PreRect = v.Current
	}

	if shouldAlign {
		v.Current = alignGeometry(v.Current, v.pendingEdges, committedW, committedH)
		v.isPending = false
		v.pendingSerial = 0
		res.AlignedAfterAck = true
	} else if sizeChanged {
		// Either no negotiated resize is outstanding (e.g. the client
		// spontaneously resized itself), or the client committed a new
		// size before acknowledging the pending configure: apply the size
		// keeping the top-left corner fixed, the same as edges=0. A pending
		// resize stays pending and is aligned once its acknowledgement
		// arrives.
		v.Current = alignGeometry(v.Current, 0, committedW, committedH)
	}

	if res.SizeChanged {
		res.PostRect = v.Current
	}

	return res
}

// readyToAlign implements spec.md §4.1's two acknowledgement rules: a
// serial-using shell aligns once an acked serial reaches the pending one;
// a shell with no serial concept (the X11 bridge) aligns unconditionally
// on the very next commit.
func (v *View) readyToAlign(ackedSerial uint32, hasAck bool) bool {
	if !v.usesSerial {
		return true
	}
	return hasAck && ackedSerial >= v.pendingSerial
}

// alignGeometry keeps the corner opposite edges fixed in layout
// coordinates while applying a newly committed size, per spec.md
// scenario S2.
func alignGeometry(old image.Rectangle, edges Edges, newW, newH int) image.Rectangle {
	x, y := old.Min.X, old.Min.Y
	if edges&EdgeLeft != 0 {
		x = old.Max.X - newW
	}
	if edges&EdgeTop != 0 {
		y = old.Max.Y - newH
	}
	return image.Rect(x, y, x+newW, y+newH)
}

// IsPending reports whether a configure is outstanding.
func (v *View) IsPending() bool { return v.isPending }

// Geometry returns the last-committed rectangle in output-layout
// coordinates, satisfying cursor.Grabbable for the interactive grab
// state machine.
func (v *View) Geometry() image.Rectangle { return v.Current }

// AppID returns the client-chosen identifier, used only for debug output.
func (v *View) AppID() string { return v.appID }
