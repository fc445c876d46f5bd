package view

import (
	"image"

	"github.com/friedelschoen/wlcompose/backend"
)

// Role is the tagged variant over the shell protocols that can produce a
// View, per spec.md §9: "View.role is a tagged variant over {toplevel-A,
// toplevel-B, X11-bridge}."
type Role int

const (
	RoleToplevelA Role = iota // e.g. xdg_toplevel
	RoleToplevelB             // e.g. a legacy/alternate toplevel shell
	RoleX11Bridge             // an X11 window bridged in as a view
)

func (r Role) String() string {
	switch r {
	case RoleToplevelA:
		return "toplevel-a"
	case RoleToplevelB:
		return "toplevel-b"
	case RoleX11Bridge:
		return "x11-bridge"
	default:
		return "unknown-role"
	}
}

// Edges is a bitmask of the edges being dragged in an interactive resize.
type Edges int

const (
	EdgeTop Edges = 1 << iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

// ModState is the subset of keyboard modifier state a view needs to
// render its keyboard-enter event; the full XKB state lives in seat.
type ModState struct {
	Depressed, Latched, Locked, Group uint32
}

// SubSurface is one piece of a view's surface tree below the main surface
// (spec.md §9: "for_each_sub_surface").
type SubSurface interface {
	// Offset is this sub-surface's position relative to the view's origin.
	Offset() image.Point
	Size() image.Point
	// Texture is the sub-surface's most recently uploaded client buffer,
	// nil before its first commit.
	Texture() backend.Texture
}

// Surface is the behavior every shell role must implement; the View
// routes to it by role tag rather than downcasting (spec.md §9).
type Surface interface {
	// SurfaceAt reports whether local hits this surface or one of its
	// sub-surfaces, and if so the sub-surface-local coordinates.
	SurfaceAt(local image.Point) (hit bool, sx, sy int)
	ForEachSubSurface(func(SubSurface))
	SetActivated(active bool)
	// SetSize proposes a new size to the client. ok is false for shells
	// that do not use configure serials (the X11 bridge), in which case
	// the caller must treat the very next commit as the acknowledgement.
	SetSize(w, h int) (serial uint32, ok bool)
	GetSize() (w, h int)
	KeyboardEnter(pressed []uint32, mods ModState)
	KeyboardLeave()
	// PointerEnter/PointerMotion/PointerLeave deliver pointer focus
	// (spec.md §4.6), addressed in surface-local coordinates.
	PointerEnter(localX, localY int)
	PointerMotion(localX, localY int)
	PointerLeave()
	// PointerAxis delivers a scroll event to whichever surface currently
	// holds pointer focus (SPEC_FULL.md's axis-routing supplement; no
	// grab interaction is defined for it).
	PointerAxis(axis backend.Axis, value float64, source backend.AxisSource)
}
