// Package backend declares the boundary between the compositor core and the
// host platform. A real backend drives DRM/KMS, libinput, and EGL/GL; this
// package only describes the shape it must present, per spec.md §1's
// Non-goal of implementing that layer here.
package backend

import (
	"image"

	"github.com/friedelschoen/wlcompose/wire"
)

// Transform mirrors the eight wl_output transform values.
type Transform int

const (
	TransformNormal Transform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

// Mode is one display mode a physical output can be driven at.
type Mode struct {
	Width, Height int
	RefreshMilliHz int
}

// Output is the backend's handle for one physical display. The compositor's
// outputmgr.Output wraps one of these; it never touches the backend's DRM
// connector details directly.
type Output interface {
	Name() string
	PreferredMode() Mode
	// Bounds reports the output's placement and unscaled pixel size in
	// output-layout coordinates.
	Bounds() image.Rectangle
}

// Hotplug is delivered to a Listener when the set of physical outputs
// changes.
type Hotplug struct {
	Added   Output
	Removed Output
}

// Listener receives backend-originated events. The compositor core
// implements this and hands it to Backend.Run.
type Listener interface {
	OnHotplug(Hotplug)
	OnInput(Event)
	// OnFrame fires once per output per vblank-equivalent tick, signalling
	// that the output is ready to receive a new frame if one is pending.
	OnFrame(Output)
}

// Backend is the abstract host platform. Run blocks, dispatching events to
// listener until ctx-equivalent shutdown; Renderer returns the single
// textured-quad renderer shared by all outputs.
type Backend interface {
	Run(listener Listener) error
	Renderer() Renderer
	Outputs() []Output
	// AddSource folds an additional fd into this backend's own poll(2)
	// loop, the same one a real backend multiplexes its libinput and DRM
	// page-flip fds through. The compositor core uses this to register
	// the keybindings/mousegrabber custom-protocol listeners (spec.md §6)
	// without running a second event loop of its own (spec.md §5).
	AddSource(s wire.Source)
}

// Texture is an uploaded, sampleable surface buffer.
type Texture interface {
	Size() image.Point
}

// Renderer is the abstract textured-quad renderer with scissor and
// transform support that spec.md §1 calls out as backend-owned.
type Renderer interface {
	// Attach makes o the current render target. Returns an error on
	// transient backend failure (spec.md §7); the caller must skip the
	// frame and retain its damage.
	Attach(o Output) error
	// Scissor clips all subsequent draws to r, in output-pixel coordinates.
	Scissor(r image.Rectangle)
	// ClearScissored fills the current scissor rectangle with a flat color.
	ClearScissored(rgba [4]uint8)
	// Quad draws tex into dst (output-pixel coordinates), scaled and
	// rotated by transform.
	Quad(tex Texture, dst image.Rectangle, transform Transform)
	// UploadTexture creates a new sampleable Texture from a CPU-side pixel
	// buffer (size.X*4 bytes per row, row-padded to stride), in this
	// renderer's native upload order. Used for buffers composited on the
	// CPU side, such as the software-cursor plane (spec.md §4.9 invariant
	// iii), rather than a client's own GPU-importable buffer.
	UploadTexture(pixels []byte, size image.Point, stride int) Texture
	// Commit swaps the frame, reporting the final damage rectangles that
	// were actually repainted so the backend can do damage-aware scanout.
	Commit(damage []image.Rectangle) error
}
