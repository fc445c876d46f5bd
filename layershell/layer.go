// Package layershell implements the anchored decorative-surface type and
// two-pass arranger of spec.md §4.3.
package layershell

import (
	"image"

	"github.com/friedelschoen/wlcompose/backend"
	"github.com/friedelschoen/wlcompose/view"
)

// Layer is one of the four stacking layers a layer surface can occupy.
type Layer int

const (
	LayerBackground Layer = iota
	LayerBottom
	LayerTop
	LayerOverlay
)

// NumLayers is the number of entries in an output's per-layer surface
// lists.
const NumLayers = 4

func (l Layer) String() string {
	switch l {
	case LayerBackground:
		return "background"
	case LayerBottom:
		return "bottom"
	case LayerTop:
		return "top"
	case LayerOverlay:
		return "overlay"
	default:
		return "unknown-layer"
	}
}

// Anchor is a bitmask of the edges a layer surface is pinned to.
type Anchor int

const (
	AnchorLeft Anchor = 1 << iota
	AnchorRight
	AnchorTop
	AnchorBottom
)

// Margin is the four-sided margin of spec.md §3 Layer surface.
type Margin struct {
	Top, Right, Bottom, Left int
}

// Sink receives the arranger's output for one surface: the configure to
// send the client, or a close when the geometry collapses to
// non-positive size.
type Sink interface {
	Configure(geo image.Rectangle)
	Close()
}

// ExclusiveFull reserves the entire output area without participating in
// usable-area shrinkage (spec.md §3: "−1 = use full area").
const ExclusiveFull = -1

// KeyboardTarget is implemented by anything that can receive keyboard
// focus, shared with view.Surface so spec.md §4.3's "keyboard focus
// returns to the focused toplevel view" and "captures keyboard focus"
// can address either a layer surface or a view uniformly from seat.
type KeyboardTarget interface {
	KeyboardEnter(pressed []uint32, mods view.ModState)
	KeyboardLeave()
}

// Surface is one anchored decorative surface (spec.md §3 Layer surface).
type Surface struct {
	Sink     Sink
	Keyboard KeyboardTarget // non-nil only when KeyboardInteractive

	Layer               Layer
	DesiredW, DesiredH  int
	Anchor              Anchor
	Margin              Margin
	ExclusiveZone       int
	KeyboardInteractive bool

	// Geo is the arranger's last computed rectangle, in the owning
	// output's layout coordinates (spec.md §3 invariant: "geo is
	// recomputed whenever any member on the output commits").
	Geo    image.Rectangle
	closed bool

	// Texture is the most recently uploaded client buffer; set by the
	// caller after each commit, read by the render package.
	Texture backend.Texture
}

// Closed reports whether the arranger collapsed this surface to a
// non-positive rectangle and closed it.
func (s *Surface) Closed() bool { return s.closed }
