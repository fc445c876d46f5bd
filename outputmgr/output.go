// Package outputmgr owns the per-output state of spec.md §3 Output:
// damage tracking, the four ordered layer-surface lists, and the usable
// area the layer-shell arranger computes.
package outputmgr

import (
	"image"

	"github.com/friedelschoen/wlcompose/backend"
	"github.com/friedelschoen/wlcompose/layershell"
)

// Output represents one physical display (spec.md §3 Output). Created on
// backend hotplug, destroyed on unplug.
type Output struct {
	Backend   backend.Output
	Transform backend.Transform
	Scale     float64

	Damage DamageTracker
	Layers [layershell.NumLayers][]*layershell.Surface
	Usable image.Rectangle

	// LastFrameDone is the timestamp of the most recent frame-done
	// callback delivered while rendering this output (SPEC_FULL.md's
	// idle/frame-callback bookkeeping supplement), in the same
	// truncated-to-uint32 millisecond clock wl_callback.done uses.
	LastFrameDone uint32

	bounds image.Rectangle
}

// NewOutput wraps a freshly hot-plugged backend output.
func NewOutput(b backend.Output) *Output {
	bounds := b.Bounds()
	return &Output{
		Backend: b,
		Scale:   1,
		bounds:  bounds,
		Usable:  bounds,
	}
}

// Bounds returns the output's placement and size in layout coordinates.
func (o *Output) Bounds() image.Rectangle { return o.bounds }

// Name proxies the backend output's name, for logging.
func (o *Output) Name() string { return o.Backend.Name() }

// InsertLayerSurface adds s to layer l's insertion-ordered list (spec.md
// §9: layer lists are "insertion order for stable draw").
func (o *Output) InsertLayerSurface(l layershell.Layer, s *layershell.Surface) {
	o.Layers[l] = append(o.Layers[l], s)
}

// RemoveLayerSurface deletes s from layer l's list.
func (o *Output) RemoveLayerSurface(l layershell.Layer, s *layershell.Surface) {
	list := o.Layers[l]
	for i, c := range list {
		if c == s {
			o.Layers[l] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Rearrange recomputes every layer surface's geometry and the output's
// usable area (spec.md §4.3), called whenever any layer surface on this
// output commits.
func (o *Output) Rearrange() {
	o.Usable = layershell.Arrange(o.bounds, &o.Layers)
}

// KeyboardInteractiveLayer returns the topmost layer surface in
// {overlay, top} with KeyboardInteractive set, per spec.md §4.3's
// post-arrangement focus rule, or nil if none qualifies. Within a
// layer's list, index 0 is logically topmost (render/frame.go's
// paintReverse convention), so the scan runs head-to-tail and returns
// on the first match.
func (o *Output) KeyboardInteractiveLayer() *layershell.Surface {
	for _, l := range [2]layershell.Layer{layershell.LayerOverlay, layershell.LayerTop} {
		list := o.Layers[l]
		for i := 0; i < len(list); i++ {
			if list[i].KeyboardInteractive && !list[i].Closed() {
				return list[i]
			}
		}
	}
	return nil
}
