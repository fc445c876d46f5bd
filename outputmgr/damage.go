package outputmgr

import "image"

// DamageTracker accumulates the region an output needs repainted before
// its next frame, per spec.md §3 Output / §4.9 invariant ii ("damage is
// accumulated, never overwritten, between frames").
type DamageTracker struct {
	rects []image.Rectangle
	// debugFull forces the union of all rects to the whole output bounds,
	// matching spec.md §6's "-d" debug mode ("damage union = full output
	// each frame").
	debugFull  bool
	fullBounds image.Rectangle
}

// Add accumulates r (in output-local pixel coordinates). Empty
// rectangles are ignored.
func (d *DamageTracker) Add(r image.Rectangle) {
	if r.Empty() {
		return
	}
	d.rects = append(d.rects, r)
}

// SetDebug toggles the -d debug-rendering behavior for this output:
// every frame's damage becomes the whole output, and (per render package)
// clears to yellow instead of black.
func (d *DamageTracker) SetDebug(on bool, bounds image.Rectangle) {
	d.debugFull = on
	d.fullBounds = bounds
}

// NeedsSwap reports whether there is anything to paint this frame —
// spec.md §4.9 invariant iii: software cursors always render "as long as
// the damage tracker signals needs_swap".
func (d *DamageTracker) NeedsSwap() bool {
	return d.debugFull || len(d.rects) > 0
}

// Rects returns the accumulated damage rectangles for this frame.
func (d *DamageTracker) Rects() []image.Rectangle {
	if d.debugFull {
		return []image.Rectangle{d.fullBounds}
	}
	return d.rects
}

// Reset clears accumulated damage once a frame has been committed.
func (d *DamageTracker) Reset() {
	d.rects = d.rects[:0]
}
