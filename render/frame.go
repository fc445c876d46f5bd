// Package render drives the per-output frame pipeline of spec.md §4.9:
// attach, clear the damaged scissor rectangles, paint layers bottom to
// top, paint views top-of-stack-last, paint the software cursor, then
// commit.
package render

import (
	"image"

	"github.com/friedelschoen/wlcompose/backend"
	"github.com/friedelschoen/wlcompose/cursor"
	"github.com/friedelschoen/wlcompose/layershell"
	"github.com/friedelschoen/wlcompose/outputmgr"
	"github.com/friedelschoen/wlcompose/view"
)

var clearBlack = [4]uint8{0, 0, 0, 255}
var clearDebugYellow = [4]uint8{255, 255, 0, 255}

// Drawable is a one-texture, one-rectangle paintable thing: a view or a
// layer surface.
type Drawable struct {
	Texture backend.Texture
	Geo     image.Rectangle
}

// Cursor is the renderer-facing view of the cursor singleton; it exposes
// only the name of the cursor image currently in effect.
type Cursor interface {
	Image() string
}

// FrameOutput renders one output's pending damage per spec.md §4.9's
// eight-step sequence. debug selects the yellow clear colour of spec.md
// §6's "-d" flag; the full-output damage region of that mode comes from
// out.Damage's own debug setting (DamageTracker.SetDebug), not from this
// parameter. nowMillis is the frame's monotonic timestamp; frameDone is
// called with it once per textured, non-empty drawable passed in,
// whether or not a damage rectangle overlapped it, so callers can record
// wl_callback.done bookkeeping.
func FrameOutput(r backend.Renderer, out *outputmgr.Output, views []Drawable, layerLists [layershell.NumLayers][]Drawable, cursorPlane *CursorSprite, debug bool, nowMillis uint32, frameDone func(nowMillis uint32)) error {
	if !out.Damage.NeedsSwap() {
		return nil
	}

	if err := r.Attach(out.Backend); err != nil {
		// Transient backend failure: skip this frame, retain damage for the
		// next one (spec.md §7).
		return err
	}

	damage := out.Damage.Rects()
	clear := clearBlack
	if debug {
		clear = clearDebugYellow
	}
	for _, d := range damage {
		r.Scissor(d)
		r.ClearScissored(clear)
	}

	for _, layer := range [2]layershell.Layer{layershell.LayerBackground, layershell.LayerBottom} {
		paintReverse(r, layerLists[layer], damage, out.Transform, nowMillis, frameDone)
	}

	paintReverse(r, views, damage, out.Transform, nowMillis, frameDone)

	for _, layer := range [2]layershell.Layer{layershell.LayerTop, layershell.LayerOverlay} {
		paintReverse(r, layerLists[layer], damage, out.Transform, nowMillis, frameDone)
	}

	// The software-cursor render always occurs as long as this point was
	// reached, i.e. needs_swap signalled true (spec.md §4.9 invariant iii),
	// independent of whether any damage rectangle actually overlapped it.
	if cursorPlane != nil {
		cursorPlane.Draw(r, out.Transform)
	}

	if err := r.Commit(damage); err != nil {
		return err
	}
	out.Damage.Reset()
	return nil
}

// paintReverse draws drawables in reverse list order, matching spec.md
// §4.9 step 4/5: the list's head is logically topmost, so painting
// reverse-order means the head draws last and wins visually.
func paintReverse(r backend.Renderer, items []Drawable, damage []image.Rectangle, transform backend.Transform, nowMillis uint32, frameDone func(uint32)) {
	for i := len(items) - 1; i >= 0; i-- {
		d := items[i]
		if d.Texture == nil || d.Geo.Empty() {
			continue
		}
		for _, clip := range damage {
			if !clip.Overlaps(d.Geo) {
				continue
			}
			r.Scissor(clip.Intersect(d.Geo))
			r.Quad(d.Texture, d.Geo, transform)
		}
		if frameDone != nil {
			frameDone(nowMillis)
		}
	}
}

// ViewDrawables projects a view.Registry's mapped views into render
// order (spec.md §4.9 invariant i: "no surface is rendered if mapped is
// false"), expanding each view's sub-surface tree (spec.md §4.9 steps
// 4/5: "for each sub-surface under it, render it at (layer.geo +
// sub-offset)") right after its main surface so paintReverse's clipping
// pass treats them identically.
func ViewDrawables(views []*view.View) []Drawable {
	out := make([]Drawable, 0, len(views))
	for _, v := range views {
		if !v.Mapped || v.Texture == nil {
			continue
		}
		out = append(out, Drawable{Texture: v.Texture, Geo: v.Current})
		v.Surface.ForEachSubSurface(func(sub view.SubSurface) {
			tex := sub.Texture()
			if tex == nil {
				return
			}
			min := v.Current.Min.Add(sub.Offset())
			out = append(out, Drawable{Texture: tex, Geo: image.Rectangle{Min: min, Max: min.Add(sub.Size())}})
		})
	}
	return out
}

// LayerDrawables projects one layer's surface list into render order.
func LayerDrawables(list []*layershell.Surface) []Drawable {
	out := make([]Drawable, 0, len(list))
	for _, s := range list {
		if s.Closed() || s.Texture == nil {
			continue
		}
		out = append(out, Drawable{Texture: s.Texture, Geo: s.Geo})
	}
	return out
}

// ActiveOutputFromCursor re-evaluates the Server's active-output weak
// reference from the cursor position, per spec.md §4.4 passthrough rule.
func ActiveOutputFromCursor(reg *outputmgr.Registry, cur *cursor.Cursor) *outputmgr.Output {
	return reg.At(image.Pt(cur.X, cur.Y))
}
