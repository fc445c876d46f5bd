package view

import "image"

// Registry is the top-to-bottom ordered list of views (spec.md §3 View
// invariant i / §4.2).
type Registry struct {
	views   []*View
	focused *View
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Insert adds v at the head of the stack, unmapped (spec.md §4.1: "A view
// is created... and is inserted at the head of the view list in an
// unmapped state").
func (r *Registry) Insert(v *View) {
	r.views = append(r.views, nil)
	copy(r.views[1:], r.views)
	r.views[0] = v
}

// Remove deletes v from the stack and clears focus if v was focused.
func (r *Registry) Remove(v *View) {
	for i, w := range r.views {
		if w == v {
			r.views = append(r.views[:i], r.views[i+1:]...)
			break
		}
	}
	if r.focused == v {
		r.focused = nil
	}
}

// Views returns the stack top-to-bottom. Callers must not retain it
// across a mutation.
func (r *Registry) Views() []*View { return r.views }

// Focused returns the currently keyboard-focused view, or nil.
func (r *Registry) Focused() *View { return r.focused }

// ViewAt performs the point-in-layout query of spec.md §4.2: the first
// mapped view (top-to-bottom) whose role reports a hit wins.
func (r *Registry) ViewAt(p image.Point) (v *View, localX, localY int, ok bool) {
	for _, w := range r.views {
		if !w.Mapped || !p.In(w.Current) {
			continue
		}
		local := p.Sub(w.Current.Min)
		if hit, sx, sy := w.Surface.SurfaceAt(local); hit {
			return w, sx, sy, true
		}
	}
	return nil, 0, 0, false
}

// FocusResult is what the caller (which owns the seat and damage
// tracking) must still do after Focus has performed the role-level
// activate/deactivate/keyboard-enter calls.
type FocusResult struct {
	// NoOp is true when v was already focused (spec.md §4.2: "Focusing a
	// view already focused is a no-op", also Testable Property 7).
	NoOp bool
	// Damage is the view rectangle to repaint, valid unless NoOp.
	Damage image.Rectangle
}

// Focus implements spec.md §4.2: deactivate the previous toplevel, move v
// to the head, activate it, deliver keyboard-enter with the given
// pressed-keycode/modifier snapshot, and report the rectangle to damage.
func (r *Registry) Focus(v *View, pressed []uint32, mods ModState) FocusResult {
	if r.focused == v {
		return FocusResult{NoOp: true}
	}
	if r.focused != nil {
		r.focused.Surface.SetActivated(false)
	}
	r.moveToHead(v)
	v.Surface.SetActivated(true)
	v.Surface.KeyboardEnter(pressed, mods)
	r.focused = v
	return FocusResult{Damage: v.Current}
}

func (r *Registry) moveToHead(v *View) {
	for i, w := range r.views {
		if w == v {
			copy(r.views[1:i+1], r.views[0:i])
			r.views[0] = v
			return
		}
	}
}
