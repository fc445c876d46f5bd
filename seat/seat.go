// Package seat aggregates input focus for one logical user (spec.md §3
// Seat), routing pointer and keyboard events to whichever view or layer
// surface currently holds focus.
package seat

import (
	"github.com/friedelschoen/wlcompose/backend"
	"github.com/friedelschoen/wlcompose/view"
)

// ModState is the shared modifier-state type used wherever a keyboard
// focus event is delivered.
type ModState = view.ModState

// KeyboardTarget is satisfied by view.Surface and layershell.Surface's
// optional Keyboard hook: anything that can receive keyboard-enter/leave.
type KeyboardTarget interface {
	KeyboardEnter(pressed []uint32, mods ModState)
	KeyboardLeave()
}

// PointerTarget is satisfied by view.Surface: anything that can receive
// pointer-enter/motion/leave.
type PointerTarget interface {
	PointerEnter(localX, localY int)
	PointerMotion(localX, localY int)
	PointerLeave()
	PointerAxis(axis backend.Axis, value float64, source backend.AxisSource)
}

// Seat holds the two weak focus references of spec.md §3 Seat. Both
// start nil; "weak" here means the holder clears them itself upon
// destroying the focused object — nothing upgrades a stale reference
// because there is no indirection, only a plain interface value cleared
// by the owning package at destroy time (see server.Server for the
// destroy-time clearing).
type Seat struct {
	pointerFocus   PointerTarget
	keyboardFocus  KeyboardTarget
	pressedKeys    map[uint32]struct{}
	modDepressed   uint32
	modLatched     uint32
	modLocked      uint32
	modGroup       uint32
}

func New() *Seat {
	return &Seat{pressedKeys: make(map[uint32]struct{})}
}

// PointerFocus returns the surface currently receiving pointer events, or
// nil.
func (s *Seat) PointerFocus() PointerTarget { return s.pointerFocus }

// KeyboardFocus returns the surface currently receiving keyboard events,
// or nil.
func (s *Seat) KeyboardFocus() KeyboardTarget { return s.keyboardFocus }

// NotifyPointerAt implements spec.md §4.6's pointer-focus rule: entering a
// new surface sends pointer-enter, staying on the same one sends motion,
// and finding nothing clears focus.
func (s *Seat) NotifyPointerAt(target PointerTarget, localX, localY int) {
	if target == nil {
		s.ClearPointerFocus()
		return
	}
	if s.pointerFocus != target {
		if s.pointerFocus != nil {
			s.pointerFocus.PointerLeave()
		}
		s.pointerFocus = target
		target.PointerEnter(localX, localY)
		return
	}
	target.PointerMotion(localX, localY)
}

// NotifyAxis routes a scroll event to whichever surface currently holds
// pointer focus; a scroll with nothing focused is dropped (SPEC_FULL.md's
// axis-routing supplement, routed identically to motion with no grab
// interaction defined).
func (s *Seat) NotifyAxis(axis backend.Axis, value float64, source backend.AxisSource) {
	if s.pointerFocus == nil {
		return
	}
	s.pointerFocus.PointerAxis(axis, value, source)
}

// ClearPointerFocus drops pointer focus, notifying the previous target.
func (s *Seat) ClearPointerFocus() {
	if s.pointerFocus == nil {
		return
	}
	s.pointerFocus.PointerLeave()
	s.pointerFocus = nil
}

// DropPointerFocusIfTarget clears pointer focus without notifying, used
// when the target itself is being destroyed.
func (s *Seat) DropPointerFocusIfTarget(target PointerTarget) {
	if s.pointerFocus == target {
		s.pointerFocus = nil
	}
}

// SetKeyboardFocus implements the outgoing-deactivate / incoming-enter
// half of spec.md §4.6 ("the outgoing toplevel is deactivated before the
// incoming is activated and given keyboard-enter..."); the
// activate/deactivate calls themselves belong to the view/layer owner
// (view.Registry.Focus, outputmgr layer arrangement), so SetKeyboardFocus
// only manages the KeyboardEnter/Leave pair and the weak reference.
func (s *Seat) SetKeyboardFocus(target KeyboardTarget) {
	if s.keyboardFocus == target {
		return
	}
	if s.keyboardFocus != nil {
		s.keyboardFocus.KeyboardLeave()
	}
	s.keyboardFocus = target
	if target != nil {
		target.KeyboardEnter(s.PressedKeycodes(), s.Mods())
	}
}

// AdoptKeyboardFocus updates the weak keyboard-focus reference to
// target, sending KeyboardLeave to whatever previously held it, but
// without delivering KeyboardEnter: used by callers (view.Registry.Focus
// via server.Server.FocusView) that already deliver keyboard-enter
// themselves as part of a larger activation sequence. This keeps
// keyboardFocus accurate for DropKeyboardFocusIfTarget and future
// SetKeyboardFocus calls without a duplicate enter event.
func (s *Seat) AdoptKeyboardFocus(target KeyboardTarget) {
	if s.keyboardFocus == target {
		return
	}
	if s.keyboardFocus != nil {
		s.keyboardFocus.KeyboardLeave()
	}
	s.keyboardFocus = target
}

// DropKeyboardFocusIfTarget clears keyboard focus without notifying, used
// when the target itself is being destroyed mid-focus.
func (s *Seat) DropKeyboardFocusIfTarget(target KeyboardTarget) {
	if s.keyboardFocus == target {
		s.keyboardFocus = nil
	}
}

// PressedKeycodes returns the keycodes currently held down, for
// keyboard-enter snapshots (spec.md §4.6).
func (s *Seat) PressedKeycodes() []uint32 {
	out := make([]uint32, 0, len(s.pressedKeys))
	for k := range s.pressedKeys {
		out = append(out, k)
	}
	return out
}

// Mods returns the current modifier state.
func (s *Seat) Mods() ModState {
	return ModState{
		Depressed: s.modDepressed,
		Latched:   s.modLatched,
		Locked:    s.modLocked,
		Group:     s.modGroup,
	}
}

// SetMods updates the tracked modifier state, normally driven by the
// keyboard device's XKB state after each key event.
func (s *Seat) SetMods(m ModState) {
	s.modDepressed, s.modLatched, s.modLocked, s.modGroup = m.Depressed, m.Latched, m.Locked, m.Group
}

// TrackKey records a key press/release in the pressed-keycode set.
func (s *Seat) TrackKey(keycode uint32, pressed bool) {
	if pressed {
		s.pressedKeys[keycode] = struct{}{}
	} else {
		delete(s.pressedKeys, keycode)
	}
}
