package view

import (
	"image"
	"testing"

	"github.com/friedelschoen/wlcompose/backend"
)

type fakeSurface struct {
	w, h      int
	activated bool
	serial    uint32
	useSerial bool
	entered   bool
}

func (f *fakeSurface) SurfaceAt(local image.Point) (bool, int, int) {
	if local.X < 0 || local.Y < 0 || local.X >= f.w || local.Y >= f.h {
		return false, 0, 0
	}
	return true, local.X, local.Y
}
func (f *fakeSurface) ForEachSubSurface(func(SubSurface)) {}
func (f *fakeSurface) SetActivated(active bool)           { f.activated = active }
func (f *fakeSurface) SetSize(w, h int) (uint32, bool) {
	f.w, f.h = w, h
	if !f.useSerial {
		return 0, false
	}
	f.serial++
	return f.serial, true
}
func (f *fakeSurface) GetSize() (int, int)              { return f.w, f.h }
func (f *fakeSurface) KeyboardEnter([]uint32, ModState) { f.entered = true }
func (f *fakeSurface) KeyboardLeave()                   {}
func (f *fakeSurface) PointerEnter(int, int)            {}
func (f *fakeSurface) PointerMotion(int, int)           {}
func (f *fakeSurface) PointerLeave()                    {}
func (f *fakeSurface) PointerAxis(backend.Axis, float64, backend.AxisSource) {}

func TestMoveIsImmediate(t *testing.T) {
	// Scenario S1 from spec.md.
	s := &fakeSurface{w: 400, h: 300}
	v := New(RoleToplevelA, s, "test")
	v.Map(image.Rect(100, 100, 500, 400))

	pre, post := v.RequestMove(image.Pt(500, 400))
	if pre != image.Rect(100, 100, 500, 400) {
		t.Fatalf("pre = %v", pre)
	}
	want := image.Rect(500, 400, 900, 700)
	if post != want || v.Current != want {
		t.Fatalf("post = %v, want %v", post, want)
	}
}

func TestResizeTopLeftKeepsOppositeCornerFixed(t *testing.T) {
	// Scenario S2 from spec.md.
	s := &fakeSurface{w: 400, h: 300, useSerial: true}
	v := New(RoleToplevelA, s, "test")
	v.Map(image.Rect(200, 200, 600, 500))

	serial, hasSerial := v.RequestResize(350, 270, EdgeTop|EdgeLeft)
	if !hasSerial || serial == 0 {
		t.Fatalf("expected a serial")
	}

	res := v.Commit(350, 270, image.Rectangle{}, serial, true)
	if !res.AlignedAfterAck {
		t.Fatalf("expected alignment on matching ack")
	}
	if v.Current.Min.X != 250 || v.Current.Min.Y != 230 {
		t.Fatalf("Current.Min = %v, want (250,230)", v.Current.Min)
	}
	if v.Current.Max.X != 600 || v.Current.Max.Y != 500 {
		t.Fatalf("anchored bottom-right corner moved: got %v", v.Current.Max)
	}
}

func TestCommitOnUnmappedViewIsDropped(t *testing.T) {
	s := &fakeSurface{w: 10, h: 10}
	v := New(RoleToplevelA, s, "test")
	res := v.Commit(20, 20, image.Rectangle{}, 0, false)
	if !res.Dropped {
		t.Fatalf("expected commit on unmapped view to be dropped")
	}
}

func TestX11BridgeAlignsOnNextCommitUnconditionally(t *testing.T) {
	s := &fakeSurface{w: 100, h: 100, useSerial: false}
	v := New(RoleX11Bridge, s, "x11")
	v.Map(image.Rect(0, 0, 100, 100))

	v.RequestResize(150, 120, EdgeRight|EdgeBottom)
	if !v.IsPending() {
		t.Fatalf("expected pending state")
	}
	res := v.Commit(150, 120, image.Rectangle{}, 0, false)
	if !res.AlignedAfterAck {
		t.Fatalf("X11 bridge should align unconditionally on next commit")
	}
	if v.IsPending() {
		t.Fatalf("pending flag should clear unconditionally for X11 bridge")
	}
}

func TestRegistryFocusNoOp(t *testing.T) {
	r := NewRegistry()
	s := &fakeSurface{w: 10, h: 10}
	v := New(RoleToplevelA, s, "a")
	v.Map(image.Rect(0, 0, 10, 10))
	r.Insert(v)

	res := r.Focus(v, nil, ModState{})
	if res.NoOp {
		t.Fatalf("first focus should not be a no-op")
	}
	res = r.Focus(v, nil, ModState{})
	if !res.NoOp {
		t.Fatalf("refocusing the same view should be a no-op (Testable Property 7)")
	}
}

func TestRegistryViewAtTopWins(t *testing.T) {
	r := NewRegistry()
	bottom := New(RoleToplevelA, &fakeSurface{w: 100, h: 100}, "bottom")
	bottom.Map(image.Rect(0, 0, 100, 100))
	top := New(RoleToplevelA, &fakeSurface{w: 50, h: 50}, "top")
	top.Map(image.Rect(0, 0, 50, 50))

	r.Insert(bottom)
	r.Insert(top)

	v, _, _, ok := r.ViewAt(image.Pt(10, 10))
	if !ok || v != top {
		t.Fatalf("expected top view to win overlapping hit test")
	}

	v, _, _, ok = r.ViewAt(image.Pt(75, 75))
	if !ok || v != bottom {
		t.Fatalf("expected bottom view outside top's bounds to be hit")
	}
}
