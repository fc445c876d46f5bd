package cursor

import (
	"image"
	"testing"

	"github.com/friedelschoen/wlcompose/handle"
	"github.com/friedelschoen/wlcompose/view"
)

type fakeView struct {
	geo image.Rectangle
}

func (f *fakeView) Geometry() image.Rectangle { return f.geo }
func (f *fakeView) RequestMove(newOrigin image.Point) (pre, post image.Rectangle) {
	pre = f.geo
	size := f.geo.Size()
	f.geo = image.Rectangle{Min: newOrigin, Max: newOrigin.Add(size)}
	return pre, f.geo
}
func (f *fakeView) RequestResize(w, h int, edges view.Edges) (uint32, bool) {
	f.geo = resizeRect(f.geo, edges, w, h)
	return 1, true
}

func resizeRect(old image.Rectangle, edges view.Edges, w, h int) image.Rectangle {
	x, y := old.Min.X, old.Min.Y
	if edges&view.EdgeLeft != 0 {
		x = old.Max.X - w
	}
	if edges&view.EdgeTop != 0 {
		y = old.Max.Y - h
	}
	return image.Rect(x, y, x+w, y+h)
}

func TestMoveGrabFollowsScenarioS1(t *testing.T) {
	slab := handle.New[Grabbable]()
	v := &fakeView{geo: image.Rect(100, 100, 500, 400)}
	ref := slab.Insert(v)

	c := New(slab, "left_ptr")
	c.X, c.Y = 120, 110
	c.BeginMove(ref)
	if c.Mode() != Move {
		t.Fatalf("expected Move mode")
	}

	c.Motion(520, 410, false)
	if v.geo.Min.X != 500 || v.geo.Min.Y != 400 {
		t.Fatalf("got %v, want origin (500,400)", v.geo.Min)
	}

	c.Button(false, 0)
	if c.Mode() != Passthrough {
		t.Fatalf("expected Passthrough after release")
	}

	before := v.geo
	c.Motion(900, 900, false)
	if v.geo != before {
		t.Fatalf("geometry changed after grab ended: %v -> %v", before, v.geo)
	}
}

func TestResizeTopLeftKeepsOppositeCornerFixed(t *testing.T) {
	slab := handle.New[Grabbable]()
	v := &fakeView{geo: image.Rect(200, 200, 600, 500)}
	ref := slab.Insert(v)

	c := New(slab, "left_ptr")
	c.X, c.Y = 200, 200
	c.BeginResize(ref, view.EdgeTop|view.EdgeLeft)

	c.Motion(250, 230, false)

	if v.geo.Max.X != 600 || v.geo.Max.Y != 500 {
		t.Fatalf("anchored corner moved: %v", v.geo.Max)
	}
	if v.geo.Min.X != 250 || v.geo.Min.Y != 230 {
		t.Fatalf("dragged corner = %v, want (250,230)", v.geo.Min)
	}
}

func TestGrabEndsWhenViewDestroyed(t *testing.T) {
	slab := handle.New[Grabbable]()
	v := &fakeView{geo: image.Rect(0, 0, 100, 100)}
	ref := slab.Insert(v)

	c := New(slab, "left_ptr")
	c.BeginMove(ref)
	slab.Remove(ref)

	c.Motion(10, 10, false)
	if c.Mode() != Passthrough {
		t.Fatalf("expected grab to end when view destroyed, got mode %v", c.Mode())
	}
}

func TestResizeNeverInverts(t *testing.T) {
	slab := handle.New[Grabbable]()
	v := &fakeView{geo: image.Rect(0, 0, 100, 100)}
	ref := slab.Insert(v)

	c := New(slab, "left_ptr")
	c.BeginResize(ref, view.EdgeRight)

	c.Motion(-500, 0, false)
	if v.geo.Dx() < 1 {
		t.Fatalf("width went non-positive: %d", v.geo.Dx())
	}
}

type fakeOverride struct {
	bound         bool
	motions       []image.Point
	buttons       int
}

func (f *fakeOverride) Bound() bool { return f.bound }
func (f *fakeOverride) NotifyMotion(x, y int32) {
	f.motions = append(f.motions, image.Pt(int(x), int(y)))
}
func (f *fakeOverride) NotifyButton(x, y int32, pressed bool, button uint32) bool {
	f.buttons++
	return true
}

func TestPassthroughForwardsToOverrideWhenBound(t *testing.T) {
	slab := handle.New[Grabbable]()
	c := New(slab, "left_ptr")
	ov := &fakeOverride{bound: true}
	c.SetOverride(ov)

	inPassthrough := c.Motion(42, 43, false)
	if inPassthrough {
		t.Fatalf("expected Motion to report it did not consult passthrough query while override bound")
	}
	if len(ov.motions) != 1 || ov.motions[0] != image.Pt(42, 43) {
		t.Fatalf("expected motion forwarded to override, got %v", ov.motions)
	}

	forwarded := c.Button(true, 1)
	if !forwarded || ov.buttons != 1 {
		t.Fatalf("expected button forwarded to override")
	}
}

func TestPassthroughRevertsClientImageWhenNothingFound(t *testing.T) {
	slab := handle.New[Grabbable]()
	c := New(slab, "left_ptr")
	c.SetClientImage("text")

	inPassthrough := c.Motion(1, 1, false)
	if !inPassthrough {
		t.Fatalf("expected caller's passthrough query to be consulted")
	}
	if c.Image() != "left_ptr" {
		t.Fatalf("expected client image reverted to default, got %q", c.Image())
	}
}

func TestPassthroughKeepsClientImageWhenSurfaceFound(t *testing.T) {
	slab := handle.New[Grabbable]()
	c := New(slab, "left_ptr")
	c.SetClientImage("text")

	c.Motion(1, 1, true)
	if c.Image() != "text" {
		t.Fatalf("expected client image kept while a surface is under the cursor, got %q", c.Image())
	}
}
