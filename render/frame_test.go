package render

import (
	"image"
	"testing"

	"github.com/friedelschoen/wlcompose/backend"
	"github.com/friedelschoen/wlcompose/layershell"
	"github.com/friedelschoen/wlcompose/outputmgr"
	"github.com/friedelschoen/wlcompose/view"
)

type fakeTexture struct{ size image.Point }

func (f *fakeTexture) Size() image.Point { return f.size }

type fakeBackendOutput struct {
	name   string
	bounds image.Rectangle
}

func (f *fakeBackendOutput) Name() string               { return f.name }
func (f *fakeBackendOutput) PreferredMode() backend.Mode { return backend.Mode{} }
func (f *fakeBackendOutput) Bounds() image.Rectangle     { return f.bounds }

type fakeRenderer struct {
	attachErr    error
	cleared      int
	quads        int
	committed    bool
	lastDamage   []image.Rectangle
}

func (r *fakeRenderer) Attach(backend.Output) error           { return r.attachErr }
func (r *fakeRenderer) Scissor(image.Rectangle)                {}
func (r *fakeRenderer) ClearScissored([4]uint8)                { r.cleared++ }
func (r *fakeRenderer) Quad(backend.Texture, image.Rectangle, backend.Transform) { r.quads++ }
func (r *fakeRenderer) Commit(damage []image.Rectangle) error {
	r.committed = true
	r.lastDamage = damage
	return nil
}
func (r *fakeRenderer) UploadTexture(pixels []byte, size image.Point, stride int) backend.Texture {
	return &fakeTexture{size: size}
}

func TestFrameOutputSkipsWhenNoDamage(t *testing.T) {
	out := outputmgr.NewOutput(&fakeBackendOutput{name: "o", bounds: image.Rect(0, 0, 800, 600)})
	r := &fakeRenderer{}
	var layers [layershell.NumLayers][]Drawable

	err := FrameOutput(r, out, nil, layers, nil, false, 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.committed {
		t.Fatalf("should not render/commit when NeedsSwap is false")
	}
}

func TestFrameOutputPaintsAndResetsDamage(t *testing.T) {
	out := outputmgr.NewOutput(&fakeBackendOutput{name: "o", bounds: image.Rect(0, 0, 800, 600)})
	out.Damage.Add(image.Rect(0, 0, 100, 100))

	r := &fakeRenderer{}
	views := []Drawable{{Texture: &fakeTexture{size: image.Pt(50, 50)}, Geo: image.Rect(10, 10, 60, 60)}}
	var layers [layershell.NumLayers][]Drawable

	err := FrameOutput(r, out, views, layers, nil, false, 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.committed {
		t.Fatalf("expected commit")
	}
	if r.quads == 0 {
		t.Fatalf("expected at least one quad drawn for the overlapping view")
	}
	if out.Damage.NeedsSwap() {
		t.Fatalf("expected damage to be reset after commit")
	}
}

func TestViewDrawablesSkipsUnmappedAndTextureless(t *testing.T) {
	s := &noopSurface{}
	mapped := view.New(view.RoleToplevelA, s, "a")
	mapped.Map(image.Rect(0, 0, 10, 10))
	mapped.Texture = &fakeTexture{size: image.Pt(10, 10)}

	unmapped := view.New(view.RoleToplevelA, s, "b")

	withoutTexture := view.New(view.RoleToplevelA, s, "c")
	withoutTexture.Map(image.Rect(0, 0, 10, 10))

	got := ViewDrawables([]*view.View{mapped, unmapped, withoutTexture})
	if len(got) != 1 {
		t.Fatalf("expected exactly one drawable, got %d", len(got))
	}
}

type fakeSubSurface struct {
	offset image.Point
	size   image.Point
	tex    backend.Texture
}

func (f *fakeSubSurface) Offset() image.Point      { return f.offset }
func (f *fakeSubSurface) Size() image.Point        { return f.size }
func (f *fakeSubSurface) Texture() backend.Texture { return f.tex }

// subSurfaceSurface wraps noopSurface but reports a fixed set of
// sub-surfaces, so ViewDrawables' expansion of view.Surface.
// ForEachSubSurface has something real to exercise instead of the other
// fakes' empty no-op.
type subSurfaceSurface struct {
	noopSurface
	subs []view.SubSurface
}

func (s *subSurfaceSurface) ForEachSubSurface(f func(view.SubSurface)) {
	for _, sub := range s.subs {
		f(sub)
	}
}

func TestViewDrawablesIncludesSubSurfaces(t *testing.T) {
	sub := &fakeSubSurface{offset: image.Pt(5, 5), size: image.Pt(8, 8), tex: &fakeTexture{size: image.Pt(8, 8)}}
	missingTexture := &fakeSubSurface{offset: image.Pt(1, 1), size: image.Pt(4, 4)}
	s := &subSurfaceSurface{subs: []view.SubSurface{sub, missingTexture}}

	v := view.New(view.RoleToplevelA, s, "a")
	v.Map(image.Rect(20, 20, 40, 40))
	v.Texture = &fakeTexture{size: image.Pt(20, 20)}

	got := ViewDrawables([]*view.View{v})
	if len(got) != 2 {
		t.Fatalf("expected main surface plus one textured sub-surface, got %d", len(got))
	}

	want := image.Rect(25, 25, 33, 33)
	if got[1].Geo != want {
		t.Fatalf("sub-surface geo = %v, want %v", got[1].Geo, want)
	}
}

type noopSurface struct{}

func (noopSurface) SurfaceAt(image.Point) (bool, int, int)      { return false, 0, 0 }
func (noopSurface) ForEachSubSurface(func(view.SubSurface))     {}
func (noopSurface) SetActivated(bool)                           {}
func (noopSurface) SetSize(int, int) (uint32, bool)             { return 0, false }
func (noopSurface) GetSize() (int, int)                         { return 0, 0 }
func (noopSurface) KeyboardEnter([]uint32, view.ModState)       {}
func (noopSurface) KeyboardLeave()                              {}
func (noopSurface) PointerEnter(int, int)                        {}
func (noopSurface) PointerMotion(int, int)                       {}
func (noopSurface) PointerLeave()                                {}
func (noopSurface) PointerAxis(backend.Axis, float64, backend.AxisSource) {}
