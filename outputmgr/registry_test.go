package outputmgr

import (
	"image"
	"testing"

	"github.com/friedelschoen/wlcompose/backend"
)

type fakeBackendOutput struct {
	name   string
	bounds image.Rectangle
}

func (f *fakeBackendOutput) Name() string               { return f.name }
func (f *fakeBackendOutput) PreferredMode() backend.Mode { return backend.Mode{Width: f.bounds.Dx(), Height: f.bounds.Dy()} }
func (f *fakeBackendOutput) Bounds() image.Rectangle     { return f.bounds }

func TestDamageLayoutFansOutAndTranslates(t *testing.T) {
	r := NewRegistry()
	left := NewOutput(&fakeBackendOutput{name: "left", bounds: image.Rect(0, 0, 1920, 1080)})
	right := NewOutput(&fakeBackendOutput{name: "right", bounds: image.Rect(1920, 0, 3840, 1080)})
	r.Add(left)
	r.Add(right)

	r.DamageLayout(image.Rect(1900, 10, 1940, 50))

	if got := left.Damage.Rects(); len(got) != 1 || got[0] != image.Rect(1900, 10, 1920, 50) {
		t.Fatalf("left damage = %v", got)
	}
	if got := right.Damage.Rects(); len(got) != 1 || got[0] != image.Rect(0, 10, 20, 50) {
		t.Fatalf("right damage = %v", got)
	}
}

func TestActiveOutputAt(t *testing.T) {
	r := NewRegistry()
	left := NewOutput(&fakeBackendOutput{name: "left", bounds: image.Rect(0, 0, 1920, 1080)})
	right := NewOutput(&fakeBackendOutput{name: "right", bounds: image.Rect(1920, 0, 3840, 1080)})
	r.Add(left)
	r.Add(right)

	if got := r.At(image.Pt(10, 10)); got != left {
		t.Fatalf("expected left output")
	}
	if got := r.At(image.Pt(2000, 10)); got != right {
		t.Fatalf("expected right output")
	}
	if got := r.At(image.Pt(-5, -5)); got != nil {
		t.Fatalf("expected no output outside layout")
	}
}

func TestDamageTrackerDebugMode(t *testing.T) {
	var d DamageTracker
	if d.NeedsSwap() {
		t.Fatalf("fresh tracker should not need swap")
	}
	bounds := image.Rect(0, 0, 100, 100)
	d.SetDebug(true, bounds)
	if !d.NeedsSwap() {
		t.Fatalf("debug mode should always need swap")
	}
	if got := d.Rects(); len(got) != 1 || got[0] != bounds {
		t.Fatalf("debug rects = %v, want full bounds", got)
	}
}
