package render

import (
	"image"
	"image/color"
	"testing"
)

func TestOffsetImageWindowsIntoDestAtRectOrigin(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 8, 8))
	o := &offsetImage{Dst: dst, Rect: image.Rect(3, 3, 5, 5)}

	if got := o.Bounds(); got != image.Rect(0, 0, 2, 2) {
		t.Fatalf("Bounds() = %v, want (0,0)-(2,2)", got)
	}

	o.Set(0, 0, color.White)
	if got := dst.At(3, 3); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("Set(0,0) did not land at dst (3,3), got %v", got)
	}
}

func TestOffsetImageSetOutOfBoundsIsNoOp(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 8, 8))
	o := &offsetImage{Dst: dst, Rect: image.Rect(3, 3, 5, 5)}

	o.Set(10, 10, color.White)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if c := dst.At(x, y); c != (color.RGBA{}) {
				t.Fatalf("expected out-of-bounds Set to leave dst untouched, found %v at (%d,%d)", c, x, y)
			}
		}
	}
}

func TestOffsetImageAtOutOfBoundsReturnsTransparent(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 8, 8))
	o := &offsetImage{Dst: dst, Rect: image.Rect(3, 3, 5, 5)}

	if got := o.At(-1, 0); got != color.Transparent {
		t.Fatalf("At(-1,0) = %v, want color.Transparent", got)
	}
}
