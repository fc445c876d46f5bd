package render

import (
	"image"
	"image/color"

	"github.com/KononK/resize"
)

// DefaultCursorSize is the size a generated fallback cursor bitmap is
// drawn at before any output-scale resampling.
var DefaultCursorSize = image.Pt(24, 24)

// MaxCursorPlaneSize bounds outputmgr.NewCursorPlane's allocation: large
// enough to hold DefaultCursorSize resampled for any output scale this
// repo expects to see, without reallocating the plane per scale change.
var MaxCursorPlaneSize = image.Pt(96, 96)

// ResizeCursorBitmap resamples a fallback xcursor bitmap to the size the
// output's scale demands (e.g. a 1x 24x24 bitmap at 2x output scale).
// Grounded on main.go's img.Load-then-blit icon pipeline, generalized
// from fixed-size menu icons to an arbitrary target size.
func ResizeCursorBitmap(src image.Image, targetSize image.Point) image.Image {
	if src.Bounds().Dx() == targetSize.X && src.Bounds().Dy() == targetSize.Y {
		return src
	}
	return resize.Resize(uint(targetSize.X), uint(targetSize.Y), src, resize.Lanczos3)
}

// FallbackCursorBitmap procedurally draws a cursor shape for name at
// DefaultCursorSize. No xcursor theme loader exists anywhere in this
// tree's dependency pack, so this draws the two shapes spec.md's cursor
// images actually need (a pointer arrow, and a crosshair for anything
// else) directly with image/draw rather than parsing a theme file.
func FallbackCursorBitmap(name string) (image.Image, image.Point) {
	img := image.NewRGBA(image.Rectangle{Max: DefaultCursorSize})

	switch name {
	case "", "left_ptr":
		drawArrow(img)
		return img, image.Point{}
	default:
		drawCrosshair(img)
		return img, image.Pt(DefaultCursorSize.X/2, DefaultCursorSize.Y/2)
	}
}

// BuildCursorBitmap returns name's fallback bitmap resampled to
// targetSize, scaling the hotspot by the same factor. This is the one
// call site that exercises ResizeCursorBitmap with a genuinely different
// source and target size whenever an output's scale isn't 1.
func BuildCursorBitmap(name string, targetSize image.Point) (image.Image, image.Point) {
	base, hotspot := FallbackCursorBitmap(name)
	baseSize := base.Bounds().Size()
	scaled := ResizeCursorBitmap(base, targetSize)

	hx := hotspot.X * targetSize.X / baseSize.X
	hy := hotspot.Y * targetSize.Y / baseSize.Y
	return scaled, image.Pt(hx, hy)
}

func drawArrow(img *image.RGBA) {
	size := img.Bounds().Size()
	black := color.RGBA{A: 255}
	for y := 0; y < size.Y; y++ {
		width := y * size.X / size.Y
		for x := 0; x <= width && x < size.X; x++ {
			img.Set(x, y, black)
		}
	}
}

func drawCrosshair(img *image.RGBA) {
	size := img.Bounds().Size()
	black := color.RGBA{A: 255}
	cx, cy := size.X/2, size.Y/2
	for x := 0; x < size.X; x++ {
		img.Set(x, cy, black)
	}
	for y := 0; y < size.Y; y++ {
		img.Set(cx, y, black)
	}
}
