package render

import (
	"image"
	"image/color"
)

// offsetImage windows a draw.Image to an arbitrary sub-rectangle.
// CursorSprite.Composite uses it to place a cursor bitmap
// smaller than the theme's largest size at the plane's origin inside a
// fixed-size plane, instead of reallocating the plane per cursor size
// change.
type offsetImage struct {
	Dst  *image.RGBA
	Rect image.Rectangle
}

func (o *offsetImage) At(x, y int) color.Color {
	p := image.Pt(x, y)
	if !p.In(image.Rectangle{Max: o.Rect.Size()}) {
		return color.Transparent
	}
	return o.Dst.At(o.Rect.Min.X+x, o.Rect.Min.Y+y)
}

func (o *offsetImage) Set(x, y int, c color.Color) {
	p := image.Pt(x, y)
	if !p.In(image.Rectangle{Max: o.Rect.Size()}) {
		return
	}
	o.Dst.Set(o.Rect.Min.X+x, o.Rect.Min.Y+y, c)
}

func (o *offsetImage) Bounds() image.Rectangle {
	return image.Rectangle{Max: o.Rect.Size()}
}

func (o *offsetImage) ColorModel() color.Model {
	return o.Dst.ColorModel()
}
