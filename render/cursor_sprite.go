package render

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/friedelschoen/wlcompose/backend"
	"github.com/friedelschoen/wlcompose/outputmgr"
)

// CursorSprite is the software-cursor render target: a CPU-side
// ARGB8888 plane (outputmgr.CursorPlane) composited over the scene and
// uploaded as a texture, per spec.md §4.9 invariant iii ("the
// software-cursor render always occurs... as long as needs_swap"). The
// texture only needs re-uploading when Refresh is called with a new
// bitmap (the cursor image name or the output scale changed); Pos can be
// updated every frame independently of that.
type CursorSprite struct {
	Plane   *outputmgr.CursorPlane
	Texture backend.Texture // uploaded by the caller after Composite
	Pos     image.Point
	hotspot image.Point
}

// Composite paints src (an xcursor image, already at the plane's pixel
// format) into the plane, clearing the rest of the plane to transparent
// first. The plane is allocated at the theme's largest cursor size
// (outputmgr.NewCursorPlane), so a smaller bitmap is windowed into an
// offsetImage anchored at its own origin rather than scaled or
// repositioned; Draw still places the whole plane at Pos-hotspot when
// queuing the output quad. Uses golang.org/x/image/draw the same way the
// teacher composites menu item icon bitmaps over the context-menu
// background in its drawItem path.
func (c *CursorSprite) Composite(src image.Image, hotspot image.Point) {
	c.hotspot = hotspot
	dst := &image.RGBA{
		Pix:    c.Plane.Pixels(),
		Stride: c.Plane.Stride,
		Rect:   image.Rectangle{Max: c.Plane.Size},
	}
	draw.Draw(dst, dst.Rect, image.Transparent, image.Point{}, draw.Src)

	target := &offsetImage{Dst: dst, Rect: image.Rectangle{Max: src.Bounds().Size()}}
	draw.Draw(target, target.Bounds(), src, image.Point{}, draw.Over)
}

// Refresh recomposites src at hotspot into the plane, byte-swaps the
// result into the renderer's native upload order (the same conversion
// blit.go applies to a client's wl_shm buffer before upload), and
// uploads a fresh texture. Callers should only invoke this when the
// cursor's bitmap actually changed; Pos tracks pointer motion
// independently and needs no re-upload.
func (c *CursorSprite) Refresh(r backend.Renderer, src image.Image, hotspot image.Point) {
	c.Composite(src, hotspot)
	SwizzleARGBToABGR(c.Plane.Pixels())
	c.Texture = r.UploadTexture(c.Plane.Pixels(), c.Plane.Size, c.Plane.Stride)
}

// Draw uploads nothing itself (texture upload is backend-specific); it
// issues the Quad call placing the sprite at Pos-hotspot, per spec.md
// §4.9 step 7.
func (c *CursorSprite) Draw(r backend.Renderer, transform backend.Transform) {
	if c.Texture == nil {
		return
	}
	origin := c.Pos.Sub(c.hotspot)
	size := c.Texture.Size()
	dst := image.Rectangle{Min: origin, Max: origin.Add(size)}
	r.Scissor(dst)
	r.Quad(c.Texture, dst, transform)
}
