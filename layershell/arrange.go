package layershell

import "image"

// Arrange recomputes Geo for every live surface in layers and returns the
// remaining usable area, per spec.md §4.3: two passes — first
// exclusive-zone-claiming surfaces, then non-claiming — walked overlay →
// top → bottom → background within each pass.
func Arrange(outputBounds image.Rectangle, layers *[NumLayers][]*Surface) image.Rectangle {
	usable := outputBounds
	order := [NumLayers]Layer{LayerOverlay, LayerTop, LayerBottom, LayerBackground}

	for _, l := range order {
		for _, s := range layers[l] {
			if s.closed || s.ExclusiveZone <= 0 {
				continue
			}
			rect, ok := computeRect(usable, s)
			if !ok {
				closeSurface(s)
				continue
			}
			s.Geo = rect
			s.Sink.Configure(rect)
			usable = shrinkByExclusive(usable, s)
		}
	}

	for _, l := range order {
		for _, s := range layers[l] {
			if s.closed || s.ExclusiveZone > 0 {
				continue
			}
			bounds := usable
			if s.ExclusiveZone == ExclusiveFull {
				bounds = outputBounds
			}
			rect, ok := computeRect(bounds, s)
			if !ok {
				closeSurface(s)
				continue
			}
			s.Geo = rect
			s.Sink.Configure(rect)
		}
	}

	return usable
}

func closeSurface(s *Surface) {
	s.closed = true
	s.Sink.Close()
}

// exclusiveEdge reports which single output edge a surface's exclusive
// zone is reserved against, per spec.md §4.3's anchor/exclusive-zone
// interplay. A surface anchored to both edges of an axis (e.g. top and
// bottom) has no exclusive edge on that axis; the other axis is checked
// next.
func exclusiveEdge(a Anchor) (top, bottom, left, right bool) {
	t := a&AnchorTop != 0
	b := a&AnchorBottom != 0
	l := a&AnchorLeft != 0
	r := a&AnchorRight != 0
	switch {
	case t && !b:
		return true, false, false, false
	case b && !t:
		return false, true, false, false
	case l && !r:
		return false, false, true, false
	case r && !l:
		return false, false, false, true
	}
	return false, false, false, false
}

func shrinkByExclusive(usable image.Rectangle, s *Surface) image.Rectangle {
	if s.ExclusiveZone <= 0 {
		return usable
	}
	top, bottom, left, right := exclusiveEdge(s.Anchor)
	switch {
	case top:
		usable.Min.Y += s.ExclusiveZone
	case bottom:
		usable.Max.Y -= s.ExclusiveZone
	case left:
		usable.Min.X += s.ExclusiveZone
	case right:
		usable.Max.X -= s.ExclusiveZone
	}
	return usable
}

// computeRect implements spec.md §4.3's anchor table plus margin
// application, independently on each axis.
func computeRect(bounds image.Rectangle, s *Surface) (image.Rectangle, bool) {
	left := s.Anchor&AnchorLeft != 0
	right := s.Anchor&AnchorRight != 0
	top := s.Anchor&AnchorTop != 0
	bottom := s.Anchor&AnchorBottom != 0

	var x0, x1 int
	switch {
	case left && right && s.DesiredW == 0:
		x0, x1 = bounds.Min.X, bounds.Max.X
	case left && !right:
		x0 = bounds.Min.X
		x1 = x0 + s.DesiredW
	case right && !left:
		x1 = bounds.Max.X
		x0 = x1 - s.DesiredW
	default: // neither anchored, or both anchored with an explicit width: center it
		x0 = bounds.Min.X + (bounds.Dx()-s.DesiredW)/2
		x1 = x0 + s.DesiredW
	}
	switch {
	case left && right:
		x0 += s.Margin.Left
		x1 -= s.Margin.Right
	case left:
		x0 += s.Margin.Left
		x1 += s.Margin.Left
	case right:
		x0 -= s.Margin.Right
		x1 -= s.Margin.Right
	}

	var y0, y1 int
	switch {
	case top && bottom && s.DesiredH == 0:
		y0, y1 = bounds.Min.Y, bounds.Max.Y
	case top && !bottom:
		y0 = bounds.Min.Y
		y1 = y0 + s.DesiredH
	case bottom && !top:
		y1 = bounds.Max.Y
		y0 = y1 - s.DesiredH
	default:
		y0 = bounds.Min.Y + (bounds.Dy()-s.DesiredH)/2
		y1 = y0 + s.DesiredH
	}
	switch {
	case top && bottom:
		y0 += s.Margin.Top
		y1 -= s.Margin.Bottom
	case top:
		y0 += s.Margin.Top
		y1 += s.Margin.Top
	case bottom:
		y0 -= s.Margin.Bottom
		y1 -= s.Margin.Bottom
	}

	rect := image.Rect(x0, y0, x1, y1)
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		return image.Rectangle{}, false
	}
	return rect, true
}
