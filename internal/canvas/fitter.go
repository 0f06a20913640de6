package canvas

import "image"

// Viewport is the side of the square logical drawing surface.
const Viewport = 512

// Geometry is the display size and centring offset of an image fitted into
// the viewport.
type Geometry struct {
	Width, Height    float64
	OffsetX, OffsetY float64
}

// Rect returns the integer destination rectangle of the fitted image.
func (g Geometry) Rect() image.Rectangle {
	x0 := int(g.OffsetX + 0.5)
	y0 := int(g.OffsetY + 0.5)
	return image.Rect(x0, y0, x0+int(g.Width+0.5), y0+int(g.Height+0.5))
}

// Fit letterboxes an image of the given natural size into a v×v viewport,
// preserving its aspect ratio. Degenerate sizes produce a zero Geometry.
func Fit(naturalW, naturalH, v float64) Geometry {
	if naturalW <= 0 || naturalH <= 0 || v <= 0 {
		return Geometry{}
	}
	r := naturalW / naturalH
	var w, h float64
	if r > 1 {
		w = v
		h = v / r
	} else {
		h = v
		w = v * r
	}
	// Rounding can push an axis a hair past v; recompute from that axis.
	if w > v {
		w = v
		h = v / r
	}
	if h > v {
		h = v
		w = v * r
	}
	return Geometry{
		Width:   w,
		Height:  h,
		OffsetX: (v - w) / 2,
		OffsetY: (v - h) / 2,
	}
}
