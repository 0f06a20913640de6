package canvas

import "math"

// Size of the square delete glyph drawn beside each shape.
const glyphSize = 20

// hitSlop widens thin strokes so they can be grabbed.
const hitSlop = 4

// HitTest reports the topmost object at p. Shapes paint above labels, and
// a shape's delete glyph wins over any body beneath it.
func (s *Scene) HitTest(p Point) Hit {
	for i := len(s.shapes) - 1; i >= 0; i-- {
		sh := s.shapes[i]
		g := sh.GlyphOrigin()
		if p.X >= g.X && p.X < g.X+glyphSize && p.Y >= g.Y && p.Y < g.Y+glyphSize {
			return Hit{Kind: HitDelete, ID: sh.ID, Origin: Point{sh.X, sh.Y}}
		}
	}
	for i := len(s.shapes) - 1; i >= 0; i-- {
		sh := s.shapes[i]
		if shapeContains(sh, p) {
			return Hit{Kind: HitShape, ID: sh.ID, Origin: Point{sh.X, sh.Y}}
		}
	}
	for i := len(s.labels) - 1; i >= 0; i-- {
		l := s.labels[i]
		w, h, _ := MeasureText(l.Text, l.FontSize)
		if p.X >= l.X && p.X < l.X+float64(w) && p.Y >= l.Y && p.Y < l.Y+float64(h) {
			return Hit{Kind: HitLabel, ID: l.ID, Origin: Point{l.X, l.Y}}
		}
	}
	return Hit{}
}

func shapeContains(sh Shape, p Point) bool {
	slop := sh.StrokeWidth/2 + hitSlop
	switch sh.Kind {
	case ToolRect:
		return p.X >= sh.X-slop && p.X <= sh.X+sh.Width+slop &&
			p.Y >= sh.Y-slop && p.Y <= sh.Y+sh.Height+slop
	case ToolCircle:
		return math.Hypot(p.X-sh.X, p.Y-sh.Y) <= sh.Width+slop
	case ToolArrow, ToolLine:
		if len(sh.Points) < 4 {
			return false
		}
		a := Point{sh.Points[0], sh.Points[1]}
		b := Point{sh.Points[2], sh.Points[3]}
		return segmentDistance(p, a, b) <= slop
	}
	return false
}

func segmentDistance(p, a, b Point) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2
	t = clamp(t, 0, 1)
	return math.Hypot(p.X-(a.X+t*ab.X), p.Y-(a.Y+t*ab.Y))
}
