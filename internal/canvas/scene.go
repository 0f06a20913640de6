package canvas

import (
	"errors"
	"image/color"
	"math"
	"sync"
	"time"
)

// Objects keep their origin at least this far from the right and bottom
// edges so the text origin and delete glyph stay on the canvas.
const (
	clampMarginX = 50
	clampMarginY = 20
)

// ErrEmptyLabel is returned when a label is placed without any text.
var ErrEmptyLabel = errors.New("please enter label text first")

// Point is a position in viewport units.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Label is a piece of text placed on the image.
type Label struct {
	ID       int64
	X, Y     float64
	Text     string
	FontSize float64
	Fill     color.RGBA
	Opacity  float64
}

// Shape is a vector annotation. For arrows and lines Points holds
// [x0, y0, x1, y1]; X and Y mirror the top-left of those endpoints and are
// kept in step with them.
type Shape struct {
	ID          int64
	Kind        Tool
	X, Y        float64
	Width       float64
	Height      float64
	Points      []float64
	Stroke      color.RGBA
	StrokeWidth float64
	Fill        color.RGBA
}

func (s Shape) clone() Shape {
	if s.Points != nil {
		s.Points = append([]float64(nil), s.Points...)
	}
	return s
}

// GlyphOrigin returns the top-left corner of the shape's delete glyph.
func (s Shape) GlyphOrigin() Point {
	return Point{s.X + s.Width, s.Y - glyphSize}
}

var nowFn = time.Now

// idSource hands out ids derived from the wall clock in milliseconds,
// bumped when two requests land in the same tick.
type idSource struct {
	mu   sync.Mutex
	last int64
}

func (g *idSource) next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := nowFn().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// Scene holds the labels and shapes of the current image in paint order.
type Scene struct {
	viewport float64
	labels   []Label
	shapes   []Shape
	ids      idSource
}

// NewScene returns an empty scene for a square viewport of side v.
func NewScene(v float64) *Scene {
	if v <= 0 {
		v = Viewport
	}
	return &Scene{viewport: v}
}

// Clamp limits p to the region an object origin may occupy.
func (s *Scene) Clamp(p Point) Point {
	return Point{
		X: clamp(p.X, 0, s.viewport-clampMarginX),
		Y: clamp(p.Y, 0, s.viewport-clampMarginY),
	}
}

// AddLabel appends a label at the clamped position. Empty text is rejected
// with ErrEmptyLabel and leaves the scene untouched.
func (s *Scene) AddLabel(x, y float64, text string, st LabelStyle) (Label, error) {
	if text == "" {
		return Label{}, ErrEmptyLabel
	}
	st = st.normalized()
	p := s.Clamp(Point{x, y})
	l := Label{
		ID:       s.ids.next(),
		X:        p.X,
		Y:        p.Y,
		Text:     text,
		FontSize: st.FontSize,
		Fill:     st.Fill,
		Opacity:  st.Opacity,
	}
	s.labels = append(s.labels, l)
	return l, nil
}

// AddShape appends sh under a fresh id and returns the stored copy.
func (s *Scene) AddShape(sh Shape) Shape {
	sh = sh.clone()
	sh.ID = s.ids.next()
	s.shapes = append(s.shapes, sh)
	return sh.clone()
}

// MoveLabel stores a new clamped origin for the label. Unknown ids are
// ignored.
func (s *Scene) MoveLabel(id int64, x, y float64) (Label, bool) {
	for i := range s.labels {
		if s.labels[i].ID != id {
			continue
		}
		p := s.Clamp(Point{x, y})
		s.labels[i].X = p.X
		s.labels[i].Y = p.Y
		return s.labels[i], true
	}
	return Label{}, false
}

// MoveShape stores a new clamped origin for the shape. Arrow and line
// endpoints are translated by the same amount. Unknown ids are ignored.
func (s *Scene) MoveShape(id int64, x, y float64) (Shape, bool) {
	for i := range s.shapes {
		sh := &s.shapes[i]
		if sh.ID != id {
			continue
		}
		*sh = translateShape(*sh, s.Clamp(Point{x, y}))
		return sh.clone(), true
	}
	return Shape{}, false
}

// DeleteShape removes the shape with the given id and reports whether it
// was present.
func (s *Scene) DeleteShape(id int64) bool {
	for i := range s.shapes {
		if s.shapes[i].ID == id {
			s.shapes = append(s.shapes[:i], s.shapes[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops every label and shape.
func (s *Scene) Clear() {
	s.labels = nil
	s.shapes = nil
}

// Labels returns a copy of the labels in paint order.
func (s *Scene) Labels() []Label {
	out := make([]Label, len(s.labels))
	copy(out, s.labels)
	return out
}

// Shapes returns a copy of the shapes in paint order.
func (s *Scene) Shapes() []Shape {
	out := make([]Shape, len(s.shapes))
	for i, sh := range s.shapes {
		out[i] = sh.clone()
	}
	return out
}

// Label looks up a label by id.
func (s *Scene) Label(id int64) (Label, bool) {
	for _, l := range s.labels {
		if l.ID == id {
			return l, true
		}
	}
	return Label{}, false
}

// Shape looks up a shape by id.
func (s *Scene) Shape(id int64) (Shape, bool) {
	for _, sh := range s.shapes {
		if sh.ID == id {
			return sh.clone(), true
		}
	}
	return Shape{}, false
}

// Len returns the number of labels and shapes.
func (s *Scene) Len() (labels, shapes int) {
	return len(s.labels), len(s.shapes)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
