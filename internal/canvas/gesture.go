package canvas

import "math"

// GestureState is the phase of the pointer gesture in progress.
type GestureState int

const (
	// Idle means no button is held.
	Idle GestureState = iota
	// Drawing follows a press while a shape tool is active.
	Drawing
	// Dragging follows a press on a label or shape with no tool active. It
	// becomes a click if the pointer is released without moving.
	Dragging
	// Pressing follows a press on empty image area or a delete glyph.
	Pressing
)

// HitKind describes what lies under the pointer.
type HitKind int

const (
	HitNone HitKind = iota
	HitLabel
	HitShape
	HitDelete
)

// Hit is the object under a pointer press. Origin is the object's stored
// position for labels and shapes.
type Hit struct {
	Kind   HitKind
	ID     int64
	Origin Point
}

// ActionKind says what a finished gesture asks of the scene.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionPlaceLabel
	ActionCreateShape
	ActionDragLabel
	ActionDragShape
	ActionDeleteShape
)

// Action is the outcome of a completed gesture. At carries the pointer
// position for label placement and the unclamped final origin for drags.
type Action struct {
	Kind  ActionKind
	ID    int64
	At    Point
	Shape Shape
}

// Router turns press, move and release events into at most one Action per
// gesture. It never touches the scene itself.
type Router struct {
	state  GestureState
	tool   Tool
	start  Point
	last   Point
	moved  bool
	target Hit
}

// State returns the current gesture phase.
func (r *Router) State() GestureState { return r.state }

// Down starts a gesture. A press while another gesture is active is
// ignored so only one gesture runs at a time.
func (r *Router) Down(p Point, tool Tool, hit Hit) {
	if r.state != Idle {
		return
	}
	r.start = p
	r.last = p
	r.moved = false
	r.tool = tool
	r.target = hit
	switch {
	case hit.Kind == HitDelete:
		r.state = Pressing
	case tool != ToolNone:
		r.state = Drawing
	case hit.Kind == HitLabel || hit.Kind == HitShape:
		r.state = Dragging
	default:
		r.state = Pressing
	}
}

// Move records the latest pointer position.
func (r *Router) Move(p Point) {
	if r.state == Idle {
		return
	}
	r.last = p
	if p != r.start {
		r.moved = true
	}
}

// Up ends the gesture and reports what it produced.
func (r *Router) Up(p Point) Action {
	state, tool, start, target, moved := r.state, r.tool, r.start, r.target, r.moved
	r.Reset()
	switch state {
	case Drawing:
		return Action{Kind: ActionCreateShape, Shape: ShapeFromDrag(tool, start, p)}
	case Dragging:
		// A press and release in place on an object is a click, not a drag.
		if !moved && p == start {
			return Action{Kind: ActionPlaceLabel, At: p}
		}
		at := target.Origin.Add(p.Sub(start))
		if target.Kind == HitLabel {
			return Action{Kind: ActionDragLabel, ID: target.ID, At: at}
		}
		return Action{Kind: ActionDragShape, ID: target.ID, At: at}
	case Pressing:
		if target.Kind == HitDelete {
			return Action{Kind: ActionDeleteShape, ID: target.ID}
		}
		return Action{Kind: ActionPlaceLabel, At: p}
	}
	return Action{}
}

// Reset abandons any gesture in progress without producing an action.
func (r *Router) Reset() {
	*r = Router{}
}

// DragPreview returns the object being dragged and its unclamped position.
func (r *Router) DragPreview() (Hit, Point, bool) {
	if r.state != Dragging {
		return Hit{}, Point{}, false
	}
	return r.target, r.target.Origin.Add(r.last.Sub(r.start)), true
}

// DrawPreview returns the shape that releasing now would create.
func (r *Router) DrawPreview() (Shape, bool) {
	if r.state != Drawing {
		return Shape{}, false
	}
	return ShapeFromDrag(r.tool, r.start, r.last), true
}

// ShapeFromDrag computes the geometry of a shape drawn from start to end.
// Style fields are left zero.
func ShapeFromDrag(tool Tool, start, end Point) Shape {
	minX := math.Min(start.X, end.X)
	minY := math.Min(start.Y, end.Y)
	switch tool {
	case ToolRect:
		return Shape{
			Kind:   ToolRect,
			X:      minX,
			Y:      minY,
			Width:  math.Abs(end.X - start.X),
			Height: math.Abs(end.Y - start.Y),
		}
	case ToolCircle:
		radius := math.Hypot(end.X-start.X, end.Y-start.Y) / 2
		return Shape{Kind: ToolCircle, X: start.X, Y: start.Y, Width: radius}
	case ToolArrow, ToolLine:
		return Shape{
			Kind:   tool,
			X:      minX,
			Y:      minY,
			Points: []float64{start.X, start.Y, end.X, end.Y},
		}
	}
	return Shape{}
}
