package canvas

import (
	"errors"
	"image"
	"time"

	"github.com/disintegration/imaging"
)

// Status is the load state of the canvas background.
type Status int

const (
	StatusEmpty Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// ErrStale is returned when a load result arrives for a source that has
// since been replaced.
var ErrStale = errors.New("stale image load")

// Hooks are invoked after the canvas has applied a change to its scene.
// Drag hooks receive the position as released, before clamping.
type Hooks struct {
	AddLabel    func(Label)
	LabelDrag   func(id int64, x, y float64)
	AddShape    func(Shape)
	ShapeDrag   func(id int64, x, y float64)
	DeleteShape func(id int64)
	Notice      func(msg string)
}

// Image is a decoded background already scaled to its fitted size.
type Image struct {
	Natural image.Point
	Display image.Image
}

// Prepare fits img into a v×v viewport and resamples it once so frames can
// blit it unscaled. It is safe to call off the UI goroutine.
func Prepare(img image.Image, v int) Image {
	b := img.Bounds()
	g := Fit(float64(b.Dx()), float64(b.Dy()), float64(v))
	r := g.Rect()
	out := Image{Natural: b.Size()}
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return out
	}
	if r.Dx() == b.Dx() && r.Dy() == b.Dy() {
		out.Display = img
		return out
	}
	out.Display = imaging.Resize(img, r.Dx(), r.Dy(), imaging.Lanczos)
	return out
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithViewport sets the side of the logical drawing surface.
func WithViewport(v int) Option { return func(c *Canvas) { c.viewport = v } }

// WithHooks registers callbacks for scene changes.
func WithHooks(h Hooks) Option { return func(c *Canvas) { c.hooks = h } }

// WithLabelStyle sets the initial label style.
func WithLabelStyle(st LabelStyle) Option { return func(c *Canvas) { c.style = st.normalized() } }

// WithShapeStyle overrides the stroke and fill for one shape kind.
func WithShapeStyle(kind Tool, st ShapeStyle) Option {
	return func(c *Canvas) { c.styles[kind] = st }
}

// WithNoticeDuration sets how long validation notices stay visible.
func WithNoticeDuration(d time.Duration) Option { return func(c *Canvas) { c.noticeFor = d } }

// Canvas owns the scene for one background image and routes pointer input
// into it. It is not safe for concurrent use; drive it from one goroutine
// and hand load results back to that goroutine.
type Canvas struct {
	viewport int
	scene    *Scene
	router   Router
	hooks    Hooks
	styles   map[Tool]ShapeStyle
	style    LabelStyle
	text     string
	tool     Tool

	source  string
	token   uint64
	status  Status
	loadErr error
	image   Image
	geom    Geometry

	notice      string
	noticeUntil time.Time
	noticeFor   time.Duration
}

// New returns an empty canvas.
func New(opts ...Option) *Canvas {
	c := &Canvas{
		viewport:  Viewport,
		styles:    DefaultShapeStyles(),
		style:     DefaultLabelStyle(),
		noticeFor: 2 * time.Second,
	}
	for _, o := range opts {
		o(c)
	}
	if c.viewport <= 0 {
		c.viewport = Viewport
	}
	c.scene = NewScene(float64(c.viewport))
	return c
}

// Viewport returns the side of the logical drawing surface.
func (c *Canvas) Viewport() int { return c.viewport }

// SetSource switches to a new background. The scene is cleared, any
// gesture is abandoned and the returned token must accompany the load
// result. An empty source shows the placeholder.
func (c *Canvas) SetSource(src string) uint64 {
	c.token++
	c.source = src
	c.scene.Clear()
	c.router.Reset()
	c.image = Image{}
	c.geom = Geometry{}
	c.loadErr = nil
	if src == "" {
		c.status = StatusEmpty
	} else {
		c.status = StatusLoading
	}
	return c.token
}

// Source returns the current background source.
func (c *Canvas) Source() string { return c.source }

// Token returns the token of the current source.
func (c *Canvas) Token() uint64 { return c.token }

// Status returns the background load state.
func (c *Canvas) Status() Status { return c.status }

// LoadError returns the error of a failed load.
func (c *Canvas) LoadError() error { return c.loadErr }

// Geometry returns the fitted placement of the background.
func (c *Canvas) Geometry() Geometry { return c.geom }

// Image returns the prepared background.
func (c *Canvas) Image() Image { return c.image }

// CompleteLoad commits a decoded background. Results for an outdated token
// are dropped with ErrStale.
func (c *Canvas) CompleteLoad(token uint64, img Image) error {
	if token != c.token || c.status != StatusLoading {
		return ErrStale
	}
	c.image = img
	c.geom = Fit(float64(img.Natural.X), float64(img.Natural.Y), float64(c.viewport))
	c.status = StatusReady
	return nil
}

// FailLoad puts the canvas into the error state until a new source is set.
func (c *Canvas) FailLoad(token uint64, err error) error {
	if token != c.token || c.status != StatusLoading {
		return ErrStale
	}
	c.status = StatusFailed
	c.loadErr = err
	return nil
}

// SetTool selects the active tool. A gesture already in progress keeps the
// tool it started with.
func (c *Canvas) SetTool(t Tool) { c.tool = t }

// Tool returns the active tool.
func (c *Canvas) Tool() Tool { return c.tool }

// SetLabelText sets the text used for the next placed label.
func (c *Canvas) SetLabelText(s string) { c.text = s }

// LabelText returns the pending label text.
func (c *Canvas) LabelText() string { return c.text }

// SetLabelStyle sets the style used for the next placed label.
func (c *Canvas) SetLabelStyle(st LabelStyle) { c.style = st.normalized() }

// LabelStyle returns the style used for the next placed label.
func (c *Canvas) LabelStyle() LabelStyle { return c.style }

// Gesture returns the phase of the pointer gesture in progress.
func (c *Canvas) Gesture() GestureState { return c.router.State() }

// Labels returns the labels in paint order.
func (c *Canvas) Labels() []Label { return c.scene.Labels() }

// Shapes returns the shapes in paint order.
func (c *Canvas) Shapes() []Shape { return c.scene.Shapes() }

func (c *Canvas) interactive() bool { return c.status == StatusReady }

func (c *Canvas) inViewport(p Point) bool {
	v := float64(c.viewport)
	return p.X >= 0 && p.Y >= 0 && p.X < v && p.Y < v
}

// PointerDown starts a gesture at p. It reports whether anything changed.
func (c *Canvas) PointerDown(p Point) bool {
	if !c.interactive() || !c.inViewport(p) || c.router.State() != Idle {
		return false
	}
	hit := c.scene.HitTest(p)
	if c.tool != ToolNone && hit.Kind != HitDelete {
		hit = Hit{}
	}
	c.router.Down(p, c.tool, hit)
	return true
}

// PointerMove tracks the pointer during a gesture.
func (c *Canvas) PointerMove(p Point) bool {
	if !c.interactive() || c.router.State() == Idle {
		return false
	}
	c.router.Move(p)
	return c.router.State() != Pressing
}

// PointerUp finishes the gesture and applies its action.
func (c *Canvas) PointerUp(p Point) bool {
	if !c.interactive() || c.router.State() == Idle {
		return false
	}
	c.apply(c.router.Up(p))
	return true
}

// CancelGesture abandons the gesture in progress.
func (c *Canvas) CancelGesture() { c.router.Reset() }

func (c *Canvas) apply(a Action) {
	switch a.Kind {
	case ActionPlaceLabel:
		l, err := c.scene.AddLabel(a.At.X, a.At.Y, c.text, c.style)
		if err != nil {
			c.setNotice(err.Error())
			return
		}
		if c.hooks.AddLabel != nil {
			c.hooks.AddLabel(l)
		}
	case ActionCreateShape:
		st := c.styles[a.Shape.Kind]
		a.Shape.Stroke = st.Stroke
		a.Shape.StrokeWidth = st.StrokeWidth
		a.Shape.Fill = st.Fill
		sh := c.scene.AddShape(a.Shape)
		if c.hooks.AddShape != nil {
			c.hooks.AddShape(sh)
		}
	case ActionDragLabel:
		if _, ok := c.scene.MoveLabel(a.ID, a.At.X, a.At.Y); ok && c.hooks.LabelDrag != nil {
			c.hooks.LabelDrag(a.ID, a.At.X, a.At.Y)
		}
	case ActionDragShape:
		if _, ok := c.scene.MoveShape(a.ID, a.At.X, a.At.Y); ok && c.hooks.ShapeDrag != nil {
			c.hooks.ShapeDrag(a.ID, a.At.X, a.At.Y)
		}
	case ActionDeleteShape:
		c.DeleteShape(a.ID)
	}
}

// DeleteShape removes a shape. Unknown ids are ignored.
func (c *Canvas) DeleteShape(id int64) bool {
	if !c.scene.DeleteShape(id) {
		return false
	}
	if c.hooks.DeleteShape != nil {
		c.hooks.DeleteShape(id)
	}
	return true
}

func (c *Canvas) setNotice(msg string) {
	c.notice = msg
	c.noticeUntil = nowFn().Add(c.noticeFor)
	if c.hooks.Notice != nil {
		c.hooks.Notice(msg)
	}
}

// Notice returns the validation notice if it is still showing.
func (c *Canvas) Notice() string {
	if c.notice == "" || !nowFn().Before(c.noticeUntil) {
		return ""
	}
	return c.notice
}

// DismissNotice hides the current notice.
func (c *Canvas) DismissNotice() { c.notice = "" }

// Frame is an immutable snapshot of everything the renderer needs.
type Frame struct {
	Viewport int
	Status   Status
	Image    image.Image
	Geometry Geometry
	Labels   []Label
	Shapes   []Shape
	// Preview is the shape a release would create, if drawing.
	Preview *Shape
	Notice  string
	// HideGlyphs omits delete glyphs, as for exported images.
	HideGlyphs bool
}

// Frame snapshots the canvas. A dragged object is shown at its unclamped
// pointer position until the drag is committed.
func (c *Canvas) Frame() Frame {
	f := Frame{
		Viewport: c.viewport,
		Status:   c.status,
		Image:    c.image.Display,
		Geometry: c.geom,
		Labels:   c.scene.Labels(),
		Shapes:   c.scene.Shapes(),
		Notice:   c.Notice(),
	}
	if hit, at, ok := c.router.DragPreview(); ok {
		switch hit.Kind {
		case HitLabel:
			for i := range f.Labels {
				if f.Labels[i].ID == hit.ID {
					f.Labels[i].X, f.Labels[i].Y = at.X, at.Y
				}
			}
		case HitShape:
			for i := range f.Shapes {
				if f.Shapes[i].ID == hit.ID {
					f.Shapes[i] = translateShape(f.Shapes[i], at)
				}
			}
		}
	}
	if sh, ok := c.router.DrawPreview(); ok {
		st := c.styles[sh.Kind]
		sh.Stroke, sh.StrokeWidth, sh.Fill = st.Stroke, st.StrokeWidth, st.Fill
		f.Preview = &sh
	}
	return f
}

func translateShape(sh Shape, to Point) Shape {
	dx, dy := to.X-sh.X, to.Y-sh.Y
	sh.X, sh.Y = to.X, to.Y
	for j := 0; j+1 < len(sh.Points); j += 2 {
		sh.Points[j] += dx
		sh.Points[j+1] += dy
	}
	return sh
}
