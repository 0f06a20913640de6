package ui

import (
	"context"
	"image"
	"math"
	"testing"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/genlabel/internal/backend"
	"github.com/example/genlabel/internal/canvas"
)

// syncController runs jobs inline so results are applied before the call
// returns.
func syncController(t *testing.T, s *session) *controller {
	t.Helper()
	c := newController(s, toolbarWidthFor(DefaultTitle))
	c.run = func(j job) { c.handleResult(j(context.Background())) }
	c.resize(700, 600)
	return c
}

func press(r rune) key.Event { return key.Event{Rune: r, Direction: key.DirPress} }

func pressCode(code key.Code) key.Event {
	return key.Event{Rune: -1, Code: code, Direction: key.DirPress}
}

func ctrlPress(r rune) key.Event {
	return key.Event{Rune: r, Modifiers: key.ModControl, Direction: key.DirPress}
}

func typeText(c *controller, s string) {
	for _, r := range s {
		c.handleKey(press(r))
	}
}

func mouseAt(p image.Point, dir mouse.Direction) mouse.Event {
	return mouse.Event{X: float32(p.X), Y: float32(p.Y), Button: mouse.ButtonLeft, Direction: dir}
}

func clickAt(c *controller, p image.Point) {
	c.handleMouse(mouseAt(p, mouse.DirPress))
	c.handleMouse(mouseAt(p, mouse.DirRelease))
}

func centre(r image.Rectangle) image.Point {
	return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

func TestEditLabelText(t *testing.T) {
	c := syncController(t, testSession(t, nil))
	c.handleKey(press('t'))
	if c.edit.field != fieldLabel {
		t.Fatalf("editing %v", c.edit.field)
	}
	typeText(c, "cat")
	c.handleKey(pressCode(key.CodeDeleteBackspace))
	typeText(c, "r")
	c.handleKey(pressCode(key.CodeReturnEnter))
	if got := c.s.canvas.LabelText(); got != "car" {
		t.Fatalf("label text = %q", got)
	}

	c.handleKey(press('T'))
	typeText(c, "xx")
	c.handleKey(pressCode(key.CodeEscape))
	if got := c.s.canvas.LabelText(); got != "car" || c.edit.active() {
		t.Fatalf("escape kept %q, active %v", got, c.edit.active())
	}
}

func TestKeysWhileEditingDoNotTriggerActions(t *testing.T) {
	c := syncController(t, testSession(t, nil))
	c.handleKey(press('p'))
	if quit := c.handleKey(press('q')); quit {
		t.Fatal("q closed the window while typing")
	}
	c.handleKey(press('x'))
	if c.s.canvas.Tool() != canvas.ToolNone {
		t.Fatal("x switched tools while typing")
	}
	if c.edit.value != "qx" {
		t.Fatalf("value = %q", c.edit.value)
	}
}

func TestPasteIntoEditor(t *testing.T) {
	c := syncController(t, testSession(t, nil))
	c.readText = func() (string, error) { return "a lake\n", nil }
	c.handleKey(press('t'))
	c.handleKey(ctrlPress('v'))
	if c.edit.value != "a lake" {
		t.Fatalf("value = %q", c.edit.value)
	}
}

func TestPromptEnterGenerates(t *testing.T) {
	srv := fakeService(t)
	c := syncController(t, testSession(t, srv))
	c.handleKey(press('p'))
	typeText(c, " a bird ")
	c.handleKey(pressCode(key.CodeReturnEnter))

	if c.s.prompt != "a bird" {
		t.Fatalf("prompt = %q", c.s.prompt)
	}
	if c.s.canvas.Status() != canvas.StatusReady {
		t.Fatalf("status = %v", c.s.canvas.Status())
	}
	if e, _ := c.s.history.Get(0); e.Prompt != "a bird" {
		t.Fatalf("history = %+v", c.s.history.Entries())
	}
}

func TestToolKeysAndQuit(t *testing.T) {
	c := syncController(t, testSession(t, nil))
	tests := []struct {
		r    rune
		want canvas.Tool
	}{
		{'x', canvas.ToolRect},
		{'O', canvas.ToolCircle},
		{'a', canvas.ToolArrow},
		{'l', canvas.ToolLine},
		{'n', canvas.ToolNone},
	}
	for _, tc := range tests {
		c.handleKey(press(tc.r))
		if got := c.s.canvas.Tool(); got != tc.want {
			t.Fatalf("key %q: tool = %v, want %v", tc.r, got, tc.want)
		}
	}
	if !c.handleKey(press('q')) {
		t.Fatal("q should close the window")
	}
	if c.handleKey(key.Event{Rune: 'q', Direction: key.DirRelease}) {
		t.Fatal("key release should be ignored")
	}
}

func TestCtrlDigitSelectsHistory(t *testing.T) {
	dir := t.TempDir()
	s := testSession(t, nil)
	s.history = backend.NewHistory(
		backend.Entry{Src: writePNG(t, dir, "a.png", 8, 8)},
		backend.Entry{Src: writePNG(t, dir, "b.png", 8, 8)},
	)
	c := syncController(t, s)
	c.handleKey(ctrlPress('2'))
	if s.canvas.Status() != canvas.StatusReady || s.canvas.Source() != s.history.Entries()[1].Src {
		t.Fatalf("status %v source %q", s.canvas.Status(), s.canvas.Source())
	}
	c.handleKey(ctrlPress('9'))
	if c.currentMessage() == "" {
		t.Fatal("missing entry should show a message")
	}
}

func TestClickPlacesLabelInLogicalUnits(t *testing.T) {
	s := testSession(t, nil)
	c := syncController(t, s)
	loadReady(t, s, writePNG(t, t.TempDir(), "bg.png", 512, 512))
	s.canvas.SetLabelText("bird")

	clickAt(c, c.layout.fromCanvas(canvas.Point{X: 100, Y: 200}))
	labels := s.canvas.Labels()
	if len(labels) != 1 {
		t.Fatalf("labels = %d", len(labels))
	}
	tol := 1 / c.layout.scale
	if math.Abs(labels[0].X-100) > tol || math.Abs(labels[0].Y-200) > tol {
		t.Fatalf("label at (%v,%v), want near (100,200)", labels[0].X, labels[0].Y)
	}
}

func TestGestureFollowsPointerOffStage(t *testing.T) {
	s := testSession(t, nil)
	c := syncController(t, s)
	loadReady(t, s, writePNG(t, t.TempDir(), "bg.png", 512, 512))
	c.handleKey(press('x'))

	start := c.layout.fromCanvas(canvas.Point{X: 10, Y: 10})
	c.handleMouse(mouseAt(start, mouse.DirPress))
	if s.canvas.Gesture() != canvas.Drawing {
		t.Fatalf("gesture = %v", s.canvas.Gesture())
	}
	// Over the toolbar: the drag continues instead of clicking a button.
	off := centre(c.layout.tools[2])
	c.handleMouse(mouseAt(off, mouse.DirNone))
	c.handleMouse(mouseAt(off, mouse.DirRelease))
	if s.canvas.Tool() != canvas.ToolRect {
		t.Fatal("toolbar received a click during a drag")
	}
	if n := len(s.canvas.Shapes()); n != 1 {
		t.Fatalf("shapes = %d", n)
	}
}

func TestToolbarClicks(t *testing.T) {
	c := syncController(t, testSession(t, nil))
	cv := c.s.canvas

	clickAt(c, centre(c.layout.tools[3]))
	if cv.Tool() != canvas.ToolArrow {
		t.Fatalf("tool = %v", cv.Tool())
	}
	clickAt(c, centre(c.layout.swatches[2]))
	if cv.LabelStyle().Fill != canvas.Palette()[2].Color {
		t.Fatalf("fill = %v", cv.LabelStyle().Fill)
	}
	clickAt(c, centre(c.layout.sizes[len(c.layout.sizes)-1]))
	if cv.LabelStyle().FontSize != canvas.FontSizes[len(canvas.FontSizes)-1] {
		t.Fatalf("font size = %v", cv.LabelStyle().FontSize)
	}
	clickAt(c, centre(c.layout.opacities[2]))
	if cv.LabelStyle().Opacity != canvas.Opacities[2] {
		t.Fatalf("opacity = %v", cv.LabelStyle().Opacity)
	}
}

func TestShortcutBarClick(t *testing.T) {
	c := syncController(t, testSession(t, nil))
	items := shortcutsFor(fieldNone, c.zoom)
	rects := shortcutRects(c.layout, items)
	for i, it := range items {
		if it.action == actExport {
			clickAt(c, centre(rects[i]))
		}
	}
	if msg := c.currentMessage(); msg == "" {
		t.Fatal("export without an image should report an error")
	}
}

func TestMessageExpiresAndDismisses(t *testing.T) {
	now := time.Unix(100, 0)
	c := syncController(t, testSession(t, nil))
	c.now = func() time.Time { return now }
	var repaint time.Duration
	c.repaintIn = func(d time.Duration) { repaint = d }

	c.show("hello")
	if c.currentMessage() != "hello" || repaint != messageDuration {
		t.Fatalf("message %q repaint %v", c.currentMessage(), repaint)
	}
	now = now.Add(messageDuration)
	if c.currentMessage() != "" {
		t.Fatal("message should have expired")
	}

	c.show("again")
	if !c.handleMouse(mouseAt(image.Pt(1, 300), mouse.DirPress)) || c.currentMessage() != "" {
		t.Fatal("press should dismiss the message")
	}
}

func TestZoomKeysAndWheel(t *testing.T) {
	c := syncController(t, testSession(t, nil))
	base := c.layout.stage.Dx()
	c.handleKey(key.Event{Rune: '+', Modifiers: key.ModShift, Direction: key.DirPress})
	if c.zoom != 1.25 || c.layout.stage.Dx() <= base {
		t.Fatalf("zoom %v stage %v", c.zoom, c.layout.stage)
	}
	c.handleMouse(mouse.Event{Button: mouse.ButtonWheelDown, Direction: mouse.DirStep})
	if c.zoom != 1 {
		t.Fatalf("zoom after wheel = %v", c.zoom)
	}
	for i := 0; i < 20; i++ {
		c.handleKey(press('-'))
	}
	if c.zoom != minZoom {
		t.Fatalf("zoom = %v, want clamp at %v", c.zoom, minZoom)
	}
	c.handleKey(press('0'))
	if c.zoom != 1 {
		t.Fatalf("zoom reset = %v", c.zoom)
	}
}

func TestSnapshot(t *testing.T) {
	s := testSession(t, nil)
	s.tags = []string{"1", "4"}
	c := syncController(t, s)
	c.handleKey(press('t'))
	typeText(c, "ab")
	st := c.snapshot("Title")
	if st.editing != fieldLabel || st.editValue != "ab" || st.tags != "tags 1,4" || st.title != "Title" {
		t.Fatalf("snapshot = %+v", st)
	}
	if st.frame.Status != canvas.StatusEmpty || st.status != "empty" {
		t.Fatalf("frame status %v %q", st.frame.Status, st.status)
	}
}
