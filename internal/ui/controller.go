package ui

import (
	"errors"
	"fmt"
	"image"
	"log"
	"strings"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/genlabel/internal/canvas"
	"github.com/example/genlabel/internal/clipboard"
	"github.com/example/genlabel/internal/imagesrc"
)

const messageDuration = 2 * time.Second

// controller turns window events into session and canvas calls. It runs on
// the event loop goroutine; background work is handed to run.
type controller struct {
	s      *session
	keys   keymap
	edit   editor
	layout layout

	toolbar int
	zoom    float64
	hover   hover

	message      string
	messageUntil time.Time

	run       func(job)
	repaintIn func(time.Duration)
	now       func() time.Time
	readText  func() (string, error)
}

func newController(s *session, toolbar int) *controller {
	return &controller{
		s:         s,
		keys:      defaultKeymap(),
		toolbar:   toolbar,
		zoom:      1,
		run:       func(job) {},
		repaintIn: func(time.Duration) {},
		now:       time.Now,
		readText:  clipboard.ReadText,
	}
}

func (c *controller) resize(width, height int) {
	c.layout = newLayout(width, height, c.toolbar, c.s.canvas.Viewport(), c.zoom, len(canvas.Palette()))
}

func (c *controller) setZoom(z float64) {
	c.zoom = clampZoom(z)
	c.resize(c.layout.width, c.layout.height)
}

func (c *controller) show(msg string) {
	log.Print(msg)
	c.message = msg
	c.messageUntil = c.now().Add(messageDuration)
	c.repaintIn(messageDuration)
}

func (c *controller) fail(err error) {
	c.show(err.Error())
}

func (c *controller) currentMessage() string {
	if c.message == "" || !c.now().Before(c.messageUntil) {
		return ""
	}
	return c.message
}

// handleKey processes a key press and reports whether the window should
// close.
func (c *controller) handleKey(e key.Event) bool {
	if e.Direction != key.DirPress {
		return false
	}
	if c.edit.active() {
		if e.Modifiers&key.ModControl != 0 && (e.Rune == 'v' || e.Rune == 'V') {
			text, err := c.readText()
			if err != nil {
				c.fail(err)
				return false
			}
			c.edit.insert(text)
			return false
		}
		switch c.edit.key(e) {
		case editCommit:
			c.commit()
		case editCancel:
			c.edit.end()
		}
		return false
	}
	if action, ok := c.keys.lookup(e); ok {
		return c.dispatch(action)
	}
	return false
}

func (c *controller) commit() {
	f, v := c.edit.end()
	switch f {
	case fieldLabel:
		c.s.canvas.SetLabelText(v)
	case fieldPrompt:
		c.s.prompt = strings.TrimSpace(v)
		c.dispatch(actGenerate)
	}
}

// dispatch runs a named action and reports whether the window should close.
func (c *controller) dispatch(action string) bool {
	switch action {
	case actQuit:
		return true
	case actCommit:
		c.commit()
	case actCancel:
		if c.edit.active() {
			c.edit.end()
		}
		c.s.canvas.CancelGesture()
		c.s.canvas.DismissNotice()
	case actDismiss:
		c.message = ""
	case actEditLabel:
		c.edit.begin(fieldLabel, c.s.canvas.LabelText())
	case actEditPrompt:
		c.edit.begin(fieldPrompt, c.s.prompt)
	case actGenerate:
		j, err := c.s.generate()
		if err != nil {
			c.fail(err)
			return false
		}
		c.run(j)
	case actDownload:
		j, err := c.s.download()
		if err != nil {
			c.fail(err)
			return false
		}
		c.run(j)
	case actExport:
		path, err := c.s.export()
		if err != nil {
			c.fail(err)
			return false
		}
		c.show("exported " + path)
	case actCopy:
		if err := c.s.copy(); err != nil {
			c.fail(err)
			return false
		}
		c.show("image copied to clipboard")
	case actPaste:
		c.load(imagesrc.Clipboard)
	case actCapture:
		c.load(imagesrc.Screenshot)
	case actZoomIn:
		c.setZoom(c.zoom * 1.25)
	case actZoomOut:
		c.setZoom(c.zoom / 1.25)
	case actZoomReset:
		c.setZoom(1)
	default:
		var i int
		if _, err := fmt.Sscanf(action, "tool%d", &i); err == nil && i >= 0 && i < len(toolEntries) {
			c.s.canvas.SetTool(toolEntries[i].tool)
			return false
		}
		if _, err := fmt.Sscanf(action, "history%d", &i); err == nil {
			j, err := c.s.selectHistory(i)
			if err != nil {
				c.fail(err)
				return false
			}
			c.run(j)
		}
	}
	return false
}

func (c *controller) load(src string) {
	if j := c.s.load(src); j != nil {
		c.run(j)
	}
}

// handleResult applies the outcome of a background job.
func (c *controller) handleResult(r any) {
	switch r := r.(type) {
	case loadResult:
		if err := c.s.finishLoad(r); errors.Is(err, canvas.ErrStale) {
			log.Printf("discarding stale load %d", r.token)
		} else if err != nil {
			log.Print(err)
		}
	case generateResult:
		j, err := c.s.finishGenerate(r)
		switch {
		case errors.Is(err, canvas.ErrStale):
			log.Printf("discarding stale generation %d", r.seq)
		case err != nil:
			c.fail(err)
		default:
			c.run(j)
		}
	case downloadResult:
		path, err := c.s.finishDownload(r)
		if err != nil {
			c.fail(err)
			return
		}
		c.show("saved " + path)
	}
}

// handleMouse processes pointer input and reports whether a repaint is
// needed.
func (c *controller) handleMouse(e mouse.Event) bool {
	p := image.Pt(int(e.X), int(e.Y))
	cv := c.s.canvas

	if e.Direction == mouse.DirPress && c.currentMessage() != "" {
		c.message = ""
		return true
	}
	if e.Direction == mouse.DirStep {
		switch e.Button {
		case mouse.ButtonWheelUp:
			c.setZoom(c.zoom * 1.25)
		case mouse.ButtonWheelDown:
			c.setZoom(c.zoom / 1.25)
		default:
			return false
		}
		return true
	}

	// A gesture on the image keeps receiving the pointer wherever it goes.
	if cv.Gesture() != canvas.Idle {
		at := c.layout.toCanvas(p)
		switch e.Direction {
		case mouse.DirRelease:
			if e.Button == mouse.ButtonLeft {
				changed := cv.PointerUp(at)
				if cv.Notice() != "" {
					c.repaintIn(messageDuration)
				}
				return changed
			}
		case mouse.DirNone:
			return cv.PointerMove(at)
		}
		return false
	}

	reg, idx := c.layout.hit(p)
	if reg == regionShortcuts {
		idx = -1
		items := shortcutsFor(c.edit.field, c.zoom)
		for i, r := range shortcutRects(c.layout, items) {
			if p.In(r) {
				idx = i
				break
			}
		}
		if idx >= 0 && e.Direction == mouse.DirPress && e.Button == mouse.ButtonLeft {
			c.setHover(reg, idx)
			if a := items[idx].action; a != "" {
				c.dispatch(a)
			}
			return true
		}
	}
	changed := c.setHover(reg, idx)
	if e.Direction != mouse.DirPress || e.Button != mouse.ButtonLeft {
		return changed
	}

	st := cv.LabelStyle()
	switch reg {
	case regionTool:
		cv.SetTool(toolEntries[idx].tool)
	case regionSwatch:
		st.Fill = canvas.Palette()[idx].Color
		cv.SetLabelStyle(st)
	case regionSize:
		st.FontSize = canvas.FontSizes[idx]
		cv.SetLabelStyle(st)
	case regionOpacity:
		st.Opacity = canvas.Opacities[idx]
		cv.SetLabelStyle(st)
	case regionStage:
		return cv.PointerDown(c.layout.toCanvas(p)) || changed
	default:
		return changed
	}
	return true
}

func (c *controller) setHover(r region, i int) bool {
	h := hover{region: r, index: i}
	if r == regionStage || r == regionHeader || r == regionNone {
		h = hover{index: -1}
	}
	if h == c.hover {
		return false
	}
	c.hover = h
	return true
}

// snapshot captures everything the paint goroutine needs.
func (c *controller) snapshot(title string) paintState {
	cv := c.s.canvas
	return paintState{
		layout:     c.layout,
		frame:      cv.Frame(),
		style:      c.s.style,
		tool:       cv.Tool(),
		labelStyle: cv.LabelStyle(),
		palette:    canvas.Palette(),
		title:      title,
		labelText:  cv.LabelText(),
		prompt:     c.s.prompt,
		status:     c.s.status(),
		tags:       c.s.tagSummary(),
		failed:     cv.Status() == canvas.StatusFailed,
		editing:    c.edit.field,
		editValue:  c.edit.value,
		zoom:       c.zoom,
		hover:      c.hover,
		message:    c.currentMessage(),
	}
}
