package ui

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/genlabel/internal/canvas"
	"github.com/example/genlabel/internal/theme"
)

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
}

// CacheButton wraps another Button and caches its rendered states until
// it is moved.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		img := image.NewRGBA(cb.Button.Rect())
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

// labelButton is a flat button with a text caption.
type labelButton struct {
	label string
	rect  image.Rectangle
	theme *theme.Theme
}

func (b *labelButton) Draw(dst *image.RGBA, state ButtonState) {
	bg, fg := b.theme.ButtonBackground, b.theme.ButtonText
	switch state {
	case StateHover:
		bg = b.theme.ButtonBackgroundHover
	case StatePressed:
		bg, fg = b.theme.ButtonActive, b.theme.ButtonTextActive
	}
	fill(dst, b.rect, bg)
	drawString(dst, b.rect.Min.X+4, b.rect.Min.Y+b.rect.Dy()/2+5, b.label, fg)
}

func (b *labelButton) Rect() image.Rectangle     { return b.rect }
func (b *labelButton) SetRect(r image.Rectangle) { b.rect = r }

// chrome holds the cached toolbar buttons for one theme.
type chrome struct {
	theme *theme.Theme
	tools []*CacheButton
}

func newChrome(th *theme.Theme) *chrome {
	c := &chrome{theme: th}
	for _, te := range toolEntries {
		c.tools = append(c.tools, &CacheButton{Button: &labelButton{label: te.label, theme: th}})
	}
	return c
}

// hover is the toolbar entry under the pointer.
type hover struct {
	region region
	index  int
}

func stateFor(selected bool, h hover, r region, i int) ButtonState {
	switch {
	case selected:
		return StatePressed
	case h.region == r && h.index == i:
		return StateHover
	}
	return StateDefault
}

func (c *chrome) drawToolbar(dst *image.RGBA, l layout, st paintState) {
	th := c.theme
	fill(dst, image.Rect(0, headerHeight, l.toolbar, l.height-bottomHeight), th.ToolbarBackground)
	for i, cb := range c.tools {
		cb.SetRect(l.tools[i])
		cb.Draw(dst, stateFor(toolEntries[i].tool == st.tool, st.hover, regionTool, i))
	}

	for i, r := range l.swatches {
		fill(dst, r, st.palette[i].Color)
		if st.hover.region == regionSwatch && st.hover.index == i {
			draw.Draw(dst, r, image.NewUniform(color.RGBA{255, 255, 255, 80}), image.Point{}, draw.Over)
		}
		if st.palette[i].Color == st.labelStyle.Fill {
			outline(dst, r.Inset(-1), th.ButtonBorder, 2)
		}
	}

	for i, r := range l.sizes {
		size := canvas.FontSizes[i]
		c.drawRow(dst, r, fmt.Sprintf("%gpt", size), stateFor(size == st.labelStyle.FontSize, st.hover, regionSize, i))
	}
	for i, r := range l.opacities {
		op := canvas.Opacities[i]
		state := stateFor(op == st.labelStyle.Opacity, st.hover, regionOpacity, i)
		c.drawRow(dst, r, fmt.Sprintf("%d%%", int(op*100)), state)
		bar := image.Rect(r.Max.X-22, r.Min.Y+4, r.Max.X-4, r.Max.Y-4)
		fill(dst, bar, th.Viewport)
		col := st.labelStyle.Fill
		col.A = uint8(op * 255)
		draw.Draw(dst, bar, image.NewUniform(color.NRGBA{col.R, col.G, col.B, col.A}), image.Point{}, draw.Over)
	}
}

func (c *chrome) drawRow(dst *image.RGBA, r image.Rectangle, label string, state ButtonState) {
	b := labelButton{label: label, rect: r, theme: c.theme}
	b.Draw(dst, state)
}

// header shows the program title, the two text inputs and the load state.
func (c *chrome) drawHeader(dst *image.RGBA, l layout, st paintState) {
	th := c.theme
	fill(dst, image.Rect(0, 0, l.width, headerHeight), th.HeaderBackground)
	drawString(dst, 4, 16, st.title, th.Foreground)

	x := l.toolbar + 4
	x = c.drawInput(dst, x, "T:label", st.labelText, st.editing == fieldLabel, st.editValue)
	x = c.drawInput(dst, x+8, "P:prompt", st.prompt, st.editing == fieldPrompt, st.editValue)
	status := st.status
	if st.tags != "" {
		status = st.tags + "  " + status
	}
	statusCol := th.Foreground
	if st.failed {
		statusCol = th.ErrorText
	}
	drawString(dst, x+8, 16, status, statusCol)
}

func (c *chrome) drawInput(dst *image.RGBA, x int, caption, value string, focused bool, editValue string) int {
	th := c.theme
	x = drawString(dst, x, 16, caption, th.Foreground) + 4
	if focused {
		value = editValue + "|"
	}
	w := textWidth(value) + 8
	if w < 80 {
		w = 80
	}
	r := image.Rect(x, 3, x+w, headerHeight-3)
	bg := th.InputBackground
	if focused {
		bg = th.InputFocus
	}
	fill(dst, r, bg)
	outline(dst, r, th.ButtonBorder, 1)
	drawString(dst, x+4, 16, value, th.InputText)
	return r.Max.X
}

// shortcut is one entry of the bottom bar.
type shortcut struct {
	label  string
	action string
}

func shortcutsFor(editing field, zoom float64) []shortcut {
	switch editing {
	case fieldLabel:
		return []shortcut{{"Enter:set label", actCommit}, {"Esc:cancel", actCancel}}
	case fieldPrompt:
		return []shortcut{{"Enter:generate", actCommit}, {"Esc:cancel", actCancel}}
	}
	return []shortcut{
		{"^G:generate", actGenerate},
		{"^S:download", actDownload},
		{"^E:export", actExport},
		{"^C:copy", actCopy},
		{"^V:paste", actPaste},
		{"^N:screenshot", actCapture},
		{fmt.Sprintf("+/-:zoom (%.0f%%)", zoom*100), actZoomReset},
		{"^1-9:history", ""},
		{"Q:quit", actQuit},
	}
}

// shortcutRects lays the bottom bar out left to right.
func shortcutRects(l layout, items []shortcut) []image.Rectangle {
	rects := make([]image.Rectangle, len(items))
	x := l.toolbar + 4
	y := l.height - bottomHeight
	for i, sc := range items {
		w := textWidth(sc.label)
		rects[i] = image.Rect(x-2, y+3, x+w+2, y+bottomHeight-3)
		x = rects[i].Max.X + 8
	}
	return rects
}

func (c *chrome) drawShortcuts(dst *image.RGBA, l layout, st paintState) {
	th := c.theme
	fill(dst, image.Rect(0, l.height-bottomHeight, l.width, l.height), th.ShortcutBackground)
	items := shortcutsFor(st.editing, st.zoom)
	for i, r := range shortcutRects(l, items) {
		bg := th.ButtonBackground
		if st.hover.region == regionShortcuts && st.hover.index == i {
			bg = th.ButtonBackgroundHover
		}
		fill(dst, r, bg)
		outline(dst, r, th.ButtonBorder, 1)
		drawString(dst, r.Min.X+2, r.Min.Y+13, items[i].label, th.ShortcutText)
	}
}

// drawMessage shows a transient status message centred over the window.
func (c *chrome) drawMessage(dst *image.RGBA, l layout, msg string) {
	w := textWidth(msg)
	px := (l.width - w) / 2
	py := l.height / 2
	r := image.Rect(px-8, py-18, px+w+8, py+8)
	nb := c.theme.NoticeBackground
	draw.Draw(dst, r, image.NewUniform(color.NRGBA{nb.R, nb.G, nb.B, nb.A}), image.Point{}, draw.Over)
	outline(dst, r, c.theme.ButtonBorder, 2)
	drawString(dst, px, py, msg, c.theme.NoticeText)
}

func fill(dst *image.RGBA, r image.Rectangle, col color.Color) {
	draw.Draw(dst, r, image.NewUniform(col), image.Point{}, draw.Src)
}

func outline(dst *image.RGBA, r image.Rectangle, col color.Color, thick int) {
	u := image.NewUniform(col)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thick), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-thick, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+thick, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-thick, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}

func textWidth(s string) int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	return d.MeasureString(s).Ceil()
}

// drawString draws s with its baseline at y and returns the x after it.
func drawString(dst *image.RGBA, x, y int, s string, col color.Color) int {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13, Dot: fixed.P(x, y)}
	d.DrawString(s)
	return d.Dot.X.Ceil()
}
