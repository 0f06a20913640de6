package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// RenderStyle holds the colours the renderer uses outside of scene objects.
type RenderStyle struct {
	Background  color.RGBA
	Placeholder color.RGBA
	Error       color.RGBA
	Glyph       color.RGBA
	GlyphText   color.RGBA
	NoticeFill  color.RGBA
	NoticeText  color.RGBA
}

// DefaultRenderStyle returns a light grey stage with a red delete glyph.
func DefaultRenderStyle() RenderStyle {
	return RenderStyle{
		Background:  color.RGBA{240, 240, 240, 255},
		Placeholder: color.RGBA{110, 110, 110, 255},
		Error:       color.RGBA{200, 0, 0, 255},
		Glyph:       color.RGBA{255, 0, 0, 255},
		GlyphText:   color.RGBA{255, 255, 255, 255},
		NoticeFill:  color.RGBA{255, 255, 255, 230},
		NoticeText:  color.RGBA{0, 0, 0, 255},
	}
}

// Status messages painted in place of the background.
const (
	PlaceholderText = "start generating"
	LoadingText     = "loading image..."
	LoadErrorText   = "cannot load image"
)

const glyphTextSize = 14

// NewSurface allocates an image the size of the frame's viewport.
func NewSurface(f Frame) *image.RGBA {
	v := f.Viewport
	if v <= 0 {
		v = Viewport
	}
	return image.NewRGBA(image.Rect(0, 0, v, v))
}

// Render paints f into dst with the viewport origin at dst.Bounds().Min:
// the fitted background, then labels, then shapes with their delete
// glyphs.
func Render(dst *image.RGBA, f Frame, st RenderStyle) {
	v := f.Viewport
	if v <= 0 {
		v = Viewport
	}
	o := dst.Bounds().Min
	area := image.Rect(0, 0, v, v).Add(o)
	draw.Draw(dst, area, image.NewUniform(st.Background), image.Point{}, draw.Src)

	switch f.Status {
	case StatusEmpty:
		drawCentredText(dst, o.X+v/2, o.Y+v/2, PlaceholderText, st.Placeholder, 20)
		return
	case StatusLoading:
		drawCentredText(dst, o.X+v/2, o.Y+v/2, LoadingText, st.Placeholder, 20)
		return
	case StatusFailed:
		drawCentredText(dst, o.X+v/2, o.Y+v/2, LoadErrorText, st.Error, 20)
		return
	}

	if f.Image != nil {
		r := f.Geometry.Rect().Add(o)
		draw.Draw(dst, r, f.Image, f.Image.Bounds().Min, draw.Over)
	}
	for _, l := range f.Labels {
		drawLabel(dst, o, l)
	}
	for _, sh := range f.Shapes {
		drawShape(dst, o, sh)
		if !f.HideGlyphs {
			drawGlyph(dst, o, sh, st)
		}
	}
	if f.Preview != nil {
		drawShape(dst, o, *f.Preview)
	}
	if f.Notice != "" {
		drawNotice(dst, area, f.Notice, st)
	}
}

func px(v float64) int { return int(math.Round(v)) }

// nrgba reinterprets a stored colour as straight alpha.
func nrgba(c color.RGBA) color.NRGBA { return color.NRGBA{c.R, c.G, c.B, c.A} }

func drawLabel(dst *image.RGBA, o image.Point, l Label) {
	col := nrgba(l.Fill)
	col.A = uint8(math.Round(float64(col.A) * clamp(l.Opacity, 0, 1)))
	if col.A == 0 {
		return
	}
	DrawText(dst, o.X+px(l.X), o.Y+px(l.Y), l.Text, col, l.FontSize)
}

func drawShape(dst *image.RGBA, o image.Point, sh Shape) {
	thick := px(sh.StrokeWidth)
	if thick < 1 {
		thick = 1
	}
	stroke := nrgba(sh.Stroke)
	switch sh.Kind {
	case ToolRect:
		r := image.Rect(px(sh.X), px(sh.Y), px(sh.X+sh.Width), px(sh.Y+sh.Height)).Add(o)
		if sh.Fill.A > 0 {
			FillRect(dst, r, nrgba(sh.Fill))
		}
		DrawRect(dst, r, stroke, thick)
	case ToolCircle:
		cx, cy, rad := o.X+px(sh.X), o.Y+px(sh.Y), px(sh.Width)
		if sh.Fill.A > 0 {
			FillCircle(dst, cx, cy, rad, nrgba(sh.Fill))
		}
		DrawCircle(dst, cx, cy, rad, stroke, thick)
	case ToolArrow, ToolLine:
		if len(sh.Points) < 4 {
			return
		}
		x0, y0 := o.X+px(sh.Points[0]), o.Y+px(sh.Points[1])
		x1, y1 := o.X+px(sh.Points[2]), o.Y+px(sh.Points[3])
		if sh.Kind == ToolArrow {
			DrawArrow(dst, x0, y0, x1, y1, stroke, thick)
		} else {
			DrawLine(dst, x0, y0, x1, y1, stroke, thick)
		}
	}
}

func drawGlyph(dst *image.RGBA, o image.Point, sh Shape, st RenderStyle) {
	g := sh.GlyphOrigin()
	r := image.Rect(px(g.X), px(g.Y), px(g.X)+glyphSize, px(g.Y)+glyphSize).Add(o)
	draw.Draw(dst, r, image.NewUniform(st.Glyph), image.Point{}, draw.Src)
	DrawText(dst, r.Min.X+3, r.Min.Y+3, "X", st.GlyphText, glyphTextSize)
}

func drawNotice(dst *image.RGBA, area image.Rectangle, msg string, st RenderStyle) {
	w, h, _ := MeasureText(msg, 16)
	x := area.Min.X + (area.Dx()-w)/2
	y := area.Min.Y + 16
	box := image.Rect(x-8, y-6, x+w+8, y+h+6)
	FillRect(dst, box, nrgba(st.NoticeFill))
	DrawRect(dst, box, st.NoticeText, 1)
	DrawText(dst, x, y, msg, st.NoticeText, 16)
}
