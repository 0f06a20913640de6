package ui

import (
	"image"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/example/genlabel/internal/canvas"
)

const (
	headerHeight = 24
	bottomHeight = 24
	buttonHeight = 24
	rowHeight    = 18
	swatchSize   = 16
	swatchPitch  = 18
	groupGap     = 4
	minZoom      = 0.25
	maxZoom      = 4
)

// toolEntry is a toolbar button selecting a canvas tool.
type toolEntry struct {
	label string
	tool  canvas.Tool
}

var toolEntries = []toolEntry{
	{"N:Label", canvas.ToolNone},
	{"X:Rect", canvas.ToolRect},
	{"O:Circle", canvas.ToolCircle},
	{"A:Arrow", canvas.ToolArrow},
	{"L:Line", canvas.ToolLine},
}

// toolbarWidthFor returns a toolbar wide enough for the title and every
// tool label.
func toolbarWidthFor(title string) int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	w := d.MeasureString(title).Ceil() + 8
	for _, te := range toolEntries {
		if tw := d.MeasureString(te.label).Ceil() + 8; tw > w {
			w = tw
		}
	}
	if w < 3*swatchPitch+groupGap {
		w = 3*swatchPitch + groupGap
	}
	return w
}

// layout places the chrome and the scaled viewport inside the window.
type layout struct {
	width, height int
	toolbar       int
	viewport      int
	// stage is where the viewport is drawn on screen; scale maps one
	// logical unit to screen pixels.
	stage image.Rectangle
	scale float64

	tools     []image.Rectangle
	swatches  []image.Rectangle
	sizes     []image.Rectangle
	opacities []image.Rectangle
}

func newLayout(width, height, toolbar, viewport int, zoom float64, swatches int) layout {
	l := layout{width: width, height: height, toolbar: toolbar, viewport: viewport}
	area := image.Rect(toolbar, headerHeight, width, height-bottomHeight)
	fit := 0.0
	if viewport > 0 && area.Dx() > 0 && area.Dy() > 0 {
		fit = math.Min(float64(area.Dx()), float64(area.Dy())) / float64(viewport)
	}
	l.scale = fit * clampZoom(zoom)
	side := int(math.Round(float64(viewport) * l.scale))
	x0 := area.Min.X + (area.Dx()-side)/2
	y0 := area.Min.Y + (area.Dy()-side)/2
	if x0 < area.Min.X {
		x0 = area.Min.X
	}
	if y0 < area.Min.Y {
		y0 = area.Min.Y
	}
	l.stage = image.Rect(x0, y0, x0+side, y0+side)

	y := headerHeight
	for range toolEntries {
		l.tools = append(l.tools, image.Rect(0, y, toolbar, y+buttonHeight))
		y += buttonHeight
	}
	y += groupGap
	x := groupGap
	for i := 0; i < swatches; i++ {
		l.swatches = append(l.swatches, image.Rect(x, y, x+swatchSize, y+swatchSize))
		x += swatchPitch
		if x+swatchSize > toolbar && i < swatches-1 {
			x = groupGap
			y += swatchPitch
		}
	}
	y += swatchPitch + groupGap
	for range canvas.FontSizes {
		l.sizes = append(l.sizes, image.Rect(0, y, toolbar, y+rowHeight))
		y += rowHeight
	}
	y += groupGap
	for range canvas.Opacities {
		l.opacities = append(l.opacities, image.Rect(0, y, toolbar, y+rowHeight))
		y += rowHeight
	}
	return l
}

func clampZoom(z float64) float64 {
	if z <= 0 {
		return 1
	}
	return math.Max(minZoom, math.Min(maxZoom, z))
}

// toCanvas maps a window pixel to logical viewport units.
func (l layout) toCanvas(p image.Point) canvas.Point {
	if l.scale == 0 {
		return canvas.Point{X: -1, Y: -1}
	}
	return canvas.Point{
		X: float64(p.X-l.stage.Min.X) / l.scale,
		Y: float64(p.Y-l.stage.Min.Y) / l.scale,
	}
}

// fromCanvas maps logical viewport units to a window pixel.
func (l layout) fromCanvas(p canvas.Point) image.Point {
	return image.Pt(
		l.stage.Min.X+int(math.Round(p.X*l.scale)),
		l.stage.Min.Y+int(math.Round(p.Y*l.scale)),
	)
}

type region int

const (
	regionNone region = iota
	regionHeader
	regionShortcuts
	regionTool
	regionSwatch
	regionSize
	regionOpacity
	regionStage
)

// hit reports which part of the window contains p and, for toolbar
// entries, the entry index.
func (l layout) hit(p image.Point) (region, int) {
	switch {
	case p.Y < headerHeight:
		return regionHeader, -1
	case p.Y >= l.height-bottomHeight:
		return regionShortcuts, -1
	case p.X < l.toolbar:
		for _, group := range []struct {
			r     region
			rects []image.Rectangle
		}{
			{regionTool, l.tools},
			{regionSwatch, l.swatches},
			{regionSize, l.sizes},
			{regionOpacity, l.opacities},
		} {
			for i, r := range group.rects {
				if p.In(r) {
					return group.r, i
				}
			}
		}
		return regionNone, -1
	}
	return regionStage, -1
}
