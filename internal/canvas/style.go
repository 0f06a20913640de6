package canvas

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/colornames"
)

// Tool selects what a pointer gesture on the image produces.
type Tool int

const (
	// ToolNone places labels on click and lets objects be dragged.
	ToolNone Tool = iota
	ToolRect
	ToolCircle
	ToolArrow
	ToolLine
)

var toolNames = map[Tool]string{
	ToolNone:   "none",
	ToolRect:   "rectangle",
	ToolCircle: "circle",
	ToolArrow:  "arrow",
	ToolLine:   "line",
}

func (t Tool) String() string {
	if n, ok := toolNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Tool(%d)", int(t))
}

// ParseTool accepts the tool names plus the short forms rect and label.
func ParseTool(s string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "label", "text":
		return ToolNone, nil
	case "rect", "rectangle":
		return ToolRect, nil
	case "circle":
		return ToolCircle, nil
	case "arrow":
		return ToolArrow, nil
	case "line":
		return ToolLine, nil
	}
	return ToolNone, fmt.Errorf("unknown tool %q", s)
}

// Label font sizes are limited to this range.
const (
	MinFontSize     = 10
	MaxFontSize     = 100
	DefaultFontSize = 16
)

// LabelStyle carries the inputs read when a label is created.
type LabelStyle struct {
	FontSize float64
	Fill     color.RGBA
	Opacity  float64
}

// DefaultLabelStyle returns 16pt opaque black text.
func DefaultLabelStyle() LabelStyle {
	return LabelStyle{FontSize: DefaultFontSize, Fill: color.RGBA{0, 0, 0, 255}, Opacity: 1}
}

func (st LabelStyle) normalized() LabelStyle {
	st.FontSize = ClampFontSize(st.FontSize)
	if st.Opacity < 0 {
		st.Opacity = 0
	}
	if st.Opacity > 1 {
		st.Opacity = 1
	}
	return st
}

// ClampFontSize limits size to [MinFontSize, MaxFontSize]; zero means the
// default size.
func ClampFontSize(size float64) float64 {
	if size == 0 {
		return DefaultFontSize
	}
	return clamp(size, MinFontSize, MaxFontSize)
}

// ShapeStyle is the stroke and fill applied to new shapes of one kind.
type ShapeStyle struct {
	Stroke      color.RGBA
	StrokeWidth float64
	Fill        color.RGBA
}

// DefaultShapeStyles returns the stroke and translucent fill for each kind.
func DefaultShapeStyles() map[Tool]ShapeStyle {
	black := color.RGBA{0, 0, 0, 255}
	return map[Tool]ShapeStyle{
		ToolRect:   {Stroke: black, StrokeWidth: 2, Fill: color.RGBA{0, 0, 255, 51}},
		ToolCircle: {Stroke: black, StrokeWidth: 2, Fill: color.RGBA{255, 0, 0, 51}},
		ToolArrow:  {Stroke: black, StrokeWidth: 2, Fill: black},
		ToolLine:   {Stroke: black, StrokeWidth: 2},
	}
}

// PaletteColor is a named swatch offered for label text.
type PaletteColor struct {
	Name  string
	Color color.RGBA
}

var (
	paletteMu sync.RWMutex
	palette   = []PaletteColor{
		{"Black", color.RGBA{0, 0, 0, 255}},
		{"White", color.RGBA{255, 255, 255, 255}},
		{"Red", color.RGBA{255, 0, 0, 255}},
		{"Lime", color.RGBA{0, 255, 0, 255}},
		{"Blue", color.RGBA{0, 0, 255, 255}},
		{"Yellow", color.RGBA{255, 255, 0, 255}},
		{"Cyan", color.RGBA{0, 255, 255, 255}},
		{"Magenta", color.RGBA{255, 0, 255, 255}},
		{"Maroon", color.RGBA{128, 0, 0, 255}},
		{"Green", color.RGBA{0, 128, 0, 255}},
		{"Navy", color.RGBA{0, 0, 128, 255}},
		{"Gray", color.RGBA{128, 128, 128, 255}},
	}
)

// FontSizes are the label sizes offered by the toolbar.
var FontSizes = []float64{12, 16, 20, 24, 32, 48}

// Opacities are the label opacities offered by the toolbar.
var Opacities = []float64{1, 0.75, 0.5, 0.25}

// Palette returns a copy of the label swatches.
func Palette() []PaletteColor {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	out := make([]PaletteColor, len(palette))
	copy(out, palette)
	return out
}

// EnsurePaletteColor adds col to the palette if missing and returns its
// index.
func EnsurePaletteColor(col color.RGBA, name string) int {
	paletteMu.Lock()
	defer paletteMu.Unlock()
	for i, p := range palette {
		if p.Color == col {
			return i
		}
	}
	if name == "" {
		name = HexColor(col)
	}
	palette = append(palette, PaletteColor{Name: name, Color: col})
	return len(palette) - 1
}

// HexColor formats col as #RRGGBB, or #RRGGBBAA when translucent.
func HexColor(col color.RGBA) string {
	if col.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", col.R, col.G, col.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", col.R, col.G, col.B, col.A)
}

// ParseColor accepts #RRGGBB, #RRGGBBAA, an SVG colour name or a palette
// name.
func ParseColor(s string) (color.RGBA, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}
	for _, p := range Palette() {
		if strings.EqualFold(p.Name, name) {
			return p.Color, nil
		}
	}
	if !strings.HasPrefix(name, "#") || (len(name) != 7 && len(name) != 9) {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	var ch [4]uint8
	ch[3] = 255
	for i := 0; i*2+1 < len(name)-1; i++ {
		v, err := strconv.ParseUint(name[1+i*2:3+i*2], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q", s)
		}
		ch[i] = uint8(v)
	}
	return color.RGBA{ch[0], ch[1], ch[2], ch[3]}, nil
}
