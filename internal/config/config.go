package config

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"github.com/example/genlabel/internal/backend"
	"github.com/example/genlabel/internal/canvas"
	"github.com/example/genlabel/internal/theme"
)

// Label holds the default style for new labels.
type Label struct {
	FontSize float64
	Color    color.RGBA
	Opacity  float64
}

// Notify holds notification settings.
type Notify struct {
	Generate bool
	Download bool
	Export   bool
	Copy     bool
}

// Config holds the application configuration.
type Config struct {
	Theme    string
	SaveDir  string
	Backend  string
	Label    Label
	Shapes   map[canvas.Tool]canvas.ShapeStyle
	Generate backend.Params
	Notify   Notify
	Themes   map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	st := canvas.DefaultLabelStyle()
	return &Config{
		Theme:    "", // empty lets the environment or the default apply
		Label:    Label{FontSize: st.FontSize, Color: st.Fill, Opacity: st.Opacity},
		Shapes:   canvas.DefaultShapeStyles(),
		Generate: backend.DefaultParams(),
		Themes:   make(map[string]*theme.Theme),
	}
}

// LabelStyle converts the label section to a canvas style.
func (c *Config) LabelStyle() canvas.LabelStyle {
	return canvas.LabelStyle{FontSize: c.Label.FontSize, Fill: c.Label.Color, Opacity: c.Label.Opacity}
}

// ShapeOptions returns canvas options applying the configured shape styles.
func (c *Config) ShapeOptions() []canvas.Option {
	var opts []canvas.Option
	for _, kind := range shapeKinds(c.Shapes) {
		opts = append(opts, canvas.WithShapeStyle(kind, c.Shapes[kind]))
	}
	return opts
}

func shapeKinds(m map[canvas.Tool]canvas.ShapeStyle) []canvas.Tool {
	kinds := make([]canvas.Tool, 0, len(m))
	for k := range m {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.Backend != "" {
		fmt.Fprintf(&sb, "backend = %s\n", c.Backend)
	}
	sb.WriteString("\n")

	sb.WriteString("[label]\n")
	fmt.Fprintf(&sb, "font_size = %s\n", formatFloat(c.Label.FontSize))
	fmt.Fprintf(&sb, "color = %s\n", canvas.HexColor(c.Label.Color))
	fmt.Fprintf(&sb, "opacity = %s\n", formatFloat(c.Label.Opacity))
	sb.WriteString("\n")

	for _, kind := range shapeKinds(c.Shapes) {
		st := c.Shapes[kind]
		fmt.Fprintf(&sb, "[shape.%s]\n", kind)
		fmt.Fprintf(&sb, "stroke = %s\n", canvas.HexColor(st.Stroke))
		fmt.Fprintf(&sb, "stroke_width = %s\n", formatFloat(st.StrokeWidth))
		fmt.Fprintf(&sb, "fill = %s\n", canvas.HexColor(st.Fill))
		sb.WriteString("\n")
	}

	sb.WriteString("[generate]\n")
	fmt.Fprintf(&sb, "steps = %d\n", c.Generate.Steps)
	fmt.Fprintf(&sb, "guidance_scale = %s\n", formatFloat(c.Generate.GuidanceScale))
	fmt.Fprintf(&sb, "size = %s\n", c.Generate.Size)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "generate = %v\n", c.Notify.Generate)
	fmt.Fprintf(&sb, "download = %v\n", c.Notify.Download)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		theme.Format(&sb, c.Themes[name])
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
