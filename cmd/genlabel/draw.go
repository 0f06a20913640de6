package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/example/genlabel/internal/canvas"
	"github.com/example/genlabel/internal/clipboard"
	"github.com/example/genlabel/internal/export"
	"github.com/example/genlabel/internal/imagesrc"
)

// drawOp is one annotation from the command line, in viewport units.
type drawOp struct {
	kind string
	nums []float64
	text string
}

// drawCmd places labels and shapes on an image without opening a window
// and exports the result.
type drawCmd struct {
	source      string
	output      string
	toClipboard bool
	colorSpec   string
	fontSize    float64
	opacity     float64
	shadow      bool
	quality     float64
	ops         []drawOp
	*root
	fs  *flag.FlagSet
	out io.Writer

	loader *imagesrc.Loader
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

var drawFlagNames = map[string]struct{}{
	"source":       {},
	"output":       {},
	"to-clipboard": {},
	"to-clip":      {},
	"color":        {},
	"font-size":    {},
	"opacity":      {},
	"shadow":       {},
	"webp-quality": {},
}

var drawBoolFlags = map[string]struct{}{
	"to-clipboard": {},
	"to-clip":      {},
	"shadow":       {},
}

// opArity is the number of numeric arguments each operation takes.
var opArity = map[string]int{
	"label":  2,
	"rect":   4,
	"circle": 3,
	"arrow":  4,
	"line":   4,
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r.subcommand("draw"), fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(d)

	style := canvas.DefaultLabelStyle()
	if r != nil && r.config != nil {
		style = r.config.LabelStyle()
	}
	fs.StringVar(&d.source, "source", "", "image to annotate: path, URL, clipboard: or screenshot:")
	fs.StringVar(&d.output, "output", "", "output file (.png, .webp or .pdf)")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&d.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	fs.StringVar(&d.colorSpec, "color", canvas.HexColor(style.Fill), "label color name or hex value")
	fs.Float64Var(&d.fontSize, "font-size", style.FontSize, fmt.Sprintf("label font size (%d-%d)", canvas.MinFontSize, canvas.MaxFontSize))
	fs.Float64Var(&d.opacity, "opacity", style.Opacity, "label opacity between 0 and 1")
	fs.BoolVar(&d.shadow, "shadow", false, "add a drop shadow behind the exported image")
	fs.Float64Var(&d.quality, "webp-quality", 0, "lossy WebP quality 1-100; 0 keeps WebP lossless")

	flagArgs, positionals, err := splitDrawArgs(args)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}
	if len(positionals) < 1 {
		return nil, &UsageError{of: d}
	}
	if d.ops, err = parseDrawOps(positionals); err != nil {
		return nil, err
	}
	if d.source == "" {
		return nil, fmt.Errorf("an image source is required")
	}
	if d.output == "" && !d.toClipboard {
		return nil, fmt.Errorf("output file is required unless copying to the clipboard")
	}
	if d.output != "" {
		if _, err := export.FormatFor(d.output); err != nil {
			return nil, err
		}
	}
	if _, err := canvas.ParseColor(d.colorSpec); err != nil {
		return nil, err
	}
	if d.opacity < 0 || d.opacity > 1 {
		return nil, fmt.Errorf("opacity must be between 0 and 1")
	}
	if d.quality < 0 || d.quality > 100 {
		return nil, fmt.Errorf("webp-quality must be between 0 and 100")
	}
	return d, nil
}

// parseDrawOps splits positionals into chained operations. Label text is
// the single argument after the coordinates; quote it to include spaces.
func parseDrawOps(args []string) ([]drawOp, error) {
	var ops []drawOp
	for len(args) > 0 {
		kind := strings.ToLower(args[0])
		n, ok := opArity[kind]
		if !ok {
			return nil, fmt.Errorf("unsupported operation %q", args[0])
		}
		args = args[1:]
		if len(args) < n {
			return nil, fmt.Errorf("%s requires %d numeric arguments", kind, n)
		}
		op := drawOp{kind: kind, nums: make([]float64, n)}
		for i := 0; i < n; i++ {
			v, err := strconv.ParseFloat(args[i], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q for %s", args[i], kind)
			}
			op.nums[i] = v
		}
		args = args[n:]
		if kind == "label" {
			if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
				return nil, fmt.Errorf("label text cannot be empty")
			}
			op.text = args[0]
			args = args[1:]
		}
		if kind == "circle" && op.nums[2] <= 0 {
			return nil, fmt.Errorf("circle radius must be positive")
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func (d *drawCmd) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	loader := d.loader
	if loader == nil {
		loader = imagesrc.NewLoader()
	}
	img, err := loader.Load(ctx, d.source)
	if err != nil {
		return fmt.Errorf("load %s: %w", d.source, err)
	}

	col, err := canvas.ParseColor(d.colorSpec)
	if err != nil {
		return err
	}
	canvasOpts := []canvas.Option{canvas.WithLabelStyle(canvas.LabelStyle{FontSize: d.fontSize, Fill: col, Opacity: d.opacity})}
	if d.root != nil && d.root.config != nil {
		canvasOpts = append(canvasOpts, d.root.config.ShapeOptions()...)
	}
	c := canvas.New(canvasOpts...)
	token := c.SetSource(d.source)
	if err := c.CompleteLoad(token, canvas.Prepare(img, c.Viewport())); err != nil {
		return err
	}
	for i, op := range d.ops {
		if err := applyOp(c, op); err != nil {
			return fmt.Errorf("operation %d (%s): %w", i+1, op.kind, err)
		}
	}

	frame := c.Frame()
	if d.output != "" {
		var opts []export.Option
		if d.shadow {
			opts = append(opts, export.WithShadow(export.DefaultShadowOptions()))
		}
		if d.quality > 0 {
			opts = append(opts, export.WithWebPQuality(float32(d.quality)))
		}
		if d.root != nil && d.root.activeTheme != nil {
			opts = append(opts, export.WithRenderStyle(d.root.activeTheme.RenderStyle()))
		}
		if err := export.WriteFile(d.output, frame, opts...); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintln(d.out, d.output)
		d.notifyExport(d.output)
	}
	if d.toClipboard {
		composite, err := export.Composite(frame, canvas.DefaultRenderStyle())
		if err != nil {
			return err
		}
		if err := clipboard.WriteImage(composite); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		d.notifyCopy("annotated image")
	}
	return nil
}

// applyOp drives the canvas with the pointer gesture a user would make.
func applyOp(c *canvas.Canvas, op drawOp) error {
	labels, shapes := len(c.Labels()), len(c.Shapes())
	p := canvas.Point{X: op.nums[0], Y: op.nums[1]}
	var end canvas.Point
	switch op.kind {
	case "label":
		c.SetTool(canvas.ToolNone)
		c.SetLabelText(op.text)
		end = p
	case "circle":
		c.SetTool(canvas.ToolCircle)
		// A circle is drawn as a drag across its diameter.
		end = canvas.Point{X: p.X + 2*op.nums[2], Y: p.Y}
	default:
		tool, err := canvas.ParseTool(op.kind)
		if err != nil {
			return err
		}
		c.SetTool(tool)
		end = canvas.Point{X: op.nums[2], Y: op.nums[3]}
	}
	if !c.PointerDown(p) {
		return fmt.Errorf("point %g,%g is outside the %d viewport", p.X, p.Y, c.Viewport())
	}
	c.PointerMove(end)
	c.PointerUp(end)

	if msg := c.Notice(); msg != "" {
		c.DismissNotice()
		return fmt.Errorf("%s", msg)
	}
	switch {
	case op.kind == "label" && len(c.Labels()) == labels:
		return fmt.Errorf("label at %g,%g was not placed", p.X, p.Y)
	case op.kind != "label" && len(c.Shapes()) <= shapes:
		return fmt.Errorf("start point %g,%g is on a delete control", p.X, p.Y)
	}
	return nil
}

func splitDrawArgs(args []string) ([]string, []string, error) {
	var flags []string
	var positionals []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" || isNumber(arg) {
			positionals = append(positionals, arg)
			continue
		}
		name := strings.TrimLeft(arg, "-")
		parts := strings.SplitN(name, "=", 2)
		base := strings.ToLower(parts[0])
		if _, ok := drawFlagNames[base]; !ok {
			positionals = append(positionals, arg)
			continue
		}
		// Normalise to single dash form for the flag parser.
		norm := "-" + base
		if len(parts) == 2 {
			flags = append(flags, norm+"="+parts[1])
			continue
		}
		if _, ok := drawBoolFlags[base]; ok {
			flags = append(flags, norm)
			continue
		}
		if i+1 >= len(args) {
			return nil, nil, fmt.Errorf("flag %s requires a value", arg)
		}
		flags = append(flags, norm, args[i+1])
		i++
	}
	return flags, positionals, nil
}

// isNumber lets negative coordinates through as positionals.
func isNumber(s string) bool {
	v, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsNaN(v)
}
