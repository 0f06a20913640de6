package config

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/genlabel/internal/canvas"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/labels
backend = "http://gen.local:8000"

[label]
font_size = 24
color = #FF0000
opacity = 0.5

[generate]
steps = 30
guidance_scale = 9.5
size = 768x768

[notify]
download = true
export = false
copy = true

[theme.my_custom_theme]
Background = #111111
Glyph: #00FF00
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/labels" {
		t.Errorf("Expected save_dir '/tmp/labels', got '%s'", cfg.SaveDir)
	}
	if cfg.Backend != "http://gen.local:8000" {
		t.Errorf("Expected unquoted backend, got %q", cfg.Backend)
	}
	if cfg.Label.FontSize != 24 || cfg.Label.Color != (color.RGBA{255, 0, 0, 255}) || cfg.Label.Opacity != 0.5 {
		t.Errorf("Unexpected label section: %+v", cfg.Label)
	}
	if cfg.Generate.Steps != 30 || cfg.Generate.GuidanceScale != 9.5 || cfg.Generate.Size != "768x768" {
		t.Errorf("Unexpected generate section: %+v", cfg.Generate)
	}
	if !cfg.Notify.Download || cfg.Notify.Export || !cfg.Notify.Copy {
		t.Errorf("Unexpected notify section: %+v", cfg.Notify)
	}

	th, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if th.Background.R != 0x11 || th.Glyph != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("Unexpected theme colours: %+v", th)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Label.FontSize != 16 || cfg.Label.Opacity != 1 {
		t.Errorf("label defaults = %+v", cfg.Label)
	}
	if cfg.Generate.Steps != 50 || cfg.Generate.GuidanceScale != 7.5 || cfg.Generate.Size != "512x512" {
		t.Errorf("generate defaults = %+v", cfg.Generate)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name, input, want string
	}{
		{"bad bool", "[notify]\ncopy = maybe", "[notify]"},
		{"bad steps", "[generate]\nsteps = many", "[generate]"},
		{"bad colour", "[label]\ncolor = #ZZZ", "[label]"},
		{"opacity range", "[label]\nopacity = 2", "opacity"},
		{"theme colour", "[theme.x]\nGlyph = nope", "[theme.x]"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.input))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestFontSizeClamped(t *testing.T) {
	cfg, err := Parse(strings.NewReader("[label]\nfont_size = 400"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Label.FontSize != 100 {
		t.Fatalf("font size = %v", cfg.Label.FontSize)
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/labels
backend = http://localhost:9000

[label]
font_size = 32
color = #00000080
opacity = 0.75

[generate]
steps = 80
guidance_scale = 12.25
size = 768x768

[notify]
generate = true
download = true
export = true
copy = false

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	if cfg.Theme != cfg2.Theme || cfg.SaveDir != cfg2.SaveDir || cfg.Backend != cfg2.Backend {
		t.Errorf("root mismatch: %+v vs %+v", cfg, cfg2)
	}
	if cfg.Label != cfg2.Label {
		t.Errorf("Label mismatch: %+v vs %+v", cfg.Label, cfg2.Label)
	}
	if cfg.Generate != cfg2.Generate {
		t.Errorf("Generate mismatch: %+v vs %+v", cfg.Generate, cfg2.Generate)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestLoaderPrecedence(t *testing.T) {
	home := t.TempDir()
	wd := t.TempDir()
	l := NewLoader("dev", "")
	l.home = func() (string, error) { return home, nil }
	l.wd = func() (string, error) { return wd, nil }

	if got := l.GetConfigPath(); got != "" {
		t.Fatalf("expected no config, got %q", got)
	}
	cfg, err := l.Load()
	if err != nil || cfg.Generate.Steps != 50 {
		t.Fatalf("defaults = %+v, %v", cfg, err)
	}

	saved := New()
	saved.Backend = "http://xdg"
	path, err := l.Save(saved)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(home, ".config", "genlabel", "config.rc") {
		t.Fatalf("saved to %q", path)
	}
	if cfg, err := l.Load(); err != nil || cfg.Backend != "http://xdg" {
		t.Fatalf("xdg load = %+v, %v", cfg, err)
	}

	local := filepath.Join(wd, ".genlabelrc")
	if err := os.WriteFile(local, []byte("backend = http://local\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := l.GetConfigPath(); got != local {
		t.Fatalf("dev build should prefer %q, got %q", local, got)
	}
	l.Version = "1.0.0"
	if got := l.GetConfigPath(); got != path {
		t.Fatalf("release build should skip local rc, got %q", got)
	}

	override := filepath.Join(t.TempDir(), "custom.rc")
	if err := os.WriteFile(override, []byte("backend = http://override\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l.OverridePath = override
	if cfg, err := l.Load(); err != nil || cfg.Backend != "http://override" {
		t.Fatalf("override load = %+v, %v", cfg, err)
	}
}

func TestParseShapeSections(t *testing.T) {
	input := `
[shape.rect]
stroke = #FF0000
stroke_width = 4
fill = #00FF0033

[shape.line]
stroke = navy
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	rect := cfg.Shapes[canvas.ToolRect]
	if rect.Stroke != (color.RGBA{255, 0, 0, 255}) || rect.StrokeWidth != 4 || rect.Fill != (color.RGBA{0, 255, 0, 0x33}) {
		t.Errorf("rect style = %+v", rect)
	}
	if line := cfg.Shapes[canvas.ToolLine]; line.Stroke != (color.RGBA{0, 0, 128, 255}) || line.StrokeWidth != 2 {
		t.Errorf("line style = %+v", line)
	}
	if circle := cfg.Shapes[canvas.ToolCircle]; circle != canvas.DefaultShapeStyles()[canvas.ToolCircle] {
		t.Errorf("circle style changed: %+v", circle)
	}

	again, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("reparse: %v\n%s", err, cfg.String())
	}
	if again.Shapes[canvas.ToolRect] != rect {
		t.Errorf("round trip rect = %+v", again.Shapes[canvas.ToolRect])
	}

	for _, bad := range []string{"[shape.star]\nstroke = red", "[shape.rect]\nstroke_width = 0", "[shape.arrow]\nfill = #12"} {
		if _, err := Parse(strings.NewReader(bad)); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestShapeOptionsStyleNewShapes(t *testing.T) {
	cfg := New()
	cfg.Shapes[canvas.ToolRect] = canvas.ShapeStyle{Stroke: color.RGBA{1, 2, 3, 255}, StrokeWidth: 5}
	c := canvas.New(cfg.ShapeOptions()...)
	tok := c.SetSource("mem://bg")
	if err := c.CompleteLoad(tok, canvas.Prepare(image.NewRGBA(image.Rect(0, 0, 64, 64)), c.Viewport())); err != nil {
		t.Fatal(err)
	}
	c.SetTool(canvas.ToolRect)
	c.PointerDown(canvas.Point{X: 10, Y: 10})
	c.PointerMove(canvas.Point{X: 60, Y: 60})
	c.PointerUp(canvas.Point{X: 60, Y: 60})
	sh := c.Shapes()
	if len(sh) != 1 || sh[0].Stroke != (color.RGBA{1, 2, 3, 255}) || sh[0].StrokeWidth != 5 {
		t.Fatalf("shapes = %+v", sh)
	}
}
