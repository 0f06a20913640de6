package main

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/genlabel/internal/canvas"
)

func writeWhitePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "in.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDrawRunExportsAnnotations(t *testing.T) {
	dir := t.TempDir()
	src := writeWhitePNG(t, dir, 256, 256)
	out := filepath.Join(dir, "out", "annotated.png")

	d, err := parseDrawCmd([]string{
		"-source", src, "-output", out,
		"rect", "20", "20", "120", "120",
		"label", "300", "300", "hello",
		"line", "200", "10", "400", "10",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	var stdout bytes.Buffer
	d.out = &stdout
	if err := d.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.TrimSpace(stdout.String()) != out {
		t.Fatalf("stdout = %q", stdout.String())
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 512 || b.Dy() != 512 {
		t.Fatalf("exported bounds %v", b)
	}
	// Inside the rectangle the translucent blue fill tints the white image.
	r, _, bl, _ := img.At(70, 70).RGBA()
	if bl>>8 < 250 || r>>8 > 230 {
		t.Fatalf("rect interior = %v", img.At(70, 70))
	}
	// Delete glyphs are not exported: the corner above the rect stays white.
	if got := color.RGBAModel.Convert(img.At(130, 5)).(color.RGBA); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("glyph area = %v", got)
	}
}

func TestDrawRunReportsBadOperations(t *testing.T) {
	dir := t.TempDir()
	src := writeWhitePNG(t, dir, 64, 64)
	tests := []struct {
		name string
		ops  []string
		want string
	}{
		{"outside viewport", []string{"rect", "600", "600", "700", "700"}, "outside"},
		{"press on delete control", []string{"rect", "10", "10", "100", "100", "rect", "105", "5", "200", "200"}, "operation 2 (rect)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			args := append([]string{"-source", src, "-output", filepath.Join(dir, "o.png")}, tc.ops...)
			d, err := parseDrawCmd(args, nil)
			if err != nil {
				t.Fatal(err)
			}
			if err := d.Run(); err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestApplyOpLabelOnShape(t *testing.T) {
	c := canvas.New()
	tok := c.SetSource("mem://white")
	if err := c.CompleteLoad(tok, canvas.Prepare(image.NewRGBA(image.Rect(0, 0, 64, 64)), c.Viewport())); err != nil {
		t.Fatal(err)
	}
	ops, err := parseDrawOps([]string{"rect", "10", "10", "100", "100", "label", "50", "50", "on top", "label", "52", "52", "again"})
	if err != nil {
		t.Fatal(err)
	}
	for i, op := range ops {
		if err := applyOp(c, op); err != nil {
			t.Fatalf("op %d: %v", i+1, err)
		}
	}
	if got := len(c.Labels()); got != 2 {
		t.Fatalf("labels = %d, want 2", got)
	}
	if sh := c.Shapes()[0]; sh.X != 10 || sh.Y != 10 {
		t.Fatalf("shape moved to %v,%v", sh.X, sh.Y)
	}
}
