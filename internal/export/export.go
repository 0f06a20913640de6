// Package export writes the annotated canvas to PNG, WebP or PDF.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"

	"github.com/example/genlabel/internal/canvas"
)

// ErrNoImage is returned when the frame has no loaded background.
var ErrNoImage = errors.New("no image to export")

// Format is an output file type.
type Format int

const (
	FormatPNG Format = iota
	FormatWebP
	FormatPDF
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatWebP:
		return "webp"
	case FormatPDF:
		return "pdf"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", "":
		return FormatPNG, nil
	case ".webp":
		return FormatWebP, nil
	case ".pdf":
		return FormatPDF, nil
	}
	return FormatPNG, fmt.Errorf("unsupported export type %q", filepath.Ext(path))
}

type settings struct {
	format  Format
	quality float32
	shadow  *ShadowOptions
	style   canvas.RenderStyle
}

// Option configures an export.
type Option func(*settings)

// WithFormat overrides the format chosen from the file name.
func WithFormat(f Format) Option { return func(s *settings) { s.format = f } }

// WithWebPQuality switches WebP output to lossy at quality q (0-100).
func WithWebPQuality(q float32) Option { return func(s *settings) { s.quality = q } }

// WithShadow places a drop shadow behind raster exports.
func WithShadow(o ShadowOptions) Option { return func(s *settings) { s.shadow = &o } }

// WithRenderStyle sets the colours used for the viewport background.
func WithRenderStyle(st canvas.RenderStyle) Option { return func(s *settings) { s.style = st } }

func newSettings(opts []Option) settings {
	s := settings{style: canvas.DefaultRenderStyle()}
	for _, o := range opts {
		o(&s)
	}
	return s
}

// Composite renders f as it would appear on screen, without delete glyphs,
// previews or notices.
func Composite(f canvas.Frame, st canvas.RenderStyle) (*image.RGBA, error) {
	if f.Status != canvas.StatusReady || f.Image == nil {
		return nil, ErrNoImage
	}
	f.HideGlyphs = true
	f.Preview = nil
	f.Notice = ""
	dst := canvas.NewSurface(f)
	canvas.Render(dst, f, st)
	return dst, nil
}

// Write encodes f to w. PNG is the default format.
func Write(w io.Writer, f canvas.Frame, opts ...Option) error {
	s := newSettings(opts)
	if s.format == FormatPDF {
		return writePDF(w, f)
	}
	img, err := Composite(f, s.style)
	if err != nil {
		return err
	}
	if s.shadow != nil {
		img, _ = ApplyShadow(img, *s.shadow)
	}
	switch s.format {
	case FormatWebP:
		o := &webp.Options{Lossless: s.quality <= 0, Quality: s.quality}
		if err := webp.Encode(w, img, o); err != nil {
			return fmt.Errorf("encode webp: %w", err)
		}
	default:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("encode png: %w", err)
		}
	}
	return nil
}

// WriteFile exports f to path, choosing the format from its extension
// unless WithFormat is given.
func WriteFile(path string, f canvas.Frame, opts ...Option) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	opts = append([]Option{WithFormat(format)}, opts...)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(out, f, opts...); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
