package canvas

import (
	"image"
	"image/color"
	"log"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	regularFont *opentype.Font
	faceCache   sync.Map // map[float64]font.Face
)

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	regularFont = f
}

// faceForSize returns a cached Go Regular face. Sizes are rounded to a
// tenth of a point so drags do not grow the cache.
func faceForSize(size float64) font.Face {
	if size <= 0 {
		size = DefaultFontSize
	}
	size = math.Round(size*10) / 10
	if face, ok := faceCache.Load(size); ok {
		return face.(font.Face)
	}
	face, err := opentype.NewFace(regularFont, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Printf("font face %.1f: %v", size, err)
		return basicfont.Face7x13
	}
	actual, _ := faceCache.LoadOrStore(size, face)
	return actual.(font.Face)
}

// MeasureText returns the bounding box of text at the given size and the
// offset from its top to the baseline.
func MeasureText(text string, size float64) (width, height, baseline int) {
	face := faceForSize(size)
	d := &font.Drawer{Face: face}
	m := face.Metrics()
	return d.MeasureString(text).Ceil(), m.Ascent.Ceil() + m.Descent.Ceil(), m.Ascent.Ceil()
}

// DrawText renders text with its top-left corner at (x, y).
func DrawText(dst *image.RGBA, x, y int, text string, col color.Color, size float64) {
	face := faceForSize(size)
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

// drawCentredText renders text centred on (cx, cy).
func drawCentredText(dst *image.RGBA, cx, cy int, text string, col color.Color, size float64) {
	w, h, _ := MeasureText(text, size)
	DrawText(dst, cx-w/2, cy-h/2, text, col, size)
}
