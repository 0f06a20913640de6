package export

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// ShadowOptions configures the drop shadow placed behind an exported image.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadowOptions returns a soft shadow offset down and to the right.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{Radius: 24, Offset: image.Pt(16, 16), Opacity: 0.55}
}

// ApplyShadow returns img on a transparent canvas grown to fit a blurred
// copy of its alpha, offset by opts.Offset. The result has a zero origin;
// the second value is where img's top-left corner landed.
func ApplyShadow(img *image.RGBA, opts ShadowOptions) (*image.RGBA, image.Point) {
	if img == nil || img.Bounds().Empty() || opts.Opacity <= 0 {
		return img, image.Point{}
	}
	opacity := opts.Opacity
	if opacity > 1 {
		opacity = 1
	}
	radius := opts.Radius
	if radius < 0 {
		radius = 0
	}

	src := img.Bounds()
	padded := src.Inset(-radius)
	shadowAt := padded.Add(opts.Offset)
	all := src.Union(shadowAt)
	shift := src.Min.Sub(all.Min)

	mask := image.NewNRGBA(padded.Sub(padded.Min))
	for y := src.Min.Y; y < src.Max.Y; y++ {
		for x := src.Min.X; x < src.Max.X; x++ {
			a := img.RGBAAt(x, y).A
			if a == 0 {
				continue
			}
			mask.SetNRGBA(x-padded.Min.X, y-padded.Min.Y, color.NRGBA{A: uint8(float64(a)*opacity + 0.5)})
		}
	}
	var shadow image.Image = mask
	if radius > 0 {
		shadow = imaging.Blur(mask, float64(radius)/2)
	}

	dst := image.NewRGBA(all.Sub(all.Min))
	draw.Draw(dst, shadowAt.Sub(all.Min), shadow, shadow.Bounds().Min, draw.Over)
	draw.Draw(dst, src.Sub(all.Min), img, src.Min, draw.Over)
	return dst, shift
}
