package canvas

import (
	"math"
	"testing"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name string
		w, h float64
		want Geometry
	}{
		{"landscape", 1024, 512, Geometry{Width: 512, Height: 256, OffsetX: 0, OffsetY: 128}},
		{"portrait", 512, 1024, Geometry{Width: 256, Height: 512, OffsetX: 128, OffsetY: 0}},
		{"square", 300, 300, Geometry{Width: 512, Height: 512}},
		{"tiny", 2, 1, Geometry{Width: 512, Height: 256, OffsetY: 128}},
		{"zero width", 0, 100, Geometry{}},
		{"negative height", 100, -1, Geometry{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Fit(tc.w, tc.h, Viewport); got != tc.want {
				t.Fatalf("Fit(%v, %v) = %+v, want %+v", tc.w, tc.h, got, tc.want)
			}
		})
	}
}

func TestFitBoundsAndRatio(t *testing.T) {
	sizes := []float64{1, 3, 7, 64, 333, 511, 512, 513, 768, 1000, 4096, 12345}
	for _, w := range sizes {
		for _, h := range sizes {
			g := Fit(w, h, Viewport)
			if g.Width > Viewport || g.Height > Viewport {
				t.Fatalf("Fit(%v, %v) = %+v exceeds viewport", w, h, g)
			}
			if diff := math.Abs(g.Width/g.Height - w/h); diff > 1e-9 {
				t.Fatalf("Fit(%v, %v) ratio drift %v", w, h, diff)
			}
			if g.OffsetX < 0 || g.OffsetY < 0 {
				t.Fatalf("Fit(%v, %v) negative offset %+v", w, h, g)
			}
			if again := Fit(w, h, Viewport); again != g {
				t.Fatalf("Fit(%v, %v) not deterministic: %+v vs %+v", w, h, g, again)
			}
		}
	}
}

func TestGeometryRect(t *testing.T) {
	r := Fit(1024, 512, Viewport).Rect()
	if r.Min.X != 0 || r.Min.Y != 128 || r.Dx() != 512 || r.Dy() != 256 {
		t.Fatalf("unexpected rect %v", r)
	}
}
