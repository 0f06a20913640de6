package export

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/example/genlabel/internal/canvas"
)

const pdfFont = "goregular"

// writePDF lays the frame out on a single page one point per viewport
// unit: the fitted image as a raster, labels and shapes as vectors.
func writePDF(w io.Writer, f canvas.Frame) error {
	if f.Status != canvas.StatusReady || f.Image == nil {
		return ErrNoImage
	}
	v := float64(f.Viewport)
	if v <= 0 {
		v = canvas.Viewport
	}
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: v, Ht: v},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddUTF8FontFromBytes(pdfFont, "", goregular.TTF)
	p.AddPage()

	var buf bytes.Buffer
	if err := png.Encode(&buf, f.Image); err != nil {
		return fmt.Errorf("encode background: %w", err)
	}
	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader("background", opt, &buf)
	g := f.Geometry
	p.ImageOptions("background", g.OffsetX, g.OffsetY, g.Width, g.Height, false, opt, 0, "")

	for _, l := range f.Labels {
		pdfLabel(p, l)
	}
	for _, sh := range f.Shapes {
		pdfShape(p, sh)
	}
	if err := p.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func pdfLabel(p *gofpdf.Fpdf, l canvas.Label) {
	alpha := float64(l.Fill.A) / 255 * l.Opacity
	if alpha <= 0 {
		return
	}
	_, _, baseline := canvas.MeasureText(l.Text, l.FontSize)
	p.SetFont(pdfFont, "", l.FontSize)
	p.SetTextColor(int(l.Fill.R), int(l.Fill.G), int(l.Fill.B))
	p.SetAlpha(alpha, "Normal")
	p.Text(l.X, l.Y+float64(baseline), l.Text)
	p.SetAlpha(1, "Normal")
}

func pdfShape(p *gofpdf.Fpdf, sh canvas.Shape) {
	width := math.Max(sh.StrokeWidth, 1)
	p.SetLineWidth(width)
	setDraw(p, sh.Stroke)
	fill := sh.Fill.A > 0
	if fill {
		p.SetFillColor(int(sh.Fill.R), int(sh.Fill.G), int(sh.Fill.B))
	}
	switch sh.Kind {
	case canvas.ToolRect:
		if fill {
			p.SetAlpha(float64(sh.Fill.A)/255, "Normal")
			p.Rect(sh.X, sh.Y, sh.Width, sh.Height, "F")
			p.SetAlpha(1, "Normal")
		}
		p.Rect(sh.X, sh.Y, sh.Width, sh.Height, "D")
	case canvas.ToolCircle:
		if fill {
			p.SetAlpha(float64(sh.Fill.A)/255, "Normal")
			p.Circle(sh.X, sh.Y, sh.Width, "F")
			p.SetAlpha(1, "Normal")
		}
		p.Circle(sh.X, sh.Y, sh.Width, "D")
	case canvas.ToolArrow, canvas.ToolLine:
		if len(sh.Points) < 4 {
			return
		}
		x0, y0, x1, y1 := sh.Points[0], sh.Points[1], sh.Points[2], sh.Points[3]
		p.Line(x0, y0, x1, y1)
		if sh.Kind == canvas.ToolArrow && (x0 != x1 || y0 != y1) {
			angle := math.Atan2(y1-y0, x1-x0)
			size := 6 + width*2
			for _, a := range []float64{angle + math.Pi/6, angle - math.Pi/6} {
				p.Line(x1, y1, x1-math.Cos(a)*size, y1-math.Sin(a)*size)
			}
		}
	}
}

func setDraw(p *gofpdf.Fpdf, c color.RGBA) {
	p.SetDrawColor(int(c.R), int(c.G), int(c.B))
}
