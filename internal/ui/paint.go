package ui

import (
	"context"
	"image"
	"image/draw"
	"log"

	xdraw "golang.org/x/image/draw"

	"golang.org/x/exp/shiny/screen"

	"github.com/example/genlabel/internal/canvas"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// paintState is an immutable snapshot handed to the paint goroutine.
type paintState struct {
	layout     layout
	frame      canvas.Frame
	style      canvas.RenderStyle
	tool       canvas.Tool
	labelStyle canvas.LabelStyle
	palette    []canvas.PaletteColor

	title     string
	labelText string
	prompt    string
	status    string
	tags      string
	failed    bool
	editing   field
	editValue string
	zoom      float64
	hover     hover
	message   string
}

// composeFrame paints the whole window into dst. It reports false when ctx
// was cancelled part way.
func composeFrame(ctx context.Context, dst *image.RGBA, ch *chrome, st paintState) bool {
	l := st.layout
	fill(dst, dst.Bounds(), ch.theme.Background)

	stage := canvas.NewSurface(st.frame)
	canvas.Render(stage, st.frame, st.style)
	if ctx.Err() != nil {
		return false
	}
	if l.stage.Size() == stage.Bounds().Size() {
		draw.Draw(dst, l.stage, stage, image.Point{}, draw.Src)
	} else {
		xdraw.NearestNeighbor.Scale(dst, l.stage, stage, stage.Bounds(), draw.Src, nil)
	}
	if ctx.Err() != nil {
		return false
	}

	ch.drawHeader(dst, l, st)
	ch.drawToolbar(dst, l, st)
	ch.drawShortcuts(dst, l, st)
	if st.message != "" {
		ch.drawMessage(dst, l, st.message)
	}
	return ctx.Err() == nil
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, ch *chrome, st paintState) {
	b, err := s.NewBuffer(image.Point{st.layout.width, st.layout.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	if !composeFrame(ctx, b.RGBA(), ch, st) {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
