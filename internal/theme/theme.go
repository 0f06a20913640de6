package theme

import (
	"image/color"

	"github.com/example/genlabel/internal/canvas"
)

// Theme defines the colours of the window chrome and the canvas stage.
type Theme struct {
	Name string

	// Window
	Background color.RGBA
	Foreground color.RGBA

	// Toolbar, header and shortcut bar
	ToolbarBackground  color.RGBA
	HeaderBackground   color.RGBA
	ShortcutBackground color.RGBA
	ShortcutText       color.RGBA

	// Buttons and swatches
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonActive          color.RGBA
	ButtonText            color.RGBA
	ButtonTextActive      color.RGBA
	ButtonBorder          color.RGBA

	// Text inputs
	InputBackground color.RGBA
	InputFocus      color.RGBA
	InputText       color.RGBA

	// Canvas stage
	Viewport         color.RGBA
	Placeholder      color.RGBA
	ErrorText        color.RGBA
	Glyph            color.RGBA
	GlyphText        color.RGBA
	NoticeBackground color.RGBA
	NoticeText       color.RGBA
}

// Default returns the built-in light theme.
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{220, 220, 220, 255},
		Foreground:            color.RGBA{0, 0, 0, 255},
		ToolbarBackground:     color.RGBA{220, 220, 220, 255},
		HeaderBackground:      color.RGBA{235, 235, 235, 255},
		ShortcutBackground:    color.RGBA{200, 200, 200, 255},
		ShortcutText:          color.RGBA{40, 40, 40, 255},
		ButtonBackground:      color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover: color.RGBA{180, 180, 180, 255},
		ButtonActive:          color.RGBA{150, 150, 150, 255},
		ButtonText:            color.RGBA{0, 0, 0, 255},
		ButtonTextActive:      color.RGBA{0, 0, 0, 255},
		ButtonBorder:          color.RGBA{0, 0, 0, 255},
		InputBackground:       color.RGBA{255, 255, 255, 255},
		InputFocus:            color.RGBA{255, 250, 205, 255},
		InputText:             color.RGBA{0, 0, 0, 255},
		Viewport:              color.RGBA{240, 240, 240, 255},
		Placeholder:           color.RGBA{110, 110, 110, 255},
		ErrorText:             color.RGBA{200, 0, 0, 255},
		Glyph:                 color.RGBA{255, 0, 0, 255},
		GlyphText:             color.RGBA{255, 255, 255, 255},
		NoticeBackground:      color.RGBA{255, 255, 255, 230},
		NoticeText:            color.RGBA{0, 0, 0, 255},
	}
}

// RenderStyle returns the canvas colours of t.
func (t *Theme) RenderStyle() canvas.RenderStyle {
	return canvas.RenderStyle{
		Background:  t.Viewport,
		Placeholder: t.Placeholder,
		Error:       t.ErrorText,
		Glyph:       t.Glyph,
		GlyphText:   t.GlyphText,
		NoticeFill:  t.NoticeBackground,
		NoticeText:  t.NoticeText,
	}
}
