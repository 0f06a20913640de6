package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/genlabel/internal/backend"
	"github.com/example/genlabel/internal/canvas"
	"github.com/example/genlabel/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var currentTheme *theme.Theme
	var currentShape canvas.Tool

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentTheme = nil
			currentShape = canvas.ToolNone

			if strings.HasPrefix(currentSection, "theme.") {
				themeName := strings.TrimPrefix(currentSection, "theme.")
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			if strings.HasPrefix(currentSection, "shape.") {
				kind, err := canvas.ParseTool(strings.TrimPrefix(currentSection, "shape."))
				if err != nil || kind == canvas.ToolNone {
					return nil, fmt.Errorf("unknown shape section [%s]", currentSection)
				}
				currentShape = kind
			}
			continue
		}

		// Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") && len(value) >= 2 {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case currentTheme != nil:
			err = theme.SetField(currentTheme, key, value)
		case currentShape != canvas.ToolNone:
			err = setShapeField(cfg, currentShape, key, value)
		case currentSection == "label":
			err = setLabelField(&cfg.Label, key, value)
		case currentSection == "generate":
			err = setGenerateField(&cfg.Generate, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case currentSection == "":
			err = setRootField(cfg, key, value)
		}
		if err != nil {
			if currentSection == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "backend":
		cfg.Backend = value
	}
	return nil
}

func setLabelField(l *Label, key, value string) error {
	switch strings.ToLower(key) {
	case "font_size":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
		l.FontSize = canvas.ClampFontSize(f)
	case "color":
		col, err := canvas.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		l.Color = col
	case "opacity":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
		if f < 0 || f > 1 {
			return fmt.Errorf("opacity must be between 0 and 1, got %v", f)
		}
		l.Opacity = f
	}
	return nil
}

func setShapeField(cfg *Config, kind canvas.Tool, key, value string) error {
	st := cfg.Shapes[kind]
	switch strings.ToLower(key) {
	case "stroke", "fill":
		col, err := canvas.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		if strings.EqualFold(key, "stroke") {
			st.Stroke = col
		} else {
			st.Fill = col
		}
	case "stroke_width":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
		if f <= 0 {
			return fmt.Errorf("stroke_width must be positive, got %v", f)
		}
		st.StrokeWidth = f
	}
	cfg.Shapes[kind] = st
	return nil
}

func setGenerateField(p *backend.Params, key, value string) error {
	switch strings.ToLower(key) {
	case "steps":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for key %s: %w", key, err)
		}
		p.Steps = n
	case "guidance_scale":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
		p.GuidanceScale = f
	case "size":
		p.Size = value
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "download":
		n.Download = b
	case "export":
		n.Export = b
	case "copy":
		n.Copy = b
	case "generate":
		n.Generate = b
	}
	return nil
}
