package backend

import (
	"fmt"
	"strconv"
	"strings"
)

// Generation parameter limits.
const (
	MinSteps    = 20
	MaxSteps    = 100
	MinGuidance = 2.0
	MaxGuidance = 20.0
)

// Sizes are the output sizes the generator accepts.
var Sizes = []string{"512x512", "768x768"}

// Params are the tunable generation settings.
type Params struct {
	Steps         int
	GuidanceScale float64
	Size          string
}

// DefaultParams returns 50 steps at guidance 7.5 and 512x512.
func DefaultParams() Params {
	return Params{Steps: 50, GuidanceScale: 7.5, Size: Sizes[0]}
}

// Validate checks p against the generator's limits.
func (p Params) Validate() error {
	if p.Steps < MinSteps || p.Steps > MaxSteps {
		return fmt.Errorf("steps must be between %d and %d, got %d", MinSteps, MaxSteps, p.Steps)
	}
	if p.GuidanceScale < MinGuidance || p.GuidanceScale > MaxGuidance {
		return fmt.Errorf("guidance scale must be between %g and %g, got %g", MinGuidance, MaxGuidance, p.GuidanceScale)
	}
	known := false
	for _, s := range Sizes {
		if s == p.Size {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("size must be one of %s, got %q", strings.Join(Sizes, ", "), p.Size)
	}
	return nil
}

// ParseSize splits an "AxB" size. The first number is the height.
func ParseSize(s string) (height, width int, err error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid size %q", s)
	}
	height, err = strconv.Atoi(parts[0])
	if err != nil || height <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q", s)
	}
	width, err = strconv.Atoi(parts[1])
	if err != nil || width <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q", s)
	}
	return height, width, nil
}
