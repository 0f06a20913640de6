//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package imagesrc

import (
	"context"
	"fmt"
	"image"
)

func portalScreenshot(context.Context, bool) (image.Image, error) {
	return nil, fmt.Errorf("portal screenshot is not supported on this platform")
}
