// Package clipboard publishes composites to the system clipboard and reads
// images and prompt text back from it. Builds with cgo (or on Windows) use golang.design/x/clipboard;
// cgo-free Unix builds speak the X11 selection protocol directly.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"runtime"
	"sync"
)

var (
	// ErrUnsupported is returned when no clipboard driver exists for the platform.
	ErrUnsupported = errors.New("clipboard is not supported on this platform")
	// ErrEmpty is returned when the clipboard holds nothing of the requested kind.
	ErrEmpty = errors.New("clipboard is empty")

	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
)

type kind int

const (
	kindText kind = iota
	kindImage
)

func (k kind) String() string {
	if k == kindImage {
		return "image"
	}
	return "text"
}

// driver publishes PNG bytes and reads either kind back. A read of a kind
// the clipboard does not hold returns no data and no error.
type driver interface {
	writeImage(data []byte) error
	read(k kind) ([]byte, error)
}

var (
	initOnce sync.Once
	initErr  error
	active   driver
	// newDriver is replaced in tests.
	newDriver = openDriver
)

func ensureInit() error {
	initOnce.Do(func() {
		if needsDisplay(runtime.GOOS) && os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		active, initErr = newDriver()
	})
	return initErr
}

func needsDisplay(goos string) bool {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return true
	}
	return false
}

// WriteImage encodes img as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	if img == nil {
		return fmt.Errorf("write clipboard image: nil image")
	}
	if err := ensureInit(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode clipboard image: %w", err)
	}
	return active.writeImage(buf.Bytes())
}

// ReadImage decodes the PNG image held by the clipboard.
func ReadImage() (image.Image, error) {
	data, err := readKind(kindImage)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode clipboard image: %w", err)
	}
	return img, nil
}

// ReadText returns the clipboard's UTF-8 text.
func ReadText() (string, error) {
	data, err := readKind(kindText)
	if err != nil {
		return "", err
	}
	// Some X11 owners append a NUL to STRING replies.
	return string(bytes.TrimRight(data, "\x00")), nil
}

func readKind(k kind) ([]byte, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	data, err := active.read(k)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("read clipboard %s: %w", k, ErrEmpty)
	}
	return data, nil
}
