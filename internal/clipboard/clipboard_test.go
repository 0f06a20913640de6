package clipboard

import (
	"errors"
	"image"
	"image/color"
	"runtime"
	"sync"
	"testing"
)

type memDriver struct {
	data map[kind][]byte
}

func (m *memDriver) writeImage(data []byte) error {
	m.data = map[kind][]byte{kindImage: data}
	return nil
}

func (m *memDriver) read(k kind) ([]byte, error) { return m.data[k], nil }

func useDriver(t *testing.T, d driver) {
	t.Helper()
	t.Setenv("DISPLAY", ":0")
	prev := newDriver
	newDriver = func() (driver, error) { return d, nil }
	initOnce = sync.Once{}
	initErr, active = nil, nil
	t.Cleanup(func() {
		newDriver = prev
		initOnce = sync.Once{}
		initErr, active = nil, nil
	})
}

func TestEnsureInitWithoutDisplay(t *testing.T) {
	if !needsDisplay(runtime.GOOS) {
		t.Skip("display check only applies to X11 and Wayland platforms")
	}
	useDriver(t, &memDriver{})
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")

	err := WriteImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if !errors.Is(err, errNoDisplay) {
		t.Fatalf("expected errNoDisplay, got %v", err)
	}
}

func TestImageRoundTrip(t *testing.T) {
	useDriver(t, &memDriver{data: map[kind][]byte{kindText: []byte("old prompt")}})
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.RGBA{200, 10, 10, 255})
	if err := WriteImage(img); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}
	got, err := ReadImage()
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	if got.Bounds() != img.Bounds() {
		t.Fatalf("bounds = %v", got.Bounds())
	}
	if r, _, _, _ := got.At(1, 1).RGBA(); r>>8 != 200 {
		t.Fatalf("pixel red = %d", r>>8)
	}
	if _, err := ReadText(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("writing an image should replace text, got %v", err)
	}
}

func TestReadTextTrimsNul(t *testing.T) {
	d := &memDriver{data: map[kind][]byte{kindText: []byte("a cat\x00")}}
	useDriver(t, d)
	got, err := ReadText()
	if err != nil || got != "a cat" {
		t.Fatalf("ReadText = %q, %v", got, err)
	}
}

func TestWriteNilImage(t *testing.T) {
	useDriver(t, &memDriver{})
	if err := WriteImage(nil); err == nil {
		t.Fatal("expected error for nil image")
	}
}
