//go:build linux || freebsd || openbsd || netbsd || dragonfly

package imagesrc

import (
	"image"
	"image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/godbus/dbus/v5"
)

func TestPortalScreenshotOptions(t *testing.T) {
	prevToken := portalHandleToken
	portalHandleToken = func() string { return "test-token" }
	t.Cleanup(func() { portalHandleToken = prevToken })

	for _, interactive := range []bool{false, true} {
		values := portalScreenshotOptions(interactive)
		if got := values["interactive"].Value(); got != interactive {
			t.Fatalf("interactive = %v, want %v", got, interactive)
		}
		if got := values["modal"].Value(); got != interactive {
			t.Fatalf("modal = %v, want %v", got, interactive)
		}
		if got := values["handle_token"].Value(); got != "test-token" {
			t.Fatalf("handle_token = %v", got)
		}
		if len(values) != 3 {
			t.Fatalf("expected 3 options, got %d", len(values))
		}
	}
}

func TestPortalResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shot.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 3, 2))); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	uri := (&url.URL{Scheme: "file", Path: path}).String()

	img, err := portalResult([]interface{}{uint32(0), map[string]dbus.Variant{"uri": dbus.MakeVariant(uri)}})
	if err != nil {
		t.Fatalf("portalResult: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("temporary screenshot not removed: %v", err)
	}

	tests := []struct {
		name string
		body []interface{}
		want string
	}{
		{"short", []interface{}{uint32(0)}, "malformed"},
		{"cancelled", []interface{}{uint32(1), map[string]dbus.Variant{}}, "cancelled"},
		{"no uri", []interface{}{uint32(0), map[string]dbus.Variant{}}, "missing image"},
		{"not file", []interface{}{uint32(0), map[string]dbus.Variant{"uri": dbus.MakeVariant("http://x/y.png")}}, "unexpected uri"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := portalResult(tc.body)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}
