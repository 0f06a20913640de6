package imagesrc

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestResolve(t *testing.T) {
	tests := []struct {
		base, ref, want string
	}{
		{"http://localhost:8000", "/images/a.png", "http://localhost:8000/images/a.png"},
		{"http://localhost:8000/api/", "/images/a.png", "http://localhost:8000/images/a.png"},
		{"http://localhost:8000", "http://cdn/x.png", "http://cdn/x.png"},
		{"http://localhost:8000", "file:///tmp/x.png", "file:///tmp/x.png"},
		{"http://localhost:8000", "screenshot:", "screenshot:"},
		{"http://localhost:8000", "rel/x.png", "rel/x.png"},
		{"", "/tmp/x.png", "/tmp/x.png"},
		{"localhost", "/tmp/x.png", "/tmp/x.png"},
		{"http://localhost:8000", "  ", ""},
	}
	for _, tc := range tests {
		if got := Resolve(tc.base, tc.ref); got != tc.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tc.base, tc.ref, got, tc.want)
		}
	}
}

func TestLoadHTTP(t *testing.T) {
	data := pngBytes(t, 4, 3)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/a.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	defer srv.Close()

	l := NewLoader(WithHTTPClient(srv.Client()))
	img, err := l.Load(context.Background(), Resolve(srv.URL, "/images/a.png"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Fatalf("bounds = %v", b)
	}

	_, err = l.Load(context.Background(), srv.URL+"/missing.png")
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bg.png")
	if err := os.WriteFile(path, pngBytes(t, 7, 5), 0o644); err != nil {
		t.Fatal(err)
	}
	l := NewLoader()
	for _, src := range []string{path, "file://" + path} {
		img, err := l.Load(context.Background(), src)
		if err != nil {
			t.Fatalf("Load(%q): %v", src, err)
		}
		if b := img.Bounds(); b.Dx() != 7 || b.Dy() != 5 {
			t.Fatalf("bounds = %v", b)
		}
	}

	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Load(context.Background(), bad); err == nil || !strings.Contains(err.Error(), "decode") {
		t.Fatalf("expected decode error, got %v", err)
	}
	if _, err := l.Load(context.Background(), filepath.Join(dir, "nope.png")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadEmptySource(t *testing.T) {
	if _, err := NewLoader().Load(context.Background(), " "); !errors.Is(err, ErrEmptySource) {
		t.Fatalf("expected ErrEmptySource, got %v", err)
	}
}

func TestLoadPseudoSources(t *testing.T) {
	shot := image.NewRGBA(image.Rect(0, 0, 9, 9))
	clip := image.NewRGBA(image.Rect(0, 0, 2, 2))
	var gotInteractive []bool
	l := NewLoader(
		WithScreenshotter(func(_ context.Context, interactive bool) (image.Image, error) {
			gotInteractive = append(gotInteractive, interactive)
			return shot, nil
		}),
		WithClipboardReader(func() (image.Image, error) { return clip, nil }),
	)
	if img, err := l.Load(context.Background(), Screenshot); err != nil || img != image.Image(shot) {
		t.Fatalf("screenshot: %v %v", img, err)
	}
	if _, err := l.Load(context.Background(), ScreenshotInteractive); err != nil {
		t.Fatal(err)
	}
	if len(gotInteractive) != 2 || gotInteractive[0] || !gotInteractive[1] {
		t.Fatalf("interactive flags = %v", gotInteractive)
	}
	if img, err := l.Load(context.Background(), Clipboard); err != nil || img != image.Image(clip) {
		t.Fatalf("clipboard: %v %v", img, err)
	}

	data, err := l.Fetch(context.Background(), Clipboard)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil || decoded.Bounds().Dx() != 2 {
		t.Fatalf("clipboard fetch decoded to %v, %v", decoded, err)
	}

	failing := NewLoader(WithClipboardReader(func() (image.Image, error) { return nil, errors.New("empty") }))
	if _, err := failing.Load(context.Background(), Clipboard); err == nil || !strings.HasPrefix(err.Error(), "clipboard:") {
		t.Fatalf("expected wrapped clipboard error, got %v", err)
	}
}

func TestDownload(t *testing.T) {
	data := pngBytes(t, 2, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "out")
	path, err := NewLoader(WithHTTPClient(srv.Client())).Download(context.Background(), srv.URL+"/images/x.png", dir)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if filepath.Base(path) != DownloadName {
		t.Fatalf("path = %q", path)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("downloaded bytes differ")
	}
}
