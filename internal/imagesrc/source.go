// Package imagesrc resolves and fetches the images shown on the canvas.
package imagesrc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/example/genlabel/internal/clipboard"
)

// Pseudo sources that are not files or URLs.
const (
	Screenshot            = "screenshot:"
	ScreenshotInteractive = "screenshot:interactive"
	Clipboard             = "clipboard:"
)

// maxFetchBytes bounds a single fetched image.
const maxFetchBytes = 64 << 20

// ErrEmptySource is returned when there is nothing to load.
var ErrEmptySource = errors.New("no image source")

// Resolve turns an image reference into a loadable source. Server paths
// such as /images/x.png are joined to base when base is set; URLs, pseudo
// sources and local paths pass through.
func Resolve(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || base == "" || !strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "//") {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil || b.Scheme == "" {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// Loader fetches and decodes image sources.
type Loader struct {
	client     *http.Client
	screenshot func(ctx context.Context, interactive bool) (image.Image, error)
	clipboard  func() (image.Image, error)
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for http and https sources.
func WithHTTPClient(c *http.Client) Option { return func(l *Loader) { l.client = c } }

// WithScreenshotter replaces the desktop portal used for screenshot sources.
func WithScreenshotter(fn func(ctx context.Context, interactive bool) (image.Image, error)) Option {
	return func(l *Loader) { l.screenshot = fn }
}

// WithClipboardReader replaces the system clipboard used for clipboard:.
func WithClipboardReader(fn func() (image.Image, error)) Option {
	return func(l *Loader) { l.clipboard = fn }
}

// NewLoader returns a Loader with a 30 second HTTP timeout.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		client:     &http.Client{Timeout: 30 * time.Second},
		screenshot: portalScreenshot,
		clipboard:  clipboard.ReadImage,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load fetches src and decodes it, applying any EXIF orientation.
func (l *Loader) Load(ctx context.Context, src string) (image.Image, error) {
	if img, ok, err := l.captured(ctx, src); ok {
		return img, err
	}
	data, err := l.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src, err)
	}
	return img, nil
}

// Fetch returns the raw bytes of src. Screenshot and clipboard sources are
// encoded as PNG.
func (l *Loader) Fetch(ctx context.Context, src string) ([]byte, error) {
	if img, ok, err := l.captured(ctx, src); ok {
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode %s: %w", src, err)
		}
		return buf.Bytes(), nil
	}
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, ErrEmptySource
	}
	u, err := url.Parse(src)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			return l.fetchHTTP(ctx, src)
		case "file":
			return readFile(u.Path)
		}
	}
	return readFile(src)
}

func (l *Loader) captured(ctx context.Context, src string) (image.Image, bool, error) {
	switch strings.TrimSpace(src) {
	case Screenshot, ScreenshotInteractive:
		img, err := l.screenshot(ctx, src == ScreenshotInteractive)
		if err != nil {
			return nil, true, fmt.Errorf("screenshot: %w", err)
		}
		return img, true, nil
	case Clipboard:
		img, err := l.clipboard()
		if err != nil {
			return nil, true, fmt.Errorf("clipboard: %w", err)
		}
		return img, true, nil
	}
	return nil, false, nil
}

func (l *Loader) fetchHTTP(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "close %s: %v\n", src, cerr)
		}
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: %s", src, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src, err)
	}
	return data, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
