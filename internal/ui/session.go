package ui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/example/genlabel/internal/backend"
	"github.com/example/genlabel/internal/canvas"
	"github.com/example/genlabel/internal/clipboard"
	"github.com/example/genlabel/internal/export"
	"github.com/example/genlabel/internal/imagesrc"
	"github.com/example/genlabel/internal/notify"
)

// ExportName is the file the annotated composite is written to inside the
// save directory.
const ExportName = "annotated_image.png"

var (
	errNoBackend  = errors.New("no generation backend configured")
	errGenerating = errors.New("a generation is already running")
)

// Results of background jobs, delivered to the event loop with w.Send.
type (
	loadResult struct {
		token uint64
		img   canvas.Image
		err   error
	}
	generateResult struct {
		seq    uint64
		prompt string
		src    string
		err    error
	}
	downloadResult struct {
		path string
		err  error
	}
)

// job runs off the event loop and returns a value to send back to it.
type job func(ctx context.Context) any

// session owns the canvas and the actions the window triggers. Methods are
// called from the event loop only; the jobs they return touch nothing but
// the loader and the backend client.
type session struct {
	canvas   *canvas.Canvas
	loader   *imagesrc.Loader
	client   *backend.Client
	history  *backend.History
	notifier *notify.Notifier
	params   backend.Params
	tags     []string
	saveDir  string
	style    canvas.RenderStyle

	prompt     string
	genSeq     uint64
	generating bool
	// announce maps a load token to the prompt that produced the image.
	announce map[uint64]string

	copyImage func(image.Image) error
}

func newSession(c *canvas.Canvas, loader *imagesrc.Loader) *session {
	return &session{
		canvas:    c,
		loader:    loader,
		history:   backend.NewHistory(),
		params:    backend.DefaultParams(),
		style:     canvas.DefaultRenderStyle(),
		announce:  make(map[uint64]string),
		copyImage: clipboard.WriteImage,
	}
}

// load switches the canvas to src and returns the job that fetches it, or
// nil when src is empty.
func (s *session) load(src string) job {
	token := s.canvas.SetSource(src)
	if src == "" {
		return nil
	}
	v := s.canvas.Viewport()
	loader := s.loader
	return func(ctx context.Context) any {
		img, err := loader.Load(ctx, src)
		if err != nil {
			return loadResult{token: token, err: err}
		}
		return loadResult{token: token, img: canvas.Prepare(img, v)}
	}
}

// finishLoad applies a load result. ErrStale reports a superseded load.
func (s *session) finishLoad(r loadResult) error {
	prompt, announce := s.announce[r.token]
	delete(s.announce, r.token)
	if r.err != nil {
		if err := s.canvas.FailLoad(r.token, r.err); err != nil {
			return err
		}
		return fmt.Errorf("load %s: %w", s.canvas.Source(), r.err)
	}
	if err := s.canvas.CompleteLoad(r.token, r.img); err != nil {
		return err
	}
	if announce {
		s.notifier.Generate(prompt, r.img.Display)
	}
	return nil
}

// generate starts a backend request for the current prompt.
func (s *session) generate() (job, error) {
	if s.client == nil {
		return nil, errNoBackend
	}
	if s.generating {
		return nil, errGenerating
	}
	if err := s.params.Validate(); err != nil {
		return nil, err
	}
	s.genSeq++
	s.generating = true
	seq := s.genSeq
	client := s.client
	req := backend.Request{Prompt: s.prompt, Tags: append([]string(nil), s.tags...), Params: s.params}
	return func(ctx context.Context) any {
		path, err := client.Generate(ctx, req)
		if err != nil {
			return generateResult{seq: seq, prompt: req.Prompt, err: err}
		}
		return generateResult{seq: seq, prompt: req.Prompt, src: imagesrc.Resolve(client.BaseURL(), path)}
	}, nil
}

// finishGenerate records a finished generation in the history and returns
// the job loading its image.
func (s *session) finishGenerate(r generateResult) (job, error) {
	if r.seq != s.genSeq {
		return nil, canvas.ErrStale
	}
	s.generating = false
	if r.err != nil {
		return nil, r.err
	}
	s.history.Add(r.src, r.prompt)
	j := s.load(r.src)
	s.announce[s.canvas.Token()] = r.prompt
	return j, nil
}

// selectHistory loads the i-th history entry, newest first, and restores
// the prompt that produced it.
func (s *session) selectHistory(i int) (job, error) {
	e, ok := s.history.Get(i)
	if !ok {
		return nil, fmt.Errorf("no history entry %d", i+1)
	}
	s.prompt = e.Prompt
	return s.load(e.Src), nil
}

// download saves the raw source image into the save directory.
func (s *session) download() (job, error) {
	if s.canvas.Status() != canvas.StatusReady {
		return nil, export.ErrNoImage
	}
	src, dir, loader := s.canvas.Source(), s.saveDir, s.loader
	return func(ctx context.Context) any {
		path, err := loader.Download(ctx, src, dir)
		return downloadResult{path: path, err: err}
	}, nil
}

func (s *session) finishDownload(r downloadResult) (string, error) {
	if r.err != nil {
		return "", fmt.Errorf("download: %w", r.err)
	}
	s.notifier.Download(r.path)
	return r.path, nil
}

// export writes the annotated composite next to downloads.
func (s *session) export() (string, error) {
	dir := s.saveDir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, ExportName)
	if err := export.WriteFile(path, s.canvas.Frame(), export.WithRenderStyle(s.style)); err != nil {
		return "", err
	}
	s.notifier.Export(path)
	return path, nil
}

// copy places the annotated composite on the clipboard.
func (s *session) copy() error {
	img, err := export.Composite(s.canvas.Frame(), s.style)
	if err != nil {
		return err
	}
	if err := s.copyImage(img); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	s.notifier.Copy("annotated image")
	return nil
}

// status is the header summary of the load state.
func (s *session) status() string {
	prefix := ""
	if s.generating {
		prefix = "generating... "
	}
	switch st := s.canvas.Status(); st {
	case canvas.StatusFailed:
		return prefix + "error: " + s.canvas.LoadError().Error()
	case canvas.StatusReady:
		l, sh := len(s.canvas.Labels()), len(s.canvas.Shapes())
		return fmt.Sprintf("%s%d labels, %d shapes", prefix, l, sh)
	default:
		return prefix + st.String()
	}
}

func (s *session) tagSummary() string {
	if len(s.tags) == 0 {
		return ""
	}
	return "tags " + strings.Join(s.tags, ",")
}
