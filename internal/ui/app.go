// Package ui hosts the annotation canvas in a desktop window.
package ui

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/genlabel/internal/backend"
	"github.com/example/genlabel/internal/canvas"
	"github.com/example/genlabel/internal/imagesrc"
	"github.com/example/genlabel/internal/notify"
	"github.com/example/genlabel/internal/theme"
)

// DefaultTitle is shown in the window header.
const DefaultTitle = "GenLabel"

// App holds the window configuration and its session.
type App struct {
	title   string
	source  string
	theme   *theme.Theme
	session *session

	canvasOpts []canvas.Option
	sessOpts   []func(*session)

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an App during creation.
type Option func(*App)

// WithTitle sets the header title.
func WithTitle(title string) Option { return func(a *App) { a.title = title } }

// WithSource sets the image loaded when the window opens.
func WithSource(src string) Option { return func(a *App) { a.source = src } }

// WithTheme sets the window colours.
func WithTheme(th *theme.Theme) Option { return func(a *App) { a.theme = th } }

// WithCanvasOptions passes options through to the canvas.
func WithCanvasOptions(opts ...canvas.Option) Option {
	return func(a *App) { a.canvasOpts = append(a.canvasOpts, opts...) }
}

// WithLoader sets how image sources are fetched.
func WithLoader(l *imagesrc.Loader) Option {
	return func(a *App) { a.sessOpts = append(a.sessOpts, func(s *session) { s.loader = l }) }
}

// WithBackend enables generation against the given service.
func WithBackend(c *backend.Client, p backend.Params) Option {
	return func(a *App) {
		a.sessOpts = append(a.sessOpts, func(s *session) { s.client, s.params = c, p })
	}
}

// WithHistory seeds the generation history.
func WithHistory(h *backend.History) Option {
	return func(a *App) { a.sessOpts = append(a.sessOpts, func(s *session) { s.history = h }) }
}

// WithPrompt sets the initial prompt and tag ids.
func WithPrompt(prompt string, tags []string) Option {
	return func(a *App) {
		a.sessOpts = append(a.sessOpts, func(s *session) { s.prompt, s.tags = prompt, tags })
	}
}

// WithSaveDir sets where downloads and exports are written.
func WithSaveDir(dir string) Option {
	return func(a *App) { a.sessOpts = append(a.sessOpts, func(s *session) { s.saveDir = dir }) }
}

// WithNotifier sets the desktop notifier.
func WithNotifier(n *notify.Notifier) Option {
	return func(a *App) { a.sessOpts = append(a.sessOpts, func(s *session) { s.notifier = n }) }
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *App) { a.onClose = fn } }

// New creates an App with the provided options.
func New(opts ...Option) *App {
	a := &App{title: DefaultTitle, theme: theme.Default()}
	for _, o := range opts {
		o(a)
	}
	a.session = newSession(canvas.New(a.canvasOpts...), imagesrc.NewLoader())
	a.session.style = a.theme.RenderStyle()
	for _, o := range a.sessOpts {
		o(a.session)
	}
	return a
}

// Canvas exposes the hosted canvas.
func (a *App) Canvas() *canvas.Canvas { return a.session.canvas }

func (a *App) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *App) Run() { driver.Main(a.Main) }

func (a *App) Main(s screen.Screen) {
	toolbar := toolbarWidthFor(a.title)
	v := a.session.canvas.Viewport()
	width := toolbar + v + 16
	height := headerHeight + v + bottomHeight + 16
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.title})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()

	ctx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	// Job results and delayed repaints reach the loop through results so
	// nothing is sent once the window is gone.
	results := make(chan any, 8)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case r := <-results:
				w.Send(r)
			case <-done:
				return
			}
		}
	}()
	defer close(done)
	post := func(r any) {
		select {
		case results <- r:
		case <-ctx.Done():
		}
	}

	c := newController(a.session, toolbar)
	c.run = func(j job) {
		if j == nil {
			return
		}
		go post(j(ctx))
	}
	c.repaintIn = func(d time.Duration) {
		time.AfterFunc(d+50*time.Millisecond, func() { post(paint.Event{}) })
	}
	c.resize(width, height)

	ch := newChrome(a.theme)
	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			pctx, cancel := context.WithCancel(ctx)
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(pctx, s, w, ch, st)
			paintMu.Lock()
			paintCancel = nil
			if pctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()

	c.load(a.source)

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			c.resize(e.WidthPx, e.HeightPx)
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := c.snapshot(a.title)
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			if c.handleMouse(e) {
				w.Send(paint.Event{})
			}
		case key.Event:
			if c.handleKey(e) {
				return
			}
			w.Send(paint.Event{})
		case loadResult, generateResult, downloadResult:
			c.handleResult(e)
			w.Send(paint.Event{})
		case error:
			log.Print(e)
		}
	}
}
