package main

import (
	"flag"
	"log"

	"github.com/example/genlabel/internal/backend"
	"github.com/example/genlabel/internal/canvas"
	"github.com/example/genlabel/internal/theme"
	"github.com/example/genlabel/internal/ui"
)

// annotateCmd represents the annotate subcommand.
type annotateCmd struct {
	source  string
	prompt  string
	tags    tagList
	samples bool
	*root
	fs *flag.FlagSet
}

func (a *annotateCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)
	a := &annotateCmd{root: r.subcommand("annotate"), fs: fs}
	fs.Usage = usageFunc(a)
	fs.StringVar(&a.source, "source", "", "image to open: path, URL, clipboard: or screenshot:")
	fs.StringVar(&a.prompt, "prompt", "", "initial generation prompt")
	fs.Var(&a.tags, "tag", "style tag id sent with generations (repeatable)")
	fs.BoolVar(&a.samples, "samples", false, "seed the history with the service's sample images")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() == 1 && a.source == "" {
		a.source = fs.Arg(0)
	} else if fs.NArg() > 0 {
		return nil, &UsageError{of: a}
	}
	return a, nil
}

func (a *annotateCmd) Run() error {
	var history *backend.History
	if a.samples {
		history = backend.NewHistory(backend.SampleHistory(a.backendBase())...)
	}
	return runWindow(a.root, a.source, a.prompt, a.tags, history)
}

// runWindow opens the annotation window and blocks until it closes.
func runWindow(r *root, source, prompt string, tags []string, history *backend.History) error {
	th := r.activeTheme
	if th == nil {
		th = theme.Default()
	}
	hooks := canvas.Hooks{
		AddLabel: func(l canvas.Label) {
			log.Printf("label %d %q at %.0f,%.0f", l.ID, l.Text, l.X, l.Y)
		},
		AddShape: func(s canvas.Shape) {
			log.Printf("%s %d at %.0f,%.0f", s.Kind, s.ID, s.X, s.Y)
		},
		LabelDrag: func(id int64, x, y float64) {
			log.Printf("label %d moved to %.0f,%.0f", id, x, y)
		},
		ShapeDrag: func(id int64, x, y float64) {
			log.Printf("shape %d moved to %.0f,%.0f", id, x, y)
		},
		DeleteShape: func(id int64) {
			log.Printf("shape %d deleted", id)
		},
	}
	canvasOpts := []canvas.Option{canvas.WithHooks(hooks)}
	if r.config != nil {
		canvasOpts = append(canvasOpts, canvas.WithLabelStyle(r.config.LabelStyle()))
		canvasOpts = append(canvasOpts, r.config.ShapeOptions()...)
	}
	opts := []ui.Option{
		ui.WithTheme(th),
		ui.WithSource(source),
		ui.WithCanvasOptions(canvasOpts...),
		ui.WithBackend(r.client(), r.params()),
		ui.WithPrompt(prompt, tags),
		ui.WithSaveDir(r.saveDir),
		ui.WithNotifier(r.notifier),
		ui.WithOnClose(func() { log.Print("annotation window closed") }),
	}
	if history != nil {
		opts = append(opts, ui.WithHistory(history))
	}
	ui.New(opts...).Run()
	return nil
}
