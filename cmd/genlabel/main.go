package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/example/genlabel/internal/backend"
	"github.com/example/genlabel/internal/config"
	"github.com/example/genlabel/internal/notify"
	"github.com/example/genlabel/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs       *flag.FlagSet
	program  string
	notifier *notify.Notifier
	config   *config.Config

	generateAlerts bool
	downloadAlerts bool
	exportAlerts   bool
	copyAlerts     bool
	themeName      string
	backendURL     string
	saveDir        string
	activeTheme    *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

// subcommand returns a copy of r whose program name includes name, for
// help output.
func (r *root) subcommand(name string) *root {
	if r == nil {
		return &root{program: "genlabel " + name}
	}
	child := *r
	child.fs = nil
	child.program = strings.TrimSpace(r.program + " " + name)
	return &child
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("genlabel", flag.ExitOnError),
		program:  "genlabel",
		notifier: notify.New(prefs),
		config:   cfg,
	}
	r.fs.BoolVar(&r.generateAlerts, "notify-generate", cfg.Notify.Generate, "show a desktop notification when a generated image arrives")
	r.fs.BoolVar(&r.downloadAlerts, "notify-download", cfg.Notify.Download, "show a desktop notification after downloading an image")
	r.fs.BoolVar(&r.exportAlerts, "notify-export", cfg.Notify.Export, "show a desktop notification after exporting an annotated image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.StringVar(&r.saveDir, "save-dir", cfg.SaveDir, "directory downloads and exports are written to")

	// Precedence: CLI > Env > Config > Default. Empty defaults are resolved
	// in Run.
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (default, dark or a theme file)")
	r.fs.StringVar(&r.backendURL, "backend", "", "base URL of the image generation service")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventGenerate, r.generateAlerts)
		r.notifier.Enable(notify.EventDownload, r.downloadAlerts)
		r.notifier.Enable(notify.EventExport, r.exportAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}
	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "annotate":
		cmd, err = parseAnnotateCmd(subArgs, r)
	case "generate":
		cmd, err = parseGenerateCmd(subArgs, r)
	case "tags":
		cmd, err = parseTagsCmd(subArgs, r)
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r)
	case "download":
		cmd, err = parseDownloadCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// resolveTheme picks the theme named by the flag, then GENLABEL_THEME, then
// the config file. Named sections in the config win over theme files.
func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = os.Getenv("GENLABEL_THEME")
	}
	if name == "" && r.config != nil {
		name = r.config.Theme
	}
	if r.config != nil {
		if t, ok := r.config.Themes[name]; ok {
			return t
		}
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		if name != "default" {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}

// backendBase follows the same precedence as the theme.
func (r *root) backendBase() string {
	if u := strings.TrimSpace(r.backendURL); u != "" {
		return u
	}
	if u := strings.TrimSpace(os.Getenv("GENLABEL_BACKEND")); u != "" {
		return u
	}
	if r.config != nil && r.config.Backend != "" {
		return r.config.Backend
	}
	return backend.DefaultBaseURL
}

func (r *root) client() *backend.Client {
	return backend.New(r.backendBase())
}

func (r *root) params() backend.Params {
	if r == nil || r.config == nil {
		return backend.DefaultParams()
	}
	return r.config.Generate
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (r *root) notifyGenerate(prompt string, img image.Image) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Generate(prompt, img)
}

func (r *root) notifyDownload(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Download(path)
}

func (r *root) notifyExport(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Export(path)
}

func (r *root) notifyCopy(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail)
}
