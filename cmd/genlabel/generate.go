package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/genlabel/internal/backend"
	"github.com/example/genlabel/internal/imagesrc"
)

// generateCmd asks the service for one image.
type generateCmd struct {
	prompt   string
	tags     tagList
	params   backend.Params
	dir      string
	annotate bool
	*root
	fs  *flag.FlagSet
	out io.Writer

	loader *imagesrc.Loader
	open   func(src string) error
}

func (g *generateCmd) FlagSet() *flag.FlagSet {
	return g.fs
}

func parseGenerateCmd(args []string, r *root) (*generateCmd, error) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	g := &generateCmd{root: r.subcommand("generate"), fs: fs, params: r.params(), out: os.Stdout}
	fs.Usage = usageFunc(g)
	fs.StringVar(&g.prompt, "prompt", "", "description of the image to generate")
	fs.Var(&g.tags, "tag", "style tag id or name (repeatable)")
	fs.IntVar(&g.params.Steps, "steps", g.params.Steps, fmt.Sprintf("inference steps (%d-%d)", backend.MinSteps, backend.MaxSteps))
	fs.Float64Var(&g.params.GuidanceScale, "guidance", g.params.GuidanceScale, fmt.Sprintf("guidance scale (%g-%g)", backend.MinGuidance, backend.MaxGuidance))
	fs.StringVar(&g.params.Size, "size", g.params.Size, "image size: "+strings.Join(backend.Sizes, " or "))
	fs.StringVar(&g.dir, "dir", "", "also download the image into this directory")
	fs.BoolVar(&g.annotate, "annotate", false, "open the result in the annotation window")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: g}
	}
	if err := g.params.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *generateCmd) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	client := g.client()

	var ids []string
	if len(g.tags) > 0 {
		offered, err := client.Tags(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v; matching against built-in tags\n", err)
		}
		if ids, err = resolveTags(offered, g.tags); err != nil {
			return err
		}
	}

	path, err := client.Generate(ctx, backend.Request{
		Prompt: strings.TrimSpace(g.prompt),
		Tags:   ids,
		Params: g.params,
	})
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	src := imagesrc.Resolve(client.BaseURL(), path)
	fmt.Fprintln(g.out, src)

	loader := g.loader
	if loader == nil {
		loader = imagesrc.NewLoader()
	}
	if g.generateAlerts {
		img, err := loader.Load(ctx, src)
		if err != nil {
			return fmt.Errorf("load generated image: %w", err)
		}
		g.notifyGenerate(g.prompt, img)
	}
	if g.dir != "" {
		saved, err := loader.Download(ctx, src, g.dir)
		if err != nil {
			return fmt.Errorf("download: %w", err)
		}
		fmt.Fprintf(os.Stderr, "saved %s\n", saved)
		g.notifyDownload(saved)
	}
	if g.annotate {
		open := g.open
		if open == nil {
			open = func(src string) error {
				return runWindow(g.root, src, g.prompt, ids, nil)
			}
		}
		return open(src)
	}
	return nil
}
