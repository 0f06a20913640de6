package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/genlabel/internal/imagesrc"
)

type downloadCmd struct {
	source string
	dir    string
	*root
	fs  *flag.FlagSet
	out io.Writer
}

func (d *downloadCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseDownloadCmd(args []string, r *root) (*downloadCmd, error) {
	fs := flag.NewFlagSet("download", flag.ExitOnError)
	d := &downloadCmd{root: r.subcommand("download"), fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.source, "source", "", "image to save: path, URL, clipboard: or screenshot:")
	fs.StringVar(&d.dir, "dir", d.saveDir, "directory to write "+imagesrc.DownloadName+" into")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if d.source == "" && fs.NArg() == 1 {
		d.source = fs.Arg(0)
	}
	if d.source == "" || fs.NArg() > 1 {
		return nil, &UsageError{of: d}
	}
	return d, nil
}

func (d *downloadCmd) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	path, err := imagesrc.NewLoader().Download(ctx, d.source, d.dir)
	if err != nil {
		return fmt.Errorf("download %s: %w", d.source, err)
	}
	fmt.Fprintln(d.out, path)
	d.notifyDownload(path)
	return nil
}
