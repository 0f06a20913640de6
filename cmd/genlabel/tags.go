package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/example/genlabel/internal/backend"
)

const requestTimeout = 2 * time.Minute

type tagsCmd struct {
	*root
	fs  *flag.FlagSet
	out io.Writer
}

func (t *tagsCmd) FlagSet() *flag.FlagSet {
	return t.fs
}

func parseTagsCmd(args []string, r *root) (*tagsCmd, error) {
	fs := flag.NewFlagSet("tags", flag.ExitOnError)
	t := &tagsCmd{root: r.subcommand("tags"), fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(t)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: t}
	}
	return t, nil
}

func (t *tagsCmd) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	tags, err := t.client().Tags(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v; showing built-in tags\n", err)
	}
	for _, tag := range tags {
		fmt.Fprintf(t.out, "%s\t%s\n", tag.ID, tag.Name)
	}
	return nil
}

// tagList collects repeated -tag flags.
type tagList []string

func (l *tagList) String() string { return strings.Join(*l, ",") }

func (l *tagList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

// resolveTags maps ids or names to tag ids using the offered list.
func resolveTags(offered []backend.Tag, keys []string) ([]string, error) {
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		tag, ok := backend.FindTag(offered, k)
		if !ok {
			return nil, fmt.Errorf("unknown tag %q", k)
		}
		ids = append(ids, tag.ID)
	}
	return ids, nil
}
