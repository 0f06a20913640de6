package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/genlabel/internal/backend"
	"github.com/example/genlabel/internal/config"
)

func TestParseDrawRequiresOutput(t *testing.T) {
	_, err := parseDrawCmd([]string{"-source", "in.png", "line", "0", "0", "1", "1"}, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "output file is required"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseDrawErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no source", []string{"-output", "o.png", "rect", "1", "2", "3", "4"}, "source is required"},
		{"unknown op", []string{"-source", "i.png", "-output", "o.png", "star", "1", "2"}, "unsupported operation"},
		{"short op", []string{"-source", "i.png", "-output", "o.png", "rect", "1", "2"}, "requires 4 numeric"},
		{"bad number", []string{"-source", "i.png", "-output", "o.png", "line", "1", "x", "3", "4"}, "invalid number"},
		{"empty label", []string{"-source", "i.png", "-output", "o.png", "label", "1", "2", " "}, "cannot be empty"},
		{"bad radius", []string{"-source", "i.png", "-output", "o.png", "circle", "1", "2", "0"}, "radius"},
		{"bad extension", []string{"-source", "i.png", "-output", "o.gif", "line", "0", "0", "1", "1"}, "unsupported export type"},
		{"bad color", []string{"-source", "i.png", "-output", "o.png", "-color", "#12", "line", "0", "0", "1", "1"}, "invalid color"},
		{"bad opacity", []string{"-source", "i.png", "-output", "o.png", "-opacity", "2", "line", "0", "0", "1", "1"}, "opacity"},
		{"missing value", []string{"-source"}, "requires a value"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseDrawCmd(tc.args, nil)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestParseDrawNoOpsIsUsage(t *testing.T) {
	_, err := parseDrawCmd([]string{"-source", "i.png", "-output", "o.png"}, nil)
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if help := uerr.Error(); !strings.Contains(help, "genlabel draw") || !strings.Contains(help, "-webp-quality") {
		t.Fatalf("help output missing program or flags:\n%s", help)
	}
}

func TestSplitDrawArgs(t *testing.T) {
	flags, pos, err := splitDrawArgs([]string{
		"--source=in.png", "label", "5", "6", "hello", "-Output", "o.png", "-shadow", "-3", "--", "-color",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(flags, " "); got != "-source=in.png -output o.png -shadow" {
		t.Fatalf("flags = %q", got)
	}
	if got := strings.Join(pos, " "); got != "label 5 6 hello -3 -color" {
		t.Fatalf("positionals = %q", got)
	}
}

func TestParseDrawOpsChains(t *testing.T) {
	ops, err := parseDrawOps([]string{"rect", "1", "2", "3", "4", "label", "5", "6", "two words", "circle", "7", "8", "9"})
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 3 || ops[1].text != "two words" || ops[2].nums[2] != 9 {
		t.Fatalf("ops = %+v", ops)
	}
}

func TestTagListAndResolve(t *testing.T) {
	var l tagList
	l.Set("1, cartoon style")
	l.Set("12")
	if l.String() != "1,cartoon style,12" {
		t.Fatalf("tags = %q", l.String())
	}
	ids, err := resolveTags(backend.FallbackTags(), l)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(ids, ",") != "1,8,12" {
		t.Fatalf("ids = %v", ids)
	}
	if _, err := resolveTags(backend.FallbackTags(), []string{"neon"}); err == nil {
		t.Fatal("expected unknown tag error")
	}
}

func TestGenerateRun(t *testing.T) {
	var body map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/tags", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"1":"vibrant colors","2":", sunny day"}`))
	})
	mux.HandleFunc("/generate", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"image_path":"/images/out.png"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	r := &root{program: "genlabel", config: config.New(), backendURL: srv.URL}
	g, err := parseGenerateCmd([]string{"-prompt", " a bird ", "-tag", "sunny day", "-annotate"}, r)
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	g.out = &out
	var opened string
	g.open = func(src string) error { opened = src; return nil }
	if err := g.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := srv.URL + "/images/out.png"
	if strings.TrimSpace(out.String()) != want || opened != want {
		t.Fatalf("printed %q opened %q, want %q", out.String(), opened, want)
	}
	if body["prompt"] != "a bird" {
		t.Fatalf("prompt = %v", body["prompt"])
	}
	if tags, _ := body["selected_tags"].([]any); len(tags) != 1 || tags[0] != "2" {
		t.Fatalf("selected_tags = %v", body["selected_tags"])
	}
}

func TestGenerateRejectsBadParams(t *testing.T) {
	r := &root{program: "genlabel", config: config.New()}
	if _, err := parseGenerateCmd([]string{"-prompt", "x", "-steps", "5"}, r); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := parseGenerateCmd([]string{"-prompt", "x", "-size", "100x100"}, r); err == nil {
		t.Fatal("expected size error")
	}
}

func TestConfigPrint(t *testing.T) {
	cfg := config.New()
	cfg.Backend = "http://example.test:9000"
	r := &root{program: "genlabel", config: cfg}
	c, err := parseConfigCmd([]string{"print"}, r)
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	c.out = &out
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "backend = http://example.test:9000") {
		t.Fatalf("config output:\n%s", out.String())
	}
	bad, err := parseConfigCmd([]string{"frobnicate"}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := bad.Run(); err == nil {
		t.Fatal("expected unknown command error")
	}
}

func TestRootUnknownCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	err := newRoot().Run([]string{"bogus"})
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestBackendPrecedence(t *testing.T) {
	cfg := config.New()
	cfg.Backend = "http://from-config"
	r := &root{config: cfg}
	t.Setenv("GENLABEL_BACKEND", "")
	if got := r.backendBase(); got != "http://from-config" {
		t.Fatalf("config backend = %q", got)
	}
	t.Setenv("GENLABEL_BACKEND", "http://from-env")
	if got := r.backendBase(); got != "http://from-env" {
		t.Fatalf("env backend = %q", got)
	}
	r.backendURL = "http://from-flag"
	if got := r.backendBase(); got != "http://from-flag" {
		t.Fatalf("flag backend = %q", got)
	}
	t.Setenv("GENLABEL_BACKEND", "")
	if got := (&root{}).backendBase(); got != backend.DefaultBaseURL {
		t.Fatalf("default backend = %q", got)
	}
}
