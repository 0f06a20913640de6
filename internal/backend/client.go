// Package backend talks to the image generation service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultBaseURL is where the generation service listens by default.
const DefaultBaseURL = "http://localhost:8000"

// Client calls the generation service.
type Client struct {
	base string
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option { return func(cl *Client) { cl.http = c } }

// New returns a client for the service at base. An empty base uses
// DefaultBaseURL.
func New(base string, opts ...Option) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	c := &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 5 * time.Minute},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the service root without a trailing slash.
func (c *Client) BaseURL() string { return c.base }

// Request describes one generation.
type Request struct {
	Prompt string
	Tags   []string
	Params
}

type generateBody struct {
	Prompt        string   `json:"prompt"`
	SelectedTags  []string `json:"selected_tags"`
	Steps         int      `json:"steps"`
	GuidanceScale float64  `json:"guidance_scale"`
	Height        int      `json:"height"`
	Width         int      `json:"width"`
}

type generateReply struct {
	ImagePath string `json:"image_path"`
	Error     string `json:"error"`
}

// Generate asks the service for a new image and returns its path as the
// service reports it, usually relative to the base URL.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if err := req.Params.Validate(); err != nil {
		return "", err
	}
	height, width, err := ParseSize(req.Size)
	if err != nil {
		return "", err
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	body, err := json.Marshal(generateBody{
		Prompt:        req.Prompt,
		SelectedTags:  tags,
		Steps:         req.Steps,
		GuidanceScale: req.GuidanceScale,
		Height:        height,
		Width:         width,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	var reply generateReply
	if err := c.do(ctx, http.MethodPost, "/generate", bytes.NewReader(body), &reply); err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	if reply.Error != "" {
		return "", fmt.Errorf("generate: %s", reply.Error)
	}
	if reply.ImagePath == "" {
		return "", errors.New("generate: response has no image_path")
	}
	return reply.ImagePath, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "close response: %v\n", cerr)
		}
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
