package imagesrc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DownloadName is the file name downloads are saved under.
const DownloadName = "generated_image.png"

// Download saves the raw bytes of src into dir as DownloadName and returns
// the written path. An empty dir means the working directory.
func (l *Loader) Download(ctx context.Context, src, dir string) (string, error) {
	data, err := l.Fetch(ctx, src)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, DownloadName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
