// Package assets carries the application icon.
package assets

import (
	"bytes"
	"embed"
	"fmt"
	"image/png"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
)

//go:embed icons/*.png
var embeddedIcons embed.FS

var (
	loadIconsOnce sync.Once
	loadIconsErr  error
	iconData      = map[int][]byte{}

	fileMu sync.Mutex
	files  = map[int]string{}

	// cacheDir is swapped in tests.
	cacheDir = os.UserCacheDir
)

// loadIcons indexes icons named genlabel-<size>.png by size and checks that
// each one decodes.
func loadIcons() {
	entries, err := fs.ReadDir(embeddedIcons, "icons")
	if err != nil {
		loadIconsErr = err
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		base := strings.TrimSuffix(name, ".png")
		idx := strings.LastIndex(base, "-")
		if idx == -1 {
			continue
		}
		size, err := strconv.Atoi(base[idx+1:])
		if err != nil {
			continue
		}
		data, err := embeddedIcons.ReadFile(path.Join("icons", name))
		if err != nil {
			loadIconsErr = err
			return
		}
		if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
			loadIconsErr = fmt.Errorf("icon %s: %w", name, err)
			return
		}
		iconData[size] = data
	}
}

func ensureIcons() error {
	loadIconsOnce.Do(loadIcons)
	return loadIconsErr
}

// IconSizes lists the embedded icon sizes in ascending order.
func IconSizes() []int {
	if err := ensureIcons(); err != nil {
		return nil
	}
	sizes := make([]int, 0, len(iconData))
	for size := range iconData {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)
	return sizes
}

// IconPNG returns a copy of the PNG bytes for the smallest embedded icon at
// least size pixels wide, or the largest one.
func IconPNG(size int) ([]byte, error) {
	sizes := IconSizes()
	if len(sizes) == 0 {
		if err := ensureIcons(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("no icons embedded")
	}
	pick := sizes[len(sizes)-1]
	for _, s := range sizes {
		if s >= size {
			pick = s
			break
		}
	}
	return append([]byte(nil), iconData[pick]...), nil
}

// IconFile writes the icon to the user cache directory once and returns
// its path, for APIs that take an icon by file name.
func IconFile(size int) (string, error) {
	fileMu.Lock()
	defer fileMu.Unlock()
	if p, ok := files[size]; ok {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	data, err := IconPNG(size)
	if err != nil {
		return "", err
	}
	dir, err := cacheDir()
	if err != nil {
		return "", fmt.Errorf("icon cache dir: %w", err)
	}
	dir = filepath.Join(dir, "genlabel")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("icon cache dir: %w", err)
	}
	p := filepath.Join(dir, fmt.Sprintf("icon-%d.png", size))
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("write icon: %w", err)
	}
	files[size] = p
	return p, nil
}
