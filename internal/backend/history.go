package backend

import (
	"sync"

	"github.com/google/uuid"
)

// Entry is one previously generated image.
type Entry struct {
	ID     string
	Src    string
	Prompt string
}

// History lists generated images newest first. It is safe for concurrent
// use.
type History struct {
	mu      sync.Mutex
	entries []Entry
}

// NewHistory returns a history holding seed in the given order.
func NewHistory(seed ...Entry) *History {
	h := &History{}
	h.entries = append(h.entries, seed...)
	return h
}

// Add records a new image at the front and returns its entry.
func (h *History) Add(src, prompt string) Entry {
	e := Entry{ID: uuid.NewString(), Src: src, Prompt: prompt}
	h.mu.Lock()
	h.entries = append([]Entry{e}, h.entries...)
	h.mu.Unlock()
	return e
}

// Get returns the i-th newest entry.
func (h *History) Get(i int) (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if i < 0 || i >= len(h.entries) {
		return Entry{}, false
	}
	return h.entries[i], true
}

// Entries returns a copy of the history, newest first.
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// SampleHistory returns example entries served by a local generator,
// resolved against base.
func SampleHistory(base string) []Entry {
	if base == "" {
		base = DefaultBaseURL
	}
	names := []struct{ file, prompt string }{
		{"image_7c737488.png", "a brightly coloured bird"},
		{"image_9ee327da.png", "an old tree (realistic)"},
		{"image_3cef27f0.png", "a lake at dawn"},
		{"image_d1b3f248.png", "an old tree (illustrated)"},
		{"image_d039f5bd.png", "cell structure diagram"},
	}
	out := make([]Entry, len(names))
	for i, n := range names {
		out[i] = Entry{ID: uuid.NewString(), Src: base + "/images/" + n.file, Prompt: n.prompt}
	}
	return out
}
