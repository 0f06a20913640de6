package backend

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Tag is a style keyword the service can append to a prompt.
type Tag struct {
	ID   string
	Name string
}

var leadingComma = regexp.MustCompile(`^,\s*`)

// FallbackTags is the list offered when the service cannot be reached.
func FallbackTags() []Tag {
	return []Tag{
		{"1", "vibrant colors"},
		{"2", "historical style"},
		{"3", "sunny day"},
		{"4", "scientific style"},
		{"5", "high detail"},
		{"6", "illustration"},
		{"7", "realistic style"},
		{"8", "cartoon style"},
		{"9", "watercolor style"},
		{"10", "ultra-realistic"},
		{"11", "labeled components"},
		{"12", "night scene"},
		{"13", "educational diagram"},
		{"14", "geological feature"},
	}
}

// Tags fetches the service's tag map. On failure the fallback list is
// returned together with the error.
func (c *Client) Tags(ctx context.Context) ([]Tag, error) {
	var raw map[string]string
	if err := c.do(ctx, http.MethodGet, "/tags", nil, &raw); err != nil {
		return FallbackTags(), fmt.Errorf("tags: %w", err)
	}
	if raw == nil {
		return FallbackTags(), fmt.Errorf("tags: invalid tags data format")
	}
	tags := make([]Tag, 0, len(raw))
	for id, name := range raw {
		tags = append(tags, Tag{ID: id, Name: strings.TrimSpace(leadingComma.ReplaceAllString(name, ""))})
	}
	sortTags(tags)
	return tags, nil
}

// sortTags orders numeric ids numerically and the rest after them by text.
func sortTags(tags []Tag) {
	sort.Slice(tags, func(i, j int) bool {
		a, aerr := strconv.Atoi(tags[i].ID)
		b, berr := strconv.Atoi(tags[j].ID)
		switch {
		case aerr == nil && berr == nil:
			return a < b
		case aerr == nil:
			return true
		case berr == nil:
			return false
		}
		return tags[i].ID < tags[j].ID
	})
}

// FindTag looks a tag up by id or case-insensitive name.
func FindTag(tags []Tag, key string) (Tag, bool) {
	for _, t := range tags {
		if t.ID == key || strings.EqualFold(t.Name, key) {
			return t, true
		}
	}
	return Tag{}, false
}
