package catalog

import (
	"slices"
	"strings"
	"time"
)

// PerPage is the fixed listing page size.
const PerPage = 50

// Translation is a single localized string.
// (Locale, Key) is not unique: duplicates are allowed and the export
// projection resolves them by id order.
type Translation struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Locale    string    `json:"locale"`
	Key       string    `json:"key"`
	Content   string    `json:"content"`
	Tags      []Tag     `json:"tags,omitempty"`
	ID        int64     `json:"id"`
}

// Tag labels translations by platform or surface.
type Tag struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
}

// TagIDs returns the ids of tags in order.
func TagIDs(tags []Tag) []int64 {
	ids := make([]int64, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids
}

// ListFilter narrows the listing. Empty fields are not applied.
type ListFilter struct {
	Locale  string
	Tag     string
	Key     string // substring
	Content string // substring
}

// ExportFilter selects the export view. Locale is required. A nil Tags
// applies no tag filter; otherwise a row matches if it carries any of them,
// so a non-nil empty list matches nothing.
type ExportFilter struct {
	Locale string
	Tags   []string
}

// ParseTags splits a comma-separated tag list, trimming blanks, dropping
// empties and duplicates, and keeping first-seen order.
func ParseTags(raw string) []string {
	var tags []string
	for part := range strings.SplitSeq(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" || slices.Contains(tags, part) {
			continue
		}
		tags = append(tags, part)
	}
	return tags
}

// Page is one page of a listing.
type Page struct {
	Items   []Translation
	Total   int64
	Page    int
	PerPage int
}

// LastPage is the number of the final page, at least 1.
func (p Page) LastPage() int {
	if p.Total == 0 || p.PerPage == 0 {
		return 1
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

// From is the 1-based position of the first item, or 0 for an empty page.
func (p Page) From() int {
	if len(p.Items) == 0 {
		return 0
	}
	return (p.Page-1)*p.PerPage + 1
}

// To is the 1-based position of the last item, or 0 for an empty page.
func (p Page) To() int {
	if len(p.Items) == 0 {
		return 0
	}
	return p.From() + len(p.Items) - 1
}
