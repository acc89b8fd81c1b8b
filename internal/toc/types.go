package toc

import (
	"errors"
	"fmt"
)

// Kind distinguishes top-level chapters from nested sections.
type Kind string

const (
	KindChapter Kind = "chapter"
	KindSection Kind = "section"
)

// Entry is one row of the table-of-contents sidebar.
type Entry struct {
	ID         int    `yaml:"id" json:"id"`
	Title      string `yaml:"title" json:"title"`
	TargetPage int    `yaml:"page" json:"target_page"`
	Kind       Kind   `yaml:"kind" json:"kind"`
}

// ErrInvalidEntry is returned by Validate for malformed entries.
var ErrInvalidEntry = errors.New("invalid toc entry")

// Validate checks that ids are unique, titles are set, target pages are
// positive and kinds are known.
func Validate(entries []Entry) error {
	seen := make(map[int]bool, len(entries))
	for i, e := range entries {
		if seen[e.ID] {
			return fmt.Errorf("entry %d: duplicate id %d: %w", i, e.ID, ErrInvalidEntry)
		}
		seen[e.ID] = true
		if e.Title == "" {
			return fmt.Errorf("entry %d: title is required: %w", i, ErrInvalidEntry)
		}
		if e.TargetPage <= 0 {
			return fmt.Errorf("entry %d (%s): page must be positive, got %d: %w", i, e.Title, e.TargetPage, ErrInvalidEntry)
		}
		if e.Kind != KindChapter && e.Kind != KindSection {
			return fmt.Errorf("entry %d (%s): unknown kind %q: %w", i, e.Title, e.Kind, ErrInvalidEntry)
		}
	}
	return nil
}

// Find returns the entry with the given id.
func Find(entries []Entry, id int) (Entry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Number formats a zero-based position as the two-digit label shown next
// to each sidebar row.
func Number(i int) string {
	return fmt.Sprintf("%02d", i+1)
}

// Default is the sample contents used when no TOC file is configured.
func Default() []Entry {
	return []Entry{
		{ID: 1, Title: "Introduction to Digital Transformation", TargetPage: 1, Kind: KindChapter},
		{ID: 2, Title: "Chapter One: Governance", TargetPage: 4, Kind: KindChapter},
		{ID: 3, Title: "Chapter Two: Innovation", TargetPage: 8, Kind: KindChapter},
		{ID: 4, Title: "Data Strategy", TargetPage: 12, Kind: KindSection},
		{ID: 5, Title: "Conclusion and Recommendations", TargetPage: 15, Kind: KindSection},
	}
}
