package toc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// file is the on-disk YAML layout.
type file struct {
	Entries []Entry `yaml:"entries"`
}

// LoadFile reads a table of contents from path. YAML files hold an
// "entries" list; Markdown files use headings, one per entry:
//
//	# Chapter One: Governance | 4
//	## Data Strategy | 12
//
// Level-1 headings become chapters and deeper headings become sections.
// An empty path returns Default().
func LoadFile(path string) ([]Entry, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading toc %s: %w", path, err)
	}

	var entries []Entry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		entries, err = ParseYAML(data)
	case ".md", ".markdown":
		entries, err = ParseMarkdown(data)
	default:
		return nil, fmt.Errorf("unsupported toc format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parsing toc %s: %w", path, err)
	}
	if err := Validate(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ParseYAML decodes the YAML layout. Missing ids are assigned from the
// entry position and a missing kind defaults to chapter.
func ParseYAML(data []byte) ([]Entry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	for i := range f.Entries {
		if f.Entries[i].ID == 0 {
			f.Entries[i].ID = i + 1
		}
		if f.Entries[i].Kind == "" {
			f.Entries[i].Kind = KindChapter
		}
	}
	return f.Entries, nil
}

// ParseMarkdown extracts entries from Markdown headings of the form
// "Title | page". Headings without a page suffix are skipped.
func ParseMarkdown(source []byte) ([]Entry, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var entries []Entry
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		title, page, ok := splitHeading(headingText(h, source))
		if !ok {
			return ast.WalkSkipChildren, nil
		}
		kind := KindSection
		if h.Level == 1 {
			kind = KindChapter
		}
		entries = append(entries, Entry{
			ID:         len(entries) + 1,
			Title:      title,
			TargetPage: page,
			Kind:       kind,
		})
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// headingText concatenates the raw text segments under a heading.
func headingText(h *ast.Heading, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(h, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func splitHeading(s string) (string, int, bool) {
	idx := strings.LastIndex(s, "|")
	if idx < 0 {
		return "", 0, false
	}
	title := strings.TrimSpace(s[:idx])
	page, err := strconv.Atoi(strings.TrimSpace(s[idx+1:]))
	if err != nil || title == "" {
		return "", 0, false
	}
	return title, page, true
}
