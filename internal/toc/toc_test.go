package toc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ziadkadry99/bookview/internal/viewer"
)

func TestSelect(t *testing.T) {
	s, err := viewer.New().SetTotalPages(15)
	if err != nil {
		t.Fatalf("SetTotalPages: %v", err)
	}
	s = s.SetSidebar(true)
	entry := Entry{ID: 3, Title: "Chapter Two", TargetPage: 8, Kind: KindChapter}

	wide, err := viewer.ApplyAll(s, Select(entry, false)...)
	if err != nil {
		t.Fatalf("ApplyAll: %v", err)
	}
	if wide.CurrentPage != 7 {
		t.Errorf("CurrentPage = %d, want 7", wide.CurrentPage)
	}
	if !wide.SidebarOpen {
		t.Error("sidebar should stay open on wide layouts")
	}

	narrow, err := viewer.ApplyAll(s, Select(entry, true)...)
	if err != nil {
		t.Fatalf("ApplyAll: %v", err)
	}
	if narrow.CurrentPage != 7 {
		t.Errorf("CurrentPage = %d, want 7", narrow.CurrentPage)
	}
	if narrow.SidebarOpen {
		t.Error("sidebar should close on single-column layouts")
	}
}

func TestActiveIndex(t *testing.T) {
	entries := Default()
	tests := []struct {
		page int
		want int
	}{
		{1, 0},
		{3, 0},
		{5, 1},
		{7, 1},
		{9, 2},
		{13, 3},
		{15, 4},
		{99, 4},
	}
	for _, tt := range tests {
		if got := ActiveIndex(entries, tt.page); got != tt.want {
			t.Errorf("ActiveIndex(page %d) = %d, want %d", tt.page, got, tt.want)
		}
	}

	late := []Entry{{ID: 1, Title: "Late", TargetPage: 5, Kind: KindChapter}}
	if got := ActiveIndex(late, 3); got != -1 {
		t.Errorf("ActiveIndex before first entry = %d, want -1", got)
	}
	if got := ActiveIndex(nil, 3); got != -1 {
		t.Errorf("ActiveIndex(nil) = %d, want -1", got)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("Validate(Default()): %v", err)
	}

	tests := []struct {
		name    string
		entries []Entry
	}{
		{"duplicate id", []Entry{
			{ID: 1, Title: "A", TargetPage: 1, Kind: KindChapter},
			{ID: 1, Title: "B", TargetPage: 2, Kind: KindChapter},
		}},
		{"zero page", []Entry{{ID: 1, Title: "A", TargetPage: 0, Kind: KindChapter}}},
		{"missing title", []Entry{{ID: 1, TargetPage: 3, Kind: KindChapter}}},
		{"unknown kind", []Entry{{ID: 1, Title: "A", TargetPage: 3, Kind: "appendix"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.entries); !errors.Is(err, ErrInvalidEntry) {
				t.Errorf("Validate err = %v, want ErrInvalidEntry", err)
			}
		})
	}
}

func TestFindAndNumber(t *testing.T) {
	e, ok := Find(Default(), 4)
	if !ok || e.TargetPage != 12 || e.Kind != KindSection {
		t.Errorf("Find(4) = %+v, %v", e, ok)
	}
	if _, ok := Find(Default(), 42); ok {
		t.Error("Find(42) should fail")
	}
	if got := Number(0); got != "01" {
		t.Errorf("Number(0) = %q, want 01", got)
	}
	if got := Number(11); got != "12" {
		t.Errorf("Number(11) = %q, want 12", got)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toc.yml")
	content := `entries:
  - title: Cover
    page: 1
  - id: 7
    title: Appendix
    page: 20
    kind: section
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ID != 1 || entries[0].Kind != KindChapter || entries[0].TargetPage != 1 {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].ID != 7 || entries[1].Kind != KindSection || entries[1].TargetPage != 20 {
		t.Errorf("entries[1] = %+v", entries[1])
	}
}

func TestLoadMarkdown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toc.md")
	content := `# Introduction | 1

Some prose that is ignored.

# Chapter One: Governance | 4

## Data Strategy | 12

### Notes without a page
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	want := []Entry{
		{ID: 1, Title: "Introduction", TargetPage: 1, Kind: KindChapter},
		{ID: 2, Title: "Chapter One: Governance", TargetPage: 4, Kind: KindChapter},
		{ID: 3, Title: "Data Strategy", TargetPage: 12, Kind: KindSection},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %+v, want %+v", entries, want)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entries[%d] = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	if entries, err := LoadFile(""); err != nil || len(entries) != len(Default()) {
		t.Errorf("LoadFile(\"\") = %d entries, %v", len(entries), err)
	}
	if _, err := LoadFile(filepath.Join(dir, "missing.yml")); err == nil {
		t.Error("expected error for missing file")
	}

	txt := filepath.Join(dir, "toc.txt")
	os.WriteFile(txt, []byte("x"), 0o644)
	if _, err := LoadFile(txt); err == nil {
		t.Error("expected error for unsupported extension")
	}

	bad := filepath.Join(dir, "bad.yml")
	os.WriteFile(bad, []byte("entries:\n  - title: Zero\n    page: 0\n"), 0o644)
	if _, err := LoadFile(bad); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("LoadFile(bad) err = %v, want ErrInvalidEntry", err)
	}
}
