package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ziadkadry99/bookview/internal/progress"
	"github.com/ziadkadry99/bookview/internal/renderer"
	"github.com/ziadkadry99/bookview/internal/session"
)

// fakeRenderer implements renderer.Renderer for testing.
type fakeRenderer struct {
	total  int
	broken map[int]bool
}

func (f *fakeRenderer) Load(_ context.Context, source string) (renderer.Document, error) {
	return renderer.Document{Source: source, TotalPages: f.total}, nil
}

func (f *fakeRenderer) RenderPage(_ context.Context, page int, scale float64) (*renderer.Surface, error) {
	if f.broken[page] {
		return nil, &renderer.RenderError{Page: page, Reason: renderer.ErrDecodeFailed}
	}
	return &renderer.Surface{
		Page:   page,
		Scale:  scale,
		Width:  200 * scale,
		Height: 300 * scale,
		Images: []renderer.Image{{Name: "Im1", Width: 1, Height: 1, PNG: []byte("png")}},
	}, nil
}

func loadedSession(t *testing.T, rend renderer.Renderer) *session.Session {
	t.Helper()
	sess := session.New("export", rend, session.Options{Source: "book.pdf"})
	if err := sess.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return sess
}

func TestExportSpreads(t *testing.T) {
	sess := loadedSession(t, &fakeRenderer{total: 5, broken: map[int]bool{4: true}})
	sess.SetViewport(320)

	var buf bytes.Buffer
	outDir := filepath.Join(t.TempDir(), "out")
	result, err := exportSpreads(context.Background(), sess, &progress.CIReporter{Label: "Rendering spreads", Out: &buf}, exportOptions{
		OutDir: outDir,
		Scale:  1.5,
	})
	if err != nil {
		t.Fatalf("exportSpreads: %v", err)
	}

	if result.Spreads != 3 || result.Pages != 5 {
		t.Errorf("spreads=%d pages=%d, want 3 and 5", result.Spreads, result.Pages)
	}
	if len(result.Failures) != 1 || result.Failures[0].Page != 4 || result.Failures[0].ErrorKind != session.SlotDecodeFailed {
		t.Errorf("failures = %+v, want page 4 decode_failed", result.Failures)
	}
	if sess.State().CurrentPage != 5 {
		t.Errorf("walk should end on the last spread, at page %d", sess.State().CurrentPage)
	}

	log := buf.String()
	for _, want := range []string{"Rendering spreads: 3 spreads", "[1/3] pages 1-2", "[2/3] pages 3-4", "[3/3] pages 5"} {
		if !strings.Contains(log, want) {
			t.Errorf("progress output missing %q:\n%s", want, log)
		}
	}

	data, err := os.ReadFile(filepath.Join(outDir, "page-003.json"))
	if err != nil {
		t.Fatalf("reading page-003.json: %v", err)
	}
	var surface renderer.Surface
	if err := json.Unmarshal(data, &surface); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if surface.Width != 300 || surface.Scale != 1.5 {
		t.Errorf("surface = %+v, want width 300 at scale 1.5", surface)
	}
	if len(surface.Images) != 1 || surface.Images[0].PNG != nil {
		t.Errorf("images should be listed without inline data: %+v", surface.Images)
	}
	if _, err := os.Stat(filepath.Join(outDir, "page-003-img-01.png")); err != nil {
		t.Errorf("image file not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "page-004.json")); !os.IsNotExist(err) {
		t.Errorf("failed page should not be written, stat err = %v", err)
	}
}

func TestExportSpreadsPageCounts(t *testing.T) {
	tests := []struct {
		total   int
		spreads int
		last    int
	}{
		{total: 1, spreads: 1, last: 1},
		{total: 2, spreads: 1, last: 1},
		{total: 9, spreads: 5, last: 9},
		{total: 10, spreads: 5, last: 9},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d pages", tt.total), func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			sess := loadedSession(t, &fakeRenderer{total: tt.total})
			result, err := exportSpreads(ctx, sess, progress.Nop{}, exportOptions{})
			if err != nil {
				t.Fatalf("exportSpreads: %v", err)
			}
			if result.Spreads != tt.spreads || result.Pages != tt.total {
				t.Errorf("spreads=%d pages=%d, want %d and %d", result.Spreads, result.Pages, tt.spreads, tt.total)
			}
			if got := sess.State().CurrentPage; got != tt.last {
				t.Errorf("walk ended on page %d, want %d", got, tt.last)
			}
		})
	}
}

func TestExportSpreadsRequiresLoadedDocument(t *testing.T) {
	sess := session.New("export", &fakeRenderer{total: 3}, session.Options{})
	_, err := exportSpreads(context.Background(), sess, progress.Nop{}, exportOptions{})
	if !errors.Is(err, renderer.ErrNotLoaded) {
		t.Errorf("err = %v, want ErrNotLoaded", err)
	}
}
