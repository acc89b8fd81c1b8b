package mcp

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/bookview/internal/renderer"
	"github.com/ziadkadry99/bookview/internal/session"
	"github.com/ziadkadry99/bookview/internal/toc"
	"github.com/ziadkadry99/bookview/internal/viewer"
)

// handleGetState returns the current snapshot.
func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(formatSnapshot(s.sess.Snapshot(ctx), s.sess.TOC())), nil
}

func (s *Server) handleRequestPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := request.RequireInt("page")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: page"), nil
	}
	return s.apply(ctx, viewer.RequestPage(page))
}

func (s *Server) handleNextSpread(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.apply(ctx, viewer.NextSpread())
}

func (s *Server) handlePrevSpread(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.apply(ctx, viewer.PrevSpread())
}

func (s *Server) handleZoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	delta, err := request.RequireFloat("delta")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: delta"), nil
	}
	return s.apply(ctx, viewer.Zoom(delta))
}

func (s *Server) handleToggleSidebar(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.apply(ctx, viewer.ToggleSidebar())
}

// handleListTOC lists the table of contents, marking the active entry.
func (s *Server) handleListTOC(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries := s.sess.TOC()
	if len(entries) == 0 {
		return mcp.NewToolResultText("The document has no table of contents."), nil
	}
	return mcp.NewToolResultText(formatTOC(entries, s.sess.State().CurrentPage)), nil
}

func (s *Server) handleSelectTOC(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireInt("entry_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: entry_id"), nil
	}
	snap, err := s.sess.SelectTOC(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%v. Use list_toc to see the available entries.", err)), nil
	}
	return mcp.NewToolResultText(formatSnapshot(snap, s.sess.TOC())), nil
}

// handleGetPageText returns the extracted text of one page, or of every
// visible page when no page is given.
func (s *Server) handleGetPageText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var pages []int
	if page := request.GetInt("page", 0); page != 0 {
		pages = []int{page}
	} else {
		pages = viewer.ResolveSpread(s.sess.State()).Visible(false)
	}

	var sb strings.Builder
	for _, page := range pages {
		surface, err := s.sess.RenderPage(ctx, page)
		if err != nil {
			if len(pages) == 1 {
				return mcp.NewToolResultError(fmt.Sprintf("page %d: %v", page, err)), nil
			}
			sb.WriteString(fmt.Sprintf("--- Page %d ---\n(unavailable: %v)\n\n", page, err))
			continue
		}
		sb.WriteString(fmt.Sprintf("--- Page %d ---\n", page))
		if text := pageText(surface); text != "" {
			sb.WriteString(text)
		} else {
			sb.WriteString("(no text)")
		}
		sb.WriteString("\n\n")
	}
	return mcp.NewToolResultText(strings.TrimRight(sb.String(), "\n")), nil
}

// handleReload retries the document load and reports the outcome.
func (s *Server) handleReload(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.sess.Load(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reload failed: %v", err)), nil
	}
	return mcp.NewToolResultText(formatSnapshot(s.sess.Snapshot(ctx), s.sess.TOC())), nil
}

func (s *Server) apply(ctx context.Context, in viewer.Intent) (*mcp.CallToolResult, error) {
	snap, err := s.sess.Apply(ctx, in)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", in.Kind, err)), nil
	}
	return mcp.NewToolResultText(formatSnapshot(snap, s.sess.TOC())), nil
}

// formatSnapshot renders a snapshot as text for AI agent consumption.
func formatSnapshot(snap session.Snapshot, entries []toc.Entry) string {
	var sb strings.Builder
	st := snap.State

	switch {
	case snap.Spread.HasLeft:
		sb.WriteString(fmt.Sprintf("Pages: %d (right) and %d (left)", snap.Spread.Right, snap.Spread.Left))
	default:
		sb.WriteString(fmt.Sprintf("Page: %d", snap.Spread.Right))
	}
	if st.Known() {
		sb.WriteString(fmt.Sprintf(" of %d (%.0f%%)\n", st.TotalPages, snap.Progress*100))
	} else {
		sb.WriteString(" of unknown\n")
	}

	sb.WriteString(fmt.Sprintf("Zoom: %.0f%%\n", st.Scale*100))
	if st.SidebarOpen {
		sb.WriteString("Sidebar: open\n")
	} else {
		sb.WriteString("Sidebar: closed\n")
	}
	if snap.ActiveTOC >= 0 && snap.ActiveTOC < len(entries) {
		e := entries[snap.ActiveTOC]
		sb.WriteString(fmt.Sprintf("Section: %s %s\n", toc.Number(snap.ActiveTOC), e.Title))
	}
	sb.WriteString(fmt.Sprintf("Can go next: %t, previous: %t\n", snap.CanNext, snap.CanPrev))

	switch snap.Load {
	case session.LoadPending:
		sb.WriteString("Document: loading\n")
	case session.LoadFailed:
		sb.WriteString(fmt.Sprintf("Document: failed to load (%s). Use reload_document to retry.\n", snap.LoadError))
	}

	for _, slot := range snap.Slots {
		if !slot.OK() {
			sb.WriteString(fmt.Sprintf("  page %d: %s\n", slot.Page, slot.ErrorKind))
			continue
		}
		sb.WriteString(fmt.Sprintf("  page %d: %.0fx%.0f, %d text fragments, %d images\n",
			slot.Page, slot.Surface.Width, slot.Surface.Height, len(slot.Surface.Fragments), len(slot.Surface.Images)))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// formatTOC lists entries with their sidebar numbers.
func formatTOC(entries []toc.Entry, currentPage int) string {
	var sb strings.Builder
	active := toc.ActiveIndex(entries, currentPage)
	for i, e := range entries {
		marker := " "
		if i == active {
			marker = "*"
		}
		indent := ""
		if e.Kind == toc.KindSection {
			indent = "  "
		}
		sb.WriteString(fmt.Sprintf("%s %s %s%s (id %d, page %d)\n", marker, toc.Number(i), indent, e.Title, e.ID, e.TargetPage))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// pageText joins a surface's fragments into lines, top to bottom. A
// fragment joins the current line when its baseline is within half a font
// size of the line's first fragment; each line then reads left to right.
func pageText(surface *renderer.Surface) string {
	frags := slices.Clone(surface.Fragments)
	slices.SortStableFunc(frags, func(a, b renderer.Fragment) int {
		return cmp.Compare(b.Y, a.Y)
	})

	var lines [][]renderer.Fragment
	for _, f := range frags {
		if n := len(lines); n > 0 {
			first := lines[n-1][0]
			if math.Abs(first.Y-f.Y) <= lineTolerance(first, f) {
				lines[n-1] = append(lines[n-1], f)
				continue
			}
		}
		lines = append(lines, []renderer.Fragment{f})
	}

	var out []string
	for _, line := range lines {
		slices.SortStableFunc(line, func(a, b renderer.Fragment) int {
			return cmp.Compare(a.X, b.X)
		})
		var words []string
		for _, f := range line {
			if t := strings.TrimSpace(f.Text); t != "" {
				words = append(words, t)
			}
		}
		if len(words) > 0 {
			out = append(out, strings.Join(words, " "))
		}
	}
	return strings.Join(out, "\n")
}

func lineTolerance(a, b renderer.Fragment) float64 {
	size := max(a.FontSize, b.FontSize)
	if size <= 0 {
		size = 10
	}
	return size / 2
}
