package viewer

// DefaultSingleColumnWidth is the viewport width, in CSS pixels, below which
// only the right page of a spread is shown.
const DefaultSingleColumnWidth = 768

// Spread is the pair of pages shown side by side. In right-to-left order
// the right page is the earlier one.
type Spread struct {
	Right   int  `json:"right"`
	Left    int  `json:"left,omitempty"`
	HasLeft bool `json:"has_left"`
}

// ResolveSpread derives the visible pages from a state. The left page is
// present only once the page count is known and it fits in the document.
func ResolveSpread(s State) Spread {
	sp := Spread{Right: s.CurrentPage}
	if s.Known() && s.CurrentPage+1 <= s.TotalPages {
		sp.Left = s.CurrentPage + 1
		sp.HasLeft = true
	}
	return sp
}

// Visible returns the pages to render, right first. Single-column layouts
// drop the left page.
func (sp Spread) Visible(singleColumn bool) []int {
	if singleColumn || !sp.HasLeft {
		return []int{sp.Right}
	}
	return []int{sp.Right, sp.Left}
}

// Progress is the reading progress in [0, 1]. It is 0 while the page count
// is unknown and never exceeds 1, even for a stale current page.
func Progress(s State) float64 {
	if !s.Known() {
		return 0
	}
	f := float64(s.CurrentPage) / float64(s.TotalPages)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// IsSingleColumn reports whether a viewport of the given width should show
// one page at a time. A non-positive breakpoint uses the default.
func IsSingleColumn(width, breakpoint int) bool {
	if breakpoint <= 0 {
		breakpoint = DefaultSingleColumnWidth
	}
	return width < breakpoint
}
