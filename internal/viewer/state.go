package viewer

import (
	"errors"
	"fmt"
	"math"
)

// Zoom bounds and the default step used by the zoom buttons.
const (
	MinScale     = 0.6
	MaxScale     = 2.0
	DefaultScale = 1.0
	ZoomStep     = 0.1
)

// ErrInvalidArgument is returned when a caller violates an operation's
// input contract, e.g. a non-positive page count.
var ErrInvalidArgument = errors.New("invalid argument")

// State is the single source of truth for a viewer. It is a value type:
// every operation returns a new State and leaves the receiver untouched.
type State struct {
	// TotalPages is zero until the document has finished loading.
	TotalPages  int     `json:"total_pages"`
	CurrentPage int     `json:"current_page"`
	Scale       float64 `json:"scale"`
	SidebarOpen bool    `json:"sidebar_open"`
}

// New returns the startup state: cover page, 100% zoom, sidebar closed and
// an unknown page count.
func New() State {
	return State{
		CurrentPage: 1,
		Scale:       DefaultScale,
	}
}

// Known reports whether the total page count has been recorded.
func (s State) Known() bool { return s.TotalPages > 0 }

// SetTotalPages records the document's page count and re-normalizes the
// current page against the new bound. Calling it again overwrites the
// previous total.
func (s State) SetTotalPages(n int) (State, error) {
	if n <= 0 {
		return s, fmt.Errorf("total pages must be positive, got %d: %w", n, ErrInvalidArgument)
	}
	s.TotalPages = n
	s.CurrentPage = normalizePage(s.CurrentPage, n)
	return s, nil
}

// RequestPage moves to the spread containing target. Even pages snap down
// to the odd right-hand page, the result is clamped into the document, and
// page 1 is kept as a standalone cover.
func (s State) RequestPage(target int) State {
	s.CurrentPage = normalizePage(target, s.TotalPages)
	return s
}

// NextSpread advances by one spread. It is a no-op on the last spread and
// while the page count is still unknown.
func (s State) NextSpread() State {
	if !s.CanNext() {
		return s
	}
	return s.RequestPage(s.CurrentPage + 2)
}

// PrevSpread goes back one spread. It is a no-op on the cover.
func (s State) PrevSpread() State {
	if !s.CanPrev() {
		return s
	}
	return s.RequestPage(s.CurrentPage - 2)
}

// CanNext reports whether the "next page" control should be enabled.
func (s State) CanNext() bool {
	return s.Known() && s.CurrentPage < s.TotalPages
}

// CanPrev reports whether the "previous page" control should be enabled.
func (s State) CanPrev() bool {
	return s.CurrentPage > 1
}

// Zoom adjusts the scale by delta, rounded to two decimals and clamped to
// [MinScale, MaxScale]. A NaN delta leaves the scale unchanged.
func (s State) Zoom(delta float64) State {
	if math.IsNaN(delta) {
		return s
	}
	s.Scale = clampScale(roundScale(s.Scale + delta))
	return s
}

// ToggleSidebar flips the sidebar visibility.
func (s State) ToggleSidebar() State {
	s.SidebarOpen = !s.SidebarOpen
	return s
}

// SetSidebar sets the sidebar visibility.
func (s State) SetSidebar(open bool) State {
	s.SidebarOpen = open
	return s
}

// Validate checks the state invariants. States produced by this package
// always pass; it exists for states decoded from outside.
func (s State) Validate() error {
	if s.TotalPages < 0 {
		return fmt.Errorf("total_pages %d is negative: %w", s.TotalPages, ErrInvalidArgument)
	}
	if s.CurrentPage < 1 {
		return fmt.Errorf("current_page %d is below 1: %w", s.CurrentPage, ErrInvalidArgument)
	}
	if s.Known() && s.CurrentPage > s.TotalPages {
		return fmt.Errorf("current_page %d exceeds total_pages %d: %w", s.CurrentPage, s.TotalPages, ErrInvalidArgument)
	}
	if s.CurrentPage > 1 && s.CurrentPage%2 == 0 {
		return fmt.Errorf("current_page %d is not a spread start: %w", s.CurrentPage, ErrInvalidArgument)
	}
	if math.IsNaN(s.Scale) || s.Scale < MinScale || s.Scale > MaxScale {
		return fmt.Errorf("scale %.2f outside [%.1f, %.1f]: %w", s.Scale, MinScale, MaxScale, ErrInvalidArgument)
	}
	return nil
}

// normalizePage maps any integer to a valid spread start. total <= 0 means
// the upper bound is unknown. The second parity pass covers a clamp onto an
// even last page.
func normalizePage(p, total int) int {
	p = snapOdd(p)
	if total > 0 && p > total {
		p = total
	}
	if p < 1 {
		p = 1
	}
	return snapOdd(p)
}

func snapOdd(p int) int {
	if p > 1 && p%2 == 0 {
		return p - 1
	}
	return p
}

func roundScale(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampScale(v float64) float64 {
	return math.Min(math.Max(v, MinScale), MaxScale)
}
