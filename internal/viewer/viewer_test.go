package viewer

import (
	"errors"
	"math"
	"testing"
)

func loaded(t *testing.T, total int) State {
	t.Helper()
	s, err := New().SetTotalPages(total)
	if err != nil {
		t.Fatalf("SetTotalPages(%d): %v", total, err)
	}
	return s
}

func TestNew(t *testing.T) {
	s := New()
	if s.CurrentPage != 1 {
		t.Errorf("CurrentPage = %d, want 1", s.CurrentPage)
	}
	if s.Scale != 1.0 {
		t.Errorf("Scale = %v, want 1.0", s.Scale)
	}
	if s.SidebarOpen {
		t.Error("sidebar should start closed")
	}
	if s.Known() {
		t.Error("total pages should start unknown")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestRequestPage(t *testing.T) {
	tests := []struct {
		name   string
		total  int
		target int
		want   int
	}{
		{"cover", 15, 1, 1},
		{"odd interior", 15, 5, 5},
		{"even snaps down", 15, 8, 7},
		{"page two snaps to cover", 15, 2, 1},
		{"zero", 15, 0, 1},
		{"negative odd", 15, -3, 1},
		{"negative even", 15, -4, 1},
		{"past odd end", 15, 40, 15},
		{"last odd page", 15, 15, 15},
		{"clamp onto even end re-snaps", 10, 14, 9},
		{"even end", 10, 10, 9},
		{"single page document", 1, 7, 1},
		{"two page document", 2, 2, 1},
		{"unknown total has no upper clamp", 0, 41, 41},
		{"unknown total even", 0, 42, 41},
		{"unknown total negative", 0, -10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			if tt.total > 0 {
				s = loaded(t, tt.total)
			}
			got := s.RequestPage(tt.target)
			if got.CurrentPage != tt.want {
				t.Errorf("RequestPage(%d) with total %d = %d, want %d", tt.target, tt.total, got.CurrentPage, tt.want)
			}
			if got.Scale != s.Scale || got.SidebarOpen != s.SidebarOpen || got.TotalPages != s.TotalPages {
				t.Errorf("RequestPage changed unrelated fields: %+v -> %+v", s, got)
			}
		})
	}
}

func TestRequestPageProperties(t *testing.T) {
	for _, total := range []int{0, 1, 2, 3, 10, 15} {
		s := New()
		if total > 0 {
			s = loaded(t, total)
		}
		for p := -25; p <= 40; p++ {
			r := s.RequestPage(p)
			if r.CurrentPage < 1 {
				t.Fatalf("total %d, target %d: got %d < 1", total, p, r.CurrentPage)
			}
			if total > 0 && r.CurrentPage > total {
				t.Fatalf("total %d, target %d: got %d > total", total, p, r.CurrentPage)
			}
			if r.CurrentPage != 1 && r.CurrentPage%2 == 0 {
				t.Fatalf("total %d, target %d: got even page %d", total, p, r.CurrentPage)
			}
			if again := r.RequestPage(r.CurrentPage); again != r {
				t.Fatalf("total %d, target %d: not idempotent, %d then %d", total, p, r.CurrentPage, again.CurrentPage)
			}
			if err := r.Validate(); err != nil {
				t.Fatalf("total %d, target %d: Validate: %v", total, p, err)
			}
		}
	}
}

func TestSetTotalPages(t *testing.T) {
	s := New().RequestPage(21)
	if s.CurrentPage != 21 {
		t.Fatalf("CurrentPage = %d, want 21", s.CurrentPage)
	}

	s, err := s.SetTotalPages(10)
	if err != nil {
		t.Fatalf("SetTotalPages: %v", err)
	}
	if s.TotalPages != 10 || s.CurrentPage != 9 {
		t.Errorf("got total %d page %d, want 10 and 9", s.TotalPages, s.CurrentPage)
	}

	// Reload with a larger document keeps the page.
	s, err = s.SetTotalPages(30)
	if err != nil {
		t.Fatalf("SetTotalPages: %v", err)
	}
	if s.TotalPages != 30 || s.CurrentPage != 9 {
		t.Errorf("got total %d page %d, want 30 and 9", s.TotalPages, s.CurrentPage)
	}
}

func TestSetTotalPagesInvalid(t *testing.T) {
	for _, n := range []int{0, -1, -15} {
		s := New()
		got, err := s.SetTotalPages(n)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("SetTotalPages(%d) err = %v, want ErrInvalidArgument", n, err)
		}
		if got != s {
			t.Errorf("SetTotalPages(%d) modified state: %+v", n, got)
		}
	}
}

func TestSetTotalPagesThenRequest(t *testing.T) {
	s := loaded(t, 10).RequestPage(14)
	if s.CurrentPage != 9 {
		t.Errorf("CurrentPage = %d, want 9", s.CurrentPage)
	}
}

func TestNextPrevSpread(t *testing.T) {
	s := loaded(t, 15)

	var pages []int
	for s.CanNext() {
		s = s.NextSpread()
		pages = append(pages, s.CurrentPage)
	}
	want := []int{3, 5, 7, 9, 11, 13, 15}
	if len(pages) != len(want) {
		t.Fatalf("visited %v, want %v", pages, want)
	}
	for i := range want {
		if pages[i] != want[i] {
			t.Fatalf("visited %v, want %v", pages, want)
		}
	}

	if next := s.NextSpread(); next != s {
		t.Errorf("NextSpread at end should be a no-op, got %d", next.CurrentPage)
	}

	for s.CanPrev() {
		s = s.PrevSpread()
	}
	if s.CurrentPage != 1 {
		t.Errorf("CurrentPage = %d, want 1", s.CurrentPage)
	}
	if prev := s.PrevSpread(); prev != s {
		t.Errorf("PrevSpread at cover should be a no-op, got %d", prev.CurrentPage)
	}
}

func TestNextSpreadUnknownTotal(t *testing.T) {
	s := New()
	if s.CanNext() {
		t.Error("CanNext should be false before load")
	}
	if got := s.NextSpread(); got != s {
		t.Errorf("NextSpread before load = %+v, want no-op", got)
	}
}

func TestNextPrevRoundTrip(t *testing.T) {
	for _, total := range []int{4, 9, 10, 15} {
		base := loaded(t, total)
		for p := 1; p <= total; p += 2 {
			s := base.RequestPage(p)
			next := s.NextSpread()
			if next == s {
				continue
			}
			if back := next.PrevSpread(); back.CurrentPage != s.CurrentPage {
				t.Errorf("total %d: %d -> %d -> %d", total, s.CurrentPage, next.CurrentPage, back.CurrentPage)
			}
		}
	}
}

func TestNextSpreadEvenTotal(t *testing.T) {
	// Page 9 of 10 already shows 10 on the left.
	s := loaded(t, 10).RequestPage(9)
	if !s.CanNext() {
		t.Fatal("CanNext should be true on 9 of 10")
	}
	if got := s.NextSpread(); got.CurrentPage != 9 {
		t.Errorf("NextSpread = %d, want 9", got.CurrentPage)
	}
}

func TestZoomClamp(t *testing.T) {
	s := New()
	for i := 0; i < 50; i++ {
		s = s.Zoom(ZoomStep)
	}
	if s.Scale != 2.0 {
		t.Errorf("zoom in 50 times = %v, want 2.0", s.Scale)
	}

	s = New()
	for i := 0; i < 50; i++ {
		s = s.Zoom(-ZoomStep)
	}
	if s.Scale != 0.6 {
		t.Errorf("zoom out 50 times = %v, want 0.6", s.Scale)
	}
}

func TestZoomNoDrift(t *testing.T) {
	s := New()
	for i := 0; i < 3; i++ {
		s = s.Zoom(ZoomStep)
	}
	if s.Scale != 1.3 {
		t.Errorf("Scale = %v, want 1.3", s.Scale)
	}
	for i := 0; i < 3; i++ {
		s = s.Zoom(-ZoomStep)
	}
	if s.Scale != 1.0 {
		t.Errorf("Scale = %v, want 1.0", s.Scale)
	}
}

func TestZoomIgnoresNaN(t *testing.T) {
	s := New().Zoom(0.2)
	got := s.Zoom(math.NaN())
	if got.Scale != 1.2 {
		t.Errorf("Scale = %v after NaN delta, want 1.2", got.Scale)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestSidebar(t *testing.T) {
	s := loaded(t, 15).RequestPage(7)
	open := s.ToggleSidebar()
	if !open.SidebarOpen {
		t.Error("ToggleSidebar should open the sidebar")
	}
	if open.CurrentPage != 7 || open.Scale != s.Scale || open.TotalPages != 15 {
		t.Errorf("ToggleSidebar changed other fields: %+v", open)
	}
	if open.ToggleSidebar().SidebarOpen {
		t.Error("second toggle should close the sidebar")
	}
	if open.SetSidebar(false).SidebarOpen {
		t.Error("SetSidebar(false) should close the sidebar")
	}
	if !s.SetSidebar(true).SidebarOpen {
		t.Error("SetSidebar(true) should open the sidebar")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		state State
		ok    bool
	}{
		{"startup", New(), true},
		{"loaded", State{TotalPages: 15, CurrentPage: 7, Scale: 1.2}, true},
		{"page zero", State{CurrentPage: 0, Scale: 1}, false},
		{"past end", State{TotalPages: 5, CurrentPage: 7, Scale: 1}, false},
		{"even page", State{TotalPages: 15, CurrentPage: 4, Scale: 1}, false},
		{"scale too small", State{CurrentPage: 1, Scale: 0.5}, false},
		{"scale too large", State{CurrentPage: 1, Scale: 2.1}, false},
		{"scale NaN", State{CurrentPage: 1, Scale: math.NaN()}, false},
		{"negative total", State{TotalPages: -1, CurrentPage: 1, Scale: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.state.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Validate err = %v, want ErrInvalidArgument", err)
			}
		})
	}
}
