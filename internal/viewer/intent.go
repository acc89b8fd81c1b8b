package viewer

import "fmt"

// IntentKind names a navigation intent coming from the UI.
type IntentKind string

const (
	IntentRequestPage   IntentKind = "request_page"
	IntentNextSpread    IntentKind = "next_spread"
	IntentPrevSpread    IntentKind = "prev_spread"
	IntentZoom          IntentKind = "zoom"
	IntentToggleSidebar IntentKind = "toggle_sidebar"
	IntentSetSidebar    IntentKind = "set_sidebar"
	IntentSetTotalPages IntentKind = "set_total_pages"
)

// Intent is a single UI event. Only the field relevant to Kind is read:
// Page for request_page and set_total_pages, Delta for zoom, Open for
// set_sidebar.
type Intent struct {
	Kind  IntentKind `json:"kind"`
	Page  int        `json:"page,omitempty"`
	Delta float64    `json:"delta,omitempty"`
	Open  bool       `json:"open,omitempty"`
}

// Convenience constructors used by the transports.
func RequestPage(page int) Intent    { return Intent{Kind: IntentRequestPage, Page: page} }
func NextSpread() Intent             { return Intent{Kind: IntentNextSpread} }
func PrevSpread() Intent             { return Intent{Kind: IntentPrevSpread} }
func Zoom(delta float64) Intent      { return Intent{Kind: IntentZoom, Delta: delta} }
func ToggleSidebar() Intent          { return Intent{Kind: IntentToggleSidebar} }
func SetSidebar(open bool) Intent    { return Intent{Kind: IntentSetSidebar, Open: open} }
func SetTotalPages(total int) Intent { return Intent{Kind: IntentSetTotalPages, Page: total} }

// Apply is the reducer: it returns the state that results from applying in
// to s. Navigation intents never fail; only set_total_pages with a
// non-positive count and unknown kinds return an error, in which case s is
// returned unchanged.
func Apply(s State, in Intent) (State, error) {
	switch in.Kind {
	case IntentRequestPage:
		return s.RequestPage(in.Page), nil
	case IntentNextSpread:
		return s.NextSpread(), nil
	case IntentPrevSpread:
		return s.PrevSpread(), nil
	case IntentZoom:
		return s.Zoom(in.Delta), nil
	case IntentToggleSidebar:
		return s.ToggleSidebar(), nil
	case IntentSetSidebar:
		return s.SetSidebar(in.Open), nil
	case IntentSetTotalPages:
		return s.SetTotalPages(in.Page)
	default:
		return s, fmt.Errorf("unknown intent %q: %w", in.Kind, ErrInvalidArgument)
	}
}

// ApplyAll applies intents in order, stopping at the first error.
func ApplyAll(s State, intents ...Intent) (State, error) {
	for _, in := range intents {
		next, err := Apply(s, in)
		if err != nil {
			return s, err
		}
		s = next
	}
	return s, nil
}
