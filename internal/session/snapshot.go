package session

import (
	"context"
	"errors"

	"github.com/ziadkadry99/bookview/internal/renderer"
	"github.com/ziadkadry99/bookview/internal/toc"
	"github.com/ziadkadry99/bookview/internal/viewer"
)

// SlotError classifies a failed page slot for the UI.
type SlotError string

const (
	SlotPageNotFound SlotError = "page_not_found"
	SlotDecodeFailed SlotError = "decode_failed"
	SlotNotLoaded    SlotError = "not_loaded"
	SlotFailed       SlotError = "render_failed"
)

// SlotResult is the outcome of rendering one visible page. A failed slot
// carries an error and no surface; the rest of the spread is unaffected.
type SlotResult struct {
	Page      int               `json:"page"`
	Surface   *renderer.Surface `json:"surface,omitempty"`
	Error     string            `json:"error,omitempty"`
	ErrorKind SlotError         `json:"error_kind,omitempty"`
}

// OK reports whether the slot rendered.
func (r SlotResult) OK() bool { return r.Error == "" }

// Snapshot is everything a client needs to draw the viewer.
type Snapshot struct {
	ID           string        `json:"id"`
	Seq          uint64        `json:"seq"`
	State        viewer.State  `json:"state"`
	Spread       viewer.Spread `json:"spread"`
	Progress     float64       `json:"progress"`
	CanNext      bool          `json:"can_next"`
	CanPrev      bool          `json:"can_prev"`
	SingleColumn bool          `json:"single_column"`
	Load         LoadStatus    `json:"load"`
	LoadError    string        `json:"load_error,omitempty"`
	ActiveTOC    int           `json:"active_toc"`
	Slots        []SlotResult  `json:"slots,omitempty"`
}

// Snapshot derives the display state from the current viewer state and
// renders each visible slot. Slots are only rendered once the document has
// loaded.
func (s *Session) Snapshot(ctx context.Context) Snapshot {
	s.mu.Lock()
	st := s.state
	snap := Snapshot{
		ID:           s.id,
		Seq:          s.seq,
		State:        st,
		Spread:       viewer.ResolveSpread(st),
		Progress:     viewer.Progress(st),
		CanNext:      st.CanNext(),
		CanPrev:      st.CanPrev(),
		SingleColumn: s.singleColumnLocked(),
		Load:         s.status,
		ActiveTOC:    toc.ActiveIndex(s.opts.TOC, st.CurrentPage),
	}
	if s.loadErr != nil {
		snap.LoadError = s.loadErr.Error()
	}
	s.mu.Unlock()

	if snap.Load != LoadReady {
		return snap
	}
	for _, page := range snap.Spread.Visible(snap.SingleColumn) {
		snap.Slots = append(snap.Slots, s.renderSlot(ctx, page, st.Scale))
	}
	return snap
}

func (s *Session) renderSlot(ctx context.Context, page int, scale float64) SlotResult {
	ctx, cancel := s.renderContext(ctx)
	defer cancel()

	surface, err := s.rend.RenderPage(ctx, page, scale)
	if err != nil {
		return SlotResult{Page: page, Error: err.Error(), ErrorKind: classify(err)}
	}
	return SlotResult{Page: page, Surface: surface}
}

func classify(err error) SlotError {
	switch {
	case errors.Is(err, renderer.ErrPageNotFound):
		return SlotPageNotFound
	case errors.Is(err, renderer.ErrDecodeFailed):
		return SlotDecodeFailed
	case errors.Is(err, renderer.ErrNotLoaded):
		return SlotNotLoaded
	default:
		return SlotFailed
	}
}
