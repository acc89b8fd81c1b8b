package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/ziadkadry99/bookview/internal/renderer"
	"github.com/ziadkadry99/bookview/internal/toc"
	"github.com/ziadkadry99/bookview/internal/viewer"
)

// ErrEntryNotFound is returned when a TOC selection names an unknown entry.
var ErrEntryNotFound = errors.New("toc entry not found")

// LoadStatus tracks the document load lifecycle of a session.
type LoadStatus string

const (
	LoadPending LoadStatus = "loading"
	LoadReady   LoadStatus = "ready"
	LoadFailed  LoadStatus = "failed"
)

// Options configure a session.
type Options struct {
	Source string
	// Breakpoint is the single-column width threshold; 0 uses the default.
	Breakpoint    int
	RenderTimeout time.Duration
	TOC           []toc.Entry
}

// Session owns the viewer state of one client. Intents are applied under a
// lock so each read-apply-write is atomic; rendering happens afterwards,
// outside the lock, and never mutates the state.
type Session struct {
	id   string
	rend renderer.Renderer
	opts Options

	mu        sync.Mutex
	state     viewer.State
	seq       uint64
	width     int
	status    LoadStatus
	loadErr   error
	loading   bool
	attempted bool
	loadDone  chan struct{}
	subs      map[chan Snapshot]struct{}
	lastSeen  time.Time
}

// New creates a session with the startup viewer state. The document is not
// loaded until Load is called.
func New(id string, rend renderer.Renderer, opts Options) *Session {
	return &Session{
		id:       id,
		rend:     rend,
		opts:     opts,
		state:    viewer.New(),
		status:   LoadPending,
		loadDone: make(chan struct{}),
		subs:     make(map[chan Snapshot]struct{}),
		lastSeen: time.Now(),
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// State returns the current viewer state.
func (s *Session) State() viewer.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Load asks the renderer to load the session's source and records the page
// count. A failure leaves the session navigable and can be retried by
// calling Load again. Concurrent calls share the attempt in flight.
func (s *Session) Load(ctx context.Context) error {
	done, ok := s.beginLoad()
	if !ok {
		return s.WaitLoad(ctx)
	}
	return s.runLoad(ctx, done)
}

// beginLoad marks a load attempt as in flight. ok is false when another
// attempt is already running.
func (s *Session) beginLoad() (done chan struct{}, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return s.loadDone, false
	}
	if s.attempted {
		s.loadDone = make(chan struct{})
	}
	s.loading, s.attempted = true, true
	s.status = LoadPending
	s.loadErr = nil
	return s.loadDone, true
}

func (s *Session) runLoad(ctx context.Context, done chan struct{}) error {
	doc, err := s.rend.Load(ctx, s.opts.Source)

	s.mu.Lock()
	if err == nil {
		var next viewer.State
		next, err = s.state.SetTotalPages(doc.TotalPages)
		if err != nil {
			err = &renderer.LoadError{Source: s.opts.Source, Err: err}
		} else {
			s.state = next
			s.status = LoadReady
		}
	}
	if err != nil {
		s.status = LoadFailed
		s.loadErr = err
	}
	s.seq++
	s.loading = false
	s.mu.Unlock()

	if err != nil {
		log.Printf("session %s: load %s: %v", s.id, s.opts.Source, err)
	}
	// Subscribers see the outcome before waiters are released.
	s.publish(ctx)
	close(done)
	return err
}

// WaitLoad blocks until the current load attempt finishes or ctx is done.
func (s *Session) WaitLoad(ctx context.Context) error {
	s.mu.Lock()
	done := s.loadDone
	s.mu.Unlock()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Apply applies intents in order against the latest state. On error the
// state is left unchanged and the current snapshot is returned with it.
func (s *Session) Apply(ctx context.Context, intents ...viewer.Intent) (Snapshot, error) {
	s.mu.Lock()
	s.lastSeen = time.Now()
	next, err := viewer.ApplyAll(s.state, intents...)
	if err == nil && next != s.state {
		s.state = next
		s.seq++
	}
	s.mu.Unlock()

	snap := s.Snapshot(ctx)
	if err == nil {
		s.broadcast(snap)
	}
	return snap, err
}

// SetViewport records the client's viewport width, which decides whether
// one or two pages are rendered. It never touches the viewer state.
func (s *Session) SetViewport(width int) {
	s.mu.Lock()
	s.width = width
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// SingleColumn reports whether the last reported viewport is narrow. An
// unreported width is treated as wide.
func (s *Session) SingleColumn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.singleColumnLocked()
}

func (s *Session) singleColumnLocked() bool {
	return s.width > 0 && viewer.IsSingleColumn(s.width, s.opts.Breakpoint)
}

// SelectTOC jumps to the entry with the given id, closing the sidebar on
// single-column layouts.
func (s *Session) SelectTOC(ctx context.Context, entryID int) (Snapshot, error) {
	entry, ok := toc.Find(s.opts.TOC, entryID)
	if !ok {
		return s.Snapshot(ctx), fmt.Errorf("entry %d: %w", entryID, ErrEntryNotFound)
	}
	return s.Apply(ctx, toc.Select(entry, s.SingleColumn())...)
}

// TOC returns the session's table of contents.
func (s *Session) TOC() []toc.Entry { return s.opts.TOC }

// RenderPage renders a single page at the session's current scale.
func (s *Session) RenderPage(ctx context.Context, page int) (*renderer.Surface, error) {
	scale := s.State().Scale
	ctx, cancel := s.renderContext(ctx)
	defer cancel()
	return s.rend.RenderPage(ctx, page, scale)
}

// Subscribe returns a channel receiving a snapshot after every state change
// and a function to unsubscribe. Snapshots are dropped for subscribers that
// are not keeping up.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.lastSeen = time.Now()
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// The idle clock restarts when a client disconnects.
		s.lastSeen = time.Now()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
	}
}

// idle reports whether the session has no subscribers and has seen no
// activity for at least ttl before now.
func (s *Session) idle(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs) == 0 && now.Sub(s.lastSeen) >= ttl
}

// Close releases the renderer if it holds resources.
func (s *Session) Close() error {
	s.mu.Lock()
	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
	}
	s.mu.Unlock()
	if c, ok := s.rend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Session) publish(ctx context.Context) {
	s.broadcast(s.Snapshot(ctx))
}

func (s *Session) broadcast(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- snap:
		default:
			log.Printf("session %s: subscriber lagging, dropped snapshot %d", s.id, snap.Seq)
		}
	}
}

func (s *Session) renderContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.RenderTimeout > 0 {
		return context.WithTimeout(ctx, s.opts.RenderTimeout)
	}
	return context.WithCancel(ctx)
}
