package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/bookview/internal/renderer"
)

// ErrNotFound is returned for unknown session ids.
var ErrNotFound = errors.New("session not found")

// RendererFactory builds a renderer for a new session.
type RendererFactory func() renderer.Renderer

// Manager creates and tracks sessions. Each session gets its own renderer
// so one client's reload never disturbs another's document.
type Manager struct {
	newRenderer RendererFactory
	opts        Options
	loadTimeout time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session

	stop     chan struct{}
	stopOnce sync.Once
}

// NewManager returns a manager creating sessions with opts.
func NewManager(factory RendererFactory, opts Options, loadTimeout time.Duration) *Manager {
	return &Manager{
		newRenderer: factory,
		opts:        opts,
		loadTimeout: loadTimeout,
		sessions:    make(map[string]*Session),
		stop:        make(chan struct{}),
	}
}

// Create registers a new session and starts loading its document in the
// background. Use WaitLoad on the session to observe the outcome.
func (m *Manager) Create() *Session {
	s := New(uuid.New().String(), m.newRenderer(), m.opts)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	m.startLoad(s)
	return s
}

// Reload retries the document load of an existing session in the
// background.
func (m *Manager) Reload(id string) (*Session, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	m.startLoad(s)
	return s, nil
}

// startLoad marks the load as pending before returning so callers can
// WaitLoad on this attempt, then runs it in the background.
func (m *Manager) startLoad(s *Session) {
	done, ok := s.beginLoad()
	if !ok {
		return
	}
	go func() {
		ctx := context.Background()
		if m.loadTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, m.loadTimeout)
			defer cancel()
		}
		// Failures are recorded on the session and logged there.
		_ = s.runLoad(ctx, done)
	}()
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete closes and forgets a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	return s.Close()
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StartReaper closes idle sessions every interval until the manager is
// closed. A session is idle once it has had no subscribers and no activity
// for ttl.
func (m *Manager) StartReaper(ttl, interval time.Duration) {
	if ttl <= 0 || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-m.stop:
				return
			case now := <-ticker.C:
				if n := m.reapIdle(now, ttl); n > 0 {
					log.Printf("session: closed %d idle sessions, %d remaining", n, m.Count())
				}
			}
		}
	}()
}

// reapIdle closes the sessions idle at now and returns how many it closed.
func (m *Manager) reapIdle(now time.Time, ttl time.Duration) int {
	var idle []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.idle(now, ttl) {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		if err := s.Close(); err != nil {
			log.Printf("session %s: close: %v", s.ID(), err)
		}
	}
	return len(idle)
}

// Close stops the reaper and closes every session.
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
