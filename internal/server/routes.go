package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/bookview/internal/renderer"
	"github.com/ziadkadry99/bookview/internal/session"
	"github.com/ziadkadry99/bookview/internal/toc"
	"github.com/ziadkadry99/bookview/internal/viewer"
)

// intentRequest is an intent plus the client's current viewport width.
type intentRequest struct {
	viewer.Intent
	Width int `json:"width,omitempty"`
}

// tocItem is one sidebar row.
type tocItem struct {
	toc.Entry
	Number string `json:"number"`
	Active bool   `json:"active"`
}

func (s *Server) registerAPI(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/toc", s.handleTOC)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/intents", s.handleIntent)
			r.Post("/toc/{entryID}", s.handleSelectTOC)
			r.Post("/reload", s.handleReload)
			r.Get("/pages/{page}", s.handlePage)
		})
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	if width, err := strconv.Atoi(r.URL.Query().Get("width")); err == nil && width > 0 {
		sess.SetViewport(width)
	}
	writeJSON(w, http.StatusCreated, sess.Snapshot(r.Context()))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot(r.Context()))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var req intentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Width > 0 {
		sess.SetViewport(req.Width)
	}

	snap, err := sess.Apply(r.Context(), req.Intent)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSelectTOC(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	entryID, err := strconv.Atoi(chi.URLParam(r, "entryID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid entry id"})
		return
	}
	if width, err := strconv.Atoi(r.URL.Query().Get("width")); err == nil && width > 0 {
		sess.SetViewport(width)
	}

	snap, err := sess.SelectTOC(r.Context(), entryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Reload(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, sess.Snapshot(r.Context()))
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid page number"})
		return
	}

	surface, err := sess.RenderPage(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, surface)
}

// handleTOC lists the table of contents. The active entry follows the
// session given by ?session=, or the page given by ?page=.
func (s *Server) handleTOC(w http.ResponseWriter, r *http.Request) {
	current := 0
	if id := r.URL.Query().Get("session"); id != "" {
		sess, err := s.sessions.Get(id)
		if err != nil {
			writeError(w, err)
			return
		}
		current = sess.State().CurrentPage
	} else if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		current = p
	}

	active := toc.ActiveIndex(s.entries, current)
	items := make([]tocItem, 0, len(s.entries))
	for i, e := range s.entries {
		items = append(items, tocItem{
			Entry:  e,
			Number: toc.Number(i),
			Active: i == active,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

// lookup resolves the {id} URL parameter, writing a 404 when unknown.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return sess, true
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, session.ErrEntryNotFound),
		errors.Is(err, renderer.ErrPageNotFound):
		return http.StatusNotFound
	case errors.Is(err, viewer.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, renderer.ErrDecodeFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, renderer.ErrNotLoaded):
		return http.StatusConflict
	case errors.Is(err, renderer.ErrLoadFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encoding response: %v", err)
	}
}
