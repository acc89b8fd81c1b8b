package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/bookview/internal/session"
	"github.com/ziadkadry99/bookview/internal/viewer"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type    string        `json:"type"` // "intent", "toc", "viewport" or "reload"
	Intent  viewer.Intent `json:"intent"`
	EntryID int           `json:"entry_id,omitempty"`
	Width   int           `json:"width,omitempty"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type     string            `json:"type"` // "snapshot" or "error"
	Snapshot *session.Snapshot `json:"snapshot,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// handleWebSocket streams snapshots of one session. Every state change made
// by any client of the session is pushed; intents may be sent on the same
// connection.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.sessions.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	updates, unsubscribe := sess.Subscribe()
	defer unsubscribe()

	// All writes go through a single goroutine.
	out := make(chan wsResponse, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer conn.Close()
		writeLoop(conn, updates, out)
	}()

	send := func(resp wsResponse) bool {
		select {
		case out <- resp:
			return true
		case <-done:
			return false
		}
	}

	snap := sess.Snapshot(r.Context())
	if !send(wsResponse{Type: "snapshot", Snapshot: &snap}) {
		return
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read: %v", err)
			}
			break
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			if !send(wsResponse{Type: "error", Error: "invalid message format"}) {
				break
			}
			continue
		}

		if resp, ok := s.handleWSRequest(r, sess, req); ok && !send(resp) {
			break
		}
	}

	close(out)
	<-done
}

// handleWSRequest applies one request. Successful state changes reach the
// client through its subscription, so a response is only returned for
// errors and for requests that do not broadcast.
func (s *Server) handleWSRequest(r *http.Request, sess *session.Session, req wsRequest) (wsResponse, bool) {
	ctx := r.Context()
	if req.Width > 0 {
		sess.SetViewport(req.Width)
	}

	switch req.Type {
	case "intent":
		if _, err := sess.Apply(ctx, req.Intent); err != nil {
			return wsResponse{Type: "error", Error: err.Error()}, true
		}
	case "toc":
		if _, err := sess.SelectTOC(ctx, req.EntryID); err != nil {
			return wsResponse{Type: "error", Error: err.Error()}, true
		}
	case "viewport":
		snap := sess.Snapshot(ctx)
		return wsResponse{Type: "snapshot", Snapshot: &snap}, true
	case "reload":
		if _, err := s.sessions.Reload(sess.ID()); err != nil {
			return wsResponse{Type: "error", Error: err.Error()}, true
		}
	default:
		return wsResponse{Type: "error", Error: "unknown message type: " + req.Type}, true
	}
	return wsResponse{}, false
}

// writeLoop writes snapshots and responses until out is closed, the
// subscription ends or a write fails.
func writeLoop(conn *websocket.Conn, updates <-chan session.Snapshot, out <-chan wsResponse) {
	for {
		var resp wsResponse
		select {
		case snap, ok := <-updates:
			if !ok {
				return
			}
			resp = wsResponse{Type: "snapshot", Snapshot: &snap}
		case r, ok := <-out:
			if !ok {
				return
			}
			resp = r
		}
		if err := conn.WriteJSON(resp); err != nil {
			log.Printf("server: websocket write: %v", err)
			return
		}
	}
}
