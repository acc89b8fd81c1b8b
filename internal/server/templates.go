package server

import (
	"bytes"
	_ "embed"
	"html"
	"net/http"
	"strconv"
)

//go:embed index.html
var indexHTML []byte

// serveIndex serves the embedded viewer shell with the layout settings
// filled in.
func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	title := s.cfg.Title
	if title == "" {
		title = "bookview"
	}
	page := bytes.ReplaceAll(indexHTML, []byte("{{TITLE}}"), []byte(html.EscapeString(title)))
	page = bytes.ReplaceAll(page, []byte("{{ZOOM_STEP}}"), []byte(strconv.FormatFloat(s.cfg.ZoomStep, 'f', -1, 64)))
	page = bytes.ReplaceAll(page, []byte("{{BREAKPOINT}}"), []byte(strconv.Itoa(s.cfg.Breakpoint)))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}
