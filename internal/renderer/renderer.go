package renderer

import (
	"context"
	"errors"
	"fmt"
)

// Error classes surfaced by renderer adapters. Use errors.Is to classify.
var (
	ErrLoadFailure   = errors.New("document load failed")
	ErrRenderFailure = errors.New("page render failed")
	ErrPageNotFound  = errors.New("page not found")
	ErrDecodeFailed  = errors.New("decode failed")
	ErrNotLoaded     = errors.New("no document loaded")
)

// Document is what a successful load reports back to the viewer.
type Document struct {
	Source     string `json:"source"`
	TotalPages int    `json:"total_pages"`
}

// Fragment is a run of text positioned on a rendered page, in scaled units.
type Fragment struct {
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	FontSize float64 `json:"font_size"`
}

// Image is an embedded page image encoded as PNG.
type Image struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	PNG    []byte `json:"png"`
}

// Surface is the displayable result of rendering one page at one scale.
type Surface struct {
	Page      int        `json:"page"`
	Scale     float64    `json:"scale"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Rotation  int        `json:"rotation"`
	Fragments []Fragment `json:"fragments,omitempty"`
	Images    []Image    `json:"images,omitempty"`
}

// Renderer is the page renderer adapter the viewer drives. Load is called
// once per (re)load; RenderPage once per visible slot per state change.
// Pages are 1-based.
type Renderer interface {
	Load(ctx context.Context, source string) (Document, error)
	RenderPage(ctx context.Context, page int, scale float64) (*Surface, error)
}

// LoadError reports a failed document load. It matches ErrLoadFailure and
// the underlying cause.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() []error { return []error{ErrLoadFailure, e.Err} }

// RenderError reports a failure scoped to a single page. It matches
// ErrRenderFailure and its reason (ErrPageNotFound, ErrDecodeFailed, ...).
type RenderError struct {
	Page   int
	Reason error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering page %d: %v", e.Page, e.Reason)
}

func (e *RenderError) Unwrap() []error { return []error{ErrRenderFailure, e.Reason} }

func renderErr(page int, reason error) error {
	return &RenderError{Page: page, Reason: reason}
}
