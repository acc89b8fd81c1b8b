package renderer

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/tsawler/tabula/reader"
)

// PDF renders pages of a PDF document using the tabula reader. The reader
// is not safe for concurrent use, so calls are serialized.
type PDF struct {
	fetcher *Fetcher

	mu      sync.Mutex
	rd      *reader.Reader
	source  string
	total   int
	cleanup func()
}

// NewPDF returns a PDF renderer that resolves sources through fetcher.
func NewPDF(fetcher *Fetcher) *PDF {
	if fetcher == nil {
		fetcher = NewFetcher(nil, 0)
	}
	return &PDF{fetcher: fetcher}
}

// Load opens source and reports its page count. A successful load replaces
// any previously loaded document.
func (p *PDF) Load(ctx context.Context, source string) (Document, error) {
	path, cleanup, err := p.fetcher.Resolve(ctx, source)
	if err != nil {
		return Document{}, &LoadError{Source: source, Err: err}
	}

	rd, err := reader.Open(path)
	if err != nil {
		cleanup()
		return Document{}, &LoadError{Source: source, Err: fmt.Errorf("%w: %v", ErrDecodeFailed, err)}
	}
	total, err := rd.PageCount()
	if err != nil || total <= 0 {
		rd.Close()
		cleanup()
		if err == nil {
			err = fmt.Errorf("document has no pages")
		}
		return Document{}, &LoadError{Source: source, Err: fmt.Errorf("%w: %v", ErrDecodeFailed, err)}
	}

	p.mu.Lock()
	p.closeLocked()
	p.rd = rd
	p.source = source
	p.total = total
	p.cleanup = cleanup
	p.mu.Unlock()

	return Document{Source: source, TotalPages: total}, nil
}

// RenderPage produces the surface for a 1-based page at scale.
func (p *PDF) RenderPage(ctx context.Context, page int, scale float64) (*Surface, error) {
	if err := ctx.Err(); err != nil {
		return nil, renderErr(page, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.rd == nil {
		return nil, renderErr(page, ErrNotLoaded)
	}
	if page < 1 || page > p.total {
		return nil, renderErr(page, ErrPageNotFound)
	}

	pg, err := p.rd.GetPage(page - 1)
	if err != nil {
		return nil, renderErr(page, fmt.Errorf("%w: %v", ErrDecodeFailed, err))
	}
	width, err := pg.Width()
	if err != nil {
		return nil, renderErr(page, fmt.Errorf("%w: %v", ErrDecodeFailed, err))
	}
	height, err := pg.Height()
	if err != nil {
		return nil, renderErr(page, fmt.Errorf("%w: %v", ErrDecodeFailed, err))
	}

	frags, err := p.rd.ExtractTextFragments(pg)
	if err != nil {
		return nil, renderErr(page, fmt.Errorf("%w: %v", ErrDecodeFailed, err))
	}

	s := &Surface{
		Page:      page,
		Scale:     scale,
		Width:     width * scale,
		Height:    height * scale,
		Rotation:  pg.Rotate(),
		Fragments: make([]Fragment, 0, len(frags)),
	}
	for _, f := range frags {
		s.Fragments = append(s.Fragments, Fragment{
			Text:     f.Text,
			X:        f.X * scale,
			Y:        f.Y * scale,
			FontSize: f.FontSize * scale,
		})
	}

	images, err := p.rd.ExtractPageImages(pg)
	if err != nil {
		log.Printf("renderer: page %d images: %v", page, err)
	}
	for _, img := range images {
		data, err := img.ToPNG()
		if err != nil {
			log.Printf("renderer: page %d image %s: %v", page, img.Name, err)
			continue
		}
		s.Images = append(s.Images, Image{Name: img.Name, Width: img.Width, Height: img.Height, PNG: data})
	}
	return s, nil
}

// Source returns the currently loaded source ref.
func (p *PDF) Source() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source
}

// Close releases the open document and any downloaded temp file.
func (p *PDF) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeLocked()
}

func (p *PDF) closeLocked() error {
	var err error
	if p.rd != nil {
		err = p.rd.Close()
		p.rd = nil
	}
	if p.cleanup != nil {
		p.cleanup()
		p.cleanup = nil
	}
	p.total = 0
	p.source = ""
	return err
}
