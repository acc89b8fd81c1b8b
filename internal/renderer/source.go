package renderer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	// ErrSourceNotAllowed is returned when a source ref matches none of the
	// configured allow patterns.
	ErrSourceNotAllowed = errors.New("source not allowed")
	// ErrSourceTooLarge is returned when a remote document exceeds the
	// download limit.
	ErrSourceTooLarge = errors.New("source too large")
)

// DefaultMaxDownloadBytes caps remote documents.
const DefaultMaxDownloadBytes = 256 << 20

// Fetcher resolves a source ref (URL or local path) to a readable local
// file, enforcing the allow-list.
type Fetcher struct {
	// Allowed holds doublestar patterns matched against the ref. Empty
	// allows everything.
	Allowed []string
	Client  *http.Client
	TempDir string
	// MaxBytes caps downloads; 0 uses DefaultMaxDownloadBytes.
	MaxBytes int64
}

// NewFetcher returns a Fetcher with a client bounded by timeout.
func NewFetcher(allowed []string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Fetcher{
		Allowed: allowed,
		Client:  &http.Client{Timeout: timeout},
	}
}

// IsRemote reports whether ref is an http(s) URL.
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Allow checks ref against the allow-list.
func (f *Fetcher) Allow(ref string) error {
	if len(f.Allowed) == 0 {
		return nil
	}
	normalized := ref
	if !IsRemote(ref) {
		normalized = filepath.ToSlash(filepath.Clean(ref))
	}
	for _, pattern := range f.Allowed {
		if matched, err := doublestar.Match(filepath.ToSlash(pattern), normalized); err == nil && matched {
			return nil
		}
	}
	return fmt.Errorf("%s: %w", ref, ErrSourceNotAllowed)
}

// Resolve returns a local path for ref. Remote documents are downloaded to
// a temporary file which cleanup removes; for local paths cleanup is a
// no-op.
func (f *Fetcher) Resolve(ctx context.Context, ref string) (path string, cleanup func(), err error) {
	noop := func() {}
	if err := f.Allow(ref); err != nil {
		return "", noop, err
	}
	if !IsRemote(ref) {
		if _, err := os.Stat(ref); err != nil {
			return "", noop, fmt.Errorf("accessing %s: %w", ref, err)
		}
		return ref, noop, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return "", noop, fmt.Errorf("create request: %w", err)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", noop, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", noop, fmt.Errorf("fetch returned status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(f.TempDir, "bookview-*.pdf")
	if err != nil {
		return "", noop, fmt.Errorf("creating temp file: %w", err)
	}
	cleanup = func() { os.Remove(tmp.Name()) }

	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxDownloadBytes
	}
	n, err := io.Copy(tmp, io.LimitReader(resp.Body, limit+1))
	if err == nil && n > limit {
		err = fmt.Errorf("%w: more than %d bytes", ErrSourceTooLarge, limit)
	}
	if err != nil {
		tmp.Close()
		cleanup()
		return "", noop, fmt.Errorf("downloading %s: %w", ref, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", noop, fmt.Errorf("writing temp file: %w", err)
	}
	return tmp.Name(), cleanup, nil
}
