package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ziadkadry99/bookview/internal/config"
	"github.com/ziadkadry99/bookview/internal/renderer"
	"github.com/ziadkadry99/bookview/internal/session"
	"github.com/ziadkadry99/bookview/internal/toc"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `bookview init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// loadTOC reads the configured table of contents, falling back to the
// built-in sample when none is configured.
func loadTOC(cfg *config.Config) ([]toc.Entry, error) {
	entries, err := toc.LoadFile(cfg.TOCFile)
	if err != nil {
		return nil, fmt.Errorf("loading table of contents: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Loaded %d table of contents entries\n", len(entries))
	}
	return entries, nil
}

// sessionOptions builds the session options shared by every command.
func sessionOptions(cfg *config.Config, entries []toc.Entry) session.Options {
	return session.Options{
		Source:        cfg.Source,
		Breakpoint:    cfg.SingleColumnWidth,
		RenderTimeout: cfg.RenderTimeout(),
		TOC:           entries,
	}
}

// rendererFactory returns a factory creating one PDF renderer per session.
func rendererFactory(cfg *config.Config) session.RendererFactory {
	return func() renderer.Renderer {
		return renderer.NewPDF(renderer.NewFetcher(cfg.AllowedSources, cfg.FetchTimeout()))
	}
}

// loadSession loads the session's document, bounded by timeout when set.
func loadSession(sess *session.Session, timeout time.Duration) error {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return sess.Load(ctx)
}
