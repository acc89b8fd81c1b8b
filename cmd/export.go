package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/bookview/internal/progress"
	"github.com/ziadkadry99/bookview/internal/renderer"
	"github.com/ziadkadry99/bookview/internal/session"
	"github.com/ziadkadry99/bookview/internal/viewer"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render every spread of the document",
	Long: `Walks the document spread by spread, the same way the Next button does,
renders both pages of each spread and reports pages that failed. With --out, each
page surface is written as JSON and its images as PNG files.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("out", "", "directory to write page surfaces to")
	exportCmd.Flags().String("source", "", "document URL or path (overrides config)")
	exportCmd.Flags().Float64("scale", viewer.DefaultScale, "render scale")
	rootCmd.AddCommand(exportCmd)
}

// exportOptions control a spread walk.
type exportOptions struct {
	OutDir string
	Scale  float64
}

// exportResult summarizes a spread walk.
type exportResult struct {
	Spreads  int
	Pages    int
	Failures []session.SlotResult
}

func runExport(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out")
	source, _ := cmd.Flags().GetString("source")
	scale, _ := cmd.Flags().GetFloat64("scale")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if source != "" {
		cfg.Source = source
	}
	entries, err := loadTOC(cfg)
	if err != nil {
		return err
	}

	sess := session.New("export", rendererFactory(cfg)(), sessionOptions(cfg, entries))
	defer sess.Close()

	fmt.Fprintf(os.Stderr, "Loading %s...\n", cfg.Source)
	if err := loadSession(sess, cfg.FetchTimeout()+cfg.RenderTimeout()); err != nil {
		return fmt.Errorf("loading document: %w", err)
	}

	reporter := progress.NewReporter("Rendering spreads")
	result, err := exportSpreads(context.Background(), sess, reporter, exportOptions{
		OutDir: outDir,
		Scale:  scale,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Rendered %d pages in %d spreads\n", result.Pages, result.Spreads)
	if outDir != "" {
		fmt.Fprintf(os.Stderr, "Surfaces written to %s\n", outDir)
	}
	if len(result.Failures) > 0 {
		fmt.Fprintf(os.Stderr, "\nFailed pages (%d):\n", len(result.Failures))
		for _, f := range result.Failures {
			fmt.Fprintf(os.Stderr, "  - page %d (%s): %s\n", f.Page, f.ErrorKind, f.Error)
		}
		return fmt.Errorf("%d pages failed to render", len(result.Failures))
	}
	return nil
}

// exportSpreads walks sess from the first page to the last with NextSpread
// and collects every visible slot. sess must be loaded.
func exportSpreads(ctx context.Context, sess *session.Session, reporter progress.Reporter, opts exportOptions) (*exportResult, error) {
	st := sess.State()
	if !st.Known() {
		return nil, fmt.Errorf("document page count is unknown: %w", renderer.ErrNotLoaded)
	}

	// Render both pages of every spread regardless of the last viewport.
	sess.SetViewport(0)

	intents := []viewer.Intent{viewer.RequestPage(1)}
	if opts.Scale > 0 {
		intents = append(intents, viewer.Zoom(opts.Scale-st.Scale))
	}
	snap, err := sess.Apply(ctx, intents...)
	if err != nil {
		return nil, err
	}

	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}

	reporter.Start((st.TotalPages + 1) / 2)
	defer reporter.Finish()

	result := &exportResult{}
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		var labels []string
		for _, slot := range snap.Slots {
			result.Pages++
			labels = append(labels, fmt.Sprint(slot.Page))
			if !slot.OK() {
				result.Failures = append(result.Failures, slot)
				continue
			}
			if opts.OutDir != "" {
				if err := writeSurface(opts.OutDir, slot.Surface); err != nil {
					return result, err
				}
			}
		}
		result.Spreads++
		reporter.Update(result.Spreads, "pages "+strings.Join(labels, "-"))

		if !snap.CanNext || showsLastPage(snap) {
			break
		}
		if snap, err = sess.Apply(ctx, viewer.NextSpread()); err != nil {
			return result, err
		}
	}

	return result, nil
}

// showsLastPage reports whether the snapshot's spread includes the final
// page. With an even page count the last spread starts one page before the
// end, so CanNext alone never turns false.
func showsLastPage(snap session.Snapshot) bool {
	total := snap.State.TotalPages
	sp := snap.Spread
	return sp.Right >= total || (sp.HasLeft && sp.Left >= total)
}

// writeSurface writes page-NNN.json and the page's images as PNG files.
func writeSurface(dir string, surface *renderer.Surface) error {
	base := filepath.Join(dir, fmt.Sprintf("page-%03d", surface.Page))

	for i, img := range surface.Images {
		name := fmt.Sprintf("%s-img-%02d.png", base, i+1)
		if err := os.WriteFile(name, img.PNG, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}

	// Images are stored beside the JSON rather than inline.
	meta := *surface
	meta.Images = make([]renderer.Image, len(surface.Images))
	for i, img := range surface.Images {
		meta.Images[i] = renderer.Image{Name: img.Name, Width: img.Width, Height: img.Height}
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding page %d: %w", surface.Page, err)
	}
	if err := os.WriteFile(base+".json", data, 0644); err != nil {
		return fmt.Errorf("writing %s.json: %w", base, err)
	}
	return nil
}
