package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/bookview/internal/server"
	"github.com/ziadkadry99/bookview/internal/session"
)

var (
	serverPort   int
	serverSource string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the viewer web server",
	Long:  `Starts the bookview HTTP server with the viewer page, the REST intent API and live WebSocket sessions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serverPort > 0 {
			cfg.Port = serverPort
		}
		if serverSource != "" {
			cfg.Source = serverSource
		}

		entries, err := loadTOC(cfg)
		if err != nil {
			return err
		}

		loadTimeout := cfg.FetchTimeout() + cfg.RenderTimeout()
		mgr := session.NewManager(rendererFactory(cfg), sessionOptions(cfg, entries), loadTimeout)
		defer mgr.Close()
		if idle := cfg.SessionIdleTimeout(); idle > 0 {
			mgr.StartReaper(idle, min(idle, time.Minute))
		}

		srv := server.New(server.Config{
			Port:       cfg.Port,
			AllowAll:   cfg.AllowAllOrigins,
			ZoomStep:   cfg.ZoomStep,
			Breakpoint: cfg.SingleColumnWidth,
		}, mgr, entries)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "bookview server %s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Source: %s\n", cfg.Source)
		fmt.Fprintf(os.Stderr, "  TOC entries: %d\n", len(entries))

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 0, "port to listen on (overrides config)")
	serverCmd.Flags().StringVar(&serverSource, "source", "", "document URL or path (overrides config)")
	rootCmd.AddCommand(serverCmd)
}
