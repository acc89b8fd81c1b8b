package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/bookview/internal/mcp"
	"github.com/ziadkadry99/bookview/internal/session"
)

var serveSource string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio with a single viewer session, exposing page navigation, zoom and table-of-contents tools to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveSource != "" {
			cfg.Source = serveSource
		}

		entries, err := loadTOC(cfg)
		if err != nil {
			return err
		}

		sess := session.New("stdio", rendererFactory(cfg)(), sessionOptions(cfg, entries))
		defer sess.Close()

		if err := loadSession(sess, cfg.FetchTimeout()+cfg.RenderTimeout()); err != nil {
			// The session stays navigable; reload_document retries.
			fmt.Fprintf(os.Stderr, "Warning: could not load %s: %v\n", cfg.Source, err)
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "bookview MCP server started on stdio (source=%s, pages=%d)\n", cfg.Source, sess.State().TotalPages)

		srv := mcpserver.NewServer(sess)
		return srv.Serve()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveSource, "source", "", "document URL or path (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
