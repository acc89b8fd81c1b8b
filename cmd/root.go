package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/bookview/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "bookview",
	Short: "Right-to-left two-page document viewer",
	Long: `bookview presents a paginated document as a right-to-left book: two
facing pages per spread, starting with pages 1 and 2. It serves the viewer
over HTTP and WebSocket, exposes the same navigation to AI agents via MCP,
and can export every spread from the command line.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
