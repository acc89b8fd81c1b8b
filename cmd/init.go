package cmd

import (
	"github.com/spf13/cobra"
	"github.com/ziadkadry99/bookview/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize bookview configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose the document, table of contents and layout, and writes a .bookview.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
