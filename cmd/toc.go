package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/bookview/internal/toc"
	"github.com/ziadkadry99/bookview/internal/viewer"
)

var tocCmd = &cobra.Command{
	Use:   "toc",
	Short: "Print the table of contents",
	Long:  `Prints the configured table of contents with sidebar numbers, target pages and, with --page, the entry that page belongs to.`,
	RunE:  runTOC,
}

func init() {
	tocCmd.Flags().Int("page", 0, "mark the entry containing this page")
	tocCmd.Flags().Bool("json", false, "output entries as JSON")
	rootCmd.AddCommand(tocCmd)
}

func runTOC(cmd *cobra.Command, args []string) error {
	page, _ := cmd.Flags().GetInt("page")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	entries, err := loadTOC(cfg)
	if err != nil {
		return err
	}

	active := -1
	if page != 0 {
		// Match what the viewer would show after jumping to page.
		current := viewer.New().RequestPage(page).CurrentPage
		active = toc.ActiveIndex(entries, current)
	}

	if jsonOutput {
		type item struct {
			toc.Entry
			Number string `json:"number"`
			Active bool   `json:"active"`
		}
		items := make([]item, 0, len(entries))
		for i, e := range entries {
			items = append(items, item{Entry: e, Number: toc.Number(i), Active: i == active})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	for i, e := range entries {
		marker := " "
		if i == active {
			marker = "*"
		}
		indent := ""
		if e.Kind == toc.KindSection {
			indent = "  "
		}
		fmt.Printf("%s %s  %s%-40s p.%d\n", marker, toc.Number(i), indent, e.Title, e.TargetPage)
	}
	return nil
}
