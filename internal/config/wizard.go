package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// DefaultPath is the config file the CLI reads unless --config is given.
const DefaultPath = ".bookview.yml"

// tocCandidates are checked, in order, for a table of contents next to the
// config file.
var tocCandidates = []string{"toc.yml", "toc.yaml", "toc.md", "contents.md"}

// detectTOCFile returns the first TOC file found in the current directory.
func detectTOCFile() string {
	for _, name := range tocCandidates {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// detectSource returns a local PDF in the current directory, if exactly one
// exists.
func detectSource() string {
	matches, _ := filepath.Glob("*.pdf")
	if len(matches) == 1 {
		return matches[0]
	}
	return DefaultSource
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to bookview! Let's configure your viewer.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Document source.
	sourcePrompt := promptui.Prompt{
		Label:   "Document URL or path",
		Default: detectSource(),
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("source is required")
			}
			return nil
		},
	}
	source, err := sourcePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	cfg.Source = strings.TrimSpace(source)

	// 2. Table of contents.
	tocPrompt := promptui.Prompt{
		Label:   "Table of contents file (.yml or .md, blank for the sample)",
		Default: detectTOCFile(),
	}
	tocFile, err := tocPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("toc file: %w", err)
	}
	cfg.TOCFile = strings.TrimSpace(tocFile)

	// 3. Layout.
	layoutPrompt := promptui.Select{
		Label: "Single-column breakpoint",
		Items: []string{
			"768  — tablets and up show two pages",
			"1024 — only desktops show two pages",
			"off  — always two pages",
		},
	}
	layoutIdx, _, err := layoutPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("layout selection: %w", err)
	}
	cfg.SingleColumnWidth = []int{768, 1024, 1}[layoutIdx]

	// 4. Port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("invalid port")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 5. Allowed sources.
	allowPrompt := promptui.Prompt{
		Label:   "Allowed source patterns (comma-separated globs, blank allows any)",
		Default: "",
	}
	allowStr, err := allowPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("allowed sources: %w", err)
	}
	cfg.AllowedSources = splitAndTrim(allowStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
