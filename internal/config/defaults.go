package config

import "github.com/ziadkadry99/bookview/internal/viewer"

// DefaultSource is the sample report the viewer opens when nothing else is
// configured.
const DefaultSource = "https://www.newcastle.edu.au/__data/assets/pdf_file/0008/333773/LD-Report-Writing-LH.pdf"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Source:            DefaultSource,
		Port:              8080,
		SingleColumnWidth: viewer.DefaultSingleColumnWidth,
		ZoomStep:          viewer.ZoomStep,
		Timeouts: TimeoutConfig{
			FetchSeconds:       60,
			RenderSeconds:      15,
			SessionIdleSeconds: 1800,
		},
	}
}
