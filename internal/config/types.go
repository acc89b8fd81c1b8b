package config

// Config is the top-level bookview configuration, corresponding to .bookview.yml.
type Config struct {
	// Source is the document reference: an http(s) URL or a local path.
	Source            string        `yaml:"source" koanf:"source"`
	TOCFile           string        `yaml:"toc_file" koanf:"toc_file"`
	Port              int           `yaml:"port" koanf:"port"`
	AllowedSources    []string      `yaml:"allowed_sources" koanf:"allowed_sources"`
	SingleColumnWidth int           `yaml:"single_column_width" koanf:"single_column_width"`
	ZoomStep          float64       `yaml:"zoom_step" koanf:"zoom_step"`
	AllowAllOrigins   bool          `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	Timeouts          TimeoutConfig `yaml:"timeouts" koanf:"timeouts"`
}

// TimeoutConfig holds renderer and session timeouts in seconds.
type TimeoutConfig struct {
	FetchSeconds  int `yaml:"fetch_seconds" koanf:"fetch_seconds"`
	RenderSeconds int `yaml:"render_seconds" koanf:"render_seconds"`
	// SessionIdleSeconds is how long a server session without a connected
	// client is kept before it is closed. 0 keeps sessions until shutdown.
	SessionIdleSeconds int `yaml:"session_idle_seconds" koanf:"session_idle_seconds"`
}
