package config

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	recursive := true
	return &Config{
		Parser: ParserConfig{
			Engine: "regex",
		},
		Input: InputConfig{
			Include:   []string{"*.md", "*.markdown"},
			Exclude:   []string{"vendor/**", "node_modules/**"},
			Recursive: &recursive,
		},
		Output: OutputConfig{
			Format: "json",
		},
		Preview: PreviewConfig{
			Style:     "monokai",
			Formatter: "terminal256",
		},
		Templates: TemplateConfig{
			Default: "report",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
