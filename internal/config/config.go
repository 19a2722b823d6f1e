package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fjglira/mdscene/internal/domain"
)

// Config is the top-level configuration struct.
type Config struct {
	Locator   LocatorConfig  `yaml:"locator"`
	Parser    ParserConfig   `yaml:"parser"`
	Input     InputConfig    `yaml:"input"`
	Output    OutputConfig   `yaml:"output"`
	Preview   PreviewConfig  `yaml:"preview"`
	Templates TemplateConfig `yaml:"templates"`
	Logging   LoggingConfig  `yaml:"logging"`
	DryRun    bool           `yaml:"dry_run"`
}

type LocatorConfig struct {
	ScriptDir string   `yaml:"script_dir"` // empty means the executable's directory
	ExtraDirs []string `yaml:"extra_dirs"`
}

type ParserConfig struct {
	Engine string `yaml:"engine"`
}

type InputConfig struct {
	Include   []string `yaml:"include"`
	Exclude   []string `yaml:"exclude"`
	Recursive *bool    `yaml:"recursive"` // pointer to distinguish unset from false
}

type OutputConfig struct {
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type PreviewConfig struct {
	Style     string `yaml:"style"`
	Formatter string `yaml:"formatter"`
}

type TemplateConfig struct {
	Directory string `yaml:"directory"`
	Default   string `yaml:"default"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads a YAML configuration file and returns a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError("config", path, 0, "failed to read config file", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewError("config", path, 0, "failed to parse config file", err)
	}

	return cfg, nil
}

// LoadOrDefault is like Load but returns DefaultConfig when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Recursive reports whether directory scans descend into sub-directories.
func (c *Config) Recursive() bool {
	if c.Input.Recursive == nil {
		return true
	}
	return *c.Input.Recursive
}
