package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/fjglira/mdscene/internal/domain"
)

var (
	validEngines = []string{"regex", "commonmark"}
	validFormats = []string{"json", "yaml", "text"}
	validLevels  = []string{"debug", "info", "warn", "error"}
)

// Validate checks the Config for required fields and valid values.
func Validate(cfg *Config) error {
	var errs []string

	if !slices.Contains(validEngines, cfg.Parser.Engine) {
		errs = append(errs, fmt.Sprintf("parser.engine must be one of: %s (got %q)", strings.Join(validEngines, ", "), cfg.Parser.Engine))
	}

	if len(cfg.Input.Include) == 0 {
		errs = append(errs, "input.include must not be empty")
	}

	if !slices.Contains(validFormats, cfg.Output.Format) {
		errs = append(errs, fmt.Sprintf("output.format must be one of: %s (got %q)", strings.Join(validFormats, ", "), cfg.Output.Format))
	}

	if cfg.Preview.Style != "" {
		if _, ok := styles.Registry[strings.ToLower(cfg.Preview.Style)]; !ok {
			errs = append(errs, fmt.Sprintf("preview.style %q is not a known chroma style", cfg.Preview.Style))
		}
	}
	if cfg.Preview.Formatter != "" && cfg.Preview.Formatter != "auto" {
		if _, ok := formatters.Registry[cfg.Preview.Formatter]; !ok {
			errs = append(errs, fmt.Sprintf("preview.formatter %q is not a known chroma formatter", cfg.Preview.Formatter))
		}
	}

	if cfg.Templates.Default == "" {
		errs = append(errs, "templates.default must not be empty")
	}

	if cfg.Logging.Level != "" && !slices.Contains(validLevels, cfg.Logging.Level) {
		errs = append(errs, fmt.Sprintf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
	}

	if len(errs) > 0 {
		return domain.NewError("config", "", 0, fmt.Sprintf("validation failed: %s", strings.Join(errs, "; ")), nil)
	}

	return nil
}
