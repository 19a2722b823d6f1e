package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fjglira/mdscene/internal/config"
	"github.com/fjglira/mdscene/internal/locator"
	"github.com/fjglira/mdscene/internal/manifest"
	"github.com/fjglira/mdscene/internal/parser"
	"github.com/fjglira/mdscene/internal/pipeline"
	"github.com/fjglira/mdscene/internal/scanner"
	tmpl "github.com/fjglira/mdscene/internal/template"
)

var (
	cfgFile string
	verbose bool
	dryRun  bool
	cfg     *config.Config
	log     = logrus.New()
)

// rootCmd is the base command for mdscene.
var rootCmd = &cobra.Command{
	Use:   "mdscene",
	Short: "Parse annotated markdown code blocks into animation-ready records",
	Long: `mdscene reads markdown files whose fenced code blocks carry annotations
such as @step2 @highlight[result] @wait[2.0], and emits step-ordered block
records for an animation engine to consume.

Settings come from an optional YAML configuration file (mdscene.yaml).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadOrDefault(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if dryRun {
			cfg.DryRun = true
		}
		return setupLogging(cfg.Logging, cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "mdscene.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "process input but don't write output files")

	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setupLogging(lc config.LoggingConfig, stderr io.Writer) error {
	level := logrus.InfoLevel
	if lc.Level != "" {
		parsed, err := logrus.ParseLevel(lc.Level)
		if err != nil {
			return fmt.Errorf("invalid logging.level: %w", err)
		}
		level = parsed
	}
	if verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	log.SetOutput(stderr)

	if lc.File != "" {
		f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		log.SetOutput(io.MultiWriter(stderr, f))
	}
	return nil
}

// newPipeline wires all components from the loaded configuration.
func newPipeline() (*pipeline.Pipeline, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	engine, err := tmpl.NewEngine(cfg.Templates.Directory, cfg.Templates.Default)
	if err != nil {
		return nil, fmt.Errorf("failed to create template engine: %w", err)
	}

	return pipeline.New(
		locator.New(cfg.Locator.ScriptDir, cfg.Locator.ExtraDirs...),
		scanner.NewScanner(cfg.Recursive()),
		parser.NewDefaultRegistry(),
		manifest.NewBuilder(),
		engine,
		log,
	), nil
}
