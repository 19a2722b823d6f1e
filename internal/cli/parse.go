package cli

import (
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE...",
	Short: "Print the parsed document for one or more markdown files",
	Long: `Locates each FILE, parses its annotated code blocks and prints the
resulting document (title plus step-ordered blocks).`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyOutputFlags(cmd)
		p, err := newPipeline()
		if err != nil {
			return err
		}

		results, err := p.Collect(cfg, args, "")
		if err != nil {
			return err
		}
		return p.WriteDocuments(cfg, results, cmd.OutOrStdout())
	},
}

func init() {
	addOutputFlags(parseCmd)
	rootCmd.AddCommand(parseCmd)
}

// addOutputFlags registers --format and --output on cmd.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "", "output format: json, yaml or text (default from config)")
	cmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
}

// applyOutputFlags overrides the output config with flags the user set.
func applyOutputFlags(cmd *cobra.Command) {
	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		cfg.Output.Format = f.Value.String()
	}
	if f := cmd.Flags().Lookup("output"); f != nil && f.Changed {
		cfg.Output.File = f.Value.String()
	}
}
