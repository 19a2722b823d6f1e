package cli

import (
	"github.com/spf13/cobra"

	"github.com/fjglira/mdscene/internal/preview"
)

var previewStyle string

var previewCmd = &cobra.Command{
	Use:   "preview FILE",
	Short: "Print the code blocks in step order with terminal syntax colors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}

		results, err := p.Collect(cfg, args, "")
		if err != nil {
			return err
		}

		style := cfg.Preview.Style
		if previewStyle != "" {
			style = previewStyle
		}
		return preview.New(style, cfg.Preview.Formatter).Render(cmd.OutOrStdout(), results[0].Document)
	},
}

func init() {
	previewCmd.Flags().StringVarP(&previewStyle, "style", "s", "", "chroma style name (default from config)")
	rootCmd.AddCommand(previewCmd)
}
