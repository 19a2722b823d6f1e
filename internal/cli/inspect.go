package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var inspectDir string

var inspectCmd = &cobra.Command{
	Use:   "inspect [FILE...]",
	Short: "Print the render manifest: lexers, target spans and diagnostics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && inspectDir == "" {
			return errors.New("inspect needs at least one FILE or --dir")
		}
		applyOutputFlags(cmd)
		p, err := newPipeline()
		if err != nil {
			return err
		}

		results, err := p.Collect(cfg, args, inspectDir)
		if err != nil {
			return err
		}
		return p.WriteManifests(cfg, results, cmd.OutOrStdout())
	},
}

func init() {
	addOutputFlags(inspectCmd)
	inspectCmd.Flags().StringVarP(&inspectDir, "dir", "d", "", "inspect every markdown file under this directory")
	rootCmd.AddCommand(inspectCmd)
}
