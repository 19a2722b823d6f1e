package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	lintDir    string
	lintStrict bool
)

var lintCmd = &cobra.Command{
	Use:   "lint [FILE...]",
	Short: "Report malformed or dangling annotations",
	Long: `Parses each file and reports problems that were recovered from: unknown
tags, malformed @transform entries, invalid @wait or @fontsize values,
duplicate tags, unknown languages and targets missing from the code.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && lintDir == "" {
			return errors.New("lint needs at least one FILE or --dir")
		}
		p, err := newPipeline()
		if err != nil {
			return err
		}

		results, err := p.Collect(cfg, args, lintDir)
		if err != nil {
			return err
		}
		count, err := p.Lint(results, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if lintStrict && count > 0 {
			return fmt.Errorf("%d problem(s) found", count)
		}
		return nil
	},
}

func init() {
	lintCmd.Flags().StringVarP(&lintDir, "dir", "d", "", "lint every markdown file under this directory")
	lintCmd.Flags().BoolVar(&lintStrict, "strict", false, "exit with an error when any problem is found")
	rootCmd.AddCommand(lintCmd)
}
