package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/classmut/internal/controller"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View a previously saved report",
		Long:  "View the report saved by a previous analyze or merge run.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()

			wf, err := newWorkflow(nil, nil)
			if err != nil {
				return err
			}

			report, err := wf.View(ctx, viper.GetString(outputFlagName))
			if err != nil {
				return err
			}

			var options []controller.DisplayOption
			if summaryFlag {
				options = append(options, controller.WithSummaryMode())
			}

			if rejectsOnlyFlag {
				options = append(options, controller.WithRejectsOnly())
			}

			return newUI(cmd).DisplayReport(ctx, report, options...)
		},
	}

	cmd.Flags().BoolVar(&summaryFlag, "summary", false, "print per-class totals instead of one row per mutant")
	cmd.Flags().BoolVar(&rejectsOnlyFlag, "rejects-only", false, "print only rejected mutants")

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
