package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/classmut/internal/controller"
	"gooze.dev/pkg/classmut/internal/domain"
)

// mergeCmd represents the merge command.
var mergeCmd = newMergeCmd()

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge reports...",
		Short: "Merge reports from separate runs into one",
		Long:  "Merge the YAML reports of separate analyze runs into the report at --output.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			wf, err := newWorkflow(nil, nil)
			if err != nil {
				return err
			}

			report, err := wf.Merge(ctx, domain.MergeArgs{Inputs: args, Reports: viper.GetString(outputFlagName)})
			if err != nil {
				return err
			}

			return newUI(cmd).DisplayReport(ctx, report, controller.WithSummaryMode())
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
