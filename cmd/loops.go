package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"gooze.dev/pkg/classmut/internal/domain"
)

// loopsCmd represents the loops command.
var loopsCmd = newLoopsCmd()

func newLoopsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loops [inputs...]",
		Short: "List loops and their recognized exit patterns",
		Long:  loopsLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			return runAnalysis(ctx, cmd, args, func(wf domain.Workflow, analyzeArgs domain.AnalyzeArgs) error {
				report, err := wf.Loops(ctx, analyzeArgs)
				if err != nil {
					return err
				}

				return newUI(cmd).DisplayLoops(ctx, report)
			})
		},
	}

	configureAnalyzeFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(loopsCmd)
}
