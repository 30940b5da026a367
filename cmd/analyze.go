package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/classmut/internal/controller"
	"gooze.dev/pkg/classmut/internal/domain"
	m "gooze.dev/pkg/classmut/internal/model"
	"gooze.dev/pkg/classmut/internal/telemetry"
)

var methodFlag []string
var operatorsFlag []string
var parallelFlag int
var summaryFlag bool
var rejectsOnlyFlag bool
var emitFlag string
var progressFlag bool

// analyzeCmd represents the analyze command.
var analyzeCmd = newAnalyzeCmd()

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [inputs...]",
		Short: "Generate mutants and filter out infinite-loop candidates",
		Long:  analyzeLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			return runAnalysis(ctx, cmd, args, func(wf domain.Workflow, analyzeArgs domain.AnalyzeArgs) error {
				analyzeArgs.Reports = viper.GetString(outputFlagName)
				analyzeArgs.Emit = viper.GetString(emitConfigKey)

				report, err := analyzeWithProgress(ctx, cmd, wf, analyzeArgs)
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
			})
		},
	}

	configureAnalyzeFlags(cmd)

	cmd.Flags().BoolVar(&summaryFlag, "summary", false, "print per-class totals instead of one row per mutant")
	cmd.Flags().BoolVar(&rejectsOnlyFlag, "rejects-only", false, "print only rejected mutants")

	cmd.Flags().BoolVar(&progressFlag, progressFlagName, viper.GetBool(progressConfigKey), "draw a progress bar on stderr when it is a terminal")
	bindFlagToConfig(cmd.Flags().Lookup(progressFlagName), progressConfigKey)

	return cmd
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func configureAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&methodFlag, methodFlagName, "m", nil, "only analyze methods with this name (can be repeated)")

	cmd.Flags().StringSliceVar(&operatorsFlag, operatorsFlagName, viper.GetStringSlice(operatorsConfigKey), "mutation operators to apply (default: all)")
	bindFlagToConfig(cmd.Flags().Lookup(operatorsFlagName), operatorsConfigKey)

	cmd.Flags().IntVarP(&parallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of classes analyzed concurrently")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)

	cmd.Flags().StringVar(&emitFlag, emitFlagName, viper.GetString(emitConfigKey), "write kept mutants as class files under this directory")
	bindFlagToConfig(cmd.Flags().Lookup(emitFlagName), emitConfigKey)
}

// analyzeWithProgress runs the analysis behind a progress bar when stderr is
// a terminal and the bar is enabled.
func analyzeWithProgress(ctx context.Context, cmd *cobra.Command, wf domain.Workflow, args domain.AnalyzeArgs) (m.Report, error) {
	stderr := cmd.ErrOrStderr()
	if !viper.GetBool(progressConfigKey) || !controller.IsTerminal(stderr) {
		return wf.Analyze(ctx, args)
	}

	bar := controller.NewProgress(stderr, len(args.Classes))
	bar.Start()

	args.Progress = bar.Advance

	report, err := wf.Analyze(ctx, args)

	if stopErr := bar.Stop(); stopErr != nil {
		slog.Warn("Failed to draw progress", "error", stopErr)
	}

	return report, err
}

// runAnalysis resolves the inputs, builds a workflow and hands both to fn.
// Metrics are written afterwards when a metrics file is configured.
func runAnalysis(ctx context.Context, cmd *cobra.Command, args []string, fn func(domain.Workflow, domain.AnalyzeArgs) error) error {
	in, err := resolveInputs(ctx, args, viper.GetStringSlice(classpathConfigKey))
	if err != nil {
		return err
	}

	defer func() {
		if err := in.Close(); err != nil {
			slog.Warn("Failed to close inputs", "error", err)
		}
	}()

	metrics := telemetry.NewMetrics()

	wf, err := newWorkflow(in.source, metrics)
	if err != nil {
		return err
	}

	threads := viper.GetInt(parallelConfigKey)
	if threads < 0 {
		threads = 0
	}

	methods, _ := cmd.Flags().GetStringSlice(methodFlagName)

	err = fn(wf, domain.AnalyzeArgs{
		Classes:   in.classes,
		Methods:   methods,
		Operators: parseOperators(viper.GetStringSlice(operatorsConfigKey)),
		Threads:   uint(threads),
	})
	if err != nil {
		return err
	}

	if path := viper.GetString(metricsFileConfigKey); path != "" {
		return metrics.WriteTextfile(path)
	}

	return nil
}

func parseOperators(names []string) []m.OperatorID {
	ids := make([]m.OperatorID, 0, len(names))
	for _, name := range names {
		name = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
		if name != "" {
			ids = append(ids, m.OperatorID(name))
		}
	}

	return ids
}
