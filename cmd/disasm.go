package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/classmut/internal/classfile"
	"gooze.dev/pkg/classmut/internal/disasm"
	"gooze.dev/pkg/classmut/internal/domain"
	m "gooze.dev/pkg/classmut/internal/model"
)

var showMutantsFlag bool

// disasmCmd represents the disasm command.
var disasmCmd = newDisasmCmd()

func newDisasmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disasm [inputs...]",
		Short: "Print method bodies, optionally with the diff of every mutant",
		Long:  "Print the instructions of every method in the given classes.\n\n" + inputsHelp,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			return runDisasm(ctx, cmd, args)
		},
	}

	cmd.Flags().StringSliceVarP(&methodFlag, methodFlagName, "m", nil, "only print methods with this name (can be repeated)")
	cmd.Flags().BoolVar(&showMutantsFlag, "mutants", false, "also print each mutant's diff and verdict")

	return cmd
}

func init() {
	rootCmd.AddCommand(disasmCmd)
}

func runDisasm(ctx context.Context, cmd *cobra.Command, args []string) error {
	in, err := resolveInputs(ctx, args, viper.GetStringSlice(classpathConfigKey))
	if err != nil {
		return err
	}

	defer func() {
		if err := in.Close(); err != nil {
			slog.Warn("Failed to close inputs", "error", err)
		}
	}()

	filter, err := domain.NewFilter(filterConfig())
	if err != nil {
		return err
	}

	ops, err := registry.Resolve(parseOperators(viper.GetStringSlice(operatorsConfigKey))...)
	if err != nil {
		return err
	}

	engine := domain.NewEngine(nil)
	ui := newUI(cmd)
	methods, _ := cmd.Flags().GetStringSlice(methodFlagName)

	for _, name := range in.classes {
		unit, err := classfile.ParseFrom(ctx, in.source, name)
		if err != nil {
			return err
		}

		for _, method := range unit.Methods(func(method *m.Method) bool {
			return method.HasCode() && (len(methods) == 0 || slices.Contains(methods, method.Name))
		}) {
			if err := ui.DisplayDisassembly(ctx, disasm.Method(method)); err != nil {
				return err
			}

			if !showMutantsFlag {
				continue
			}

			for _, d := range filter.Decide(method, engine.Mutate(method, ops...)) {
				diff, err := disasm.Diff(method, d.Mutant)
				if err != nil {
					return err
				}

				mutant := m.NewMutantReport(d)

				if err := ui.DisplayDiff(ctx, mutant, diff); err != nil {
					return fmt.Errorf("display %s: %w", mutant.ID, err)
				}
			}
		}
	}

	return nil
}
