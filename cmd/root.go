// Package cmd provides the root command and CLI setup for classmut.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gooze.dev/pkg/classmut/internal/adapter"
	"gooze.dev/pkg/classmut/internal/controller"
	"gooze.dev/pkg/classmut/internal/domain"
	"gooze.dev/pkg/classmut/internal/domain/mutagens"
	"gooze.dev/pkg/classmut/internal/telemetry"
)

var reportStore adapter.ReportStore
var mutantStore adapter.MutantStore
var registry *mutagens.Registry

// newWorkflow builds the workflow for one command run. Tests replace it.
var newWorkflow = func(source adapter.ByteSource, recorder telemetry.Recorder) (domain.Workflow, error) {
	filter, err := domain.NewFilter(filterConfig())
	if err != nil {
		return nil, err
	}

	return domain.NewWorkflow(source, reportStore, mutantStore, filter, registry, recorder), nil
}

// newUI builds the output adapter for a command. Tests replace it.
var newUI = func(cmd *cobra.Command) controller.UI {
	return controller.NewSimpleUI(cmd)
}

// reportPathFlag is a root-level flag shared by commands that read/write reports.
var reportPathFlag string

// classpathFlag lists directories and jars searched for classes named on the command line.
var classpathFlag []string

// metricsFileFlag is where analysis counters are written in Prometheus text format.
var metricsFileFlag string

var verboseFlag bool

func init() {
	reportStore = adapter.NewYAMLReportStore()
	mutantStore = adapter.NewDirMutantStore()
	registry = mutagens.DefaultRegistry()
}

const inputsHelp = `Inputs may be:
  - path/to/Foo.class   a single class file
  - build/classes       every class under a classpath directory
  - lib/app.jar         every class in a jar
  - com.example.Foo     a class looked up on --classpath`

const rootLongDescription = `Classmut generates bytecode mutants for JVM classes and filters out
the ones that would turn a terminating loop into an infinite one, so that
mutation testing never waits on a hung test run.

` + inputsHelp

const analyzeLongDescription = `Mutate every method of the given classes and classify each mutant as
KEEP or REJECT.

` + inputsHelp

const loopsLongDescription = `List the loops of every method and the exit patterns recognized in each.

` + inputsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classmut",
		Short: "JVM bytecode mutation with infinite-loop filtering",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), verboseFlag || viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportPathFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"path of the YAML report",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringSliceVar(&classpathFlag, classpathFlagName, viper.GetStringSlice(classpathConfigKey), "directories and jars to look classes up in (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(classpathFlagName), classpathConfigKey)

	cmd.PersistentFlags().StringVar(&metricsFileFlag, metricsFileFlagName, viper.GetString(metricsFileConfigKey), "write analysis counters to this file in Prometheus text format")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(metricsFileFlagName), metricsFileConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "log at debug level")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
