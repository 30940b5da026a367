package cmd

import (
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"gooze.dev/pkg/classmut/internal/domain"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version, mutation operators and loop-exit patterns",
		Long: `Displays the build version, the Go version used to build this tool, the
mutation operators it can apply and the loop-exit patterns the filter recognizes.`,
		Run: func(cmd *cobra.Command, _ []string) {
			version, goVersion := "unknown", "unknown"
			if info, ok := debug.ReadBuildInfo(); ok {
				goVersion = info.GoVersion
				if info.Main.Version != "" {
					version = info.Main.Version
				}
			}

			operators := make([]string, 0, len(registry.IDs()))
			for _, id := range registry.IDs() {
				operators = append(operators, string(id))
			}

			var patterns []string
			for _, p := range domain.LoopExitPatterns(filterConfig()) {
				patterns = append(patterns, p.ID)
			}

			cmd.Println("classmut version\t", version)
			cmd.Println("go version\t", goVersion)
			cmd.Println("operators\t", strings.Join(operators, ", "))
			cmd.Println("loop patterns\t", strings.Join(patterns, ", "))
		},
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
