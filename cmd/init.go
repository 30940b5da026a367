package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const forceFlagName = "force"

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a classmut.yaml with the current settings",
		Long: `Write classmut.yaml in the current working directory from the effective
settings (defaults, CLASSMUT_* environment and flags) so it can be edited manually.
Filter windows and operator names are checked first; a configuration the analyze
command would refuse is not written.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := filterConfig().Validate(); err != nil {
				return fmt.Errorf("invalid filter settings: %w", err)
			}

			if _, err := registry.Resolve(parseOperators(viper.GetStringSlice(operatorsConfigKey))...); err != nil {
				return fmt.Errorf("invalid %s: %w", operatorsConfigKey, err)
			}

			targetPath := filepath.Join(configFolderPath, configFileName)

			write := viper.SafeWriteConfigAs
			if force, _ := cmd.Flags().GetBool(forceFlagName); force {
				write = viper.WriteConfigAs
			}

			if err := write(targetPath); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			cmd.Printf("Wrote %s\n", targetPath)

			return nil
		},
	}

	cmd.Flags().Bool(forceFlagName, false, "overwrite an existing configuration file")

	return cmd
}

func init() {
	rootCmd.AddCommand(initCmd)
}
