package cmd

import (
	"github.com/spf13/cobra"

	"github.com/okonenko/ncm-grabber/internal/app"
)

const (
	configGetArgsCount = 1
	configSetArgsCount = 2
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
		Long: `Read and update the configuration file.

Keys match the YAML file, for example: quality, output_dir, template.`,
	}

	configGetCmd = &cobra.Command{
		Use:              "get {key}",
		Short:            "Print the current value of a configuration key",
		Args:             cobra.ExactArgs(configGetArgsCount),
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, args []string) {
			app.ExecuteConfigGetCommand(cmd.Context(), args[0])
		},
	}

	configSetCmd = &cobra.Command{
		Use:              "set {key} {value}",
		Short:            "Update a configuration key in the configuration file",
		Args:             cobra.ExactArgs(configSetArgsCount),
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, args []string) {
			app.ExecuteConfigSetCommand(cmd.Context(), args[0], args[1])
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd)

	rootCmd.AddCommand(configCmd)
}
