package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage huh configuration",
	Long: `Manage the optional configuration file at ~/.huh/config.yaml.
Defaults are used for any key the file does not set.`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
