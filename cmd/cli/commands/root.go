// Package commands provides the slashkit CLI.
package commands

import (
	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "slashkit",
	Short: "Inspect and publish the bot's slash commands",
	Long: `slashkit builds the bot's command declarations without connecting to
the gateway.

Run 'slashkit schema' to print the registration payload, or
'slashkit deploy' to publish it.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "Environment file to load")

	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(deployCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
