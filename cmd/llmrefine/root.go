// Package llmrefine wires the CLI commands: process runs text through the
// formatting pipeline, estimate projects cost, templates and models list the
// available catalogs.
package llmrefine

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           rootCommandUse,
	Short:         rootCommandShort,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(newProcessCommand())
	rootCmd.AddCommand(newEstimateCommand())
	rootCmd.AddCommand(newTemplatesCommand())
	rootCmd.AddCommand(newModelsCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
