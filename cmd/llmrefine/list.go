package llmrefine

import (
	"fmt"

	"github.com/spf13/cobra"

	"llmrefine/internal/pricing"
	"llmrefine/internal/templates"
)

func newTemplatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   templatesCommandUse,
		Short: templatesCommandShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplatesCommand(cmd)
		},
	}
}

func runTemplatesCommand(command *cobra.Command) error {
	outputWriter := command.OutOrStdout()
	for _, template := range templates.All() {
		if _, writeErr := fmt.Fprintf(outputWriter, "%s\t%s\n", template.Key, template.Description); writeErr != nil {
			return fmt.Errorf("write template listing: %w", writeErr)
		}
	}
	return nil
}

func newModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   modelsCommandUse,
		Short: modelsCommandShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModelsCommand(cmd)
		},
	}
}

func runModelsCommand(command *cobra.Command) error {
	outputWriter := command.OutOrStdout()
	for _, modelName := range pricing.ModelNames() {
		modelConfiguration, findErr := pricing.FindModel(modelName)
		if findErr != nil {
			return findErr
		}
		_, writeErr := fmt.Fprintf(outputWriter, "%s\t(%s, $%.3f/$%.3f per 1M in/out)\n",
			modelName, modelConfiguration.Provider, modelConfiguration.CostPer1MInput, modelConfiguration.CostPer1MOutput)
		if writeErr != nil {
			return fmt.Errorf("write model listing: %w", writeErr)
		}
	}
	return nil
}
