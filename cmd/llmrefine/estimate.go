package llmrefine

import (
	"fmt"

	"github.com/spf13/cobra"

	"llmrefine/internal/fsops"
	"llmrefine/internal/pricing"
)

type estimateCommandOptions struct {
	configPath    string
	modelOverride string
	recursive     bool
	maxTokens     int
}

func newEstimateCommand() *cobra.Command {
	options := &estimateCommandOptions{}

	command := &cobra.Command{
		Use:   estimateCommandUse,
		Short: estimateCommandShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimateCommand(cmd, *options, args[0])
		},
	}

	command.Flags().StringVar(&options.configPath, configFlagName, "", configFlagUsage)
	command.Flags().StringVar(&options.modelOverride, modelFlagName, "", modelFlagUsage)
	command.Flags().BoolVar(&options.recursive, recursiveFlagName, false, recursiveFlagUsage)
	command.Flags().IntVar(&options.maxTokens, maxTokensFlagName, 0, maxTokensFlagUsage)

	return command
}

func runEstimateCommand(command *cobra.Command, options estimateCommandOptions, inputPath string) error {
	rootConfiguration, configurationErr := loadRootConfiguration(options.configPath)
	if configurationErr != nil {
		return configurationErr
	}
	modelName := rootConfiguration.Model.Name
	if options.modelOverride != "" {
		modelName = options.modelOverride
	}

	operations := fsops.NewOps(fsops.NewOS())
	inputFiles, inputsErr := resolveInputs(operations, inputPath, options.recursive)
	if inputsErr != nil {
		return inputsErr
	}

	return runEstimateForInputs(command, operations, modelName, inputFiles, options.maxTokens)
}

// runEstimateForInputs renders a per-file estimate and a total across all
// inputs. It is shared with process --dry-run.
func runEstimateForInputs(command *cobra.Command, operations fsops.Ops, modelName string, inputFiles []string, maxOutputTokens int) error {
	estimator, estimatorErr := pricing.NewEstimator(modelName)
	if estimatorErr != nil {
		return estimatorErr
	}

	outputWriter := command.OutOrStdout()
	var totalCost float64
	for _, inputFile := range inputFiles {
		content, readErr := operations.FS.ReadFile(inputFile)
		if readErr != nil {
			return fmt.Errorf(readInputErrorFormat, inputFile, readErr)
		}
		estimate, estimateErr := estimator.EstimateCost(string(content), maxOutputTokens)
		if estimateErr != nil {
			return fmt.Errorf("estimate %s: %w", inputFile, estimateErr)
		}
		totalCost += estimate.TotalCost

		if _, printErr := fmt.Fprintf(outputWriter, "%s\n%s\n\n", inputFile, estimate.Render()); printErr != nil {
			return printErr
		}
	}
	if len(inputFiles) > 1 {
		if _, printErr := fmt.Fprintf(outputWriter, "Total Estimated Cost (%d files): $%.6f\n", len(inputFiles), totalCost); printErr != nil {
			return printErr
		}
	}
	return nil
}
