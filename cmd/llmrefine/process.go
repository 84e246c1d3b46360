package llmrefine

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"llmrefine/internal/config"
	"llmrefine/internal/fsops"
	"llmrefine/internal/output"
	"llmrefine/internal/pipeline"
	"llmrefine/internal/replicate"
)

type processCommandOptions struct {
	configPath      string
	outputDirectory string
	format          string
	templateKey     string
	modelOverride   string
	recursive       bool
	dryRun          bool
	maxTokens       int
}

func newProcessCommand() *cobra.Command {
	options := &processCommandOptions{}

	command := &cobra.Command{
		Use:   processCommandUse,
		Short: processCommandShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcessCommand(cmd, *options, args[0])
		},
	}

	command.Flags().StringVar(&options.configPath, configFlagName, "", configFlagUsage)
	command.Flags().StringVar(&options.outputDirectory, outputDirFlagName, "", outputDirFlagUsage)
	command.Flags().StringVar(&options.format, formatFlagName, "", formatFlagUsage)
	command.Flags().StringVar(&options.templateKey, templateFlagName, "", templateFlagUsage)
	command.Flags().StringVar(&options.modelOverride, modelFlagName, "", modelFlagUsage)
	command.Flags().BoolVar(&options.recursive, recursiveFlagName, false, recursiveFlagUsage)
	command.Flags().BoolVar(&options.dryRun, dryRunFlagName, false, dryRunFlagUsage)
	command.Flags().IntVar(&options.maxTokens, maxTokensFlagName, 0, maxTokensFlagUsage)

	return command
}

func runProcessCommand(command *cobra.Command, options processCommandOptions, inputPath string) error {
	rootConfiguration, configurationErr := loadRootConfiguration(options.configPath)
	if configurationErr != nil {
		return configurationErr
	}
	applyProcessOverrides(&rootConfiguration, options)

	outputFormat, formatErr := output.ParseFormat(rootConfiguration.Output.Format)
	if formatErr != nil {
		return formatErr
	}

	operations := fsops.NewOps(fsops.NewOS())
	inputFiles, inputsErr := resolveInputs(operations, inputPath, options.recursive)
	if inputsErr != nil {
		return inputsErr
	}

	if options.dryRun {
		return runEstimateForInputs(command, operations, rootConfiguration.Model.Name, inputFiles, options.maxTokens)
	}

	apiToken := os.Getenv(rootConfiguration.Common.API.TokenEnv)
	if apiToken == "" {
		return fmt.Errorf(missingAPITokenErrorFormat, rootConfiguration.Common.API.TokenEnv)
	}
	client, clientErr := replicate.NewClient(apiToken, rootConfiguration.Common.API.Endpoint, rootConfiguration.Model.Version)
	if clientErr != nil {
		return clientErr
	}

	logger := buildLogger(rootConfiguration)
	defer func() { _ = logger.Sync() }()

	processor := pipeline.New(
		replicate.Adapter{Client: client},
		rootConfiguration.Processing.RequestsPerMinute,
		rootConfiguration.Processing.Burst,
		pipeline.Options{
			MaxRetries:    rootConfiguration.Processing.MaxRetries,
			Timeout:       time.Duration(rootConfiguration.Processing.TimeoutSeconds) * time.Second,
			MaxChunkChars: rootConfiguration.Processing.MaxChunkChars,
		},
		logger,
	)
	writer := output.Writer{Ops: operations, OutputDir: rootConfiguration.Output.Directory}

	for _, inputFile := range inputFiles {
		content, readErr := operations.FS.ReadFile(inputFile)
		if readErr != nil {
			return fmt.Errorf(readInputErrorFormat, inputFile, readErr)
		}

		logger.Info("processing file",
			zap.String("path", inputFile),
			zap.Int("chars", len(content)),
			zap.String("template", rootConfiguration.Processing.Template))

		result, processErr := processor.Process(command.Context(), string(content), rootConfiguration.Processing.Template)
		if processErr != nil {
			return fmt.Errorf("process %s: %w", inputFile, processErr)
		}

		writtenPaths, writeErr := writer.Write(operations.Stem(inputFile), result, outputFormat)
		if writeErr != nil {
			return writeErr
		}
		for _, writtenPath := range writtenPaths {
			if _, printErr := fmt.Fprintf(command.OutOrStdout(), "wrote %s\n", writtenPath); printErr != nil {
				return printErr
			}
		}
	}
	return nil
}

func applyProcessOverrides(rootConfiguration *config.Root, options processCommandOptions) {
	if options.outputDirectory != "" {
		rootConfiguration.Output.Directory = options.outputDirectory
	}
	if options.format != "" {
		rootConfiguration.Output.Format = options.format
	}
	if options.templateKey != "" {
		rootConfiguration.Processing.Template = options.templateKey
	}
	if options.modelOverride != "" {
		rootConfiguration.Model.Name = options.modelOverride
	}
}
