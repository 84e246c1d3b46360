package llmrefine

const (
	rootCommandUse   = "llmrefine"
	rootCommandShort = "Format and analyze text transcripts with a streaming LLM"

	processCommandUse   = "process INPUT"
	processCommandShort = "Process a text file or directory through the formatting pipeline"

	estimateCommandUse   = "estimate INPUT"
	estimateCommandShort = "Estimate token usage and cost without calling the API"

	templatesCommandUse   = "templates"
	templatesCommandShort = "List available prompt templates"

	modelsCommandUse   = "models"
	modelsCommandShort = "List known models with pricing"

	configFlagName      = "config"
	configFlagUsage     = "Path to config.yaml (working and home directories are searched when omitted)"
	outputDirFlagName   = "output-dir"
	outputDirFlagUsage  = "Directory for generated output files"
	formatFlagName      = "format"
	formatFlagUsage     = "Output format: json, txt or both"
	templateFlagName    = "template"
	templateFlagUsage   = "Prompt template key (see the templates command)"
	recursiveFlagName   = "recursive"
	recursiveFlagUsage  = "Descend into subdirectories when INPUT is a directory"
	dryRunFlagName      = "dry-run"
	dryRunFlagUsage     = "Print a cost estimate instead of calling the API"
	modelFlagName       = "model"
	modelFlagUsage      = "Override the configured model by name (see the models command)"
	maxTokensFlagName   = "max-tokens"
	maxTokensFlagUsage  = "Cap on estimated output tokens (0 = model limit)"

	configurationLoaderInitializationErrorFormat = "initialize configuration loader: %w"
	configurationSourceResolutionErrorFormat     = "resolve configuration source: %w"
	rootConfigurationLoadErrorFormat             = "load root configuration %s: %w"
	missingAPITokenErrorFormat                   = "environment variable %s is empty; set it to your API token"
	noInputFilesErrorFormat                      = "no text files found under %s"
	readInputErrorFormat                         = "read input %s: %w"
)
