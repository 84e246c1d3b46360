package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	environmentPrefix = "LLMREFINE"

	missingEndpointErrorMessage              = "config common.api.endpoint is empty"
	missingTokenEnvErrorMessage              = "config common.api.token_env is empty"
	missingModelNameErrorMessage             = "config model.name is empty"
	rootConfigurationEmptyContentErrorFormat = "root configuration %s is empty"
	rootConfigurationUnmarshalErrorFormat    = "unmarshal root configuration %s: %w"

	defaultTimeoutSeconds    = 300
	defaultMaxRetries        = 3
	defaultMaxChunkChars     = 6000
	defaultRequestsPerMinute = 60.0
	defaultBurst             = 10
	defaultTemplateKey       = "default"
	defaultOutputFormat      = "both"
)

type Root struct {
	Common     Common     `yaml:"common"`
	Model      Model      `yaml:"model"`
	Processing Processing `yaml:"processing"`
	Output     Output     `yaml:"output"`
}

type Common struct {
	API struct {
		Endpoint string `yaml:"endpoint"`
		TokenEnv string `yaml:"token_env"`
	} `yaml:"api"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

type Model struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type Processing struct {
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	MaxRetries        int     `yaml:"max_retries"`
	MaxChunkChars     int     `yaml:"max_chunk_chars"`
	RequestsPerMinute float64 `yaml:"requests_per_minute"`
	Burst             int     `yaml:"burst"`
	Template          string  `yaml:"template"`
}

type Output struct {
	Directory string `yaml:"directory"`
	Format    string `yaml:"format"`
}

// LoadRoot parses the provided configuration source, fills unset processing
// values with package defaults, layers environment overrides on top and
// validates required fields.
func LoadRoot(source RootConfigurationSource) (Root, error) {
	if len(source.Content) == 0 {
		return Root{}, fmt.Errorf(rootConfigurationEmptyContentErrorFormat, source.Reference)
	}

	var rootConfiguration Root
	if err := yaml.Unmarshal(source.Content, &rootConfiguration); err != nil {
		return Root{}, fmt.Errorf(rootConfigurationUnmarshalErrorFormat, source.Reference, err)
	}

	rootConfiguration.applyDefaults()
	rootConfiguration.applyEnvironmentOverrides()

	if rootConfiguration.Common.API.Endpoint == "" {
		return Root{}, errors.New(missingEndpointErrorMessage)
	}
	if rootConfiguration.Common.API.TokenEnv == "" {
		return Root{}, errors.New(missingTokenEnvErrorMessage)
	}
	if rootConfiguration.Model.Name == "" {
		return Root{}, errors.New(missingModelNameErrorMessage)
	}
	return rootConfiguration, nil
}

func (root *Root) applyDefaults() {
	if root.Processing.TimeoutSeconds <= 0 {
		root.Processing.TimeoutSeconds = defaultTimeoutSeconds
	}
	if root.Processing.MaxRetries <= 0 {
		root.Processing.MaxRetries = defaultMaxRetries
	}
	if root.Processing.MaxChunkChars <= 0 {
		root.Processing.MaxChunkChars = defaultMaxChunkChars
	}
	if root.Processing.RequestsPerMinute <= 0 {
		root.Processing.RequestsPerMinute = defaultRequestsPerMinute
	}
	if root.Processing.Burst <= 0 {
		root.Processing.Burst = defaultBurst
	}
	if root.Processing.Template == "" {
		root.Processing.Template = defaultTemplateKey
	}
	if root.Output.Format == "" {
		root.Output.Format = defaultOutputFormat
	}
}

// applyEnvironmentOverrides layers LLMREFINE_* environment variables over the
// file values, e.g. LLMREFINE_API_ENDPOINT or LLMREFINE_MODEL_NAME.
func (root *Root) applyEnvironmentOverrides() {
	environment := viper.New()
	environment.SetEnvPrefix(environmentPrefix)
	environment.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	environment.AutomaticEnv()

	if value := environment.GetString("api.endpoint"); value != "" {
		root.Common.API.Endpoint = value
	}
	if value := environment.GetString("api.token_env"); value != "" {
		root.Common.API.TokenEnv = value
	}
	if value := environment.GetString("logging.level"); value != "" {
		root.Common.Logging.Level = value
	}
	if value := environment.GetString("model.name"); value != "" {
		root.Model.Name = value
	}
	if value := environment.GetString("model.version"); value != "" {
		root.Model.Version = value
	}
	if value := environment.GetInt("processing.timeout_seconds"); value > 0 {
		root.Processing.TimeoutSeconds = value
	}
	if value := environment.GetInt("processing.max_retries"); value > 0 {
		root.Processing.MaxRetries = value
	}
	if value := environment.GetInt("processing.max_chunk_chars"); value > 0 {
		root.Processing.MaxChunkChars = value
	}
	if value := environment.GetFloat64("processing.requests_per_minute"); value > 0 {
		root.Processing.RequestsPerMinute = value
	}
	if value := environment.GetInt("processing.burst"); value > 0 {
		root.Processing.Burst = value
	}
	if value := environment.GetString("processing.template"); value != "" {
		root.Processing.Template = value
	}
	if value := environment.GetString("output.directory"); value != "" {
		root.Output.Directory = value
	}
	if value := environment.GetString("output.format"); value != "" {
		root.Output.Format = value
	}
}
