package llmrefine

import (
	"fmt"

	"go.uber.org/zap"

	"llmrefine/internal/config"
)

func loadRootConfiguration(configurationPath string) (config.Root, error) {
	configurationLoader, loaderErr := config.NewDefaultRootConfigurationLoader()
	if loaderErr != nil {
		return config.Root{}, fmt.Errorf(configurationLoaderInitializationErrorFormat, loaderErr)
	}
	configurationSource, sourceErr := configurationLoader.Load(configurationPath)
	if sourceErr != nil {
		return config.Root{}, fmt.Errorf(configurationSourceResolutionErrorFormat, sourceErr)
	}
	rootConfiguration, loadErr := config.LoadRoot(configurationSource)
	if loadErr != nil {
		return config.Root{}, fmt.Errorf(rootConfigurationLoadErrorFormat, configurationSource.Reference, loadErr)
	}
	return rootConfiguration, nil
}

// buildLogger constructs a zap logger honoring the configured level and
// format. Unknown values fall back to info-level production output.
func buildLogger(rootConfiguration config.Root) *zap.Logger {
	loggerConfiguration := zap.NewProductionConfig()
	if rootConfiguration.Common.Logging.Format == "console" {
		loggerConfiguration = zap.NewDevelopmentConfig()
	}
	if level, parseErr := zap.ParseAtomicLevel(rootConfiguration.Common.Logging.Level); parseErr == nil {
		loggerConfiguration.Level = level
	}
	logger, buildErr := loggerConfiguration.Build()
	if buildErr != nil {
		return zap.NewNop()
	}
	return logger
}
