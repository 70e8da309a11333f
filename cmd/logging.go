package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inercia/shellfront/pkg/common"
	"github.com/inercia/shellfront/pkg/config"
	"github.com/inercia/shellfront/pkg/utils"
)

var (
	// the configuration loaded by setup
	appConfig *config.Config
	// the file it came from, empty for built-in defaults
	appConfigPath string
)

// setup loads the configuration and initializes the logger. Every command
// runs it before doing anything else.
func setup(cmd *cobra.Command, args []string) error {
	path, err := config.ResolveConfigPath(configFile, common.GetLogger())
	if err != nil {
		return err
	}

	cfg := config.Default()
	if path != "" {
		if cfg, err = config.LoadConfig(path); err != nil {
			return err
		}
	}

	appConfig = cfg
	appConfigPath = path

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		return err
	}

	if path != "" {
		logger.Info("Loaded configuration from %s", path)
	}
	return nil
}

// getConfig returns the loaded configuration, or the defaults when setup
// did not run
func getConfig() *config.Config {
	if appConfig == nil {
		return config.Default()
	}
	return appConfig
}

// initLogger creates the global logger. Command-line flags take precedence
// over the logging section of the configuration.
func initLogger(cfg common.LoggingConfig) (*common.Logger, error) {
	level := cfg.Level
	if logLevel != "" {
		level = logLevel
	}

	file := cfg.File
	if logFile != "" {
		file = logFile
	}
	if file != "" {
		expanded, err := utils.ExpandHome(file)
		if err != nil {
			return nil, err
		}
		file = expanded
	}

	logger, err := common.NewLogger(common.LogPrefix, file, common.LogLevelFromString(level), false)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	common.SetLogger(logger)
	return logger, nil
}
