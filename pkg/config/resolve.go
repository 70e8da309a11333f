package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/inercia/shellfront/pkg/common"
	"github.com/inercia/shellfront/pkg/utils"
)

// ResolveConfigPath works out which configuration file to load.
//
// An explicit path must exist and have a .yaml or .yml extension. Without
// one, the default file in the shellfront home is used when present; when it
// is absent the returned path is empty and the caller falls back to Default().
func ResolveConfigPath(configPath string, logger *common.Logger) (string, error) {
	if configPath != "" {
		expanded, err := utils.ExpandHome(configPath)
		if err != nil {
			return "", err
		}

		info, err := os.Stat(expanded)
		if os.IsNotExist(err) {
			return "", fmt.Errorf("configuration file does not exist: %s", expanded)
		}
		if err != nil {
			return "", fmt.Errorf("failed to access configuration file %s: %w", expanded, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("configuration path is a directory: %s", expanded)
		}

		ext := strings.ToLower(filepath.Ext(expanded))
		if ext != ".yaml" && ext != ".yml" {
			return "", fmt.Errorf("configuration file must have .yaml or .yml extension: %s", expanded)
		}

		logger.Info("Using configuration file: %s", expanded)
		return expanded, nil
	}

	defaultPath, err := utils.GetDefaultConfigFile()
	if err != nil {
		logger.Debug("No home directory, using built-in defaults: %v", err)
		return "", nil
	}

	if _, err := os.Stat(defaultPath); err != nil {
		logger.Debug("No configuration at %s, using built-in defaults", defaultPath)
		return "", nil
	}

	logger.Info("Using default configuration file: %s", defaultPath)
	return defaultPath, nil
}

// Load resolves and loads the configuration in one step
func Load(configPath string, logger *common.Logger) (*Config, error) {
	path, err := ResolveConfigPath(configPath, logger)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	return LoadConfig(path)
}
