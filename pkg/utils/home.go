// Package utils provides utility functions for shellfront
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	// AppDirEnv is the environment variable that overrides the shellfront configuration directory
	AppDirEnv = "SHELLFRONT_DIR"
	// AppHome is the name of the configuration directory inside the user's home
	AppHome = ".shellfront"
	// ConfigFileName is the name of the default configuration file inside AppHome
	ConfigFileName = "config.yaml"
)

// GetHome returns the user's home directory in a portable way
func GetHome() (string, error) {
	var home string

	if runtime.GOOS == "windows" {
		home = os.Getenv("USERPROFILE")
		if home == "" {
			home = os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
		}
	} else {
		home = os.Getenv("HOME")
	}

	if home == "" {
		return "", fmt.Errorf("unable to determine home directory")
	}

	return home, nil
}

// GetAppHome returns the shellfront configuration directory.
// This is typically ~/.shellfront on Unix-like systems or %USERPROFILE%\.shellfront on Windows
func GetAppHome() (string, error) {
	if dir := os.Getenv(AppDirEnv); dir != "" {
		return dir, nil
	}

	home, err := GetHome()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, AppHome), nil
}

// GetDefaultConfigFile returns the path of the configuration file used when
// no --config flag is given. The file does not need to exist.
func GetDefaultConfigFile() (string, error) {
	dir, err := GetAppHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// ExpandHome replaces a leading "~" (alone or followed by a separator) with
// the user's home directory. Other paths are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}

	home, err := GetHome()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}
