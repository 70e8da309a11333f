// Package config provides configuration loading and handling functionality.
//
// It defines the data structures for the shellfront configuration file,
// which is loaded from YAML, and fills in defaults for everything the
// user leaves out.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/inercia/shellfront/pkg/common"
)

// Defaults used when the configuration leaves a field empty
const (
	DefaultPrompt    = "{{ .cwd }}$ "
	DefaultEditor    = "vim"
	DefaultSeparator = "   "
	DefaultRunner    = "exec"
)

// ColorMode controls when the listing palette emits escape codes
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config represents the top-level configuration structure for the application.
type Config struct {
	// Shell contains the interactive front-end settings
	Shell ShellConfig `yaml:"shell,omitempty"`

	// Run specifies how external command lines are executed
	Run common.RunConfig `yaml:"run,omitempty"`

	// Guards are CEL expressions that must all hold before a line is
	// handed to the external interpreter
	Guards []string `yaml:"guards,omitempty"`

	// Logging configures the application log
	Logging common.LoggingConfig `yaml:"logging,omitempty"`
}

// ShellConfig represents the interactive front-end settings.
type ShellConfig struct {
	// Prompt is a text/template (with sprig functions) rendered before every read.
	// Available variables: cwd, base, home, user
	Prompt string `yaml:"prompt,omitempty"`

	// Interpreter is the shell used for external commands (default $SHELL, then /bin/sh)
	Interpreter string `yaml:"interpreter,omitempty"`

	// Editor is the program launched by the vim command
	Editor string `yaml:"editor,omitempty"`

	// Color selects when listings are colored: auto, always or never
	Color ColorMode `yaml:"color,omitempty"`

	// Separator is printed between entries in listings
	Separator string `yaml:"separator,omitempty"`

	// HistoryFile keeps the line-editing history between sessions (empty disables it)
	HistoryFile string `yaml:"history_file,omitempty"`
}

// Default returns a configuration with every field set to its default value
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig loads the configuration from a YAML file at the specified path.
//
// Parameters:
//   - filepath: Path to the YAML configuration file
//
// Returns:
//   - A pointer to the loaded Config structure, with defaults applied
//   - An error if loading or parsing fails
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML content into a Config and applies defaults.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Shell.Prompt == "" {
		c.Shell.Prompt = DefaultPrompt
	}
	if c.Shell.Editor == "" {
		c.Shell.Editor = DefaultEditor
	}
	if c.Shell.Separator == "" {
		c.Shell.Separator = DefaultSeparator
	}
	if c.Shell.Color == "" {
		c.Shell.Color = ColorAuto
	}
	c.Shell.Color = ColorMode(strings.ToLower(string(c.Shell.Color)))

	if c.Run.Runner == "" {
		c.Run.Runner = DefaultRunner
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "none"
	}
}

// Validate checks the configuration without using it: the prompt template
// must parse, the color mode and runner must be known and every guard must
// compile to a boolean CEL program.
func (c *Config) Validate() error {
	if _, err := common.ParseTemplate("prompt", c.Shell.Prompt); err != nil {
		return fmt.Errorf("invalid prompt template: %w", err)
	}

	switch c.Shell.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode '%s' (expected auto, always or never)", c.Shell.Color)
	}

	switch c.Run.Runner {
	case "exec", "firejail", "sandbox-exec":
	default:
		return fmt.Errorf("unknown runner type: %s", c.Run.Runner)
	}

	for _, e := range c.Run.Env {
		if !strings.Contains(e, "=") {
			return fmt.Errorf("invalid environment entry '%s' (expected KEY=VALUE)", e)
		}
	}

	if _, err := common.NewCompiledGuards(c.Guards, nil); err != nil {
		return err
	}

	return nil
}
