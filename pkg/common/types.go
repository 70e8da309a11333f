package common

// LoggingConfig defines configuration options for application logging.
type LoggingConfig struct {
	// File is the path to the log file
	File string `yaml:"file,omitempty"`

	// Level sets the logging verbosity (e.g., "info", "debug", "error")
	Level string `yaml:"level,omitempty"`
}

// RunConfig describes how external command lines are executed.
type RunConfig struct {
	// Runner is the type of runner to use ("exec", "firejail" or "sandbox-exec")
	Runner string `yaml:"runner,omitempty"`

	// Options for the runner
	Options map[string]interface{} `yaml:"options,omitempty"`

	// Env is a list of extra KEY=VALUE pairs added to the environment
	Env []string `yaml:"env,omitempty"`
}
