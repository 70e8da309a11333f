package command

import (
	"context"
	"fmt"

	"github.com/inercia/shellfront/pkg/common"
)

// RunnerFirejail implements the Runner interface using firejail on Linux.
// The process runs with no profile, optionally without network access and
// with some folders mounted read-only.
type RunnerFirejail struct {
	execRunner *RunnerExec
	logger     *common.Logger
	options    RunnerFirejailOptions
}

// RunnerFirejailOptions is the options for the RunnerFirejail
type RunnerFirejailOptions struct {
	Shell           string   `json:"shell"`
	AllowNetworking bool     `json:"allow_networking"`
	ReadOnlyFolders []string `json:"read_only_folders"`
	ExtraArgs       []string `json:"extra_args"`
}

// NewRunnerFirejailOptions creates a new RunnerFirejailOptions from a RunnerOptions
func NewRunnerFirejailOptions(options RunnerOptions) (RunnerFirejailOptions, error) {
	var reopts RunnerFirejailOptions
	err := decodeOptions(options, &reopts)
	return reopts, err
}

// NewRunnerFirejail creates a new RunnerFirejail with the provided logger.
// If logger is nil, the global logger is used
func NewRunnerFirejail(options RunnerOptions, logger *common.Logger) (*RunnerFirejail, error) {
	if logger == nil {
		logger = common.GetLogger()
	}

	execRunner, err := NewRunnerExec(options, logger)
	if err != nil {
		return nil, err
	}

	firejailOpts, err := NewRunnerFirejailOptions(options)
	if err != nil {
		logger.Error("Failed to parse firejail options: %v", err)
		return nil, fmt.Errorf("failed to parse firejail options: %w", err)
	}

	return &RunnerFirejail{
		execRunner: execRunner,
		logger:     logger,
		options:    firejailOpts,
	}, nil
}

// CheckImplicitRequirements verifies firejail is usable on this system
func (r *RunnerFirejail) CheckImplicitRequirements() error {
	if !common.CheckOSMatches("linux") {
		return fmt.Errorf("firejail runner is only available on linux")
	}
	if !common.CheckExecutableExists("firejail") {
		return fmt.Errorf("firejail executable not found in PATH")
	}
	return nil
}

// Run executes the request inside the firejail sandbox.
// It implements the Runner interface
func (r *RunnerFirejail) Run(ctx context.Context, req Request) (*Result, error) {
	inner := req.Argv
	if len(inner) == 0 {
		shell := req.Shell
		if shell == "" {
			shell = r.options.Shell
		}
		name, args := getShellCommandArgs(getShell(shell), req.Command)
		inner = append([]string{name}, args...)
	}

	wrapped := req
	wrapped.Argv = append(r.firejailArgs(), inner...)
	wrapped.Command = ""

	r.logger.Debug("Created firejail command: %q", wrapped.Argv)
	return r.execRunner.Run(ctx, wrapped)
}

// firejailArgs builds the firejail prefix, ending with the "--" separator
func (r *RunnerFirejail) firejailArgs() []string {
	args := []string{"firejail", "--quiet", "--noprofile"}
	if !r.options.AllowNetworking {
		args = append(args, "--net=none")
	}
	for _, dir := range r.options.ReadOnlyFolders {
		args = append(args, "--read-only="+dir)
	}
	args = append(args, r.options.ExtraArgs...)
	return append(args, "--")
}
