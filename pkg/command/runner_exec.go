package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	procexec "github.com/jmgilman/go/exec"

	"github.com/inercia/shellfront/pkg/common"
)

// RunnerExec implements the Runner interface by running processes on the
// host. Captured requests go through the exec module; requests attached to
// terminal streams use os/exec directly.
type RunnerExec struct {
	logger   *common.Logger
	options  RunnerExecOptions
	executor *procexec.Command
}

// RunnerExecOptions is the options for the RunnerExec
type RunnerExecOptions struct {
	Shell string `json:"shell"`
}

// NewRunnerExecOptions creates a new RunnerExecOptions from a RunnerOptions
func NewRunnerExecOptions(options RunnerOptions) (RunnerExecOptions, error) {
	var reopts RunnerExecOptions
	err := decodeOptions(options, &reopts)
	return reopts, err
}

// NewRunnerExec creates a new RunnerExec with the provided logger.
// If logger is nil, the global logger is used
func NewRunnerExec(options RunnerOptions, logger *common.Logger) (*RunnerExec, error) {
	if logger == nil {
		logger = common.GetLogger()
	}

	opts, err := NewRunnerExecOptions(options)
	if err != nil {
		return nil, fmt.Errorf("failed to parse exec runner options: %w", err)
	}

	return &RunnerExec{
		logger:   logger,
		options:  opts,
		executor: procexec.New(procexec.WithInheritEnv()),
	}, nil
}

// CheckImplicitRequirements has nothing to check for plain execution
func (r *RunnerExec) CheckImplicitRequirements() error {
	return nil
}

// Run executes the request and waits for it to finish.
// It implements the Runner interface
func (r *RunnerExec) Run(ctx context.Context, req Request) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	argv := req.Argv
	if len(argv) == 0 {
		if strings.TrimSpace(req.Command) == "" {
			return nil, fmt.Errorf("empty command")
		}
		shell := req.Shell
		if shell == "" {
			shell = r.options.Shell
		}
		name, args := getShellCommandArgs(getShell(shell), req.Command)
		argv = append([]string{name}, args...)
	}

	r.logger.Debug("Executing %q in %s", argv, req.Dir)

	var res *Result
	var err error
	if req.Stdin == nil && req.Stdout == nil && req.Stderr == nil {
		res, err = r.runCaptured(ctx, argv, req)
	} else {
		res, err = r.runAttached(ctx, argv, req)
	}
	if err != nil {
		r.logger.Error("Failed to run %s: %v", argv[0], err)
		return nil, err
	}

	r.logger.Debug("Command exited with %d, %d bytes of output", res.ExitCode, len(res.Stdout))
	if res.Stderr != "" {
		r.logger.Debug("Command stderr: %s", strings.TrimSpace(res.Stderr))
	}

	return res, nil
}

// runCaptured runs argv with both output streams captured
func (r *RunnerExec) runCaptured(ctx context.Context, argv []string, req Request) (*Result, error) {
	cmd := r.executor.Clone().WithContext(ctx)
	if req.Dir != "" {
		cmd = cmd.WithDir(req.Dir)
	}
	if len(req.Env) > 0 {
		r.logger.Debug("Adding %d environment variables to command", len(req.Env))
		cmd = cmd.WithEnv(envMap(req.Env))
	}

	out, err := cmd.Run(argv...)
	if err != nil && !isExitError(err) {
		return nil, err
	}

	return &Result{
		Stdout:   out.Stdout,
		Stderr:   out.Stderr,
		ExitCode: out.ExitCode,
	}, nil
}

// runAttached runs argv with the request streams attached, capturing only
// the ones left nil
func (r *RunnerExec) runAttached(ctx context.Context, argv []string, req Request) (*Result, error) {
	execCmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	execCmd.Dir = req.Dir
	if len(req.Env) > 0 {
		execCmd.Env = append(os.Environ(), req.Env...)
	}

	var stdout, stderr bytes.Buffer
	execCmd.Stdin = req.Stdin
	execCmd.Stdout = &stdout
	if req.Stdout != nil {
		execCmd.Stdout = req.Stdout
	}
	execCmd.Stderr = &stderr
	if req.Stderr != nil {
		execCmd.Stderr = req.Stderr
	}

	res := &Result{}
	if err := execCmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, err
		}
		res.ExitCode = exitErr.ExitCode()
	}

	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	return res, nil
}

// isExitError reports whether err only means the process exited non-zero
func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}

// envMap converts KEY=VALUE entries, ignoring malformed ones
func envMap(env []string) map[string]string {
	m := make(map[string]string, len(env))
	for _, e := range env {
		if k, v, ok := strings.Cut(e, "="); ok && k != "" {
			m[k] = v
		}
	}
	return m
}

// getShell returns the shell to use for command execution,
// using the provided shell, falling back to $SHELL env var,
// and finally using the platform default.
func getShell(configShell string) string {
	if configShell != "" {
		return configShell
	}

	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}

	return defaultShell()
}
