package command

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"text/template"

	"github.com/inercia/shellfront/pkg/common"
	"github.com/inercia/shellfront/pkg/utils"
)

//go:embed runner_sandbox_profile.tpl
var sandboxProfileTemplate string

// RunnerSandboxExec implements the Runner interface using macOS sandbox-exec.
// A profile is rendered for every request and handed to sandbox-exec in a
// temporary file. The session working directory stays readable and writable.
type RunnerSandboxExec struct {
	execRunner *RunnerExec
	logger     *common.Logger
	profileTpl *template.Template
	options    RunnerSandboxExecOptions
}

// RunnerSandboxExecOptions is the options for the RunnerSandboxExec
type RunnerSandboxExecOptions struct {
	Shell             string   `json:"shell"`
	AllowNetworking   bool     `json:"allow_networking"`
	AllowUserFolders  bool     `json:"allow_user_folders"`
	AllowReadFolders  []string `json:"allow_read_folders"`
	AllowWriteFolders []string `json:"allow_write_folders"`
	CustomProfile     string   `json:"custom_profile"`
}

// NewRunnerSandboxExecOptions creates a new RunnerSandboxExecOptions from a RunnerOptions.
// Folders may start with "~".
func NewRunnerSandboxExecOptions(options RunnerOptions) (RunnerSandboxExecOptions, error) {
	var reopts RunnerSandboxExecOptions
	if err := decodeOptions(options, &reopts); err != nil {
		return reopts, err
	}

	for _, folders := range [][]string{reopts.AllowReadFolders, reopts.AllowWriteFolders} {
		for i, folder := range folders {
			expanded, err := utils.ExpandHome(folder)
			if err != nil {
				return reopts, err
			}
			folders[i] = expanded
		}
	}
	return reopts, nil
}

// NewRunnerSandboxExec creates a new RunnerSandboxExec with the provided logger.
// If logger is nil, the global logger is used
func NewRunnerSandboxExec(options RunnerOptions, logger *common.Logger) (*RunnerSandboxExec, error) {
	if logger == nil {
		logger = common.GetLogger()
	}

	profileTpl, err := common.ParseTemplate("sandbox-profile", sandboxProfileTemplate)
	if err != nil {
		logger.Error("Failed to parse sandbox profile template: %v", err)
		return nil, err
	}

	execRunner, err := NewRunnerExec(options, logger)
	if err != nil {
		return nil, err
	}

	sandboxOpts, err := NewRunnerSandboxExecOptions(options)
	if err != nil {
		logger.Error("Failed to parse sandbox options: %v", err)
		return nil, fmt.Errorf("failed to parse sandbox options: %w", err)
	}

	return &RunnerSandboxExec{
		execRunner: execRunner,
		logger:     logger,
		profileTpl: profileTpl,
		options:    sandboxOpts,
	}, nil
}

// CheckImplicitRequirements checks that sandbox-exec can be used
func (r *RunnerSandboxExec) CheckImplicitRequirements() error {
	if !common.CheckOSMatches("darwin") {
		return fmt.Errorf("sandbox-exec runner is only available on macOS")
	}
	if !common.CheckExecutableExists("sandbox-exec") {
		return fmt.Errorf("sandbox-exec executable not found in PATH")
	}
	return nil
}

// profile renders the sandbox profile for a request running in dir
func (r *RunnerSandboxExec) profile(dir string) (string, error) {
	out, err := common.ExecuteTemplate(r.profileTpl, map[string]interface{}{
		"CustomProfile":     r.options.CustomProfile,
		"AllowNetworking":   r.options.AllowNetworking,
		"AllowUserFolders":  r.options.AllowUserFolders,
		"AllowReadFolders":  r.options.AllowReadFolders,
		"AllowWriteFolders": r.options.AllowWriteFolders,
		"WorkDir":           dir,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render sandbox profile: %w", err)
	}
	return out, nil
}

// Run executes the request inside the macOS sandbox.
// It implements the Runner interface
func (r *RunnerSandboxExec) Run(ctx context.Context, req Request) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	inner := req.Argv
	if len(inner) == 0 {
		shell := req.Shell
		if shell == "" {
			shell = r.options.Shell
		}
		name, args := getShellCommandArgs(getShell(shell), req.Command)
		inner = append([]string{name}, args...)
	}

	profile, err := r.profile(req.Dir)
	if err != nil {
		r.logger.Error("%v", err)
		return nil, err
	}
	r.logger.Debug("Generated sandbox profile: %s", profile)

	profileFile, err := os.CreateTemp("", "shellfront-sandbox-*.sb")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary profile file: %w", err)
	}
	defer func() {
		_ = profileFile.Close()
		if err := os.Remove(profileFile.Name()); err != nil {
			r.logger.Error("Failed to remove temporary profile file: %v", err)
		}
	}()

	if _, err := profileFile.WriteString(profile); err != nil {
		return nil, fmt.Errorf("failed to write profile to temporary file: %w", err)
	}
	if err := profileFile.Sync(); err != nil {
		return nil, fmt.Errorf("failed to sync profile file: %w", err)
	}

	wrapped := req
	wrapped.Argv = append([]string{"sandbox-exec", "-f", profileFile.Name()}, inner...)
	wrapped.Command = ""

	r.logger.Debug("Created sandboxed command: %q", wrapped.Argv)
	return r.execRunner.Run(ctx, wrapped)
}
