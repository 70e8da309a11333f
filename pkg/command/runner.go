// Package command provides the process execution layer of shellfront.
//
// Everything that leaves the process (external command lines, git, the
// editor) goes through a Runner, so the execution strategy (plain exec, a
// firejail sandbox on Linux or sandbox-exec on macOS) is chosen in one place.
package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/inercia/shellfront/pkg/common"
)

type RunnerType string

const (
	RunnerTypeExec        RunnerType = "exec"
	RunnerTypeFirejail    RunnerType = "firejail"
	RunnerTypeSandboxExec RunnerType = "sandbox-exec"
)

// RunnerOptions is a map of options for the runner
type RunnerOptions map[string]interface{}

// ToJSON serializes the options so they can be decoded into a runner specific struct
func (ro RunnerOptions) ToJSON() (string, error) {
	data, err := json.Marshal(ro)
	return string(data), err
}

// decodeOptions fills dst (a pointer to an options struct) from ro
func decodeOptions(ro RunnerOptions, dst interface{}) error {
	if ro == nil {
		return nil
	}
	data, err := ro.ToJSON()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dst)
}

// Request describes one process to run.
//
// When Argv is not empty it is executed directly; otherwise Command is
// handed to the Shell interpreter. Streams left nil are captured into the
// Result; set them to attach the process to a terminal instead.
type Request struct {
	Shell   string
	Command string
	Argv    []string
	Dir     string
	Env     []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Result holds what a finished process produced. Stdout and Stderr are
// empty for streams that were attached instead of captured.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Success reports whether the process exited with status zero
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// Runner is an interface for running commands.
//
// A non-zero exit status is not an error: it is reported in Result.ExitCode.
// Run only fails when the process could not be started at all.
type Runner interface {
	Run(ctx context.Context, req Request) (*Result, error)
	CheckImplicitRequirements() error
}

// NewRunner creates a new Runner based on the given type
func NewRunner(runnerType RunnerType, options RunnerOptions, logger *common.Logger) (Runner, error) {
	switch runnerType {
	case RunnerTypeExec, "":
		return NewRunnerExec(options, logger)
	case RunnerTypeFirejail:
		return NewRunnerFirejail(options, logger)
	case RunnerTypeSandboxExec:
		return NewRunnerSandboxExec(options, logger)
	}

	return nil, fmt.Errorf("unknown runner type: %s", runnerType)
}
