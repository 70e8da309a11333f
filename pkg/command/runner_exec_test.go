package command

import (
	"bytes"
	"context"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/inercia/shellfront/pkg/common"
)

func TestNewRunnerExecOptions(t *testing.T) {
	tests := []struct {
		name    string
		options RunnerOptions
		want    RunnerExecOptions
		wantErr bool
	}{
		{
			name:    "valid options with shell",
			options: RunnerOptions{"shell": "/bin/bash"},
			want:    RunnerExecOptions{Shell: "/bin/bash"},
		},
		{
			name:    "empty options",
			options: RunnerOptions{},
			want:    RunnerExecOptions{},
		},
		{
			name:    "nil options",
			options: nil,
			want:    RunnerExecOptions{},
		},
		{
			name:    "options with additional fields",
			options: RunnerOptions{"shell": "/bin/zsh", "extra": "value"},
			want:    RunnerExecOptions{Shell: "/bin/zsh"},
		},
		{
			name:    "wrong type for shell",
			options: RunnerOptions{"shell": 123},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewRunnerExecOptions(tt.options)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewRunnerExecOptions() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NewRunnerExecOptions() = %v, want %v", got, tt.want)
			}
		})
	}
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell required")
	}
}

func TestRunnerExec_Run(t *testing.T) {
	skipOnWindows(t)

	tests := []struct {
		name       string
		req        Request
		wantStdout string
		wantStderr string
		wantCode   int
	}{
		{
			name:       "simple echo command",
			req:        Request{Shell: "/bin/sh", Command: "echo hello world"},
			wantStdout: "hello world",
		},
		{
			name:       "environment variable",
			req:        Request{Shell: "/bin/sh", Command: "echo $TEST_VAR", Env: []string{"TEST_VAR=test_value"}},
			wantStdout: "test_value",
		},
		{
			name:       "non-zero exit is not an error",
			req:        Request{Shell: "/bin/sh", Command: "echo out; echo oops >&2; exit 3"},
			wantStdout: "out",
			wantStderr: "oops",
			wantCode:   3,
		},
		{
			name:       "direct argv",
			req:        Request{Argv: []string{"echo", "direct", "args"}},
			wantStdout: "direct args",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRunnerExec(RunnerOptions{}, common.NewNopLogger())
			if err != nil {
				t.Fatalf("Failed to create RunnerExec: %v", err)
			}

			res, err := r.Run(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("RunnerExec.Run() error = %v", err)
			}

			if got := strings.TrimSpace(res.Stdout); got != tt.wantStdout {
				t.Errorf("stdout = %q, want %q", got, tt.wantStdout)
			}
			if got := strings.TrimSpace(res.Stderr); got != tt.wantStderr {
				t.Errorf("stderr = %q, want %q", got, tt.wantStderr)
			}
			if res.ExitCode != tt.wantCode {
				t.Errorf("exit code = %d, want %d", res.ExitCode, tt.wantCode)
			}
			if res.Success() != (tt.wantCode == 0) {
				t.Errorf("Success() = %v for exit code %d", res.Success(), res.ExitCode)
			}
		})
	}
}

func TestRunnerExec_RunInDir(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	r, err := NewRunnerExec(RunnerOptions{}, common.NewNopLogger())
	if err != nil {
		t.Fatalf("Failed to create RunnerExec: %v", err)
	}

	res, err := r.Run(context.Background(), Request{Shell: "/bin/sh", Command: "pwd -P", Dir: dir})
	if err != nil {
		t.Fatalf("RunnerExec.Run() error = %v", err)
	}
	if got := strings.TrimSpace(res.Stdout); !strings.HasSuffix(got, dirBase(dir)) {
		t.Errorf("expected command to run in %s, got %s", dir, got)
	}
}

func TestRunnerExec_AttachedStreams(t *testing.T) {
	skipOnWindows(t)

	r, err := NewRunnerExec(RunnerOptions{}, common.NewNopLogger())
	if err != nil {
		t.Fatalf("Failed to create RunnerExec: %v", err)
	}

	var out bytes.Buffer
	res, err := r.Run(context.Background(), Request{
		Argv:   []string{"cat"},
		Stdin:  strings.NewReader("streamed"),
		Stdout: &out,
	})
	if err != nil {
		t.Fatalf("RunnerExec.Run() error = %v", err)
	}
	if out.String() != "streamed" {
		t.Errorf("attached stdout = %q", out.String())
	}
	if res.Stdout != "" {
		t.Errorf("attached stdout should not be captured, got %q", res.Stdout)
	}
}

func TestRunnerExec_StartFailure(t *testing.T) {
	r, err := NewRunnerExec(RunnerOptions{}, common.NewNopLogger())
	if err != nil {
		t.Fatalf("Failed to create RunnerExec: %v", err)
	}

	if _, err := r.Run(context.Background(), Request{Argv: []string{"this-executable-does-not-exist-12345"}}); err == nil {
		t.Error("expected an error for a missing executable")
	}
	if _, err := r.Run(context.Background(), Request{Command: "   "}); err == nil {
		t.Error("expected an error for an empty command")
	}
}

func TestRunnerExec_CancelledContext(t *testing.T) {
	r, err := NewRunnerExec(RunnerOptions{}, common.NewNopLogger())
	if err != nil {
		t.Fatalf("Failed to create RunnerExec: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Run(ctx, Request{Command: "echo never"}); err == nil {
		t.Error("expected an error for a cancelled context")
	}
}

func dirBase(dir string) string {
	parts := strings.Split(strings.TrimRight(dir, "/"), "/")
	return parts[len(parts)-1]
}

func TestEnvMap(t *testing.T) {
	got := envMap([]string{"A=1", "B=x=y", "EMPTY=", "broken", "=nokey"})
	want := map[string]string{"A": "1", "B": "x=y", "EMPTY": ""}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("envMap() = %v, want %v", got, want)
	}
}
