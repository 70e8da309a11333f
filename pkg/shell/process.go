package shell

import (
	"context"
	"fmt"
	"io"
	"strings"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/muesli/termenv"

	"github.com/inercia/shellfront/pkg/command"
	"github.com/inercia/shellfront/pkg/common"
)

// git subcommands and the argv each one runs
var gitSubcommands = map[string]func(args []string) ([]string, bool){
	"init": func(args []string) ([]string, bool) {
		return []string{"git", "init"}, true
	},
	"add": func(args []string) ([]string, bool) {
		if len(args) == 0 {
			return nil, false
		}
		return append([]string{"git", "add"}, args...), true
	},
	"commit": func(args []string) ([]string, bool) {
		if len(args) == 0 {
			return nil, false
		}
		return []string{"git", "commit", "-m", strings.Join(args, " ")}, true
	},
	"status": func(args []string) ([]string, bool) {
		return []string{"git", "status"}, len(args) == 0
	},
	"log": func(args []string) ([]string, bool) {
		return []string{"git", "log"}, true
	},
	"push": func(args []string) ([]string, bool) {
		return []string{"git", "push"}, true
	},
}

func (d *Dispatcher) git(ctx context.Context, w io.Writer, args []string) error {
	build, ok := gitSubcommands[args[0]]
	if !ok {
		return unsupportedf("Unsupported git command.")
	}
	argv, ok := build(args[1:])
	if !ok {
		return unsupportedf("Unsupported git command.")
	}

	res, err := d.runner.Run(ctx, command.Request{
		Argv: argv,
		Dir:  d.session.Cwd(),
		Env:  d.env,
	})
	if err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeExecutionFailed, "cannot run git")
	}

	writeOutput(w, res.Stdout)
	if !res.Success() {
		msg := strings.TrimRight(res.Stderr, "\n")
		if msg == "" {
			msg = fmt.Sprintf("git exited with status %d", res.ExitCode)
		}
		return platformerrors.New(platformerrors.CodeExecutionFailed, msg)
	}
	return nil
}

// external hands the whole line to the interpreter. Only its standard
// output is shown.
func (d *Dispatcher) external(ctx context.Context, w io.Writer, line string) error {
	ok, failed, err := d.guards.Evaluate(line, d.session.Cwd())
	if err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeInternal, "cannot evaluate guards")
	}
	if !ok {
		return platformerrors.Newf(platformerrors.CodeForbidden, "command rejected by guard: %s", failed)
	}

	res, err := d.runner.Run(ctx, command.Request{
		Shell:   d.interpreter,
		Command: line,
		Dir:     d.session.Cwd(),
		Env:     d.env,
	})
	if err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeExecutionFailed, "cannot run command")
	}

	if !res.Success() {
		d.logger.Debug("Command %q exited with status %d: %s", line, res.ExitCode, res.Stderr)
	}
	writeOutput(w, res.Stdout)
	return nil
}

func writeOutput(w io.Writer, out string) {
	if out == "" {
		return
	}
	_, _ = io.WriteString(w, out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Fprintln(w)
	}
}

// edit runs the editor attached to the terminal. On Windows it is started
// in a new console window instead, as the prompt keeps the current one.
func (d *Dispatcher) edit(ctx context.Context, w io.Writer, args []string) error {
	editorArgv := append(strings.Fields(d.editor), args...)

	req := command.Request{
		Dir: d.session.Cwd(),
		Env: d.env,
	}
	if common.IsWindows() {
		req.Argv = append([]string{"cmd", "/c", "start", "cmd", "/K"}, editorArgv...)
	} else {
		req.Argv = editorArgv
		req.Stdin = d.stdin
		req.Stdout = d.stdout
		req.Stderr = d.stderr
	}

	res, err := d.runner.Run(ctx, req)
	if err != nil {
		return platformerrors.Wrapf(err, platformerrors.CodeExecutionFailed, "cannot start %s", editorArgv[0])
	}
	if !res.Success() {
		return platformerrors.Newf(platformerrors.CodeExecutionFailed, "%s exited with status %d", editorArgv[0], res.ExitCode)
	}

	if common.IsWindows() {
		fmt.Fprintf(w, "%s started in a new terminal window.\n", editorArgv[0])
	}
	return nil
}

func (d *Dispatcher) clear(w io.Writer) error {
	termenv.NewOutput(w).ClearScreen()
	return nil
}
