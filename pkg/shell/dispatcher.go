package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/inercia/shellfront/pkg/command"
	"github.com/inercia/shellfront/pkg/common"
)

// DefaultSeparator is printed between listing entries
const DefaultSeparator = "   "

// Options configures a Dispatcher. Zero values get sensible defaults.
type Options struct {
	// Fs is the filesystem the built-in commands work on (default: the OS one)
	Fs afero.Fs
	// Cwd is the initial working directory (default: the process one)
	Cwd string
	// Runner executes git, the editor and external command lines
	Runner command.Runner
	// Guards are checked before a line is handed to the external interpreter
	Guards *common.CompiledGuards
	// Palette colors listings (default: no colors)
	Palette *Palette
	// Interpreter is the shell for external lines (default: the runner's)
	Interpreter string
	// Env holds extra KEY=VALUE entries for every spawned process
	Env []string
	// Editor is the program launched by "vim" (default: vim)
	Editor string
	// Separator goes between listing entries
	Separator string
	// Stdin, Stdout and Stderr are the terminal streams handed to the
	// editor (default: the process ones)
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Logger *common.Logger
}

// Dispatcher runs one command line at a time against a Session
type Dispatcher struct {
	fs          afero.Fs
	session     *Session
	runner      command.Runner
	guards      *common.CompiledGuards
	palette     *Palette
	interpreter string
	env         []string
	editor      string
	separator   string
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	logger      *common.Logger
}

// NewDispatcher creates a Dispatcher
func NewDispatcher(opts Options) (*Dispatcher, error) {
	if opts.Logger == nil {
		opts.Logger = common.GetLogger()
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Runner == nil {
		runner, err := command.NewRunner(command.RunnerTypeExec, nil, opts.Logger)
		if err != nil {
			return nil, err
		}
		opts.Runner = runner
	}
	if opts.Palette == nil {
		opts.Palette = NewPalette(false)
	}
	if opts.Editor == "" {
		opts.Editor = EditorCommand
	}
	if opts.Separator == "" {
		opts.Separator = DefaultSeparator
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	session, err := NewSession(opts.Fs, opts.Cwd)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}

	return &Dispatcher{
		fs:          opts.Fs,
		session:     session,
		runner:      opts.Runner,
		guards:      opts.Guards,
		palette:     opts.Palette,
		interpreter: opts.Interpreter,
		env:         opts.Env,
		editor:      opts.Editor,
		separator:   opts.Separator,
		stdin:       opts.Stdin,
		stdout:      opts.Stdout,
		stderr:      opts.Stderr,
		logger:      opts.Logger,
	}, nil
}

// Session returns the session commands run in
func (d *Dispatcher) Session() *Session {
	return d.session
}

// Dispatch parses line, runs its handler and writes the outcome to w.
// Failures are printed as "Error: ..." lines and also returned, so callers
// can tell a failed command from output that merely looks like one. A
// panicking handler is reported the same way.
func (d *Dispatcher) Dispatch(ctx context.Context, w io.Writer, line string) (err error) {
	cmd, err := Parse(line)
	if err != nil {
		d.report(w, err)
		return err
	}

	if cmd.Kind != KindEmpty {
		d.logger.Debug("Dispatching %s command: %q", cmd.Kind, cmd.Raw)
	}

	defer func() {
		if r := recover(); r != nil {
			err = common.PanicToError(r)
			d.report(w, err)
		}
	}()

	if err := d.run(ctx, w, cmd); err != nil {
		d.report(w, err)
		return err
	}
	return nil
}

func (d *Dispatcher) report(w io.Writer, err error) {
	d.logger.Error("Command failed: %v", err)
	fmt.Fprintln(w, ErrorPrefix+describeError(err))
}

func (d *Dispatcher) run(ctx context.Context, w io.Writer, cmd Command) error {
	switch cmd.Kind {
	case KindEmpty:
		return nil
	case KindCd:
		return d.session.Chdir(cmd.Operand())
	case KindPwd:
		fmt.Fprintln(w, d.session.Cwd())
		return nil
	case KindLs:
		return d.list(w)
	case KindCat:
		return d.cat(w, cmd.Operand())
	case KindTouch:
		return d.touch(w, cmd.Operand())
	case KindMkdir:
		return d.mkdir(w, cmd.Operand())
	case KindRmdir:
		return d.rmdir(w, cmd.Operand())
	case KindRm:
		return d.rm(w, cmd.Operand())
	case KindCp:
		return d.cp(w, cmd.Args)
	case KindMv:
		return d.mv(w, cmd.Args)
	case KindChmod:
		return d.chmod(w, cmd.Args)
	case KindChown:
		return d.chown(w, cmd.Args)
	case KindTar:
		return d.tar(ctx, w, cmd.Args)
	case KindClear:
		return d.clear(w)
	case KindEditor:
		return d.edit(ctx, w, cmd.Args)
	case KindHelp:
		return d.help(w)
	case KindGit:
		return d.git(ctx, w, cmd.Args)
	case KindExternal:
		return d.external(ctx, w, cmd.Raw)
	}

	return unsupportedf("Unsupported command '%s'.", strings.TrimSpace(cmd.Raw))
}
