package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/inercia/shellfront/pkg/common"
	"github.com/inercia/shellfront/pkg/utils"
)

const (
	// DefaultPrompt shows the working directory followed by "$ "
	DefaultPrompt = "{{ .cwd }}$ "

	// ExitCommand (in any letter case) leaves the loop
	ExitCommand = "exit"

	// maxLineSize bounds a single line read from a pipe
	maxLineSize = 16 << 20

	welcomeMessage  = "Welcome to shellfront! Type 'help' for the list of commands."
	farewellMessage = "Exiting terminal."
)

// IsTerminal reports whether f is connected to a terminal
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// REPLOptions configures the read loop
type REPLOptions struct {
	// Prompt is a template rendered before every read, with the variables
	// cwd, base, home and user
	Prompt string
	// HistoryFile keeps line-editing history (interactive mode only)
	HistoryFile string
	// Interactive enables line editing and completion. It needs In to be
	// the terminal.
	Interactive bool

	In  io.Reader
	Out io.Writer

	Logger *common.Logger
}

// REPL reads command lines and dispatches them until "exit" or the end of
// the input
type REPL struct {
	dispatcher  *Dispatcher
	prompt      *template.Template
	historyFile string
	interactive bool
	in          io.Reader
	out         io.Writer
	logger      *common.Logger
}

// NewREPL creates a read loop over the dispatcher
func NewREPL(d *Dispatcher, opts REPLOptions) (*REPL, error) {
	if opts.Logger == nil {
		opts.Logger = common.GetLogger()
	}
	if opts.Prompt == "" {
		opts.Prompt = DefaultPrompt
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	prompt, err := common.ParseTemplate("prompt", opts.Prompt)
	if err != nil {
		return nil, fmt.Errorf("invalid prompt template: %w", err)
	}

	return &REPL{
		dispatcher:  d,
		prompt:      prompt,
		historyFile: opts.HistoryFile,
		interactive: opts.Interactive,
		in:          opts.In,
		out:         opts.Out,
		logger:      opts.Logger,
	}, nil
}

// Prompt renders the prompt for the current working directory. A template
// failing at runtime falls back to the default prompt.
func (r *REPL) Prompt() string {
	cwd := r.dispatcher.Session().Cwd()
	home, _ := utils.GetHome()

	vars := map[string]interface{}{
		"cwd":  cwd,
		"base": filepath.Base(cwd),
		"home": home,
		"user": currentUser(),
	}

	prompt, err := common.ExecuteTemplate(r.prompt, vars)
	if err != nil {
		r.logger.Error("Failed to render prompt: %v", err)
		return cwd + "$ "
	}
	return prompt
}

func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return os.Getenv("USERNAME")
}

// lineReader reads one line after showing a prompt.
// It returns io.EOF at the end of the input.
type lineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// errInterrupted is returned by line readers when the user hits Ctrl-C
var errInterrupted = errors.New("interrupted")

type scannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (s *scannerReader) ReadLine(prompt string) (string, error) {
	_, _ = io.WriteString(s.out, prompt)
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

func (s *scannerReader) Close() error {
	return nil
}

type readlineReader struct {
	rl *readline.Instance
}

func (r *readlineReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", errInterrupted
	}
	return line, err
}

func (r *readlineReader) Close() error {
	return r.rl.Close()
}

func (r *REPL) newLineReader() (lineReader, error) {
	if !r.interactive {
		scanner := bufio.NewScanner(r.in)
		scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)
		return &scannerReader{scanner: scanner, out: r.out}, nil
	}

	historyFile := r.historyFile
	if historyFile != "" {
		expanded, err := utils.ExpandHome(historyFile)
		if err == nil {
			historyFile = expanded
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            r.Prompt(),
		HistoryFile:       historyFile,
		HistorySearchFold: true,
		AutoComplete:      NewCompleter(r.dispatcher),
		InterruptPrompt:   "^C",
		EOFPrompt:         ExitCommand,
		Stdout:            r.out,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize line editing: %w", err)
	}
	return &readlineReader{rl: rl}, nil
}

// Run prints the welcome banner and loops until "exit", the end of the
// input or the cancellation of ctx.
func (r *REPL) Run(ctx context.Context) error {
	reader, err := r.newLineReader()
	if err != nil {
		return err
	}
	defer reader.Close()

	fmt.Fprintln(r.out, welcomeMessage)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := reader.ReadLine(r.Prompt())
		switch {
		case errors.Is(err, errInterrupted):
			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(r.out, farewellMessage)
			return nil
		case err != nil:
			return fmt.Errorf("failed to read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if strings.EqualFold(line, ExitCommand) {
			fmt.Fprintln(r.out, farewellMessage)
			return nil
		}

		r.dispatcher.Dispatch(ctx, r.out, line)
	}
}
