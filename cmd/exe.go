package root

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inercia/shellfront/pkg/common"
	"github.com/inercia/shellfront/pkg/shell"
)

// errCommandFailed is returned when the executed line reported an error.
// The error itself has already been printed.
var errCommandFailed = errors.New("command failed")

// exeCommand runs a single command line and exits
var exeCommand = &cobra.Command{
	Use:   "exe <command line...>",
	Short: "Execute a single command line",
	Long: `
Execute a single command line without starting the interactive shell.

The arguments are joined with blanks and dispatched exactly like a line
typed at the prompt, so built-in commands and external ones behave the same.
For example:

$ shellfront exe tar -cvf backup src

The exit status is 1 when the command reports an error.
`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := common.GetLogger()
		defer common.RecoverPanic()

		cfg := getConfig()
		d, err := newDispatcher(cfg, logger, shell.Options{
			Palette: shell.NewPalette(colorEnabled(cfg.Shell.Color, os.Stdout)),
		})
		if err != nil {
			return err
		}

		line := strings.Join(args, " ")
		logger.Info("Executing command line: %s", line)

		return runLine(cmd.Context(), d, os.Stdout, line)
	},
}

// runLine dispatches one line, copies its output to w and reports whether
// it failed
func runLine(ctx context.Context, d *shell.Dispatcher, w io.Writer, line string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var out bytes.Buffer
	failed := d.Dispatch(ctx, &out, line)

	if _, err := w.Write(out.Bytes()); err != nil {
		return err
	}
	if failed != nil {
		return errCommandFailed
	}
	return nil
}

// init adds the exe command to the root command
func init() {
	rootCmd.AddCommand(exeCommand)
}
