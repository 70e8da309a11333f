// Package root contains the command-line interface implementation for shellfront.
//
// It defines the root command (the interactive shell) and the subcommands
// using Cobra, and manages CLI flags, configuration loading and global
// application state.
package root

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/inercia/shellfront/pkg/common"
	"github.com/inercia/shellfront/pkg/shell"
)

// ApplicationName is the name of the application used in various places
const ApplicationName = "shellfront"

// Common command-line flags
var (
	configFile string
	logFile    string
	logLevel   string
	noColor    bool

	// MCP server flags
	description         []string
	descriptionFile     []string
	descriptionOverride bool

	// Application version (can be overridden at build time)
	version = "1.0.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   ApplicationName,
	Short: "An interactive shell front-end",
	Long: `shellfront is an interactive shell front-end.

It reads command lines, runs a set of built-in commands (cd, pwd, ls, cat,
touch, mkdir, rmdir, rm, cp, mv, chmod, chown, tar, git, vim, clear, help)
and hands anything else to the system shell. Type "exit" to leave.`,
	Version:           version,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := common.GetLogger()
		defer common.RecoverPanic()

		cfg := getConfig()
		interactive := shell.IsTerminal(os.Stdin) && shell.IsTerminal(os.Stdout)

		d, err := newDispatcher(cfg, logger, shell.Options{
			Palette: shell.NewPalette(colorEnabled(cfg.Shell.Color, os.Stdout)),
		})
		if err != nil {
			return err
		}

		repl, err := shell.NewREPL(d, shell.REPLOptions{
			Prompt:      cfg.Shell.Prompt,
			HistoryFile: cfg.Shell.HistoryFile,
			Interactive: interactive,
			Logger:      logger,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
		defer stop()

		logger.Info("Starting interactive shell (interactive=%v)", interactive)
		if err := repl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer common.RecoverPanic()

	err := rootCmd.Execute()
	_ = common.GetLogger().Close()

	if err != nil {
		common.GetLogger().Error("Command execution failed: %v", err)
		// a failed command line has already printed its own error
		if !errors.Is(err, errCommandFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// init sets up global flags
func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to the YAML configuration file (default ~/.shellfront/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&logFile, "logfile", "l", "", "Path to the log file (optional)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "", "", "Log level: none, error, info, debug (default from the configuration, none if unset)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colors in listings")
}
