package root

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inercia/shellfront/pkg/common"
	"github.com/inercia/shellfront/pkg/server"
	"github.com/inercia/shellfront/pkg/shell"
)

// mcpCommand starts the MCP server
var mcpCommand = &cobra.Command{
	Use:     "mcp",
	Aliases: []string{"serve", "server"},
	Short:   "Run the shell as an MCP server",
	Long: `
Run an MCP server that lets LLM applications use the shell.

The server communicates over stdio using the Model Context Protocol (MCP)
and exposes a single "shell" tool. Every call runs one command line in a
session that keeps its working directory between calls, with the same
built-in commands, runner and guards as the interactive shell.
`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := common.GetLogger()
		defer common.RecoverPanic()

		logger.Info("Starting shellfront MCP server")

		instructions, err := server.GetDescription(server.DescriptionConfig{
			Descriptions:     description,
			DescriptionFiles: descriptionFile,
			Override:         descriptionOverride,
			Logger:           logger,
		})
		if err != nil {
			return err
		}

		// stdout carries the protocol: no colors, and spawned processes
		// never touch the real terminal streams
		d, err := newDispatcher(getConfig(), logger, shell.Options{
			Stdin:  strings.NewReader(""),
			Stdout: os.Stderr,
			Stderr: os.Stderr,
		})
		if err != nil {
			return err
		}

		srv := server.New(server.Config{
			Dispatcher:  d,
			Logger:      logger,
			Version:     version,
			Description: instructions,
		})
		if err := srv.Start(); err != nil {
			return fmt.Errorf("MCP server failed: %w", err)
		}
		return nil
	},
}

// init adds flags to the mcp command
func init() {
	rootCmd.AddCommand(mcpCommand)

	mcpCommand.Flags().StringSliceVarP(&description, "description", "d", []string{}, "MCP server description (optional, can be specified multiple times)")
	mcpCommand.Flags().StringSliceVarP(&descriptionFile, "description-file", "", []string{}, "Read the MCP server description from files (optional, can be specified multiple times)")
	mcpCommand.Flags().BoolVarP(&descriptionOverride, "description-override", "", false, "Replace the built-in description instead of appending to it")
}
