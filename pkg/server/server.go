// Package server implements the MCP server functionality.
//
// It exposes the shell dispatcher as a single MCP tool, so AI clients can
// run the same commands a user types at the prompt, over stdio.
package server

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/inercia/shellfront/pkg/common"
	"github.com/inercia/shellfront/pkg/shell"
)

const (
	// ServerName is announced to MCP clients
	ServerName = "shellfront"

	// ToolName is the name of the tool that runs a command line
	ToolName = "shell"

	// ParamCommand is the tool parameter holding the command line
	ParamCommand = "command"
)

// Server exposes a shell dispatcher through the MCP protocol
type Server struct {
	dispatcher  *shell.Dispatcher
	version     string
	description string

	// the session is shared, so calls run one at a time
	mu sync.Mutex

	mcpServer *mcpserver.MCPServer // MCP server instance

	logger *common.Logger
}

// Config contains the configuration options for creating a new Server
type Config struct {
	Dispatcher  *shell.Dispatcher // Dispatcher every call runs on
	Logger      *common.Logger    // Logger for server operations
	Version     string            // Version string for the server
	Description string            // Instructions shown to AI clients
}

// New creates a new Server instance with the provided configuration
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = common.GetLogger()
	}

	return &Server{
		dispatcher:  cfg.Dispatcher,
		version:     cfg.Version,
		description: cfg.Description,
		logger:      logger,
	}
}

// Start initializes the MCP server and serves requests on stdio until the
// client disconnects.
func (s *Server) Start() error {
	s.logger.Info("Initializing MCP server")
	s.createServer()

	s.logger.Info("Starting MCP server with stdio handler")
	if err := mcpserver.ServeStdio(s.mcpServer); err != nil {
		s.logger.Error("Server error: %v", err)
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// createServer initializes the MCP server instance and registers the tool
func (s *Server) createServer() {
	var options []mcpserver.ServerOption
	if s.description != "" {
		s.logger.Debug("Using description: %s", s.description)
		options = append(options, mcpserver.WithInstructions(s.description))
	}

	s.mcpServer = mcpserver.NewMCPServer(ServerName, s.version, options...)
	s.mcpServer.AddTool(shellTool(), s.wrapHandlerWithPanicRecovery(s.handleShell))

	s.logger.Info("Registered tool: '%s'", ToolName)
}

func shellTool() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription("Run one command line in a persistent shell session. "+
			"Built-in commands (cd, pwd, ls, cat, touch, mkdir, rmdir, rm, cp, mv, chmod, chown, "+
			"tar -cvf/-xvf, git, help) act on the session working directory; "+
			"anything else is run by the system shell and its standard output is returned."),
		mcp.WithString(ParamCommand,
			mcp.Required(),
			mcp.Description("The command line to run, for example 'ls' or 'tar -cvf backup src'"),
		),
	)
}

// handleShell dispatches one command line and returns what it printed.
// Lines reporting a failure come back as tool errors.
func (s *Server) handleShell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	line, err := request.RequireString(ParamCommand)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cmd, err := shell.Parse(line)
	if err == nil && cmd.Kind == shell.KindEditor {
		return mcp.NewToolResultError(shell.ErrorPrefix + "the editor needs an interactive terminal."), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Debug("Running command from MCP client: %q", line)

	var out bytes.Buffer
	if err := s.dispatcher.Dispatch(ctx, &out, line); err != nil {
		return mcp.NewToolResultError(out.String()), nil
	}
	return mcp.NewToolResultText(out.String()), nil
}

// wrapHandlerWithPanicRecovery adds panic recovery to a tool handler
func (s *Server) wrapHandlerWithPanicRecovery(handler mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				_ = common.PanicToError(r)
				err = fmt.Errorf("tool execution failed: internal server error")
			}
		}()

		return handler(ctx, request)
	}
}
