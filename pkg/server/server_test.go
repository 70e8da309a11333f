package server

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inercia/shellfront/pkg/command"
	"github.com/inercia/shellfront/pkg/common"
	"github.com/inercia/shellfront/pkg/shell"
)

type stubRunner struct {
	stdout   string
	stderr   string
	exitCode int
	panics   bool
}

func (r *stubRunner) Run(_ context.Context, _ command.Request) (*command.Result, error) {
	if r.panics {
		panic("runner exploded")
	}
	return &command.Result{Stdout: r.stdout, Stderr: r.stderr, ExitCode: r.exitCode}, nil
}

func (r *stubRunner) CheckImplicitRequirements() error {
	return nil
}

func newTestServer(t *testing.T, runner command.Runner) (*Server, afero.Fs) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("in-memory paths are unix style")
	}

	logger, err := common.NewLogger("", "", common.LogLevelNone, false)
	require.NoError(t, err)

	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/srv", 0o755))

	d, err := shell.NewDispatcher(shell.Options{
		Fs:     fsys,
		Cwd:    "/srv",
		Runner: runner,
		Logger: logger,
	})
	require.NoError(t, err)

	return New(Config{
		Dispatcher:  d,
		Logger:      logger,
		Version:     "test",
		Description: "test description",
	}), fsys
}

func call(t *testing.T, s *Server, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	request := mcp.CallToolRequest{}
	request.Params.Name = ToolName
	request.Params.Arguments = args

	result, err := s.wrapHandlerWithPanicRecovery(s.handleShell)(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func resultText(result *mcp.CallToolResult) string {
	var sb strings.Builder
	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			sb.WriteString(textContent.Text)
		}
	}
	return sb.String()
}

func TestServer_New(t *testing.T) {
	srv, _ := newTestServer(t, &stubRunner{})

	assert.Equal(t, "test", srv.version)
	assert.Equal(t, "test description", srv.description)
	assert.Nil(t, srv.mcpServer, "mcpServer must be nil until Start() is called")

	srv.createServer()
	assert.NotNil(t, srv.mcpServer)
}

func TestServer_HandleShell(t *testing.T) {
	srv, fsys := newTestServer(t, &stubRunner{stdout: "external output\n"})

	tests := []struct {
		command   string
		wantError bool
		output    string
	}{
		{command: "mkdir data", output: "Directory 'data' created.\n"},
		{command: "cd data", output: ""},
		{command: "pwd", output: "/srv/data\n"},
		{command: "touch notes.txt", output: "File 'notes.txt' created (if it did not already exist).\n"},
		{command: "cat missing.txt", wantError: true, output: "Error: 'missing.txt' not found.\n"},
		{command: "uname -a", output: "external output\n"},
		{command: "vim notes.txt", wantError: true, output: "Error: the editor needs an interactive terminal."},
	}

	for _, tt := range tests {
		result := call(t, srv, map[string]interface{}{ParamCommand: tt.command})
		assert.Equal(t, tt.wantError, result.IsError, tt.command)
		assert.Equal(t, tt.output, resultText(result), tt.command)
	}

	exists, _ := afero.Exists(fsys, "/srv/data/notes.txt")
	assert.True(t, exists)
}

func TestServer_HandleShell_ErrorDecidedByOutcome(t *testing.T) {
	t.Run("file text that looks like an error", func(t *testing.T) {
		srv, fsys := newTestServer(t, &stubRunner{})
		require.NoError(t, afero.WriteFile(fsys, "/srv/notes.txt", []byte("Error: just text"), 0o644))

		result := call(t, srv, map[string]interface{}{ParamCommand: "cat notes.txt"})
		assert.False(t, result.IsError)
		assert.Equal(t, "Error: just text\n", resultText(result))
	})

	t.Run("failing git with output first", func(t *testing.T) {
		srv, _ := newTestServer(t, &stubRunner{stdout: "On branch main\n", stderr: "fatal: no upstream\n", exitCode: 128})

		result := call(t, srv, map[string]interface{}{ParamCommand: "git push"})
		assert.True(t, result.IsError)
		assert.Equal(t, "On branch main\nError: fatal: no upstream\n", resultText(result))
	})
}

func TestServer_HandleShell_MissingCommand(t *testing.T) {
	srv, _ := newTestServer(t, &stubRunner{})

	result := call(t, srv, map[string]interface{}{})
	assert.True(t, result.IsError)

	result = call(t, srv, map[string]interface{}{ParamCommand: 42})
	assert.True(t, result.IsError)
}

func TestServer_HandleShell_Concurrent(t *testing.T) {
	srv, fsys := newTestServer(t, &stubRunner{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			call(t, srv, map[string]interface{}{ParamCommand: "touch file" + string(rune('a'+i))})
		}(i)
	}
	wg.Wait()

	names, err := afero.ReadDir(fsys, "/srv")
	require.NoError(t, err)
	assert.Len(t, names, 20)
}

func TestServer_RecoversFromPanics(t *testing.T) {
	srv, _ := newTestServer(t, &stubRunner{panics: true})

	// the dispatcher reports the panic itself
	result := call(t, srv, map[string]interface{}{ParamCommand: "echo hi"})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(result), "internal error")

	// a panic outside the dispatcher becomes a protocol error
	handler := srv.wrapHandlerWithPanicRecovery(func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		panic("handler exploded")
	})
	_, err := handler(context.Background(), mcp.CallToolRequest{})
	assert.EqualError(t, err, "tool execution failed: internal server error")
}
