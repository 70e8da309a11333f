package root

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inercia/shellfront/pkg/common"
	"github.com/inercia/shellfront/pkg/config"
	"github.com/inercia/shellfront/pkg/shell"
)

func TestColorEnabled(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	// a regular file is never a terminal
	out, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer out.Close()

	assert.True(t, colorEnabled(config.ColorAlways, out))
	assert.False(t, colorEnabled(config.ColorNever, out))
	assert.False(t, colorEnabled(config.ColorAuto, out))

	t.Run("no-color flag wins", func(t *testing.T) {
		noColor = true
		defer func() { noColor = false }()

		assert.False(t, colorEnabled(config.ColorAlways, out))
	})

	t.Run("NO_COLOR wins", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		assert.False(t, colorEnabled(config.ColorAlways, out))
	})
}

func newMemDispatcher(t *testing.T, cfg *config.Config) (*shell.Dispatcher, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/work", 0o755))

	d, err := newDispatcher(cfg, common.NewNopLogger(), shell.Options{Fs: fs, Cwd: "/work"})
	require.NoError(t, err)
	return d, fs
}

func TestNewDispatcher(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		d, _ := newMemDispatcher(t, config.Default())
		assert.Equal(t, "/work", filepath.ToSlash(d.Session().Cwd()))
	})

	t.Run("unknown runner", func(t *testing.T) {
		cfg := config.Default()
		cfg.Run.Runner = "teleport"

		_, err := newDispatcher(cfg, common.NewNopLogger(), shell.Options{Fs: afero.NewMemMapFs(), Cwd: "/"})
		assert.Error(t, err)
	})

	t.Run("bad guard", func(t *testing.T) {
		cfg := config.Default()
		cfg.Guards = []string{"command +"}

		_, err := newDispatcher(cfg, common.NewNopLogger(), shell.Options{Fs: afero.NewMemMapFs(), Cwd: "/"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to compile guards")
	})
}

func TestRunLine(t *testing.T) {
	d, fs := newMemDispatcher(t, config.Default())

	var out bytes.Buffer
	require.NoError(t, runLine(context.Background(), d, &out, "mkdir logs"))
	assert.Equal(t, "Directory 'logs' created.\n", out.String())

	exists, err := afero.DirExists(fs, "/work/logs")
	require.NoError(t, err)
	assert.True(t, exists)

	out.Reset()
	err = runLine(context.Background(), d, &out, "cat missing.txt")
	assert.ErrorIs(t, err, errCommandFailed)
	assert.Contains(t, out.String(), shell.ErrorPrefix)

	// output is not inspected to decide the outcome
	require.NoError(t, afero.WriteFile(fs, "/work/notes.txt", []byte("Error: this is just file text"), 0o644))
	out.Reset()
	require.NoError(t, runLine(context.Background(), d, &out, "cat notes.txt"))
	assert.Equal(t, "Error: this is just file text\n", out.String())
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Cleanup(func() {
		configFile = ""
		appConfig = nil
		appConfigPath = ""
		common.SetLogger(nil)
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid configuration", func(t *testing.T) {
		path := filepath.Join(dir, "good.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
shell:
  prompt: "{{ .base | upper }}> "
  color: never
guards:
  - "!command.startsWith('shutdown')"
`), 0o644))

		out, err := executeRoot(t, "validate", "--config", path)
		require.NoError(t, err)
		assert.Contains(t, out, "Validating configuration file: "+path)
		assert.Contains(t, out, "Validated 1 guard(s)")
		assert.Contains(t, out, "Configuration validation successful")
	})

	t.Run("invalid color mode", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("shell:\n  color: sometimes\n"), 0o644))

		_, err := executeRoot(t, "validate", "--config", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid color mode")
	})

	t.Run("wrong extension", func(t *testing.T) {
		path := filepath.Join(dir, "config.txt")
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

		_, err := executeRoot(t, "validate", "--config", path)
		assert.Error(t, err)
	})
}
