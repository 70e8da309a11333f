package shell

import (
	"os"
	"path/filepath"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/spf13/afero"

	"github.com/inercia/shellfront/pkg/utils"
)

// Session is the working directory of one shell. Handlers resolve every
// relative path against it instead of the process working directory, so
// several sessions (or tests) can share a process.
type Session struct {
	fs  afero.Fs
	cwd string
}

// NewSession creates a session rooted at cwd. An empty cwd starts at the
// process working directory.
func NewSession(fsys afero.Fs, cwd string) (*Session, error) {
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		cwd = wd
	}

	s := &Session{fs: fsys}
	abs, err := s.absolute(cwd)
	if err != nil {
		return nil, err
	}
	s.cwd = abs
	return s, nil
}

// Cwd returns the current working directory
func (s *Session) Cwd() string {
	return s.cwd
}

// Resolve returns the absolute, cleaned form of path, expanding a leading ~
// and joining relative paths to the working directory.
func (s *Session) Resolve(path string) string {
	expanded, err := utils.ExpandHome(path)
	if err != nil {
		expanded = path
	}
	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded)
	}
	return filepath.Join(s.cwd, expanded)
}

func (s *Session) absolute(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	return filepath.Abs(path)
}

// Chdir changes the working directory. The target must be an existing
// directory.
func (s *Session) Chdir(path string) error {
	target := s.Resolve(path)

	info, err := s.fs.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return platformerrors.Newf(platformerrors.CodeNotFound, "Directory '%s' not found.", path)
		}
		return classifyError(err, "cannot change directory to '%s'", path)
	}
	if !info.IsDir() {
		return platformerrors.Newf(platformerrors.CodeInvalidInput, "'%s' is not a directory.", path)
	}

	s.cwd = target
	return nil
}
