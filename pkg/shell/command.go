// Package shell implements the interactive front-end: it parses a command
// line into a Command, dispatches it to one handler working on an afero
// filesystem or the process runner, and drives the read loop.
package shell

import "strings"

// Kind identifies which handler a Command is dispatched to
type Kind int

const (
	KindEmpty Kind = iota
	KindCd
	KindPwd
	KindLs
	KindCat
	KindTouch
	KindMkdir
	KindRmdir
	KindRm
	KindCp
	KindMv
	KindChmod
	KindChown
	KindTar
	KindClear
	KindEditor
	KindHelp
	KindGit
	KindExternal
)

var kindNames = map[Kind]string{
	KindEmpty:    "empty",
	KindCd:       "cd",
	KindPwd:      "pwd",
	KindLs:       "ls",
	KindCat:      "cat",
	KindTouch:    "touch",
	KindMkdir:    "mkdir",
	KindRmdir:    "rmdir",
	KindRm:       "rm",
	KindCp:       "cp",
	KindMv:       "mv",
	KindChmod:    "chmod",
	KindChown:    "chown",
	KindTar:      "tar",
	KindClear:    "clear",
	KindEditor:   "editor",
	KindHelp:     "help",
	KindGit:      "git",
	KindExternal: "external",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Command is a parsed command line
type Command struct {
	Kind Kind
	// Name is the first word of the line
	Name string
	// Args are the words after Name, with quotes removed
	Args []string
	// Raw is the trimmed line, forwarded as-is for external commands
	Raw string
}

// Operand returns all the arguments joined by a single space, for commands
// taking one path that may contain blanks (cat my file.txt)
func (c Command) Operand() string {
	return strings.Join(c.Args, " ")
}
