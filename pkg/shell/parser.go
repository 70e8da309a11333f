package shell

import (
	"errors"
	"strings"
	"unicode"
)

var (
	ErrUnclosedQuote      = errors.New("unclosed quote")
	ErrUnescapedCharacter = errors.New("unescaped character")
)

type tokenizerState int

const (
	stateOutside tokenizerState = iota
	stateSingleQuote
	stateDoubleQuote
)

type tokenizer struct {
	state    tokenizerState
	escaping bool
	// inToken is set once a token has started, so '' produces an empty word
	inToken bool
	current strings.Builder
	tokens  []string
}

func (t *tokenizer) flush() {
	if t.inToken {
		t.tokens = append(t.tokens, t.current.String())
		t.current.Reset()
		t.inToken = false
	}
}

func (t *tokenizer) appendRune(r rune) {
	t.current.WriteRune(r)
	t.inToken = true
}

func (t *tokenizer) outside(r rune) {
	if t.escaping {
		t.appendRune(r)
		t.escaping = false
		return
	}

	switch {
	case unicode.IsSpace(r):
		t.flush()
	case r == '\'':
		t.state = stateSingleQuote
		t.inToken = true
	case r == '"':
		t.state = stateDoubleQuote
		t.inToken = true
	case r == '\\':
		t.escaping = true
	default:
		t.appendRune(r)
	}
}

func (t *tokenizer) singleQuote(r rune) {
	if r == '\'' {
		t.state = stateOutside
		return
	}
	t.appendRune(r)
}

func (t *tokenizer) doubleQuote(r rune) {
	if t.escaping {
		// only \" and \\ are escapes inside double quotes
		if r != '\\' && r != '"' {
			t.appendRune('\\')
		}
		t.appendRune(r)
		t.escaping = false
		return
	}

	switch r {
	case '"':
		t.state = stateOutside
	case '\\':
		t.escaping = true
	default:
		t.appendRune(r)
	}
}

// Tokenize splits a command line into words.
//
// Words are separated by blanks. Single quotes keep their content literally,
// double quotes honor \" and \\, and a backslash outside quotes escapes the
// next character.
func Tokenize(line string) ([]string, error) {
	t := &tokenizer{tokens: []string{}}

	for _, r := range line {
		switch t.state {
		case stateOutside:
			t.outside(r)
		case stateSingleQuote:
			t.singleQuote(r)
		case stateDoubleQuote:
			t.doubleQuote(r)
		}
	}

	if t.state != stateOutside {
		return nil, ErrUnclosedQuote
	}
	if t.escaping {
		return nil, ErrUnescapedCharacter
	}

	t.flush()
	return t.tokens, nil
}

// commands that must be typed alone: with arguments the line is external
var exactCommands = map[string]Kind{
	"pwd":   KindPwd,
	"ls":    KindLs,
	"clear": KindClear,
	"help":  KindHelp,
	"h":     KindHelp,
}

// commands that need at least one argument: without any the line is external
var prefixCommands = map[string]Kind{
	"cd":    KindCd,
	"cat":   KindCat,
	"touch": KindTouch,
	"mkdir": KindMkdir,
	"rmdir": KindRmdir,
	"rm":    KindRm,
	"cp":    KindCp,
	"mv":    KindMv,
	"chmod": KindChmod,
	"chown": KindChown,
	"tar":   KindTar,
	"git":   KindGit,
}

// EditorCommand is the word that launches the editor
const EditorCommand = "vim"

// isBuiltin reports whether name is handled by the dispatcher itself
func isBuiltin(name string) bool {
	if _, ok := exactCommands[name]; ok {
		return true
	}
	if _, ok := prefixCommands[name]; ok {
		return true
	}
	return name == EditorCommand
}

// Parse turns a command line into a Command. Lines that are not one of the
// built-in commands are KindExternal, and an empty line is KindEmpty. Lines
// the tokenizer rejects are still external when their first word is not a
// built-in, and are then passed on verbatim.
func Parse(line string) (Command, error) {
	raw := strings.TrimSpace(line)
	if raw == "" {
		return Command{Kind: KindEmpty}, nil
	}

	tokens, err := Tokenize(raw)
	if err != nil {
		// the interpreter has its own quoting rules
		if name := strings.Fields(raw)[0]; !isBuiltin(name) {
			return Command{Kind: KindExternal, Name: name, Raw: raw}, nil
		}
		return Command{Raw: raw}, err
	}
	if len(tokens) == 0 {
		return Command{Kind: KindEmpty, Raw: raw}, nil
	}

	cmd := Command{
		Kind: KindExternal,
		Name: tokens[0],
		Args: tokens[1:],
		Raw:  raw,
	}

	if kind, ok := exactCommands[cmd.Name]; ok {
		if len(cmd.Args) == 0 {
			cmd.Kind = kind
		}
		return cmd, nil
	}

	if kind, ok := prefixCommands[cmd.Name]; ok {
		if len(cmd.Args) > 0 {
			cmd.Kind = kind
		}
		return cmd, nil
	}

	if cmd.Name == EditorCommand {
		cmd.Kind = KindEditor
	}

	return cmd, nil
}
