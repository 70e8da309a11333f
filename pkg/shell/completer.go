package shell

import (
	"path/filepath"
	"sort"
	"strings"
)

// Completer completes the word under the cursor with the entries of the
// session working directory, or of the directory the word points into.
// It implements readline.AutoCompleter.
type Completer struct {
	d *Dispatcher
}

// NewCompleter creates a completer over the dispatcher's session
func NewCompleter(d *Dispatcher) *Completer {
	return &Completer{d: d}
}

// Do returns the candidate suffixes for the word ending at pos and the
// length of the part of the word they complete
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	head := string(line[:pos])
	word := head[strings.LastIndexAny(head, " \t")+1:]

	dir, prefix := "", word
	if i := strings.LastIndexAny(word, `/\`); i >= 0 {
		dir, prefix = word[:i+1], word[i+1:]
	}

	searchDir := c.d.session.Cwd()
	if dir != "" {
		searchDir = c.d.session.Resolve(dir)
	}

	names, err := readDirNames(c.d.fs, searchDir)
	if err != nil {
		return nil, 0
	}
	sort.Strings(names)

	var candidates [][]rune
	for _, name := range names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		// hidden entries only when asked for
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}

		suffix := name[len(prefix):]
		if info, err := c.d.fs.Stat(filepath.Join(searchDir, name)); err == nil && info.IsDir() {
			suffix += "/"
		} else {
			suffix += " "
		}
		candidates = append(candidates, []rune(suffix))
	}

	return candidates, len([]rune(prefix))
}
