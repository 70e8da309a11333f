package shell

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"
)

// EntryClass is the category a directory entry is displayed as
type EntryClass int

const (
	ClassDefault EntryClass = iota
	ClassDirectory
	ClassDevice
	ClassImage
	ClassArchive
	ClassExecutable
	ClassLink
	ClassBrokenLink
)

func (c EntryClass) String() string {
	switch c {
	case ClassDirectory:
		return "directory"
	case ClassDevice:
		return "device"
	case ClassImage:
		return "image"
	case ClassArchive:
		return "archive"
	case ClassExecutable:
		return "executable"
	case ClassLink:
		return "link"
	case ClassBrokenLink:
		return "broken-link"
	default:
		return "default"
	}
}

var (
	imageExtensions   = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff"}
	archiveExtensions = []string{".tar", ".gz", ".zip", ".rar", ".bz2", ".7z"}
)

func hasExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Classify returns the class of the entry at path. The first matching rule
// wins: directory, device, image name, archive name, executable, link
// (broken when the target is missing), default.
//
// Directory, device and executable checks follow symlinks.
func Classify(fsys afero.Fs, path string) EntryClass {
	isLink := false
	if lstater, ok := fsys.(afero.Lstater); ok {
		if info, _, err := lstater.LstatIfPossible(path); err == nil {
			isLink = info.Mode()&os.ModeSymlink != 0
		}
	}

	info, err := fsys.Stat(path)
	if err != nil {
		if isLink {
			return ClassBrokenLink
		}
		return ClassDefault
	}

	name := filepath.Base(path)
	mode := info.Mode()

	switch {
	case info.IsDir():
		return ClassDirectory
	case mode&os.ModeDevice != 0:
		return ClassDevice
	case hasExtension(name, imageExtensions):
		return ClassImage
	case hasExtension(name, archiveExtensions):
		return ClassArchive
	case mode.Perm()&0o111 != 0:
		return ClassExecutable
	case isLink:
		return ClassLink
	}
	return ClassDefault
}

// resetSequence ends a colored entry
const resetSequence = "\x1b[0m"

// Palette maps entry classes to terminal colors. A disabled palette
// returns names untouched.
type Palette struct {
	enabled bool
	colors  map[EntryClass]*color.Color
}

// NewPalette creates the listing palette
func NewPalette(enabled bool) *Palette {
	p := &Palette{
		enabled: enabled,
		colors: map[EntryClass]*color.Color{
			ClassDirectory:  color.New(color.FgBlue),
			ClassDevice:     color.New(color.BgYellow, color.FgBlack),
			ClassImage:      color.New(color.FgMagenta),
			ClassArchive:    color.New(color.FgRed),
			ClassExecutable: color.New(color.FgGreen),
			ClassLink:       color.New(color.FgCyan),
			ClassBrokenLink: color.New(color.BgRed, color.FgWhite),
		},
	}

	// the global color.NoColor follows stdout, but listings may go elsewhere
	for _, c := range p.colors {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Enabled reports whether the palette emits escape sequences
func (p *Palette) Enabled() bool {
	return p != nil && p.enabled
}

// Paint returns name in the color of class, followed by a color reset
func (p *Palette) Paint(class EntryClass, name string) string {
	if !p.Enabled() {
		return name
	}
	c, ok := p.colors[class]
	if !ok {
		return name + resetSequence
	}
	return c.Sprint(name)
}

// Entry is one classified directory entry
type Entry struct {
	Name  string
	Class EntryClass
}

// ListDir returns the entries of dir sorted by name
func ListDir(fsys afero.Fs, dir string) ([]Entry, error) {
	names, err := readDirNames(fsys, dir)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, Entry{
			Name:  name,
			Class: Classify(fsys, filepath.Join(dir, name)),
		})
	}
	return entries, nil
}

func readDirNames(fsys afero.Fs, dir string) ([]string, error) {
	f, err := fsys.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Readdirnames(-1)
}
