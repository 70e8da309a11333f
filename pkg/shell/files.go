package shell

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/inercia/shellfront/pkg/common"
)

func (d *Dispatcher) list(w io.Writer) error {
	entries, err := ListDir(d.fs, d.session.Cwd())
	if err != nil {
		return classifyError(err, "cannot list '%s'", d.session.Cwd())
	}

	var sb strings.Builder
	for _, entry := range entries {
		sb.WriteString(d.palette.Paint(entry.Class, entry.Name))
		sb.WriteString(d.separator)
	}
	sb.WriteString("\n")

	_, err = io.WriteString(w, sb.String())
	return err
}

func (d *Dispatcher) exists(path string) bool {
	_, err := d.fs.Stat(d.session.Resolve(path))
	return err == nil
}

func (d *Dispatcher) cat(w io.Writer, name string) error {
	path := d.session.Resolve(name)

	info, err := d.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return notFoundf("'%s' not found.", name)
		}
		return classifyError(err, "cannot read '%s'", name)
	}
	if info.IsDir() {
		return invalidArgsf("'%s' is a directory.", name)
	}

	data, err := afero.ReadFile(d.fs, path)
	if err != nil {
		return classifyError(err, "cannot read '%s'", name)
	}

	if _, err := w.Write(data); err != nil {
		return err
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		fmt.Fprintln(w)
	}
	return nil
}

func (d *Dispatcher) touch(w io.Writer, name string) error {
	f, err := d.fs.OpenFile(d.session.Resolve(name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return classifyError(err, "cannot create '%s'", name)
	}
	if err := f.Close(); err != nil {
		return classifyError(err, "cannot create '%s'", name)
	}

	fmt.Fprintf(w, "File '%s' created (if it did not already exist).\n", name)
	return nil
}

func (d *Dispatcher) mkdir(w io.Writer, name string) error {
	if d.exists(name) {
		return alreadyExistsf("Directory '%s' already exists.", name)
	}
	if err := d.fs.Mkdir(d.session.Resolve(name), 0o755); err != nil {
		return classifyError(err, "cannot create directory '%s'", name)
	}

	fmt.Fprintf(w, "Directory '%s' created.\n", name)
	return nil
}

func (d *Dispatcher) rmdir(w io.Writer, name string) error {
	path := d.session.Resolve(name)

	info, err := d.fs.Stat(path)
	if err != nil || !info.IsDir() {
		return notFoundf("Directory '%s' not found.", name)
	}
	if err := d.fs.Remove(path); err != nil {
		return classifyError(err, "cannot remove directory '%s'", name)
	}

	fmt.Fprintf(w, "Directory '%s' removed.\n", name)
	return nil
}

func (d *Dispatcher) rm(w io.Writer, name string) error {
	path := d.session.Resolve(name)

	info, err := lstat(d.fs, path)
	if err != nil {
		return notFoundf("File '%s' not found.", name)
	}
	if info.IsDir() {
		return invalidArgsf("'%s' is a directory.", name)
	}
	if err := d.fs.Remove(path); err != nil {
		return classifyError(err, "cannot remove '%s'", name)
	}

	fmt.Fprintf(w, "File '%s' removed.\n", name)
	return nil
}

// destination returns where src lands when copied or moved to dst: inside
// dst when it is an existing directory, dst itself otherwise
func (d *Dispatcher) destination(src string, dst string) string {
	path := d.session.Resolve(dst)
	if info, err := d.fs.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, filepath.Base(d.session.Resolve(src)))
	}
	return path
}

func (d *Dispatcher) cp(w io.Writer, args []string) error {
	if len(args) != 2 {
		return invalidArgsf("Invalid arguments for cp.")
	}
	src, dst := args[0], args[1]
	srcPath := d.session.Resolve(src)

	info, err := d.fs.Stat(srcPath)
	if err != nil {
		return notFoundf("Source file '%s' not found.", src)
	}
	if info.IsDir() {
		return invalidArgsf("'%s' is a directory.", src)
	}

	dstPath := d.destination(src, dst)
	if sameFile(d.fs, srcPath, dstPath) {
		return invalidArgsf("'%s' and '%s' are the same file.", src, dst)
	}

	if err := copyFile(d.fs, srcPath, dstPath, info.Mode().Perm()); err != nil {
		return classifyError(err, "cannot copy '%s' to '%s'", src, dst)
	}

	fmt.Fprintf(w, "Copied '%s' to '%s'.\n", src, dst)
	return nil
}

func (d *Dispatcher) mv(w io.Writer, args []string) error {
	if len(args) != 2 {
		return invalidArgsf("Invalid arguments for mv.")
	}
	src, dst := args[0], args[1]
	srcPath := d.session.Resolve(src)

	info, err := lstat(d.fs, srcPath)
	if err != nil {
		return notFoundf("Source file '%s' not found.", src)
	}

	dstPath := d.destination(src, dst)
	if sameFile(d.fs, srcPath, dstPath) {
		return invalidArgsf("'%s' and '%s' are the same file.", src, dst)
	}

	if err := d.fs.Rename(srcPath, dstPath); err != nil {
		// renames across devices fail, fall back to copy and delete
		if !info.Mode().IsRegular() {
			return classifyError(err, "cannot move '%s' to '%s'", src, dst)
		}
		if err := copyFile(d.fs, srcPath, dstPath, info.Mode().Perm()); err != nil {
			return classifyError(err, "cannot move '%s' to '%s'", src, dst)
		}
		if err := d.fs.Remove(srcPath); err != nil {
			return classifyError(err, "cannot remove '%s' after copying it", src)
		}
	}

	fmt.Fprintf(w, "Moved '%s' to '%s'.\n", src, dst)
	return nil
}

// sameFile reports whether a and b name the same file, either as the same
// path or through a link. copyFile truncates its destination, so copying a
// file onto itself would empty it.
func sameFile(fsys afero.Fs, a string, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}

	ai, err := fsys.Stat(a)
	if err != nil {
		return false
	}
	bi, err := fsys.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

func copyFile(fsys afero.Fs, src string, dst string, perm os.FileMode) error {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	// an existing destination keeps its old mode otherwise
	return fsys.Chmod(dst, perm)
}

// parseMode parses an octal permission string such as 644 or 4755
func parseMode(s string) (os.FileMode, error) {
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil || v > 0o7777 {
		return 0, invalidArgsf("invalid octal mode '%s'", s)
	}

	mode := os.FileMode(v & 0o777)
	if v&0o4000 != 0 {
		mode |= os.ModeSetuid
	}
	if v&0o2000 != 0 {
		mode |= os.ModeSetgid
	}
	if v&0o1000 != 0 {
		mode |= os.ModeSticky
	}
	return mode, nil
}

func (d *Dispatcher) chmod(w io.Writer, args []string) error {
	if len(args) != 2 {
		return invalidArgsf("Invalid arguments for chmod.")
	}
	perms, name := args[0], args[1]

	if !d.exists(name) {
		return notFoundf("File '%s' not found.", name)
	}

	mode, err := parseMode(perms)
	if err != nil {
		return err
	}
	if err := d.fs.Chmod(d.session.Resolve(name), mode); err != nil {
		return classifyError(err, "cannot change permissions of '%s'", name)
	}

	fmt.Fprintf(w, "Permissions of '%s' changed to %s.\n", name, perms)
	return nil
}

func (d *Dispatcher) chown(w io.Writer, args []string) error {
	if common.IsWindows() {
		return unsupportedf("chown is not supported on this platform.")
	}

	var owner, group, name string
	switch len(args) {
	case 2:
		owner, name = args[0], args[1]
	case 3:
		owner, group, name = args[0], args[1], args[2]
	default:
		return invalidArgsf("Invalid arguments for chown.")
	}

	if !d.exists(name) {
		return notFoundf("File '%s' not found.", name)
	}

	uid, err := lookupUser(owner)
	if err != nil {
		return err
	}
	gid := -1
	if group != "" {
		if gid, err = lookupGroup(group); err != nil {
			return err
		}
	}

	if err := d.fs.Chown(d.session.Resolve(name), uid, gid); err != nil {
		return classifyError(err, "cannot change ownership of '%s'", name)
	}

	if group != "" {
		fmt.Fprintf(w, "Ownership of '%s' changed to %s:%s.\n", name, owner, group)
	} else {
		fmt.Fprintf(w, "Ownership of '%s' changed to %s.\n", name, owner)
	}
	return nil
}

// lookupUser accepts a user name or a numeric uid
func lookupUser(owner string) (int, error) {
	if id, err := strconv.Atoi(owner); err == nil {
		return id, nil
	}
	u, err := user.Lookup(owner)
	if err != nil {
		return 0, notFoundf("no such user: %s", owner)
	}
	return strconv.Atoi(u.Uid)
}

// lookupGroup accepts a group name or a numeric gid
func lookupGroup(group string) (int, error) {
	if id, err := strconv.Atoi(group); err == nil {
		return id, nil
	}
	g, err := user.LookupGroup(group)
	if err != nil {
		return 0, notFoundf("no such group: %s", group)
	}
	return strconv.Atoi(g.Gid)
}

func lstat(fsys afero.Fs, path string) (os.FileInfo, error) {
	if lstater, ok := fsys.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(path)
		return info, err
	}
	return fsys.Stat(path)
}
