// Package archive packs a file or directory tree into a tar archive and
// unpacks archives back into directories. It works on any afero filesystem,
// so the shell can be tested against an in-memory tree.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"
	"github.com/spf13/afero"
)

// Extension is appended to archive names that do not already carry it
const Extension = ".tar"

// ErrUnsafePath is returned for archive entries that would land outside the
// extraction directory.
var ErrUnsafePath = errors.New("archive entry escapes the destination directory")

// suffixes stripped from an archive name to get its extraction directory,
// longest first
var knownSuffixes = []string{".tar.gz", ".tar.bz2", ".tar.xz", ".tar.zst", ".tgz", ".tar", ".zip"}

// ArchiveName returns the file name an archive called name is written to
func ArchiveName(name string) string {
	if strings.HasSuffix(strings.ToLower(name), Extension) {
		return name
	}
	return name + Extension
}

// ExtractDir returns the directory an archive is unpacked into: the archive
// path without its archive suffix, or with "_extracted" appended when it has
// none.
func ExtractDir(archivePath string) string {
	lower := strings.ToLower(archivePath)
	for _, suffix := range knownSuffixes {
		if strings.HasSuffix(lower, suffix) && len(archivePath) > len(suffix) {
			return archivePath[:len(archivePath)-len(suffix)]
		}
	}
	return archivePath + "_extracted"
}

// Create writes a tar archive at archivePath holding srcPath. A directory
// contributes its contents (not itself) at the archive root; a single file
// is stored under its base name. Returns the number of entries written.
func Create(ctx context.Context, fsys afero.Fs, archivePath string, srcPath string) (int, error) {
	info, err := lstat(fsys, srcPath)
	if err != nil {
		return 0, err
	}

	var files []archives.FileInfo
	if info.IsDir() {
		files, err = collectTree(fsys, srcPath, archivePath)
		if err != nil {
			return 0, err
		}
	} else {
		fi, err := fileInfo(fsys, srcPath, info, info.Name())
		if err != nil {
			return 0, err
		}
		files = append(files, fi)
	}

	out, err := fsys.OpenFile(archivePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}

	if err := (archives.Tar{}).Archive(ctx, out, files); err != nil {
		_ = out.Close()
		_ = fsys.Remove(archivePath)
		return 0, fmt.Errorf("failed to write archive: %w", err)
	}

	if err := out.Close(); err != nil {
		return 0, err
	}
	return len(files), nil
}

func collectTree(fsys afero.Fs, root string, skip string) ([]archives.FileInfo, error) {
	var files []archives.FileInfo

	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root || filepath.Clean(path) == filepath.Clean(skip) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		fi, err := fileInfo(fsys, path, info, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		files = append(files, fi)
		return nil
	})

	return files, err
}

func fileInfo(fsys afero.Fs, path string, info os.FileInfo, name string) (archives.FileInfo, error) {
	fi := archives.FileInfo{
		FileInfo:      info,
		NameInArchive: name,
		Open: func() (fs.File, error) {
			return fsys.Open(path)
		},
	}

	if info.Mode()&os.ModeSymlink != 0 {
		reader, ok := fsys.(afero.LinkReader)
		if !ok {
			return fi, fmt.Errorf("cannot read symlink %s on this filesystem", path)
		}
		target, err := reader.ReadlinkIfPossible(path)
		if err != nil {
			return fi, err
		}
		fi.LinkTarget = target
	}

	return fi, nil
}

// Extract unpacks the archive at archivePath into destDir, creating it if
// needed. The format is identified from the name and the stream, so any
// format the archives package can extract (tar, tar.gz, zip...) works.
// Returns the number of entries extracted.
func Extract(ctx context.Context, fsys afero.Fs, archivePath string, destDir string) (int, error) {
	f, err := fsys.Open(archivePath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	format, input, err := archives.Identify(ctx, filepath.Base(archivePath), f)
	if err != nil {
		return 0, fmt.Errorf("unrecognized archive format: %w", err)
	}

	extractor, ok := format.(archives.Extractor)
	if !ok {
		return 0, fmt.Errorf("format %T does not support extraction", format)
	}

	if err := fsys.MkdirAll(destDir, 0o755); err != nil {
		return 0, err
	}

	count := 0
	handler := func(ctx context.Context, entry archives.FileInfo) error {
		if err := extractEntry(fsys, destDir, entry); err != nil {
			return fmt.Errorf("failed to extract %s: %w", entry.NameInArchive, err)
		}
		count++
		return nil
	}

	if err := extractor.Extract(ctx, input, handler); err != nil {
		return count, err
	}
	return count, nil
}

func extractEntry(fsys afero.Fs, destDir string, entry archives.FileInfo) error {
	target := filepath.Join(destDir, filepath.FromSlash(entry.NameInArchive))
	if !within(destDir, target) {
		return ErrUnsafePath
	}
	if err := checkParents(fsys, destDir, target); err != nil {
		return err
	}

	mode := entry.Mode()

	// an existing link at target would be written through
	existing, err := lstat(fsys, target)
	if err == nil && existing.Mode()&os.ModeSymlink != 0 {
		if entry.IsDir() {
			return ErrUnsafePath
		}
		if err := fsys.Remove(target); err != nil {
			return err
		}
	}

	switch {
	case entry.IsDir():
		return fsys.MkdirAll(target, mode.Perm()|0o700)

	case mode&os.ModeSymlink != 0:
		if !within(destDir, linkDestination(target, entry.LinkTarget)) {
			return ErrUnsafePath
		}
		if err := fsys.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		linker, ok := fsys.(afero.Linker)
		if !ok {
			return nil
		}
		return linker.SymlinkIfPossible(entry.LinkTarget, target)

	case !mode.IsRegular():
		// devices, fifos and friends are not recreated
		return nil
	}

	if err := fsys.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	in, err := entry.Open()
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fsys.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
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

	// OpenFile is subject to the umask
	return fsys.Chmod(target, mode.Perm())
}

// within reports whether path is root or lies below it
func within(root string, path string) bool {
	root = filepath.Clean(root)
	path = filepath.Clean(path)
	return path == root || strings.HasPrefix(path, root+string(os.PathSeparator))
}

// linkDestination returns where a link at path pointing to linkTarget leads
func linkDestination(path string, linkTarget string) string {
	linkTarget = filepath.FromSlash(linkTarget)
	if filepath.IsAbs(linkTarget) {
		return filepath.Clean(linkTarget)
	}
	return filepath.Join(filepath.Dir(path), linkTarget)
}

// checkParents rejects targets whose parent directories below destDir
// include a symlink, which would redirect the write elsewhere.
func checkParents(fsys afero.Fs, destDir string, target string) error {
	rel, err := filepath.Rel(destDir, filepath.Dir(target))
	if err != nil {
		return ErrUnsafePath
	}
	if rel == "." {
		return nil
	}

	current := filepath.Clean(destDir)
	for _, part := range strings.Split(rel, string(os.PathSeparator)) {
		current = filepath.Join(current, part)

		info, err := lstat(fsys, current)
		if os.IsNotExist(err) {
			// nothing deeper exists either
			return nil
		}
		if err != nil {
			return err
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return ErrUnsafePath
		}
	}
	return nil
}

func lstat(fsys afero.Fs, path string) (os.FileInfo, error) {
	if lstater, ok := fsys.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(path)
		return info, err
	}
	return fsys.Stat(path)
}
