package shell

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/inercia/shellfront/pkg/archive"
)

const (
	tarCreate  = "-cvf"
	tarExtract = "-xvf"
)

// tar handles "tar -cvf <name> <path>" and "tar -xvf <archive>"
func (d *Dispatcher) tar(ctx context.Context, w io.Writer, args []string) error {
	if len(args) < 2 {
		return invalidArgsf("Invalid arguments for tar.")
	}

	switch args[0] {
	case tarCreate:
		if len(args) < 3 {
			return invalidArgsf("Missing arguments for tar -cvf.")
		}
		return d.tarCreate(ctx, w, args[1], strings.Join(args[2:], " "))
	case tarExtract:
		return d.tarExtract(ctx, w, strings.Join(args[1:], " "))
	}

	return unsupportedf("Invalid tar operation.")
}

func (d *Dispatcher) tarCreate(ctx context.Context, w io.Writer, name string, src string) error {
	srcPath := d.session.Resolve(src)
	if _, err := lstat(d.fs, srcPath); err != nil {
		return notFoundf("File or directory '%s' does not exist.", src)
	}

	archiveName := archive.ArchiveName(name)
	n, err := archive.Create(ctx, d.fs, d.session.Resolve(archiveName), srcPath)
	if err != nil {
		return classifyError(err, "cannot create archive '%s'", archiveName)
	}
	d.logger.Debug("Archived %d entries from %s into %s", n, srcPath, archiveName)

	fmt.Fprintf(w, "Created archive '%s' with files: %s.\n", archiveName, src)
	return nil
}

func (d *Dispatcher) tarExtract(ctx context.Context, w io.Writer, name string) error {
	archivePath := d.session.Resolve(name)
	if !d.exists(name) {
		return notFoundf("Archive '%s' not found.", name)
	}

	destDir := archive.ExtractDir(archivePath)
	n, err := archive.Extract(ctx, d.fs, archivePath, destDir)
	if err != nil {
		return classifyError(err, "cannot extract archive '%s'", name)
	}
	d.logger.Debug("Extracted %d entries from %s into %s", n, archivePath, destDir)

	fmt.Fprintf(w, "Extracted archive '%s'.\n", name)
	return nil
}
