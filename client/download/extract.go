package download

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Extract writes every entry of the zip archive at zipPath beneath dir,
// creating directories as needed. Entries that are absolute, climb out of
// dir, or are symlinks fail with ErrUnsafePath before anything is written
// for them. A malformed archive fails with ErrArchive.
func Extract(ctx context.Context, zipPath, dir string) error {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return &Error{Err: ErrArchive, Detail: err.Error()}
	}
	defer zr.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}

	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrDownloadCancelled, err)
		}

		target, err := entryPath(dir, f)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating directory %s: %w", f.Name, err)
			}
			continue
		}

		if err := writeEntry(f, target); err != nil {
			return err
		}
	}

	return nil
}

func entryPath(dir string, f *zip.File) (string, error) {
	name := filepath.FromSlash(strings.TrimSuffix(f.Name, "/"))
	if name == "" || !filepath.IsLocal(name) {
		return "", &Error{Err: ErrUnsafePath, Detail: f.Name}
	}

	if f.Mode()&fs.ModeSymlink != 0 {
		return "", &Error{Err: ErrUnsafePath, Detail: fmt.Sprintf("%s is a symlink", f.Name)}
	}

	return filepath.Join(dir, name), nil
}

func writeEntry(f *zip.File, target string) (err error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return &Error{Err: ErrArchive, Detail: fmt.Sprintf("opening %s: %v", f.Name, err)}
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", f.Name, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", f.Name, cerr)
		}
	}()

	if _, err := io.Copy(out, rc); err != nil {
		if errors.Is(err, zip.ErrChecksum) || errors.Is(err, zip.ErrFormat) || errors.Is(err, io.ErrUnexpectedEOF) {
			return &Error{Err: ErrArchive, Detail: fmt.Sprintf("reading %s: %v", f.Name, err)}
		}
		return fmt.Errorf("writing %s: %w", f.Name, err)
	}

	return nil
}
