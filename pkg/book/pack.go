package book

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
	"github.com/klauspost/compress/zip"
)

// FixedZipTime makes packed archives byte-for-byte reproducible
// (1980-01-01 UTC).
var FixedZipTime = time.Unix(315532800, 0).UTC()

// Pack zips the package at root into zipPath. Entries are rooted at the
// package directory name, e.g. "Book.playgroundbook/Contents/...". The
// archive is written atomically.
func Pack(ctx context.Context, root, zipPath string) error {
	if err := os.MkdirAll(filepath.Dir(zipPath), 0o755); err != nil {
		return writeFailed(zipPath, err)
	}
	pf, err := renameio.NewPendingFile(zipPath, renameio.WithPermissions(0o644))
	if err != nil {
		return writeFailed(zipPath, err)
	}
	defer pf.Cleanup()

	zw := zip.NewWriter(pf)
	base := filepath.Base(root)
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(filepath.Join(base, rel))
		if d.IsDir() {
			return addDirEntry(zw, name+"/")
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return addFileEntry(zw, name, path)
	})
	if walkErr != nil {
		zw.Close()
		return writeFailed(zipPath, walkErr)
	}
	if err := zw.Close(); err != nil {
		return writeFailed(zipPath, err)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return writeFailed(zipPath, err)
	}
	return nil
}

func addDirEntry(zw *zip.Writer, name string) error {
	h := &zip.FileHeader{Name: name, Method: zip.Store}
	h.SetMode(os.ModeDir | 0o755)
	h.Modified = FixedZipTime
	_, err := zw.CreateHeader(h)
	return err
}

func addFileEntry(zw *zip.Writer, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	h := &zip.FileHeader{Name: name, Method: zip.Deflate}
	h.SetMode(0o644)
	h.Modified = FixedZipTime
	w, err := zw.CreateHeader(h)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
