package book

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/playgroundstudio/pgstudio/internal/logger"
)

// Save copies the package at root to destination, replacing whatever is
// there. The copy is staged in a sibling directory and renamed into place,
// so on failure destination still holds its previous contents (or does not
// exist).
func Save(ctx context.Context, root, destination string) error {
	info, err := os.Stat(root)
	if err != nil {
		return copyFailed(root, err)
	}
	if !info.IsDir() {
		return copyFailed(root, fmt.Errorf("not a package directory"))
	}

	parent := filepath.Dir(destination)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return copyFailed(parent, err)
	}
	work, err := os.MkdirTemp(parent, ".pgstudio-save-*")
	if err != nil {
		return copyFailed(parent, err)
	}
	defer os.RemoveAll(work)

	staged := filepath.Join(work, "staged")
	if err := copyTree(ctx, root, staged); err != nil {
		return copyFailed(destination, err)
	}

	backup := ""
	if _, err := os.Lstat(destination); err == nil {
		backup = filepath.Join(work, "previous")
		if err := os.Rename(destination, backup); err != nil {
			return copyFailed(destination, err)
		}
	}
	if err := os.Rename(staged, destination); err != nil {
		if backup != "" {
			if rerr := os.Rename(backup, destination); rerr != nil {
				logger.Warn("failed to restore %s from %s: %v", destination, backup, rerr)
			}
		}
		return copyFailed(destination, err)
	}
	logger.Info("saved %s to %s", root, destination)
	return nil
}

// copyTree recreates src at dst. Symlinks are copied as links.
func copyTree(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		case info.Mode()&os.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case info.Mode().IsRegular():
			return copyRegular(path, target, info.Mode().Perm())
		default:
			return nil
		}
	})
}

func copyRegular(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
