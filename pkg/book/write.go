package book

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// writeFileAtomic replaces path with data. Readers see either the previous
// file or the complete new one.
func writeFileAtomic(path string, data []byte) error {
	return writeAtomic(path, bytes.NewReader(data))
}

// writeAtomic streams r into a pending file beside path and renames it into
// place once r is drained. On any error the pending file is removed and path
// is left untouched.
func writeAtomic(path string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return writeFailed(path, err)
	}
	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return writeFailed(path, err)
	}
	defer pf.Cleanup()

	if _, err := io.Copy(pf, r); err != nil {
		return writeFailed(path, err)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return writeFailed(path, err)
	}
	return nil
}

// WritePageContents writes text as the page's Contents.swift, creating the
// chapter and page directories as needed.
func WritePageContents(root, chapter, page, text string) error {
	dir, err := PageDir(root, chapter, page)
	if err != nil {
		return writeFailed(root, err)
	}
	return writeFileAtomic(filepath.Join(dir, PageSourceFile), []byte(text))
}

// AddPage creates a page with a minimal manifest and initialCode as its
// Contents.swift. An existing page is overwritten.
func AddPage(root, chapter, page, initialCode string) error {
	dir, err := PageDir(root, chapter, page)
	if err != nil {
		return writeFailed(root, err)
	}
	if err := writeManifest(filepath.Join(dir, ManifestFile), NewPageManifest(page)); err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(dir, PageSourceFile), []byte(initialCode))
}

// AddSharedSource adds or replaces <fileName>.swift under the shared sources.
func AddSharedSource(root, fileName, code string) error {
	name, err := SafeComponent(fileName)
	if err != nil {
		return writeFailed(root, err)
	}
	return writeFileAtomic(filepath.Join(SharedSourcesDir(root), name+SourceExt), []byte(code))
}

// AddSharedResource adds or replaces an opaque resource under the shared
// resources.
func AddSharedResource(root, resourceName string, data []byte) error {
	name, err := SafeComponent(resourceName)
	if err != nil {
		return writeFailed(root, err)
	}
	return writeFileAtomic(filepath.Join(SharedResourcesDir(root), name), data)
}

// ReadPageContents returns the Contents.swift of a page.
func ReadPageContents(root, chapter, page string) (string, error) {
	dir, err := PageDir(root, chapter, page)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(dir, PageSourceFile))
	if err != nil {
		return "", fmt.Errorf("failed to read page %s/%s: %w", chapter, page, err)
	}
	return string(data), nil
}
