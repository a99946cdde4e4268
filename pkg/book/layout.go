// Package book materializes a project tree into the .playgroundbook package
// layout and manages the template archive the packages start from.
//
// Layout of a package root:
//
//	<Name>.playgroundbook/
//	  Contents/
//	    Manifest.plist
//	    Chapters/
//	      <Chapter>.playgroundchapter/
//	        Manifest.plist
//	        Pages/
//	          <Page>.playgroundpage/
//	            Manifest.plist
//	            Contents.swift
//	    Shared Playground Support/
//	      Sources/<file>.swift
//	      Resources/<resource>
//
// Every file is written with atomic replace semantics.
package book

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

const (
	BookExt    = ".playgroundbook"
	ChapterExt = ".playgroundchapter"
	PageExt    = ".playgroundpage"

	ContentsDir      = "Contents"
	ChaptersDir      = "Chapters"
	PagesDir         = "Pages"
	SharedSupportDir = "Shared Playground Support"
	SourcesDir       = "Sources"
	ResourcesDir     = "Resources"

	ManifestFile   = "Manifest.plist"
	PageSourceFile = "Contents.swift"
	SourceExt      = ".swift"

	ManifestVersion = "1.0"
	DefaultPageCode = "// Welcome"
)

// ErrInvalidName is returned when a chapter, page or file name cannot be
// mapped onto a single path component.
var ErrInvalidName = errors.New("invalid name")

// SafeComponent maps a display name onto a single path component. Path
// separators become "-", control characters are dropped and surrounding
// whitespace is trimmed. Empty results and "." or ".." are rejected.
func SafeComponent(name string) (string, error) {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '/' || r == '\\':
			b.WriteRune('-')
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}
	s := strings.TrimSpace(b.String())
	if s == "" || s == "." || s == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return s, nil
}

// PageName derives a page directory name from a module name. Module names
// carry a ".swift" suffix by default which the page directory does not.
func PageName(moduleName string) string {
	if trimmed := strings.TrimSuffix(moduleName, SourceExt); trimmed != "" {
		return trimmed
	}
	return moduleName
}

func contentsDir(root string) string {
	return filepath.Join(root, ContentsDir)
}

// ChapterDir returns the directory of a chapter inside root.
func ChapterDir(root, chapter string) (string, error) {
	name, err := SafeComponent(chapter)
	if err != nil {
		return "", err
	}
	return filepath.Join(contentsDir(root), ChaptersDir, name+ChapterExt), nil
}

// PageDir returns the directory of a page inside root.
func PageDir(root, chapter, page string) (string, error) {
	dir, err := ChapterDir(root, chapter)
	if err != nil {
		return "", err
	}
	name, err := SafeComponent(page)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, PagesDir, name+PageExt), nil
}

// SharedSourcesDir returns the shared sources directory of root.
func SharedSourcesDir(root string) string {
	return filepath.Join(contentsDir(root), SharedSupportDir, SourcesDir)
}

// SharedResourcesDir returns the shared resources directory of root.
func SharedResourcesDir(root string) string {
	return filepath.Join(contentsDir(root), SharedSupportDir, ResourcesDir)
}

// IsPackageRoot reports whether name carries the package root extension.
func IsPackageRoot(name string) bool {
	return strings.EqualFold(filepath.Ext(name), BookExt)
}
