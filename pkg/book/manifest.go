package book

import (
	"fmt"
	"os"

	"howett.net/plist"
)

// PageManifest is the page-level Manifest.plist. It carries exactly these
// three keys.
type PageManifest struct {
	Name           string `plist:"Name"`
	Version        string `plist:"Version"`
	ContentVersion string `plist:"ContentVersion"`
}

// ChapterManifest records a chapter's name and page order.
type ChapterManifest struct {
	Name           string   `plist:"Name"`
	Version        string   `plist:"Version"`
	ContentVersion string   `plist:"ContentVersion"`
	Pages          []string `plist:"Pages"`
}

// BookManifest records the book's name and chapter order.
type BookManifest struct {
	Name           string   `plist:"Name"`
	Version        string   `plist:"Version"`
	ContentVersion string   `plist:"ContentVersion"`
	Chapters       []string `plist:"Chapters"`
}

func NewPageManifest(name string) PageManifest {
	return PageManifest{Name: name, Version: ManifestVersion, ContentVersion: ManifestVersion}
}

// EncodeManifest renders v as an XML property list.
func EncodeManifest(v any) ([]byte, error) {
	data, err := plist.MarshalIndent(v, plist.XMLFormat, "\t")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return data, nil
}

// ReadManifest decodes the property list at path into v. Any plist format
// is accepted.
func ReadManifest(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}
	if _, err := plist.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return nil
}

func writeManifest(path string, v any) error {
	data, err := EncodeManifest(v)
	if err != nil {
		return writeFailed(path, err)
	}
	return writeFileAtomic(path, data)
}
