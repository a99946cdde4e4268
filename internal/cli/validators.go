package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/playgroundstudio/pgstudio/pkg/book"
	"github.com/playgroundstudio/pgstudio/pkg/files"
)

// ValidateFilePath validates that a file path exists and is a file
func ValidateFilePath(path string) error {
	if !filepath.IsAbs(path) {
		path, _ = filepath.Abs(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", path)
		}
		return fmt.Errorf("error accessing path: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, expected file: %s", path)
	}

	return nil
}

// ValidateOutputFormat validates the output format flag
func ValidateOutputFormat(format string) error {
	validFormats := []string{"text", "json", "yaml"}
	for _, valid := range validFormats {
		if format == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid output format: %s (must be: text, json, or yaml)", format)
}

// ValidateChapterName validates a chapter name
func ValidateChapterName(name string) error {
	if err := files.ValidateName(name, "chapter"); err != nil {
		return err
	}
	if _, err := book.SafeComponent(name); err != nil {
		return fmt.Errorf("chapter name cannot be used as a directory: %w", err)
	}
	return nil
}

// ValidateModuleName validates a module name
func ValidateModuleName(name string) error {
	if err := files.ValidateName(name, "module"); err != nil {
		return err
	}
	if _, err := book.SafeComponent(book.PageName(name)); err != nil {
		return fmt.Errorf("module name cannot be used as a page directory: %w", err)
	}
	return nil
}

// ValidatePackagePath checks that a save or export destination names a
// .playgroundbook directory.
func ValidatePackagePath(path string) error {
	if path == "" {
		return fmt.Errorf("destination cannot be empty")
	}
	if !strings.EqualFold(filepath.Ext(path), book.BookExt) {
		return fmt.Errorf("destination must end in %s: %s", book.BookExt, path)
	}
	return nil
}
