package book

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/playgroundstudio/pgstudio/internal/logger"
)

const (
	// WorkspaceFolder is the per-user directory under os.UserConfigDir.
	WorkspaceFolder = "PlaygroundStudio"

	DefaultArchive       = "Template.zip"
	SampleArchive        = "TemplateSample.zip"
	DefaultCopyFolder    = "Template Copy"
	visibilityAttempts   = 20
	visibilityPollPeriod = 100 * time.Millisecond
)

// Manager owns the template lifecycle and remembers the current package
// root so later writes can omit it. It is safe for concurrent use; template
// extraction usually runs off the UI goroutine.
type Manager struct {
	// ResourcesDir holds the bundled template archives.
	ResourcesDir string
	// WorkspaceDir is the writable directory duplicated templates go to.
	WorkspaceDir string
	Extractor    Extractor

	VisibilityAttempts int
	VisibilityInterval time.Duration

	mu      sync.Mutex
	current string
}

// NewManager returns a Manager. A nil extractor defaults to CommandExtractor.
func NewManager(resourcesDir, workspaceDir string, x Extractor) *Manager {
	if x == nil {
		x = CommandExtractor{}
	}
	return &Manager{
		ResourcesDir:       resourcesDir,
		WorkspaceDir:       workspaceDir,
		Extractor:          x,
		VisibilityAttempts: visibilityAttempts,
		VisibilityInterval: visibilityPollPeriod,
	}
}

// DefaultWorkspaceDir returns <user config dir>/PlaygroundStudio.
func DefaultWorkspaceDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config directory: %w", err)
	}
	return filepath.Join(base, WorkspaceFolder), nil
}

// CurrentRoot returns the retained package root, if any.
func (m *Manager) CurrentRoot() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.current != ""
}

// SetCurrentRoot retains root for the convenience methods.
func (m *Manager) SetCurrentRoot(root string) {
	m.mu.Lock()
	m.current = root
	m.mu.Unlock()
}

func (m *Manager) requireRoot() (string, error) {
	root, ok := m.CurrentRoot()
	if !ok {
		return "", ErrNoActivePackage
	}
	return root, nil
}

// TemplatePath resolves archiveName inside the resources directory.
func (m *Manager) TemplatePath(archiveName string) (string, error) {
	if archiveName == "" {
		archiveName = DefaultArchive
	}
	path := filepath.Join(m.ResourcesDir, archiveName)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
	}
	return path, nil
}

// ExtractTemplate copies the named archive into destinationDir, extracts it
// there, removes the transient copy and waits for the extracted files to be
// visible. On success the located package root becomes the current root and
// is returned.
//
// With replaceExisting an existing destinationDir is removed first;
// otherwise extraction overwrites into it.
func (m *Manager) ExtractTemplate(ctx context.Context, archiveName, destinationDir string, replaceExisting bool) (string, error) {
	src, err := m.TemplatePath(archiveName)
	if err != nil {
		return "", err
	}

	if replaceExisting {
		if err := os.RemoveAll(destinationDir); err != nil {
			return "", copyFailed(destinationDir, err)
		}
	}
	if err := os.MkdirAll(destinationDir, 0o755); err != nil {
		return "", copyFailed(destinationDir, err)
	}

	transient := filepath.Join(destinationDir, filepath.Base(src))
	if err := copyFile(src, transient); err != nil {
		return "", err
	}
	logger.Debug("extracting %s into %s", transient, destinationDir)

	if err := m.Extractor.Extract(ctx, transient, destinationDir); err != nil {
		os.Remove(transient)
		return "", err
	}
	if err := os.Remove(transient); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to remove transient archive %s: %v", transient, err)
	}

	if err := waitVisible(ctx, destinationDir, m.VisibilityAttempts, m.VisibilityInterval); err != nil {
		return "", extractionFailed(destinationDir, err)
	}

	root, err := m.LocatePackageRoot(destinationDir)
	if err != nil {
		return "", err
	}
	logger.Info("active package root: %s", root)
	return root, nil
}

// DuplicateTemplate extracts the archive into <workspace>/<folderName>. When
// the folder exists and replace is false it is reused as-is.
func (m *Manager) DuplicateTemplate(ctx context.Context, archiveName, folderName string, replace bool) (string, error) {
	if folderName == "" {
		folderName = DefaultCopyFolder
	}
	name, err := SafeComponent(folderName)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(m.WorkspaceDir, 0o755); err != nil {
		return "", copyFailed(m.WorkspaceDir, err)
	}
	dest := filepath.Join(m.WorkspaceDir, name)

	if !replace {
		if _, err := os.Stat(dest); err == nil {
			return m.LocatePackageRoot(dest)
		}
	}
	return m.ExtractTemplate(ctx, archiveName, dest, replace)
}

// LocatePackageRoot finds the package root under dir and retains it.
func (m *Manager) LocatePackageRoot(dir string) (string, error) {
	root, err := LocatePackageRoot(dir)
	if err != nil {
		return "", err
	}
	m.SetCurrentRoot(root)
	return root, nil
}

// LocatePackageRoot returns the first non-hidden entry with the
// .playgroundbook extension in dir, or failing that in any immediate
// subdirectory of dir. Entries are visited in name order.
func LocatePackageRoot(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w in %s: %v", ErrPackageNotFound, dir, err)
	}
	for _, e := range entries {
		if !isHidden(e.Name()) && IsPackageRoot(e.Name()) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	for _, e := range entries {
		if isHidden(e.Name()) || !e.IsDir() {
			continue
		}
		sub := filepath.Join(dir, e.Name())
		subEntries, err := os.ReadDir(sub)
		if err != nil {
			continue
		}
		for _, se := range subEntries {
			if !isHidden(se.Name()) && IsPackageRoot(se.Name()) {
				return filepath.Join(sub, se.Name()), nil
			}
		}
	}
	return "", fmt.Errorf("%w in %s", ErrPackageNotFound, dir)
}

// WritePageContents writes a page of the current package root.
func (m *Manager) WritePageContents(chapter, page, text string) error {
	root, err := m.requireRoot()
	if err != nil {
		return err
	}
	return WritePageContents(root, chapter, page, text)
}

// AddPage adds a page to the current package root.
func (m *Manager) AddPage(chapter, page, initialCode string) error {
	root, err := m.requireRoot()
	if err != nil {
		return err
	}
	return AddPage(root, chapter, page, initialCode)
}

// AddSharedSource adds a shared source file to the current package root.
func (m *Manager) AddSharedSource(fileName, code string) error {
	root, err := m.requireRoot()
	if err != nil {
		return err
	}
	return AddSharedSource(root, fileName, code)
}

// AddSharedResource adds a shared resource to the current package root.
func (m *Manager) AddSharedResource(resourceName string, data []byte) error {
	root, err := m.requireRoot()
	if err != nil {
		return err
	}
	return AddSharedResource(root, resourceName, data)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return copyFailed(src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return copyFailed(dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return copyFailed(dst, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return copyFailed(dst, err)
	}
	return nil
}
