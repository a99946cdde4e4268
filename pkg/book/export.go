package book

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/playgroundstudio/pgstudio/internal/logger"
	"github.com/playgroundstudio/pgstudio/pkg/composer"
	"github.com/playgroundstudio/pgstudio/pkg/models"
)

const DefaultParallelism = 4

// ExportOptions tunes Export.
type ExportOptions struct {
	// Parallelism bounds how many chapters are written at once.
	Parallelism int
	// Prune removes chapter and page directories that are no longer in
	// the project.
	Prune bool
}

// NewPackage creates an empty package root named <name>.playgroundbook in
// dir and returns its path.
func NewPackage(dir, name string) (string, error) {
	base, err := SafeComponent(name)
	if err != nil {
		return "", err
	}
	root := filepath.Join(dir, base+BookExt)
	for _, d := range []string{
		filepath.Join(contentsDir(root), ChaptersDir),
		SharedSourcesDir(root),
		SharedResourcesDir(root),
	} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return "", writeFailed(d, err)
		}
	}
	return root, nil
}

// chapterGroup holds every chapter that maps onto one directory, in tree
// order, so the last one wins deterministically. Directory names are
// compared case-insensitively: the first chapter's spelling names the
// directory.
type chapterGroup struct {
	dir      string
	chapters []models.Chapter
}

// Export mirrors p onto root: one .playgroundchapter per chapter and one
// .playgroundpage per module, plus book and chapter manifests recording
// the order. Chapters are written concurrently. p is not modified.
func Export(ctx context.Context, root string, p *models.Project, opts ExportOptions) error {
	if p == nil {
		return errors.New("nothing to export")
	}
	snapshot := p.Clone()

	groups, order, err := groupChapters(root, snapshot.Chapters)
	if err != nil {
		return writeFailed(root, err)
	}

	limit := opts.Parallelism
	if limit <= 0 {
		limit = DefaultParallelism
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, name := range order {
		group := groups[foldName(name)]
		g.Go(func() error {
			for _, ch := range group.chapters {
				if err := exportChapter(gctx, group.dir, ch, opts.Prune); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if opts.Prune {
		if err := pruneChildren(filepath.Join(contentsDir(root), ChaptersDir), ChapterExt, groups); err != nil {
			return err
		}
	}

	manifest := BookManifest{
		Name:           snapshot.Name,
		Version:        ManifestVersion,
		ContentVersion: ManifestVersion,
		Chapters:       order,
	}
	if manifest.Chapters == nil {
		manifest.Chapters = []string{}
	}
	logger.Debug("exported %d chapters, %d pages to %s", len(order), snapshot.ModuleCount(), root)
	return writeManifest(filepath.Join(contentsDir(root), ManifestFile), manifest)
}

func groupChapters(root string, chapters []models.Chapter) (map[string]*chapterGroup, []string, error) {
	groups := make(map[string]*chapterGroup, len(chapters))
	var order []string
	for _, ch := range chapters {
		dir, err := ChapterDir(root, ch.Name)
		if err != nil {
			return nil, nil, err
		}
		key := foldName(filepath.Base(dir))
		if g, ok := groups[key]; ok {
			g.chapters = append(g.chapters, ch)
			continue
		}
		groups[key] = &chapterGroup{dir: dir, chapters: []models.Chapter{ch}}
		order = append(order, filepath.Base(dir))
	}
	return groups, order, nil
}

// foldName is the key under which directory names collide on a
// case-insensitive filesystem.
func foldName(name string) string {
	return strings.ToLower(name)
}

func exportChapter(ctx context.Context, dir string, ch models.Chapter, prune bool) error {
	pagesDir := filepath.Join(dir, PagesDir)
	var pages []string
	dirs := make(map[string]string, len(ch.Modules))

	for _, m := range ch.Modules {
		if err := ctx.Err(); err != nil {
			return err
		}
		name, err := SafeComponent(PageName(m.Name))
		if err != nil {
			return writeFailed(dir, err)
		}
		key := foldName(name + PageExt)
		pageDir, ok := dirs[key]
		if !ok {
			pageDir = name + PageExt
			dirs[key] = pageDir
			pages = append(pages, pageDir)
		}
		target := filepath.Join(pagesDir, pageDir)
		manifest := NewPageManifest(strings.TrimSpace(PageName(m.Name)))
		if err := writeManifest(filepath.Join(target, ManifestFile), manifest); err != nil {
			return err
		}
		if err := writeFileAtomic(filepath.Join(target, PageSourceFile), []byte(composer.ComposePage(m))); err != nil {
			return err
		}
	}

	if prune {
		keep := make(map[string]bool, len(dirs))
		for key := range dirs {
			keep[key] = true
		}
		if err := pruneDirs(pagesDir, PageExt, keep); err != nil {
			return err
		}
	}

	manifest := ChapterManifest{
		Name:           strings.TrimSpace(ch.Name),
		Version:        ManifestVersion,
		ContentVersion: ManifestVersion,
		Pages:          pages,
	}
	if manifest.Pages == nil {
		manifest.Pages = []string{}
	}
	return writeManifest(filepath.Join(dir, ManifestFile), manifest)
}

func pruneChildren(dir, ext string, keep map[string]*chapterGroup) error {
	names := make(map[string]bool, len(keep))
	for name := range keep {
		names[name] = true
	}
	return pruneDirs(dir, ext, names)
}

// pruneDirs removes the subdirectories of dir carrying ext whose folded
// names are not in keep.
func pruneDirs(dir, ext string, keep map[string]bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return writeFailed(dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() || filepath.Ext(e.Name()) != ext || keep[foldName(e.Name())] {
			continue
		}
		stale := filepath.Join(dir, e.Name())
		logger.Debug("pruning %s", stale)
		if err := os.RemoveAll(stale); err != nil {
			return writeFailed(stale, fmt.Errorf("prune: %w", err))
		}
	}
	return nil
}
