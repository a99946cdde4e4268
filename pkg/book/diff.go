package book

import (
	"os"
	"path/filepath"
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"

	"github.com/playgroundstudio/pgstudio/pkg/composer"
	"github.com/playgroundstudio/pgstudio/pkg/models"
)

// PageStatus describes how a page on disk relates to the project.
type PageStatus string

const (
	PageAdded     PageStatus = "added"
	PageModified  PageStatus = "modified"
	PageUnchanged PageStatus = "unchanged"
)

// PageDiff is the pending change for one page.
type PageDiff struct {
	Chapter string     `json:"chapter" yaml:"chapter"`
	Page    string     `json:"page" yaml:"page"`
	Status  PageStatus `json:"status" yaml:"status"`
	// Patch is a unified diff from the file on disk to the exported text.
	Patch string `json:"patch,omitempty" yaml:"patch,omitempty"`
}

// Diff compares what Export would write for each page of p against the
// Contents.swift files currently under root. Unchanged pages are included
// so callers can report totals.
func Diff(root string, p *models.Project) ([]PageDiff, error) {
	var out []PageDiff
	for _, ch := range p.Chapters {
		for _, m := range ch.Modules {
			page := PageName(m.Name)
			dir, err := PageDir(root, ch.Name, page)
			if err != nil {
				return nil, err
			}
			path := filepath.Join(dir, PageSourceFile)
			want := composer.ComposePage(m)
			rel := filepath.ToSlash(filepath.Join(ch.Name+ChapterExt, page+PageExt, PageSourceFile))

			have, err := os.ReadFile(path)
			switch {
			case os.IsNotExist(err):
				out = append(out, PageDiff{
					Chapter: ch.Name, Page: page, Status: PageAdded,
					Patch: unified("/dev/null", rel, "", want),
				})
			case err != nil:
				return nil, err
			case string(have) == want:
				out = append(out, PageDiff{Chapter: ch.Name, Page: page, Status: PageUnchanged})
			default:
				out = append(out, PageDiff{
					Chapter: ch.Name, Page: page, Status: PageModified,
					Patch: unified("a/"+rel, "b/"+rel, string(have), want),
				})
			}
		}
	}
	return out, nil
}

func unified(from, to, a, b string) string {
	patch, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(a),
		B:        splitLines(b),
		FromFile: from,
		ToFile:   to,
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return patch
}

// splitLines keeps line endings and terminates a trailing partial line so
// hunks render one line per row.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if last := lines[len(lines)-1]; last == "" {
		lines = lines[:len(lines)-1]
	} else {
		lines[len(lines)-1] = last + "\n"
	}
	return lines
}
