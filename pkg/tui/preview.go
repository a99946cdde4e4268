package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/playgroundstudio/pgstudio/pkg/book"
	"github.com/playgroundstudio/pgstudio/pkg/composer"
	"github.com/playgroundstudio/pgstudio/pkg/tree"
)

// refreshPreview renders the selected node into the preview pane.
func (a *App) refreshPreview() {
	a.preview.SetContent(a.previewContent())
	a.preview.GotoTop()
}

func (a *App) previewContent() string {
	row, ok := a.selectedRow()
	if !ok {
		return EmptyStyle.Render("Nothing selected")
	}

	width := a.settings.UI.WrapWidth
	if a.preview.Width > 0 && (width <= 0 || a.preview.Width < width) {
		width = a.preview.Width
	}

	var b strings.Builder
	if row.Kind == tree.ChapterRow {
		ch, ok := a.editor.FindChapter(row.ID)
		if !ok {
			return ""
		}
		b.WriteString(ChapterStyle.Render(ch.Name) + "\n")
		b.WriteString(DescriptionStyle.Render(packagePath(ch.Name, book.ChapterExt)) + "\n\n")
		if d := strings.TrimSpace(ch.Description); d != "" {
			b.WriteString(wordwrap.String(d, width) + "\n\n")
		}
		if len(ch.Modules) == 0 {
			b.WriteString(EmptyStyle.Render("No modules. Press a to add one."))
		}
		for i, m := range ch.Modules {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, m.Name))
		}
		return b.String()
	}

	m, ok := a.editor.Module(row.ID)
	if !ok {
		return ""
	}
	b.WriteString(HeaderStyle.Render(m.Name) + "\n")
	b.WriteString(DescriptionStyle.Render(packagePath(book.PageName(m.Name), book.PageExt)) + "\n\n")
	if d := strings.TrimSpace(m.Description); d != "" {
		b.WriteString(wordwrap.String(d, width) + "\n\n")
	}
	page := composer.ComposePage(*m)
	if page == "" {
		b.WriteString(EmptyStyle.Render("Empty page"))
		return b.String()
	}
	b.WriteString(page)
	return b.String()
}

// packagePath shows the directory a node is exported to.
func packagePath(name, ext string) string {
	dir, err := book.SafeComponent(name)
	if err != nil {
		return "(name cannot be exported)"
	}
	return dir + ext
}
