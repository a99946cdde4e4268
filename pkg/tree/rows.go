package tree

import "github.com/playgroundstudio/pgstudio/pkg/models"

// RowKind distinguishes chapter rows from module rows.
type RowKind int

const (
	ChapterRow RowKind = iota
	ModuleRow
)

// Row is one visible line of the sidebar.
type Row struct {
	Kind         RowKind
	ID           models.ID
	Name         string
	ChapterIndex int
	ModuleIndex  int // -1 for chapter rows
	Expanded     bool
}

// Rows flattens the tree into the lines a sidebar shows: every chapter, and
// the modules of expanded chapters.
func Rows(p *models.Project, s *State) []Row {
	rows := make([]Row, 0, len(p.Chapters)+p.ModuleCount())
	for ci, ch := range p.Chapters {
		expanded := s.IsExpanded(ch.ID)
		rows = append(rows, Row{
			Kind:         ChapterRow,
			ID:           ch.ID,
			Name:         ch.Name,
			ChapterIndex: ci,
			ModuleIndex:  -1,
			Expanded:     expanded,
		})
		if !expanded {
			continue
		}
		for mi, m := range ch.Modules {
			rows = append(rows, Row{
				Kind:         ModuleRow,
				ID:           m.ID,
				Name:         m.Name,
				ChapterIndex: ci,
				ModuleIndex:  mi,
			})
		}
	}
	return rows
}

// IndexOf returns the position of the row carrying id, or -1.
func IndexOf(rows []Row, id models.ID) int {
	for i, r := range rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}
