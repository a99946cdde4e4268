package models

const (
	FolderIcon = "folder.fill"
	PageIcon   = "doc.text"
)

// SidebarItem is the presentation-facing navigation node. A non-nil Children
// slice (even an empty one) marks a folder; nil marks a leaf.
type SidebarItem struct {
	ID       ID            `yaml:"id" json:"id"`
	Name     string        `yaml:"name" json:"name"`
	IconName string        `yaml:"icon_name" json:"iconName"`
	Children []SidebarItem `yaml:"children,omitempty" json:"children"`
	Content  *FileContent  `yaml:"content,omitempty" json:"content,omitempty"`
}

// IsFolder reports whether the item can hold children.
func (s SidebarItem) IsFolder() bool {
	return s.Children != nil
}

// Find returns the item with the given id anywhere below s (including s).
func (s *SidebarItem) Find(id ID) *SidebarItem {
	if s.ID == id {
		return s
	}
	for i := range s.Children {
		if found := s.Children[i].Find(id); found != nil {
			return found
		}
	}
	return nil
}

// SidebarFromProject maps chapters to folders and modules to leaves, reusing
// the tree's IDs.
func SidebarFromProject(p *Project) []SidebarItem {
	items := make([]SidebarItem, 0, len(p.Chapters))
	for _, ch := range p.Chapters {
		icon := ch.IconName
		if icon == "" {
			icon = FolderIcon
		}
		folder := SidebarItem{
			ID:       ch.ID,
			Name:     ch.Name,
			IconName: icon,
			Children: make([]SidebarItem, 0, len(ch.Modules)),
		}
		for _, m := range ch.Modules {
			folder.Children = append(folder.Children, SidebarItem{
				ID:       m.ID,
				Name:     m.Name,
				IconName: PageIcon,
				Content:  m.Content,
			})
		}
		items = append(items, folder)
	}
	return items
}
