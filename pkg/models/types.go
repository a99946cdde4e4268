package models

import "github.com/google/uuid"

// ID identifies a node in the project tree. It is assigned once at creation.
type ID = uuid.UUID

// NilID is the zero ID, used to mean "no node".
var NilID = uuid.Nil

// NewID returns a fresh random identifier.
func NewID() ID {
	return uuid.New()
}

const DefaultChapterIcon = "document.on.document"

// FileStep is a single tutorial step shown next to a module's source.
type FileStep struct {
	ID    ID     `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	Body  string `yaml:"body" json:"body"`
}

// FileContent is the embedded source payload of a module.
type FileContent struct {
	Title  string     `yaml:"title" json:"title"`
	Source string     `yaml:"source" json:"source"`
	Steps  []FileStep `yaml:"steps,omitempty" json:"steps,omitempty"`
}

type Module struct {
	ID          ID           `yaml:"id" json:"id"`
	Name        string       `yaml:"name" json:"name"`
	Description string       `yaml:"description" json:"description"`
	Content     *FileContent `yaml:"content,omitempty" json:"content,omitempty"`
}

type Chapter struct {
	ID          ID       `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Modules     []Module `yaml:"modules" json:"modules"`
	IconName    string   `yaml:"icon_name,omitempty" json:"iconName,omitempty"`
}

// Project is the root of the tree. It exclusively owns its chapters, and each
// chapter exclusively owns its modules.
type Project struct {
	ID          ID        `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description" json:"description"`
	Chapters    []Chapter `yaml:"chapters" json:"chapters"`
}

// NewProject creates an empty project with a fresh ID.
func NewProject(name string) *Project {
	return &Project{
		ID:       NewID(),
		Name:     name,
		Chapters: []Chapter{},
	}
}

// NewChapter creates an empty chapter with a fresh ID and the default icon.
func NewChapter(name string) Chapter {
	return Chapter{
		ID:       NewID(),
		Name:     name,
		Modules:  []Module{},
		IconName: DefaultChapterIcon,
	}
}

// NewModule creates a module with a fresh ID and no content.
func NewModule(name, description string) Module {
	return Module{
		ID:          NewID(),
		Name:        name,
		Description: description,
	}
}

// ModuleCount returns the total number of modules across all chapters.
func (p *Project) ModuleCount() int {
	n := 0
	for _, ch := range p.Chapters {
		n += len(ch.Modules)
	}
	return n
}

// EnsureIDs assigns fresh IDs to any node that arrived without one, which is
// the case for partially generated snapshots.
func (p *Project) EnsureIDs() {
	if p.ID == NilID {
		p.ID = NewID()
	}
	for ci := range p.Chapters {
		ch := &p.Chapters[ci]
		if ch.ID == NilID {
			ch.ID = NewID()
		}
		if ch.IconName == "" {
			ch.IconName = DefaultChapterIcon
		}
		if ch.Modules == nil {
			ch.Modules = []Module{}
		}
		for mi := range ch.Modules {
			m := &ch.Modules[mi]
			if m.ID == NilID {
				m.ID = NewID()
			}
			if m.Content != nil {
				for si := range m.Content.Steps {
					if m.Content.Steps[si].ID == NilID {
						m.Content.Steps[si].ID = NewID()
					}
				}
			}
		}
	}
	if p.Chapters == nil {
		p.Chapters = []Chapter{}
	}
}

// Clone returns a deep copy of the project. Snapshots handed to export or
// received from the generator never alias the live tree.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	out := *p
	out.Chapters = make([]Chapter, len(p.Chapters))
	for i, ch := range p.Chapters {
		out.Chapters[i] = ch.Clone()
	}
	return &out
}

// Clone returns a deep copy of the chapter.
func (c Chapter) Clone() Chapter {
	out := c
	out.Modules = make([]Module, len(c.Modules))
	for i, m := range c.Modules {
		out.Modules[i] = m.Clone()
	}
	return out
}

// Clone returns a deep copy of the module.
func (m Module) Clone() Module {
	out := m
	if m.Content != nil {
		content := *m.Content
		content.Steps = append([]FileStep(nil), m.Content.Steps...)
		out.Content = &content
	}
	return out
}

// Source returns the module's source text, or "" when it has no content.
func (m Module) Source() string {
	if m.Content == nil {
		return ""
	}
	return m.Content.Source
}
