package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestProjectClone(t *testing.T) {
	p := SampleProject()
	clone := p.Clone()

	require.Equal(t, p, clone)

	clone.Chapters[0].Name = "Changed"
	clone.Chapters[0].Modules[0].Content.Source = "changed"
	clone.Chapters[0].Modules[0].Content.Steps[0].Title = "changed"

	assert.Equal(t, "Pages", p.Chapters[0].Name)
	assert.NotEqual(t, "changed", p.Chapters[0].Modules[0].Content.Source)
	assert.Equal(t, "Predict", p.Chapters[0].Modules[0].Content.Steps[0].Title)
}

func TestProjectCloneNil(t *testing.T) {
	var p *Project
	assert.Nil(t, p.Clone())
}

func TestEnsureIDs(t *testing.T) {
	p := &Project{
		Name: "Partial",
		Chapters: []Chapter{
			{Name: "One", Modules: []Module{{Name: "A"}, {Name: "B", Content: &FileContent{Steps: []FileStep{{Title: "s"}}}}}},
			{Name: "Two"},
		},
	}

	p.EnsureIDs()

	assert.NotEqual(t, NilID, p.ID)
	seen := map[ID]bool{}
	for _, ch := range p.Chapters {
		assert.NotEqual(t, NilID, ch.ID)
		assert.Equal(t, DefaultChapterIcon, ch.IconName)
		assert.NotNil(t, ch.Modules)
		assert.False(t, seen[ch.ID])
		seen[ch.ID] = true
		for _, m := range ch.Modules {
			assert.NotEqual(t, NilID, m.ID)
			assert.False(t, seen[m.ID])
			seen[m.ID] = true
		}
	}
	assert.NotEqual(t, NilID, p.Chapters[0].Modules[1].Content.Steps[0].ID)
}

func TestProjectYAMLKeepsIDs(t *testing.T) {
	p := SampleProject()

	data, err := yaml.Marshal(p)
	require.NoError(t, err)

	var decoded Project
	require.NoError(t, yaml.Unmarshal(data, &decoded))

	assert.Equal(t, p.ID, decoded.ID)
	assert.Equal(t, p.Chapters[0].Modules[2].ID, decoded.Chapters[0].Modules[2].ID)
	assert.Equal(t, p.Chapters[0].Modules[0].Content.Source, decoded.Chapters[0].Modules[0].Content.Source)
}

func TestWalkthroughItemValidate(t *testing.T) {
	tests := []struct {
		name    string
		item    WalkthroughItem
		wantErr bool
	}{
		{"description", NewDescriptionItem("Intro", DescriptionCard{Body: "b"}), false},
		{"action group", NewActionGroupItem("Challenges", ActionCard{Title: "a"}), false},
		{"description without payload", WalkthroughItem{Kind: KindDescription, Title: "x"}, true},
		{"both payloads", WalkthroughItem{Kind: KindActionGroup, Title: "x", Actions: &ActionGroup{}, Description: &DescriptionCard{}}, true},
		{"unknown kind", WalkthroughItem{Kind: "video", Title: "x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSampleWalkthroughIsValid(t *testing.T) {
	w := SampleWalkthrough()
	require.NoError(t, w.Validate())
	assert.Equal(t, KindDescription, w.Items[0].Kind)
	assert.Len(t, w.Items[1].Actions.Cards, 3)
}

func TestWalkthroughJSONTag(t *testing.T) {
	data, err := json.Marshal(NewActionGroupItem("Group", ActionCard{Title: "One"}))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"action_group"`)
	assert.NotContains(t, string(data), `"description"`)
}

func TestSidebarFromProject(t *testing.T) {
	p := NewProject("Book")
	empty := NewChapter("Empty")
	full := NewChapter("Full")
	full.Modules = append(full.Modules, NewModule("Page.swift", ""))
	p.Chapters = append(p.Chapters, empty, full)

	items := SidebarFromProject(p)

	require.Len(t, items, 2)
	assert.True(t, items[0].IsFolder(), "an empty chapter is still a folder")
	assert.Empty(t, items[0].Children)
	require.Len(t, items[1].Children, 1)
	assert.False(t, items[1].Children[0].IsFolder())
	assert.Equal(t, PageIcon, items[1].Children[0].IconName)

	found := items[1].Find(full.Modules[0].ID)
	require.NotNil(t, found)
	assert.Equal(t, "Page.swift", found.Name)
	assert.Nil(t, items[0].Find(full.Modules[0].ID))
}

func TestPromptInputFinalPrompt(t *testing.T) {
	tests := []struct {
		name  string
		input PromptInput
		want  string
	}{
		{
			name:  "general only",
			input: PromptInput{GeneralPrompt: "Teach fractions"},
			want:  "Teach fractions",
		},
		{
			name: "all fields",
			input: PromptInput{
				GeneralPrompt:         "Teach fractions",
				LearningObjective:     "compare halves",
				TargetSchoolLevel:     "grade 3",
				AvailableAssets:       "pizza sprites",
				TeacherOrParentIntent: "classroom",
			},
			want: "Teach fractions\n" +
				"With Specific Learning Objective: compare halves\n" +
				"Target School level of: grade 3\n" +
				"Available assets: pizza sprites\n" +
				"This playground book intended for: classroom",
		},
		{
			name:  "no general prompt",
			input: PromptInput{LearningObjective: "gravity"},
			want:  "With Specific Learning Objective: gravity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.input.FinalPrompt())
		})
	}

	assert.True(t, PromptInput{GeneralPrompt: "  "}.IsEmpty())
}
