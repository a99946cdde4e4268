package models

import "strings"

// PromptInput collects the structured fields a generation prompt is built from.
type PromptInput struct {
	GeneralPrompt         string `yaml:"general_prompt" json:"generalPrompt"`
	LearningObjective     string `yaml:"learning_objective" json:"learningObjective"`
	TargetSchoolLevel     string `yaml:"target_school_level" json:"targetSchoolLevel"`
	AvailableAssets       string `yaml:"available_assets" json:"availableAssets"`
	TeacherOrParentIntent string `yaml:"teacher_or_parent_intent" json:"teacherOrParentIntent"`
}

// FinalPrompt composes the text sent to the generator. Empty fields are
// skipped so a bare general prompt is passed through unchanged.
func (p PromptInput) FinalPrompt() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(p.GeneralPrompt))

	line := func(label, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(label)
		b.WriteString(value)
	}
	line("With Specific Learning Objective: ", p.LearningObjective)
	line("Target School level of: ", p.TargetSchoolLevel)
	line("Available assets: ", p.AvailableAssets)
	line("This playground book intended for: ", p.TeacherOrParentIntent)

	return b.String()
}

// IsEmpty reports whether no field carries text.
func (p PromptInput) IsEmpty() bool {
	return strings.TrimSpace(p.FinalPrompt()) == ""
}
