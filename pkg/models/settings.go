package models

import "time"

// Settings represents the application configuration
type Settings struct {
	Workspace WorkspaceSettings `yaml:"workspace" mapstructure:"workspace"`
	Template  TemplateSettings  `yaml:"template" mapstructure:"template"`
	Export    ExportSettings    `yaml:"export" mapstructure:"export"`
	Generator GeneratorSettings `yaml:"generator" mapstructure:"generator"`
	UI        UISettings        `yaml:"ui" mapstructure:"ui"`
	Editor    EditorSettings    `yaml:"editor" mapstructure:"editor"`
}

// WorkspaceSettings controls where extracted packages are created
type WorkspaceSettings struct {
	Dir string `yaml:"dir" mapstructure:"dir"` // empty = per-user config dir
}

// TemplateSettings controls the bundled template archive and its extraction
type TemplateSettings struct {
	ResourcesDir string        `yaml:"resources_dir" mapstructure:"resources_dir"`
	Archive      string        `yaml:"archive" mapstructure:"archive" validate:"required"`
	Extractor    string        `yaml:"extractor" mapstructure:"extractor" validate:"oneof=command zip"`
	UnzipPath    string        `yaml:"unzip_path" mapstructure:"unzip_path"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
}

// ExportSettings controls package export
type ExportSettings struct {
	OutputDir   string `yaml:"output_dir" mapstructure:"output_dir"`
	Parallelism int    `yaml:"parallelism" mapstructure:"parallelism" validate:"gte=1,lte=64"`
}

// GeneratorSettings selects the content generator
type GeneratorSettings struct {
	Command string   `yaml:"command" mapstructure:"command"` // empty = offline scripted generator
	Args    []string `yaml:"args" mapstructure:"args"`
}

// UISettings controls UI preferences
type UISettings struct {
	ShowPreview bool `yaml:"show_preview" mapstructure:"show_preview"`
	WrapWidth   int  `yaml:"wrap_width" mapstructure:"wrap_width" validate:"gte=20"`
}

// EditorSettings controls editor preferences
type EditorSettings struct {
	Command string `yaml:"command" mapstructure:"command"`
}

// DefaultSettings returns the default configuration
func DefaultSettings() *Settings {
	return &Settings{
		Template: TemplateSettings{
			Archive:   "Template.zip",
			Extractor: "command",
			UnzipPath: "/usr/bin/unzip",
			Timeout:   60 * time.Second,
		},
		Export: ExportSettings{
			OutputDir:   "./",
			Parallelism: 4,
		},
		UI: UISettings{
			ShowPreview: true,
			WrapWidth:   72,
		},
	}
}
