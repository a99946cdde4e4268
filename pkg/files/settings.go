package files

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/playgroundstudio/pgstudio/pkg/models"
)

// EnvPrefix prefixes environment overrides, e.g. PGSTUDIO_TEMPLATE_TIMEOUT.
const EnvPrefix = "PGSTUDIO"

var validate = validator.New()

// LoadSettings layers, lowest first: built-in defaults, .pgstudio/settings.yaml,
// a .env file in the working directory, and PGSTUDIO_* environment variables.
func LoadSettings() (*models.Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(ProjectDir, SettingsFile))
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, models.DefaultSettings())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
	}

	var settings models.Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := ValidateSettings(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// ValidateSettings checks value ranges and enumerations.
func ValidateSettings(s *models.Settings) error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s (%s=%s)", fe.Namespace(), fe.Tag(), fe.Param()))
			}
			return fmt.Errorf("invalid settings: %s", strings.Join(msgs, ", "))
		}
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// WriteSettings persists settings to .pgstudio/settings.yaml.
func WriteSettings(s *models.Settings) error {
	if err := ValidateSettings(s); err != nil {
		return err
	}
	return writeYAML(filepath.Join(ProjectDir, SettingsFile), s)
}

// setDefaults registers every key so AutomaticEnv can override keys that
// are absent from the config file.
func setDefaults(v *viper.Viper, d *models.Settings) {
	v.SetDefault("workspace.dir", d.Workspace.Dir)
	v.SetDefault("template.resources_dir", d.Template.ResourcesDir)
	v.SetDefault("template.archive", d.Template.Archive)
	v.SetDefault("template.extractor", d.Template.Extractor)
	v.SetDefault("template.unzip_path", d.Template.UnzipPath)
	v.SetDefault("template.timeout", d.Template.Timeout)
	v.SetDefault("export.output_dir", d.Export.OutputDir)
	v.SetDefault("export.parallelism", d.Export.Parallelism)
	v.SetDefault("generator.command", d.Generator.Command)
	v.SetDefault("generator.args", d.Generator.Args)
	v.SetDefault("ui.show_preview", d.UI.ShowPreview)
	v.SetDefault("ui.wrap_width", d.UI.WrapWidth)
	v.SetDefault("editor.command", d.Editor.Command)
}
