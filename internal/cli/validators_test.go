package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"text", false},
		{"json", false},
		{"yaml", false},
		{"xml", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNames(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		check   func(string) error
		wantErr bool
	}{
		{"chapter ok", "Getting Started", ValidateChapterName, false},
		{"chapter empty", "  ", ValidateChapterName, true},
		{"chapter separator", "a/b", ValidateChapterName, true},
		{"chapter dots", "..", ValidateChapterName, true},
		{"module ok", "Hello.swift", ValidateModuleName, false},
		{"module only extension", ".swift", ValidateModuleName, true},
		{"module separator", `a\b.swift`, ValidateModuleName, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePackagePath(t *testing.T) {
	if err := ValidatePackagePath("out/Fractions.playgroundbook"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidatePackagePath("out/Fractions.PlaygroundBook"); err != nil {
		t.Errorf("extension match should ignore case: %v", err)
	}
	if err := ValidatePackagePath("out/Fractions"); err == nil {
		t.Error("expected error for missing extension")
	}
	if err := ValidatePackagePath(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestValidateFilePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "project.yaml")
	if err := os.WriteFile(file, []byte("name: x\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := ValidateFilePath(file); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateFilePath(dir); err == nil {
		t.Error("expected error for directory")
	}
	if err := ValidateFilePath(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
