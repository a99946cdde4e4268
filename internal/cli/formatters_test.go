package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestOutputResults(t *testing.T) {
	data := map[string]int{"chapters": 2}

	tests := []struct {
		format  string
		want    string
		wantErr bool
	}{
		{"json", "{\n  \"chapters\": 2\n}\n", false},
		{"yaml", "chapters: 2\n", false},
		{"text", "map[chapters:2]\n", false},
		{"toml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			err := OutputResults(&buf, tt.format, data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("OutputResults() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("OutputResults() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	table := NewTableFormatter(&buf)
	table.Header("#", "CHAPTER", "MODULES")
	table.Row("1", "Intro", "2")
	table.Flush()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "#  CHAPTER") {
		t.Errorf("unexpected header %q", lines[0])
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.bytes); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Hello", 10, "Hello"},
		{"Hello, playground", 8, "Hello..."},
		{"Hello", 2, "He"},
		{"Größenvergleich", 6, "Grö..."},
	}

	for _, tt := range tests {
		if got := TruncateString(tt.in, tt.max); got != tt.want {
			t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestWrapIndented(t *testing.T) {
	got := WrapIndented("compare unit fractions with pizza", 12, 2)
	for _, line := range strings.Split(got, "\n") {
		if !strings.HasPrefix(line, "  ") {
			t.Errorf("line %q is not indented", line)
		}
		if len(line) > 14 {
			t.Errorf("line %q exceeds wrap width", line)
		}
	}
}
