package slug

import "testing"

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Dev", "dev"},
		{"spaces to hyphens", "My Dev Links", "my-dev-links"},
		{"trims whitespace", "  Shopping  ", "shopping"},
		{"lowercases", "NEWS", "news"},
		{"collapses inner runs", "a   b", "a-b"},
		{"keeps non-ascii", "정보", "정보"},
		{"mixed non-ascii", "개발 Tips", "개발-tips"},
		{"already hyphenated", "read-later", "read-later"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
