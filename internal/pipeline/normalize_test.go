package pipeline

import "testing"

// ---------------------------------------------------------------------------
// TestNormalizeMarkdown - Line ending and BOM cleanup
// ---------------------------------------------------------------------------

func TestNormalizeMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"unix untouched", "a\nb\n", "a\nb\n"},
		{"windows", "a\r\nb\r\n", "a\nb\n"},
		{"old mac", "a\rb", "a\nb"},
		{"mixed", "a\r\nb\rc\n", "a\nb\nc\n"},
		{"byte order mark", "\ufeff# Title", "# Title"},
		{"inner bom kept", "a\ufeffb", "a\ufeffb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeMarkdown(tt.input); got != tt.want {
				t.Errorf("NormalizeMarkdown(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
