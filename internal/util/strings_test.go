package util

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		s    string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 6, "hello…"},
		{"hello", 1, "…"},
		{"hello", 0, ""},
		{"hello", -1, ""},
		{"", 5, ""},
		{"héllo world", 6, "héllo…"},
	}

	for _, tt := range tests {
		if got := Truncate(tt.s, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
		}
	}
}

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		name string
		s    string
		max  int
		want string
	}{
		{"short string unchanged", "hello", 10, "hello"},
		{"exact width unchanged", "hello", 5, "hello"},
		{"plain text truncated", "hello world", 6, "hello…"},
		{"zero width", "hello", 0, ""},
		{"negative width", "hello", -1, ""},
		{"empty string", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateWidth(tt.s, tt.max); got != tt.want {
				t.Errorf("TruncateWidth(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
			}
		})
	}
}

func TestTruncateWidth_WideCharacters(t *testing.T) {
	// Each CJK rune occupies two columns; rune-based truncation would
	// overflow the pane here.
	got := TruncateWidth("日本語のテキスト", 7)
	if w := lipgloss.Width(got); w > 7 {
		t.Errorf("width = %d, want <= 7 (got %q)", w, got)
	}
	if !strings.HasSuffix(got, Ellipsis) {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
}

func TestTruncateWidth_PreservesStyling(t *testing.T) {
	styled := "\x1b[31mhello world\x1b[0m"

	got := TruncateWidth(styled, 8)
	if w := lipgloss.Width(got); w > 8 {
		t.Errorf("width = %d, want <= 8 (got %q)", w, got)
	}
	if !strings.Contains(got, "\x1b[31m") {
		t.Errorf("expected escape sequence preserved, got %q", got)
	}
	if !strings.Contains(got, Ellipsis) {
		t.Errorf("expected ellipsis in %q", got)
	}
}
