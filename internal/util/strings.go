// Package util provides small string helpers shared by the TUI and CLI output.
package util

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Ellipsis marks truncated text in sidebar entries, pane titles, and
// snapshot previews.
const Ellipsis = "…"

// Truncate shortens s to at most max runes, marking the cut with an ellipsis.
// It counts runes, not columns, so it is only suitable for plain text. Styled
// or user-generated terminal output should go through TruncateWidth.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max == 1 {
		return Ellipsis
	}
	return string(r[:max-1]) + Ellipsis
}

// TruncateWidth shortens s to at most max visual columns. It preserves ANSI
// escape sequences and accounts for wide characters, so truncated lines keep
// their styling and never overflow a fixed-width pane.
func TruncateWidth(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= max {
		return s
	}
	// ansi.Truncate counts the tail against the final width.
	return ansi.Truncate(s, max, Ellipsis)
}
