package tui

// Sidebar dimensions
const (
	// SidebarMinWidth is the minimum sidebar width, also used on narrow terminals.
	SidebarMinWidth = 20

	// NarrowTerminalThreshold is the terminal width below which the sidebar
	// falls back to SidebarMinWidth regardless of configuration.
	NarrowTerminalThreshold = 80
)

// Layout offsets for the space taken by fixed UI elements
const (
	// ContentWidthOffset accounts for the sidebar gap and the content box
	// border and padding.
	ContentWidthOffset = 7

	// ContentHeightOffset accounts for the header, content title, box border,
	// message line, and help bar.
	ContentHeightOffset = 7

	// MainAreaHeightOffset accounts for the header, message line, and help bar.
	MainAreaHeightOffset = 4
)

// EffectiveSidebarWidth returns the sidebar width to use for a terminal of
// the given width. Narrow terminals always get the minimum width.
func EffectiveSidebarWidth(configured, termWidth int) int {
	if configured < SidebarMinWidth {
		configured = SidebarMinWidth
	}
	if termWidth > 0 && termWidth < NarrowTerminalThreshold {
		return SidebarMinWidth
	}
	return configured
}

// CalculateContentDimensions returns the dimensions of the terminal content
// area given the full terminal size. This is what pool terminals are resized
// to so their engines match the space they are rendered in.
func CalculateContentDimensions(termWidth, termHeight, sidebarWidth int) (cols, rows int) {
	cols = termWidth - EffectiveSidebarWidth(sidebarWidth, termWidth) - ContentWidthOffset
	rows = termHeight - ContentHeightOffset
	return cols, rows
}
