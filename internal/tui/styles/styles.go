package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	PrimaryColor = lipgloss.Color("#A78BFA") // Purple
	AccentColor  = lipgloss.Color("#10B981") // Green
	WarningColor = lipgloss.Color("#F59E0B") // Amber
	ErrorColor   = lipgloss.Color("#F87171") // Red
	MutedColor   = lipgloss.Color("#9CA3AF") // Gray
	TextColor    = lipgloss.Color("#F9FAFB") // Light text
	BorderColor  = lipgloss.Color("#6B7280") // Gray

	// Status colors for pool entries
	StatusAttached = lipgloss.Color("#10B981") // Green
	StatusDetached = lipgloss.Color("#9CA3AF") // Gray
	StatusDisposed = lipgloss.Color("#F87171") // Red

	// Convenience styles
	Primary = lipgloss.NewStyle().Foreground(PrimaryColor)
	Accent  = lipgloss.NewStyle().Foreground(AccentColor)
	Muted   = lipgloss.NewStyle().Foreground(MutedColor)
	Text    = lipgloss.NewStyle().Foreground(TextColor)

	// Header bar across the top of the screen
	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextColor).
		Background(PrimaryColor).
		Padding(0, 1)

	// Sidebar
	SidebarTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	ItemActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor).
			Background(lipgloss.Color("#1F2937")).
			Padding(0, 1)

	ItemInactive = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(0, 1)

	// Terminal content pane
	ContentBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	ContentBoxFocused = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(AccentColor).
				Padding(0, 1)

	ContentTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor)

	// Owner-name prompt
	PromptBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(1, 2)

	// Messages and help bar
	ErrorMsg = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	InfoMsg = lipgloss.NewStyle().
		Foreground(AccentColor)

	HelpKey = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(MutedColor)
)
