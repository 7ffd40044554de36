package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/termdock/termdock/internal/tui/styles"
	"github.com/termdock/termdock/internal/util"
)

// View renders the full screen.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.quitting {
		return "Goodbye!\n"
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	sidebarWidth := m.sidebarWidth()
	contentWidth := m.width - sidebarWidth - 3
	mainHeight := m.height - MainAreaHeightOffset

	sidebar := lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(mainHeight).
		MaxHeight(mainHeight).
		Render(m.renderSidebar(sidebarWidth))

	content := lipgloss.NewStyle().
		Width(contentWidth).
		Height(mainHeight).
		MaxHeight(mainHeight).
		Render(m.renderContent(contentWidth, mainHeight))

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", content))
	b.WriteString("\n")

	if m.errorMessage != "" {
		b.WriteString(styles.ErrorMsg.Render("Error: " + m.errorMessage))
	} else if m.infoMessage != "" {
		b.WriteString(styles.InfoMsg.Render(m.infoMessage))
	}
	b.WriteString("\n")

	b.WriteString(m.renderHelp())

	return b.String()
}

// renderHeader renders the title bar with pool occupancy.
func (m Model) renderHeader() string {
	title := fmt.Sprintf("Termdock  %d/%d terminals", m.pool.Size(), m.pool.MaxSize())
	return styles.Header.Width(m.width).Render(title)
}

// renderSidebar lists the pooled terminals.
func (m Model) renderSidebar(width int) string {
	var b strings.Builder

	b.WriteString(styles.SidebarTitle.Render("Terminals"))
	b.WriteString("\n")

	if len(m.owners) == 0 {
		b.WriteString(styles.Muted.Render("No terminals"))
		b.WriteString("\n")
		b.WriteString(styles.Muted.Render("Press [n] to create one"))
		return b.String()
	}

	for i, owner := range m.owners {
		name := util.TruncateWidth(owner, width-4)
		if i == m.active {
			b.WriteString(styles.ItemActive.Render("> " + name))
		} else {
			b.WriteString(styles.ItemInactive.Render("  " + name))
		}
		b.WriteString("\n")

		meta, err := m.pool.Metadata(owner)
		if err != nil {
			continue
		}
		status := "detached"
		color := styles.StatusDetached
		if meta.Attached {
			status = "attached"
			color = styles.StatusAttached
		}
		if m.shells.get(owner) == nil {
			status = "exited"
			color = styles.StatusDisposed
		}
		detail := fmt.Sprintf("    %s %s %dx%d", status, meta.Renderer, meta.Cols, meta.Rows)
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render(util.TruncateWidth(detail, width-1)))
		b.WriteString("\n")
	}

	return b.String()
}

// renderContent renders the active terminal's buffer, or the prompt
// when one is open.
func (m Model) renderContent(width, height int) string {
	if m.prompting {
		prompt := "New terminal\n\n" + m.nameInput.View() + "\n\n" +
			styles.Muted.Render("enter to create, esc to cancel")
		return styles.PromptBox.Width(width - 4).Render(prompt)
	}

	if m.searching {
		prompt := "Search buffer\n\n" + m.searchInput.View() + "\n\n" +
			styles.Muted.Render("enter to search, esc to cancel")
		return styles.PromptBox.Width(width - 4).Render(prompt)
	}

	inst := m.activeInstance()
	if inst == nil {
		welcome := styles.Muted.Render("Press [n] to create a terminal.")
		return styles.ContentBox.Width(width - 2).Height(height - 2).Render(welcome)
	}

	owner := m.activeOwner()
	title := owner
	if t := m.titles[owner]; t != "" {
		title = fmt.Sprintf("%s: %s", owner, t)
	}
	if m.inputMode {
		title += "  [input]"
	}

	if attached, err := m.pool.IsAttached(owner); err == nil && !attached {
		note := styles.Muted.Render("detached; the buffer keeps accumulating offscreen\npress [a] to reattach")
		body := styles.ContentBox.Width(width - 2).Height(height - 2).Render(note)
		return styles.ContentTitle.Render(util.TruncateWidth(title+"  [detached]", width-1)) + "\n" + body
	}

	innerRows := height - 3
	innerCols := width - 4

	buf := inst.Engine().Buffer()
	total := buf.Length()
	start := total - innerRows
	if start < 0 {
		start = 0
	}
	var lines []string
	for i := start; i < total; i++ {
		lines = append(lines, util.TruncateWidth(buf.Line(i), innerCols))
	}

	box := styles.ContentBox
	if m.inputMode {
		box = styles.ContentBoxFocused
	}
	body := box.Width(width - 2).Height(height - 2).Render(strings.Join(lines, "\n"))

	return styles.ContentTitle.Render(util.TruncateWidth(title, width-1)) + "\n" + body
}

// renderHelp renders the key hint bar for the current mode.
func (m Model) renderHelp() string {
	var hints []string
	switch {
	case m.prompting:
		hints = []string{"enter create", "esc cancel"}
	case m.searching:
		hints = []string{"enter search", "esc cancel"}
	case m.inputMode:
		hints = []string{"ctrl+] leave input mode"}
	default:
		hints = []string{
			"n new", "i input", "j/k switch", "d detach", "a reattach",
			"/ search", "s save", "r restore", "c clear", "x close", "q quit",
		}
	}

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		key, desc, found := strings.Cut(h, " ")
		if !found {
			parts = append(parts, styles.HelpDesc.Render(h))
			continue
		}
		parts = append(parts, styles.HelpKey.Render(key)+" "+styles.HelpDesc.Render(desc))
	}
	return strings.Join(parts, styles.HelpDesc.Render("  "))
}
