package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	sections := []helpSection{
		{
			title: "Views",
			items: []helpItem{
				{"1-7", "Switch view"},
				{"tab", "Next view"},
				{"shift+tab", "Previous view"},
				{"r", "Reload current view"},
			},
		},
		{
			title: "Lists",
			items: []helpItem{
				{"j/k", "Move up/down"},
				{"g/G", "Go to top/bottom"},
				{"n/p", "Next/previous page"},
				{"f", "Cycle status/disposition filter"},
				{"c", "Cycle campaign filter"},
				{"D", "Cycle call period (calls)"},
				{"/", "Search"},
				{"enter", "Toggle detail"},
			},
		},
		{
			title: "Leads",
			items: []helpItem{
				{"a", "Add lead"},
				{"e", "Edit lead"},
				{"s", "Change status"},
				{"t", "Call now"},
				{"d", "Delete lead"},
			},
		},
		{
			title: "Dashboard",
			items: []helpItem{
				{"[ ]", "Previous/next time frame"},
				{"y", "Recap today/yesterday"},
				{"i", "Inactive campaigns (Campaigns)"},
			},
		},
		{
			title: "Upload",
			items: []helpItem{
				{"e", "Choose file"},
				{"c", "Cycle campaign"},
				{"x", "Toggle skip duplicates"},
				{"m", "Toggle suggested mapping"},
				{"u", "Upload"},
			},
		},
		{
			title: "Logs & Settings",
			items: []helpItem{
				{"Space", "Toggle follow mode"},
				{"f", "Cycle level filter"},
				{"t", "Test connection (Settings)"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				{"T", "Cycle theme"},
				{"h/?", "Toggle help"},
				{"q/ctrl+c", "Quit"},
			},
		},
	}

	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Background(lipgloss.Color(m.theme.Surface)).
		Width(12)

	renderSections := func(secs []helpSection) string {
		var b strings.Builder
		for i, section := range secs {
			b.WriteString(styles.AccentText.Bold(true).Render(section.title))
			b.WriteString("\n")
			for _, item := range section.items {
				b.WriteString(keyStyle.Render(item.key))
				b.WriteString(styles.Text.Render(item.desc))
				b.WriteString("\n")
			}
			if i < len(secs)-1 {
				b.WriteString("\n")
			}
		}
		return strings.TrimRight(b.String(), "\n")
	}

	// Two columns when the terminal is wide enough
	var body string
	if m.width >= LayoutCompactWidth {
		half := (len(sections) + 1) / 2
		left := lipgloss.NewStyle().Width(46).Render(renderSections(sections[:half]))
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, renderSections(sections[half:]))
	} else {
		body = renderSections(sections)
	}

	title := styles.Text.Bold(true).Render("Keyboard Shortcuts")
	content := title + "\n" +
		styles.FaintText.Render(strings.Repeat("─", 30)) + "\n\n" +
		body

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Background(lipgloss.Color(m.theme.Surface)).
		Padding(1, 2)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(content),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.Background)),
	)
}

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}
