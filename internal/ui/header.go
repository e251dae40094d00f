package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar with all information.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.lastUpdated.IsZero() {
		return m.renderConnectingHeader(styles, bg)
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		MaxHeight(1).
		Render(m.buildStatusContent(styles, bg))
}

// renderConnectingHeader shows the state before the first poll finishes.
func (m Model) renderConnectingHeader(styles Styles, bg BgStyle) string {
	sep := bg.Spaces(2)
	parts := []string{
		bg.Render("callboard", styles.Logo),
		bg.Render("Connecting to backend...", styles.WarningText.Bold(true)),
	}
	if m.config != nil && m.config.BaseURL != "" {
		parts = append(parts, bg.Render(truncateMiddle(m.config.BaseURL, 50), styles.MutedText))
	}
	return styles.Header.Width(m.width).MaxHeight(1).Render(bg.Join(parts, sep))
}

// buildStatusContent builds the status bar content string.
func (m Model) buildStatusContent(styles Styles, bg BgStyle) string {
	compact := m.width < LayoutCompactWidth
	snap := m.snapshot

	parts := []string{bg.Render("callboard", styles.Logo)}

	switch {
	case snap.IsOffline():
		parts = append(parts, bg.Render("● "+classifyConnectionError(snap.LastError), styles.DangerText))
	case snap.LastError != nil:
		parts = append(parts, bg.Render("● DEGRADED", styles.WarningText.Bold(true)))
	default:
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	}

	parts = append(parts, m.renderTabs(styles, bg, compact))

	if m.store != nil {
		tf := m.store.TimeFrame()
		label := tf.Label()
		if snap.HasStats && snap.TimeFrame != tf {
			label += " (loading)"
		}
		parts = append(parts, bg.Pair("Range:", label, styles.MutedText, styles.Text))
	}

	if snap.HasStats && !compact {
		t := snap.Stats.Totals
		parts = append(parts,
			bg.Pair("Leads:", FormatCount(t.TotalLeads.Int()), styles.MutedText, styles.Text),
			bg.Pair("Calls:", FormatCount(t.TotalCalls.Int()), styles.MutedText, styles.Text),
		)
	}

	if ts := m.formatTimestamp(); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if snap.LastError != nil {
		maxErr := 60
		if compact {
			maxErr = 30
		}
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(presentError(snap.LastError).Title, maxErr), styles.DangerText))
	}

	return bg.Join(parts, "  ")
}

// renderTabs lists the views with the current one highlighted. Compact
// layouts only show the current view.
func (m Model) renderTabs(styles Styles, bg BgStyle, compact bool) string {
	if compact {
		return bg.Render(m.currentView.String(), styles.AccentText.Bold(true))
	}
	tabs := make([]string, 0, len(viewOrder))
	for i, v := range viewOrder {
		label := fmt.Sprintf("%d %s", i+1, v)
		if v == m.currentView {
			tabs = append(tabs, bg.Render(label, styles.AccentText.Bold(true).Underline(true)))
			continue
		}
		tabs = append(tabs, bg.Render(label, styles.FaintText))
	}
	return bg.Join(tabs, " ")
}

// formatTimestamp formats the last update time with relative indicator.
func (m Model) formatTimestamp() string {
	if m.lastUpdated.IsZero() {
		return ""
	}

	timeSince := time.Since(m.lastUpdated)
	timeStr := m.lastUpdated.Format("15:04:05")

	if timeSince < time.Minute {
		timeStr += " (now)"
	} else if timeSince < time.Hour {
		timeStr += fmt.Sprintf(" (%dm ago)", int(timeSince.Minutes()))
	} else if timeSince < 24*time.Hour {
		timeStr += fmt.Sprintf(" (%dh ago)", int(timeSince.Hours()))
	}

	return timeStr
}

type command struct{ key, desc string }

// commandsFor returns the hints shown in the command bar for the current view.
func (m Model) commandsFor() []command {
	switch m.currentView {
	case ViewLeads:
		return []command{
			{"j/k", "Navigate"},
			{"n/p", "Page"},
			{"f", "Status: " + orAll(m.leads.status)},
			{"c", "Campaign: " + orAll(m.leads.campaign)},
			{"/", "Search"},
			{"a", "Add"},
			{"e", "Edit"},
			{"s", "Status"},
			{"t", "Call"},
			{"d", "Delete"},
			{"?", "More"},
		}
	case ViewCalls:
		return []command{
			{"j/k", "Navigate"},
			{"n/p", "Page"},
			{"D", "Period: " + orAll(m.calls.period)},
			{"f", "Disposition: " + orAll(m.calls.disposition)},
			{"c", "Campaign: " + orAll(m.calls.campaign)},
			{"/", "Search"},
			{"enter", "Detail"},
			{"?", "More"},
		}
	case ViewCampaigns:
		inactive := "Show inactive"
		if m.campaigns.showInactive {
			inactive = "Hide inactive"
		}
		return []command{{"j/k", "Navigate"}, {"i", inactive}, {"r", "Refresh"}, {"?", "More"}}
	case ViewUpload:
		return []command{
			{"e", "File"},
			{"c", "Campaign"},
			{"x", "Skip dups"},
			{"m", "Mapping"},
			{"u", "Upload"},
			{"?", "More"},
		}
	case ViewSettings:
		return []command{{"t", "Test connection"}, {"?", "More"}}
	case ViewLogs:
		follow := "Pause"
		if !m.logState.follow {
			follow = "Follow"
		}
		return []command{
			{"Space", follow},
			{"f", "Level: " + orAll(m.logState.level)},
			{"/", "Search"},
			{"g/G", "Top/Bottom"},
			{"?", "More"},
		}
	default:
		return []command{
			{"[/]", "Range"},
			{"y", "Recap: " + recapDayLabel(m.dashboard.recapDay)},
			{"r", "Refresh"},
			{"Tab", "Views"},
			{"?", "More"},
		}
	}
}

// renderFooter shows the toast when one is active, else the command bar.
func (m Model) renderFooter() string {
	if m.toast != nil {
		styles := m.theme.Styles().WithBackground(m.theme.Surface)
		style := styles.SuccessText
		if m.toast.danger {
			style = styles.DangerText
		}
		return styles.Header.Width(m.width).MaxHeight(1).Render(style.Render(truncate(m.toast.text, max(m.width-2, 1))))
	}
	return m.renderCommandBar()
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	commands := m.commandsFor()
	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if q := m.activeSearch(); q != "" {
		segments = append(segments, bg.Render("/"+truncate(q, 18), styles.AccentText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).MaxHeight(1).Render(strings.Join(segments, sep))
}

func (m Model) activeSearch() string {
	switch m.currentView {
	case ViewLeads:
		return m.leads.search
	case ViewCalls:
		return m.calls.search
	case ViewLogs:
		return m.logState.query
	}
	return ""
}

func orAll(s string) string {
	if s == "" {
		return "All"
	}
	return s
}
