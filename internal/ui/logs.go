package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/callboard/internal/logtail"
)

// Level filters offered by the Logs view, least severe first.
var logLevels = []string{"debug", "info", "warning", "error"}

// logState holds all log-related state.
type logState struct {
	entries  []logtail.Entry
	shown    int // entries left after filtering
	viewport viewport.Model
	follow   bool
	level    string
	query    string
	loading  bool
	err      error
}

type logsMsg struct {
	lines []string
	err   error
}

func (m Model) logPath() string {
	if m.config == nil {
		return ""
	}
	return m.config.LogFile
}

func (m *Model) loadLogsCmd() tea.Cmd {
	path := m.logPath()
	if path == "" {
		return nil
	}
	m.logState.loading = true
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogTailLines)
		return logsMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogs(msg logsMsg) {
	m.logState.loading = false
	m.logState.err = msg.err
	if msg.err != nil {
		return
	}
	m.logState.entries = logtail.ParseLines(msg.lines)
	m.renderLogContent()
}

// resizeLogViewport fits the viewport inside the log box: header, command
// bar, status line and borders.
func (m *Model) resizeLogViewport() {
	m.logState.viewport.Width = max(m.width-4, 1)
	m.logState.viewport.Height = max(m.height-Chrome-3, 1)
	m.renderLogContent()
}

// renderLogContent filters the entries and refreshes the viewport.
func (m *Model) renderLogContent() {
	vp := &m.logState.viewport
	vp.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))

	entries := logtail.Filter(m.logState.entries, m.logState.level, m.logState.query)
	m.logState.shown = len(entries)
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, bg.FillLine(m.colorizeEntry(e, styles, bg), max(vp.Width, 1)))
	}
	vp.SetContent(strings.Join(lines, "\n"))
	if m.logState.follow {
		vp.GotoBottom()
	}
}

// colorizeEntry renders time, level, message and fields of one entry.
func (m Model) colorizeEntry(e logtail.Entry, styles Styles, bg BgStyle) string {
	if e.Level == "" {
		return bg.Render(e.Raw, styles.Text)
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(bg.Render(e.Time.Local().Format("2006-01-02 15:04:05"), styles.FaintText))
		b.WriteString(bg.Space())
	}
	b.WriteString(bg.Render(padRight(strings.ToUpper(shortLevel(e.Level)), 5), m.getLevelStyle(e.Level, styles).Bold(true)))
	b.WriteString(bg.Space())
	b.WriteString(bg.Render(e.Message, styles.Text))
	for _, f := range e.Fields {
		b.WriteString(bg.Space())
		b.WriteString(bg.Render(f.Key+"=", styles.MutedText))
		b.WriteString(bg.Render(f.Value, styles.AccentText))
	}
	return b.String()
}

func shortLevel(level string) string {
	if level == "warning" {
		return "warn"
	}
	return level
}

// getLevelStyle returns the style for a log level.
func (m Model) getLevelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "info":
		return styles.SuccessText
	case "warning", "warn":
		return styles.WarningText
	case "error", "fatal", "panic":
		return styles.DangerText
	case "debug", "trace":
		return styles.InfoText
	default:
		return styles.Text
	}
}

func (m *Model) handleLogsKey(msg tea.KeyMsg) tea.Cmd {
	vp := &m.logState.viewport
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			vp.GotoBottom()
			return m.loadLogsCmd()
		}
	case key.Matches(msg, m.keys.CycleLevel):
		m.logState.level = cycleOption(m.logState.level, logLevels)
		m.renderLogContent()
	case key.Matches(msg, m.keys.Search):
		m.modal = newInputModal("Search logs", "text to match", m.logState.query, func(q string) tea.Msg {
			return searchMsg{view: ViewLogs, query: q}
		})
	case key.Matches(msg, m.keys.Escape):
		if m.logState.query != "" {
			m.logState.query = ""
			m.renderLogContent()
		}
	case key.Matches(msg, m.keys.Top):
		m.logState.follow = false
		vp.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		vp.GotoBottom()
	case key.Matches(msg, m.keys.Down):
		vp.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.logState.follow = false
		vp.ScrollUp(1)
	case key.Matches(msg, m.keys.NextPage):
		vp.PageDown()
	case key.Matches(msg, m.keys.PrevPage):
		m.logState.follow = false
		vp.PageUp()
	}
	return nil
}

func (m Model) getLogTitle() string {
	if m.logState.level != "" || m.logState.query != "" {
		return "Application Log (filtered)"
	}
	return "Application Log"
}

func (m Model) renderLogs(height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)
	path := m.logPath()

	if path == "" {
		return m.centered(bg.Render("Logging to a file is disabled", styles.MutedText), height)
	}
	content := m.logState.viewport.View()
	if len(m.logState.entries) == 0 {
		msg := "No log lines yet"
		if m.logState.loading {
			msg = "Reading log..."
		}
		content = " " + NewBgStyle(m.theme.FocusBg).Render(msg, m.theme.Styles().MutedText)
	}
	box := m.renderTitledBox(m.getLogTitle(), content, m.width, height-1, true)

	var status []string
	if m.logState.err != nil {
		status = append(status, bg.Render(truncate(m.logState.err.Error(), m.width/2), styles.DangerText))
	}
	follow := "paused"
	if m.logState.follow {
		follow = "following"
	}
	status = append(status,
		bg.Render(truncateMiddle(path, 50), styles.MutedText),
		bg.Render(fmt.Sprintf("%d/%d lines", m.logState.shown, len(m.logState.entries)), styles.FaintText),
		bg.Render(follow, styles.AccentText),
	)
	if m.logState.level != "" {
		status = append(status, bg.Render("level≥"+m.logState.level, styles.WarningText))
	}
	if m.logState.query != "" {
		status = append(status, bg.Render("/"+m.logState.query, styles.AccentText))
	}
	return box + "\n" + bg.FillLine(" "+bg.Join(status, "  "), m.width)
}
