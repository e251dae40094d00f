package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/callboard/internal/prefs"
)

type settingsState struct {
	pinging bool
	pinged  time.Time
	latency time.Duration
	pingErr error
}

type pingMsg struct {
	at      time.Time
	latency time.Duration
	err     error
}

func (m *Model) pingCmd() tea.Cmd {
	if m.client == nil || m.settings.pinging {
		return nil
	}
	m.settings.pinging = true
	client, parent := m.client, m.ctx
	return func() tea.Msg {
		ctx, cancel := requestContext(parent, RequestTimeout)
		defer cancel()
		start := time.Now()
		err := client.Ping(ctx)
		return pingMsg{at: time.Now(), latency: time.Since(start), err: err}
	}
}

func (m *Model) handlePing(msg pingMsg) {
	m.settings.pinging = false
	m.settings.pinged = msg.at
	m.settings.latency = msg.latency
	m.settings.pingErr = msg.err
	if msg.err != nil {
		m.log.WithError(msg.err).Warn("connection test failed")
		m.setToast("Connection failed: "+presentError(msg.err).Title, true)
		return
	}
	m.log.WithField("latency", msg.latency.String()).Info("connection test passed")
	m.setToast(fmt.Sprintf("Connected in %s", msg.latency.Round(time.Millisecond)), false)
}

func (m *Model) handleSettingsKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Ping) {
		return m.pingCmd()
	}
	return nil
}

func (m Model) renderSettings(height int) string {
	leftW := m.width
	if m.width >= LayoutCompactWidth {
		leftW = m.width * 3 / 5
	}
	cfgPanel := m.renderConfigPanel(leftW, height)
	if leftW == m.width {
		return cfgPanel
	}
	rightW := m.width - leftW
	connH := min(9, height/2)
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.renderConnectionPanel(rightW, connH),
		m.renderPrefsPanel(rightW, height-connH),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, cfgPanel, right)
}

func (m Model) renderConfigPanel(width, height int) string {
	bgColor := m.paneBg(true)
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	if m.config == nil {
		return m.renderTitledBox("Configuration", indent(bg.Render("No configuration loaded", styles.MutedText)), width, height, true)
	}
	entries := m.config.Entries()
	labelW := 0
	for _, e := range entries {
		labelW = max(labelW, len(e.Name))
	}
	valueW := max(width-labelW-5, 8)
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, bg.Pair(padRight(e.Name, labelW), truncateMiddle(orDash(e.Value), valueW), styles.MutedText, styles.Text))
	}
	return m.renderTitledBox("Configuration", indent(strings.Join(lines, "\n")), width, height, true)
}

func (m Model) renderConnectionPanel(width, height int) string {
	bgColor := m.paneBg(false)
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	st := m.settings

	var lines []string
	switch {
	case st.pinging:
		lines = append(lines, bg.Render("Testing connection...", styles.WarningText))
	case st.pinged.IsZero():
		lines = append(lines, bg.Render("Not tested yet (press t)", styles.MutedText))
	case st.pingErr != nil:
		ev := presentError(st.pingErr)
		lines = append(lines,
			bg.Render("● "+classifyConnectionError(st.pingErr), styles.DangerText),
			bg.Render(truncate(ev.Title, width-4), styles.Text))
		if ev.Hint != "" {
			lines = append(lines, bg.Render(truncate(ev.Hint, width-4), styles.MutedText))
		}
	default:
		lines = append(lines,
			bg.Render("● Connected", styles.SuccessText),
			bg.Pair("Latency", st.latency.Round(time.Millisecond).String(), styles.MutedText, styles.Text))
	}
	if !st.pinged.IsZero() {
		lines = append(lines, bg.Pair("Tested", st.pinged.Format("15:04:05"), styles.MutedText, styles.FaintText))
	}

	snap := m.snapshot
	poll := "waiting for first poll"
	if !snap.LastUpdated.IsZero() {
		poll = "ok"
		if snap.ConsecutiveFailures > 0 {
			poll = fmt.Sprintf("%d failed", snap.ConsecutiveFailures)
		}
	}
	lines = append(lines, bg.Pair("Poller", poll, styles.MutedText, styles.Text))
	return m.renderTitledBox("Connection", indent(strings.Join(lines, "\n")), width, height, false)
}

func (m Model) renderPrefsPanel(width, height int) string {
	bgColor := m.paneBg(false)
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	path := m.prefsPath
	if path == "" {
		path = prefs.DefaultPath()
	}
	field := func(label, value string) string {
		return bg.Pair(padRight(label, 10), value, styles.MutedText, styles.Text)
	}
	lines := []string{
		field("File", truncateMiddle(path, max(width-15, 8))),
		field("Theme", m.theme.Name),
		field("Range", orDash(m.prefs.TimeFrame)),
		field("Campaign", orDash(m.prefs.Campaign)),
	}
	if m.prefs.PageSize > 0 {
		lines = append(lines, field("Page size", fmt.Sprintf("%d", m.prefs.PageSize)))
	}
	return m.renderTitledBox("Preferences", indent(strings.Join(lines, "\n")), width, height, false)
}
