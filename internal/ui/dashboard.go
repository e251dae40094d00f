package ui

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/callboard/internal/webhook"
)

// dashboardState holds the recap panel; stats come from the shared snapshot.
type dashboardState struct {
	recap        *webhook.Recap
	recapDay     int // 0 today, 1 yesterday
	recapErr     error
	recapLoading bool
}

type recapMsg struct {
	day   int
	recap *webhook.Recap
	err   error
}

const recapDateLayout = "2006-01-02"

func recapDayLabel(day int) string {
	if day == 1 {
		return "Yesterday"
	}
	return "Today"
}

// recapDate returns the date sent for day; today is left to the server.
func recapDate(day int, now time.Time) string {
	if day == 0 {
		return ""
	}
	return now.AddDate(0, 0, -day).Format(recapDateLayout)
}

func (m Model) fetchRecapCmd(day int, fresh bool) tea.Cmd {
	client, parent := m.client, readContext(m.ctx, fresh)
	if client == nil {
		return nil
	}
	date := recapDate(day, time.Now())
	return func() tea.Msg {
		ctx, cancel := requestContext(parent, RequestTimeout)
		defer cancel()
		recap, err := client.GetRecap(ctx, date)
		return recapMsg{day: day, recap: recap, err: err}
	}
}

func (m *Model) handleRecap(msg recapMsg) {
	if msg.day != m.dashboard.recapDay {
		return
	}
	m.dashboard.recapLoading = false
	if msg.err != nil {
		m.log.WithError(msg.err).Warn("fetch recap")
		m.dashboard.recapErr = msg.err
		return
	}
	m.dashboard.recap = msg.recap
	m.dashboard.recapErr = nil
}

// selectableTimeFrames excludes custom, which needs explicit dates.
func selectableTimeFrames() []webhook.TimeFrame {
	out := make([]webhook.TimeFrame, 0, len(webhook.TimeFrames))
	for _, tf := range webhook.TimeFrames {
		if tf != webhook.TimeFrameCustom {
			out = append(out, tf)
		}
	}
	return out
}

// shiftTimeFrame returns the frame delta steps away from current, wrapping.
func shiftTimeFrame(current webhook.TimeFrame, delta int) webhook.TimeFrame {
	frames := selectableTimeFrames()
	idx := slices.Index(frames, current)
	if idx < 0 {
		idx = slices.Index(frames, webhook.TimeFrameLast7Days)
	}
	n := len(frames)
	return frames[((idx+delta)%n+n)%n]
}

func (m *Model) handleDashboardKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.NextTimeFrame):
		m.setTimeFrame(1)
	case key.Matches(msg, m.keys.PrevTimeFrame):
		m.setTimeFrame(-1)
	case key.Matches(msg, m.keys.ToggleRecap):
		m.dashboard.recapDay = 1 - m.dashboard.recapDay
		m.dashboard.recap = nil
		m.dashboard.recapErr = nil
		m.dashboard.recapLoading = true
		return m.fetchRecapCmd(m.dashboard.recapDay, false)
	}
	return nil
}

func (m *Model) setTimeFrame(delta int) {
	if m.store == nil {
		return
	}
	tf := shiftTimeFrame(m.store.TimeFrame(), delta)
	m.store.SetTimeFrame(tf)
	m.refresh()
	m.prefs.TimeFrame = string(tf)
	m.savePrefs()
	m.log.WithField("time_frame", tf).Debug("time frame changed")
}

// renderDashboard renders stat cards above the breakdown panels.
func (m Model) renderDashboard(height int) string {
	snap := m.snapshot
	if !snap.HasStats {
		if snap.LastError != nil {
			return m.renderErrorPanel(snap.LastError, m.width, min(height, 12))
		}
		return m.centered(NewBgStyle(m.theme.Background).Render("Loading dashboard...", m.theme.Styles().MutedText), height)
	}

	cards := m.renderStatCards()
	remaining := height - lipgloss.Height(cards)
	if remaining < 4 {
		return cards
	}

	disp := breakdownItems(snap.Stats.DispositionBreakdown, m.theme)
	camp := breakdownItems(snap.Stats.CampaignBreakdown, Theme{})
	daily := dailyItems(snap.Stats.DailyStats)

	if m.width < LayoutCompactWidth {
		h := max(remaining/3, 3)
		return lipgloss.JoinVertical(lipgloss.Left, cards,
			m.barPanel("Dispositions", disp, m.width, h),
			m.barPanel("Daily Activity", daily, m.width, h),
			m.renderRecapPanel(m.width, remaining-2*h),
		)
	}

	leftW := m.width / 2
	rightW := m.width - leftW
	top := remaining / 2
	bottom := remaining - top
	left := lipgloss.JoinVertical(lipgloss.Left,
		m.barPanel("Dispositions", disp, leftW, top),
		m.barPanel("Campaigns", camp, leftW, bottom),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.barPanel("Daily Activity", daily, rightW, top),
		m.renderRecapPanel(rightW, bottom),
	)
	return lipgloss.JoinVertical(lipgloss.Left, cards, lipgloss.JoinHorizontal(lipgloss.Top, left, right))
}

type statCard struct {
	label string
	value string
	color string
}

func (m Model) statCards() []statCard {
	t := m.snapshot.Stats.Totals
	return []statCard{
		{"Total Leads", FormatCount(t.TotalLeads.Int()), m.theme.Text},
		{"Active Leads", FormatCount(t.ActiveLeads.Int()), m.theme.Info},
		{"Total Calls", FormatCount(t.TotalCalls.Int()), m.theme.Accent},
		{"Answer Rate", FormatPercent(t.AnswerRate.Float()), m.theme.Success},
		{"Connections", FormatCount(t.Connections.Int()), m.theme.Success},
		{"Conversations", FormatCount(t.Conversations.Int()), m.theme.Warning},
		{"Total Cost", FormatCurrency(t.TotalCost.Float()), m.theme.Danger},
	}
}

// renderStatCards lays the headline numbers out in as few rows as fit.
func (m Model) renderStatCards() string {
	cards := m.statCards()
	perRow := len(cards)
	switch {
	case m.width < LayoutCompactWidth:
		perRow = 2
	case m.width < LayoutWideWidth:
		perRow = 4
	}

	var rows []string
	for start := 0; start < len(cards); start += perRow {
		end := min(start+perRow, len(cards))
		row := cards[start:end]
		w := m.width / perRow
		boxes := make([]string, len(row))
		for i, c := range row {
			cw := w
			if i == len(row)-1 && len(row) == perRow {
				cw = m.width - w*(perRow-1)
			}
			valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(c.color)).Bold(true)
			content := NewBgStyle(m.paneBg(false)).Render(" "+c.value, valueStyle)
			boxes[i] = m.renderTitledBox(c.label, content, cw, 3, false)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// breakdownItems turns a breakdown map into bars sorted by value. A zero
// theme leaves colors to the accent default.
func breakdownItems(breakdown map[string]webhook.FlexInt, theme Theme) []barItem {
	items := make([]barItem, 0, len(breakdown))
	for label, v := range breakdown {
		it := barItem{label: label, value: v.Int()}
		if theme.StatusColors != nil {
			if c, ok := theme.StatusColors[normalizeStatus(label)]; ok {
				it.color = c
			}
		}
		items = append(items, it)
	}
	slices.SortFunc(items, func(a, b barItem) int {
		if c := cmp.Compare(b.value, a.value); c != 0 {
			return c
		}
		return strings.Compare(a.label, b.label)
	})
	return items
}

// dailyItems keeps the series in date order with short labels.
func dailyItems(days []webhook.DailyStat) []barItem {
	sorted := slices.Clone(days)
	slices.SortFunc(sorted, func(a, b webhook.DailyStat) int { return strings.Compare(a.Date, b.Date) })
	items := make([]barItem, 0, len(sorted))
	for _, d := range sorted {
		label := d.Date
		if t := webhook.ParseTime(d.Date); !t.IsZero() {
			label = t.Format("Jan 02")
		}
		items = append(items, barItem{label: label, value: d.Calls.Int()})
	}
	return items
}

func (m Model) barPanel(title string, items []barItem, width, height int) string {
	inner := max(width-4, 1)
	rows := max(height-2, 1)
	// Daily series keep their most recent days.
	if len(items) > rows {
		if title == "Daily Activity" {
			items = items[len(items)-rows:]
		} else {
			items = items[:rows]
		}
	}
	content := m.renderBars(items, inner, m.paneBg(false))
	return m.renderTitledBox(title, indent(content), width, height, false)
}

func (m Model) renderRecapPanel(width, height int) string {
	bgColor := m.paneBg(false)
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	title := "Recap · " + recapDayLabel(m.dashboard.recapDay)

	var lines []string
	switch {
	case m.dashboard.recapErr != nil:
		ev := presentError(m.dashboard.recapErr)
		lines = append(lines, bg.Render(ev.Title, styles.DangerText))
		if ev.Hint != "" {
			lines = append(lines, bg.Render(ev.Hint, styles.MutedText))
		}
	case m.dashboard.recap == nil:
		msg := "No recap available"
		if m.dashboard.recapLoading {
			msg = "Loading recap..."
		}
		lines = append(lines, bg.Render(msg, styles.MutedText))
	default:
		r := m.dashboard.recap
		if r.Date != "" {
			title += " (" + FormatDate(r.Date) + ")"
		}
		lines = append(lines,
			bg.Pair("Calls        ", FormatCount(r.TotalCalls.Int()), styles.MutedText, styles.Text),
			bg.Pair("Connections  ", FormatCount(r.Connections.Int()), styles.MutedText, styles.SuccessText),
			bg.Pair("Conversations", FormatCount(r.Conversations.Int()), styles.MutedText, styles.WarningText),
			bg.Pair("Cost         ", FormatCurrency(r.TotalCost.Float()), styles.MutedText, styles.Text),
		)
		if items := breakdownItems(r.DispositionBreakdown, m.theme); len(items) > 0 && height > 8 {
			lines = append(lines, "")
			rows := max(height-2-len(lines), 1)
			lines = append(lines, m.renderBars(items[:min(len(items), rows)], max(width-4, 1), bgColor))
		}
	}
	return m.renderTitledBox(title, indent(strings.Join(lines, "\n")), width, height, false)
}

// indent prefixes every line with a space so content clears the border.
func indent(s string) string {
	return " " + strings.ReplaceAll(s, "\n", "\n ")
}
