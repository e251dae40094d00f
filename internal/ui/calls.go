package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/callboard/internal/state"
	"github.com/five82/callboard/internal/webhook"
)

type callsState struct {
	pager       state.Pager
	rows        []webhook.Call
	info        webhook.Pagination
	cursor      int
	period      string
	disposition string
	campaign    string
	search      string
	detail      bool
	loading     bool
	loaded      bool
	stale       bool
	err         error
	seq         int
}

type callsMsg struct {
	seq  int
	page *webhook.CallsPage
	err  error
}

// callFilters maps the active filters to api/calls query parameters.
func (cs callsState) callFilters() map[string]string {
	filters := map[string]string{}
	if cs.period != "" {
		filters["date"] = cs.period
	}
	if cs.disposition != "" {
		filters["disposition"] = cs.disposition
	}
	if cs.campaign != "" {
		filters["campaign_name"] = cs.campaign
	}
	if cs.search != "" {
		filters["search"] = cs.search
	}
	if len(filters) == 0 {
		return nil
	}
	return filters
}

func (m *Model) fetchCallsCmd() tea.Cmd { return m.callsCmd(false) }

func (m *Model) refetchCallsCmd() tea.Cmd { return m.callsCmd(true) }

func (m *Model) callsCmd(fresh bool) tea.Cmd {
	if m.client == nil {
		return nil
	}
	m.calls.seq++
	m.calls.loading = true
	m.calls.stale = false
	seq := m.calls.seq
	query := webhook.CallQuery{
		Page:    m.calls.pager.Page,
		Limit:   m.calls.pager.Limit,
		Filters: m.calls.callFilters(),
	}
	client, parent := m.client, readContext(m.ctx, fresh)
	return func() tea.Msg {
		ctx, cancel := requestContext(parent, RequestTimeout)
		defer cancel()
		page, err := client.GetCalls(ctx, query)
		return callsMsg{seq: seq, page: page, err: err}
	}
}

func (m *Model) handleCalls(msg callsMsg) {
	if msg.seq != m.calls.seq {
		return
	}
	m.calls.loading = false
	if msg.err != nil {
		m.log.WithError(msg.err).Warn("fetch calls")
		m.calls.err = msg.err
		return
	}
	m.calls.err = nil
	m.calls.loaded = true
	m.calls.rows = msg.page.Calls
	m.calls.info = msg.page.PageInfo()
	m.calls.cursor = min(m.calls.cursor, max(len(m.calls.rows)-1, 0))
}

func (m *Model) handleCallsKey(msg tea.KeyMsg) tea.Cmd {
	if cursor, ok := m.moveCursor(msg, m.calls.cursor, len(m.calls.rows)); ok {
		m.calls.cursor = cursor
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.NextPage):
		if m.calls.pager.Next(m.calls.info) {
			m.calls.cursor = 0
			return m.fetchCallsCmd()
		}
	case key.Matches(msg, m.keys.PrevPage):
		if m.calls.pager.Prev() {
			m.calls.cursor = 0
			return m.fetchCallsCmd()
		}
	case key.Matches(msg, m.keys.CyclePeriod):
		m.calls.period = cycleOption(m.calls.period, webhook.CallPeriods)
		m.calls.pager.Reset()
		m.calls.cursor = 0
		return m.fetchCallsCmd()
	case key.Matches(msg, m.keys.CycleFilter):
		m.calls.disposition = cycleOption(m.calls.disposition, webhook.Dispositions)
		m.calls.pager.Reset()
		m.calls.cursor = 0
		return m.fetchCallsCmd()
	case key.Matches(msg, m.keys.CycleCampaign):
		m.calls.campaign = cycleOption(m.calls.campaign, m.campaignNames())
		m.calls.pager.Reset()
		m.calls.cursor = 0
		return m.fetchCallsCmd()
	case key.Matches(msg, m.keys.Search):
		m.modal = newInputModal("Search calls", "lead name or number", m.calls.search, func(q string) tea.Msg {
			return searchMsg{view: ViewCalls, query: q}
		})
	case key.Matches(msg, m.keys.Detail):
		m.calls.detail = !m.calls.detail
	}
	return nil
}

// dispositionSummary counts dispositions on the current page only.
func dispositionSummary(calls []webhook.Call) []barItem {
	counts := map[string]webhook.FlexInt{}
	for _, c := range calls {
		d := c.Disposition
		if d == "" {
			d = "Unknown"
		}
		counts[d]++
	}
	return breakdownItems(counts, Theme{})
}

func (m Model) renderCalls(height int) string {
	cs := m.calls
	filters := m.filterLine([][2]string{
		{"Period:", orAll(cs.period)},
		{"Disposition:", orAll(cs.disposition)},
		{"Campaign:", orAll(cs.campaign)},
		{"Search:", orDash(cs.search)},
	}, pageSummary(cs.pager.Page, cs.info, len(cs.rows), "calls"))
	summary := m.renderDispositionSummary()
	boxHeight := height - 2

	if cs.err != nil && !cs.loaded {
		return lipgloss.JoinVertical(lipgloss.Left, filters, summary, m.renderErrorPanel(cs.err, m.width, min(boxHeight, 12)))
	}

	title := "Calls"
	switch {
	case cs.loading:
		title += " (loading)"
	case cs.err != nil:
		title += " (" + presentError(cs.err).Title + ")"
	}

	tableWidth := m.width
	showDetail := cs.detail && len(cs.rows) > 0
	if showDetail {
		if m.width < LayoutCompactWidth {
			return lipgloss.JoinVertical(lipgloss.Left, filters, summary, m.renderCallDetail(m.width, boxHeight))
		}
		tableWidth = m.width * 3 / 5
	}

	var content string
	if len(cs.rows) == 0 {
		msg := "No calls match the current filters"
		if cs.loading || !cs.loaded {
			msg = "Loading calls..."
		}
		content = " " + NewBgStyle(m.paneBg(true)).Render(msg, m.theme.Styles().MutedText)
	} else {
		content = m.renderTable(m.callsTable(tableWidth-2, boxHeight-2))
	}
	table := m.renderTitledBox(title, content, tableWidth, boxHeight, true)
	if showDetail {
		table = lipgloss.JoinHorizontal(lipgloss.Top, table, m.renderCallDetail(m.width-tableWidth, boxHeight))
	}
	return lipgloss.JoinVertical(lipgloss.Left, filters, summary, table)
}

// renderDispositionSummary is a one-line count of dispositions on this page.
func (m Model) renderDispositionSummary() string {
	bg := NewBgStyle(m.theme.Background)
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	items := dispositionSummary(m.calls.rows)
	if len(items) == 0 {
		return bg.FillLine("", m.width)
	}
	parts := make([]string, 0, len(items))
	for _, it := range items {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(it.label)))
		parts = append(parts, bg.Render(it.label, style)+bg.Space()+bg.Render(fmt.Sprintf("%d", it.value), styles.Text))
	}
	return bg.FillLine(" "+bg.Render("This page:", styles.MutedText)+bg.Space()+bg.Join(parts, " · "), m.width)
}

func (m Model) callsTable(width, height int) tableSpec {
	wide := width >= LayoutWideWidth-2
	cols := []column{
		{title: "Date", width: 20},
		{title: "Lead", width: 16, flex: true},
		{title: "Number", width: 16},
		{title: "Disposition", width: 11},
		{title: "Duration", width: 8},
	}
	if wide {
		cols = append(cols, column{title: "Cost", width: 8}, column{title: "Campaign", width: 16, flex: true})
	}

	rows := make([][]string, 0, len(m.calls.rows))
	for _, c := range m.calls.rows {
		row := []string{
			orDash(FormatDateTime(c.CallDate)),
			orDash(c.LeadName()),
			FormatPhone(c.ToNumber),
			orDash(c.Disposition),
			FormatDuration(c.DurationSeconds.Int()),
		}
		if wide {
			row = append(row, FormatCurrency(c.Cost.Float()), orDash(c.CampaignName()))
		}
		rows = append(rows, row)
	}
	return tableSpec{
		columns:   cols,
		rows:      rows,
		selected:  m.calls.cursor,
		statusCol: 3,
		width:     width,
		height:    height,
		bg:        m.paneBg(true),
	}
}

func (m Model) renderCallDetail(width, height int) string {
	if m.calls.cursor >= len(m.calls.rows) {
		return m.renderTitledBox("Call", "", width, height, false)
	}
	c := m.calls.rows[m.calls.cursor]
	bgColor := m.paneBg(false)
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	field := func(label, value string) string {
		return bg.Pair(padRight(label, 12), orDash(value), styles.MutedText, styles.Text)
	}
	answered := "no"
	if c.Answered {
		answered = "yes"
	}
	lines := []string{
		field("Call ID", c.ID),
		field("Lead", c.LeadName()),
		field("Lead ID", c.LeadID),
		field("Campaign", c.CampaignName()),
		field("Number", FormatPhone(c.ToNumber)),
		field("Date", FormatDateTime(c.CallDate)),
		field("Duration", FormatDuration(c.DurationSeconds.Int())),
		bg.Pair(padRight("Disposition", 12), orDash(c.Disposition), styles.MutedText,
			lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(c.Disposition))).Bold(true)),
		field("Status", c.Status),
		field("Answered", answered),
		field("Cost", FormatCurrency(c.Cost.Float())),
	}
	title := "Call"
	if name := c.LeadName(); name != "" {
		title = "Call · " + name
	}
	return m.renderTitledBox(title, indent(strings.Join(lines, "\n")), width, height, false)
}
