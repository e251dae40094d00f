package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/callboard/internal/state"
	"github.com/five82/callboard/internal/webhook"
)

// leadsState is the Leads listing: filters, the current page and selection.
// seq discards responses to superseded requests.
type leadsState struct {
	pager    state.Pager
	rows     []webhook.Lead
	info     webhook.Pagination
	cursor   int
	status   string
	campaign string
	search   string
	detail   bool
	loading  bool
	loaded   bool
	stale    bool // a write elsewhere changed leads since the last load
	err      error
	seq      int
}

type leadsMsg struct {
	seq  int
	page *webhook.LeadsPage
	err  error
}

func (m *Model) leadQuery() webhook.LeadQuery {
	return webhook.LeadQuery{
		Page:         m.leads.pager.Page,
		Limit:        m.leads.pager.Limit,
		Status:       m.leads.status,
		CampaignName: m.leads.campaign,
		Search:       m.leads.search,
	}
}

// fetchLeadsCmd loads the current page, served from the read cache when it
// holds one.
func (m *Model) fetchLeadsCmd() tea.Cmd { return m.leadsCmd(false) }

// refetchLeadsCmd loads the current page from the server. Used after writes
// and explicit reloads.
func (m *Model) refetchLeadsCmd() tea.Cmd { return m.leadsCmd(true) }

func (m *Model) leadsCmd(fresh bool) tea.Cmd {
	if m.client == nil {
		return nil
	}
	m.leads.seq++
	m.leads.loading = true
	m.leads.stale = false
	seq, query := m.leads.seq, m.leadQuery()
	client, parent := m.client, readContext(m.ctx, fresh)
	return func() tea.Msg {
		ctx, cancel := requestContext(parent, RequestTimeout)
		defer cancel()
		page, err := client.GetLeads(ctx, query)
		return leadsMsg{seq: seq, page: page, err: err}
	}
}

func (m *Model) handleLeads(msg leadsMsg) {
	if msg.seq != m.leads.seq {
		return
	}
	m.leads.loading = false
	if msg.err != nil {
		m.log.WithError(msg.err).Warn("fetch leads")
		m.leads.err = msg.err
		return
	}
	m.leads.err = nil
	m.leads.loaded = true
	m.leads.rows = msg.page.Leads
	m.leads.info = msg.page.PageInfo()
	m.leads.cursor = min(m.leads.cursor, max(len(m.leads.rows)-1, 0))
}

func (m Model) selectedLead() (webhook.Lead, bool) {
	if m.leads.cursor < 0 || m.leads.cursor >= len(m.leads.rows) {
		return webhook.Lead{}, false
	}
	return m.leads.rows[m.leads.cursor], true
}

// campaignNames lists campaign names from the latest snapshot.
func (m Model) campaignNames() []string {
	names := make([]string, 0, len(m.snapshot.Campaigns))
	for _, c := range m.snapshot.Campaigns {
		if c.Name != "" && !slices.Contains(names, c.Name) {
			names = append(names, c.Name)
		}
	}
	slices.Sort(names)
	return names
}

// cycleOption steps through "" followed by options.
func cycleOption(current string, options []string) string {
	all := append([]string{""}, options...)
	idx := slices.Index(all, current)
	return all[(idx+1)%len(all)]
}

func (m *Model) handleLeadsKey(msg tea.KeyMsg) tea.Cmd {
	if cursor, ok := m.moveCursor(msg, m.leads.cursor, len(m.leads.rows)); ok {
		m.leads.cursor = cursor
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.NextPage):
		if m.leads.pager.Next(m.leads.info) {
			m.leads.cursor = 0
			return m.fetchLeadsCmd()
		}
	case key.Matches(msg, m.keys.PrevPage):
		if m.leads.pager.Prev() {
			m.leads.cursor = 0
			return m.fetchLeadsCmd()
		}
	case key.Matches(msg, m.keys.CycleFilter):
		m.leads.status = cycleOption(m.leads.status, webhook.LeadStatuses)
		m.leads.pager.Reset()
		m.leads.cursor = 0
		return m.fetchLeadsCmd()
	case key.Matches(msg, m.keys.CycleCampaign):
		m.leads.campaign = cycleOption(m.leads.campaign, m.campaignNames())
		m.leads.pager.Reset()
		m.leads.cursor = 0
		return m.fetchLeadsCmd()
	case key.Matches(msg, m.keys.Search):
		m.modal = newInputModal("Search leads", "name, email or phone", m.leads.search, func(q string) tea.Msg {
			return searchMsg{view: ViewLeads, query: q}
		})
	case key.Matches(msg, m.keys.Detail):
		m.leads.detail = !m.leads.detail
	case key.Matches(msg, m.keys.AddLead):
		m.modal = m.newLeadForm(nil)
	case key.Matches(msg, m.keys.EditLead):
		if lead, ok := m.selectedLead(); ok {
			m.modal = m.newLeadForm(&lead)
		}
	case key.Matches(msg, m.keys.SetStatus):
		if lead, ok := m.selectedLead(); ok {
			m.modal = newPickerModal("Status for "+displayName(lead), webhook.LeadStatuses, lead.Status,
				func(status string) tea.Cmd { return m.updateStatusCmd(lead.ID, status) })
		}
	case key.Matches(msg, m.keys.DeleteLead):
		if lead, ok := m.selectedLead(); ok {
			m.modal = newConfirmModal("Delete lead",
				fmt.Sprintf("Delete %s? This cannot be undone.", displayName(lead)),
				m.deleteLeadCmd(lead.ID))
		}
	case key.Matches(msg, m.keys.TriggerCall):
		if lead, ok := m.selectedLead(); ok {
			m.modal = newConfirmModal("Call now",
				fmt.Sprintf("Call %s at %s now?", displayName(lead), FormatPhone(lead.MobilePhone)),
				m.triggerCallCmd(lead.ID))
		}
	}
	return nil
}

func displayName(l webhook.Lead) string {
	if name := l.FullName(); name != "" {
		return name
	}
	return "lead " + l.ID
}

// writeCmd runs a write against the backend and reports it as an actionMsg.
func (m *Model) writeCmd(label string, reload View, do func() (*webhook.Response, error)) tea.Cmd {
	return func() tea.Msg {
		resp, err := do()
		return actionMsg{label: label, resp: resp, err: err, reload: reload}
	}
}

func (m *Model) updateStatusCmd(leadID, status string) tea.Cmd {
	client, parent := m.client, m.ctx
	return m.writeCmd("Status set to "+status, ViewLeads, func() (*webhook.Response, error) {
		ctx, cancel := requestContext(parent, RequestTimeout)
		defer cancel()
		return client.UpdateLeadStatus(ctx, leadID, status)
	})
}

func (m *Model) deleteLeadCmd(leadID string) tea.Cmd {
	client, parent := m.client, m.ctx
	return m.writeCmd("Lead deleted", ViewLeads, func() (*webhook.Response, error) {
		ctx, cancel := requestContext(parent, RequestTimeout)
		defer cancel()
		return client.DeleteLead(ctx, leadID)
	})
}

func (m *Model) triggerCallCmd(leadID string) tea.Cmd {
	client, parent := m.client, m.ctx
	return m.writeCmd("Call triggered", ViewLeads, func() (*webhook.Response, error) {
		ctx, cancel := requestContext(parent, RequestTimeout)
		defer cancel()
		return client.TriggerCall(ctx, leadID)
	})
}

// pageSummary describes the server's pagination block as shown above lists.
func pageSummary(page int, info webhook.Pagination, rows int, noun string) string {
	if page < 1 {
		page = 1
	}
	var b strings.Builder
	if tp := info.TotalPages.Int(); tp > 0 {
		fmt.Fprintf(&b, "Page %d of %d", page, tp)
	} else {
		fmt.Fprintf(&b, "Page %d", page)
	}
	if total := info.Total.Int(); total > 0 {
		fmt.Fprintf(&b, " · %s %s", FormatCount(total), noun)
	} else {
		fmt.Fprintf(&b, " · %d shown", rows)
	}
	if state.HasNext(page, info) {
		b.WriteString(" · more")
	}
	return b.String()
}

// filterLine renders "label value" pairs and the page summary on one line.
func (m Model) filterLine(pairs [][2]string, summary string) string {
	bg := NewBgStyle(m.theme.Background)
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	parts := make([]string, 0, len(pairs)+1)
	for _, p := range pairs {
		parts = append(parts, bg.Pair(p[0], p[1], styles.MutedText, styles.AccentText))
	}
	parts = append(parts, bg.Render(summary, styles.FaintText))
	return bg.FillLine(" "+bg.Join(parts, "   "), m.width)
}

func (m Model) renderLeads(height int) string {
	ls := m.leads
	filters := m.filterLine([][2]string{
		{"Status:", orAll(ls.status)},
		{"Campaign:", orAll(ls.campaign)},
		{"Search:", orDash(ls.search)},
	}, pageSummary(ls.pager.Page, ls.info, len(ls.rows), "leads"))
	boxHeight := height - 1

	if ls.err != nil && !ls.loaded {
		return lipgloss.JoinVertical(lipgloss.Left, filters, m.renderErrorPanel(ls.err, m.width, min(boxHeight, 12)))
	}

	tableWidth := m.width
	var detail string
	if ls.detail && m.width >= LayoutCompactWidth {
		tableWidth = m.width * 3 / 5
		detail = m.renderLeadDetail(m.width-tableWidth, boxHeight)
	}

	title := "Leads"
	switch {
	case ls.loading:
		title += " (loading)"
	case ls.err != nil:
		title += " (" + presentError(ls.err).Title + ")"
	}

	var content string
	if len(ls.rows) == 0 {
		msg := "No leads match the current filters"
		if ls.loading || !ls.loaded {
			msg = "Loading leads..."
		}
		content = " " + NewBgStyle(m.paneBg(true)).Render(msg, m.theme.Styles().MutedText)
	} else {
		content = m.renderTable(m.leadsTable(tableWidth-2, boxHeight-2))
	}
	table := m.renderTitledBox(title, content, tableWidth, boxHeight, true)

	if ls.detail && m.width < LayoutCompactWidth {
		table = m.renderLeadDetail(m.width, boxHeight)
	} else if detail != "" {
		table = lipgloss.JoinHorizontal(lipgloss.Top, table, detail)
	}
	return lipgloss.JoinVertical(lipgloss.Left, filters, table)
}

func (m Model) leadsTable(width, height int) tableSpec {
	wide := width >= LayoutWideWidth-2
	cols := []column{
		{title: "Name", width: 16, flex: true},
		{title: "Phone", width: 16},
		{title: "Email", width: 20, flex: true},
		{title: "Status", width: 10},
	}
	if wide {
		cols = append(cols, column{title: "Company", width: 14, flex: true}, column{title: "Campaign", width: 16, flex: true})
	}
	cols = append(cols, column{title: "Calls", width: 5}, column{title: "Next Call", width: 12})

	rows := make([][]string, 0, len(m.leads.rows))
	for _, l := range m.leads.rows {
		row := []string{l.FullName(), FormatPhone(l.MobilePhone), l.Email, l.Status}
		if wide {
			row = append(row, orDash(l.Company), orDash(l.CampaignName))
		}
		row = append(row, fmt.Sprintf("%d", l.CallCount.Int()), orDash(FormatDate(l.NextCallDate)))
		rows = append(rows, row)
	}
	return tableSpec{
		columns:   cols,
		rows:      rows,
		selected:  m.leads.cursor,
		statusCol: 3,
		width:     width,
		height:    height,
		bg:        m.paneBg(true),
	}
}

func (m Model) renderLeadDetail(width, height int) string {
	lead, ok := m.selectedLead()
	if !ok {
		return m.renderTitledBox("Lead", "", width, height, false)
	}
	bgColor := m.paneBg(false)
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	field := func(label, value string) string {
		return bg.Pair(padRight(label, 11), orDash(value), styles.MutedText, styles.Text)
	}
	lines := []string{
		field("ID", lead.ID),
		field("Name", lead.FullName()),
		field("Email", lead.Email),
		field("Phone", FormatPhone(lead.MobilePhone)),
		field("Company", lead.Company),
		bg.Pair(padRight("Status", 11), orDash(lead.Status), styles.MutedText, lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(lead.Status))).Bold(true)),
		field("Campaign", lead.CampaignName),
		field("Calls", fmt.Sprintf("%d", lead.CallCount.Int())),
		field("Next call", FormatDateTime(lead.NextCallDate)),
		field("Uploaded", FormatDateTime(lead.UploadDate)),
	}
	if lead.Notes != "" {
		lines = append(lines, "", bg.Render("Notes", styles.MutedText))
		notes := lipgloss.NewStyle().Width(max(width-4, 10)).Render(lead.Notes)
		for _, l := range strings.Split(notes, "\n") {
			lines = append(lines, bg.Render(l, styles.Text))
		}
	}
	return m.renderTitledBox(displayName(lead), indent(strings.Join(lines, "\n")), width, height, false)
}
