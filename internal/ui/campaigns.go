package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/callboard/internal/webhook"
)

type campaignsState struct {
	cursor       int
	showInactive bool
}

const (
	campaignCardWidth  = 44
	campaignCardHeight = 9
)

// visibleCampaigns applies the inactive toggle to the snapshot's campaigns.
func (m Model) visibleCampaigns() []webhook.Campaign {
	out := make([]webhook.Campaign, 0, len(m.snapshot.Campaigns))
	for _, c := range m.snapshot.Campaigns {
		if c.Active() || m.campaigns.showInactive {
			out = append(out, c)
		}
	}
	return out
}

// campaignTotals sums per-campaign stats; campaigns without stats count zero.
type campaignTotals struct {
	campaigns int
	active    int
	leads     int
	activeL   int
	completed int
}

func sumCampaigns(campaigns []webhook.Campaign) campaignTotals {
	var t campaignTotals
	for _, c := range campaigns {
		t.campaigns++
		if c.Active() {
			t.active++
		}
		if c.Stats != nil {
			t.leads += c.Stats.TotalLeads.Int()
			t.activeL += c.Stats.ActiveLeads.Int()
			t.completed += c.Stats.CompletedLeads.Int()
		}
	}
	return t
}

// rate is part/whole as a fraction, zero when whole is zero.
func rate(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole)
}

func (m *Model) handleCampaignsKey(msg tea.KeyMsg) tea.Cmd {
	visible := m.visibleCampaigns()
	cols := m.campaignColumns()
	switch {
	case key.Matches(msg, m.keys.ToggleInactive):
		m.campaigns.showInactive = !m.campaigns.showInactive
		m.campaigns.cursor = 0
	case key.Matches(msg, m.keys.NextPage):
		m.campaigns.cursor = min(m.campaigns.cursor+1, max(len(visible)-1, 0))
	case key.Matches(msg, m.keys.PrevPage):
		m.campaigns.cursor = max(m.campaigns.cursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.campaigns.cursor = min(m.campaigns.cursor+cols, max(len(visible)-1, 0))
	case key.Matches(msg, m.keys.Up):
		m.campaigns.cursor = max(m.campaigns.cursor-cols, 0)
	case key.Matches(msg, m.keys.Top):
		m.campaigns.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.campaigns.cursor = max(len(visible)-1, 0)
	}
	return nil
}

func (m Model) campaignColumns() int {
	return max(m.width/campaignCardWidth, 1)
}

func (m Model) renderCampaigns(height int) string {
	visible := m.visibleCampaigns()
	totals := m.renderCampaignTotals(sumCampaigns(m.snapshot.Campaigns))

	if len(visible) == 0 {
		msg := "No campaigns"
		switch {
		case m.snapshot.LastError != nil && len(m.snapshot.Campaigns) == 0:
			return lipgloss.JoinVertical(lipgloss.Left, totals,
				m.renderErrorPanel(m.snapshot.LastError, m.width, min(height-1, 12)))
		case m.lastUpdated.IsZero():
			msg = "Loading campaigns..."
		case len(m.snapshot.Campaigns) > 0:
			msg = "All campaigns are inactive (i to show)"
		}
		return lipgloss.JoinVertical(lipgloss.Left, totals,
			m.centered(NewBgStyle(m.theme.Background).Render(msg, m.theme.Styles().MutedText), height-1))
	}

	cols := m.campaignColumns()
	cardW := m.width / cols
	visibleRows := max((height-1)/campaignCardHeight, 1)
	cursorRow := m.campaigns.cursor / cols
	firstRow := max(cursorRow-visibleRows+1, 0)

	var rows []string
	for r := firstRow; r < firstRow+visibleRows; r++ {
		start := r * cols
		if start >= len(visible) {
			break
		}
		end := min(start+cols, len(visible))
		cards := make([]string, 0, cols)
		for i := start; i < end; i++ {
			cards = append(cards, m.renderCampaignCard(visible[i], cardW, i == m.campaigns.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, append([]string{totals}, rows...)...)
}

func (m Model) renderCampaignTotals(t campaignTotals) string {
	bg := NewBgStyle(m.theme.Background)
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	parts := []string{
		bg.Pair("Campaigns:", fmt.Sprintf("%d (%d active)", t.campaigns, t.active), styles.MutedText, styles.Text),
		bg.Pair("Leads:", FormatCount(t.leads), styles.MutedText, styles.Text),
		bg.Pair("Active:", FormatCount(t.activeL), styles.MutedText, styles.InfoText),
		bg.Pair("Completed:", FormatCount(t.completed), styles.MutedText, styles.SuccessText),
		bg.Pair("Completion:", FormatPercent(rate(t.completed, t.leads)), styles.MutedText, styles.Text),
	}
	return bg.FillLine(" "+bg.Join(parts, "   "), m.width)
}

func (m Model) renderCampaignCard(c webhook.Campaign, width int, focused bool) string {
	bgColor := m.paneBg(focused)
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	inner := max(width-4, 10)

	badge := styles.StatusStyle("active").Render("ACTIVE")
	if !c.Active() {
		badge = styles.StatusStyle("inactive").Render("INACTIVE")
	}

	lines := []string{badge}
	if c.Description != "" {
		lines = append(lines, bg.Render(truncate(c.Description, inner), styles.MutedText))
	} else {
		lines = append(lines, "")
	}

	var plan []string
	if c.SequenceTemplate != "" {
		plan = append(plan, c.SequenceTemplate)
	}
	if n := c.MaxCalls.Int(); n > 0 {
		plan = append(plan, fmt.Sprintf("%d calls", n))
	}
	if n := c.DurationWeeks.Int(); n > 0 {
		plan = append(plan, fmt.Sprintf("%d weeks", n))
	}
	lines = append(lines, bg.Render(truncate(orDash(strings.Join(plan, " · ")), inner), styles.FaintText))

	if c.Stats == nil {
		lines = append(lines, "", bg.Render("No stats", styles.FaintText))
	} else {
		total := c.Stats.TotalLeads.Int()
		active := c.Stats.ActiveLeads.Int()
		completed := c.Stats.CompletedLeads.Int()
		lines = append(lines,
			bg.Pair("Leads", FormatCount(total), styles.MutedText, styles.Text)+bg.Spaces(2)+
				bg.Pair("Active", FormatCount(active), styles.MutedText, styles.InfoText)+bg.Spaces(2)+
				bg.Pair("Done", FormatCount(completed), styles.MutedText, styles.SuccessText),
			bg.Pair("Completion", FormatPercent(rate(completed, total)), styles.MutedText, styles.Text)+bg.Spaces(2)+
				bg.Pair("Active rate", FormatPercent(rate(active, total)), styles.MutedText, styles.Text),
			m.progressBar(rate(completed, total), inner, bgColor),
		)
	}

	name := c.Name
	if name == "" {
		name = c.ID
	}
	return m.renderTitledBox(name, indent(strings.Join(lines, "\n")), width, campaignCardHeight, focused)
}

// progressBar draws a filled bar for a fraction in [0, 1].
func (m Model) progressBar(frac float64, width int, bgColor string) string {
	bg := NewBgStyle(bgColor)
	frac = min(max(frac, 0), 1)
	filled := int(frac * float64(width))
	return bg.Render(strings.Repeat("█", filled), lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Success))) +
		bg.Render(strings.Repeat("░", width-filled), lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Faint)))
}
