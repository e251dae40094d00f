package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐. Focused boxes use BorderFocus and FocusBg.
// Content lines wider than the box are cut, never wrapped.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	if width < 4 || height < 2 {
		return ""
	}
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := width - 2
	title = truncate(title, innerWidth-4)
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	clip := lipgloss.NewStyle().MaxWidth(innerWidth)
	fill := lipgloss.NewStyle().Width(innerWidth).Background(lipgloss.Color(bgColorStr))

	contentLines := strings.Split(content, "\n")
	boxHeight := height - 2
	lines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = clip.Render(contentLines[i])
		}
		lines = append(lines,
			bg.Render("│", borderStyle)+fill.Render(line)+bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(lines, "\n") + "\n" + bottomBorder
}

// paneBg returns the background a pane's content should be drawn on.
func (m Model) paneBg(focused bool) string {
	if focused {
		return m.theme.FocusBg
	}
	return m.theme.SurfaceAlt
}

// column describes one table column. Flex columns share the width left over
// by fixed ones.
type column struct {
	title string
	width int
	flex  bool
}

// tableSpec is everything renderTable needs; statusCol colors that column by
// status (-1 for none).
type tableSpec struct {
	columns   []column
	rows      [][]string
	selected  int
	statusCol int
	width     int
	height    int
	bg        string
}

// layoutColumns resolves flex widths so the row fits width, one space apart.
func layoutColumns(cols []column, width int) []int {
	widths := make([]int, len(cols))
	used := max(len(cols)-1, 0)
	flex := 0
	for i, c := range cols {
		if c.flex {
			flex++
			continue
		}
		widths[i] = c.width
		used += c.width
	}
	if flex == 0 {
		return widths
	}
	share := max((width-used)/flex, 0)
	extra := max(width-used-share*flex, 0)
	for i, c := range cols {
		if !c.flex {
			continue
		}
		widths[i] = max(share, c.width)
		if extra > 0 {
			widths[i]++
			extra--
		}
	}
	return widths
}

// renderTable draws a header row and as many data rows as fit, scrolled so
// the selected row stays visible.
func (m Model) renderTable(t tableSpec) string {
	styles := m.theme.Styles().WithBackground(t.bg)
	bg := NewBgStyle(t.bg)
	widths := layoutColumns(t.columns, t.width)

	cell := func(s string, w int) string { return padRight(truncate(s, w), w) }

	header := make([]string, len(t.columns))
	for i, c := range t.columns {
		header[i] = bg.Render(cell(c.title, widths[i]), styles.MutedText.Bold(true))
	}
	lines := []string{bg.FillLine(strings.Join(header, bg.Space()), t.width)}

	visible := max(t.height-1, 1)
	offset := 0
	if t.selected >= visible {
		offset = t.selected - visible + 1
	}

	for r := offset; r < len(t.rows) && r < offset+visible; r++ {
		row := t.rows[r]
		selected := r == t.selected
		rowBg := t.bg
		if selected {
			rowBg = m.theme.SelectionBg
		}
		rbg := NewBgStyle(rowBg)
		parts := make([]string, len(t.columns))
		for i := range t.columns {
			var v string
			if i < len(row) {
				v = row[i]
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Text))
			switch {
			case selected:
				style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
			case i == t.statusCol:
				style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(v)))
			}
			parts[i] = rbg.Render(cell(v, widths[i]), style)
		}
		lines = append(lines, rbg.FillLine(strings.Join(parts, rbg.Space()), t.width))
	}
	return strings.Join(lines, "\n")
}

// barItem is one labelled value in a horizontal bar chart.
type barItem struct {
	label string
	value int
	color string
}

// renderBars draws label, bar and value per item, scaled to the largest value.
func (m Model) renderBars(items []barItem, width int, bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	if len(items) == 0 {
		return bg.Render("No data", styles.MutedText)
	}

	labelWidth := 0
	valueWidth := 0
	peak := 0
	for _, it := range items {
		labelWidth = max(labelWidth, lipgloss.Width(it.label))
		valueWidth = max(valueWidth, len(FormatCount(it.value)))
		peak = max(peak, it.value)
	}
	labelWidth = min(labelWidth, max(width/3, 6))
	barWidth := max(width-labelWidth-valueWidth-2, 1)

	lines := make([]string, 0, len(items))
	for _, it := range items {
		filled := 0
		if peak > 0 {
			filled = it.value * barWidth / peak
		}
		if it.value > 0 && filled == 0 {
			filled = 1
		}
		color := it.color
		if color == "" {
			color = m.theme.Accent
		}
		barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		line := bg.Render(padRight(truncate(it.label, labelWidth), labelWidth), styles.Text) +
			bg.Space() +
			bg.Render(strings.Repeat("█", filled), barStyle) +
			bg.Render(strings.Repeat("░", barWidth-filled), styles.FaintText) +
			bg.Space() +
			bg.Render(fmt.Sprintf("%*s", valueWidth, FormatCount(it.value)), styles.MutedText)
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// centered places msg in the middle of the content area.
func (m Model) centered(msg string, height int) string {
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, msg,
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.Background)))
}

// renderErrorPanel shows a presented error inside a box.
func (m Model) renderErrorPanel(err error, width, height int) string {
	ev := presentError(err)
	bgColor := m.paneBg(false)
	styles := m.theme.Styles().WithBackground(bgColor)
	lines := []string{
		styles.DangerText.Render(ev.Title),
		"",
		styles.Text.Render(truncate(ev.Detail, width-4)),
	}
	if ev.Hint != "" {
		lines = append(lines, "", styles.MutedText.Render(ev.Hint))
	}
	lines = append(lines, "", styles.FaintText.Render("r to retry"))
	return m.renderTitledBox("Error", " "+strings.Join(lines, "\n "), width, height, false)
}
