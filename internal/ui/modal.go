package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// renderModal centers a dialog over the content area.
func (m Model) renderModal(dialog string, height int) string {
	return lipgloss.Place(
		m.width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		dialog,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.Background)),
	)
}

func modalFrame(theme Theme, width int, border string) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Background(lipgloss.Color(theme.Surface)).
		Padding(1, 2).
		Width(width)
}

func modalWidth(width int) int {
	return min(max(width/2, 40), 72, max(width-4, 10))
}

// confirmModal asks a yes/no question and runs action on yes.
type confirmModal struct {
	title   string
	message string
	action  tea.Cmd
}

func newConfirmModal(title, message string, action tea.Cmd) *confirmModal {
	return &confirmModal{title: title, message: message, action: action}
}

func (c *confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(km, keys.Yes), key.Matches(km, keys.Confirm):
		return c, c.action, true
	case key.Matches(km, keys.No):
		return c, nil, true
	}
	return c, nil, false
}

func (c *confirmModal) View(theme Theme, width, _ int) string {
	styles := theme.Styles().WithBackground(theme.Surface)
	w := modalWidth(width)
	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.WarningText.Bold(true).Render(c.title),
		"",
		styles.Text.Width(w-4).Render(c.message),
		"",
		styles.AccentText.Render("y")+styles.MutedText.Render(" confirm   ")+
			styles.AccentText.Render("n/esc")+styles.MutedText.Render(" cancel"),
	)
	return modalFrame(theme, w, theme.Warning).Render(body)
}

// pickerModal offers a short list of choices.
type pickerModal struct {
	title   string
	options []string
	cursor  int
	choose  func(string) tea.Cmd
}

func newPickerModal(title string, options []string, current string, choose func(string) tea.Cmd) *pickerModal {
	p := &pickerModal{title: title, options: options, choose: choose}
	for i, o := range options {
		if strings.EqualFold(o, current) {
			p.cursor = i
		}
	}
	return p
}

func (p *pickerModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil, false
	}
	switch {
	case key.Matches(km, keys.Down):
		p.cursor = min(p.cursor+1, len(p.options)-1)
	case key.Matches(km, keys.Up):
		p.cursor = max(p.cursor-1, 0)
	case key.Matches(km, keys.Confirm):
		if len(p.options) == 0 {
			return p, nil, true
		}
		return p, p.choose(p.options[p.cursor]), true
	case key.Matches(km, keys.Escape):
		return p, nil, true
	}
	return p, nil, false
}

func (p *pickerModal) View(theme Theme, width, _ int) string {
	styles := theme.Styles().WithBackground(theme.Surface)
	w := min(modalWidth(width), 40)
	lines := []string{styles.AccentText.Bold(true).Render(p.title), ""}
	for i, o := range p.options {
		marker := "  "
		style := lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.StatusColor(o))).
			Background(lipgloss.Color(theme.Surface))
		if i == p.cursor {
			marker = "▸ "
			style = style.Bold(true)
		}
		lines = append(lines, styles.AccentText.Render(marker)+style.Render(o))
	}
	lines = append(lines, "", styles.FaintText.Render("enter select · esc cancel"))
	return modalFrame(theme, w, theme.Accent).Render(strings.Join(lines, "\n"))
}

// inputModal collects one line of text.
type inputModal struct {
	title  string
	input  textinput.Model
	submit func(string) tea.Msg
}

func newInputModal(title, placeholder, value string, submit func(string) tea.Msg) *inputModal {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = "> "
	in.CharLimit = 512
	in.SetValue(value)
	in.CursorEnd()
	in.Focus()
	return &inputModal{title: title, input: in, submit: submit}
}

func (i *inputModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Confirm):
			value := strings.TrimSpace(i.input.Value())
			submit := i.submit
			return i, func() tea.Msg { return submit(value) }, true
		case key.Matches(km, keys.Escape):
			return i, nil, true
		}
	}
	var cmd tea.Cmd
	i.input, cmd = i.input.Update(msg)
	return i, cmd, false
}

func (i *inputModal) View(theme Theme, width, _ int) string {
	styles := theme.Styles().WithBackground(theme.Surface)
	w := modalWidth(width)
	i.input.Width = w - 8
	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.AccentText.Bold(true).Render(i.title),
		"",
		i.input.View(),
		"",
		styles.FaintText.Render("enter apply · esc cancel"),
	)
	return modalFrame(theme, w, theme.Accent).Render(body)
}
