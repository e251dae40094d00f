package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/callboard/internal/webhook"
)

// Lead form field order; the keys double as API field names.
var leadFormFields = []struct {
	key   string
	label string
}{
	{"first_name", "First name"},
	{"last_name", "Last name"},
	{"email", "Email"},
	{"mobile_phone", "Mobile phone"},
	{"company", "Company"},
	{"notes", "Notes"},
	{"campaign_name", "Campaign"},
}

// validateLead checks the values a lead needs before it is sent.
func validateLead(values map[string]string) error {
	var errs []error
	if values["first_name"] == "" {
		errs = append(errs, errors.New("first name is required"))
	}
	if values["last_name"] == "" {
		errs = append(errs, errors.New("last name is required"))
	}
	if !ValidEmail(values["email"]) {
		errs = append(errs, errors.New("email is not valid"))
	}
	if !ValidPhone(values["mobile_phone"]) {
		errs = append(errs, errors.New("mobile phone needs 10 or 11 digits"))
	}
	return errors.Join(errs...)
}

// leadChanges returns the fields of values that differ from the lead.
// Phone numbers are compared by digits.
func leadChanges(lead webhook.Lead, values map[string]string) map[string]any {
	current := leadValues(lead)
	changes := map[string]any{}
	for _, f := range leadFormFields {
		if f.key == "campaign_name" {
			continue
		}
		old, v := current[f.key], values[f.key]
		if f.key == "mobile_phone" && digitsOnly(old) == digitsOnly(v) {
			continue
		}
		if old != v {
			changes[f.key] = v
		}
	}
	return changes
}

func leadValues(l webhook.Lead) map[string]string {
	return map[string]string{
		"first_name":    l.FirstName,
		"last_name":     l.LastName,
		"email":         l.Email,
		"mobile_phone":  l.MobilePhone,
		"company":       l.Company,
		"notes":         l.Notes,
		"campaign_name": l.CampaignName,
	}
}

// leadForm creates a lead, or edits one when lead is set.
type leadForm struct {
	lead   *webhook.Lead
	inputs []textinput.Model
	focus  int
	err    error
	submit func(values map[string]string) tea.Cmd
}

// newLeadForm opens the form. New leads default to the current campaign
// filter or the last upload campaign.
func (m *Model) newLeadForm(lead *webhook.Lead) *leadForm {
	f := &leadForm{lead: lead}
	initial := map[string]string{"campaign_name": m.leads.campaign}
	if initial["campaign_name"] == "" {
		initial["campaign_name"] = m.prefs.Campaign
	}
	if lead != nil {
		initial = leadValues(*lead)
	}
	for _, field := range leadFormFields {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 256
		in.Placeholder = field.label
		in.SetValue(initial[field.key])
		f.inputs = append(f.inputs, in)
	}
	f.inputs[0].Focus()

	client, parent := m.client, m.ctx
	if lead == nil {
		f.submit = func(values map[string]string) tea.Cmd {
			nl := webhook.NewLead{
				FirstName:    values["first_name"],
				LastName:     values["last_name"],
				Email:        values["email"],
				MobilePhone:  digitsOnly(values["mobile_phone"]),
				Company:      values["company"],
				Notes:        values["notes"],
				CampaignName: values["campaign_name"],
			}
			return m.writeCmd("Lead created", ViewLeads, func() (*webhook.Response, error) {
				ctx, cancel := requestContext(parent, RequestTimeout)
				defer cancel()
				return client.CreateLead(ctx, nl)
			})
		}
		return f
	}

	id, original := lead.ID, *lead
	f.submit = func(values map[string]string) tea.Cmd {
		changes := leadChanges(original, values)
		if len(changes) == 0 {
			return func() tea.Msg { return actionMsg{label: "No changes"} }
		}
		if phone, ok := changes["mobile_phone"].(string); ok {
			changes["mobile_phone"] = digitsOnly(phone)
		}
		return m.writeCmd("Lead updated", ViewLeads, func() (*webhook.Response, error) {
			ctx, cancel := requestContext(parent, RequestTimeout)
			defer cancel()
			return client.UpdateLead(ctx, id, changes)
		})
	}
	return f
}

func (f *leadForm) values() map[string]string {
	out := make(map[string]string, len(f.inputs))
	for i, field := range leadFormFields {
		out[field.key] = strings.TrimSpace(f.inputs[i].Value())
	}
	return out
}

func (f *leadForm) setFocus(i int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (i + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

func (f *leadForm) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Escape):
			return f, nil, true
		case key.Matches(km, keys.Tab), km.String() == "down":
			return f, f.setFocus(f.focus + 1), false
		case key.Matches(km, keys.ShiftTab), km.String() == "up":
			return f, f.setFocus(f.focus - 1), false
		case km.String() == "ctrl+s", key.Matches(km, keys.Confirm) && f.focus == len(f.inputs)-1:
			values := f.values()
			if err := validateLead(values); err != nil {
				f.err = err
				return f, nil, false
			}
			return f, f.submit(values), true
		case key.Matches(km, keys.Confirm):
			return f, f.setFocus(f.focus + 1), false
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

func (f *leadForm) View(theme Theme, width, _ int) string {
	styles := theme.Styles().WithBackground(theme.Surface)
	w := modalWidth(width)
	title := "New lead"
	if f.lead != nil {
		title = "Edit " + displayName(*f.lead)
	}

	lines := []string{styles.AccentText.Bold(true).Render(title), ""}
	for i, field := range leadFormFields {
		label := styles.MutedText
		if i == f.focus {
			label = styles.AccentText
		}
		f.inputs[i].Width = max(w-20, 10)
		lines = append(lines, label.Width(15).Render(field.label)+f.inputs[i].View())
	}
	if f.err != nil {
		lines = append(lines, "")
		for _, l := range strings.Split(f.err.Error(), "\n") {
			lines = append(lines, styles.DangerText.Render("• "+l))
		}
	}
	lines = append(lines, "", styles.FaintText.Render("tab next · enter on last field or ctrl+s save · esc cancel"))
	return modalFrame(theme, w, theme.Accent).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
