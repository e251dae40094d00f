package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding
	Reload     key.Binding

	// View switching
	ViewDashboard key.Binding
	ViewLeads     key.Binding
	ViewCalls     key.Binding
	ViewCampaigns key.Binding
	ViewUpload    key.Binding
	ViewSettings  key.Binding
	ViewLogs      key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	NextPage key.Binding
	PrevPage key.Binding

	// Dashboard
	NextTimeFrame key.Binding
	PrevTimeFrame key.Binding
	ToggleRecap   key.Binding

	// Listings
	CycleFilter   key.Binding
	CycleCampaign key.Binding
	CyclePeriod   key.Binding
	Search        key.Binding
	Detail        key.Binding

	// Lead actions
	AddLead     key.Binding
	EditLead    key.Binding
	SetStatus   key.Binding
	DeleteLead  key.Binding
	TriggerCall key.Binding

	// Campaigns
	ToggleInactive key.Binding

	// Upload
	EditPath       key.Binding
	ToggleSkipDups key.Binding
	ToggleMapping  key.Binding
	Submit         key.Binding

	// Settings
	Ping key.Binding

	// Logs
	ToggleFollow key.Binding
	CycleLevel   key.Binding

	// Prompts
	Confirm key.Binding
	Yes     key.Binding
	No      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next view"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous view"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back / cancel"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload"),
		),

		ViewDashboard: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "Dashboard")),
		ViewLeads:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "Leads")),
		ViewCalls:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "Calls")),
		ViewCampaigns: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "Campaigns")),
		ViewUpload:    key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "Upload")),
		ViewSettings:  key.NewBinding(key.WithKeys("6"), key.WithHelp("6", "Settings")),
		ViewLogs:      key.NewBinding(key.WithKeys("7"), key.WithHelp("7", "Logs")),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("n", "right", "pgdown"),
			key.WithHelp("n/→", "Next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p", "left", "pgup"),
			key.WithHelp("p/←", "Previous page"),
		),

		NextTimeFrame: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "Next time frame")),
		PrevTimeFrame: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "Previous time frame")),
		ToggleRecap:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "Recap today/yesterday")),

		CycleFilter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "Cycle status filter")),
		CycleCampaign: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "Cycle campaign filter")),
		CyclePeriod:   key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "Cycle call period")),
		Search:        key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "Search")),
		Detail:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "Toggle detail")),

		AddLead:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "Add lead")),
		EditLead:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "Edit lead")),
		SetStatus:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "Change status")),
		DeleteLead:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "Delete lead")),
		TriggerCall: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "Call now")),

		ToggleInactive: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "Show inactive")),

		EditPath:       key.NewBinding(key.WithKeys("e", "o"), key.WithHelp("e", "Edit file path")),
		ToggleSkipDups: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "Skip duplicates")),
		ToggleMapping:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "Use suggested mapping")),
		Submit:         key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "Upload")),

		Ping: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "Test connection")),

		ToggleFollow: key.NewBinding(key.WithKeys(" "), key.WithHelp("Space", "Toggle follow")),
		CycleLevel:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "Cycle level filter")),

		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "Confirm")),
		Yes:     key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "Yes")),
		No:      key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "No")),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings grouped the way the help overlay shows them.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.ViewDashboard, k.ViewLeads, k.ViewCalls, k.ViewCampaigns, k.ViewUpload, k.ViewSettings, k.ViewLogs},
		{k.Up, k.Down, k.Top, k.Bottom, k.NextPage, k.PrevPage},
		{k.NextTimeFrame, k.PrevTimeFrame, k.ToggleRecap},
		{k.CycleFilter, k.CycleCampaign, k.CyclePeriod, k.Search, k.Detail, k.AddLead, k.EditLead, k.SetStatus, k.DeleteLead, k.TriggerCall},
		{k.EditPath, k.ToggleSkipDups, k.ToggleMapping, k.Submit},
		{k.Ping, k.ToggleFollow, k.CycleLevel},
		{k.Reload, k.CycleTheme, k.Help, k.Quit},
	}
}
