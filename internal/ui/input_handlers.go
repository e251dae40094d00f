package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKey routes a key press: open modals first, then the help overlay,
// then global bindings, then the current view.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	if m.modal != nil {
		modal, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return cmd
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Quit) {
			m.showHelp = false
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return nil
	case key.Matches(msg, m.keys.Tab):
		return m.cycleView(1)
	case key.Matches(msg, m.keys.ShiftTab):
		return m.cycleView(-1)
	case key.Matches(msg, m.keys.ViewDashboard):
		return m.switchView(ViewDashboard)
	case key.Matches(msg, m.keys.ViewLeads):
		return m.switchView(ViewLeads)
	case key.Matches(msg, m.keys.ViewCalls):
		return m.switchView(ViewCalls)
	case key.Matches(msg, m.keys.ViewCampaigns):
		return m.switchView(ViewCampaigns)
	case key.Matches(msg, m.keys.ViewUpload):
		return m.switchView(ViewUpload)
	case key.Matches(msg, m.keys.ViewSettings):
		return m.switchView(ViewSettings)
	case key.Matches(msg, m.keys.ViewLogs):
		return m.switchView(ViewLogs)
	case key.Matches(msg, m.keys.Reload):
		return m.reload()
	}

	switch m.currentView {
	case ViewDashboard:
		return m.handleDashboardKey(msg)
	case ViewLeads:
		return m.handleLeadsKey(msg)
	case ViewCalls:
		return m.handleCallsKey(msg)
	case ViewCampaigns:
		return m.handleCampaignsKey(msg)
	case ViewUpload:
		return m.handleUploadKey(msg)
	case ViewSettings:
		return m.handleSettingsKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}
	return nil
}

// moveCursor applies the shared list navigation keys to cursor. ok is false
// when msg is not a navigation key.
func (m *Model) moveCursor(msg tea.KeyMsg, cursor, count int) (int, bool) {
	switch {
	case key.Matches(msg, m.keys.Down):
		return min(cursor+1, max(count-1, 0)), true
	case key.Matches(msg, m.keys.Up):
		return max(cursor-1, 0), true
	case key.Matches(msg, m.keys.Top):
		return 0, true
	case key.Matches(msg, m.keys.Bottom):
		return max(count-1, 0), true
	}
	return cursor, false
}
