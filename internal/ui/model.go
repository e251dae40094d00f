package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/five82/callboard/internal/config"
	"github.com/five82/callboard/internal/prefs"
	"github.com/five82/callboard/internal/state"
	"github.com/five82/callboard/internal/webhook"
)

// Options configure the UI runtime.
type Options struct {
	Context   context.Context
	Client    webhook.Backend
	Store     *state.Store
	Config    *config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	// Refresh asks the poller for an immediate dashboard fetch.
	Refresh func()
	Logger  logrus.FieldLogger
	// UITick is how often the snapshot is re-read; zero uses DefaultUIInterval.
	UITick time.Duration
}

// View identifies a top-level screen.
type View int

const (
	ViewDashboard View = iota
	ViewLeads
	ViewCalls
	ViewCampaigns
	ViewUpload
	ViewSettings
	ViewLogs
)

var viewOrder = []View{ViewDashboard, ViewLeads, ViewCalls, ViewCampaigns, ViewUpload, ViewSettings, ViewLogs}

func (v View) String() string {
	switch v {
	case ViewDashboard:
		return "Dashboard"
	case ViewLeads:
		return "Leads"
	case ViewCalls:
		return "Calls"
	case ViewCampaigns:
		return "Campaigns"
	case ViewUpload:
		return "Upload"
	case ViewSettings:
		return "Settings"
	case ViewLogs:
		return "Logs"
	default:
		return fmt.Sprintf("View(%d)", int(v))
	}
}

// Messages

type tickMsg time.Time

// actionMsg reports the outcome of a write. reload names the listing to
// refetch on success.
type actionMsg struct {
	label  string
	resp   *webhook.Response
	err    error
	reload View
}

// searchMsg carries a submitted search query for a listing view.
type searchMsg struct {
	view  View
	query string
}

type toast struct {
	text   string
	danger bool
	until  time.Time
}

// Model is the Bubble Tea model for the whole application.
type Model struct {
	ctx       context.Context
	client    webhook.Backend
	store     *state.Store
	config    *config.Config
	prefs     prefs.Prefs
	prefsPath string
	refresh   func()
	log       logrus.FieldLogger
	uiTick    time.Duration

	keys     keyMap
	theme    Theme
	width    int
	height   int
	showHelp bool
	modal    Modal
	toast    *toast

	currentView View
	snapshot    state.Snapshot
	lastUpdated time.Time

	dashboard dashboardState
	leads     leadsState
	calls     callsState
	campaigns campaignsState
	upload    uploadState
	settings  settingsState
	logState  logState
}

// New builds the model from opts.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	refresh := opts.Refresh
	if refresh == nil {
		refresh = func() {}
	}
	tick := opts.UITick
	if tick <= 0 {
		tick = DefaultUIInterval
	}
	pageSize := opts.Prefs.PageSize
	if pageSize <= 0 && opts.Config != nil {
		pageSize = opts.Config.PageSize
	}

	m := Model{
		ctx:       ctx,
		client:    opts.Client,
		store:     opts.Store,
		config:    opts.Config,
		prefs:     opts.Prefs,
		prefsPath: opts.PrefsPath,
		refresh:   refresh,
		log:       log,
		uiTick:    tick,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(opts.Prefs.Theme),
	}
	m.dashboard = dashboardState{recapLoading: true}
	m.leads = leadsState{pager: state.NewPager(pageSize)}
	m.calls = callsState{pager: state.NewPager(pageSize)}
	m.upload = newUploadState(opts.Prefs.Campaign)
	m.logState = logState{follow: true, viewport: viewport.New(0, 0)}
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
		m.lastUpdated = m.snapshot.LastUpdated
	}
	return m
}

// Init starts the UI tick and loads the dashboard recap.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.uiTick), m.fetchRecapCmd(m.dashboard.recapDay, false))
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLogViewport()
		return m, nil

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, cmd

	case tickMsg:
		return m, m.handleTick(time.Time(msg))

	case recapMsg:
		m.handleRecap(msg)
		return m, nil

	case leadsMsg:
		m.handleLeads(msg)
		return m, nil

	case callsMsg:
		m.handleCalls(msg)
		return m, nil

	case pathMsg:
		return m, m.handlePath(msg)

	case fileMsg:
		m.handleFile(msg)
		return m, nil

	case uploadStartedMsg:
		return m, m.handleUploadStarted(msg)

	case pingMsg:
		m.handlePing(msg)
		return m, nil

	case logsMsg:
		m.handleLogs(msg)
		return m, nil

	case searchMsg:
		return m, m.handleSearch(msg)

	case actionMsg:
		return m, m.handleAction(msg)
	}

	if m.currentView == ViewLogs {
		var cmd tea.Cmd
		m.logState.viewport, cmd = m.logState.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleTick(now time.Time) tea.Cmd {
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
		if !m.snapshot.LastUpdated.IsZero() {
			m.lastUpdated = m.snapshot.LastUpdated
		}
	}
	if m.toast != nil && now.After(m.toast.until) {
		m.toast = nil
	}
	cmds := []tea.Cmd{tickCmd(m.uiTick)}
	if m.currentView == ViewLogs && m.logState.follow && !m.logState.loading {
		cmds = append(cmds, m.loadLogsCmd())
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleSearch(msg searchMsg) tea.Cmd {
	switch msg.view {
	case ViewLeads:
		m.leads.search = msg.query
		m.leads.pager.Reset()
		return m.fetchLeadsCmd()
	case ViewCalls:
		m.calls.search = msg.query
		m.calls.pager.Reset()
		return m.fetchCallsCmd()
	case ViewLogs:
		m.logState.query = msg.query
		m.renderLogContent()
	}
	return nil
}

// handleAction reports a finished write and refetches what it changed.
func (m *Model) handleAction(msg actionMsg) tea.Cmd {
	if msg.reload == ViewUpload {
		m.upload.uploading = false
	}
	if msg.err != nil {
		ev := presentError(msg.err)
		m.log.WithError(msg.err).WithField("action", msg.label).Warn("action failed")
		text := ev.Title
		if ev.Detail != "" {
			text += ": " + ev.Detail
		}
		m.setToast(text, true)
		if msg.reload == ViewUpload {
			m.upload.resultErr = msg.err
			m.upload.result = ""
		}
		return nil
	}

	text := msg.label
	if env := msg.resp.Envelope(); env.Message != "" && !strings.EqualFold(env.Message, msg.label) {
		text = msg.label + ": " + env.Message
	}
	m.log.WithField("action", msg.label).Info("action completed")
	m.setToast(text, false)
	m.refresh()
	// Listings not refetched below reload from the server on the next visit.
	m.calls.stale = m.calls.loaded

	switch msg.reload {
	case ViewLeads:
		return m.refetchLeadsCmd()
	case ViewUpload:
		m.upload.result = uploadSummary(msg.resp)
		m.upload.resultErr = nil
		m.leads.stale = m.leads.loaded
	}
	return nil
}

func (m *Model) setToast(text string, danger bool) {
	m.toast = &toast{text: text, danger: danger, until: time.Now().Add(ToastDuration)}
}

// switchView activates v and loads its data on first visit.
func (m *Model) switchView(v View) tea.Cmd {
	m.currentView = v
	switch v {
	case ViewLeads:
		if m.leads.stale {
			return m.refetchLeadsCmd()
		}
		if !m.leads.loaded && !m.leads.loading {
			return m.fetchLeadsCmd()
		}
	case ViewCalls:
		if m.calls.stale {
			return m.refetchCallsCmd()
		}
		if !m.calls.loaded && !m.calls.loading {
			return m.fetchCallsCmd()
		}
	case ViewLogs:
		m.resizeLogViewport()
		return m.loadLogsCmd()
	case ViewCampaigns:
		m.campaigns.cursor = min(m.campaigns.cursor, max(len(m.visibleCampaigns())-1, 0))
	}
	return nil
}

func (m *Model) cycleView(delta int) tea.Cmd {
	idx := 0
	for i, v := range viewOrder {
		if v == m.currentView {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(viewOrder)) % len(viewOrder)
	return m.switchView(viewOrder[idx])
}

// reload refetches whatever the current view shows.
func (m *Model) reload() tea.Cmd {
	switch m.currentView {
	case ViewDashboard:
		m.refresh()
		m.dashboard.recapLoading = true
		return m.fetchRecapCmd(m.dashboard.recapDay, true)
	case ViewLeads:
		return m.refetchLeadsCmd()
	case ViewCalls:
		return m.refetchCallsCmd()
	case ViewCampaigns:
		m.refresh()
		m.setToast("Refreshing campaigns", false)
	case ViewUpload:
		if m.upload.path != "" {
			return m.loadFileCmd(m.upload.path)
		}
	case ViewSettings:
		return m.pingCmd()
	case ViewLogs:
		return m.loadLogsCmd()
	}
	return nil
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.prefs.Theme = m.theme.Name
	m.savePrefs()
	m.renderLogContent()
}

func (m *Model) savePrefs() {
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.log.WithError(err).Warn("save preferences")
		m.setToast("Could not save preferences: "+err.Error(), true)
	}
}

// readContext marks parent so reads skip the client's cache when fresh is set.
func readContext(parent context.Context, fresh bool) context.Context {
	if fresh {
		return webhook.FreshReads(parent)
	}
	return parent
}

// requestContext bounds one user-initiated call.
func requestContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	bodyHeight := max(m.height-Chrome, 1)
	var body string
	switch m.currentView {
	case ViewLeads:
		body = m.renderLeads(bodyHeight)
	case ViewCalls:
		body = m.renderCalls(bodyHeight)
	case ViewCampaigns:
		body = m.renderCampaigns(bodyHeight)
	case ViewUpload:
		body = m.renderUpload(bodyHeight)
	case ViewSettings:
		body = m.renderSettings(bodyHeight)
	case ViewLogs:
		body = m.renderLogs(bodyHeight)
	default:
		body = m.renderDashboard(bodyHeight)
	}
	body = lipgloss.NewStyle().
		Width(m.width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Background(lipgloss.Color(m.theme.Background)).
		Render(body)

	if m.modal != nil {
		body = m.renderModal(m.modal.View(m.theme, m.width, bodyHeight), bodyHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	if opts.Store == nil {
		return fmt.Errorf("ui requires a data store")
	}
	if opts.Client == nil {
		return fmt.Errorf("ui requires a webhook client")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
		opts.Context = ctx
	}

	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
