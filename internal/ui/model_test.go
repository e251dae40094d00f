package ui

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/callboard/internal/config"
	"github.com/five82/callboard/internal/prefs"
	"github.com/five82/callboard/internal/state"
	"github.com/five82/callboard/internal/webhook"
)

// fakeBackend records calls and serves canned pages.
type fakeBackend struct {
	leads      []webhook.Lead
	leadsInfo  *webhook.Pagination
	calls      []webhook.Call
	recap      *webhook.Recap
	deleteErr  error
	pingErr    error
	leadQuery  []webhook.LeadQuery
	callQuery  []webhook.CallQuery
	recapDates []string
	freshLeads []bool // per GetLeads call, whether the read skipped the cache
	freshCalls []bool
	freshRecap []bool
	created    []webhook.NewLead
	updated    map[string]map[string]any
	statuses   map[string]string
	deleted    []string
	triggered  []string
	uploads    []webhook.CSVUpload
	pings      int
}

func okResponse() (*webhook.Response, error) {
	return &webhook.Response{StatusCode: 200, Body: json.RawMessage(`{"status":"success","message":"ok"}`)}, nil
}

func (f *fakeBackend) GetCampaigns(context.Context, bool) (*webhook.CampaignsResponse, error) {
	return &webhook.CampaignsResponse{}, nil
}

func (f *fakeBackend) GetLeads(ctx context.Context, q webhook.LeadQuery) (*webhook.LeadsPage, error) {
	f.leadQuery = append(f.leadQuery, q)
	f.freshLeads = append(f.freshLeads, webhook.IsFreshRead(ctx))
	return &webhook.LeadsPage{Leads: f.leads, Pagination: f.leadsInfo}, nil
}

func (f *fakeBackend) CreateLead(_ context.Context, l webhook.NewLead) (*webhook.Response, error) {
	f.created = append(f.created, l)
	return okResponse()
}

func (f *fakeBackend) UpdateLead(_ context.Context, id string, fields map[string]any) (*webhook.Response, error) {
	if f.updated == nil {
		f.updated = map[string]map[string]any{}
	}
	f.updated[id] = fields
	return okResponse()
}

func (f *fakeBackend) UpdateLeadStatus(_ context.Context, id, status string) (*webhook.Response, error) {
	if f.statuses == nil {
		f.statuses = map[string]string{}
	}
	f.statuses[id] = status
	return okResponse()
}

func (f *fakeBackend) DeleteLead(_ context.Context, id string) (*webhook.Response, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return okResponse()
}

func (f *fakeBackend) GetCalls(ctx context.Context, q webhook.CallQuery) (*webhook.CallsPage, error) {
	f.callQuery = append(f.callQuery, q)
	f.freshCalls = append(f.freshCalls, webhook.IsFreshRead(ctx))
	return &webhook.CallsPage{Calls: f.calls}, nil
}

func (f *fakeBackend) GetStats(context.Context, webhook.StatsQuery) (*webhook.Stats, error) {
	return &webhook.Stats{}, nil
}

func (f *fakeBackend) GetRecap(ctx context.Context, date string) (*webhook.Recap, error) {
	f.recapDates = append(f.recapDates, date)
	f.freshRecap = append(f.freshRecap, webhook.IsFreshRead(ctx))
	if f.recap == nil {
		return &webhook.Recap{Date: date}, nil
	}
	return f.recap, nil
}

func (f *fakeBackend) UploadCSV(_ context.Context, u webhook.CSVUpload) (*webhook.Response, error) {
	f.uploads = append(f.uploads, u)
	return &webhook.Response{StatusCode: 200, Body: json.RawMessage(`{"imported":2,"duplicates":1}`)}, nil
}

func (f *fakeBackend) TriggerCall(_ context.Context, id string) (*webhook.Response, error) {
	f.triggered = append(f.triggered, id)
	return okResponse()
}

func (f *fakeBackend) Ping(context.Context) error {
	f.pings++
	return f.pingErr
}

type harness struct {
	model     Model
	backend   *fakeBackend
	store     *state.Store
	prefsPath string
	refreshes int
}

func newHarness(t *testing.T, fb *fakeBackend) *harness {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.BaseURL = "https://n8n.example.com/webhook"
	cfg.PageSize = 25
	cfg.LogFile = filepath.Join(dir, "callboard.log")

	h := &harness{
		backend:   fb,
		store:     state.NewStore(webhook.TimeFrameLast7Days),
		prefsPath: filepath.Join(dir, "prefs.toml"),
	}
	h.model = New(Options{
		Context:   context.Background(),
		Client:    fb,
		Store:     h.store,
		Config:    &cfg,
		Prefs:     prefs.Default(),
		PrefsPath: h.prefsPath,
		Refresh:   func() { h.refreshes++ },
	})
	h.send(t, tea.WindowSizeMsg{Width: 140, Height: 40})
	return h
}

// send delivers msg and runs every resulting command to completion.
func (h *harness) send(t *testing.T, msg tea.Msg) {
	t.Helper()
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	h.run(t, cmd)
}

// press types a key. Commands from text entry are dropped, since they only
// drive cursor blinking.
func (h *harness) press(t *testing.T, k string) {
	t.Helper()
	next, cmd := h.model.Update(keyMsg(k))
	h.model = next.(Model)
	if len([]rune(k)) > 1 && !isNamedKey(k) {
		return
	}
	h.run(t, cmd)
}

// nav moves between form fields, dropping the focus commands.
func (h *harness) nav(t *testing.T, k string) {
	t.Helper()
	next, _ := h.model.Update(keyMsg(k))
	h.model = next.(Model)
}

func (h *harness) run(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 50, "command loop did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, tickMsg, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			next, nc := h.model.Update(msg)
			h.model = next.(Model)
			queue = append(queue, nc)
		}
	}
}

var namedKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEscape,
	"tab":       tea.KeyTab,
	"shift+tab": tea.KeyShiftTab,
	"ctrl+c":    tea.KeyCtrlC,
	"ctrl+s":    tea.KeyCtrlS,
	"down":      tea.KeyDown,
	"up":        tea.KeyUp,
}

func isNamedKey(k string) bool {
	_, ok := namedKeys[k]
	return ok
}

func keyMsg(k string) tea.KeyMsg {
	if kt, ok := namedKeys[k]; ok {
		return tea.KeyMsg{Type: kt}
	}
	if k == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func sampleLeads() []webhook.Lead {
	return []webhook.Lead{
		{ID: "L1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", MobilePhone: "5551234567", Status: "New"},
		{ID: "L2", FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", MobilePhone: "5559876543", Status: "Calling"},
	}
}

func TestModel_SwitchingViewsLoadsOnFirstVisit(t *testing.T) {
	h := newHarness(t, &fakeBackend{leads: sampleLeads()})

	h.press(t, "2")
	assert.Equal(t, ViewLeads, h.model.currentView)
	require.Len(t, h.backend.leadQuery, 1)
	assert.Equal(t, webhook.LeadQuery{Page: 1, Limit: 25}, h.backend.leadQuery[0])
	assert.Len(t, h.model.leads.rows, 2)

	h.press(t, "tab")
	assert.Equal(t, ViewCalls, h.model.currentView)
	assert.Len(t, h.backend.callQuery, 1)

	// Returning to a loaded view does not refetch.
	h.press(t, "shift+tab")
	assert.Equal(t, ViewLeads, h.model.currentView)
	assert.Len(t, h.backend.leadQuery, 1)

	h.press(t, "shift+tab")
	h.press(t, "shift+tab")
	assert.Equal(t, ViewLogs, h.model.currentView, "shift+tab wraps from Dashboard to Logs")
}

func TestModel_LeadsPaginationFollowsServer(t *testing.T) {
	fb := &fakeBackend{leads: sampleLeads(), leadsInfo: &webhook.Pagination{Page: 1, TotalPages: 2, Total: 30}}
	h := newHarness(t, fb)
	h.press(t, "2")

	h.press(t, "n")
	require.Len(t, fb.leadQuery, 2)
	assert.Equal(t, 2, fb.leadQuery[1].Page)

	// Page 2 of 2: no further request.
	h.press(t, "n")
	assert.Len(t, fb.leadQuery, 2)

	h.press(t, "p")
	require.Len(t, fb.leadQuery, 3)
	assert.Equal(t, 1, fb.leadQuery[2].Page)
}

func TestModel_LeadFiltersResetPage(t *testing.T) {
	fb := &fakeBackend{leads: sampleLeads(), leadsInfo: &webhook.Pagination{TotalPages: 5}}
	h := newHarness(t, fb)
	h.press(t, "2")
	h.press(t, "n")

	h.press(t, "f")
	last := fb.leadQuery[len(fb.leadQuery)-1]
	assert.Equal(t, 1, last.Page)
	assert.Equal(t, webhook.LeadStatusNew, last.Status)

	h.press(t, "/")
	require.NotNil(t, h.model.modal)
	h.press(t, "lovelace")
	h.press(t, "enter")
	assert.Nil(t, h.model.modal)
	last = fb.leadQuery[len(fb.leadQuery)-1]
	assert.Equal(t, "lovelace", last.Search)
	assert.Equal(t, webhook.LeadStatusNew, last.Status)
}

func TestModel_DeleteLeadAsksFirst(t *testing.T) {
	fb := &fakeBackend{leads: sampleLeads()}
	h := newHarness(t, fb)
	h.press(t, "2")
	h.press(t, "j")

	h.press(t, "d")
	require.NotNil(t, h.model.modal)
	h.press(t, "n")
	assert.Nil(t, h.model.modal)
	assert.Empty(t, fb.deleted)

	h.press(t, "d")
	h.press(t, "y")
	assert.Equal(t, []string{"L2"}, fb.deleted)
	require.NotNil(t, h.model.toast)
	assert.False(t, h.model.toast.danger)
	assert.Equal(t, 1, h.refreshes)
	assert.Len(t, fb.leadQuery, 2, "leads are refetched after a delete")
	assert.Equal(t, []bool{false, true}, fb.freshLeads, "the refetch after a delete skips the read cache")
}

func TestModel_ReloadReadsFromServer(t *testing.T) {
	fb := &fakeBackend{leads: sampleLeads()}
	h := newHarness(t, fb)

	h.press(t, "2")
	h.press(t, "r")
	assert.Equal(t, []bool{false, true}, fb.freshLeads)

	h.press(t, "3")
	h.press(t, "r")
	assert.Equal(t, []bool{false, true}, fb.freshCalls)

	h.press(t, "1")
	h.press(t, "r")
	require.NotEmpty(t, fb.freshRecap)
	assert.True(t, fb.freshRecap[len(fb.freshRecap)-1])
	assert.Equal(t, 1, h.refreshes, "dashboard reload asks the poller too")
}

func TestModel_WriteMarksOtherListingsForServerReload(t *testing.T) {
	fb := &fakeBackend{leads: sampleLeads()}
	h := newHarness(t, fb)

	h.press(t, "3")
	h.press(t, "2")
	require.Equal(t, []bool{false}, fb.freshCalls)

	h.press(t, "t")
	h.press(t, "y")
	require.Equal(t, []string{"L1"}, fb.triggered)
	assert.True(t, h.model.calls.stale)

	h.press(t, "3")
	assert.Equal(t, []bool{false, true}, fb.freshCalls, "calls reload past the cache after a write")
	assert.False(t, h.model.calls.stale)

	// A later visit with nothing written in between keeps what is loaded.
	h.press(t, "2")
	h.press(t, "3")
	assert.Len(t, fb.freshCalls, 2)
}

func TestModel_FailedActionShowsPresentedError(t *testing.T) {
	fb := &fakeBackend{
		leads:     sampleLeads(),
		deleteErr: &webhook.Error{Kind: webhook.KindTransport, Method: "POST", Endpoint: "api/delete-lead", Attempts: 1, StatusCode: 404},
	}
	h := newHarness(t, fb)
	h.press(t, "2")
	h.press(t, "d")
	h.press(t, "y")

	require.NotNil(t, h.model.toast)
	assert.True(t, h.model.toast.danger)
	assert.Contains(t, h.model.toast.text, "Resource not found")
	assert.Equal(t, 0, h.refreshes)
}

func TestModel_CallPeriodFilter(t *testing.T) {
	fb := &fakeBackend{}
	h := newHarness(t, fb)
	h.press(t, "3")
	require.Len(t, fb.callQuery, 1)
	assert.Nil(t, fb.callQuery[0].Filters)

	h.model.calls.pager.Page = 3
	h.press(t, "D")
	require.Len(t, fb.callQuery, 2)
	assert.Equal(t, map[string]string{"date": "Today"}, fb.callQuery[1].Filters)
	assert.Equal(t, 1, fb.callQuery[1].Page, "changing the period starts from page 1")

	h.press(t, "f")
	h.press(t, "D")
	last := fb.callQuery[len(fb.callQuery)-1]
	assert.Equal(t, map[string]string{"date": "Last 7 Days", "disposition": "Answered"}, last.Filters)
	assert.Equal(t, "Last 7 Days", h.model.calls.period)
	assert.Contains(t, h.model.View(), "Period:")

	h.press(t, "D")
	h.press(t, "D")
	assert.Empty(t, h.model.calls.period, "cycling wraps back to all periods")
	assert.Equal(t, map[string]string{"disposition": "Answered"}, fb.callQuery[len(fb.callQuery)-1].Filters)
}

func TestModel_StatusPickerAndTriggerCall(t *testing.T) {
	fb := &fakeBackend{leads: sampleLeads()}
	h := newHarness(t, fb)
	h.press(t, "2")

	h.press(t, "s")
	require.NotNil(t, h.model.modal)
	h.press(t, "j") // New -> Calling
	h.press(t, "enter")
	assert.Equal(t, map[string]string{"L1": webhook.LeadStatusCalling}, fb.statuses)

	h.press(t, "t")
	h.press(t, "y")
	assert.Equal(t, []string{"L1"}, fb.triggered)
}

func TestModel_LeadFormValidatesBeforeCreating(t *testing.T) {
	fb := &fakeBackend{}
	h := newHarness(t, fb)
	h.press(t, "2")

	h.press(t, "a")
	form, ok := h.model.modal.(*leadForm)
	require.True(t, ok, "a opens the lead form")

	h.press(t, "ctrl+s")
	require.NotNil(t, h.model.modal, "invalid form stays open")
	require.Error(t, form.err)
	assert.Contains(t, form.err.Error(), "first name is required")
	assert.Empty(t, fb.created)

	for _, v := range []string{"Ada", "Lovelace", "ada@example.com", "(555) 123-4567"} {
		h.press(t, v)
		h.nav(t, "enter")
	}
	h.press(t, "ctrl+s")
	assert.Nil(t, h.model.modal)
	require.Len(t, fb.created, 1)
	assert.Equal(t, webhook.NewLead{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		MobilePhone: "5551234567",
	}, fb.created[0])
}

func TestModel_EditLeadSendsOnlyChanges(t *testing.T) {
	fb := &fakeBackend{leads: sampleLeads()}
	h := newHarness(t, fb)
	h.press(t, "2")

	h.press(t, "e")
	require.NotNil(t, h.model.modal)
	for range 4 {
		h.nav(t, "enter")
	}
	h.press(t, "Analytical Engines")
	h.press(t, "ctrl+s")

	assert.Equal(t, map[string]any{"company": "Analytical Engines"}, fb.updated["L1"])
}

func TestModel_TimeFrameCycleRefreshesAndPersists(t *testing.T) {
	h := newHarness(t, &fakeBackend{})

	h.press(t, "]")
	assert.Equal(t, webhook.TimeFrameLast30Days, h.store.TimeFrame())
	assert.Equal(t, 1, h.refreshes)

	saved, err := prefs.Load(h.prefsPath)
	require.NoError(t, err)
	assert.Equal(t, "last30days", saved.TimeFrame)

	h.press(t, "[")
	h.press(t, "[")
	h.press(t, "[")
	assert.Equal(t, webhook.TimeFrameAllTime, h.store.TimeFrame(), "previous wraps past today")
}

func TestModel_RecapToggleFetchesYesterday(t *testing.T) {
	fb := &fakeBackend{}
	h := newHarness(t, fb)

	h.press(t, "y")
	require.Len(t, fb.recapDates, 1)
	assert.Equal(t, time.Now().AddDate(0, 0, -1).Format("2006-01-02"), fb.recapDates[0])
	require.NotNil(t, h.model.dashboard.recap)
	assert.False(t, h.model.dashboard.recapLoading)

	h.press(t, "y")
	assert.Equal(t, "", fb.recapDates[1], "today is left to the server")
}

func TestModel_StaleLeadsResponseIgnored(t *testing.T) {
	h := newHarness(t, &fakeBackend{})
	first := h.model.fetchLeadsCmd()
	second := h.model.fetchLeadsCmd()
	require.NotNil(t, first)
	require.NotNil(t, second)

	h.send(t, leadsMsg{seq: 1, page: &webhook.LeadsPage{Leads: sampleLeads()}})
	assert.Empty(t, h.model.leads.rows)
	assert.True(t, h.model.leads.loading)

	h.send(t, leadsMsg{seq: 2, page: &webhook.LeadsPage{Leads: sampleLeads()[:1]}})
	assert.Len(t, h.model.leads.rows, 1)
	assert.False(t, h.model.leads.loading)
}

func TestModel_UploadFlow(t *testing.T) {
	fb := &fakeBackend{}
	h := newHarness(t, fb)

	csvPath := filepath.Join(t.TempDir(), "leads.csv")
	text := "First Name,last_name,email,mobile_phone\nAda,Lovelace,ada@example.com,5551234567\nGrace,Hopper,grace@example.com,5559876543\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(text), 0o600))

	h.press(t, "5")
	h.press(t, "u")
	require.NotNil(t, h.model.toast, "upload without a file is refused")
	assert.True(t, h.model.toast.danger)

	h.press(t, "e")
	h.press(t, csvPath)
	h.press(t, "enter")
	require.NoError(t, h.model.upload.loadErr)
	require.NotNil(t, h.model.upload.file)
	assert.Equal(t, 2, h.model.upload.file.Rows)
	assert.Equal(t, map[string]string{"First Name": "first_name"}, h.model.upload.mapping)
	assert.Empty(t, h.model.upload.missingColumns())

	h.press(t, "x") // skip duplicates off
	h.press(t, "u")
	require.NotNil(t, h.model.modal)
	h.press(t, "y")

	require.Len(t, fb.uploads, 1)
	got := fb.uploads[0]
	assert.Equal(t, text, got.CSVData)
	assert.Equal(t, map[string]string{"First Name": "first_name"}, got.ColumnMapping)
	require.NotNil(t, got.Options)
	assert.Equal(t, defaultUploadCampaign, got.Options.CampaignName)
	assert.False(t, got.Options.SkipDuplicates)
	assert.False(t, h.model.upload.uploading)
	assert.Equal(t, "2 imported · 1 duplicates", h.model.upload.result)

	// Leads were never loaded, so the first visit is an ordinary load.
	h.press(t, "2")
	assert.Equal(t, []bool{false}, fb.freshLeads)
}

func TestModel_UploadMarksLoadedLeadsStale(t *testing.T) {
	fb := &fakeBackend{leads: sampleLeads()}
	h := newHarness(t, fb)
	h.press(t, "2")

	h.send(t, actionMsg{label: "Upload", reload: ViewUpload, resp: &webhook.Response{StatusCode: 200, Body: json.RawMessage(`{"imported":2}`)}})
	assert.True(t, h.model.leads.stale)

	h.press(t, "2")
	assert.Equal(t, []bool{false, true}, fb.freshLeads)
	assert.False(t, h.model.leads.stale)
}

func TestModel_ThemeCyclePersists(t *testing.T) {
	h := newHarness(t, &fakeBackend{})
	h.press(t, "T")
	assert.Equal(t, "Kanagawa", h.model.theme.Name)

	saved, err := prefs.Load(h.prefsPath)
	require.NoError(t, err)
	assert.Equal(t, "Kanagawa", saved.Theme)
}

func TestModel_SettingsPing(t *testing.T) {
	fb := &fakeBackend{}
	h := newHarness(t, fb)
	h.press(t, "6")
	h.press(t, "t")
	assert.Equal(t, 1, fb.pings)
	assert.NoError(t, h.model.settings.pingErr)
	assert.False(t, h.model.settings.pinged.IsZero())
	assert.Contains(t, h.model.View(), "Connected")
}

func TestModel_LogsLevelFilter(t *testing.T) {
	h := newHarness(t, &fakeBackend{})
	lines := strings.Join([]string{
		`time="2025-12-19T10:00:00Z" level=debug msg="poll" component=poller`,
		`time="2025-12-19T10:00:01Z" level=info msg="callboard started"`,
		`time="2025-12-19T10:00:02Z" level=error msg="fetch leads" error="boom"`,
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(h.model.config.LogFile, []byte(lines), 0o600))

	h.press(t, "7")
	require.Len(t, h.model.logState.entries, 3)
	assert.Equal(t, 3, h.model.logState.shown)

	h.press(t, "f") // debug
	assert.Equal(t, 3, h.model.logState.shown)
	h.press(t, "f") // info
	assert.Equal(t, 2, h.model.logState.shown)
	h.press(t, "f") // warning
	assert.Equal(t, 1, h.model.logState.shown)

	h.press(t, " ")
	assert.False(t, h.model.logState.follow)
}

func TestModel_QuitAndHelp(t *testing.T) {
	h := newHarness(t, &fakeBackend{})

	h.press(t, "?")
	assert.True(t, h.model.showHelp)
	assert.Contains(t, h.model.View(), "Keyboard Shortcuts")
	h.press(t, "esc")
	assert.False(t, h.model.showHelp)

	_, cmd := h.model.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_ViewRendersEveryScreen(t *testing.T) {
	fb := &fakeBackend{leads: sampleLeads(), calls: []webhook.Call{{ID: "C1", Disposition: "Answered", DurationSeconds: 95}}}
	h := newHarness(t, fb)
	h.store.Update(webhook.TimeFrameLast7Days, &webhook.Stats{
		Totals:               webhook.StatsTotals{TotalLeads: 1200, TotalCalls: 340, AnswerRate: 0.42},
		DispositionBreakdown: map[string]webhook.FlexInt{"Answered": 140, "Voicemail": 90},
		DailyStats:           []webhook.DailyStat{{Date: "2025-12-18", Calls: 40}},
	}, []webhook.Campaign{{ID: "c1", Name: "Winter", Stats: &webhook.CampaignStats{TotalLeads: 10, CompletedLeads: 4}}}, nil)
	next, _ := h.model.Update(tickMsg(time.Now())) // the follow-up tick would block
	h.model = next.(Model)

	want := map[string]string{
		"1": "Connections",
		"2": "Lovelace",
		"3": "Answered",
		"4": "Winter",
		"5": "Upload",
		"6": "Configuration",
		"7": "Application",
	}
	for k, text := range want {
		h.press(t, k)
		out := h.model.View()
		assert.Contains(t, out, text, "view %s", h.model.currentView)
		assert.Contains(t, out, "callboard")
	}
}

func TestValidateLead(t *testing.T) {
	valid := map[string]string{
		"first_name":   "Ada",
		"last_name":    "Lovelace",
		"email":        "ada@example.com",
		"mobile_phone": "+1 (555) 123-4567",
	}
	require.NoError(t, validateLead(valid))

	bad := map[string]string{"first_name": "Ada", "email": "nope", "mobile_phone": "123"}
	err := validateLead(bad)
	require.Error(t, err)
	for _, want := range []string{"last name is required", "email is not valid", "10 or 11 digits"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLeadChanges_ComparesPhonesByDigits(t *testing.T) {
	lead := sampleLeads()[0]
	values := leadValues(lead)
	values["mobile_phone"] = "(555) 123-4567"
	assert.Empty(t, leadChanges(lead, values))

	values["notes"] = "prefers mornings"
	assert.Equal(t, map[string]any{"notes": "prefers mornings"}, leadChanges(lead, values))
}

func TestShiftTimeFrame(t *testing.T) {
	assert.Equal(t, webhook.TimeFrameToday, shiftTimeFrame(webhook.TimeFrameAllTime, 1))
	assert.Equal(t, webhook.TimeFrameAllTime, shiftTimeFrame(webhook.TimeFrameToday, -1))
	assert.Equal(t, webhook.TimeFrameLast30Days, shiftTimeFrame(webhook.TimeFrameCustom, 1), "unknown frames start from last7days")
}

func TestPageSummary(t *testing.T) {
	assert.Equal(t, "Page 2 of 5 · 230 leads · more", pageSummary(2, webhook.Pagination{TotalPages: 5, Total: 230}, 50, "leads"))
	assert.Equal(t, "Page 1 · 3 shown", pageSummary(0, webhook.Pagination{}, 3, "calls"))
}

func TestUploadSummary(t *testing.T) {
	resp := &webhook.Response{Body: json.RawMessage(`{"imported":1200,"errors":["row 3"]}`)}
	assert.Equal(t, "1,200 imported · 1 errors", uploadSummary(resp))

	resp = &webhook.Response{Body: json.RawMessage(`{"status":"success","message":"queued"}`)}
	assert.Equal(t, "queued", uploadSummary(resp))
}
