package ui

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/five82/callboard/internal/config"
	"github.com/five82/callboard/internal/csvimport"
	"github.com/five82/callboard/internal/webhook"
)

// defaultUploadCampaign is offered first when nothing else is remembered.
const defaultUploadCampaign = "Standard 7-Week"

const uploadPreviewRows = 5

type uploadState struct {
	path       string
	file       *csvimport.File
	sample     csvimport.Sample
	loadErr    error
	loading    bool
	campaign   string
	skipDups   bool
	mapping    map[string]string
	useMapping bool
	uploading  bool
	result     string
	resultErr  error
}

func newUploadState(campaign string) uploadState {
	if campaign == "" {
		campaign = defaultUploadCampaign
	}
	return uploadState{campaign: campaign, skipDups: true, useMapping: true}
}

type fileMsg struct {
	path   string
	file   *csvimport.File
	sample csvimport.Sample
	err    error
}

type pathMsg struct {
	path string
}

func (m *Model) handlePath(msg pathMsg) tea.Cmd {
	m.upload.path = msg.path
	if msg.path == "" {
		m.upload.file = nil
		m.upload.loadErr = nil
		return nil
	}
	return m.loadFileCmd(msg.path)
}

func (m *Model) loadFileCmd(path string) tea.Cmd {
	m.upload.loading = true
	return func() tea.Msg {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return fileMsg{path: path, err: err}
		}
		f, err := csvimport.Load(expanded)
		if err != nil {
			return fileMsg{path: path, err: err}
		}
		sample, err := csvimport.Preview(f.Text, uploadPreviewRows)
		return fileMsg{path: path, file: f, sample: sample, err: err}
	}
}

func (m *Model) handleFile(msg fileMsg) {
	if msg.path != m.upload.path {
		return
	}
	m.upload.loading = false
	m.upload.result = ""
	m.upload.resultErr = nil
	if msg.err != nil {
		m.log.WithError(msg.err).WithField("path", msg.path).Warn("load spreadsheet")
		m.upload.file = nil
		m.upload.loadErr = msg.err
		return
	}
	m.upload.file = msg.file
	m.upload.sample = msg.sample
	m.upload.loadErr = nil
	m.upload.mapping = csvimport.SuggestMapping(msg.file.Header)
	m.log.WithFields(logrus.Fields{"path": msg.path, "rows": msg.file.Rows}).Info("spreadsheet loaded")
}

// uploadCampaigns offers the default campaign and every known one.
func (m Model) uploadCampaigns() []string {
	names := []string{defaultUploadCampaign}
	for _, n := range m.campaignNames() {
		if !slices.Contains(names, n) {
			names = append(names, n)
		}
	}
	return names
}

// activeMapping is the column mapping that will be sent.
func (us uploadState) activeMapping() map[string]string {
	if !us.useMapping || len(us.mapping) == 0 {
		return nil
	}
	return us.mapping
}

func (us uploadState) missingColumns() []string {
	if us.file == nil {
		return nil
	}
	return csvimport.MissingColumns(us.file.Header, us.activeMapping())
}

func (m *Model) handleUploadKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.EditPath):
		m.modal = newInputModal("Spreadsheet path (.csv or .xlsx)", "~/leads.csv", m.upload.path, func(p string) tea.Msg {
			return pathMsg{path: p}
		})
	case key.Matches(msg, m.keys.CycleCampaign):
		names := m.uploadCampaigns()
		idx := slices.Index(names, m.upload.campaign)
		m.upload.campaign = names[(idx+1)%len(names)]
		m.prefs.Campaign = m.upload.campaign
		m.savePrefs()
	case key.Matches(msg, m.keys.ToggleSkipDups):
		m.upload.skipDups = !m.upload.skipDups
	case key.Matches(msg, m.keys.ToggleMapping):
		m.upload.useMapping = !m.upload.useMapping
	case key.Matches(msg, m.keys.Submit):
		return m.confirmUpload()
	}
	return nil
}

func (m *Model) confirmUpload() tea.Cmd {
	us := m.upload
	switch {
	case us.uploading:
		m.setToast("An upload is already running", true)
		return nil
	case us.file == nil:
		m.setToast("Choose a spreadsheet first (e)", true)
		return nil
	case us.file.Rows == 0:
		m.setToast("The spreadsheet has no data rows", true)
		return nil
	}
	msg := fmt.Sprintf("Upload %s leads from %s to %q?", FormatCount(us.file.Rows), filepath.Base(us.file.Path), us.campaign)
	if missing := us.missingColumns(); len(missing) > 0 {
		msg += "\n\nMissing columns: " + strings.Join(missing, ", ") + ". The backend may reject these rows."
	}
	m.modal = newConfirmModal("Upload leads", msg, m.uploadCmd())
	return nil
}

// uploadCmd captures the upload body now so later edits do not leak into it.
func (m *Model) uploadCmd() tea.Cmd {
	us := m.upload
	upload := webhook.CSVUpload{
		CSVData:       us.file.Text,
		ColumnMapping: maps.Clone(us.activeMapping()),
		Options: &webhook.UploadOptions{
			CampaignName:   us.campaign,
			SkipDuplicates: us.skipDups,
		},
	}
	client, parent := m.client, m.ctx
	send := m.writeCmd("Upload finished", ViewUpload, func() (*webhook.Response, error) {
		ctx, cancel := requestContext(parent, UploadRequestTimeout)
		defer cancel()
		return client.UploadCSV(ctx, upload)
	})
	return func() tea.Msg {
		return uploadStartedMsg{send: send}
	}
}

// uploadStartedMsg marks the upload as running before it is sent.
type uploadStartedMsg struct {
	send tea.Cmd
}

func (m *Model) handleUploadStarted(msg uploadStartedMsg) tea.Cmd {
	m.upload.uploading = true
	m.upload.result = ""
	m.upload.resultErr = nil
	m.log.WithField("campaign", m.upload.campaign).Info("upload started")
	return msg.send
}

// uploadSummary extracts the import counts the workflow reports, falling
// back to its message.
func uploadSummary(resp *webhook.Response) string {
	var parts []string
	for _, k := range []string{"imported", "inserted", "duplicates", "skipped", "errors"} {
		if v, ok := resp.Lookup(k); ok {
			switch n := v.(type) {
			case float64:
				parts = append(parts, fmt.Sprintf("%s %s", FormatCount(int(n)), k))
			case []any:
				parts = append(parts, fmt.Sprintf("%d %s", len(n), k))
			}
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " · ")
	}
	if env := resp.Envelope(); env.Message != "" {
		return env.Message
	}
	return "Upload accepted"
}

func (m Model) renderUpload(height int) string {
	us := m.upload
	bgColor := m.paneBg(true)
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	inner := max(m.width-4, 10)

	check := func(on bool) string {
		if on {
			return "[x]"
		}
		return "[ ]"
	}
	field := func(label, value string, style lipgloss.Style) string {
		return bg.Pair(padRight(label, 16), value, styles.MutedText, style)
	}

	path := us.path
	if path == "" {
		path = "none (press e)"
	}
	lines := []string{
		field("File", truncateMiddle(path, inner-17), styles.Text),
		field("Campaign", us.campaign, styles.AccentText),
		field("Skip duplicates", check(us.skipDups), styles.Text),
	}

	switch {
	case us.loading:
		lines = append(lines, "", bg.Render("Reading spreadsheet...", styles.WarningText))
	case us.loadErr != nil:
		lines = append(lines, "", bg.Render(truncate(us.loadErr.Error(), inner), styles.DangerText))
	case us.file != nil:
		lines = append(lines,
			field("Rows", FormatCount(us.file.Rows), styles.Text),
			field("Columns", truncate(strings.Join(us.file.Header, ", "), inner-17), styles.Text),
		)
		if len(us.mapping) > 0 {
			keys := slices.Sorted(maps.Keys(us.mapping))
			pairs := make([]string, 0, len(keys))
			for _, k := range keys {
				pairs = append(pairs, k+" → "+us.mapping[k])
			}
			lines = append(lines, field("Mapping "+check(us.useMapping), truncate(strings.Join(pairs, ", "), inner-17), styles.InfoText))
		}
		if missing := us.missingColumns(); len(missing) > 0 {
			lines = append(lines, bg.Render("⚠ Missing required columns: "+strings.Join(missing, ", "), styles.WarningText))
		} else {
			lines = append(lines, bg.Render("✓ All required columns present", styles.SuccessText))
		}
	}

	switch {
	case us.uploading:
		lines = append(lines, "", bg.Render("Uploading...", styles.WarningText.Bold(true)))
	case us.resultErr != nil:
		ev := presentError(us.resultErr)
		lines = append(lines, "", bg.Render("Upload failed: "+ev.Title, styles.DangerText))
		if ev.Hint != "" {
			lines = append(lines, bg.Render(ev.Hint, styles.MutedText))
		}
	case us.result != "":
		lines = append(lines, "", bg.Render("Uploaded: "+truncate(us.result, inner-10), styles.SuccessText))
	}

	form := indent(strings.Join(lines, "\n"))
	formHeight := min(len(lines)+2, height)
	box := m.renderTitledBox("Upload Leads", form, m.width, formHeight, true)

	previewHeight := height - formHeight
	if us.file == nil || len(us.sample.Header) == 0 || previewHeight < 4 {
		return box
	}
	cols := make([]column, len(us.sample.Header))
	for i, h := range us.sample.Header {
		cols[i] = column{title: h, width: 8, flex: true}
	}
	preview := m.renderTable(tableSpec{
		columns:   cols,
		rows:      us.sample.Rows,
		selected:  -1,
		statusCol: -1,
		width:     m.width - 2,
		height:    previewHeight - 2,
		bg:        m.paneBg(false),
	})
	title := fmt.Sprintf("Preview (first %d of %s rows)", len(us.sample.Rows), FormatCount(us.sample.Total))
	return lipgloss.JoinVertical(lipgloss.Left, box, m.renderTitledBox(title, preview, m.width, previewHeight, false))
}
