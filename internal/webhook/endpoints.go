package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/five82/callboard/internal/cache"
)

// Backend paths. They must match the n8n workflow routes exactly.
const (
	pathCampaigns   = "api/get-campaigns"
	pathLeads       = "api/leads"
	pathCreateLead  = "api/create-lead"
	pathDeleteLead  = "api/delete-lead"
	pathCalls       = "api/calls"
	pathStats       = "api/stats-v2"
	pathRecap       = "api/recap"
	pathCSVUpload   = "api/csv-upload"
	pathTriggerCall = "api/trigger-call"
)

const dateLayout = "2006-01-02"

// LeadQuery selects a page of leads.
type LeadQuery struct {
	Page         int // 1-based; zero means 1
	Limit        int // zero uses the client page size
	Status       string
	CampaignID   string
	CampaignName string
	Search       string
}

// NewLead is the body of a create-lead call.
type NewLead struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	MobilePhone  string `json:"mobile_phone"`
	Company      string `json:"company,omitempty"`
	Notes        string `json:"notes,omitempty"`
	CampaignID   string `json:"campaign_id,omitempty"`
	CampaignName string `json:"campaign_name,omitempty"`
}

// CallQuery selects a page of calls. Filters are sent as extra query
// parameters and override page and limit when they share a name.
type CallQuery struct {
	Page    int
	Limit   int
	Filters map[string]string
}

// StatsQuery selects the stats window. StartDate and EndDate (YYYY-MM-DD)
// are required for TimeFrameCustom and ignored otherwise.
type StatsQuery struct {
	TimeFrame TimeFrame
	StartDate string
	EndDate   string
}

// UploadOptions control server-side CSV ingestion.
type UploadOptions struct {
	CampaignID     string `json:"campaign_id,omitempty"`
	CampaignName   string `json:"campaign_name,omitempty"`
	SkipDuplicates bool   `json:"skipDuplicates"`
}

// CSVUpload is the body of a csv-upload call.
type CSVUpload struct {
	CSVData       string            `json:"csv_data"`
	ColumnMapping map[string]string `json:"column_mapping,omitempty"`
	Options       *UploadOptions    `json:"options,omitempty"`
}

// GetCampaigns lists campaigns, embedding per-campaign stats when asked.
func (c *Client) GetCampaigns(ctx context.Context, includeStats bool) (*CampaignsResponse, error) {
	q := url.Values{}
	if includeStats {
		q.Set("include_stats", "true")
	}
	var out CampaignsResponse
	if err := c.get(ctx, pathCampaigns, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLeads fetches one page of leads. The server's pagination block is
// returned as received.
func (c *Client) GetLeads(ctx context.Context, query LeadQuery) (*LeadsPage, error) {
	q := c.pageQuery(query.Page, query.Limit)
	setIf(q, "status", query.Status)
	setIf(q, "campaign_id", query.CampaignID)
	setIf(q, "campaign_name", query.CampaignName)
	setIf(q, "search", query.Search)

	var out LeadsPage
	if err := c.get(ctx, pathLeads, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateLead submits a new lead.
func (c *Client) CreateLead(ctx context.Context, lead NewLead) (*Response, error) {
	return c.post(ctx, pathCreateLead, lead, 0)
}

// UpdateLead sends a partial update for leadID. Keys in fields are sent as
// given alongside lead_id.
func (c *Client) UpdateLead(ctx context.Context, leadID string, fields map[string]any) (*Response, error) {
	if err := requireID(leadID); err != nil {
		return nil, err
	}
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["lead_id"] = leadID
	return c.post(ctx, pathLeads, body, 0)
}

// UpdateLeadStatus changes a lead's status through the update endpoint.
func (c *Client) UpdateLeadStatus(ctx context.Context, leadID, status string) (*Response, error) {
	if strings.TrimSpace(status) == "" {
		return nil, fmt.Errorf("update lead status: %w: status is empty", ErrInvalidArgument)
	}
	return c.UpdateLead(ctx, leadID, map[string]any{"status": status})
}

// DeleteLead removes a lead.
func (c *Client) DeleteLead(ctx context.Context, leadID string) (*Response, error) {
	if err := requireID(leadID); err != nil {
		return nil, err
	}
	return c.post(ctx, pathDeleteLead, map[string]string{"lead_id": leadID}, 0)
}

// GetCalls fetches one page of call history.
func (c *Client) GetCalls(ctx context.Context, query CallQuery) (*CallsPage, error) {
	q := c.pageQuery(query.Page, query.Limit)
	for k, v := range query.Filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	var out CallsPage
	if err := c.get(ctx, pathCalls, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetStats fetches aggregated statistics for a time frame. An empty frame
// means the last 7 days.
func (c *Client) GetStats(ctx context.Context, query StatsQuery) (*Stats, error) {
	tf := query.TimeFrame
	if tf == "" {
		tf = TimeFrameLast7Days
	}
	if !tf.Valid() {
		return nil, fmt.Errorf("get stats: %w: unknown time frame %q", ErrInvalidArgument, tf)
	}
	q := url.Values{}
	q.Set("timeFrame", string(tf))
	if tf == TimeFrameCustom {
		if err := validateRange(query.StartDate, query.EndDate); err != nil {
			return nil, fmt.Errorf("get stats: %w", err)
		}
		q.Set("start_date", query.StartDate)
		q.Set("end_date", query.EndDate)
	}

	var out Stats
	if err := c.get(ctx, pathStats, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRecap fetches the daily recap. An empty date lets the server pick today.
func (c *Client) GetRecap(ctx context.Context, date string) (*Recap, error) {
	q := url.Values{}
	if date != "" {
		if _, err := time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("get recap: %w: date %q is not YYYY-MM-DD", ErrInvalidArgument, date)
		}
		q.Set("date", date)
	}
	var out Recap
	if err := c.get(ctx, pathRecap, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadCSV sends raw CSV text for server-side ingestion using the upload
// timeout.
func (c *Client) UploadCSV(ctx context.Context, upload CSVUpload) (*Response, error) {
	if strings.TrimSpace(upload.CSVData) == "" {
		return nil, fmt.Errorf("upload csv: %w: csv data is empty", ErrInvalidArgument)
	}
	return c.post(ctx, pathCSVUpload, upload, c.uploadTimeout)
}

// TriggerCall asks the backend to dial a lead now.
func (c *Client) TriggerCall(ctx context.Context, leadID string) (*Response, error) {
	if err := requireID(leadID); err != nil {
		return nil, err
	}
	return c.post(ctx, pathTriggerCall, map[string]string{"lead_id": leadID}, 0)
}

// Ping checks connectivity with a cheap campaigns call that skips the cache.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Do(ctx, Request{Method: http.MethodGet, Endpoint: pathCampaigns})
	return err
}

type freshReadKey struct{}

// FreshReads returns a context whose reads go to the server instead of the
// read cache. The response still replaces the cached entry, so later cached
// reads of the same query see it too. Use it after writes and for explicit
// refreshes.
func FreshReads(ctx context.Context) context.Context {
	return context.WithValue(ctx, freshReadKey{}, true)
}

// IsFreshRead reports whether ctx was marked by FreshReads.
func IsFreshRead(ctx context.Context) bool {
	fresh, _ := ctx.Value(freshReadKey{}).(bool)
	return fresh
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, dest any) error {
	load := func() (*Response, error) {
		return c.Do(ctx, Request{Method: http.MethodGet, Endpoint: endpoint, Query: query})
	}
	var (
		resp *Response
		err  error
		key  = cache.Key(endpoint, query)
	)
	switch {
	case !c.cache.Enabled():
		resp, err = load()
	case IsFreshRead(ctx):
		resp, err = c.reload(key, load)
	default:
		var hit bool
		resp, hit, err = c.cache.Do(key, load)
		c.metrics.cacheLookup(hit)
		// A shared load fails with the cancellation of whichever caller
		// started it. Callers still live load again on their own.
		if err != nil && errors.Is(err, context.Canceled) && ctx.Err() == nil {
			c.log.WithField("endpoint", endpoint).Debug("shared read was cancelled, loading again")
			resp, err = c.reload(key, load)
		}
	}
	if err != nil {
		return err
	}
	return resp.Decode(dest)
}

// reload fetches without consulting the cache and stores a successful result.
func (c *Client) reload(key string, load func() (*Response, error)) (*Response, error) {
	resp, err := load()
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, resp)
	return resp, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body any, timeout time.Duration) (*Response, error) {
	return c.Do(ctx, Request{
		Method:   http.MethodPost,
		Endpoint: endpoint,
		Body:     body,
		Timeout:  timeout,
	})
}

func (c *Client) pageQuery(page, limit int) url.Values {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = c.pageSize
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return q
}

func setIf(q url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		q.Set(key, value)
	}
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: lead id is empty", ErrInvalidArgument)
	}
	return nil
}

func validateRange(start, end string) error {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return fmt.Errorf("%w: start date %q is not YYYY-MM-DD", ErrInvalidArgument, start)
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return fmt.Errorf("%w: end date %q is not YYYY-MM-DD", ErrInvalidArgument, end)
	}
	if e.Before(s) {
		return fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidArgument, end, start)
	}
	return nil
}
