package webhook

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Lead statuses known to the backend. The backend owns the full set.
const (
	LeadStatusNew       = "New"
	LeadStatusCalling   = "Calling"
	LeadStatusCompleted = "Completed"
	LeadStatusDNC       = "DNC"
)

// LeadStatuses lists the statuses offered by filters and status changes.
var LeadStatuses = []string{LeadStatusNew, LeadStatusCalling, LeadStatusCompleted, LeadStatusDNC}

// Call dispositions offered by the calls filter.
var Dispositions = []string{"Answered", "Voicemail", "No Answer", "Busy", "Failed"}

// CallPeriods are the values api/calls accepts for its date filter.
var CallPeriods = []string{"Today", "Last 7 Days", "Last 30 Days"}

// Envelope is the generic acknowledgement returned by write endpoints and
// synthesized when a successful response is not JSON.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Pagination mirrors the backend's pagination block. HasMore is nil when
// the server omitted it.
type Pagination struct {
	Total      FlexInt `json:"total"`
	Page       FlexInt `json:"page"`
	TotalPages FlexInt `json:"totalPages"`
	HasMore    *bool   `json:"hasMore,omitempty"`
}

// Lead mirrors a lead record from api/leads.
type Lead struct {
	ID           string  `json:"lead_id"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	MobilePhone  string  `json:"mobile_phone"`
	Company      string  `json:"company"`
	Status       string  `json:"status"`
	CampaignID   string  `json:"campaign_id"`
	CampaignName string  `json:"campaign_name"`
	CallCount    FlexInt `json:"call_count"`
	NextCallDate string  `json:"next_call_date"`
	UploadDate   string  `json:"upload_date"`
	Notes        string  `json:"notes"`
}

// FullName joins the name parts.
func (l Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// LeadsPage is the api/leads listing response.
type LeadsPage struct {
	Leads      []Lead      `json:"leads"`
	Pagination *Pagination `json:"pagination"`

	// Older workflow versions report totals at the top level.
	Total      FlexInt `json:"total"`
	TotalPages FlexInt `json:"total_pages"`
}

// PageInfo returns the server's pagination block, or the legacy top-level
// totals when the block is absent. Nothing is recomputed.
func (p LeadsPage) PageInfo() Pagination {
	if p.Pagination != nil {
		return *p.Pagination
	}
	return Pagination{Total: p.Total, TotalPages: p.TotalPages}
}

// CallLead is the lead summary embedded in call records.
type CallLead struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	CampaignName string `json:"campaign_name"`
}

// Call mirrors a call record from api/calls.
type Call struct {
	ID              string    `json:"call_id"`
	LeadID          string    `json:"lead_id"`
	Lead            *CallLead `json:"lead"`
	ToNumber        string    `json:"to_number"`
	CallDate        string    `json:"call_date"`
	DurationSeconds FlexInt   `json:"duration_seconds"`
	Disposition     string    `json:"disposition"`
	Status          string    `json:"status"`
	Cost            FlexFloat `json:"cost"`
	Answered        bool      `json:"answered"`
}

// LeadName returns the embedded lead's name, if any.
func (c Call) LeadName() string {
	if c.Lead == nil {
		return ""
	}
	return strings.TrimSpace(c.Lead.FirstName + " " + c.Lead.LastName)
}

// CampaignName returns the embedded lead's campaign, if any.
func (c Call) CampaignName() string {
	if c.Lead == nil {
		return ""
	}
	return c.Lead.CampaignName
}

// CallsPage is the api/calls listing response.
type CallsPage struct {
	Calls      []Call      `json:"calls"`
	Pagination *Pagination `json:"pagination"`

	Total      FlexInt `json:"total"`
	TotalPages FlexInt `json:"total_pages"`
}

// PageInfo mirrors LeadsPage.PageInfo.
func (p CallsPage) PageInfo() Pagination {
	if p.Pagination != nil {
		return *p.Pagination
	}
	return Pagination{Total: p.Total, TotalPages: p.TotalPages}
}

// CampaignStats is the optional per-campaign summary.
type CampaignStats struct {
	TotalLeads     FlexInt `json:"total_leads"`
	ActiveLeads    FlexInt `json:"active_leads"`
	CompletedLeads FlexInt `json:"completed_leads"`
}

// Campaign mirrors a campaign from api/get-campaigns.
type Campaign struct {
	ID               string         `json:"campaign_id"`
	Name             string         `json:"campaign_name"`
	Description      string         `json:"description"`
	SequenceTemplate string         `json:"sequence_template"`
	MaxCalls         FlexInt        `json:"max_calls"`
	DurationWeeks    FlexInt        `json:"duration_weeks"`
	IsActive         *bool          `json:"is_active"`
	Stats            *CampaignStats `json:"stats"`
}

// Active reports the activity flag; campaigns without one are active.
func (c Campaign) Active() bool {
	return c.IsActive == nil || *c.IsActive
}

// CampaignsResponse is the api/get-campaigns response.
type CampaignsResponse struct {
	Campaigns []Campaign `json:"campaigns"`
}

// TimeFrame selects the window for api/stats-v2.
type TimeFrame string

const (
	TimeFrameToday      TimeFrame = "today"
	TimeFrameLast7Days  TimeFrame = "last7days"
	TimeFrameLast30Days TimeFrame = "last30days"
	TimeFrameLast90Days TimeFrame = "last90days"
	TimeFrameThisMonth  TimeFrame = "thismonth"
	TimeFrameLastMonth  TimeFrame = "lastmonth"
	TimeFrameAllTime    TimeFrame = "alltime"
	TimeFrameCustom     TimeFrame = "custom"
)

// TimeFrames lists the frames in display order.
var TimeFrames = []TimeFrame{
	TimeFrameToday,
	TimeFrameLast7Days,
	TimeFrameLast30Days,
	TimeFrameLast90Days,
	TimeFrameThisMonth,
	TimeFrameLastMonth,
	TimeFrameAllTime,
	TimeFrameCustom,
}

// Valid reports whether the frame is one the backend understands.
func (t TimeFrame) Valid() bool {
	for _, tf := range TimeFrames {
		if tf == t {
			return true
		}
	}
	return false
}

// Label returns a human readable name.
func (t TimeFrame) Label() string {
	switch t {
	case TimeFrameToday:
		return "Today"
	case TimeFrameLast7Days:
		return "Last 7 days"
	case TimeFrameLast30Days:
		return "Last 30 days"
	case TimeFrameLast90Days:
		return "Last 90 days"
	case TimeFrameThisMonth:
		return "This month"
	case TimeFrameLastMonth:
		return "Last month"
	case TimeFrameAllTime:
		return "All time"
	case TimeFrameCustom:
		return "Custom"
	default:
		return string(t)
	}
}

// StatsTotals are the headline numbers of a stats snapshot.
type StatsTotals struct {
	TotalLeads    FlexInt   `json:"total_leads"`
	ActiveLeads   FlexInt   `json:"active_leads"`
	TotalCalls    FlexInt   `json:"total_calls"`
	AnswerRate    FlexFloat `json:"answer_rate"`
	Connections   FlexInt   `json:"connections"`
	Conversations FlexInt   `json:"conversations"`
	TotalCost     FlexFloat `json:"total_cost"`
}

// DailyStat is one point of the daily activity series.
type DailyStat struct {
	Date  string  `json:"date"`
	Calls FlexInt `json:"calls"`
}

// Stats is the api/stats-v2 response.
type Stats struct {
	Totals               StatsTotals        `json:"totals"`
	DailyStats           []DailyStat        `json:"dailyStats"`
	DispositionBreakdown map[string]FlexInt `json:"dispositionBreakdown"`
	CampaignBreakdown    map[string]FlexInt `json:"campaignBreakdown"`
}

// Recap is the api/recap response for a single day.
type Recap struct {
	Date                 string             `json:"date"`
	TotalCalls           FlexInt            `json:"total_calls"`
	Connections          FlexInt            `json:"connections"`
	Conversations        FlexInt            `json:"conversations"`
	TotalCost            FlexFloat          `json:"total_cost"`
	CampaignBreakdown    map[string]FlexInt `json:"campaignBreakdown"`
	DispositionBreakdown map[string]FlexInt `json:"dispositionBreakdown"`
}

// ParseTime parses the timestamp formats emitted by the backend.
// Unparseable values yield the zero time.
func ParseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FlexInt accepts JSON numbers, numeric strings and null.
type FlexInt int

// Int returns the value as a plain int.
func (f FlexInt) Int() int { return int(f) }

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		*f = 0
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*f = FlexInt(n)
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = FlexInt(v)
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(f))
}

// FlexFloat accepts JSON numbers, numeric strings and null.
type FlexFloat float64

// Float returns the value as a plain float64.
func (f FlexFloat) Float() float64 { return float64(f) }

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(f))
}
