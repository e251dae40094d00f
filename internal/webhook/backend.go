package webhook

import "context"

// Backend is the set of webhook operations the dashboard depends on.
// It is implemented by *Client and can be faked in tests.
type Backend interface {
	GetCampaigns(ctx context.Context, includeStats bool) (*CampaignsResponse, error)
	GetLeads(ctx context.Context, query LeadQuery) (*LeadsPage, error)
	CreateLead(ctx context.Context, lead NewLead) (*Response, error)
	UpdateLead(ctx context.Context, leadID string, fields map[string]any) (*Response, error)
	UpdateLeadStatus(ctx context.Context, leadID, status string) (*Response, error)
	DeleteLead(ctx context.Context, leadID string) (*Response, error)
	GetCalls(ctx context.Context, query CallQuery) (*CallsPage, error)
	GetStats(ctx context.Context, query StatsQuery) (*Stats, error)
	GetRecap(ctx context.Context, date string) (*Recap, error)
	UploadCSV(ctx context.Context, upload CSVUpload) (*Response, error)
	TriggerCall(ctx context.Context, leadID string) (*Response, error)
	Ping(ctx context.Context) error
}

// Ensure Client implements Backend at compile time.
var _ Backend = (*Client)(nil)
