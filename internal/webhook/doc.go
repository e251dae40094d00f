// Package webhook provides the HTTP client for the n8n webhook backend that
// owns every lead, call, campaign and statistic shown by callboard.
//
// # Overview
//
// The backend is a black box reached over plain JSON/HTTP. This package
// builds requests against a configured base URL, applies a bounded retry
// policy for transient failures, and returns either typed data or a
// classified *Error. It holds no per-call mutable state; one Client is built
// at startup and shared by every view.
//
// # Client Usage
//
//	client, err := webhook.New(webhook.Options{
//		BaseURL:  cfg.BaseURL,
//		Timeout:  30 * time.Second,
//		CacheTTL: 5 * time.Minute,
//	})
//	if err != nil {
//		return err // ErrMissingBaseURL when the base URL is blank
//	}
//
//	page, err := client.GetLeads(ctx, webhook.LeadQuery{Page: 2, Limit: 25})
//
// # Endpoints
//
//   - GET  api/get-campaigns  (include_stats=true only when requested)
//   - GET  api/leads          (page, limit, status, campaign_id, campaign_name, search)
//   - POST api/create-lead
//   - POST api/leads          (update; lead_id plus partial fields)
//   - POST api/delete-lead
//   - GET  api/calls          (page, limit, filters)
//   - GET  api/stats-v2       (timeFrame; start_date/end_date for custom)
//   - GET  api/recap          (date)
//   - POST api/csv-upload     (csv_data, column_mapping, options)
//   - POST api/trigger-call
//
// Paths are joined onto the base URL with exactly one slash between them.
// Do is the escape hatch for anything not covered by a named method.
//
// # Retries
//
// Timeouts, transport errors, 5xx and 429 responses are retried up to
// Options.RetryAttempts total tries with capped exponential backoff. Other
// 4xx responses fail after one attempt. Writes are not retried unless
// Options.RetryWrites is set or the request asks for RetryAlways; every write
// carries an Idempotency-Key header that stays the same across its retries.
//
// # Responses
//
// A 2xx body that is not valid JSON is returned as the envelope
// {"status":"success","message":<body>} with Response.Fallback set. Listing
// endpoints return the server's pagination block untouched.
//
// # Errors
//
// Failures after the final attempt are *Error values carrying the attempt
// count, endpoint, status code and a body excerpt. Match kinds with
// errors.Is against ErrTimeout, ErrTransport, ErrRetriesExhausted and
// ErrMissingBaseURL.
//
// # Caching
//
// With a positive Options.CacheTTL, GET results are cached by endpoint and
// sorted query for the TTL. Writes do not invalidate the cache; callers that
// must see their own writes read with a FreshReads context, which goes to the
// network and replaces the cached entry. Ping always goes to the network.
//
//	page, err := client.GetLeads(webhook.FreshReads(ctx), query)
package webhook
