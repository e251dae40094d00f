package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/five82/callboard/internal/cache"
)

const (
	defaultTimeout       = 30 * time.Second
	defaultUploadTimeout = 120 * time.Second
	defaultRetryAttempts = 3
	defaultPageSize      = 50
	defaultUserAgent     = "callboard/0.1"

	// Cap on how much of a response body is read into memory.
	maxResponseBytes = 32 << 20
)

// RetryMode overrides the client's retry decision for a single request.
type RetryMode int

const (
	// RetryDefault retries reads and, when enabled, writes.
	RetryDefault RetryMode = iota
	// RetryAlways retries the request regardless of its method.
	RetryAlways
	// RetryNever makes exactly one attempt.
	RetryNever
)

// Options configure a Client.
type Options struct {
	BaseURL       string
	Timeout       time.Duration // per attempt; zero uses 30s
	UploadTimeout time.Duration // per attempt for CSV uploads; zero uses 120s
	RetryAttempts int           // total tries; zero uses 3
	RetryWrites   bool          // retry POSTs on transient failures
	Backoff       Backoff
	PageSize      int           // default page size; zero uses 50
	CacheTTL      time.Duration // zero disables read caching
	UserAgent     string
	HTTPClient    *http.Client
	Logger        logrus.FieldLogger
	Metrics       *Metrics
}

// Request describes a single logical call against the webhook backend.
type Request struct {
	Method   string
	Endpoint string
	Query    url.Values
	Body     any
	Headers  map[string]string
	Timeout  time.Duration
	Retry    RetryMode
}

// Client talks to the n8n webhook backend. It is safe for concurrent use and
// holds no per-call state beyond the optional read cache.
type Client struct {
	baseURL       string
	http          *http.Client
	timeout       time.Duration
	uploadTimeout time.Duration
	attempts      int
	retryWrites   bool
	backoff       Backoff
	pageSize      int
	userAgent     string
	log           logrus.FieldLogger
	metrics       *Metrics
	cache         *cache.Cache[*Response]
}

// New validates opts and builds a Client. It never touches the network.
func New(opts Options) (*Client, error) {
	base, err := normalizeBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:       base,
		http:          opts.HTTPClient,
		timeout:       opts.Timeout,
		uploadTimeout: opts.UploadTimeout,
		attempts:      opts.RetryAttempts,
		retryWrites:   opts.RetryWrites,
		backoff:       opts.Backoff.withDefaults(),
		pageSize:      opts.PageSize,
		userAgent:     opts.UserAgent,
		log:           opts.Logger,
		metrics:       opts.Metrics,
		cache:         cache.New[*Response](opts.CacheTTL),
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.uploadTimeout <= 0 {
		c.uploadTimeout = defaultUploadTimeout
	}
	if c.attempts <= 0 {
		c.attempts = defaultRetryAttempts
	}
	if c.pageSize <= 0 {
		c.pageSize = defaultPageSize
	}
	if c.userAgent == "" {
		c.userAgent = defaultUserAgent
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	return c, nil
}

// BaseURL returns the normalized base URL (no trailing slash).
func (c *Client) BaseURL() string { return c.baseURL }

// PageSize returns the default page size used when a query omits a limit.
func (c *Client) PageSize() int { return c.pageSize }

// CacheTTL returns the read cache lifetime, zero when disabled.
func (c *Client) CacheTTL() time.Duration { return c.cache.TTL() }

// Do issues req, retrying transient failures, and returns the normalized
// response. Failures after the last attempt are returned as *Error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	endpoint := strings.TrimLeft(req.Endpoint, "/")
	reqURL := joinURL(c.baseURL, endpoint)
	if len(req.Query) > 0 {
		reqURL += "?" + req.Query.Encode()
	}

	var payload []byte
	if req.Body != nil {
		var err error
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	headers := c.headers(method, req.Headers)
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	maxAttempts := 1
	if c.shouldRetry(method, req.Retry) {
		maxAttempts = c.attempts
	}

	start := time.Now()
	var (
		lastErr  error
		attempts int
	)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			delay := c.backoff.Delay(attempt - 1)
			if err := sleep(ctx, delay); err != nil {
				lastErr = err
				break
			}
		}
		attempts = attempt
		c.metrics.attempt(endpoint)

		resp, err := c.attempt(ctx, method, reqURL, payload, headers, timeout)
		if err == nil {
			resp.Attempts = attempt
			c.metrics.observe(endpoint, method, "success", time.Since(start))
			if attempt > 1 {
				c.log.WithFields(logrus.Fields{
					"endpoint": endpoint,
					"attempts": attempt,
				}).Info("webhook request recovered after retry")
			}
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil || !retryable(err) {
			break
		}
		if attempt < maxAttempts {
			c.log.WithFields(logrus.Fields{
				"endpoint": endpoint,
				"method":   method,
				"attempt":  attempt,
				"status":   StatusCode(err),
			}).WithError(err).Warn("webhook request failed, retrying")
		}
	}

	werr := classify(method, endpoint, attempts, lastErr)
	c.metrics.observe(endpoint, method, outcomeLabel(werr.Kind), time.Since(start))
	c.log.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"method":   method,
		"attempts": attempts,
		"status":   werr.StatusCode,
	}).WithError(lastErr).Error("webhook request failed")
	return nil, werr
}

func (c *Client) attempt(ctx context.Context, method, reqURL string, payload []byte, headers http.Header, timeout time.Duration) (*Response, error) {
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(actx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header = headers.Clone()

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: excerpt(data)}
	}
	return newResponse(resp.StatusCode, data), nil
}

func (c *Client) headers(method string, extra map[string]string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	h.Set("User-Agent", c.userAgent)
	if method != http.MethodGet && method != http.MethodHead {
		// One key per logical write, reused by every retry of it.
		h.Set("Idempotency-Key", uuid.NewString())
	}
	for k, v := range extra {
		h.Set(k, v)
	}
	return h
}

func (c *Client) shouldRetry(method string, mode RetryMode) bool {
	switch mode {
	case RetryAlways:
		return true
	case RetryNever:
		return false
	}
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return c.retryWrites
	}
}

// retryable reports whether another attempt could succeed.
func retryable(err error) bool {
	var serr *StatusError
	if errors.As(err, &serr) {
		return serr.StatusCode >= 500 || serr.StatusCode == http.StatusTooManyRequests
	}
	return true
}

func classify(method, endpoint string, attempts int, err error) *Error {
	werr := &Error{
		Kind:     KindTransport,
		Method:   method,
		Endpoint: endpoint,
		Attempts: attempts,
		Err:      err,
	}
	switch {
	case err == nil:
		werr.Kind = KindRetriesExhausted
	case isTimeout(err):
		werr.Kind = KindTimeout
	}
	var serr *StatusError
	if errors.As(err, &serr) {
		werr.StatusCode = serr.StatusCode
		werr.Body = serr.Body
	}
	return werr
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

func outcomeLabel(k Kind) string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindRetriesExhausted:
		return "exhausted"
	default:
		return "failure"
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// joinURL joins base and endpoint with exactly one slash between them.
func joinURL(base, endpoint string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(endpoint, "/")
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", &Error{Kind: KindConfiguration, Err: ErrMissingBaseURL}
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", &Error{Kind: KindConfiguration, Err: fmt.Errorf("parse base url %q: %w", raw, err)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", &Error{Kind: KindConfiguration, Err: fmt.Errorf("base url %q must use http or https", raw)}
	}
	if u.Host == "" {
		return "", &Error{Kind: KindConfiguration, Err: fmt.Errorf("base url %q has no host", raw)}
	}
	return strings.TrimRight(trimmed, "/"), nil
}
