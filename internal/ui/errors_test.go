package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/five82/callboard/internal/webhook"
)

func TestPresentError(t *testing.T) {
	refused := errors.New("dial tcp 127.0.0.1:5678: connect: connection refused")

	tests := []struct {
		name      string
		err       error
		wantTitle string
	}{
		{"not found", &webhook.Error{Kind: webhook.KindTransport, Attempts: 1, StatusCode: 404}, "Resource not found"},
		{"unauthorized", &webhook.Error{Kind: webhook.KindTransport, Attempts: 1, StatusCode: 401}, "Authentication error"},
		{"forbidden", &webhook.Error{Kind: webhook.KindTransport, Attempts: 1, StatusCode: 403}, "Authentication error"},
		{"rate limited", &webhook.Error{Kind: webhook.KindTransport, Attempts: 3, StatusCode: 429}, "Rate limited"},
		{"server", &webhook.Error{Kind: webhook.KindTransport, Attempts: 3, StatusCode: 502}, "Server error"},
		{"bad request", &webhook.Error{Kind: webhook.KindTransport, Attempts: 1, StatusCode: 422}, "Request rejected"},
		{"timeout", &webhook.Error{Kind: webhook.KindTimeout, Attempts: 3}, "Request timeout"},
		{"refused", &webhook.Error{Kind: webhook.KindTransport, Attempts: 3, Err: refused}, "Cannot reach backend (offline)"},
		{"exhausted", &webhook.Error{Kind: webhook.KindRetriesExhausted, Attempts: 3}, "Request failed"},
		{"wrapped", fmt.Errorf("load leads: %w", &webhook.Error{Kind: webhook.KindTimeout, Attempts: 2}), "Request timeout"},
		{"invalid", fmt.Errorf("get stats: %w: bad frame", webhook.ErrInvalidArgument), "Invalid input"},
		{"missing base", &webhook.Error{Kind: webhook.KindConfiguration, Err: webhook.ErrMissingBaseURL}, "Not configured"},
		{"cancelled", context.Canceled, "Cancelled"},
		{"plain", errors.New("boom"), "Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := presentError(tt.err)
			if got.Title != tt.wantTitle {
				t.Fatalf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
			if got.Detail == "" {
				t.Fatal("Detail should not be empty")
			}
		})
	}
}

func TestPresentError_DetailCarriesAttempts(t *testing.T) {
	got := presentError(&webhook.Error{Kind: webhook.KindTimeout, Attempts: 3, Method: "GET", Endpoint: "api/stats-v2"})
	if !strings.Contains(got.Detail, "3 attempts") || !strings.Contains(got.Detail, "api/stats-v2") {
		t.Fatalf("Detail = %q, want attempts and endpoint", got.Detail)
	}
}

func TestClassifyConnectionError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{errors.New("dial tcp: connection refused"), "OFFLINE"},
		{errors.New("dial tcp: lookup n8n.local: no such host"), "HOST NOT FOUND"},
		{errors.New("i/o timeout"), "TIMEOUT"},
		{&webhook.Error{Kind: webhook.KindTimeout}, "TIMEOUT"},
		{&webhook.Error{Kind: webhook.KindTransport, StatusCode: 503}, "HTTP 503"},
		{errors.New("weird"), "ERROR"},
	}
	for _, tt := range tests {
		if got := classifyConnectionError(tt.err); got != tt.want {
			t.Errorf("classifyConnectionError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
