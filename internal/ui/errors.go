package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/five82/callboard/internal/webhook"
)

// errorView is a failure translated for people: a short title, the detail
// that caused it and what to try next.
type errorView struct {
	Title  string
	Detail string
	Hint   string
}

// presentError maps client failures onto user-facing messages. Status codes
// take precedence over the failure kind.
func presentError(err error) errorView {
	if err == nil {
		return errorView{}
	}
	if errors.Is(err, context.Canceled) {
		return errorView{Title: "Cancelled", Detail: "The request was cancelled."}
	}
	if errors.Is(err, webhook.ErrInvalidArgument) {
		return errorView{Title: "Invalid input", Detail: err.Error(), Hint: "Correct the highlighted value and try again."}
	}
	if errors.Is(err, webhook.ErrMissingBaseURL) {
		return errorView{
			Title:  "Not configured",
			Detail: err.Error(),
			Hint:   "Set N8N_WEBHOOK_BASE_URL or base_url in config.toml.",
		}
	}

	werr, ok := webhook.AsError(err)
	if !ok {
		return errorView{Title: "Error", Detail: err.Error()}
	}

	detail := werr.Error()
	switch code := werr.StatusCode; {
	case code == http.StatusNotFound:
		return errorView{
			Title:  "Resource not found",
			Detail: detail,
			Hint:   "The n8n workflow for this endpoint may be inactive, or the record was deleted.",
		}
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return errorView{
			Title:  "Authentication error",
			Detail: detail,
			Hint:   "Check the webhook credentials and that this workflow allows the request.",
		}
	case code == http.StatusTooManyRequests:
		return errorView{Title: "Rate limited", Detail: detail, Hint: "Wait a moment before retrying."}
	case code >= 500:
		return errorView{
			Title:  "Server error",
			Detail: detail,
			Hint:   "Usually temporary. Check the n8n execution log if it persists.",
		}
	case code >= 400:
		return errorView{Title: "Request rejected", Detail: detail, Hint: "The backend refused this input."}
	}

	switch werr.Kind {
	case webhook.KindTimeout:
		return errorView{
			Title:  "Request timeout",
			Detail: detail,
			Hint:   "The backend took too long. It may be busy processing; try again shortly.",
		}
	case webhook.KindConfiguration:
		return errorView{Title: "Not configured", Detail: detail, Hint: "Check the webhook base URL."}
	case webhook.KindRetriesExhausted:
		return errorView{Title: "Request failed", Detail: detail, Hint: "Try again shortly."}
	}

	title := "Cannot reach backend"
	if label := classifyConnectionError(werr.Err); label != "ERROR" {
		title = fmt.Sprintf("Cannot reach backend (%s)", strings.ToLower(label))
	}
	return errorView{Title: title, Detail: detail, Hint: "Check the network and the webhook base URL."}
}

// classifyConnectionError returns a short header label for a poll failure.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	if werr, ok := webhook.AsError(err); ok {
		switch {
		case werr.Kind == webhook.KindTimeout:
			return "TIMEOUT"
		case werr.StatusCode != 0:
			return fmt.Sprintf("HTTP %d", werr.StatusCode)
		}
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}
