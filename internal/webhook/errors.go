package webhook

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Kind classifies a failed webhook call.
type Kind int

const (
	// KindTransport covers network failures and non-2xx responses.
	KindTransport Kind = iota
	// KindTimeout means the last attempt ran past its deadline.
	KindTimeout
	// KindRetriesExhausted is reported when every attempt failed without a recorded cause.
	KindRetriesExhausted
	// KindConfiguration means the client cannot be built from its options.
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindRetriesExhausted:
		return "retries exhausted"
	case KindConfiguration:
		return "configuration"
	default:
		return "transport failure"
	}
}

// Sentinels usable with errors.Is against an *Error.
var (
	ErrTimeout          = errors.New("webhook: timeout")
	ErrTransport        = errors.New("webhook: transport failure")
	ErrRetriesExhausted = errors.New("webhook: retries exhausted")
	ErrMissingBaseURL   = errors.New("webhook: base url is required")
	ErrInvalidArgument  = errors.New("webhook: invalid argument")
)

// Error is returned once a call has failed for good.
type Error struct {
	Kind       Kind
	Method     string
	Endpoint   string
	Attempts   int
	StatusCode int    // zero when no response was received
	Body       string // excerpt of the failing response body
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	switch e.Kind {
	case KindConfiguration:
		b.WriteString("configuration error")
	case KindTimeout:
		fmt.Fprintf(&b, "request timeout after %d attempts", e.Attempts)
	case KindRetriesExhausted:
		fmt.Fprintf(&b, "request failed after %d attempts", e.Attempts)
	default:
		fmt.Fprintf(&b, "api request failed after %d attempts", e.Attempts)
	}
	if e.Endpoint != "" {
		fmt.Fprintf(&b, " (%s %s)", e.Method, e.Endpoint)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
		if e.Body != "" {
			fmt.Fprintf(&b, " %s", e.Body)
		}
	} else if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind sentinels so callers can write errors.Is(err, ErrTimeout).
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTimeout:
		return e.Kind == KindTimeout
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrRetriesExhausted:
		return e.Kind == KindRetriesExhausted
	}
	return false
}

// StatusError describes a non-2xx response for a single attempt.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("returned status %d: %s", e.StatusCode, e.Body)
}

// AsError extracts the classified failure from err.
func AsError(err error) (*Error, bool) {
	var werr *Error
	if errors.As(err, &werr) {
		return werr, true
	}
	return nil, false
}

// StatusCode returns the HTTP status carried by err, or zero.
func StatusCode(err error) int {
	if werr, ok := AsError(err); ok {
		return werr.StatusCode
	}
	var serr *StatusError
	if errors.As(err, &serr) {
		return serr.StatusCode
	}
	return 0
}

const bodyExcerptLimit = 256

// excerpt trims body to bodyExcerptLimit bytes without splitting a rune.
func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= bodyExcerptLimit {
		return s
	}
	cut := bodyExcerptLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
