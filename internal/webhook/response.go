package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Response is a successful webhook reply normalized to JSON. Non-JSON bodies
// are wrapped as {"status":"success","message":<text>} and Fallback is set.
// A Response may be shared through the read cache and must not be mutated.
type Response struct {
	StatusCode int
	Body       json.RawMessage
	Fallback   bool
	Attempts   int
}

func newResponse(status int, data []byte) *Response {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && json.Valid(trimmed) {
		return &Response{StatusCode: status, Body: json.RawMessage(trimmed)}
	}
	wrapped, _ := json.Marshal(Envelope{Status: "success", Message: string(data)})
	return &Response{StatusCode: status, Body: wrapped, Fallback: true}
}

// Decode unmarshals the body into dest.
func (r *Response) Decode(dest any) error {
	if r == nil {
		return fmt.Errorf("decode response: nil response")
	}
	if err := json.Unmarshal(r.Body, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Envelope decodes the body as a status/message acknowledgement. Bodies of
// another shape yield an empty envelope.
func (r *Response) Envelope() Envelope {
	var env Envelope
	if r == nil {
		return env
	}
	_ = json.Unmarshal(r.Body, &env)
	return env
}

// Lookup walks nested objects by key and returns the value found, decoded
// into plain Go values.
func (r *Response) Lookup(keys ...string) (any, bool) {
	if r == nil {
		return nil, false
	}
	var cur any
	if err := json.Unmarshal(r.Body, &cur); err != nil {
		return nil, false
	}
	for _, k := range keys {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[k]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// String returns the body as text.
func (r *Response) String() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}
