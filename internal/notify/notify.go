// Package notify delivers changelog payloads. WebhookSender posts JSON over
// HTTP; ConsoleSender prints the payload for dry runs.
package notify

import (
	"context"
	"encoding/json"
	"io"
)

// Sender delivers one payload. Implementations must be safe to call
// sequentially from a single goroutine; no concurrent use is assumed.
type Sender interface {
	Send(ctx context.Context, payload any) (*Result, error)
}

// Result describes a successful delivery.
type Result struct {
	// StatusCode is the HTTP status. Zero for senders that do not use HTTP.
	StatusCode int
	Body       string
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, payload any) (*Result, error)

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, payload any) (*Result, error) {
	return f(ctx, payload)
}

// encodeJSON writes v without HTML escaping, optionally indented.
func encodeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
