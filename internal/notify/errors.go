package notify

import (
	"bytes"
	"fmt"
)

// RequestDetails describes a failed request with sensitive headers masked.
type RequestDetails struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Body    any               `json:"body"`
}

// DeliveryError is returned when the webhook answers with a non-2xx status.
type DeliveryError struct {
	StatusCode int
	Body       string
	Request    RequestDetails
}

func (e *DeliveryError) Error() string {
	var details bytes.Buffer
	if err := encodeJSON(&details, e.Request, true); err != nil {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("HTTP %d: %s\n\nRequest Details:\n%s",
		e.StatusCode, e.Body, bytes.TrimSuffix(details.Bytes(), []byte("\n")))
}
