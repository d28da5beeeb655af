package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ariel-frischer/changelog-notify/internal/build"
)

// DefaultTimeout bounds a single webhook request.
const DefaultTimeout = 30 * time.Second

// maxResponseBody caps how much of a response is kept for reporting.
const maxResponseBody = 64 << 10

// WebhookSender posts payloads as JSON to a fixed URL.
type WebhookSender struct {
	url     string
	method  string
	headers map[string]string
	client  *http.Client
	log     zerolog.Logger
}

// WebhookOption configures a WebhookSender.
type WebhookOption func(*WebhookSender)

// WithHeaders adds request headers. Names are canonicalized, so a user
// header replaces the default Content-Type whatever its spelling.
func WithHeaders(headers map[string]string) WebhookOption {
	return func(s *WebhookSender) {
		for k, v := range headers {
			s.headers[http.CanonicalHeaderKey(k)] = v
		}
	}
}

// WithMethod sets the HTTP method. Empty means POST.
func WithMethod(method string) WebhookOption {
	return func(s *WebhookSender) {
		if method != "" {
			s.method = strings.ToUpper(method)
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) WebhookOption {
	return func(s *WebhookSender) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) WebhookOption {
	return func(s *WebhookSender) {
		if c != nil {
			s.client = c
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log zerolog.Logger) WebhookOption {
	return func(s *WebhookSender) {
		s.log = log
	}
}

// NewWebhookSender returns a sender for rawURL. The URL must be absolute
// http or https.
func NewWebhookSender(rawURL string, opts ...WebhookOption) (*WebhookSender, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing webhook URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("webhook URL must be http or https, got %q", rawURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("webhook URL has no host: %q", rawURL)
	}

	s := &WebhookSender{
		url:     rawURL,
		method:  http.MethodPost,
		headers: map[string]string{},
		client:  &http.Client{Timeout: DefaultTimeout},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Send encodes payload and sends it. A non-2xx response is returned as a
// *DeliveryError.
func (s *WebhookSender) Send(ctx context.Context, payload any) (*Result, error) {
	var body bytes.Buffer
	if err := encodeJSON(&body, payload, false); err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}
	data := bytes.TrimSuffix(body.Bytes(), []byte("\n"))

	headers := map[string]string{
		"Content-Type":   "application/json",
		"Content-Length": strconv.Itoa(len(data)),
	}
	for k, v := range s.headers {
		headers[k] = v
	}

	req, err := http.NewRequestWithContext(ctx, s.method, s.url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", build.UserAgent())
	for k, v := range headers {
		// net/http derives Content-Length from the body.
		if strings.EqualFold(k, "Content-Length") {
			continue
		}
		req.Header.Set(k, v)
	}

	s.log.Debug().
		Str("method", s.method).
		Str("url", s.url).
		Int("bytes", len(data)).
		Msg("sending webhook")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &DeliveryError{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
			Request: RequestDetails{
				URL:     displayURL(req.URL),
				Method:  s.method,
				Headers: MaskSensitiveHeaders(headers),
				Body:    payload,
			},
		}
	}

	return &Result{StatusCode: resp.StatusCode, Body: string(respBody)}, nil
}

// displayURL drops user info and fragment.
func displayURL(u *url.URL) string {
	out := u.Scheme + "://" + u.Host + u.EscapedPath()
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	return out
}
