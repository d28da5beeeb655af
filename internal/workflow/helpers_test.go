package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/changelog-notify/internal/changelog"
	"github.com/ariel-frischer/changelog-notify/internal/notify"
)

// fakeSource serves canned repository reads.
type fakeSource struct {
	changed []string
	added   map[string]string
	files   map[string]string

	calls []string
}

func (f *fakeSource) ChangedFiles(before, after string) []string {
	f.calls = append(f.calls, "changed "+before+".."+after)
	return f.changed
}

func (f *fakeSource) AddedLines(before, after, path string) string {
	f.calls = append(f.calls, "added "+path)
	return f.added[path]
}

func (f *fakeSource) FileAt(rev, path string) string {
	return f.files[rev+":"+path]
}

// recordingSender keeps the JSON of every payload. Headers listed in fail
// are rejected.
type recordingSender struct {
	mu       sync.Mutex
	payloads []string
	fail     map[string]bool
	notify   chan struct{}
}

func newRecordingSender() *recordingSender {
	return &recordingSender{fail: map[string]bool{}, notify: make(chan struct{}, 16)}
}

func (s *recordingSender) Send(_ context.Context, payload any) (*notify.Result, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if r, ok := payload.(changelog.Record); ok && s.fail[r.Entry.Header] {
		return nil, errors.New("HTTP 500: boom")
	}

	s.mu.Lock()
	s.payloads = append(s.payloads, string(data))
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
	return &notify.Result{StatusCode: 200}, nil
}

func (s *recordingSender) sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.payloads...)
}

func newExtractor(t *testing.T) *changelog.Extractor {
	t.Helper()
	x, err := changelog.NewExtractor(changelog.DefaultHeaderPattern, nil)
	require.NoError(t, err)
	return x
}

// bufferLogger returns a JSON logger writing to a buffer.
func bufferLogger() (zerolog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return zerolog.New(buf), buf
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) contains(s string) bool {
	return strings.Contains(b.String(), s)
}

// reporterLog records Reporter calls.
type reporterLog struct {
	events []string
}

func (r *reporterLog) Start(msg string)   { r.events = append(r.events, "start "+msg) }
func (r *reporterLog) Update(msg string)  { r.events = append(r.events, "update "+msg) }
func (r *reporterLog) Success(msg string) { r.events = append(r.events, "ok "+msg) }
func (r *reporterLog) Fail(msg string)    { r.events = append(r.events, "fail "+msg) }

func jsonUnmarshal(s string, v any) error {
	return json.Unmarshal([]byte(s), v)
}
