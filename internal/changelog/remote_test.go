package changelog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchFromURL(t *testing.T) {
	const body = "# Changelog\n\n## [0.7.0] - 2025-01-01\n### Added\n- Test feature\n"

	tests := map[string]struct {
		handler    http.HandlerFunc
		wantErr    bool
		wantErrMsg string
		wantBody   string
	}{
		"successful fetch": {
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(body))
			},
			wantBody: body,
		},
		"server error": {
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr:    true,
			wantErrMsg: "unexpected status code: 500",
		},
		"not found": {
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			wantErr:    true,
			wantErrMsg: "unexpected status code: 404",
		},
		"empty body": {
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			wantBody: "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			got, err := fetchFromURL(context.Background(), server.Client(), server.URL)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBody, got)
		})
	}
}

func TestFetchFromURL_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fetchFromURL(ctx, server.Client(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context canceled")
}

func TestFetchFromURL_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := fetchFromURL(ctx, server.Client(), server.URL)
	require.Error(t, err)
}

func TestFetchRemote_FeedsSplitter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("## 0.9.0\n- x\n## 0.8.0\n- y\n"))
	}))
	defer server.Close()

	text, err := FetchRemote(context.Background(), server.URL)
	require.NoError(t, err)

	entries, err := Split(text, DefaultHeaderPattern)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestIsRemote(t *testing.T) {
	tests := map[string]struct {
		source string
		want   bool
	}{
		"https":      {source: "https://example.com/CHANGELOG.md", want: true},
		"http":       {source: "http://localhost:8080/c.md", want: true},
		"local path": {source: "CHANGELOG.md", want: false},
		"stdin":      {source: "-", want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRemote(tt.source))
		})
	}
}
