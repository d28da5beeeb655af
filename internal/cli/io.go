package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/ariel-frischer/changelog-notify/internal/changelog"
	clierrors "github.com/ariel-frischer/changelog-notify/internal/errors"
)

// Output formats for commands that print records.
const (
	formatJSON = "json"
	formatText = "text"
)

// readSource reads a changelog from a file, an http(s) URL, or in when
// source is empty or "-".
func readSource(ctx context.Context, in io.Reader, source string) (string, error) {
	switch {
	case source == "" || source == "-":
		data, err := io.ReadAll(in)
		if err != nil {
			return "", clierrors.FileNotReadable("stdin", err)
		}
		return string(data), nil
	case changelog.IsRemote(source):
		ctx, cancel := context.WithTimeout(ctx, changelog.DefaultRemoteTimeout)
		defer cancel()
		text, err := changelog.FetchRemote(ctx, source)
		if err != nil {
			return "", clierrors.FileNotReadable(source, err)
		}
		return text, nil
	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return "", clierrors.FileNotReadable(source, err)
		}
		return string(data), nil
	}
}

// writeRecords prints records. In JSON a single record is written as an
// object and any other count as an array.
func writeRecords(w io.Writer, records []changelog.Record, format string, plain bool) error {
	switch format {
	case formatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if len(records) == 1 {
			return enc.Encode(records[0])
		}
		if records == nil {
			records = []changelog.Record{}
		}
		return enc.Encode(records)
	case formatText:
		return changelog.FormatTerminal(records, w, changelog.FormatOptions{Plain: plain})
	default:
		return clierrors.NewArgumentError(
			fmt.Sprintf("unknown format %q", format),
			"Use --format json or --format text",
		)
	}
}

// parseExtra decodes a --extra value. Empty and null mean no fields.
func parseExtra(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	var extra map[string]any
	if err := json.Unmarshal([]byte(raw), &extra); err != nil {
		return nil, clierrors.InvalidExtraJSON(err)
	}
	return extra, nil
}

// logFallback reports a structured parser fallback.
func logFallback(log zerolog.Logger, res changelog.SplitResult) {
	if res.Err != nil {
		log.Warn().Err(res.Err).Msg("structured parser failed, used the lenient splitter")
	} else if res.FellBack {
		log.Debug().Msg("structured parser found no versions, used the lenient splitter")
	}
}
