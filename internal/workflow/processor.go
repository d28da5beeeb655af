// Package workflow runs the notify pipeline: find changed changelog files
// between two revisions, extract the entries a change added, and deliver
// one payload per entry. Watcher does the same for files edited in place.
package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ariel-frischer/changelog-notify/internal/changelog"
	"github.com/ariel-frischer/changelog-notify/internal/glob"
	"github.com/ariel-frischer/changelog-notify/internal/notify"
)

// Source reads changelog text from version control. Implementations log
// their own failures and return empty results.
type Source interface {
	ChangedFiles(before, after string) []string
	AddedLines(before, after, path string) string
	FileAt(rev, path string) string
}

// Reporter shows delivery progress. *progress.Spinner implements it.
type Reporter interface {
	Start(msg string)
	Update(msg string)
	Success(msg string)
	Fail(msg string)
}

type noopReporter struct{}

func (noopReporter) Start(string)   {}
func (noopReporter) Update(string)  {}
func (noopReporter) Success(string) {}
func (noopReporter) Fail(string)    {}

// Options configures a Processor.
type Options struct {
	// FileGlobs selects changelog files, comma-separated. Empty keeps all.
	FileGlobs string
	Payload   PayloadOptions
	Logger    zerolog.Logger
	// Progress is optional.
	Progress Reporter
}

// Summary counts what a run did.
type Summary struct {
	// Files is the number of changed files that matched the globs.
	Files int
	// Entries is the number of new entries found.
	Entries   int
	Delivered int
	Failed    int
}

// Processor extracts new entries from a change and delivers them.
type Processor struct {
	source    Source
	extractor *changelog.Extractor
	sender    notify.Sender
	opts      Options
	log       zerolog.Logger
	progress  Reporter
}

// NewProcessor returns a processor. The extractor decides how entries are
// recognised; the sender decides where payloads go.
func NewProcessor(source Source, extractor *changelog.Extractor, sender notify.Sender, opts Options) *Processor {
	progress := opts.Progress
	if progress == nil {
		progress = noopReporter{}
	}
	return &Processor{
		source:    source,
		extractor: extractor,
		sender:    sender,
		opts:      opts,
		log:       opts.Logger.With().Str("component", "workflow").Logger(),
		progress:  progress,
	}
}

// Run processes the revision range in opts.Payload. Failures on one file or
// one delivery are logged and counted; only context cancellation stops the
// run early and is returned.
func (p *Processor) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	before, after := p.opts.Payload.Before, p.opts.Payload.After

	changed := p.changedChangelogs(before, after)
	if len(changed) == 0 {
		p.log.Info().Msg("No changed changelog files detected")
		return sum, nil
	}
	sum.Files = len(changed)
	p.log.Info().Strs("files", changed).Msg("Changed candidate files")

	for _, path := range changed {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if err := p.processFile(ctx, path, &sum); err != nil {
			return sum, err
		}
	}

	p.log.Info().
		Int("files", sum.Files).
		Int("entries", sum.Entries).
		Int("delivered", sum.Delivered).
		Int("failed", sum.Failed).
		Msg("Run complete")
	return sum, nil
}

func (p *Processor) changedChangelogs(before, after string) []string {
	return glob.Filter(p.source.ChangedFiles(before, after), p.opts.FileGlobs)
}

func (p *Processor) processFile(ctx context.Context, path string, sum *Summary) error {
	log := p.log.With().Str("file", path).Logger()
	before, after := p.opts.Payload.Before, p.opts.Payload.After

	added := p.source.AddedLines(before, after, path)
	if strings.TrimSpace(added) == "" {
		log.Info().Msg("No additions detected")
		return nil
	}

	log.Info().Msg("Processing additions")
	res := p.extractor.NewFromAdditions(ctx, added)
	logFallback(log, res)

	if len(res.Entries) == 0 {
		log.Info().Msg("No new changelog entries found in additions")
		return nil
	}
	sum.Entries += len(res.Entries)

	for _, e := range res.Entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		payload := BuildPayload(path, e, p.opts.Payload)
		if deliver(ctx, p.sender, p.progress, log, path, e, payload) {
			sum.Delivered++
		} else {
			sum.Failed++
		}
	}
	return nil
}

// deliver sends one payload and reports whether it succeeded.
func deliver(ctx context.Context, sender notify.Sender, progress Reporter, log zerolog.Logger, path string, e changelog.Entry, payload changelog.Record) bool {
	log.Info().Str("header", e.Header).Msg("Posting changelog entry")
	progress.Start(fmt.Sprintf("Posting %s from %s", e.Header, path))

	res, err := sender.Send(ctx, payload)
	if err != nil {
		log.Error().Err(err).Str("header", e.Header).Msg("Failed to post entry")
		progress.Fail(fmt.Sprintf("Failed to post %s", e.Header))
		return false
	}

	if res.StatusCode != 0 {
		log.Info().Int("status", res.StatusCode).Msgf("Posted successfully: HTTP %d", res.StatusCode)
	} else {
		log.Info().Msg("Payload written")
	}
	progress.Success(fmt.Sprintf("Posted %s", e.Header))
	return true
}

func logFallback(log zerolog.Logger, res changelog.SplitResult) {
	if res.Err != nil {
		log.Warn().Err(res.Err).Msg("structured parser failed, used the lenient splitter")
		return
	}
	if res.FellBack {
		log.Debug().Msg("structured parser found no versions, used the lenient splitter")
	}
}
