package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ariel-frischer/changelog-notify/internal/changelog"
	"github.com/ariel-frischer/changelog-notify/internal/notify"
)

// DefaultDebounce is how long a file must stay quiet after a write before
// it is read again.
const DefaultDebounce = 150 * time.Millisecond

// Watcher delivers entries added to changelog files as they are edited.
// Each write is compared with the previous content of the file; entries with
// a header that was not there before are delivered.
type Watcher struct {
	extractor *changelog.Extractor
	sender    notify.Sender
	opts      PayloadOptions
	log       zerolog.Logger
	progress  Reporter
	debounce  time.Duration

	// ready is closed once the files are being watched. Used by tests.
	ready chan struct{}
}

// NewWatcher returns a watcher. opts.Before and opts.After are copied into
// payloads as-is.
func NewWatcher(extractor *changelog.Extractor, sender notify.Sender, opts Options) *Watcher {
	progress := opts.Progress
	if progress == nil {
		progress = noopReporter{}
	}
	return &Watcher{
		extractor: extractor,
		sender:    sender,
		opts:      opts.Payload,
		log:       opts.Logger.With().Str("component", "watcher").Logger(),
		progress:  progress,
		debounce:  DefaultDebounce,
		ready:     make(chan struct{}),
	}
}

// watched is one file under watch and its last seen content.
type watched struct {
	name    string // as given by the caller, used in payloads
	content string
}

// Watch blocks until ctx is done. It returns nil on cancellation and an
// error if the files cannot be watched. A Watcher is single-use.
func (w *Watcher) Watch(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return errors.New("no files to watch")
	}

	files := make(map[string]*watched, len(paths))
	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := resolvePath(p)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", p, err)
		}
		content, err := readText(abs)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		files[abs] = &watched{name: p, content: content}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}

	// Directories are watched so that editors replacing the file on save
	// are still seen.
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	w.log.Info().Strs("files", paths).Msg("Watching changelog files")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return fsw.Close()
	})
	g.Go(func() error {
		return w.loop(gctx, fsw, files)
	})
	close(w.ready)

	err = g.Wait()
	if ctx.Err() != nil && (err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return nil
	}
	return err
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, files map[string]*watched) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	var due <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			abs := filepath.Clean(ev.Name)
			if _, ok := files[abs]; !ok {
				continue
			}
			pending[abs] = struct{}{}
			timer.Reset(w.debounce)
			due = timer.C
		case <-due:
			due = nil
			names := make([]string, 0, len(pending))
			for abs := range pending {
				names = append(names, abs)
			}
			sort.Strings(names)
			clear(pending)
			for _, abs := range names {
				w.changed(ctx, files[abs], abs)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("file watcher error")
		}
	}
}

// changed reads the file again and delivers the entries that are new since
// the last read.
func (w *Watcher) changed(ctx context.Context, f *watched, abs string) {
	log := w.log.With().Str("file", f.name).Logger()

	content, err := readText(abs)
	if err != nil {
		log.Debug().Err(err).Msg("could not read changed file")
		return
	}
	// An empty read is usually a save in progress.
	if content == "" || content == f.content {
		return
	}

	res := w.extractor.NewBetween(ctx, f.content, content)
	f.content = content
	logFallback(log, res)

	if len(res.Entries) == 0 {
		log.Debug().Msg("No new changelog entries")
		return
	}

	for _, e := range res.Entries {
		if ctx.Err() != nil {
			return
		}
		deliver(ctx, w.sender, w.progress, log, f.name, e, BuildPayload(f.name, e, w.opts))
	}
}

// resolvePath returns p as an absolute path with its directory's symlinks
// resolved, matching the names fsnotify reports.
func resolvePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if dir, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		abs = filepath.Join(dir, filepath.Base(abs))
	}
	return abs, nil
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
