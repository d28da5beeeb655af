package changelog

import "context"

// Extractor turns changelog text into entries using a Splitter and an
// Adapter, and finds entries that are new between two versions of a
// document.
type Extractor struct {
	splitter *Splitter
	adapter  Adapter
}

// NewExtractor builds an Extractor for the given header pattern. A nil
// adapter means Absent. Returns a *PatternError if the pattern is invalid.
func NewExtractor(pattern string, adapter Adapter) (*Extractor, error) {
	splitter, err := NewSplitter(pattern)
	if err != nil {
		return nil, err
	}
	if adapter == nil {
		adapter = Absent{}
	}
	return &Extractor{splitter: splitter, adapter: adapter}, nil
}

// Splitter returns the lenient splitter backing the extractor.
func (x *Extractor) Splitter() *Splitter {
	return x.splitter
}

// Entries splits content into entries.
func (x *Extractor) Entries(ctx context.Context, content string) SplitResult {
	if content == "" {
		return SplitResult{Entries: []Entry{}}
	}
	return x.adapter.Split(ctx, content, x.splitter)
}

// NewFromAdditions returns the entries found in text made only of lines
// inserted by a change. Any header found there was added by that change.
//
// A change that edits bullets under an existing header without re-inserting
// the header line yields nothing: only wholly new entries count.
func (x *Extractor) NewFromAdditions(ctx context.Context, added string) SplitResult {
	return x.Entries(ctx, added)
}

// NewBetween splits both snapshots and returns the entries of after whose
// header does not appear in before. Header comparison is exact, so editing a
// header line (even cosmetically) makes that entry new.
func (x *Extractor) NewBetween(ctx context.Context, before, after string) SplitResult {
	prev := x.Entries(ctx, before)
	next := x.Entries(ctx, after)

	err := prev.Err
	if err == nil {
		err = next.Err
	}

	return SplitResult{
		Entries:  NewEntries(prev.Entries, next.Entries),
		FellBack: prev.FellBack || next.FellBack,
		Err:      err,
	}
}

// NewEntries returns the entries of after whose header is not a header of
// any entry in before, in the order of after.
func NewEntries(before, after []Entry) []Entry {
	seen := make(map[string]struct{}, len(before))
	for _, e := range before {
		seen[e.Header] = struct{}{}
	}

	added := make([]Entry, 0, len(after))
	for _, e := range after {
		if _, ok := seen[e.Header]; ok {
			continue
		}
		added = append(added, e)
	}
	return added
}
