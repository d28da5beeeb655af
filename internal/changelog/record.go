package changelog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Base record keys, in output order.
const (
	KeyHeader   = "header"
	KeyVersion  = "version"
	KeyDate     = "date"
	KeySections = "sections"
)

// field is a caller-supplied record field. Leading fields are written
// before the base keys.
type field struct {
	key   string
	value any
	lead  bool
}

// Record is the structured output for one entry: its header, metadata and
// sections, plus caller fields. Caller fields may override base fields;
// the last write wins.
type Record struct {
	Entry    Entry
	Metadata Metadata
	Sections Sections
	fields   []field
}

// NewRecord parses the sections and metadata of an entry.
func NewRecord(e Entry) Record {
	return Record{
		Entry:    e,
		Metadata: ExtractVersionAndDate(e.Header),
		Sections: ParseSections(e.Text),
	}
}

// NewRecords builds one record per entry, preserving order.
func NewRecords(entries []Entry) []Record {
	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, NewRecord(e))
	}
	return records
}

// Set adds a field or replaces an earlier value for the same key. Setting a
// base key (header, version, date, sections) overrides it in the output.
func (r *Record) Set(key string, value any) {
	r.set(key, value, false)
}

// SetLeading is Set for a field written ahead of the base keys. A key that
// is already present keeps its position.
func (r *Record) SetLeading(key string, value any) {
	r.set(key, value, true)
}

func (r *Record) set(key string, value any, lead bool) {
	for i := range r.fields {
		if r.fields[i].key == key {
			r.fields[i].value = value
			return
		}
	}
	r.fields = append(r.fields, field{key: key, value: value, lead: lead})
}

// Merge sets every key of m, in sorted key order.
func (r *Record) Merge(m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.Set(k, m[k])
	}
}

// Get returns the value a key will have in the output.
func (r Record) Get(key string) (any, bool) {
	for _, f := range r.fields {
		if f.key == key {
			return f.value, true
		}
	}
	switch key {
	case KeyHeader:
		return r.Entry.Header, true
	case KeyVersion:
		return nullable(r.Metadata.Version), true
	case KeyDate:
		return nullable(r.Metadata.Date), true
	case KeySections:
		return r.Sections, true
	}
	return nil, false
}

// Keys returns the output keys in order.
func (r Record) Keys() []string {
	keys := make([]string, 0, 4+len(r.fields))
	for _, f := range r.fields {
		if f.lead && !isBaseKey(f.key) {
			keys = append(keys, f.key)
		}
	}
	keys = append(keys, KeyHeader, KeyVersion, KeyDate, KeySections)
	for _, f := range r.fields {
		if f.lead || isBaseKey(f.key) {
			continue
		}
		keys = append(keys, f.key)
	}
	return keys
}

// MarshalJSON writes leading fields, then base keys (with any overrides in
// place), then the other caller fields in insertion order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.Keys() {
		value, _ := r.Get(key)
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalJSON(key)
		if err != nil {
			return nil, err
		}
		v, err := marshalJSON(value)
		if err != nil {
			return nil, fmt.Errorf("encoding field %q: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalJSON is json.Marshal without HTML escaping, so "<" and ">" in
// changelog text are written as-is.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func isBaseKey(key string) bool {
	switch key {
	case KeyHeader, KeyVersion, KeyDate, KeySections:
		return true
	}
	return false
}
