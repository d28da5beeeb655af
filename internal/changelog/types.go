package changelog

import (
	"bytes"
	"encoding/json"
)

// RootSection is the implicit section for bullets that precede any
// ### sub-heading.
const RootSection = "root"

// Entry is one version block of a changelog: its heading line and the text
// from that heading up to the next one.
type Entry struct {
	Header string `json:"header"`
	Text   string `json:"text"`
}

// Metadata holds the version and date tokens found in an entry header.
// An empty field means the pattern was not found; it encodes as JSON null.
type Metadata struct {
	Version string
	Date    string
}

// HasVersion returns true if a version token was found.
func (m Metadata) HasVersion() bool {
	return m.Version != ""
}

// HasDate returns true if a date token was found.
func (m Metadata) HasDate() bool {
	return m.Date != ""
}

// MarshalJSON encodes missing fields as null.
func (m Metadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Version *string `json:"version"`
		Date    *string `json:"date"`
	}{
		Version: nullable(m.Version),
		Date:    nullable(m.Date),
	})
}

// nullable maps the empty string to a nil pointer.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Sections maps section names to their bullets, keeping the order in which
// sections first appeared. The zero value is empty; use NewSections for a
// value that already holds the root section.
type Sections struct {
	names   []string
	bullets map[string][]string
}

// NewSections returns Sections holding an empty root section.
func NewSections() Sections {
	s := Sections{bullets: make(map[string][]string)}
	s.ensure(RootSection)
	return s
}

// ensure allocates a section if it has not been seen yet.
func (s *Sections) ensure(name string) {
	if s.bullets == nil {
		s.bullets = make(map[string][]string)
	}
	if _, ok := s.bullets[name]; ok {
		return
	}
	s.names = append(s.names, name)
	s.bullets[name] = []string{}
}

// add appends a bullet to the named section, allocating it if needed.
func (s *Sections) add(name, bullet string) {
	s.ensure(name)
	s.bullets[name] = append(s.bullets[name], bullet)
}

// Names returns section names in order of first appearance.
func (s Sections) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Get returns the bullets of a section and whether the section exists.
func (s Sections) Get(name string) ([]string, bool) {
	b, ok := s.bullets[name]
	return b, ok
}

// Len returns the number of sections, root included.
func (s Sections) Len() int {
	return len(s.names)
}

// Count returns the total number of bullets across all sections.
func (s Sections) Count() int {
	n := 0
	for _, b := range s.bullets {
		n += len(b)
	}
	return n
}

// Map returns a plain map copy of the sections. Order is lost.
func (s Sections) Map() map[string][]string {
	out := make(map[string][]string, len(s.names))
	for _, name := range s.names {
		b := make([]string, len(s.bullets[name]))
		copy(b, s.bullets[name])
		out[name] = b
	}
	return out
}

// MarshalJSON encodes the sections as an object whose keys keep their
// order of appearance.
func (s Sections) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalJSON(name)
		if err != nil {
			return nil, err
		}
		val, err := marshalJSON(s.bullets[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
