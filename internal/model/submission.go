package model

import (
	"bytes"
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ThemeEntry is one top-level section of a submission, as received
type ThemeEntry struct {
	Name string
	Raw  json.RawMessage
}

// Submission is a diagnostic form keyed by theme name.
// Keys keep the order in which they appeared in the request body.
type Submission struct {
	entries []ThemeEntry
}

// NewSubmission builds a submission from already ordered entries
func NewSubmission(entries ...ThemeEntry) *Submission {
	s := &Submission{}
	for _, e := range entries {
		s.Set(e.Name, e.Raw)
	}
	return s
}

// Entries returns the themes in insertion order
func (s *Submission) Entries() []ThemeEntry {
	if s == nil {
		return nil
	}
	return s.entries
}

// Len returns the number of themes
func (s *Submission) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Get returns the raw payload stored under name
func (s *Submission) Get(name string) (json.RawMessage, bool) {
	if s == nil {
		return nil, false
	}
	for _, e := range s.entries {
		if e.Name == name {
			return e.Raw, true
		}
	}
	return nil, false
}

// Set stores a payload; an existing key keeps its position
func (s *Submission) Set(name string, raw json.RawMessage) {
	for i := range s.entries {
		if s.entries[i].Name == name {
			s.entries[i].Raw = raw
			return
		}
	}
	s.entries = append(s.entries, ThemeEntry{Name: name, Raw: raw})
}

// UnmarshalJSON decodes a JSON object while preserving key order
func (s *Submission) UnmarshalJSON(data []byte) error {
	om := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(data, om); err != nil {
		return err
	}
	s.entries = make([]ThemeEntry, 0, om.Len())
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		s.entries = append(s.entries, ThemeEntry{Name: pair.Key, Raw: pair.Value})
	}
	return nil
}

// MarshalJSON encodes the submission with its original key order
func (s *Submission) MarshalJSON() ([]byte, error) {
	om := orderedmap.New[string, json.RawMessage]()
	for _, e := range s.Entries() {
		raw := e.Raw
		if len(bytes.TrimSpace(raw)) == 0 {
			raw = json.RawMessage("null")
		}
		om.Set(e.Name, raw)
	}
	return json.Marshal(om)
}
