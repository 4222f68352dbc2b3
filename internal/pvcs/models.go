package pvcs

import (
	"fmt"
	"iter"
	"strings"
	"time"
)

// ChangeEntry represents the newest revision of one archive as reported by vlog.
type ChangeEntry struct {
	FileName     string
	Revision     string
	Author       string
	Comment      string     // Multi-line comments are joined with the parser's line separator
	ModifiedTime *time.Time // nil when the check-in time could not be parsed
}

// HasModifiedTime reports whether a check-in time was recovered for the entry.
func (e ChangeEntry) HasModifiedTime() bool {
	return e.ModifiedTime != nil
}

// String returns a compact single-record description used in log messages.
func (e ChangeEntry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "file=%q revision=%q author=%q", e.FileName, e.Revision, e.Author)
	if e.ModifiedTime != nil {
		fmt.Fprintf(&b, " modified=%s", e.ModifiedTime.Format(time.RFC3339))
	}
	if e.Comment != "" {
		fmt.Fprintf(&b, " comment=%q", e.Comment)
	}
	return b.String()
}

// ChangeSet is an ordered collection of change entries.
// Entries keep the order in which their records were opened; the same file may
// appear more than once.
type ChangeSet struct {
	entries []ChangeEntry
}

// NewChangeSet creates an empty change set.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{entries: make([]ChangeEntry, 0, 64)}
}

// Add appends an entry to the end of the set.
func (s *ChangeSet) Add(e ChangeEntry) {
	s.entries = append(s.entries, e)
}

// Len returns the number of entries.
func (s *ChangeSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// IsEmpty returns true if the set holds no entries.
func (s *ChangeSet) IsEmpty() bool {
	return s.Len() == 0
}

// At returns the entry at index i.
func (s *ChangeSet) At(i int) ChangeEntry {
	return s.entries[i]
}

// Entries returns a copy of the entries in order.
func (s *ChangeSet) Entries() []ChangeEntry {
	if s == nil {
		return nil
	}
	out := make([]ChangeEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// All iterates over the entries in order.
func (s *ChangeSet) All() iter.Seq2[int, ChangeEntry] {
	return func(yield func(int, ChangeEntry) bool) {
		if s == nil {
			return
		}
		for i, e := range s.entries {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Filter returns a new set holding the entries for which keep returns true.
func (s *ChangeSet) Filter(keep func(ChangeEntry) bool) *ChangeSet {
	out := NewChangeSet()
	for _, e := range s.All() {
		if keep(e) {
			out.Add(e)
		}
	}
	return out
}
