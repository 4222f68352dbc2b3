package bugfix

import (
	"regexp"
	"strings"

	"github.com/masmgr/pvcslog-go/internal/pvcs"
)

// DefaultPatterns match the comment wording commonly used for fixes.
var DefaultPatterns = []string{
	`\bfix(e[ds])?\b`,
	`\bbug(s|fix)?\b`,
	`\bhotfix\b`,
	`\bdefect\b`,
	`\b(SCR|CR|PR)[ #-]?\d+\b`,
}

// Result holds the outcome of bugfix detection over a change set.
type Result struct {
	// Entries holds the positions of entries classified as bugfixes, in set order.
	Entries []int
	// FileBugfixCounts maps file names to the number of bugfix revisions recorded for them.
	FileBugfixCounts map[string]int
	// TotalBugfixes is the number of bugfix revisions detected.
	TotalBugfixes int

	index map[int]struct{}
}

// IsBugfixEntry reports whether the entry at position i was classified as a bugfix.
// The lookup index is built from Entries on first use when Detect did not build it.
func (r *Result) IsBugfixEntry(i int) bool {
	if r.index == nil {
		r.index = make(map[int]struct{}, len(r.Entries))
		for _, idx := range r.Entries {
			r.index[idx] = struct{}{}
		}
	}
	_, ok := r.index[i]
	return ok
}

// Detector detects bugfix revisions by matching check-in comments against regex patterns.
type Detector struct {
	patterns []*regexp.Regexp
}

// NewDetector creates a new Detector from a list of regex pattern strings.
// Patterns are compiled as case-insensitive. Returns an error if any pattern fails to compile.
func NewDetector(patterns []string) (*Detector, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "(?i)") {
			p = "(?i)" + p
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, re)
	}
	return &Detector{patterns: compiled}, nil
}

// IsBugfix returns true if the given comment matches any of the detector's patterns.
func (d *Detector) IsBugfix(comment string) bool {
	for _, re := range d.patterns {
		if re.MatchString(comment) {
			return true
		}
	}
	return false
}

// Detect classifies every entry of set by its comment.
func (d *Detector) Detect(set *pvcs.ChangeSet) *Result {
	result := &Result{
		FileBugfixCounts: make(map[string]int),
		index:            make(map[int]struct{}),
	}

	if len(d.patterns) == 0 {
		return result
	}

	for i, entry := range set.All() {
		if !d.IsBugfix(entry.Comment) {
			continue
		}
		result.Entries = append(result.Entries, i)
		result.index[i] = struct{}{}
		result.FileBugfixCounts[entry.FileName]++
		result.TotalBugfixes++
	}

	return result
}
