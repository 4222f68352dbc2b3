package pvcs

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PathFilter selects entries by file name using glob patterns.
type PathFilter struct {
	Include []string // Glob patterns to include; empty accepts everything
	Exclude []string // Glob patterns to exclude; checked first
}

// Validate reports the first malformed pattern.
func (f PathFilter) Validate() error {
	for _, pattern := range append(append([]string{}, f.Include...), f.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}
	return nil
}

// IsEmpty returns true if the filter accepts every path.
func (f PathFilter) IsEmpty() bool {
	return len(f.Include) == 0 && len(f.Exclude) == 0
}

// Matches checks if a path passes the include/exclude patterns.
func (f PathFilter) Matches(path string) bool {
	// Normalize path separators
	path = strings.ReplaceAll(path, "\\", "/")

	for _, pattern := range f.Exclude {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return false
		}
	}

	if len(f.Include) == 0 {
		return true
	}

	for _, pattern := range f.Include {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
	}

	return false
}

// Apply returns the entries of set whose file names match.
func (f PathFilter) Apply(set *ChangeSet) *ChangeSet {
	if f.IsEmpty() {
		return set
	}
	return set.Filter(func(e ChangeEntry) bool {
		return f.Matches(e.FileName)
	})
}
