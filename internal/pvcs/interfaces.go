package pvcs

import "context"

// ChangeReader defines the interface for reading PVCS change history.
// This abstraction allows for easier testing and alternative sources.
type ChangeReader interface {
	// ReadChanges reads the revision history and returns the parsed change set.
	ReadChanges(ctx context.Context) (*ChangeSet, error)
}

// Compile-time interface conformance checks.
var (
	_ ChangeReader = (*VlogReader)(nil)
	_ ChangeReader = (*LogFileReader)(nil)
	_ ChangeReader = (*MockChangeReader)(nil)
)
