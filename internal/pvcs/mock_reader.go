package pvcs

import "context"

// MockChangeReader is a test double for ChangeReader.
// It allows tests to provide predefined entries without a PVCS client.
type MockChangeReader struct {
	Changes *ChangeSet
	Error   error
}

// NewMockChangeReader creates a new MockChangeReader holding entries.
func NewMockChangeReader(entries []ChangeEntry, err error) *MockChangeReader {
	set := NewChangeSet()
	for _, e := range entries {
		set.Add(e)
	}
	return &MockChangeReader{Changes: set, Error: err}
}

// ReadChanges returns the predefined change set or error.
func (m *MockChangeReader) ReadChanges(_ context.Context) (*ChangeSet, error) {
	return m.Changes, m.Error
}
