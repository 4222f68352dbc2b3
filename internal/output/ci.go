package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// CIChangeWriter writes change reports as NDJSON (one JSON object per line) for CI pipelines.
type CIChangeWriter struct{}

// CISummary is the first line of CI output, containing aggregate statistics.
type CISummary struct {
	Type         string `json:"type"`
	TotalChanges int    `json:"totalChanges"`
	BugfixCount  int    `json:"bugfixCount"`
	Discarded    int    `json:"discarded"`
	Unterminated int    `json:"unterminated"`
	DateErrors   int    `json:"dateErrors"`
}

// CIChangeEntry represents a single change in CI output.
type CIChangeEntry struct {
	Type     string `json:"type"`
	File     string `json:"file"`
	Revision string `json:"revision"`
	Author   string `json:"author"`
	Modified string `json:"modified,omitempty"`
	Bugfix   bool   `json:"bugfix"`
}

// Write outputs the change report as NDJSON.
func (w *CIChangeWriter) Write(report *ChangeReport, options OutputOptions) error {
	entries := limitTop(report.Entries, options.Top)

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	var bugfixCount int
	for i := range entries {
		if report.IsBugfix(i) {
			bugfixCount++
		}
	}

	summary := CISummary{
		Type:         "summary",
		TotalChanges: len(entries),
		BugfixCount:  bugfixCount,
		Discarded:    report.Summary.Discarded,
		Unterminated: report.Summary.Unterminated,
		DateErrors:   report.Summary.DateErrors,
	}
	if err := writeNDJSONLine(out, summary); err != nil {
		return err
	}

	for i, e := range entries {
		entry := CIChangeEntry{
			Type:     "change",
			File:     e.FileName,
			Revision: e.Revision,
			Author:   e.Author,
			Modified: formatModified(e, time.RFC3339),
			Bugfix:   report.IsBugfix(i),
		}
		if err := writeNDJSONLine(out, entry); err != nil {
			return err
		}
	}

	return nil
}

func writeNDJSONLine(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal NDJSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
