package output

import (
	"encoding/json"
	"fmt"
	"time"
)

// JSONChangeWriter writes change reports as JSON.
type JSONChangeWriter struct{}

// JSONChangeReport is the JSON output structure for a change report.
type JSONChangeReport struct {
	Source       string            `json:"source"`
	Since        *string           `json:"since,omitempty"`
	Until        string            `json:"until"`
	GeneratedAt  string            `json:"generatedAt"`
	TotalChanges int               `json:"totalChanges"`
	Parse        JSONParseSummary  `json:"parse"`
	Entries      []JSONChangeEntry `json:"entries"`
}

// JSONParseSummary reports how the input records were handled.
type JSONParseSummary struct {
	Lines        int    `json:"lines"`
	Records      int    `json:"records"`
	Committed    int    `json:"committed"`
	Discarded    int    `json:"discarded"`
	Unterminated int    `json:"unterminated"`
	DateErrors   int    `json:"dateErrors"`
	StreamError  string `json:"streamError,omitempty"`
}

// JSONChangeEntry is the JSON output structure for a single change.
type JSONChangeEntry struct {
	File     string  `json:"file"`
	Revision string  `json:"revision"`
	Author   string  `json:"author"`
	Modified *string `json:"modified,omitempty"`
	Comment  string  `json:"comment"`
	Bugfix   bool    `json:"bugfix"`
}

// Write outputs the change report as JSON.
func (w *JSONChangeWriter) Write(report *ChangeReport, options OutputOptions) error {
	entries := limitTop(report.Entries, options.Top)

	jsonEntries := make([]JSONChangeEntry, len(entries))
	for i, e := range entries {
		item := JSONChangeEntry{
			File:     e.FileName,
			Revision: e.Revision,
			Author:   e.Author,
			Comment:  e.Comment,
			Bugfix:   report.IsBugfix(i),
		}
		if e.HasModifiedTime() {
			modified := e.ModifiedTime.Format(time.RFC3339)
			item.Modified = &modified
		}
		jsonEntries[i] = item
	}

	sum := report.Summary
	parse := JSONParseSummary{
		Lines:        sum.Lines,
		Records:      sum.Records,
		Committed:    sum.Committed,
		Discarded:    sum.Discarded,
		Unterminated: sum.Unterminated,
		DateErrors:   sum.DateErrors,
	}
	if sum.StreamErr != nil {
		parse.StreamError = sum.StreamErr.Error()
	}

	jsonReport := JSONChangeReport{
		Source:       report.Source,
		Since:        formatSinceDate(report.Since),
		Until:        report.Until.Format(reportDateLayout),
		GeneratedAt:  report.GeneratedAt.Format(time.RFC3339),
		TotalChanges: len(report.Entries),
		Parse:        parse,
		Entries:      jsonEntries,
	}

	return writeJSON(jsonReport, options.OutputPath)
}

// JSONHotspotWriter writes hotspot reports as JSON.
type JSONHotspotWriter struct{}

// JSONHotspotReport is the JSON output structure for a hotspot report.
type JSONHotspotReport struct {
	Source      string            `json:"source"`
	Since       *string           `json:"since,omitempty"`
	Until       string            `json:"until"`
	GeneratedAt string            `json:"generatedAt"`
	TotalFixes  int               `json:"totalFixes"`
	TotalFiles  int               `json:"totalFiles"`
	Items       []JSONHotspotItem `json:"items"`
}

// JSONHotspotItem is the JSON output structure for a single file.
type JSONHotspotItem struct {
	File    string  `json:"file"`
	Score   float64 `json:"score"`
	Fixes   int     `json:"fixes"`
	LastFix string  `json:"lastFix"`
}

// Write outputs the hotspot report as JSON.
func (w *JSONHotspotWriter) Write(report *HotspotReport, options OutputOptions) error {
	spots := limitTop(report.Spots, options.Top)

	items := make([]JSONHotspotItem, len(spots))
	for i, spot := range spots {
		items[i] = JSONHotspotItem{
			File:    spot.File,
			Score:   spot.Score,
			Fixes:   spot.Fixes,
			LastFix: spot.LastFix.Format(time.RFC3339),
		}
	}

	jsonReport := JSONHotspotReport{
		Source:      report.Source,
		Since:       formatSinceDate(report.Since),
		Until:       report.Until.Format(reportDateLayout),
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		TotalFixes:  report.TotalFixes,
		TotalFiles:  len(report.Spots),
		Items:       items,
	}

	return writeJSON(jsonReport, options.OutputPath)
}

func writeJSON(data interface{}, outputPath string) error {
	out, file, err := openOutputWriter(outputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
