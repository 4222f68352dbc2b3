package output

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/masmgr/pvcslog-go/internal/bugfix"
	"github.com/masmgr/pvcslog-go/internal/pvcs"
	"github.com/masmgr/pvcslog-go/internal/scoring"
)

func testChangeReport() *ChangeReport {
	oct1 := time.Date(2008, 10, 1, 10, 0, 0, 0, time.UTC)
	oct15 := time.Date(2008, 10, 15, 8, 12, 40, 0, time.UTC)
	since := time.Date(2008, 9, 1, 0, 0, 0, 0, time.UTC)

	return &ChangeReport{
		Source:      "testdata/vlog.log",
		Since:       &since,
		Until:       time.Date(2008, 10, 16, 0, 0, 0, 0, time.UTC),
		GeneratedAt: time.Date(2008, 10, 16, 12, 0, 0, 0, time.UTC),
		Entries: []pvcs.ChangeEntry{
			{FileName: "2008_10/MYORG-Java/aps/.project", Revision: "1.2", Author: "jdoe", Comment: "fixed typo in project name", ModifiedTime: &oct1},
			{FileName: "2008_10/MYORG-Java/pom.xml", Revision: "1.4", Author: "asmith", Comment: "Bump commons-logging\nFixes build failure", ModifiedTime: &oct15},
			{FileName: "2008_10/MYORG-Java/src/AddBankRequest.java", Revision: "1.0", Author: "bjones", Comment: "Initial revision."},
		},
		Bugfixes: &bugfix.Result{Entries: []int{0, 1}, TotalBugfixes: 2},
		Summary:  pvcs.Summary{Records: 4, Committed: 3, Discarded: 1},
	}
}

func testHotspotReport() *HotspotReport {
	return &HotspotReport{
		Source:      "pcli vlog",
		Until:       time.Date(2008, 10, 16, 0, 0, 0, 0, time.UTC),
		GeneratedAt: time.Date(2008, 10, 16, 12, 0, 0, 0, time.UTC),
		TotalFixes:  3,
		Spots: []scoring.Spot{
			{File: "aps/Login.java", Score: 0.75, Fixes: 2, LastFix: time.Date(2008, 10, 15, 0, 0, 0, 0, time.UTC)},
			{File: "aps/Rules.java", Score: 0.05, Fixes: 1, LastFix: time.Date(2008, 9, 2, 0, 0, 0, 0, time.UTC)},
		},
	}
}

func writeToTemp(t *testing.T, write func(OutputOptions) error, top int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.out")
	if err := write(OutputOptions{OutputPath: path, Top: top}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	return string(data)
}

func TestConsoleChangeWriter_Write(t *testing.T) {
	report := testChangeReport()
	out := writeToTemp(t, func(o OutputOptions) error { return (&ConsoleChangeWriter{}).Write(report, o) }, 0)

	for _, want := range []string{
		"PVCS Change Log",
		"Source: testdata/vlog.log",
		"Period: 2008-09-01 to 2008-10-16",
		"Total changes: 3",
		"2008_10/MYORG-Java/pom.xml",
		"2008-10-15T08:12:40",
		"Bump commons-logging",
		"1 incomplete record(s) discarded",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Fixes build failure") {
		t.Errorf("console output should show only the first comment line:\n%s", out)
	}
}

func TestConsoleChangeWriter_Empty(t *testing.T) {
	report := &ChangeReport{Source: "empty.log", Until: time.Now()}
	out := writeToTemp(t, func(o OutputOptions) error { return (&ConsoleChangeWriter{}).Write(report, o) }, 0)

	if !strings.Contains(out, "No changes found.") {
		t.Errorf("output = %s", out)
	}
}

func TestJSONChangeWriter_Write(t *testing.T) {
	report := testChangeReport()
	out := writeToTemp(t, func(o OutputOptions) error { return (&JSONChangeWriter{}).Write(report, o) }, 2)

	var got JSONChangeReport
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if got.TotalChanges != 3 || len(got.Entries) != 2 {
		t.Errorf("TotalChanges = %d, entries = %d", got.TotalChanges, len(got.Entries))
	}
	if got.Since == nil || *got.Since != "2008-09-01" {
		t.Errorf("Since = %v", got.Since)
	}
	if got.Parse.Discarded != 1 || got.Parse.Records != 4 {
		t.Errorf("Parse = %+v", got.Parse)
	}
	second := got.Entries[1]
	if second.Comment != "Bump commons-logging\nFixes build failure" || !second.Bugfix {
		t.Errorf("Entries[1] = %+v", second)
	}
	if second.Modified == nil || *second.Modified != "2008-10-15T08:12:40Z" {
		t.Errorf("Entries[1].Modified = %v", second.Modified)
	}
}

func TestJSONChangeWriter_StreamError(t *testing.T) {
	report := testChangeReport()
	report.Summary.StreamErr = errors.New("pipe broken")
	out := writeToTemp(t, func(o OutputOptions) error { return (&JSONChangeWriter{}).Write(report, o) }, 0)

	var got JSONChangeReport
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if got.Parse.StreamError != "pipe broken" {
		t.Errorf("StreamError = %q", got.Parse.StreamError)
	}
	if got.Entries[2].Modified != nil {
		t.Errorf("entry without check-in time should omit modified")
	}
}

func TestCSVChangeWriter_Write(t *testing.T) {
	report := testChangeReport()
	out := writeToTemp(t, func(o OutputOptions) error { return (&CSVChangeWriter{}).Write(report, o) }, 0)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(records))
	}
	if strings.Join(records[0], ",") != "File,Revision,Author,Modified,Bugfix,Comment" {
		t.Errorf("header = %v", records[0])
	}
	if records[2][4] != "true" || records[2][5] != "Bump commons-logging\nFixes build failure" {
		t.Errorf("row 2 = %v", records[2])
	}
	if records[3][3] != "" || records[3][4] != "false" {
		t.Errorf("row 3 = %v", records[3])
	}
}

func TestMarkdownChangeWriter_Write(t *testing.T) {
	report := testChangeReport()
	out := writeToTemp(t, func(o OutputOptions) error { return (&MarkdownChangeWriter{}).Write(report, o) }, 0)

	for _, want := range []string{
		"# PVCS Change Log",
		"**Source:** testdata/vlog.log",
		"| 2 | `2008_10/MYORG-Java/pom.xml` | 1.4 | asmith | 2008-10-15T08:12:40 | 🐞 | Bump commons-logging<br>Fixes build failure |",
		"| 3 | `2008_10/MYORG-Java/src/AddBankRequest.java` | 1.0 | bjones |  |  | Initial revision. |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCIChangeWriter_Write(t *testing.T) {
	report := testChangeReport()
	out := writeToTemp(t, func(o OutputOptions) error { return (&CIChangeWriter{}).Write(report, o) }, 0)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 { // 1 summary + 3 changes
		t.Fatalf("expected 4 lines, got %d: %s", len(lines), out)
	}

	var summary CISummary
	if err := json.Unmarshal([]byte(lines[0]), &summary); err != nil {
		t.Fatalf("Failed to parse summary: %v", err)
	}
	if summary.Type != "summary" || summary.TotalChanges != 3 || summary.BugfixCount != 2 || summary.Discarded != 1 {
		t.Errorf("summary = %+v", summary)
	}

	var entry CIChangeEntry
	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatalf("Failed to parse entry: %v", err)
	}
	if entry.Type != "change" || entry.File != "2008_10/MYORG-Java/aps/.project" || !entry.Bugfix {
		t.Errorf("entry = %+v", entry)
	}
	if entry.Modified != "2008-10-01T10:00:00Z" {
		t.Errorf("entry.Modified = %q", entry.Modified)
	}
}

func TestCIChangeWriter_WithTop(t *testing.T) {
	report := testChangeReport()
	out := writeToTemp(t, func(o OutputOptions) error { return (&CIChangeWriter{}).Write(report, o) }, 1)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines with top=1, got %d", len(lines))
	}
}

func TestChangeWriter_NoBugfixDetection(t *testing.T) {
	report := testChangeReport()
	report.Bugfixes = nil

	for i := range report.Entries {
		if report.IsBugfix(i) {
			t.Errorf("IsBugfix(%d) = true without detection", i)
		}
	}
}

func TestConsoleHotspotWriter_Write(t *testing.T) {
	report := testHotspotReport()
	out := writeToTemp(t, func(o OutputOptions) error { return (&ConsoleHotspotWriter{}).Write(report, o) }, 1)

	for _, want := range []string{"Bugfix Hotspots", "Until: 2008-10-16", "Bugfix revisions: 3, Files: 2", "aps/Login.java", "0.7500"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "aps/Rules.java") {
		t.Errorf("top=1 should hide the second spot:\n%s", out)
	}
}

func TestJSONHotspotWriter_Write(t *testing.T) {
	report := testHotspotReport()
	out := writeToTemp(t, func(o OutputOptions) error { return (&JSONHotspotWriter{}).Write(report, o) }, 0)

	var got JSONHotspotReport
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if got.Since != nil {
		t.Errorf("Since = %v, want omitted", *got.Since)
	}
	if got.TotalFixes != 3 || got.TotalFiles != 2 || len(got.Items) != 2 {
		t.Errorf("report = %+v", got)
	}
	if got.Items[0].File != "aps/Login.java" || got.Items[0].Fixes != 2 {
		t.Errorf("Items[0] = %+v", got.Items[0])
	}
}

func TestCSVHotspotWriter_Write(t *testing.T) {
	report := testHotspotReport()
	out := writeToTemp(t, func(o OutputOptions) error { return (&CSVHotspotWriter{}).Write(report, o) }, 0)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(records))
	}
	if records[1][0] != "aps/Login.java" || records[1][1] != "0.750000" || records[1][2] != "2" {
		t.Errorf("row 1 = %v", records[1])
	}
}

func TestMarkdownHotspotWriter_Write(t *testing.T) {
	report := testHotspotReport()
	out := writeToTemp(t, func(o OutputOptions) error { return (&MarkdownHotspotWriter{}).Write(report, o) }, 0)

	for _, want := range []string{
		"# Bugfix Hotspots",
		"**Statistics:** 3 bugfix revisions across 2 files",
		"| 1 | 🔴 `aps/Login.java` | 0.7500 | 2 | 2008-10-15 |",
		"| 2 | 🟢 `aps/Rules.java` | 0.0500 | 1 | 2008-09-02 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdownHotspotWriter_Empty(t *testing.T) {
	report := &HotspotReport{Source: "x", Until: time.Now()}
	out := writeToTemp(t, func(o OutputOptions) error { return (&MarkdownHotspotWriter{}).Write(report, o) }, 0)

	if !strings.Contains(out, "No bugfix revisions found.") {
		t.Errorf("output = %s", out)
	}
}

func TestWriter_BadOutputPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "report.json")
	if err := (&JSONChangeWriter{}).Write(testChangeReport(), OutputOptions{OutputPath: path}); err == nil {
		t.Fatal("expected error for unwritable output path")
	}
}
