package output

import (
	"time"

	"github.com/masmgr/pvcslog-go/internal/bugfix"
	"github.com/masmgr/pvcslog-go/internal/pvcs"
	"github.com/masmgr/pvcslog-go/internal/scoring"
)

// Compile-time interface conformance checks.
var (
	_ ChangeReportWriter = (*ConsoleChangeWriter)(nil)
	_ ChangeReportWriter = (*JSONChangeWriter)(nil)
	_ ChangeReportWriter = (*CSVChangeWriter)(nil)
	_ ChangeReportWriter = (*MarkdownChangeWriter)(nil)
	_ ChangeReportWriter = (*CIChangeWriter)(nil)

	_ HotspotReportWriter = (*ConsoleHotspotWriter)(nil)
	_ HotspotReportWriter = (*JSONHotspotWriter)(nil)
	_ HotspotReportWriter = (*CSVHotspotWriter)(nil)
	_ HotspotReportWriter = (*MarkdownHotspotWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
	FormatCI       OutputFormat = "ci"
)

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	Top        int
	OutputPath string
}

// ChangeReport holds the change set read from one vlog run or log file.
type ChangeReport struct {
	Source      string
	Since       *time.Time
	Until       time.Time
	GeneratedAt time.Time
	Entries     []pvcs.ChangeEntry
	Bugfixes    *bugfix.Result // nil when detection was not run
	Summary     pvcs.Summary
}

// IsBugfix reports whether entry i was classified as a bugfix.
func (r *ChangeReport) IsBugfix(i int) bool {
	return r.Bugfixes != nil && r.Bugfixes.IsBugfixEntry(i)
}

// HotspotReport holds the bugfix hotspot ranking.
type HotspotReport struct {
	Source      string
	Since       *time.Time
	Until       time.Time
	GeneratedAt time.Time
	TotalFixes  int
	Spots       []scoring.Spot
}

// ChangeReportWriter writes change reports.
type ChangeReportWriter interface {
	Write(report *ChangeReport, options OutputOptions) error
}

// HotspotReportWriter writes hotspot reports.
type HotspotReportWriter interface {
	Write(report *HotspotReport, options OutputOptions) error
}

// NewChangeReportWriter creates a change report writer for the specified format.
func NewChangeReportWriter(format OutputFormat) ChangeReportWriter {
	switch format {
	case FormatJSON:
		return &JSONChangeWriter{}
	case FormatCSV:
		return &CSVChangeWriter{}
	case FormatMarkdown:
		return &MarkdownChangeWriter{}
	case FormatCI:
		return &CIChangeWriter{}
	default:
		return &ConsoleChangeWriter{}
	}
}

// NewHotspotReportWriter creates a hotspot report writer for the specified format.
func NewHotspotReportWriter(format OutputFormat) HotspotReportWriter {
	switch format {
	case FormatJSON:
		return &JSONHotspotWriter{}
	case FormatCSV:
		return &CSVHotspotWriter{}
	case FormatMarkdown:
		return &MarkdownHotspotWriter{}
	default:
		return &ConsoleHotspotWriter{}
	}
}
