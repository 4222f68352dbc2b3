package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
)

// ConsoleChangeWriter writes change reports to the console.
type ConsoleChangeWriter struct{}

// Write outputs the change report to the console.
func (w *ConsoleChangeWriter) Write(report *ChangeReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	color.New(color.FgGreen).Fprintln(out, "PVCS Change Log")
	fmt.Fprintf(out, "Source: %s\n", report.Source)
	label, value := dateRangeLabelAndValue(report.Since, report.Until)
	fmt.Fprintf(out, "%s: %s\n", label, value)
	fmt.Fprintf(out, "Total changes: %d\n\n", len(report.Entries))

	if len(report.Entries) == 0 {
		fmt.Fprintln(out, "No changes found.")
	} else {
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tFile\tRevision\tAuthor\tChecked In\tFix\tComment")

		for i, e := range limitTop(report.Entries, options.Top) {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				i+1,
				e.FileName,
				e.Revision,
				e.Author,
				formatModified(e, reportDateTimeLayout),
				bugfixMarker(report.IsBugfix(i)),
				truncateMessage(firstLine(e.Comment), 50),
			)
		}

		tw.Flush()
	}

	writeSummaryWarnings(out, report)
	return nil
}

// ConsoleHotspotWriter writes hotspot reports to the console.
type ConsoleHotspotWriter struct{}

// Write outputs the hotspot report to the console.
func (w *ConsoleHotspotWriter) Write(report *HotspotReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	color.New(color.FgGreen).Fprintln(out, "Bugfix Hotspots")
	fmt.Fprintf(out, "Source: %s\n", report.Source)
	label, value := dateRangeLabelAndValue(report.Since, report.Until)
	fmt.Fprintf(out, "%s: %s\n", label, value)
	fmt.Fprintf(out, "Bugfix revisions: %d, Files: %d\n\n", report.TotalFixes, len(report.Spots))

	if len(report.Spots) == 0 {
		fmt.Fprintln(out, "No bugfix revisions found.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tFile\tScore\tFixes\tLast Fix")

	for i, spot := range limitTop(report.Spots, options.Top) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n",
			i+1,
			spot.File,
			getScoreColor(spot.Score)("%.4f", spot.Score),
			spot.Fixes,
			spot.LastFix.Format(reportDateLayout),
		)
	}

	return tw.Flush()
}

func writeSummaryWarnings(out io.Writer, report *ChangeReport) {
	sum := report.Summary
	warn := color.New(color.FgYellow)
	if sum.Discarded > 0 {
		warn.Fprintf(out, "\n%d incomplete record(s) discarded\n", sum.Discarded)
	}
	if sum.DateErrors > 0 {
		warn.Fprintf(out, "%d check-in time(s) could not be parsed\n", sum.DateErrors)
	}
	if sum.StreamErr != nil {
		warn.Fprintf(out, "input ended early: %v\n", sum.StreamErr)
	}
}

// Helper functions

func truncateMessage(msg string, maxLen int) string {
	if len(msg) <= maxLen {
		return msg
	}
	return msg[:maxLen-3] + "..."
}

func bugfixMarker(isBugfix bool) string {
	if isBugfix {
		return color.RedString("yes")
	}
	return ""
}

func getScoreColor(score float64) func(string, ...interface{}) string {
	switch {
	case score >= 0.5:
		return color.RedString
	case score >= 0.1:
		return color.YellowString
	default:
		return color.GreenString
	}
}
