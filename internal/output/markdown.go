package output

import (
	"fmt"
	"strings"
)

// MarkdownChangeWriter writes change reports as Markdown.
type MarkdownChangeWriter struct{}

// Write outputs the change report as Markdown.
func (w *MarkdownChangeWriter) Write(report *ChangeReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, "# PVCS Change Log")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Source:** %s\n\n", escapeMarkdown(report.Source))
	label, value := dateRangeLabelAndValue(report.Since, report.Until)
	fmt.Fprintf(out, "**%s:** %s\n\n", label, value)
	fmt.Fprintf(out, "**Total Changes:** %d\n\n", len(report.Entries))

	if len(report.Entries) == 0 {
		fmt.Fprintln(out, "No changes found.")
		return nil
	}

	fmt.Fprintln(out, "## Changes")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "| # | File | Revision | Author | Checked In | Fix | Comment |")
	fmt.Fprintln(out, "|---|------|----------|--------|------------|-----|---------|")

	for i, e := range limitTop(report.Entries, options.Top) {
		fix := ""
		if report.IsBugfix(i) {
			fix = "🐞"
		}
		fmt.Fprintf(out, "| %d | `%s` | %s | %s | %s | %s | %s |\n",
			i+1, e.FileName, e.Revision, escapeMarkdown(e.Author),
			formatModified(e, reportDateTimeLayout), fix, markdownComment(e.Comment))
	}

	return nil
}

// MarkdownHotspotWriter writes hotspot reports as Markdown.
type MarkdownHotspotWriter struct{}

// Write outputs the hotspot report as Markdown.
func (w *MarkdownHotspotWriter) Write(report *HotspotReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, "# Bugfix Hotspots")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Source:** %s\n\n", escapeMarkdown(report.Source))
	label, value := dateRangeLabelAndValue(report.Since, report.Until)
	fmt.Fprintf(out, "**%s:** %s\n\n", label, value)
	fmt.Fprintf(out, "**Statistics:** %d bugfix revisions across %d files\n\n", report.TotalFixes, len(report.Spots))

	if len(report.Spots) == 0 {
		fmt.Fprintln(out, "No bugfix revisions found.")
		return nil
	}

	fmt.Fprintln(out, "## Top Hotspots")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "| # | File | Score | Fixes | Last Fix |")
	fmt.Fprintln(out, "|---|------|-------|-------|----------|")

	for i, spot := range limitTop(report.Spots, options.Top) {
		fmt.Fprintf(out, "| %d | %s `%s` | %.4f | %d | %s |\n",
			i+1, getScoreEmoji(spot.Score), spot.File, spot.Score, spot.Fixes,
			spot.LastFix.Format(reportDateLayout))
	}

	return nil
}

// markdownComment flattens a multi-line comment into one table cell.
func markdownComment(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(escapeMarkdown(s), "\n", "<br>")
}

func getScoreEmoji(score float64) string {
	switch {
	case score >= 0.5:
		return "🔴"
	case score >= 0.1:
		return "🟡"
	default:
		return "🟢"
	}
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"|", "\\|",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
