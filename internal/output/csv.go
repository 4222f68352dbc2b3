package output

import (
	"encoding/csv"
	"fmt"
	"strconv"
)

// CSVChangeWriter writes change reports as CSV.
type CSVChangeWriter struct{}

// Write outputs the change report as CSV.
func (w *CSVChangeWriter) Write(report *ChangeReport, options OutputOptions) error {
	entries := limitTop(report.Entries, options.Top)

	writer, closeFn, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := writer.Write([]string{"File", "Revision", "Author", "Modified", "Bugfix", "Comment"}); err != nil {
		return err
	}

	for i, e := range entries {
		row := []string{
			e.FileName,
			e.Revision,
			e.Author,
			formatModified(e, reportDateTimeLayout),
			strconv.FormatBool(report.IsBugfix(i)),
			e.Comment,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// CSVHotspotWriter writes hotspot reports as CSV.
type CSVHotspotWriter struct{}

// Write outputs the hotspot report as CSV.
func (w *CSVHotspotWriter) Write(report *HotspotReport, options OutputOptions) error {
	spots := limitTop(report.Spots, options.Top)

	writer, closeFn, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := writer.Write([]string{"File", "Score", "Fixes", "LastFix"}); err != nil {
		return err
	}

	for _, spot := range spots {
		row := []string{
			spot.File,
			fmt.Sprintf("%.6f", spot.Score),
			strconv.Itoa(spot.Fixes),
			spot.LastFix.Format(reportDateTimeLayout),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func createCSVWriter(outputPath string) (*csv.Writer, func(), error) {
	out, file, err := openOutputWriter(outputPath)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {}
	if file != nil {
		closeFn = func() { file.Close() }
	}
	return csv.NewWriter(out), closeFn, nil
}
