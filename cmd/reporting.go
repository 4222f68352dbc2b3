package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/pvcslog-go/internal/output"
)

func writeChangeReport(c *cli.Context, report *output.ChangeReport) error {
	opts := OutputOptions(c)
	writer := output.NewChangeReportWriter(opts.Format)
	return writer.Write(report, opts)
}

func writeHotspotReport(c *cli.Context, report *output.HotspotReport) error {
	opts := OutputOptions(c)
	writer := output.NewHotspotReportWriter(opts.Format)
	return writer.Write(report, opts)
}
