package cmd

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/pvcslog-go/config"
	"github.com/masmgr/pvcslog-go/internal/output"
)

// changesFlags returns the flags of the changes command, also accepted by the root action.
func changesFlags() []cli.Flag {
	return append(commonFlags(),
		&cli.BoolFlag{
			Name:  "no-bugfix",
			Usage: "Skip bugfix classification of comments",
		},
	)
}

// ChangesCmd returns the changes command.
func ChangesCmd() *cli.Command {
	return &cli.Command{
		Name:      "changes",
		Aliases:   []string{"log"},
		Usage:     "List the revisions checked in since a point in time",
		ArgsUsage: "[vlog output file, - for stdin]",
		Flags:     changesFlags(),
		Action:    changesAction,
	}
}

// lastDay is the default range when vlog runs without --since.
func lastDay(until time.Time, _ *config.Config) time.Time {
	return until.AddDate(0, 0, -1)
}

func changesAction(c *cli.Context) error {
	return executeWithContext(c, lastDay, func(ctx *CommandContext, c *cli.Context) error {
		report := &output.ChangeReport{
			Source:      ctx.Source,
			Since:       ctx.Since,
			Until:       ctx.Until,
			GeneratedAt: time.Now(),
			Entries:     ctx.Changes.Entries(),
			Summary:     ctx.Summary,
		}

		if !c.Bool("no-bugfix") {
			result, err := ctx.DetectBugfixes()
			if err != nil {
				return err
			}
			report.Bugfixes = result
		}

		ctx.Logger.Info("change log read",
			"source", ctx.Source,
			"entries", len(report.Entries),
			"records", ctx.Summary.Records,
			"discarded", ctx.Summary.Discarded)

		return writeChangeReport(c, report)
	})
}
