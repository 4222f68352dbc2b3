package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

// PollCmd returns the poll command.
func PollCmd() *cli.Command {
	flags := append(commonFlags(),
		&cli.BoolFlag{
			Name:  "exit-code",
			Usage: "Exit with status 1 when no changes are detected",
		},
	)

	return &cli.Command{
		Name:      "poll",
		Usage:     "Report whether anything was checked in since the last build",
		ArgsUsage: "[vlog output file, - for stdin]",
		Flags:     flags,
		Action:    pollAction,
	}
}

func pollAction(c *cli.Context) error {
	out := c.App.Writer

	// Without a previous build there is nothing to compare against.
	if c.NArg() == 0 && c.String("since") == "" {
		fmt.Fprintln(out, "no existing build; starting a new one")
		return nil
	}

	return executeWithContext(c, nil, func(ctx *CommandContext, c *cli.Context) error {
		if !ctx.HasChanges() {
			fmt.Fprintln(out, "no changes detected")
			if c.Bool("exit-code") {
				return errNoChanges
			}
			return nil
		}

		marker := color.New(color.FgYellow)
		for _, e := range ctx.Changes.All() {
			modified := "-"
			if e.HasModifiedTime() {
				modified = e.ModifiedTime.Format(pollTimeLayout)
			}
			marker.Fprint(out, "==> ")
			fmt.Fprintf(out, "%s %s %s\n", e.FileName, e.Revision, modified)
			fmt.Fprintln(out, e.Comment)
		}
		return nil
	})
}

const pollTimeLayout = "2006-01-02 15:04:05 MST"
