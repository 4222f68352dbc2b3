package cmd

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/pvcslog-go/config"
	"github.com/masmgr/pvcslog-go/internal/output"
	"github.com/masmgr/pvcslog-go/internal/scoring"
)

// HotspotsCmd returns the hotspots command.
func HotspotsCmd() *cli.Command {
	flags := append(commonFlags(),
		&cli.StringFlag{
			Name:    "words",
			Aliases: []string{"w"},
			Usage:   "Bugfix indicator word list, e.g., \"fixes,defect\"",
		},
	)

	return &cli.Command{
		Name:      "hotspots",
		Aliases:   []string{"spots"},
		Usage:     "Rank files by recency-weighted bugfix revisions",
		ArgsUsage: "[vlog output file, - for stdin]",
		Flags:     flags,
		Action:    hotspotsAction,
	}
}

// analysisWindow is the default range when vlog runs without --since.
func analysisWindow(until time.Time, cfg *config.Config) time.Time {
	return until.AddDate(-cfg.Hotspots.AnalysisWindowYears, 0, 0)
}

func hotspotsAction(c *cli.Context) error {
	return executeWithContext(c, analysisWindow, func(ctx *CommandContext, c *cli.Context) error {
		if words := c.String("words"); words != "" {
			ctx.Config.Bugfix.Patterns = []string{convertToRegex(words)}
		}

		result, err := ctx.DetectBugfixes()
		if err != nil {
			return err
		}
		fixes := scoring.CollectFixes(ctx.Changes, result)

		since, until := ctx.Since, ctx.Until
		if since == nil && len(fixes) > 0 {
			// Saved logs carry their own range.
			first, last := scoring.Window(fixes)
			since = &first
			if !c.IsSet("until") {
				until = last
			}
		}

		windowStart := until
		if since != nil {
			windowStart = *since
		}
		top := c.Int("top")
		if top <= 0 {
			top = ctx.Config.Hotspots.MaxHotspots
		}
		spots := scoring.RankHotspots(scoring.CalculateHotspots(fixes, until, windowStart), top)

		if skipped := result.TotalBugfixes - len(fixes); skipped > 0 {
			ctx.Logger.Warn("bugfix revisions without a check-in time are not scored", "count", skipped)
		}

		report := &output.HotspotReport{
			Source:      ctx.Source,
			Since:       since,
			Until:       until,
			GeneratedAt: time.Now(),
			TotalFixes:  len(fixes),
			Spots:       spots,
		}
		return writeHotspotReport(c, report)
	})
}

// convertToRegex converts a comma-separated word list to a regex pattern.
func convertToRegex(words string) string {
	parts := strings.Split(words, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		tokens = append(tokens, regexp.QuoteMeta(p))
	}
	if len(tokens) == 0 {
		return ""
	}
	return fmt.Sprintf(`\b(%s)\b`, strings.Join(tokens, "|"))
}
