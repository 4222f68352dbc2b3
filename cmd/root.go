package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/pvcslog-go/config"
	"github.com/masmgr/pvcslog-go/internal/output"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:      "pvcslog",
		Usage:     "Change detection and bugfix hotspots for PVCS Version Manager projects",
		Version:   "1.0.0",
		ArgsUsage: "[vlog output file]",
		Commands: []*cli.Command{
			ChangesCmd(),
			PollCmd(),
			HotspotsCmd(),
		},
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file (.json, .yaml or .yml)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Diagnostic log level (debug, info, warn, error)",
				Value: "warn",
			},
		}, changesFlags()...),
		Action: legacyAction,
	}
}

// Common flags shared across commands
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "archive-root",
			Usage: "Repository prefix stripped from archive paths",
		},
		&cli.StringFlag{
			Name:  "path-prefix",
			Usage: "Prefix prepended to every reported file name",
		},
		&cli.StringFlag{
			Name:  "suffix",
			Usage: "Archive file suffix (default from config, usually _v)",
		},
		&cli.StringFlag{
			Name:  "timezone",
			Usage: "Time zone of check-in times (IANA name, default local)",
		},
		&cli.StringFlag{
			Name:  "since",
			Usage: "Report changes since this time (YYYY-MM-DD or YYYY-MM-DD HH:MM:SS)",
		},
		&cli.StringFlag{
			Name:  "until",
			Usage: "Report changes until this time (YYYY-MM-DD or YYYY-MM-DD HH:MM:SS)",
		},
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "Glob patterns to include (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Glob patterns to exclude (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "bug-patterns",
			Usage: "Regex patterns identifying bugfix comments (can be specified multiple times)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, csv, markdown, ci)",
			Value:   "console",
		},
		&cli.IntFlag{
			Name:    "top",
			Aliases: []string{"n"},
			Usage:   "Number of top results to show (0 for all)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.StringFlag{
			Name:  "executable",
			Usage: "PVCS command-line client (default from config, usually pcli)",
		},
		&cli.StringFlag{
			Name:  "project-root",
			Usage: "PVCS project database (-pr)",
		},
		&cli.StringFlag{
			Name:  "module-dir",
			Usage: "Project path to report on (-z)",
		},
		&cli.StringFlag{
			Name:  "login-id",
			Usage: "PVCS login, user or user:password (-id)",
		},
		&cli.StringFlag{
			Name:  "workspace",
			Usage: "PVCS workspace (-sp)",
		},
		&cli.StringFlag{
			Name:  "version-label",
			Usage: "Only report revisions with this version label (-v)",
		},
		&cli.StringFlag{
			Name:  "promotion-group",
			Usage: "Only report revisions in this promotion group (-g)",
		},
	}
}

var dateFlagLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseDateFlag parses a date or date-time flag in loc.
func parseDateFlag(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateFlagLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD or YYYY-MM-DD HH:MM:SS)", s)
}

// getOutputFormat parses the output format flag.
func getOutputFormat(s string) output.OutputFormat {
	switch s {
	case "json":
		return output.FormatJSON
	case "csv":
		return output.FormatCSV
	case "markdown", "md":
		return output.FormatMarkdown
	case "ci", "ndjson":
		return output.FormatCI
	default:
		return output.FormatConsole
	}
}

// parseLogLevel maps a --log-level value to a slog level.
func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// newLogger builds the diagnostic logger, writing text records to the app's error stream.
func newLogger(c *cli.Context) (*slog.Logger, error) {
	level, err := parseLogLevel(c.String("log-level"))
	if err != nil {
		return nil, err
	}
	w := c.App.ErrWriter
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// loadConfig loads configuration from file or defaults, then applies flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	overrides := []struct {
		flag   string
		target *string
	}{
		{"executable", &cfg.PVCS.Executable},
		{"project-root", &cfg.PVCS.ProjectRoot},
		{"module-dir", &cfg.PVCS.ModuleDir},
		{"login-id", &cfg.PVCS.LoginID},
		{"workspace", &cfg.PVCS.Workspace},
		{"version-label", &cfg.PVCS.VersionLabel},
		{"promotion-group", &cfg.PVCS.PromotionGroup},
		{"archive-root", &cfg.PVCS.ArchiveRoot},
		{"path-prefix", &cfg.PVCS.ChangeLogPrefix},
		{"suffix", &cfg.Parser.ArchiveFileSuffix},
		{"timezone", &cfg.Parser.TimeZone},
	}
	for _, o := range overrides {
		if c.IsSet(o.flag) {
			*o.target = c.String(o.flag)
		}
	}

	if includes := c.StringSlice("include"); len(includes) > 0 {
		cfg.Filters.Include = includes
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Filters.Exclude = excludes
	}
	if patterns := c.StringSlice("bug-patterns"); len(patterns) > 0 {
		cfg.Bugfix.Patterns = patterns
	}

	return cfg, nil
}

// legacyAction handles the default command behavior.
// When a vlog output file is provided as an argument, it runs the changes command.
func legacyAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.ShowAppHelp(c)
	}
	return changesAction(c)
}

// errNoChanges is returned by poll --exit-code when nothing changed.
var errNoChanges = errors.New("no changes detected")

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		if !errors.Is(err, errNoChanges) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
