package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/pvcslog-go/config"
	"github.com/masmgr/pvcslog-go/internal/output"
	"github.com/masmgr/pvcslog-go/internal/pvcs"
)

// summaryReader is a ChangeReader that reports how its last read went.
type summaryReader interface {
	pvcs.ChangeReader
	Summary() pvcs.Summary
}

// defaultSinceFunc supplies the start of the range when --since is absent
// and vlog must be run.
type defaultSinceFunc func(until time.Time, cfg *config.Config) time.Time

// CommandContext holds common state for command execution.
// It encapsulates the shared setup logic across all commands.
type CommandContext struct {
	Config  *config.Config
	Logger  *slog.Logger
	Source  string
	Since   *time.Time
	Until   time.Time
	Changes *pvcs.ChangeSet
	Summary pvcs.Summary
}

// NewCommandContext creates a context from CLI flags.
// It performs configuration loading, date parsing and change reading, from
// the vlog output file named by the first argument or by running vlog.
func NewCommandContext(c *cli.Context, defaultSince defaultSinceFunc) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(c)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Parser.Location()
	if err != nil {
		return nil, err
	}

	since, err := parseDateFlag(c.String("since"), loc)
	if err != nil {
		return nil, fmt.Errorf("invalid since date: %w", err)
	}
	until, err := parseDateFlag(c.String("until"), loc)
	if err != nil {
		return nil, fmt.Errorf("invalid until date: %w", err)
	}

	untilTime := time.Now().In(loc)
	if until != nil {
		untilTime = *until
	}

	fromFile := c.NArg() > 0
	if since == nil && !fromFile && defaultSince != nil {
		s := defaultSince(untilTime, cfg)
		since = &s
	}

	parserOpts := pvcs.Options{
		ArchiveRoot:       cfg.PVCS.ArchiveRoot,
		ArchiveFileSuffix: cfg.Parser.ArchiveFileSuffix,
		PathPrefix:        cfg.PVCS.ChangeLogPrefix,
		Location:          loc,
		Logger:            logger,
	}
	if since != nil {
		parserOpts.LastBuild = *since
	}
	readOpts := pvcs.ReadOptions{
		Parser:  parserOpts,
		Include: cfg.Filters.Include,
		Exclude: cfg.Filters.Exclude,
	}

	var (
		reader summaryReader
		source string
	)
	if fromFile {
		source = c.Args().First()
		reader, err = pvcs.NewLogFileReader(source, readOpts)
		if source == "-" {
			source = "stdin"
		}
	} else {
		reader, source, err = newVlogReader(cfg, since, untilTime, readOpts)
	}
	if err != nil {
		return nil, err
	}

	changes, err := reader.ReadChanges(c.Context)
	if err != nil {
		var cmdErr *pvcs.CommandError
		if !errors.As(err, &cmdErr) || changes == nil {
			return nil, fmt.Errorf("failed to read change history: %w", err)
		}
		// Keep what was parsed from a failed vlog run.
		logger.Warn("continuing with partial vlog output", "entries", changes.Len())
	}

	return &CommandContext{
		Config:  cfg,
		Logger:  logger,
		Source:  source,
		Since:   since,
		Until:   untilTime,
		Changes: changes,
		Summary: reader.Summary(),
	}, nil
}

func newVlogReader(cfg *config.Config, since *time.Time, until time.Time, opts pvcs.ReadOptions) (*pvcs.VlogReader, string, error) {
	if cfg.PVCS.ProjectRoot == "" || cfg.PVCS.ModuleDir == "" {
		return nil, "", errors.New("a vlog output file or --project-root and --module-dir are required")
	}
	if since == nil {
		return nil, "", errors.New("--since is required when running vlog")
	}

	vlog := pvcs.VlogOptions{
		Executable:     cfg.PVCS.Executable,
		ProjectRoot:    cfg.PVCS.ProjectRoot,
		ModuleDir:      cfg.PVCS.ModuleDir,
		LoginID:        cfg.PVCS.LoginID,
		Workspace:      cfg.PVCS.Workspace,
		VersionLabel:   cfg.PVCS.VersionLabel,
		PromotionGroup: cfg.PVCS.PromotionGroup,
		DateFormat:     cfg.PVCS.InputDateFormat,
		ExtraArgs:      cfg.PVCS.ExtraArgs,
		Since:          *since,
		Until:          until,
	}
	reader, err := pvcs.NewVlogReader(vlog, opts)
	if err != nil {
		return nil, "", err
	}
	// Never show the login in reports.
	vlog.LoginID = ""
	source, err := vlog.CommandLine()
	if err != nil {
		return nil, "", err
	}
	return reader, source, nil
}

// HasChanges returns true if any change entries were read.
func (ctx *CommandContext) HasChanges() bool {
	return !ctx.Changes.IsEmpty()
}

// OutputOptions creates OutputOptions from CLI flags.
func OutputOptions(c *cli.Context) output.OutputOptions {
	return output.OutputOptions{
		Format:     getOutputFormat(c.String("format")),
		Top:        c.Int("top"),
		OutputPath: c.String("output"),
	}
}

// executeWithContext builds the command context and hands it to fn.
func executeWithContext(c *cli.Context, defaultSince defaultSinceFunc, fn func(ctx *CommandContext, c *cli.Context) error) error {
	ctx, err := NewCommandContext(c, defaultSince)
	if err != nil {
		return err
	}
	return fn(ctx, c)
}
