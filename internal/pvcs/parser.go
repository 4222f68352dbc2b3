package pvcs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"
)

const (
	// DefaultArchiveFileSuffix marks the end of the workfile path in an archive name.
	DefaultArchiveFileSuffix = "_v"

	prefixArchive   = "Archive:"
	prefixRevision  = "Rev"
	prefixRevCount  = "Rev count"
	prefixCheckedIn = "Checked in:"
	prefixAuthor    = "Author id:"

	revisionOffset  = 4
	checkedInOffset = 16
	authorOffset    = 11

	terminatorLength = 35
)

var (
	dashTerminator   = strings.Repeat("-", terminatorLength)
	equalsTerminator = strings.Repeat("=", terminatorLength)
)

// Options configures a Parser.
type Options struct {
	// ArchiveRoot locates where the meaningful part of an archive path begins.
	ArchiveRoot string
	// ArchiveFileSuffix ends the path. Defaults to DefaultArchiveFileSuffix.
	ArchiveFileSuffix string
	// PathPrefix is prepended verbatim to every extracted path.
	PathPrefix string
	// LastBuild is the "changes since" reference time. Parsing does not consult it.
	LastBuild time.Time
	// Location is used for check-in times. Defaults to time.Local.
	Location *time.Location
	// LineSeparator joins multi-line comments. Defaults to "\n".
	LineSeparator string
	// Logger receives diagnostics. Defaults to a discarding logger.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.ArchiveFileSuffix == "" {
		o.ArchiveFileSuffix = DefaultArchiveFileSuffix
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.LineSeparator == "" {
		o.LineSeparator = "\n"
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Summary describes one parse run.
type Summary struct {
	Lines        int   // lines consumed
	Records      int   // boundary lines seen
	Committed    int   // records closed by a terminator
	Discarded    int   // records dropped because the next record began first
	Unterminated int   // record still open at end of input, kept as-is
	DateErrors   int   // check-in times that matched no layout
	StreamErr    error // error that ended the input early, if any
}

// Parser converts vlog output into a ChangeSet.
// A Parser holds only configuration and may be reused; each parse call starts
// from a fresh state.
type Parser struct {
	opts Options
}

// NewParser creates a parser with the given options.
func NewParser(opts Options) *Parser {
	return &Parser{opts: opts.withDefaults()}
}

// Options returns the effective options.
func (p *Parser) Options() Options {
	return p.opts
}

// Parse consumes lines until the channel is closed.
func (p *Parser) Parse(lines <-chan string) (*ChangeSet, Summary) {
	run := p.newRun()
	for line := range lines {
		run.consume(line)
	}
	return run.finish()
}

// ParseLines parses an in-memory slice of lines.
func (p *Parser) ParseLines(lines []string) (*ChangeSet, Summary) {
	run := p.newRun()
	for _, line := range lines {
		run.consume(line)
	}
	return run.finish()
}

// ParseReader parses everything read from r. A read failure or cancellation
// ends the input; entries parsed up to that point are kept and the cause is
// reported in Summary.StreamErr.
func (p *Parser) ParseReader(ctx context.Context, r io.Reader) (*ChangeSet, Summary) {
	src := NewLineSource(ctx, r, 0)
	set, sum := p.Parse(src.Lines())
	if err := src.Err(); err != nil {
		sum.StreamErr = err
		level := slog.LevelError
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			level = slog.LevelWarn
		}
		p.opts.Logger.Log(ctx, level, "vlog input ended early", "error", err, "lines", sum.Lines)
	}
	return set, sum
}

// recordState holds the per-record flags. It is replaced as a whole on every
// boundary so nothing leaks from one record into the next.
type recordState struct {
	revisionPending bool
	modifiedPending bool
	authorPending   bool
	inComment       bool
	closed          bool
}

func freshRecord() recordState {
	return recordState{
		revisionPending: true,
		modifiedPending: true,
		authorPending:   true,
	}
}

type parseRun struct {
	opts    Options
	set     *ChangeSet
	draft   *ChangeEntry
	rec     recordState
	summary Summary
	trace   bool
}

func (p *Parser) newRun() *parseRun {
	return &parseRun{
		opts:  p.opts,
		set:   NewChangeSet(),
		trace: p.opts.Logger.Enabled(context.Background(), slog.LevelDebug),
	}
}

// lineRule pairs a line predicate with its handler. Rules are evaluated in
// order and the first match wins; later rules rely on earlier ones having
// excluded their cases.
type lineRule struct {
	name  string
	match func(r *parseRun, line string) bool
	apply func(r *parseRun, line string)
}

var lineRules = []lineRule{
	{
		name:  "boundary",
		match: func(_ *parseRun, line string) bool { return strings.HasPrefix(line, prefixArchive) },
		apply: (*parseRun).openRecord,
	},
	{
		name:  "skip",
		match: func(r *parseRun, _ string) bool { return r.draft == nil || r.rec.closed },
		apply: func(*parseRun, string) {},
	},
	{
		name: "revision",
		match: func(_ *parseRun, line string) bool {
			return strings.HasPrefix(line, prefixRevision) && !strings.HasPrefix(line, prefixRevCount)
		},
		apply: (*parseRun).setRevision,
	},
	{
		name:  "checked-in",
		match: func(_ *parseRun, line string) bool { return strings.HasPrefix(line, prefixCheckedIn) },
		apply: (*parseRun).setModifiedTime,
	},
	{
		name:  "comment",
		match: func(r *parseRun, _ string) bool { return r.rec.inComment },
		apply: (*parseRun).appendComment,
	},
	{
		name:  "author",
		match: func(_ *parseRun, line string) bool { return strings.HasPrefix(line, prefixAuthor) },
		apply: (*parseRun).setAuthor,
	},
}

func (r *parseRun) consume(line string) {
	r.summary.Lines++
	for _, rule := range lineRules {
		if rule.match(r, line) {
			if r.trace {
				r.opts.Logger.Debug("vlog line", "rule", rule.name, "line", line)
			}
			rule.apply(r, line)
			return
		}
	}
}

func (r *parseRun) finish() (*ChangeSet, Summary) {
	if r.draft != nil && !r.rec.closed {
		r.opts.Logger.Debug("keeping unterminated change log record at end of input", "entry", r.draft.String())
		r.set.Add(*r.draft)
		r.summary.Unterminated++
	}
	r.draft = nil
	return r.set, r.summary
}

func (r *parseRun) openRecord(line string) {
	if r.draft != nil && !r.rec.closed {
		r.opts.Logger.Warn("discarding incomplete change log record", "entry", r.draft.String())
		r.summary.Discarded++
	}

	r.summary.Records++
	r.draft = &ChangeEntry{FileName: r.archivePath(line)}
	r.rec = freshRecord()
}

// archivePath extracts the workfile path from a boundary line.
func (r *parseRun) archivePath(line string) string {
	start := 0
	if idx := strings.Index(line, r.opts.ArchiveRoot); idx != -1 {
		start = idx + len(r.opts.ArchiveRoot)
	}

	end := len(line)
	if idx := strings.Index(line[start:], r.opts.ArchiveFileSuffix); idx != -1 {
		end = start + idx
	}

	path := line[start:end]
	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, "\\") {
		path = path[1:]
	}
	return r.opts.PathPrefix + path
}

func (r *parseRun) setRevision(line string) {
	if !r.rec.revisionPending {
		return
	}
	r.rec.revisionPending = false
	r.draft.Revision = tail(line, revisionOffset)
}

func (r *parseRun) setModifiedTime(line string) {
	if !r.rec.modifiedPending {
		return
	}
	r.rec.modifiedPending = false

	value := tail(line, checkedInOffset)
	t, err := ParseTimestamp(value, r.opts.Location)
	if err != nil {
		r.summary.DateErrors++
		r.opts.Logger.Warn("unable to parse modification time",
			"file", r.draft.FileName, "value", value, "error", err)
		return
	}
	r.draft.ModifiedTime = &t
}

func (r *parseRun) appendComment(line string) {
	switch {
	case r.draft.Comment == "":
		r.draft.Comment = line
	case !isTerminator(line):
		r.draft.Comment += r.opts.LineSeparator + line
	default:
		r.rec.closed = true
		r.summary.Committed++
		r.set.Add(*r.draft)
	}
}

func (r *parseRun) setAuthor(line string) {
	if !r.rec.authorPending {
		return
	}
	r.rec.authorPending = false
	r.rec.inComment = true

	if fields := strings.Fields(tail(line, authorOffset)); len(fields) > 0 {
		r.draft.Author = strings.TrimSpace(fields[0])
	}
}

func isTerminator(line string) bool {
	return line == dashTerminator || line == equalsTerminator
}

// tail returns line from offset n, or "" when the line is shorter.
func tail(line string, n int) string {
	if len(line) <= n {
		return ""
	}
	return line[n:]
}
