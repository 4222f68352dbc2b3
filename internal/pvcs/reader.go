package pvcs

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// ReadOptions configures the change readers.
type ReadOptions struct {
	Parser  Options
	Include []string // Glob patterns to include
	Exclude []string // Glob patterns to exclude
}

func (o ReadOptions) filter() PathFilter {
	return PathFilter{Include: o.Include, Exclude: o.Exclude}
}

// VlogReader reads change history by running `pcli vlog`.
type VlogReader struct {
	vlog    VlogOptions
	parser  *Parser
	filter  PathFilter
	summary Summary
}

// NewVlogReader creates a reader for the given vlog invocation.
func NewVlogReader(vlog VlogOptions, opts ReadOptions) (*VlogReader, error) {
	filter := opts.filter()
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if vlog.Since.IsZero() && !opts.Parser.LastBuild.IsZero() {
		vlog.Since = opts.Parser.LastBuild
	}
	return &VlogReader{vlog: vlog, parser: NewParser(opts.Parser), filter: filter}, nil
}

// ReadChanges runs vlog and parses its output.
// When the client exits unsuccessfully the entries parsed from its output are
// returned together with a *CommandError.
func (r *VlogReader) ReadChanges(ctx context.Context) (*ChangeSet, error) {
	args, err := r.vlog.Args()
	if err != nil {
		return nil, err
	}

	logger := r.parser.Options().Logger
	if line, err := r.vlog.CommandLine(); err == nil {
		logger.Debug("launching vlog", "command", line)
	}

	cmd := exec.CommandContext(ctx, r.vlog.executable(), args...)
	set, sum, err := runVlog(ctx, cmd, r.parser)
	r.summary = sum
	if set == nil {
		return nil, err
	}
	if err != nil {
		logger.Error("vlog command failed", "error", err)
	}
	return r.filter.Apply(set), err
}

// Summary returns the summary of the last ReadChanges call.
func (r *VlogReader) Summary() Summary {
	return r.summary
}

// LogFileReader reads change history from saved vlog output.
type LogFileReader struct {
	path    string
	stdin   io.Reader
	parser  *Parser
	filter  PathFilter
	summary Summary
}

// NewLogFileReader creates a reader for a saved vlog log. A path of "-"
// reads standard input.
func NewLogFileReader(path string, opts ReadOptions) (*LogFileReader, error) {
	filter := opts.filter()
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return &LogFileReader{path: path, stdin: os.Stdin, parser: NewParser(opts.Parser), filter: filter}, nil
}

// ReadChanges parses the log file.
func (r *LogFileReader) ReadChanges(ctx context.Context) (*ChangeSet, error) {
	in := r.stdin
	if r.path != "-" {
		f, err := os.Open(r.path)
		if err != nil {
			return nil, fmt.Errorf("open vlog output: %w", err)
		}
		defer f.Close()
		in = f
	}

	set, sum := r.parser.ParseReader(ctx, in)
	r.summary = sum
	return r.filter.Apply(set), nil
}

// Summary returns the summary of the last ReadChanges call.
func (r *LogFileReader) Summary() Summary {
	return r.summary
}
