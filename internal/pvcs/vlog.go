package pvcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
)

const (
	// DefaultExecutable is the PVCS command-line client.
	DefaultExecutable = "pcli"
	// DefaultVlogDateFormat formats the -ds/-de range arguments.
	DefaultVlogDateFormat = "01/02/2006 15:04:05"
)

// VlogOptions describes a `pcli vlog` invocation.
type VlogOptions struct {
	Executable     string
	ProjectRoot    string
	ModuleDir      string
	LoginID        string
	Workspace      string
	VersionLabel   string
	PromotionGroup string
	DateFormat     string // Go layout for the date range arguments
	ExtraArgs      string // Shell-quoted arguments appended before -z
	Since          time.Time
	Until          time.Time
}

// CommandError reports a vlog process that exited unsuccessfully.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s exited with %d", e.Command, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func (o VlogOptions) executable() string {
	if strings.TrimSpace(o.Executable) == "" {
		return DefaultExecutable
	}
	return o.Executable
}

// Args builds the vlog argument list, without the executable.
func (o VlogOptions) Args() ([]string, error) {
	layout := o.DateFormat
	if layout == "" {
		layout = DefaultVlogDateFormat
	}

	args := []string{"-nb", "run", "-ns", "-q", "vlog", "-pr" + o.ProjectRoot}
	if v := strings.TrimSpace(o.LoginID); v != "" {
		args = append(args, "-id"+o.LoginID)
	}
	if v := strings.TrimSpace(o.Workspace); v != "" {
		args = append(args, "-sp"+o.Workspace)
	}
	if v := strings.TrimSpace(o.VersionLabel); v != "" {
		args = append(args, "-v"+o.VersionLabel)
	}
	if v := strings.TrimSpace(o.PromotionGroup); v != "" {
		args = append(args, "-g"+o.PromotionGroup)
	}

	until := o.Until
	if until.IsZero() {
		until = time.Now()
	}
	args = append(args, "-i", "-ds"+o.Since.Format(layout), "-de"+until.Format(layout))

	if strings.TrimSpace(o.ExtraArgs) != "" {
		extra, err := shellquote.Split(o.ExtraArgs)
		if err != nil {
			return nil, fmt.Errorf("parse extra vlog arguments: %w", err)
		}
		args = append(args, extra...)
	}

	return append(args, "-z", o.ModuleDir), nil
}

// CommandLine returns the full invocation quoted for display.
func (o VlogOptions) CommandLine() (string, error) {
	args, err := o.Args()
	if err != nil {
		return "", err
	}
	return shellquote.Join(append([]string{o.executable()}, args...)...), nil
}

// runVlog runs cmd with its stdout on a pipe drained concurrently by parser.
// Join order: wait for the process, close the write end so the parser sees
// EOF, then wait for the parser.
func runVlog(ctx context.Context, cmd *exec.Cmd, parser *Parser) (*ChangeSet, Summary, error) {
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, Summary{}, fmt.Errorf("create vlog pipe: %w", err)
	}

	var stderr bytes.Buffer
	cmd.Stdout = pw
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, Summary{}, fmt.Errorf("start %s: %w", cmd.Path, err)
	}

	type parsed struct {
		set *ChangeSet
		sum Summary
	}
	done := make(chan parsed, 1)
	go func() {
		defer pr.Close()
		set, sum := parser.ParseReader(ctx, pr)
		done <- parsed{set: set, sum: sum}
	}()

	waitErr := cmd.Wait()
	pw.Close()
	res := <-done

	if waitErr != nil {
		cmdErr := &CommandError{
			Command:  cmd.Path,
			ExitCode: -1,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      waitErr,
		}
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
		}
		return res.set, res.sum, cmdErr
	}

	return res.set, res.sum, nil
}
