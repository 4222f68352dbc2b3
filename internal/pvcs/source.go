package pvcs

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
)

const defaultLineBuffer = 256

// LineSource streams the lines of a reader over a channel.
// A producer goroutine reads the reader until EOF, a read error or
// cancellation of the context, then closes the channel. Lines have no length
// limit; a trailing "\r" is stripped.
type LineSource struct {
	lines chan string
	done  chan struct{}
	err   error
}

// NewLineSource starts scanning r. bufSize is the channel capacity; values
// below one use a default.
func NewLineSource(ctx context.Context, r io.Reader, bufSize int) *LineSource {
	if bufSize < 1 {
		bufSize = defaultLineBuffer
	}
	s := &LineSource{
		lines: make(chan string, bufSize),
		done:  make(chan struct{}),
	}
	go s.produce(ctx, r)
	return s
}

func (s *LineSource) produce(ctx context.Context, r io.Reader) {
	defer close(s.done)
	defer close(s.lines)

	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			select {
			case s.lines <- line:
			case <-ctx.Done():
				s.err = ctx.Err()
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.err = err
			}
			return
		}
	}
}

// Lines returns the channel of lines. It is closed when input ends.
func (s *LineSource) Lines() <-chan string {
	return s.lines
}

// Err waits for the producer to finish and returns the error that ended it,
// or nil at a clean end of input.
func (s *LineSource) Err() error {
	<-s.done
	return s.err
}
