package manticore

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
)

// LineReader supplies lines to readln. ReadLine returns io.EOF when
// input is exhausted.
type LineReader interface {
	ReadLine() (string, error)
}

// Launcher starts external programs for the command instruction.
type Launcher interface {
	Launch(program string, args []string) error
}

//----------------------------------------------------------------------

type scannerReader struct {
	lines *bufio.Scanner
}

// NewLineReader reads newline-terminated lines from r.
func NewLineReader(r io.Reader) LineReader {
	return &scannerReader{lines: bufio.NewScanner(r)}
}

func (s *scannerReader) ReadLine() (string, error) {
	if !s.lines.Scan() {
		if err := s.lines.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.lines.Text(), nil
}

// LineReaderFunc adapts a function to LineReader.
type LineReaderFunc func() (string, error)

func (f LineReaderFunc) ReadLine() (string, error) { return f() }

//----------------------------------------------------------------------

// ExecLauncher starts programs with os/exec and does not wait for them.
type ExecLauncher struct{}

func (ExecLauncher) Launch(program string, args []string) error {
	cmd := exec.Command(program, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", program, err)
	}
	go cmd.Wait() // reap the child
	return nil
}

// LauncherFunc adapts a function to Launcher.
type LauncherFunc func(program string, args []string) error

func (f LauncherFunc) Launch(program string, args []string) error { return f(program, args) }

//----------------------------------------------------------------------

// NewLogger returns the trace logger: debug records when trace is on,
// warnings and above otherwise.
func NewLogger(w io.Writer, trace bool) *slog.Logger {
	level := slog.LevelWarn
	if trace {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
