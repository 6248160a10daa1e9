// Command manticore runs Manticore programs or an interactive session.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/manticore-lang/manticore"
)

const contPrompt = "| "

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without the process exit; it returns the exit status.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("manticore", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", manticore.ConfigFile, "settings file")
	trace := fs.Bool("trace", false, "log block activations")
	code := fs.String("e", "", "run `code` instead of a file")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: manticore [flags] [program [-]]")
		fmt.Fprintln(stderr, "  program may be a path, an http(s) URL or git+<repo>//<path>[@<rev>]")
		fmt.Fprintln(stderr, "  a trailing - starts the interactive session after the program")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := manticore.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "manticore: %v\n", err)
		return 2
	}
	if *trace {
		cfg.Trace = true
	}
	in := manticore.New(cfg,
		manticore.WithOutput(stdout),
		manticore.WithDiagnostics(stderr),
		manticore.WithLogger(manticore.NewLogger(stderr, cfg.Trace)))

	if *code != "" {
		in.RunSource("-e", *code)
		return 0
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return repl(in, cfg, stdout, stderr)
	}
	loader := &manticore.Loader{}
	src, err := loader.Load(context.Background(), rest[0])
	if err != nil {
		fmt.Fprintf(stderr, "manticore: %v\n", err)
		return 1
	}
	in.RunSource(rest[0], src)
	if len(rest) > 1 && rest[1] == "-" {
		return repl(in, cfg, stdout, stderr)
	}
	return 0
}

// repl reads lines until end of input, running each complete chunk
// against the same stack and heap.
func repl(in *manticore.Interpreter, cfg manticore.Config, stdout, stderr io.Writer) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := cfg.HistoryFile
	if home, err := os.UserHomeDir(); err == nil && !filepath.IsAbs(histPath) {
		histPath = filepath.Join(home, histPath)
	}
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	in.Input = manticore.LineReaderFunc(func() (string, error) {
		return ln.Prompt("")
	})

	for {
		src, ok := readChunk(ln, cfg.Prompt)
		if !ok {
			fmt.Fprintln(stdout, "Goodbye")
			return 0
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		in.RunSource("<stdin>", src)
		if items := in.Stack(); len(items) > 0 {
			fmt.Fprintln(stdout, formatStack(items))
		}
	}
}

// readChunk keeps reading while brackets or strings are still open.
func readChunk(ln *liner.State, prompt string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = contPrompt
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !incomplete(b.String()) {
			return b.String(), true
		}
	}
}

// incomplete reports whether src ends inside a block, list or string.
func incomplete(src string) bool {
	_, diags := manticore.Tokenize(src)
	for _, d := range diags {
		if d.Kind == manticore.Structural && strings.HasPrefix(d.Msg, "missing closing") {
			return true
		}
	}
	return false
}

func formatStack(items []manticore.Token) string {
	ss := make([]string, len(items))
	for i, t := range items {
		ss[i] = manticore.Stringify(t, true)
	}
	return "[" + strings.Join(ss, " ") + "]"
}
