package manticore

import (
	"io"
	"log/slog"
	"os"
)

// Interpreter runs programs and keeps the top-level stack and heap
// between runs.
type Interpreter struct {
	Config   Config
	Out      io.Writer
	Reporter *Reporter
	Input    LineReader
	Launcher Launcher
	Logger   *slog.Logger

	stack *Stack
	heap  *Heap
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput sends print/println output to w.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) { in.Out = w }
}

// WithDiagnostics sends rendered diagnostics to w.
func WithDiagnostics(w io.Writer) Option {
	return func(in *Interpreter) { in.Reporter = NewReporter(w) }
}

// WithInput makes readln read from r.
func WithInput(r LineReader) Option {
	return func(in *Interpreter) { in.Input = r }
}

// WithLauncher replaces the process launcher used by command.
func WithLauncher(l Launcher) Option {
	return func(in *Interpreter) { in.Launcher = l }
}

// WithLogger replaces the trace logger.
func WithLogger(l *slog.Logger) Option {
	return func(in *Interpreter) { in.Logger = l }
}

// New returns an interpreter wired to the process's standard streams
// unless options say otherwise.
func New(cfg Config, opts ...Option) *Interpreter {
	in := &Interpreter{
		Config:   cfg,
		Out:      os.Stdout,
		Reporter: NewReporter(os.Stderr),
		Input:    NewLineReader(os.Stdin),
		Launcher: ExecLauncher{},
		stack:    NewStack(nil),
		heap:     NewHeap(),
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.Logger == nil {
		in.Logger = NewLogger(os.Stderr, cfg.Trace)
	}
	return in
}

// Run executes an already tokenized and transformed sequence until it
// finishes or reaches `end`. The final stack and heap stay inspectable.
func (in *Interpreter) Run(seq *Body, name string) {
	in.Logger.Debug("run", slog.String("source", name), slog.Int("tokens", seq.Len()))
	ev := &Evaluator{in: in, stack: in.stack, heap: in.heap}
	ev.stack.Mark()
	ev.Exec(seq)
	in.stack, in.heap = ev.stack, ev.heap
}

// RunSource tokenizes, transforms and runs src. Diagnostics refer to
// lines of src.
func (in *Interpreter) RunSource(name, src string) {
	in.Reporter.SetSource(src)
	tokens, diags := Tokenize(src)
	seq, more := Transform(tokens)
	for _, d := range append(diags, more...) {
		in.Reporter.Report(d)
	}
	in.Run(seq, name)
}

// Stack returns a copy of the top-level stack, bottom first.
func (in *Interpreter) Stack() []Token { return in.stack.Items() }

// Heap returns the top-level environment.
func (in *Interpreter) Heap() *Heap { return in.heap }

// Lookup returns the top-level value bound to name.
func (in *Interpreter) Lookup(name string) (Token, bool) {
	return in.heap.Lookup(name)
}

// Diagnostics returns every diagnostic reported so far.
func (in *Interpreter) Diagnostics() []Diagnostic { return in.Reporter.Diagnostics() }

// Reset clears the top-level stack, heap and recorded diagnostics.
func (in *Interpreter) Reset() {
	in.stack = NewStack(nil)
	in.heap = NewHeap()
	in.Reporter.Reset()
}
