package manticore

import (
	"fmt"
	"io"
	"strings"
)

// DiagKind classifies a diagnostic.
type DiagKind int

const (
	Lexical DiagKind = iota
	Structural
	Arity
	TypeMismatch
	Runtime
)

var diagKindStr = [...]string{"lexical", "structural", "arity", "type", "runtime"}

func (k DiagKind) String() string { return diagKindStr[k] }

// Diagnostic is one reported, non-fatal error.
type Diagnostic struct {
	Kind DiagKind
	Line int
	Col  int
	Msg  string
	Prev string // previously executed instruction, if any
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("on line %d, %s", d.Line, d.Msg)
}

// Render formats d against the source it refers to:
//
//	ERROR: on line 3, not enough operands for '+'
//	x = 1 +
//	      ^
//	previous instruction: 1
func (d Diagnostic) Render(lines []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ERROR: on line %d, %s\n", d.Line, d.Msg)
	if d.Line >= 1 && d.Line <= len(lines) {
		text := lines[d.Line-1]
		b.WriteString(text)
		b.WriteByte('\n')
		runes := []rune(text) // columns count runes
		pad := min(max(d.Col-1, 0), len(runes))
		b.WriteString(caretPadding(string(runes[:pad])))
		b.WriteString("^\n")
	}
	if d.Prev != "" {
		fmt.Fprintf(&b, "previous instruction: %s\n", d.Prev)
	}
	return b.String()
}

// caretPadding keeps tabs so the caret lines up under the source.
func caretPadding(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

//----------------------------------------------------------------------

// Reporter prints diagnostics as they happen and remembers them.
type Reporter struct {
	Out   io.Writer
	lines []string
	diags []Diagnostic
}

// NewReporter returns a reporter writing to out; nil discards output.
func NewReporter(out io.Writer) *Reporter {
	if out == nil {
		out = io.Discard
	}
	return &Reporter{Out: out}
}

// SetSource installs the text that later positions refer to.
func (r *Reporter) SetSource(src string) {
	r.lines = strings.Split(src, "\n")
}

// Report prints and records d.
func (r *Reporter) Report(d Diagnostic) {
	r.diags = append(r.diags, d)
	fmt.Fprint(r.Out, d.Render(r.lines))
}

// Reportf reports a diagnostic at the position of tok.
func (r *Reporter) Reportf(kind DiagKind, tok Token, prev string, format string, args ...any) {
	r.Report(Diagnostic{
		Kind: kind,
		Line: tok.Line,
		Col:  tok.Col,
		Msg:  fmt.Sprintf(format, args...),
		Prev: prev,
	})
}

// Diagnostics returns everything reported so far.
func (r *Reporter) Diagnostics() []Diagnostic {
	return r.diags
}

// Reset forgets recorded diagnostics.
func (r *Reporter) Reset() {
	r.diags = nil
}
