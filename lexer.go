package manticore

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer modes
const (
	normalMode = iota
	dqStringMode
	sqStringMode
	commentMode
)

// symbols become generic Symbol tokens.
const symbols = "+-*/()<>,;:!%^|"

// sigils produce operator tokens directly.
var sigils = map[rune]Op{
	'~': Param,
	'@': Invoke,
	'&': Macro,
	'=': Assign,
}

// nest is one open bracket level.
type nest struct {
	open   Token // position of the bracket, Text is "{" or "["
	tokens []Token
}

type lexer struct {
	mode      int
	line, col int
	buf       strings.Builder
	bufLine   int
	bufCol    int
	strStart  Token
	escaped   bool
	stack     []nest
	diags     []Diagnostic
}

// Tokenize splits source text into a tree of token sequences, one per
// {} or [] nesting level. Problems are returned as diagnostics; the
// scan always runs to the end of the text.
func Tokenize(src string) (*Body, []Diagnostic) {
	lx := &lexer{line: 1, stack: []nest{{}}}
	for _, ch := range src {
		lx.col++
		lx.step(ch)
		if ch == '\n' {
			lx.line++
			lx.col = 0
		}
	}
	lx.finish()
	return NewBody(lx.stack[0].tokens), lx.diags
}

func (lx *lexer) pos() Token {
	return Token{Line: lx.line, Col: lx.col}
}

func (lx *lexer) emit(t Token) {
	top := &lx.stack[len(lx.stack)-1]
	top.tokens = append(top.tokens, t)
}

func (lx *lexer) report(kind DiagKind, at Token, msg string) {
	lx.diags = append(lx.diags, Diagnostic{Kind: kind, Line: at.Line, Col: at.Col, Msg: msg})
}

func (lx *lexer) step(ch rune) {
	switch lx.mode {
	case commentMode:
		if ch == '\n' {
			lx.mode = normalMode
		}
		return
	case dqStringMode, sqStringMode:
		lx.stringStep(ch)
		return
	}

	switch {
	case ch == '_' || ch == '.' || unicode.IsLetter(ch) || unicode.IsDigit(ch):
		if lx.buf.Len() == 0 {
			lx.bufLine, lx.bufCol = lx.line, lx.col
		}
		lx.buf.WriteRune(ch)
	case unicode.IsSpace(ch):
		lx.flush()
	case ch == '#':
		lx.flush()
		lx.mode = commentMode
	case ch == '"' || ch == '\'':
		lx.flush()
		lx.strStart = lx.pos()
		lx.strStart.Text = string(ch)
		lx.escaped = false
		if ch == '"' {
			lx.mode = dqStringMode
		} else {
			lx.mode = sqStringMode
		}
	case ch == '{' || ch == '[':
		lx.flush()
		open := lx.pos()
		open.Text = string(ch)
		lx.stack = append(lx.stack, nest{open: open})
	case ch == '}' || ch == ']':
		lx.flush()
		lx.close(ch)
	default:
		if op, ok := sigils[ch]; ok {
			lx.flush()
			t := lx.pos()
			t.Kind, t.Op, t.Text = Operator, op, string(ch)
			lx.emit(t)
		} else if strings.ContainsRune(symbols, ch) {
			lx.flush()
			t := lx.pos()
			t.Kind, t.Text = Symbol, string(ch)
			lx.emit(t)
		} else {
			lx.flush()
			lx.report(Lexical, lx.pos(), "unrecognized character "+quoteRune(ch))
		}
	}
}

func (lx *lexer) stringStep(ch rune) {
	term := '"'
	if lx.mode == sqStringMode {
		term = '\''
	}
	if lx.escaped {
		lx.escaped = false
		if ch != term {
			lx.buf.WriteRune('/')
		}
		lx.buf.WriteRune(ch)
		return
	}
	switch ch {
	case '/':
		lx.escaped = true
	case term:
		lx.endString()
	default:
		lx.buf.WriteRune(ch)
	}
}

func (lx *lexer) endString() {
	if lx.escaped {
		lx.buf.WriteRune('/')
		lx.escaped = false
	}
	text := lx.buf.String()
	lx.buf.Reset()
	t := Token{Kind: String, Text: text, Line: lx.strStart.Line, Col: lx.strStart.Col}
	if utf8.RuneCountInString(text) == 1 {
		t.Kind = Char
	}
	lx.emit(t)
	lx.mode = normalMode
}

func (lx *lexer) close(ch rune) {
	if len(lx.stack) == 1 {
		lx.report(Structural, lx.pos(), "unmatched closing "+quoteRune(ch))
		return
	}
	n := len(lx.stack) - 1
	frame := lx.stack[n]
	lx.stack = lx.stack[:n]
	want := "}"
	if frame.open.Text == "[" {
		want = "]"
	}
	if string(ch) != want {
		lx.report(Structural, lx.pos(), "expected '"+want+"' to close '"+frame.open.Text+"', found "+quoteRune(ch))
	}
	lx.emit(lx.wrap(frame))
}

func (lx *lexer) wrap(frame nest) Token {
	t := MakeBlock(frame.tokens)
	if frame.open.Text == "[" {
		t.Kind = List
	}
	return t.at(frame.open)
}

// flush classifies the pending buffer as a number, keyword or identifier.
func (lx *lexer) flush() {
	if lx.buf.Len() == 0 {
		return
	}
	text := lx.buf.String()
	lx.buf.Reset()
	lx.emit(classify(text).at(Token{Line: lx.bufLine, Col: lx.bufCol}))
}

func (lx *lexer) finish() {
	switch lx.mode {
	case dqStringMode, sqStringMode:
		lx.report(Structural, lx.strStart, "missing closing "+lx.strStart.Text+" for string")
		lx.endString()
	default:
		lx.flush()
	}
	for len(lx.stack) > 1 {
		n := len(lx.stack) - 1
		frame := lx.stack[n]
		lx.stack = lx.stack[:n]
		want := "}"
		if frame.open.Text == "[" {
			want = "]"
		}
		lx.report(Structural, frame.open, "missing closing '"+want+"' for '"+frame.open.Text+"'")
		lx.emit(lx.wrap(frame))
	}
}

// classify turns a flushed word into its token.
func classify(text string) Token {
	if isNumeral(text) {
		if strings.ContainsRune(text, '.') {
			return Lit(Float, text)
		}
		return Lit(Integer, text)
	}
	lower := strings.ToLower(text)
	switch lower {
	case "true", "false":
		return Lit(Bool, lower)
	case "nothing":
		return NothingToken
	}
	if op, ok := keywords[lower]; ok {
		return Token{Kind: Operator, Op: op, Text: lower}
	}
	return Ident(lower)
}

// isNumeral accepts digits with at most one '.'.
func isNumeral(s string) bool {
	digits, dots := 0, 0
	for _, ch := range s {
		switch {
		case ch >= '0' && ch <= '9':
			digits++
		case ch == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

func quoteRune(ch rune) string {
	return "'" + string(ch) + "'"
}
