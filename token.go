// Package manticore implements the Manticore scripting language: a
// tokenizer, an operator-precedence transform and a stack evaluator.
package manticore

import (
	"strconv"
	"strings"
)

//----------------------------------------------------------------------

// Kind tags the variant a Token holds.
type Kind int

const (
	Integer Kind = iota
	Float
	String
	Char
	Bool
	Symbol
	Identifier
	Operator
	Block
	List
	Nothing
)

var kindStr = [...]string{
	"Integer", "Float", "String", "Char", "Bool", "Symbol",
	"Identifier", "Operator", "Block", "List", "Nothing",
}

func (k Kind) String() string {
	if int(k) < len(kindStr) {
		return kindStr[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

//----------------------------------------------------------------------

// Op enumerates the built-in operators.
type Op int

const (
	NoOp Op = iota
	Add
	Sub
	Mul
	Div
	Mod
	Pow
	Sqrt
	Neg
	Equ
	Gtr
	Lss
	And
	Or
	Not
	Assign
	Let
	Call
	Invoke
	Macro
	If
	For
	Loop
	Access
	Param
	Dup
	Rev
	Sec
	Shc
	Pop
	Print
	Println
	Readln
	Set
	End
	Command
)

// OpStr holds the instruction names used in listings and diagnostics.
var OpStr = [...]string{
	"nop", "+", "-", "*", "/", "mod", "pow", "sqrt", "neg",
	"equ", "gtr", "lss", "and", "or", "not", "var", "let", "call",
	"invoke", "macro", "if", "for", "loop", ".", "~", "dup", "rev",
	"sec", "shc", "pop", "print", "println", "readln", "set", "end",
	"command",
}

func (op Op) String() string {
	if int(op) < len(OpStr) {
		return OpStr[op]
	}
	return "op(" + strconv.Itoa(int(op)) + ")"
}

// keywords maps lower-cased words to their operators.
var keywords = map[string]Op{
	"mod":     Mod,
	"pow":     Pow,
	"sqrt":    Sqrt,
	"neg":     Neg,
	"equ":     Equ,
	"gtr":     Gtr,
	"lss":     Lss,
	"and":     And,
	"or":      Or,
	"not":     Not,
	"var":     Assign,
	"let":     Let,
	"call":    Call,
	"if":      If,
	"for":     For,
	"loop":    Loop,
	"dup":     Dup,
	"rev":     Rev,
	"sec":     Sec,
	"shc":     Shc,
	"pop":     Pop,
	"print":   Print,
	"println": Println,
	"readln":  Readln,
	"set":     Set,
	"end":     End,
	"command": Command,
}

//----------------------------------------------------------------------

// Body is an immutable token sequence shared by every Block or List
// token that refers to it. Nothing writes into a Body once it is built.
type Body struct {
	Tokens []Token
}

// NewBody wraps tokens; the caller must not modify them afterwards.
func NewBody(tokens []Token) *Body {
	return &Body{Tokens: tokens}
}

// Len returns the number of tokens, treating nil as empty.
func (b *Body) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Tokens)
}

// Items returns the tokens, treating nil as empty.
func (b *Body) Items() []Token {
	if b == nil {
		return nil
	}
	return b.Tokens
}

// Token is one tagged value of the language.
type Token struct {
	Kind    Kind
	Text    string // textual value, identifier name or symbol
	Op      Op
	Body    *Body  // Block/List contents, Param names
	Bound   string // name the value was last bound under
	Postfix bool   // operator already in execution order
	Line    int
	Col     int
}

// Lit makes a literal token from its kind and textual value.
func Lit(kind Kind, text string) Token {
	return Token{Kind: kind, Text: text}
}

// Ident makes an identifier token.
func Ident(name string) Token {
	return Token{Kind: Identifier, Text: name}
}

// MakeOp makes an operator token already in execution order.
func MakeOp(op Op) Token {
	return Token{Kind: Operator, Op: op, Text: op.String(), Postfix: true}
}

// MakeBlock makes a block token around tokens.
func MakeBlock(tokens []Token) Token {
	return Token{Kind: Block, Body: NewBody(tokens)}
}

// MakeList makes a list token around tokens.
func MakeList(tokens []Token) Token {
	return Token{Kind: List, Body: NewBody(tokens)}
}

// BoolToken returns the canonical Bool token for b.
func BoolToken(b bool) Token {
	return Lit(Bool, strconv.FormatBool(b))
}

// NothingToken is the value of absent results.
var NothingToken = Token{Kind: Nothing, Text: "nothing"}

// at copies the source position of pos onto t.
func (t Token) at(pos Token) Token {
	t.Line, t.Col = pos.Line, pos.Col
	return t
}

// IsSymbol reports whether t is the generic symbol s.
func (t Token) IsSymbol(s string) bool {
	return t.Kind == Symbol && t.Text == s
}

// Name returns the binding name a token stands for: the identifier
// itself, or else the name its value was last bound under.
func (t Token) Name() string {
	if t.Kind == Identifier {
		return t.Text
	}
	return t.Bound
}

// Equal compares tokens by value, ignoring positions and back-references.
func (t Token) Equal(u Token) bool {
	if t.Kind != u.Kind || t.Text != u.Text || t.Op != u.Op {
		return false
	}
	if t.Body == u.Body {
		return true
	}
	a, b := t.Body.Items(), u.Body.Items()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Stringify returns the textual form of a token. Strings are quoted when
// quote is true.
func Stringify(t Token, quote bool) string {
	switch t.Kind {
	case String:
		if quote {
			return strconv.Quote(t.Text)
		}
	case Char:
		if quote {
			return "'" + t.Text + "'"
		}
	case Block:
		return "{" + joinTokens(t.Body.Items()) + "}"
	case List:
		return "[" + joinTokens(t.Body.Items()) + "]"
	case Operator:
		if t.Op == Param {
			return joinTokens(t.Body.Items()) + " ~"
		}
		return t.Op.String()
	}
	return t.Text
}

func (t Token) String() string {
	return Stringify(t, true)
}

func joinTokens(tokens []Token) string {
	ss := make([]string, 0, len(tokens))
	for _, t := range tokens {
		ss = append(ss, Stringify(t, true))
	}
	return strings.Join(ss, " ")
}
