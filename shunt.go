package manticore

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Precedence levels, low to high.
const (
	precAssign  = 2
	precKeyword = 3
	precAnd     = 6
	precOr      = 7
	precNot     = 8
	precCompare = 9
	precAdd     = 12
	precMul     = 13
	precUnary   = 14
	precPending = 15
)

// infix maps generic symbols to their binary operators.
var infix = map[string]Op{
	"+": Add,
	"-": Sub,
	"*": Mul,
	"/": Div,
	"%": Mod,
	"^": Pow,
	"<": Lss,
	">": Gtr,
	"!": Not,
	"|": Or,
}

func precedence(op Op) int {
	switch op {
	case Assign:
		return precAssign
	case And:
		return precAnd
	case Or:
		return precOr
	case Not:
		return precNot
	case Equ, Gtr, Lss:
		return precCompare
	case Add, Sub:
		return precAdd
	case Mul, Div, Mod:
		return precMul
	case Neg, Pow, Sqrt:
		return precUnary
	case Invoke, Macro:
		return precPending
	}
	return precKeyword
}

func rightAssoc(op Op) bool {
	return op == Assign || op == Neg || op == Pow
}

// prefixUnary operators take no left operand, so pushing one never
// completes anything already on the operator stack.
func prefixUnary(op Op) bool {
	return op == Neg || op == Not || op == Sqrt
}

// nullary operators take nothing from the expression around them and run
// where they appear.
func nullary(op Op) bool {
	switch op {
	case End, Sec, Shc, Rev, Readln:
		return true
	}
	return false
}

//----------------------------------------------------------------------

type shunter struct {
	out         []Token
	ops         []Token
	prevOperand bool
	diags       []Diagnostic
}

// Transform reorders a token sequence into execution order. Nested
// blocks are transformed too. Transforming an already transformed
// sequence returns an equal sequence.
func Transform(body *Body) (*Body, []Diagnostic) {
	s := &shunter{out: make([]Token, 0, body.Len())}
	for _, t := range body.Items() {
		s.step(t)
	}
	s.flush()
	return NewBody(s.out), s.diags
}

func (s *shunter) step(t Token) {
	switch t.Kind {
	case Identifier:
		s.release()
		s.ops = append(s.ops, t)
		s.prevOperand = true
	case Block:
		inner, diags := Transform(t.Body)
		s.diags = append(s.diags, diags...)
		s.finishExpression()
		t.Body = inner
		s.operand(t)
	case List:
		inner, diags := normalizeList(t.Body)
		s.diags = append(s.diags, diags...)
		t.Body = inner
		s.operand(t)
	case Operator:
		switch {
		case t.Postfix:
			s.operand(t)
		case t.Op == Param:
			s.param(t)
		case t.Op == Invoke || t.Op == Macro:
			s.ops = append(s.ops, t)
			s.prevOperand = false
		case nullary(t.Op):
			s.release()
			s.emit(t)
			s.prevOperand = true
		default:
			s.pushOp(t)
		}
	case Symbol:
		s.symbol(t)
	default:
		s.operand(t)
	}
}

func (s *shunter) symbol(t Token) {
	switch t.Text {
	case "(":
		s.ops = append(s.ops, t)
		s.prevOperand = false
	case ",":
		if !s.popToParen() {
			s.flush()
		}
		s.prevOperand = false
	case ")":
		s.closeParen(t)
	case ";":
		s.flush()
		s.prevOperand = false
	case ":":
		if n := len(s.ops); n > 0 {
			top := s.ops[n-1]
			if top.Kind == Identifier || isWordOp(top) {
				s.ops = s.ops[:n-1]
				s.emit(top)
			}
		}
		s.prevOperand = true
	default:
		op, ok := infix[t.Text]
		if !ok {
			s.operand(t)
			return
		}
		if op == Sub && !s.prevOperand {
			op = Neg
		}
		t.Kind, t.Op = Operator, op
		s.pushOp(t)
	}
}

// operand sends a value straight to the output.
func (s *shunter) operand(t Token) {
	s.release()
	s.out = append(s.out, t)
	s.prevOperand = true
}

// release emits a pending identifier: it was not followed by a call.
func (s *shunter) release() {
	if n := len(s.ops); n > 0 && s.ops[n-1].Kind == Identifier {
		id := s.ops[n-1]
		s.ops = s.ops[:n-1]
		s.emit(id)
	}
}

// finishExpression completes pending expression operators before a
// block argument, so `if x gtr 1 {...}` tests the comparison.
func (s *shunter) finishExpression() {
	s.release()
	for n := len(s.ops); n > 0; n = len(s.ops) {
		top := s.ops[n-1]
		if top.Kind != Operator || top.Op == Invoke || top.Op == Macro {
			return
		}
		if precedence(top.Op) <= precKeyword {
			return
		}
		s.ops = s.ops[:n-1]
		s.emit(top)
	}
}

func (s *shunter) pushOp(t Token) {
	if !prefixUnary(t.Op) {
		p := precedence(t.Op)
		for n := len(s.ops); n > 0; n = len(s.ops) {
			top := s.ops[n-1]
			if top.IsSymbol("(") {
				break
			}
			tp := precPending
			if top.Kind == Operator {
				tp = precedence(top.Op)
			}
			if tp > p || (tp == p && !rightAssoc(t.Op)) {
				s.ops = s.ops[:n-1]
				s.emit(top)
				continue
			}
			break
		}
	}
	s.ops = append(s.ops, t)
	s.prevOperand = false
}

// popToParen emits operators down to the innermost '(' and leaves it
// in place. It reports whether a '(' was found.
func (s *shunter) popToParen() bool {
	found := false
	for _, t := range s.ops {
		if t.IsSymbol("(") {
			found = true
		}
	}
	if !found {
		return false
	}
	for n := len(s.ops); n > 0; n = len(s.ops) {
		top := s.ops[n-1]
		if top.IsSymbol("(") {
			return true
		}
		s.ops = s.ops[:n-1]
		s.emit(top)
	}
	return true
}

func (s *shunter) closeParen(t Token) {
	if !s.popToParen() {
		s.diags = append(s.diags, Diagnostic{Kind: Structural, Line: t.Line, Col: t.Col, Msg: "missing '(' for ')'"})
		return
	}
	s.ops = s.ops[:len(s.ops)-1]
	s.prevOperand = true
	n := len(s.ops)
	if n == 0 {
		return
	}
	top := s.ops[n-1]
	switch {
	case top.Kind == Identifier:
		s.ops = s.ops[:n-1]
		call := MakeOp(Call)
		if n >= 2 {
			if m := s.ops[n-2]; m.Kind == Operator && (m.Op == Invoke || m.Op == Macro) {
				s.ops = s.ops[:n-2]
				call = MakeOp(m.Op)
			}
		}
		s.emit(top)
		s.out = append(s.out, call.at(top))
	case isWordOp(top):
		s.ops = s.ops[:n-1]
		s.emit(top)
	}
}

// param turns the identifiers just before '~' into parameter names.
func (s *shunter) param(t Token) {
	for n := len(s.ops); n > 0 && s.ops[n-1].Kind == Identifier; n = len(s.ops) {
		s.release()
	}
	i := len(s.out)
	for i > 0 && s.out[i-1].Kind == Identifier {
		i--
	}
	names := append([]Token(nil), s.out[i:]...)
	s.out = s.out[:i]
	p := MakeOp(Param).at(t)
	p.Body = NewBody(names)
	s.out = append(s.out, p)
	s.prevOperand = false
}

func (s *shunter) flush() {
	for n := len(s.ops); n > 0; n = len(s.ops) {
		top := s.ops[n-1]
		s.ops = s.ops[:n-1]
		if top.IsSymbol("(") {
			s.diags = append(s.diags, Diagnostic{Kind: Structural, Line: top.Line, Col: top.Col, Msg: "missing ')' for '('"})
			continue
		}
		s.emit(top)
	}
}

// emit writes an operator-stack entry to the output in execution order.
func (s *shunter) emit(t Token) {
	switch t.Kind {
	case Identifier:
		s.out = append(s.out, expandPath(t)...)
	case Operator:
		t.Postfix = true
		t.Text = t.Op.String()
		s.out = append(s.out, t)
	default:
		s.out = append(s.out, t)
	}
}

// expandPath desugars a.b.c into a, b ., c . so that access runs
// left to right.
func expandPath(id Token) []Token {
	if !strings.Contains(id.Text, ".") {
		return []Token{id}
	}
	var out []Token
	for _, seg := range strings.Split(id.Text, ".") {
		if seg == "" {
			continue
		}
		part := Ident(seg).at(id)
		if len(out) == 0 {
			out = append(out, part)
			continue
		}
		out = append(out, part, MakeOp(Access).at(id))
	}
	if len(out) == 0 {
		return []Token{id}
	}
	return out
}

// isWordOp reports whether t is a keyword operator spelled as a word,
// as opposed to one produced from an arithmetic symbol.
func isWordOp(t Token) bool {
	if t.Kind != Operator || t.Postfix || t.Op == Invoke || t.Op == Macro {
		return false
	}
	r, _ := utf8.DecodeRuneInString(t.Text)
	return unicode.IsLetter(r)
}

// normalizeList drops element separators and folds negative numerals.
func normalizeList(body *Body) (*Body, []Diagnostic) {
	var diags []Diagnostic
	in := body.Items()
	out := make([]Token, 0, len(in))
	for i := 0; i < len(in); i++ {
		t := in[i]
		switch {
		case t.IsSymbol(",") || t.IsSymbol(";"):
			continue
		case t.IsSymbol("-") && i+1 < len(in) && (in[i+1].Kind == Integer || in[i+1].Kind == Float):
			i++
			n := in[i]
			n.Text = "-" + n.Text
			out = append(out, n.at(t))
			continue
		case t.Kind == Block:
			inner, d := Transform(t.Body)
			diags = append(diags, d...)
			t.Body = inner
		case t.Kind == List:
			inner, d := normalizeList(t.Body)
			diags = append(diags, d...)
			t.Body = inner
		}
		out = append(out, t)
	}
	return NewBody(out), diags
}
