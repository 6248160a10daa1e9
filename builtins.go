package manticore

import (
	"io"
	"strings"
)

// builtin dispatches one operator token.
func (e *Evaluator) builtin(t Token) {
	switch t.Op {
	case Add, Sub, Mul, Div, Mod, Pow:
		e.arith(t)
	case Neg, Sqrt:
		e.unary(t)
	case Equ, Gtr, Lss:
		e.compare(t)
	case And, Or:
		if !e.need(t, 2) {
			return
		}
		b := e.truth(e.pop(), t)
		a := e.truth(e.pop(), t)
		if t.Op == And {
			e.stack.Push(BoolToken(a && b))
		} else {
			e.stack.Push(BoolToken(a || b))
		}
	case Not:
		if e.need(t, 1) {
			e.stack.Push(BoolToken(!e.truth(e.pop(), t)))
		}
	case Assign:
		e.bind(t)
	case Param:
		e.params(t)
	case Let:
		e.let(t)
	case Call:
		e.callOp(t, callPolicy)
	case Invoke:
		e.callOp(t, invokePolicy)
	case Macro:
		e.callOp(t, macroPolicy)
	case Access:
		e.access(t)
	case If:
		e.cond(t)
	case For:
		e.forEach(t)
	case Loop:
		e.loop(t)
	case Dup:
		if e.need(t, 1) {
			top, _ := e.stack.Peek()
			e.stack.Push(top)
		}
	case Rev:
		e.stack.Reverse()
	case Sec:
		e.stack.Clear()
	case Shc:
		e.heap.Clear()
	case Pop:
		if e.need(t, 1) {
			e.pop()
		}
	case Print, Println:
		if !e.need(t, 1) {
			return
		}
		text := unescape(Stringify(e.pop(), false))
		if t.Op == Println {
			text += "\n"
		}
		io.WriteString(e.in.Out, text)
	case Readln:
		e.readln(t)
	case Set:
		e.set(t)
	case End:
		e.ended = true
	case Command:
		e.command(t)
	default:
		e.report(Runtime, t, "unknown instruction '%s'", t.Text)
	}
}

// number reads an operand, defaulting to zero when it is not numeric.
func (e *Evaluator) number(v Token, t Token) number {
	if n, ok := numeric(v); ok {
		return n
	}
	e.report(TypeMismatch, t, "'%s' expects a number, found %s %s", t.Op, v.Kind, Stringify(v, true))
	return zeroNumber()
}

// numeric parses the textual value of literal tokens. Float results of
// earlier arithmetic may also be non-finite.
func numeric(v Token) (number, bool) {
	switch v.Kind {
	case Integer, String, Char:
		return parseNumber(v.Text)
	case Float:
		if n, ok := parseNumber(v.Text); ok {
			return n, true
		}
		return parseNonFinite(v.Text)
	}
	return number{}, false
}

// truth reads an operand as a boolean, defaulting to false.
func (e *Evaluator) truth(v Token, t Token) bool {
	switch strings.ToLower(v.Text) {
	case "true":
		return true
	case "false":
		return false
	}
	e.report(TypeMismatch, t, "'%s' expects a boolean, found %s %s", t.Op, v.Kind, Stringify(v, true))
	return false
}

func isText(v Token) bool {
	return v.Kind == String || v.Kind == Char
}

func (e *Evaluator) arith(t Token) {
	if !e.need(t, 2) {
		return
	}
	b := e.pop()
	a := e.pop()
	if t.Op == Add && (isText(a) || isText(b)) {
		_, aok := numeric(a)
		_, bok := numeric(b)
		if !aok || !bok {
			e.stack.Push(Lit(String, Stringify(a, false)+Stringify(b, false)).at(t))
			return
		}
	}
	x, y := e.number(a, t), e.number(b, t)
	var r number
	switch t.Op {
	case Add:
		r = addNumbers(x, y)
	case Sub:
		r = subNumbers(x, y)
	case Mul:
		r = mulNumbers(x, y)
	case Div:
		r = divNumbers(x, y)
	case Mod:
		r = modNumbers(x, y)
	case Pow:
		r = powNumbers(x, y)
	}
	e.stack.Push(r.Token().at(t))
}

func (e *Evaluator) unary(t Token) {
	if !e.need(t, 1) {
		return
	}
	x := e.number(e.pop(), t)
	if t.Op == Neg {
		e.stack.Push(negNumber(x).Token().at(t))
	} else {
		e.stack.Push(sqrtNumber(x).Token().at(t))
	}
}

// compare orders numbers numerically and anything else by its text.
func (e *Evaluator) compare(t Token) {
	if !e.need(t, 2) {
		return
	}
	b := e.pop()
	a := e.pop()
	x, xok := numeric(a)
	y, yok := numeric(b)
	var c int
	switch {
	case xok && yok:
		var ordered bool
		if c, ordered = cmpNumbers(x, y); !ordered {
			e.stack.Push(BoolToken(false).at(t))
			return
		}
	case t.Op == Equ:
		same := a.Equal(b) || isText(a) && isText(b) && a.Text == b.Text
		e.stack.Push(BoolToken(same).at(t))
		return
	case isText(a) && isText(b):
		c = strings.Compare(a.Text, b.Text)
	default:
		c, _ = cmpNumbers(e.number(a, t), e.number(b, t))
	}
	switch t.Op {
	case Equ:
		e.stack.Push(BoolToken(c == 0).at(t))
	case Gtr:
		e.stack.Push(BoolToken(c > 0).at(t))
	case Lss:
		e.stack.Push(BoolToken(c < 0).at(t))
	}
}

func (e *Evaluator) readln(t Token) {
	line, err := e.in.Input.ReadLine()
	if err != nil {
		if err != io.EOF {
			e.report(Runtime, t, "readln: %v", err)
		}
		e.stack.Push(NothingToken.at(t))
		return
	}
	e.stack.Push(Lit(String, line).at(t))
}

func (e *Evaluator) command(t Token) {
	if !e.need(t, 2) {
		return
	}
	argv := e.pop()
	prog := Stringify(e.pop(), false)
	var args []string
	switch argv.Kind {
	case Block, List:
		for _, a := range argv.Body.Items() {
			args = append(args, Stringify(a, false))
		}
	case Nothing:
	default:
		args = append(args, Stringify(argv, false))
	}
	e.in.Logger.Debug("command", "program", prog, "args", args)
	if err := e.in.Launcher.Launch(prog, args); err != nil {
		e.report(Runtime, t, "command %s: %v", prog, err)
	}
}

// unescape interprets the \n and \t sequences print understands.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	return strings.NewReplacer(`\n`, "\n", `\t`, "\t").Replace(s)
}
