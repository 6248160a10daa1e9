package manticore

import (
	"log/slog"
	"strconv"
)

// Writeback says how much of a callee's stack flows back to its caller.
type Writeback int

const (
	WritebackNone Writeback = iota
	WritebackTop
	WritebackFull
)

// Policy describes how a block activation shares state with its caller.
type Policy struct {
	InheritEnv   bool // callee heap starts as a copy of the caller's
	WritebackEnv bool // caller heap is replaced by the callee's afterwards
	Stack        Writeback
}

var (
	callPolicy   = Policy{InheritEnv: true, WritebackEnv: true, Stack: WritebackFull}
	invokePolicy = Policy{Stack: WritebackTop}
	macroPolicy  = Policy{InheritEnv: true, Stack: WritebackFull}
	accessPolicy = Policy{Stack: WritebackNone}
)

func (p Policy) String() string {
	switch p {
	case callPolicy:
		return "call"
	case invokePolicy:
		return "invoke"
	case macroPolicy:
		return "macro"
	case accessPolicy:
		return "access"
	}
	return "custom"
}

//----------------------------------------------------------------------

// Evaluator executes one execution-ordered sequence against a private
// stack and heap.
type Evaluator struct {
	in    *Interpreter
	stack *Stack
	heap  *Heap
	depth int
	prev  string
	ended bool
}

// Exec runs seq front to back, stopping early at `end`.
func (e *Evaluator) Exec(seq *Body) {
	for _, t := range seq.Items() {
		if e.ended {
			return
		}
		e.step(t)
	}
}

func (e *Evaluator) step(t Token) {
	switch t.Kind {
	case Identifier:
		switch v, ok := e.heap.Lookup(t.Text); {
		case t.Text == "self":
			e.stack.Push(e.self().at(t))
		case ok:
			e.stack.Push(v)
		default:
			e.stack.Push(t)
		}
		e.prev = t.Text
	case Operator:
		e.builtin(t)
		e.prev = t.Op.String()
	default:
		e.stack.Push(t)
		e.prev = Stringify(t, true)
	}
}

// self materializes every binding as a block that rebinds them.
func (e *Evaluator) self() Token {
	names := e.heap.Names()
	tokens := make([]Token, 0, 3*len(names))
	for _, name := range names {
		v, _ := e.heap.Lookup(name)
		v.Bound = ""
		tokens = append(tokens, Ident(name), v, MakeOp(Assign))
	}
	return MakeBlock(tokens)
}

func (e *Evaluator) report(kind DiagKind, at Token, format string, args ...any) {
	e.in.Reporter.Reportf(kind, at, e.prev, format, args...)
}

// need reports an arity diagnostic unless n operands are available.
func (e *Evaluator) need(t Token, n int) bool {
	if e.stack.Len() >= n {
		return true
	}
	e.report(Arity, t, "'%s' needs %d operand(s), found %d", t.Op, n, e.stack.Len())
	return false
}

func (e *Evaluator) pop() Token {
	t, _ := e.stack.Pop()
	return t
}

//----------------------------------------------------------------------

// activate runs block in a fresh evaluator and writes results back to
// e as p says. It returns the finished callee, or nil when the
// activation was refused.
func (e *Evaluator) activate(block Token, p Policy, at Token) *Evaluator {
	if limit := e.in.Config.MaxDepth; limit > 0 && e.depth >= limit {
		e.report(Runtime, at, "activation depth limit %d exceeded", limit)
		return nil
	}
	seq, diags := Transform(block.Body)
	for _, d := range diags {
		d.Prev = e.prev
		e.in.Reporter.Report(d)
	}

	var stack *Stack
	if p.Stack == WritebackNone {
		stack = NewStack(nil)
	} else {
		stack = NewStack(e.stack.items)
	}
	heap := NewHeap()
	if p.InheritEnv {
		heap = e.heap.Clone()
	}
	callee := &Evaluator{in: e.in, stack: stack, heap: heap, depth: e.depth + 1, prev: e.prev}
	e.in.Logger.Debug("activate",
		slog.String("policy", p.String()),
		slog.Int("depth", callee.depth),
		slog.Int("tokens", seq.Len()),
		slog.Int("stack", stack.Len()))
	callee.Exec(seq)

	switch p.Stack {
	case WritebackFull:
		// the caller's mark survives the swap
		callee.stack.low = min(callee.stack.low, e.stack.low)
		e.stack = callee.stack
	case WritebackTop:
		low := callee.stack.Low()
		e.stack.Truncate(low)
		if callee.stack.Len() > low {
			top, _ := callee.stack.Peek()
			e.stack.Push(top)
		}
	}
	if p.WritebackEnv {
		e.heap = callee.heap
	}
	return callee
}

// run activates v if it is a block and pushes it otherwise.
func (e *Evaluator) run(v Token, p Policy, at Token) bool {
	if v.Kind != Block {
		if v.Kind != Nothing {
			e.stack.Push(v)
		}
		return true
	}
	return e.activate(v, p, at) != nil
}

//----------------------------------------------------------------------

func (e *Evaluator) callOp(t Token, p Policy) {
	if !e.need(t, 1) {
		return
	}
	f := e.pop()
	switch f.Kind {
	case Block:
		e.activate(f, p, t)
	case Identifier:
		e.report(Runtime, t, "unknown function '%s'", f.Text)
	default:
		e.report(TypeMismatch, t, "cannot call %s %s", f.Kind, Stringify(f, true))
	}
}

func (e *Evaluator) params(t Token) {
	names := t.Body.Items()
	if !e.need(t, len(names)) {
		return
	}
	for i := len(names) - 1; i >= 0; i-- {
		e.heap.Bind(names[i].Text, e.pop())
	}
}

func (e *Evaluator) bind(t Token) {
	if !e.need(t, 2) {
		return
	}
	value := e.pop()
	dest := e.pop()
	name := dest.Name()
	if name == "" {
		e.report(TypeMismatch, t, "cannot assign to %s %s", dest.Kind, Stringify(dest, true))
		return
	}
	e.heap.Bind(name, value)
}

// set pops the run of identifiers on top, then one value per name.
func (e *Evaluator) set(t Token) {
	var names []string
	for {
		top, ok := e.stack.Peek()
		if !ok || top.Kind != Identifier {
			break
		}
		names = append(names, e.pop().Text)
	}
	if len(names) == 0 {
		e.report(Arity, t, "'set' needs destination names on the stack")
		return
	}
	for _, name := range names {
		v, ok := e.stack.Pop()
		if !ok {
			e.report(Arity, t, "'set' has no value for '%s'", name)
			return
		}
		e.heap.Bind(name, v)
	}
}

// let captures the current value of every bound name the block uses.
func (e *Evaluator) let(t Token) {
	if !e.need(t, 1) {
		return
	}
	b := e.pop()
	if b.Kind != Block {
		e.report(TypeMismatch, t, "'let' expects a block, found %s", b.Kind)
		e.stack.Push(b)
		return
	}
	b.Body = e.capture(b.Body, nil)
	e.stack.Push(b)
}

func (e *Evaluator) capture(body *Body, shadow map[string]bool) *Body {
	in := body.Items()
	local := shadow
	copied := false
	for _, t := range in {
		if t.Kind != Operator || t.Op != Param {
			continue
		}
		if !copied {
			local, copied = copySet(shadow), true
		}
		for _, n := range t.Body.Items() {
			local[n.Text] = true
		}
	}
	out := make([]Token, len(in))
	for i, t := range in {
		switch t.Kind {
		case Identifier:
			if v, ok := e.heap.Lookup(t.Text); ok && !local[t.Text] && t.Text != "self" {
				t = v.at(t)
			}
		case Block, List:
			t.Body = e.capture(t.Body, local)
		}
		out[i] = t
	}
	return NewBody(out)
}

func copySet(m map[string]bool) map[string]bool {
	c := make(map[string]bool, len(m)+4)
	for k := range m {
		c[k] = true
	}
	return c
}

// access runs a block on its own and reads a name out of the result.
func (e *Evaluator) access(t Token) {
	if !e.need(t, 2) {
		return
	}
	field := e.pop()
	container := e.pop()
	name := field.Name()
	if name == "" {
		name = field.Text
	}
	switch container.Kind {
	case Block:
		callee := e.activate(container, accessPolicy, t)
		if callee == nil {
			e.stack.Push(NothingToken)
			return
		}
		if v, ok := callee.heap.Lookup(name); ok {
			e.stack.Push(v)
			return
		}
		e.report(Runtime, t, "no member '%s'", name)
	case List:
		items := container.Body.Items()
		if i, err := strconv.Atoi(name); err == nil && i >= 0 && i < len(items) {
			e.stack.Push(items[i])
			return
		}
		e.report(Runtime, t, "no element '%s' in list of %d", name, len(items))
	default:
		e.report(TypeMismatch, t, "cannot read '%s' from %s %s", name, container.Kind, Stringify(container, true))
	}
	e.stack.Push(NothingToken)
}

// cond pops an if: `c then if` or `c then else if`. The longer form is
// taken when the then-branch is a block, or when a boolean sits under a
// non-boolean branch.
func (e *Evaluator) cond(t Token) {
	if !e.need(t, 2) {
		return
	}
	b, _ := e.stack.PeekAt(1)
	below, three := e.stack.PeekAt(2)
	three = three && (b.Kind == Block || below.Kind == Bool && b.Kind != Bool)
	otherwise := NothingToken
	if three {
		otherwise = e.pop()
	}
	then := e.pop()
	c := e.pop()
	if e.truth(c, t) {
		e.run(then, callPolicy, t)
	} else {
		e.run(otherwise, callPolicy, t)
	}
}

func (e *Evaluator) forEach(t Token) {
	if !e.need(t, 3) {
		return
	}
	body := e.pop()
	binder := e.pop()
	seq := e.pop()
	name := binder.Name()
	if name == "" {
		e.report(TypeMismatch, t, "'for' needs a name to bind, found %s", binder.Kind)
		return
	}
	for _, item := range e.elements(seq, t) {
		e.heap.Bind(name, item)
		if !e.run(body, callPolicy, t) {
			return
		}
	}
}

// elements lists what `for` iterates over.
func (e *Evaluator) elements(seq Token, at Token) []Token {
	switch seq.Kind {
	case List, Block:
		return seq.Body.Items()
	case String, Char:
		var out []Token
		for _, r := range seq.Text {
			out = append(out, Lit(Char, string(r)))
		}
		return out
	case Integer:
		n, _ := strconv.Atoi(seq.Text)
		out := make([]Token, 0, max(n, 0))
		for i := 0; i < n; i++ {
			out = append(out, Lit(Integer, strconv.Itoa(i)))
		}
		return out
	}
	e.report(TypeMismatch, at, "cannot iterate over %s %s", seq.Kind, Stringify(seq, true))
	return nil
}

func (e *Evaluator) loop(t Token) {
	if !e.need(t, 2) {
		return
	}
	body := e.pop()
	count := e.pop()
	n, ok := parseNumber(count.Text)
	if !ok {
		e.report(TypeMismatch, t, "'loop' expects a count, found %s %s", count.Kind, Stringify(count, true))
		return
	}
	for i := 0.0; i < n.toFloat(); i++ {
		if !e.run(body, callPolicy, t) {
			return
		}
	}
}
