package manticore

import "sort"

// Stack is the operand stack of one evaluator.
type Stack struct {
	items []Token
	low   int // fewest items held since the last Mark
}

// NewStack returns a stack holding a copy of items.
func NewStack(items []Token) *Stack {
	s := &Stack{items: append(make([]Token, 0, len(items)+16), items...)}
	s.low = len(s.items)
	return s
}

// Len returns the number of items.
func (s *Stack) Len() int { return len(s.items) }

// Push appends a value to the top of the stack.
func (s *Stack) Push(t Token) {
	s.items = append(s.items, t)
}

// Pop removes and returns the top of the stack.
func (s *Stack) Pop() (Token, bool) {
	n := len(s.items) - 1
	if n < 0 {
		return Token{}, false
	}
	t := s.items[n]
	s.items = s.items[:n]
	if n < s.low {
		s.low = n
	}
	return t, true
}

// Peek returns the top of the stack without removing it.
func (s *Stack) Peek() (Token, bool) {
	if len(s.items) == 0 {
		return Token{}, false
	}
	return s.items[len(s.items)-1], true
}

// PeekAt returns the item depth places below the top.
func (s *Stack) PeekAt(depth int) (Token, bool) {
	i := len(s.items) - 1 - depth
	if i < 0 || i >= len(s.items) {
		return Token{}, false
	}
	return s.items[i], true
}

// Reverse reverses the whole stack in place.
func (s *Stack) Reverse() {
	for i, j := 0, len(s.items)-1; i < j; i, j = i+1, j-1 {
		s.items[i], s.items[j] = s.items[j], s.items[i]
	}
}

// Clear empties the stack.
func (s *Stack) Clear() {
	s.items = s.items[:0]
	s.low = 0
}

// Truncate drops everything above n items.
func (s *Stack) Truncate(n int) {
	if n < len(s.items) {
		s.items = s.items[:n]
	}
	if n < s.low {
		s.low = n
	}
}

// Mark resets the low-water mark to the current depth.
func (s *Stack) Mark() { s.low = len(s.items) }

// Low returns the fewest items the stack held since the last Mark.
func (s *Stack) Low() int { return s.low }

// Items returns a copy of the contents, bottom first.
func (s *Stack) Items() []Token {
	return append([]Token(nil), s.items...)
}

//----------------------------------------------------------------------

// Heap is the name to value environment of one evaluator.
type Heap struct {
	vars map[string]Token
}

// NewHeap returns an empty heap.
func NewHeap() *Heap {
	return &Heap{vars: make(map[string]Token)}
}

// Bind stores value under name, recording the name on the value.
func (h *Heap) Bind(name string, value Token) {
	value.Bound = name
	h.vars[name] = value
}

// Lookup returns the value bound to name.
func (h *Heap) Lookup(name string) (Token, bool) {
	t, ok := h.vars[name]
	return t, ok
}

// Len returns the number of bindings.
func (h *Heap) Len() int { return len(h.vars) }

// Names returns the bound names in sorted order.
func (h *Heap) Names() []string {
	names := make([]string, 0, len(h.vars))
	for k := range h.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Clone copies the heap. Block bodies are shared, not copied.
func (h *Heap) Clone() *Heap {
	c := &Heap{vars: make(map[string]Token, len(h.vars))}
	for k, v := range h.vars {
		c.vars[k] = v
	}
	return c
}

// Clear removes every binding.
func (h *Heap) Clear() {
	h.vars = make(map[string]Token)
}
