package runtime

// stack is a persistent PDA stack. Cells are never mutated, so branches of the
// search can share a common tail without observing each other's pushes and pops.
type stack struct {
	sym   string
	below *stack
}

func (s *stack) top() string {
	if s == nil {
		return ""
	}
	return s.sym
}

func (s *stack) pop() *stack {
	if s == nil {
		return nil
	}
	return s.below
}

// push places syms on the stack in order; the last one ends on top.
func (s *stack) push(syms ...string) *stack {
	for _, sym := range syms {
		s = &stack{sym: sym, below: s}
	}
	return s
}

// symbols lists the stack from bottom to top.
func (s *stack) symbols() []string {
	var out []string
	for cur := s; cur != nil; cur = cur.below {
		out = append(out, cur.sym)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
