package runtime

import "github.com/aretw0/automaton/pkg/domain"

// move is one successor of a configuration.
type move struct {
	to    int
	label domain.Label
	stack *stack
}

// mover supplies the kind-specific part of the search: the start stack, the
// acceptance test and the moves available from a configuration.
type mover interface {
	start() *stack
	final(state int) bool

	// moves appends the epsilon and consuming moves available from c when the next
	// input symbol is sym ("" once the input is exhausted).
	moves(c *configuration, sym string, epsilon, consuming []move) ([]move, []move)
}

// fsmMoves follows symbol-labelled transitions.
type fsmMoves struct {
	a *domain.Automaton
}

func (fsmMoves) start() *stack { return nil }

func (m fsmMoves) final(state int) bool { return m.a.States[state].Final }

func (m fsmMoves) moves(c *configuration, sym string, epsilon, consuming []move) ([]move, []move) {
	for _, e := range m.a.States[c.state].Edges {
		for _, l := range e.Labels {
			switch {
			case l.Input == domain.Epsilon:
				epsilon = append(epsilon, move{to: e.To, label: l})
			case sym != "" && l.Input == sym:
				consuming = append(consuming, move{to: e.To, label: l})
			}
		}
	}
	return epsilon, consuming
}

// pdaMoves follows transitions gated on the input symbol and the stack top.
type pdaMoves struct {
	a *domain.Automaton
}

func (pdaMoves) start() *stack { return (*stack)(nil).push(domain.Bottom) }

func (m pdaMoves) final(state int) bool { return m.a.States[state].Final }

func (m pdaMoves) moves(c *configuration, sym string, epsilon, consuming []move) ([]move, []move) {
	top := c.stack.top()
	if top == "" {
		return epsilon, consuming
	}
	for _, e := range m.a.States[c.state].Edges {
		for _, l := range e.Labels {
			if l.Pop != top {
				continue
			}
			switch {
			case l.Input == domain.Epsilon:
				epsilon = append(epsilon, move{to: e.To, label: l, stack: c.stack.pop().push(l.Push...)})
			case sym != "" && l.Input == sym:
				consuming = append(consuming, move{to: e.To, label: l, stack: c.stack.pop().push(l.Push...)})
			}
		}
	}
	return epsilon, consuming
}
