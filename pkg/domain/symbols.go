package domain

import "fmt"

// Kind selects the computation model of an automaton.
type Kind string

const (
	KindFSM Kind = "FSM"
	KindPDA Kind = "PDA"
)

// Valid reports whether k names a supported computation model.
func (k Kind) Valid() bool {
	return k == KindFSM || k == KindPDA
}

// ParseKind converts a string into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown automaton type %q", s)
	}
	return k, nil
}

const (
	// Epsilon labels a transition taken without consuming input.
	Epsilon = "ε"

	// Bottom is the sentinel at the bottom of every PDA stack.
	Bottom = "⊥"
)
