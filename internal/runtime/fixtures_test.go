package runtime_test

import (
	"testing"

	"github.com/aretw0/automaton/pkg/domain"
	"github.com/aretw0/automaton/pkg/dsl"
	"github.com/stretchr/testify/require"
)

// oneStep: q0 --1--> q1 (final).
func oneStep(t *testing.T) *domain.Automaton {
	t.Helper()
	b := dsl.FSM("0", "1")
	b.Add("q0").On("q1", "1")
	b.Add("q1").Final()
	d, err := b.Build()
	require.NoError(t, err)
	return d.Snapshot()
}

// endsInOne: q0 --0,1--> q0, q0 --1--> q2 (final).
func endsInOne(t *testing.T) *domain.Automaton {
	t.Helper()
	b := dsl.FSM("0", "1")
	b.Add("q0").On("q0", "0", "1").On("q2", "1")
	b.Add("q2").Final()
	d, err := b.Build()
	require.NoError(t, err)
	return d.Snapshot()
}

// brackets accepts balanced parentheses by final state q1, reached with an
// epsilon move only when the stack is back to the bottom symbol.
func brackets(t *testing.T) *domain.Automaton {
	t.Helper()
	b := dsl.PDA("(", ")").Stack("A")
	b.Add("q0").
		Move("q0", "(", domain.Bottom, domain.Bottom, "A").
		Move("q0", "(", "A", "A", "A").
		Move("q0", ")", "A").
		Move("q1", domain.Epsilon, domain.Bottom, domain.Bottom)
	b.Add("q1").Final()
	d, err := b.Build()
	require.NoError(t, err)
	return d.Snapshot()
}

// epsilonLoop: a non-final initial state with only an epsilon self-loop.
func epsilonLoop(t *testing.T) *domain.Automaton {
	t.Helper()
	b := dsl.FSM("a")
	b.Add("q0").Epsilon("q0")
	d, err := b.Build()
	require.NoError(t, err)
	return d.Snapshot()
}
