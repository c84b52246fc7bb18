package designer_test

import (
	"testing"

	"github.com/aretw0/automaton/pkg/designer"
	"github.com/aretw0/automaton/pkg/domain"
	"github.com/aretw0/automaton/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bracketsYAML = `
type: PDA
automaton:
  alphabet: ["(", ")"]
  stackAlphabet: ["⊥", "A"]
  initial: q0
  finals: [q1]
  states:
    q0:
      position: {x: 0, y: 0}
      transitions:
        q0:
          - {input: "(", top: "⊥", push: ["⊥", "A"]}
          - {input: "(", top: "A", push: ["A", "A"]}
          - {input: ")", top: "A"}
        q1:
          - {input: "ε", top: "⊥", push: ["⊥"]}
    q1:
      position: {x: 120, y: 0}
`

func TestFromCode(t *testing.T) {
	code, err := schema.Parse([]byte(bracketsYAML))
	require.NoError(t, err)

	d, err := designer.FromCode(code)
	require.NoError(t, err)

	a := d.Snapshot()
	assert.Equal(t, domain.KindPDA, a.Kind)
	assert.Equal(t, 2, a.CountStates())
	assert.Equal(t, []int{1}, a.Finals())
	assert.Equal(t, domain.Position{X: 120}, a.States[1].Position)
	assert.False(t, d.IsDeterministic())

	loop, ok := a.States[0].Edge(0)
	require.True(t, ok)
	assert.Len(t, loop.Labels, 3)
	assert.Equal(t, []string{domain.Bottom, "A"}, loop.Labels[0].Push)
}

func TestFromCode_NaturalIDOrder(t *testing.T) {
	code := &schema.Code{
		Type: domain.KindFSM,
		Automaton: schema.Definition{
			Alphabet: []string{"a"},
			Initial:  "s",
			Finals:   []string{"q10"},
			States: map[string]schema.StateDef{
				"s":   {Transitions: map[string][]schema.TransitionDef{"q2": {{Input: "a"}}}},
				"q10": {},
				"q2":  {Transitions: map[string][]schema.TransitionDef{"q10": {{Input: "a"}}}},
			},
		},
	}
	d, err := designer.FromCode(code)
	require.NoError(t, err)

	for name, want := range map[string]int{"s": 0, "q2": 1, "q10": 2} {
		id, ok := d.StateID(name)
		require.True(t, ok, name)
		assert.Equal(t, want, id, name)
	}
}

func TestFromCode_Errors(t *testing.T) {
	t.Run("Structural", func(t *testing.T) {
		code := &schema.Code{Type: domain.KindFSM, Automaton: schema.Definition{Initial: "q0"}}
		_, err := designer.FromCode(code)
		assert.NotEmpty(t, schema.ValidationErrors(err))
	})

	t.Run("Symbol Outside Alphabet", func(t *testing.T) {
		code := &schema.Code{
			Type: domain.KindFSM,
			Automaton: schema.Definition{
				Alphabet: []string{"a"},
				Initial:  "q0",
				States: map[string]schema.StateDef{
					"q0": {Transitions: map[string][]schema.TransitionDef{"q0": {{Input: "b"}}}},
				},
			},
		}
		_, err := designer.FromCode(code)
		assert.ErrorIs(t, err, domain.ErrSymbolNotInAlphabet)
	})
}

func TestCode_RoundTrip(t *testing.T) {
	code, err := schema.Parse([]byte(bracketsYAML))
	require.NoError(t, err)
	d, err := designer.FromCode(code)
	require.NoError(t, err)

	out := d.Code()
	assert.Equal(t, []string{"q1"}, out.Automaton.Finals)
	assert.Equal(t, "q0", out.Automaton.Initial)
	assert.ElementsMatch(t, []string{domain.Bottom, "A"}, out.Automaton.StackAlphabet)

	again, err := designer.FromCode(out)
	require.NoError(t, err)
	assert.Equal(t, d.Snapshot(), again.Snapshot())
}
