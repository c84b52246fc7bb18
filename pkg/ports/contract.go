package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/automaton/pkg/domain"
	"github.com/aretw0/automaton/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractCode(final string) *schema.Code {
	return &schema.Code{
		Type: domain.KindPDA,
		Automaton: schema.Definition{
			Alphabet:      []string{"a", "b"},
			StackAlphabet: []string{domain.Bottom, "A"},
			Initial:       "q0",
			Finals:        []string{final},
			States: map[string]schema.StateDef{
				"q0": {
					Position: &domain.Position{X: 10, Y: 20},
					Transitions: map[string][]schema.TransitionDef{
						"q0": {{Input: "a", Top: domain.Bottom, Push: []string{domain.Bottom, "A"}}},
						"q1": {{Input: domain.Epsilon, Top: domain.Bottom}},
					},
				},
				"q1": {},
			},
		},
	}
}

// RunDesignStoreContract runs a suite of tests to verify that a DesignStore
// implementation adheres to the interface contract.
func RunDesignStoreContract(t *testing.T, store DesignStore) {
	ctx := context.Background()
	id := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		code := contractCode("q1")
		require.NoError(t, store.Save(ctx, id, code), "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, code.Type, loaded.Type)
		assert.Equal(t, code.Automaton.Initial, loaded.Automaton.Initial)
		assert.Equal(t, code.Automaton.Finals, loaded.Automaton.Finals)
		assert.Equal(t, code.Automaton.States["q0"].Transitions, loaded.Automaton.States["q0"].Transitions)
		require.NotNil(t, loaded.Automaton.States["q0"].Position)
		assert.Equal(t, 20.0, loaded.Automaton.States["q0"].Position.Y)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, id, contractCode("q0")))
		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []string{"q0"}, loaded.Automaton.Finals)
	})

	t.Run("Loaded Copy Is Isolated", func(t *testing.T) {
		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		loaded.Automaton.Finals[0] = "zz"

		again, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.NotEqual(t, "zz", again.Automaton.Finals[0])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+id)
		assert.ErrorIs(t, err, domain.ErrDesignNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, id, contractCode("q1")))
		require.NoError(t, store.Delete(ctx, id), "Delete should not return error")

		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrDesignNotFound, "Load after Delete should return ErrDesignNotFound")

		assert.NoError(t, store.Delete(ctx, id), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		require.NoError(t, store.Save(ctx, id1, contractCode("q1")))
		require.NoError(t, store.Save(ctx, id2, contractCode("q1")))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
