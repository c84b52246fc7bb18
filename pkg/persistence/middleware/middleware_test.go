package middleware_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/automaton/pkg/adapters/memory"
	"github.com/aretw0/automaton/pkg/domain"
	"github.com/aretw0/automaton/pkg/persistence/middleware"
	"github.com/aretw0/automaton/pkg/ports"
	"github.com/aretw0/automaton/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCode() *schema.Code {
	return &schema.Code{
		Type: domain.KindFSM,
		Automaton: schema.Definition{
			Alphabet: []string{"a"},
			Initial:  "q0",
			Finals:   []string{"q0"},
			States: map[string]schema.StateDef{
				"q0": {Transitions: map[string][]schema.TransitionDef{"q0": {{Input: "a"}}}},
			},
		},
	}
}

func TestMiddlewares_Contract(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	store := middleware.Wrap(memory.NewStore(),
		middleware.NewLoggingMiddleware(logger),
		middleware.NewValidationMiddleware(),
	)
	ports.RunDesignStoreContract(t, store)
}

func TestValidationMiddleware(t *testing.T) {
	inner := memory.NewStore()
	store := middleware.NewValidationMiddleware()(inner)
	ctx := context.Background()

	bad := validCode()
	bad.Automaton.Initial = "missing"
	err := store.Save(ctx, "bad", bad)
	require.Error(t, err)
	assert.NotEmpty(t, schema.ValidationErrors(err))

	_, err = inner.Load(ctx, "bad")
	assert.ErrorIs(t, err, domain.ErrDesignNotFound, "invalid code must not reach the store")

	// Written behind the middleware's back.
	require.NoError(t, inner.Save(ctx, "corrupt", bad))
	_, err = store.Load(ctx, "corrupt")
	assert.ErrorContains(t, err, "stored design corrupt is corrupt")

	require.NoError(t, store.Save(ctx, "ok", validCode()))
	loaded, err := store.Load(ctx, "ok")
	require.NoError(t, err)
	assert.Equal(t, "q0", loaded.Automaton.Initial)
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	store := middleware.NewLoggingMiddleware(logger)(memory.NewStore())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "d1", validCode()))
	_, err := store.Load(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrDesignNotFound)

	out := buf.String()
	assert.Contains(t, out, "msg=store_call op=save design=d1")
	assert.Contains(t, out, "msg=store_call op=load design=nope found=false")
	assert.NotContains(t, out, "store_call_failed")

	failing := middleware.NewLoggingMiddleware(logger)(middleware.NewValidationMiddleware()(memory.NewStore()))
	bad := validCode()
	bad.Automaton.Alphabet = nil
	require.Error(t, failing.Save(ctx, "broken", bad))
	assert.Contains(t, buf.String(), "msg=store_call_failed op=save design=broken")
}
