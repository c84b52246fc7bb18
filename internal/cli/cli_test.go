package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/automaton"
	"github.com/aretw0/automaton/internal/cli"
	"github.com/aretw0/automaton/internal/config"
	"github.com/aretw0/automaton/internal/logging"
	"github.com/aretw0/automaton/pkg/adapters/file"
	"github.com/aretw0/automaton/pkg/adapters/memory"
	"github.com/aretw0/automaton/pkg/adapters/redis"
	"github.com/aretw0/automaton/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const endsInOne = `
type: FSM
automaton:
  alphabet: ["0", "1"]
  initial: q0
  finals: [q1]
  states:
    q0:
      transitions:
        q0: ["0", "1"]
        q1: ["1"]
    q1: {}
`

func newEngine(t *testing.T) *automaton.Engine {
	t.Helper()
	eng, err := automaton.Parse([]byte(endsInOne))
	require.NoError(t, err)
	return eng
}

func TestNewBackend(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		cfg := config.Default()
		cfg.Store.Kind = config.StoreMemory
		b, err := cli.NewBackend(cfg)
		require.NoError(t, err)
		defer b.Close()
		assert.IsType(t, &memory.Store{}, b.Store)
		assert.Nil(t, b.Locker)
	})

	t.Run("file", func(t *testing.T) {
		cfg := config.Default()
		cfg.Store.Path = t.TempDir()
		b, err := cli.NewBackend(cfg)
		require.NoError(t, err)
		defer b.Close()
		assert.IsType(t, &file.Store{}, b.Store)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := config.Default()
		cfg.Store.Kind = config.StoreRedis
		cfg.Redis.Addr = mr.Addr()
		cfg.Redis.Prefix = ""

		b, err := cli.NewBackend(cfg)
		require.NoError(t, err)
		defer b.Close()
		require.NotNil(t, b.Locker)

		mgr := cli.NewSessionManager(b, logging.NewNop())
		eng := newEngine(t)
		_, err = mgr.Create(context.Background(), "ends-in-one", eng.Code())
		require.NoError(t, err)
		assert.True(t, mr.Exists(redis.DefaultPrefix+"ends-in-one"))
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := config.Default()
		cfg.Store.Kind = "etcd"
		_, err := cli.NewBackend(cfg)
		assert.Error(t, err)
	})
}

func TestRunWords_JSON(t *testing.T) {
	var out bytes.Buffer
	sum, err := cli.RunWords(context.Background(), newEngine(t), []string{"01", "10", ""}, &out, cli.RunOptions{JSON: true})
	require.NoError(t, err)
	assert.Equal(t, cli.Summary{Total: 3, Accepted: 1}, sum)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)

	var first cli.WordResult
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "01", first.Input)
	assert.True(t, first.Accepted)
	assert.Equal(t, "accepted", first.Outcome)
	assert.Empty(t, first.Path)

	var last map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &last))
	assert.Equal(t, "", last["input"])
	assert.Equal(t, false, last["accepted"])
}

func TestRunWords_Report(t *testing.T) {
	var out bytes.Buffer
	rendered := 0
	opts := cli.RunOptions{
		SavePath: true,
		Render: func(md string) (string, error) {
			rendered++
			return md, nil
		},
	}
	sum, err := cli.RunWords(context.Background(), newEngine(t), []string{"11"}, &out, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Accepted)
	assert.Equal(t, 1, rendered)
	assert.Contains(t, out.String(), "q1")
}

func TestRunWords_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	sum, err := cli.RunWords(ctx, newEngine(t), []string{"1"}, &out, cli.RunOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, sum.Total)
}

func TestReadWords(t *testing.T) {
	words, err := cli.ReadWords(strings.NewReader("01\n  10 \n\n1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"01", "10", "", "1"}, words)
}

func TestAnimate(t *testing.T) {
	eng := newEngine(t)
	var out bytes.Buffer

	accepted, err := cli.Animate(context.Background(), eng, "01", &out, termenv.Ascii, time.Millisecond)
	require.NoError(t, err)
	assert.True(t, accepted)

	text := out.String()
	assert.True(t, strings.HasPrefix(text, `Replaying "01"`))
	assert.Contains(t, text, "q0 --0--> q0")
	assert.Contains(t, text, "q0 --1--> q1")
	assert.True(t, strings.HasSuffix(text, "Accepted\n"))
}

func TestAnimate_Rejected(t *testing.T) {
	var out bytes.Buffer
	accepted, err := cli.Animate(context.Background(), newEngine(t), "10", &out, termenv.Ascii, time.Millisecond)
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.Empty(t, out.String())
}

func TestAnimate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	_, err := cli.Animate(ctx, newEngine(t), "0001", &out, termenv.Ascii, time.Hour)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestParseEdit(t *testing.T) {
	_, err := cli.ParseEdit(nil)
	assert.Error(t, err)
	_, err = cli.ParseEdit([]string{"explode", "q0"})
	assert.ErrorContains(t, err, "unknown operation")
	_, err = cli.ParseEdit([]string{"rename", "q0"})
	assert.ErrorContains(t, err, "wrong number of arguments")
	_, err = cli.ParseEdit([]string{"add-state", "q2", "1"})
	assert.Error(t, err)

	e, err := cli.ParseEdit([]string{"set-transition", "q0", "q1"})
	require.NoError(t, err)
	assert.Equal(t, "set-transition", e.Op)
}

func TestEdit_Apply(t *testing.T) {
	d := newEngine(t).Designer()

	apply := func(args ...string) error {
		e, err := cli.ParseEdit(args)
		require.NoError(t, err)
		return e.Apply(d)
	}

	require.NoError(t, apply("add-state", "q2", "10", "20"))
	require.NoError(t, apply("set-transition", "q1", "q2", "0"))
	require.NoError(t, apply("final", "q2"))
	require.NoError(t, apply("rename", "q2", "end"))
	require.NoError(t, apply("move", "end", "1.5", "2"))
	assert.Equal(t, 3, d.CountStates())

	code := d.Code()
	assert.Contains(t, code.Automaton.Finals, "end")
	assert.Equal(t, &domain.Position{X: 1.5, Y: 2}, code.Automaton.States["end"].Position)

	eng := automaton.FromDesigner(d)
	assert.True(t, eng.Execute(context.Background(), "010", false).Accepted)

	require.NoError(t, apply("set-transition", "q1", "end"))
	assert.False(t, eng.Execute(context.Background(), "010", false).Accepted)

	err := apply("remove-state", "nope")
	assert.ErrorIs(t, err, domain.ErrUnknownState)
	var editErr *domain.EditError
	require.ErrorAs(t, err, &editErr)
	assert.Equal(t, "nope", editErr.Subject)

	err = apply("move", "end", "x", "1")
	assert.ErrorContains(t, err, "invalid x")
}

func TestParseLabel(t *testing.T) {
	assert.Equal(t, domain.Label{Input: "a"}, cli.ParseLabel("a"))
	assert.Equal(t, domain.Label{Input: "(", Pop: domain.Bottom, Push: []string{domain.Bottom, "A"}}, cli.ParseLabel("(/⊥/⊥,A"))
	assert.Equal(t, domain.Label{Input: ")", Pop: "A"}, cli.ParseLabel(")/A/"))
}

func TestEngineOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Execution.MaxSteps = 7

	var finished int
	hooks := domain.LifecycleHooks{OnExecuteFinish: func(context.Context, *domain.ExecutionEvent) { finished++ }}

	eng, err := automaton.Parse([]byte(endsInOne), cli.EngineOptions(cfg, logging.NewNop(), hooks)...)
	require.NoError(t, err)
	assert.Equal(t, uint(7), eng.Config().MaxSteps)

	eng.Execute(context.Background(), "1", false)
	assert.Equal(t, 1, finished)
}
