package animator_test

import (
	"sync"
	"testing"
	"time"

	"github.com/aretw0/automaton/internal/runtime"
	"github.com/aretw0/automaton/pkg/animator"
	"github.com/aretw0/automaton/pkg/domain"
	"github.com/aretw0/automaton/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu       sync.Mutex
	events   []string
	frames   []animator.Frame
	finished chan struct{}
}

func newRecorder() *recorder {
	return &recorder{finished: make(chan struct{})}
}

func (r *recorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) callbacks() animator.Callbacks {
	return animator.Callbacks{
		OnStart:  func() { r.add("start") },
		OnFinish: func() { r.add("finish"); close(r.finished) },
		SetAnimatedData: func(f animator.Frame) {
			r.mu.Lock()
			r.frames = append(r.frames, f)
			r.mu.Unlock()
			r.add(f.Kind.String())
		},
		Move: func() { r.add("move") },
	}
}

func (r *recorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.finished:
	case <-time.After(2 * time.Second):
		t.Fatal("replay did not finish")
	}
}

func executor(t *testing.T, b *dsl.Builder) *runtime.Executor {
	t.Helper()
	d, err := b.Build()
	require.NoError(t, err)
	exec, err := runtime.NewExecutor(d.Snapshot())
	require.NoError(t, err)
	return exec
}

func TestAnimator_FSM(t *testing.T) {
	b := dsl.FSM("a")
	b.Add("q0").On("q1", "a")
	b.Add("q1").Epsilon("q2")
	b.Add("q2").Final()

	anim := animator.New(executor(t, b), animator.WithInterval(time.Millisecond))
	rec := newRecorder()

	require.True(t, anim.Start("a", rec.callbacks()))
	rec.wait(t)

	assert.Equal(t, []string{
		"start",
		"transition", "move", "state",
		"transition", "state",
		"finish",
	}, rec.events)

	require.Len(t, rec.frames, 4)
	assert.Equal(t, 0, rec.frames[0].State)
	assert.Equal(t, 1, rec.frames[1].State)
	assert.Equal(t, 1, rec.frames[2].Index)
	assert.Equal(t, 2, rec.frames[3].State)
	assert.Nil(t, rec.frames[0].Stack)
	assert.False(t, anim.Running())
}

func TestAnimator_PDAStack(t *testing.T) {
	b := dsl.PDA("a", "b").Stack("A")
	b.Add("p").
		Move("p", "a", domain.Bottom, domain.Bottom, "A").
		Move("p", "b", "A").
		Move("f", domain.Epsilon, domain.Bottom, domain.Bottom)
	b.Add("f").Final()

	anim := animator.New(executor(t, b), animator.WithInterval(time.Millisecond))
	rec := newRecorder()
	require.True(t, anim.Start("ab", rec.callbacks()))
	rec.wait(t)

	require.Len(t, rec.frames, 6)
	cell := func(sym string, st animator.StackStatus) animator.StackCell {
		return animator.StackCell{Symbol: sym, Status: st}
	}

	// a, ⊥ / A⊥
	assert.Equal(t, []animator.StackCell{
		cell(domain.Bottom, animator.StackExit),
		cell(domain.Bottom, animator.StackEnter),
		cell("A", animator.StackEnter),
	}, rec.frames[0].Stack)
	assert.Equal(t, []animator.StackCell{
		cell(domain.Bottom, animator.StackSteady),
		cell("A", animator.StackSteady),
	}, rec.frames[1].Stack)

	// b, A / ε
	assert.Equal(t, []animator.StackCell{
		cell(domain.Bottom, animator.StackSteady),
		cell("A", animator.StackExit),
	}, rec.frames[2].Stack)
	assert.Equal(t, []animator.StackCell{cell(domain.Bottom, animator.StackSteady)}, rec.frames[3].Stack)

	assert.Equal(t, []animator.StackCell{cell(domain.Bottom, animator.StackSteady)}, rec.frames[5].Stack)
}

func TestAnimator_Rejected(t *testing.T) {
	b := dsl.FSM("a")
	b.Add("q0")

	anim := animator.New(executor(t, b), animator.WithInterval(time.Millisecond))
	rec := newRecorder()
	assert.False(t, anim.Start("a", rec.callbacks()))
	assert.False(t, anim.Running())
	assert.Empty(t, rec.events)
}

func TestAnimator_Stop(t *testing.T) {
	b := dsl.FSM("a")
	b.Add("q0").On("q0", "a").Final()
	anim := animator.New(executor(t, b), animator.WithInterval(time.Hour))

	rec := newRecorder()
	require.True(t, anim.Start("aaa", rec.callbacks()))
	assert.True(t, anim.Running())

	anim.Stop()
	anim.Stop()
	assert.False(t, anim.Running())
	assert.Equal(t, []string{"start"}, rec.events)
}

func TestAnimator_RestartCancelsPrevious(t *testing.T) {
	b := dsl.FSM("a")
	b.Add("q0").On("q0", "a").Final()
	exec := executor(t, b)

	anim := animator.New(exec, animator.WithInterval(20*time.Millisecond))
	first := newRecorder()
	require.True(t, anim.Start("aaaaaaaaaa", first.callbacks()))

	second := newRecorder()
	require.True(t, anim.Start("a", second.callbacks()))
	second.wait(t)

	first.mu.Lock()
	defer first.mu.Unlock()
	assert.NotContains(t, first.events, "finish")
	assert.Equal(t, []string{"start", "transition", "move", "state", "finish"}, second.events)
}
