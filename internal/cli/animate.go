package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aretw0/automaton"
	"github.com/aretw0/automaton/internal/presentation/tui"
	"github.com/aretw0/automaton/pkg/animator"
	"github.com/muesli/termenv"
)

// Animate replays the accepting path of word on w, one line per sub-step, and
// blocks until the replay ends or ctx is done. It returns false at once when
// the word is rejected.
func Animate(ctx context.Context, eng *automaton.Engine, word string, w io.Writer, profile termenv.Profile, interval time.Duration) (bool, error) {
	printer := tui.NewFramePrinter(profile, word, eng.Designer().Name)
	done := make(chan struct{})

	write := func(line string) {
		fmt.Fprintln(w, line)
	}

	anim := eng.Animator(animator.WithInterval(interval))
	started := anim.Start(word, animator.Callbacks{
		OnStart: func() {
			write(fmt.Sprintf("Replaying %q", word))
		},
		SetAnimatedData: func(f animator.Frame) {
			write(printer.Line(f))
		},
		Move:     printer.Advance,
		OnFinish: func() { close(done) },
	})
	if !started {
		return false, nil
	}

	select {
	case <-done:
		write("Accepted")
		return true, nil
	case <-ctx.Done():
		anim.Stop()
		return true, ctx.Err()
	}
}
