package tui

import (
	"strings"

	"github.com/aretw0/automaton/pkg/animator"
	"github.com/muesli/termenv"
)

// FramePrinter renders animation frames as single terminal lines.
type FramePrinter struct {
	profile termenv.Profile
	word    []rune
	names   Names
	cursor  int
}

// NewFramePrinter creates a printer for the replay of word. Use termenv.Ascii
// to disable colours when the output is not a terminal.
func NewFramePrinter(profile termenv.Profile, word string, names Names) *FramePrinter {
	return &FramePrinter{profile: profile, word: []rune(word), names: names}
}

// Advance moves the tape cursor one symbol to the right.
func (p *FramePrinter) Advance() {
	if p.cursor < len(p.word) {
		p.cursor++
	}
}

// Line renders the tape, the highlighted state or transition and the stack.
func (p *FramePrinter) Line(f animator.Frame) string {
	var sb strings.Builder
	sb.WriteString(p.tape())
	sb.WriteString("  ")

	switch f.Kind {
	case animator.FrameTransition:
		arrow := p.names(f.Step.From) + " --" + f.Step.Label.String() + "--> " + p.names(f.Step.To)
		sb.WriteString(p.profile.String(arrow).Foreground(p.profile.Color("#fbc02d")).String())
	default:
		sb.WriteString(p.profile.String(p.names(f.State)).Foreground(p.profile.Color("#01579b")).Bold().String())
	}

	if f.Stack != nil {
		sb.WriteString("  [")
		for i, c := range f.Stack {
			if i > 0 {
				sb.WriteString(" ")
			}
			cell := p.profile.String(c.Symbol)
			switch c.Status {
			case animator.StackEnter:
				cell = cell.Foreground(p.profile.Color("#22c55e"))
			case animator.StackExit:
				cell = cell.Foreground(p.profile.Color("#ef4444")).CrossOut()
			}
			sb.WriteString(cell.String())
		}
		sb.WriteString("]")
	}
	return sb.String()
}

func (p *FramePrinter) tape() string {
	done := string(p.word[:p.cursor])
	rest := string(p.word[p.cursor:])
	return p.profile.String(done).Faint().String() + "|" + rest
}
