package animator

import "github.com/aretw0/automaton/pkg/domain"

// FrameKind tells which half of a path entry a frame shows.
type FrameKind int

const (
	// FrameTransition highlights the transition being taken.
	FrameTransition FrameKind = iota
	// FrameState highlights the state the transition arrives at.
	FrameState
)

func (k FrameKind) String() string {
	if k == FrameState {
		return "state"
	}
	return "transition"
}

// StackStatus marks how a stack cell changes in a frame.
type StackStatus int

const (
	StackSteady StackStatus = iota
	StackEnter
	StackExit
)

// StackCell is one symbol of an animated PDA stack.
type StackCell struct {
	Symbol string
	Status StackStatus
}

// Frame is the data for one animation sub-step.
type Frame struct {
	Kind FrameKind

	// Index is the position of the path entry being replayed.
	Index int
	Step  domain.TransitionStep

	// State is the highlighted state: the source on transition frames and the
	// destination on state frames.
	State int

	// Stack lists the PDA stack from bottom to top. It is nil for FSM.
	Stack []StackCell
}

type subStep struct {
	frame Frame
	move  bool
}

// buildFrames expands a path into its two sub-steps per entry. PDA stack
// mutations are derived from the pop and push of each step.
func buildFrames(kind domain.Kind, path []domain.TransitionStep) []subStep {
	var stack []string
	if kind == domain.KindPDA {
		stack = []string{domain.Bottom}
	}

	out := make([]subStep, 0, 2*len(path))
	for i, step := range path {
		t := subStep{
			frame: Frame{Kind: FrameTransition, Index: i, Step: step, State: step.From},
			move:  step.Label.Input != domain.Epsilon,
		}
		s := subStep{frame: Frame{Kind: FrameState, Index: i, Step: step, State: step.To}}

		if kind == domain.KindPDA {
			cells := settled(stack)
			if n := len(cells); n > 0 {
				cells[n-1].Status = StackExit
				stack = stack[:n-1]
			}
			for _, sym := range step.Label.Push {
				cells = append(cells, StackCell{Symbol: sym, Status: StackEnter})
			}
			stack = append(stack, step.Label.Push...)
			t.frame.Stack = cells
			s.frame.Stack = settled(stack)
		}
		out = append(out, t, s)
	}
	return out
}

func settled(stack []string) []StackCell {
	cells := make([]StackCell, len(stack), len(stack)+4)
	for i, sym := range stack {
		cells[i] = StackCell{Symbol: sym}
	}
	return cells
}
