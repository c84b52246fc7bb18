package domain

import (
	"fmt"
	"slices"
	"strings"
)

// InitialStateID is the id of the initial state. It never changes for the lifetime of an automaton.
const InitialStateID = 0

// Position is the cosmetic location of a state on an editor canvas.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Label is the data carried by a single transition.
// FSM labels only use Input. PDA labels additionally gate on Pop (the stack top)
// and replace it with Push, applied in order so the last element ends on top.
type Label struct {
	Input string   `json:"input"`
	Pop   string   `json:"top,omitempty"`
	Push  []string `json:"push,omitempty"`
}

// String renders the label the way editors usually print it ("a" or "a, Z / AZ").
func (l Label) String() string {
	if l.Pop == "" {
		return l.Input
	}
	push := Epsilon
	if len(l.Push) > 0 {
		reversed := slices.Clone(l.Push)
		slices.Reverse(reversed)
		push = strings.Join(reversed, "")
	}
	return fmt.Sprintf("%s, %s / %s", l.Input, l.Pop, push)
}

// Equal reports whether two labels carry the same data.
func (l Label) Equal(other Label) bool {
	return l.Input == other.Input && l.Pop == other.Pop && slices.Equal(l.Push, other.Push)
}

// Edge groups every label leading from one state to a single target.
type Edge struct {
	To     int
	Labels []Label
}

// State is a node of the automaton.
type State struct {
	ID       int
	Name     string
	Final    bool
	Position Position

	// Edges keeps outgoing transitions in insertion order, one entry per target.
	Edges []Edge
}

// Edge returns the labels leading to the given target.
func (s *State) Edge(to int) (Edge, bool) {
	for _, e := range s.Edges {
		if e.To == to {
			return e, true
		}
	}
	return Edge{}, false
}

func (s *State) clone() *State {
	next := *s
	next.Edges = make([]Edge, len(s.Edges))
	for i, e := range s.Edges {
		next.Edges[i] = Edge{To: e.To, Labels: cloneLabels(e.Labels)}
	}
	return &next
}

func cloneLabels(src []Label) []Label {
	out := make([]Label, len(src))
	for i, l := range src {
		out[i] = Label{Input: l.Input, Pop: l.Pop, Push: slices.Clone(l.Push)}
	}
	return out
}

// Alphabet is an ordered set of symbols.
type Alphabet []string

// NewAlphabet builds an alphabet from symbols, dropping duplicates and sorting.
func NewAlphabet(symbols ...string) Alphabet {
	out := slices.Clone(symbols)
	slices.Sort(out)
	return Alphabet(slices.Compact(out))
}

// Contains reports whether sym belongs to the alphabet.
func (a Alphabet) Contains(sym string) bool {
	_, found := slices.BinarySearch(a, sym)
	return found
}

// Automaton is a structural snapshot of an FSM or PDA.
//
// States is a dense arena indexed by state id; removed states leave a nil slot so
// ids stay stable. A snapshot handed to an executor must not be mutated; the designer
// clones before every edit.
type Automaton struct {
	Kind          Kind
	Alphabet      Alphabet
	StackAlphabet Alphabet
	States        []*State
}

// State returns the live state with the given id.
func (a *Automaton) State(id int) (*State, bool) {
	if id < 0 || id >= len(a.States) || a.States[id] == nil {
		return nil, false
	}
	return a.States[id], true
}

// Initial returns the initial state.
func (a *Automaton) Initial() *State {
	s, _ := a.State(InitialStateID)
	return s
}

// IDs returns the ids of every live state in ascending order.
func (a *Automaton) IDs() []int {
	ids := make([]int, 0, len(a.States))
	for id, s := range a.States {
		if s != nil {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// CountStates returns the number of live states.
func (a *Automaton) CountStates() int {
	n := 0
	for _, s := range a.States {
		if s != nil {
			n++
		}
	}
	return n
}

// Finals returns the ids of the final states.
func (a *Automaton) Finals() []int {
	var finals []int
	for id, s := range a.States {
		if s != nil && s.Final {
			finals = append(finals, id)
		}
	}
	return finals
}

// Clone returns a deep copy that can be edited without affecting the receiver.
func (a *Automaton) Clone() *Automaton {
	next := &Automaton{
		Kind:          a.Kind,
		Alphabet:      slices.Clone(a.Alphabet),
		StackAlphabet: slices.Clone(a.StackAlphabet),
		States:        make([]*State, len(a.States)),
	}
	for i, s := range a.States {
		if s != nil {
			next.States[i] = s.clone()
		}
	}
	return next
}

// Check verifies the structural consistency an executor relies on:
// a known kind, a live initial state, ids matching arena slots, and edges
// that only target live states.
func (a *Automaton) Check() error {
	if !a.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInconsistentAutomaton, a.Kind)
	}
	if a.Initial() == nil {
		return fmt.Errorf("%w: missing initial state", ErrInconsistentAutomaton)
	}
	for id, s := range a.States {
		if s == nil {
			continue
		}
		if s.ID != id {
			return fmt.Errorf("%w: state %q stored at slot %d has id %d", ErrInconsistentAutomaton, s.Name, id, s.ID)
		}
		for _, e := range s.Edges {
			if _, ok := a.State(e.To); !ok {
				return fmt.Errorf("%w: state %q has a transition to missing state %d", ErrInconsistentAutomaton, s.Name, e.To)
			}
			if a.Kind == KindPDA {
				for _, l := range e.Labels {
					if l.Pop == "" {
						return fmt.Errorf("%w: state %q has a PDA transition without a stack top", ErrInconsistentAutomaton, s.Name)
					}
				}
			}
		}
	}
	return nil
}

// IsDeterministic reports whether no state has an epsilon move and no state offers
// two transitions for the same symbol (FSM) or the same (input, top) pair (PDA).
func (a *Automaton) IsDeterministic() bool {
	type key struct{ input, pop string }

	for _, s := range a.States {
		if s == nil {
			continue
		}
		seen := make(map[key]struct{})
		for _, e := range s.Edges {
			for _, l := range e.Labels {
				if l.Input == Epsilon {
					return false
				}
				k := key{input: l.Input}
				if a.Kind == KindPDA {
					k.pop = l.Pop
				}
				if _, dup := seen[k]; dup {
					return false
				}
				seen[k] = struct{}{}
			}
		}
	}
	return true
}
