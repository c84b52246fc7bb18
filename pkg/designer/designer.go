// Package designer builds and edits automata while preserving their structural invariants.
//
// Every mutation produces a fresh snapshot (copy-on-write): a snapshot obtained from
// Snapshot is never modified afterwards, so it can be handed to an executor while
// editing continues. A Designer itself is not safe for concurrent use.
package designer

import (
	"fmt"
	"slices"

	"github.com/aretw0/automaton/pkg/domain"
	"github.com/aretw0/automaton/pkg/schema"
)

// Designer owns the editable automaton and the name to id lookup table.
type Designer struct {
	current *domain.Automaton
	names   map[string]int
}

// New creates a designer holding a single initial state.
// For PDA the bottom symbol is always part of the stack alphabet.
func New(kind domain.Kind, alphabet, stackAlphabet []string, initialName string) (*Designer, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown automaton type %q", kind)
	}
	if !schema.ValidName(initialName) {
		return nil, &domain.EditError{Op: "new", Subject: initialName, Err: domain.ErrInvalidName}
	}
	for _, sym := range alphabet {
		if sym != domain.Epsilon && !schema.ValidSymbol(sym) {
			return nil, fmt.Errorf("invalid alphabet symbol %q", sym)
		}
	}
	for _, sym := range stackAlphabet {
		if sym != domain.Bottom && !schema.ValidSymbol(sym) {
			return nil, fmt.Errorf("invalid stack symbol %q", sym)
		}
	}

	a := &domain.Automaton{
		Kind:     kind,
		Alphabet: domain.NewAlphabet(alphabet...),
		States: []*domain.State{{
			ID:   domain.InitialStateID,
			Name: initialName,
		}},
	}
	if kind == domain.KindPDA {
		a.StackAlphabet = domain.NewAlphabet(append(slices.Clone(stackAlphabet), domain.Bottom)...)
	}

	return &Designer{
		current: a,
		names:   map[string]int{initialName: domain.InitialStateID},
	}, nil
}

// FromCode validates serialized code and builds a designer from it.
// State ids follow schema.StateNames: the initial state is 0, the rest in natural name order.
func FromCode(code *schema.Code) (*Designer, error) {
	if err := schema.Validate(code); err != nil {
		return nil, err
	}
	def := code.Automaton

	d, err := New(code.Type, def.Alphabet, def.StackAlphabet, def.Initial)
	if err != nil {
		return nil, err
	}

	names := schema.StateNames(def)
	for _, name := range names[1:] {
		var pos domain.Position
		if p := def.States[name].Position; p != nil {
			pos = *p
		}
		if _, err := d.AddState(name, pos); err != nil {
			return nil, err
		}
	}
	if p := def.States[def.Initial].Position; p != nil {
		if err := d.MoveState(domain.InitialStateID, *p); err != nil {
			return nil, err
		}
	}

	for _, name := range def.Finals {
		id := d.names[name]
		if !d.current.States[id].Final {
			if err := d.SwitchFinal(id); err != nil {
				return nil, err
			}
		}
	}

	for _, name := range names {
		state := def.States[name]
		for _, target := range schema.TargetNames(state) {
			labels := make([]domain.Label, 0, len(state.Transitions[target]))
			for _, t := range state.Transitions[target] {
				labels = append(labels, t.Label())
			}
			if err := d.AddTransition(d.names[name], d.names[target], labels); err != nil {
				return nil, fmt.Errorf("state %s: %w", name, err)
			}
		}
	}

	return d, nil
}

// Snapshot returns the current automaton. It is immutable: later edits publish a new snapshot.
func (d *Designer) Snapshot() *domain.Automaton {
	return d.current
}

// Kind returns the computation model of the automaton.
func (d *Designer) Kind() domain.Kind {
	return d.current.Kind
}

// StateID resolves a state name.
func (d *Designer) StateID(name string) (int, bool) {
	id, ok := d.names[name]
	return id, ok
}

// Name returns the name of a state, or "" when the id is unknown.
func (d *Designer) Name(id int) string {
	if s, ok := d.current.State(id); ok {
		return s.Name
	}
	return ""
}

// CountStates returns the number of states.
func (d *Designer) CountStates() int {
	return d.current.CountStates()
}

// IsDeterministic reports whether the automaton is deterministic.
func (d *Designer) IsDeterministic() bool {
	return d.current.IsDeterministic()
}

// Code serializes the current automaton.
func (d *Designer) Code() *schema.Code {
	a := d.current
	code := &schema.Code{
		Type: a.Kind,
		Automaton: schema.Definition{
			Alphabet: slices.Clone([]string(a.Alphabet)),
			States:   make(map[string]schema.StateDef, a.CountStates()),
			Initial:  a.Initial().Name,
			Finals:   []string{},
		},
	}
	if a.Kind == domain.KindPDA {
		code.Automaton.StackAlphabet = slices.Clone([]string(a.StackAlphabet))
	}

	for _, id := range a.IDs() {
		s := a.States[id]
		pos := s.Position
		def := schema.StateDef{Position: &pos}
		if len(s.Edges) > 0 {
			def.Transitions = make(map[string][]schema.TransitionDef, len(s.Edges))
			for _, e := range s.Edges {
				out := make([]schema.TransitionDef, len(e.Labels))
				for i, l := range e.Labels {
					out[i] = schema.FromLabel(l)
				}
				def.Transitions[a.States[e.To].Name] = out
			}
		}
		code.Automaton.States[s.Name] = def
		if s.Final {
			code.Automaton.Finals = append(code.Automaton.Finals, s.Name)
		}
	}
	return code
}

// edit applies fn to a private copy of the automaton and publishes it on success.
func (d *Designer) edit(fn func(a *domain.Automaton) error) error {
	next := d.current.Clone()
	if err := fn(next); err != nil {
		return err
	}
	d.current = next
	return nil
}
