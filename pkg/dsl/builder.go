package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/automaton/pkg/designer"
	"github.com/aretw0/automaton/pkg/domain"
)

// Builder manages the automaton construction.
type Builder struct {
	kind          domain.Kind
	alphabet      []string
	stackAlphabet []string
	order         []string
	states        map[string]*StateBuilder
}

// New creates a new builder for the given kind and input alphabet.
func New(kind domain.Kind, alphabet ...string) *Builder {
	return &Builder{
		kind:     kind,
		alphabet: alphabet,
		states:   make(map[string]*StateBuilder),
	}
}

// FSM is shorthand for New(domain.KindFSM, alphabet...).
func FSM(alphabet ...string) *Builder {
	return New(domain.KindFSM, alphabet...)
}

// PDA is shorthand for New(domain.KindPDA, alphabet...).
func PDA(alphabet ...string) *Builder {
	return New(domain.KindPDA, alphabet...)
}

// Stack declares the stack alphabet. The bottom symbol is always included.
func (b *Builder) Stack(symbols ...string) *Builder {
	b.stackAlphabet = append(b.stackAlphabet, symbols...)
	return b
}

// Add declares a state. If it already exists, the existing builder is returned.
func (b *Builder) Add(name string) *StateBuilder {
	if sb, ok := b.states[name]; ok {
		return sb
	}
	sb := &StateBuilder{name: name, targets: make(map[string]int)}
	b.states[name] = sb
	b.order = append(b.order, name)
	return sb
}

// Build compiles the declarations into a designer. All problems are reported together.
func (b *Builder) Build() (*designer.Designer, error) {
	if len(b.order) == 0 {
		return nil, fmt.Errorf("automaton has no states")
	}

	d, err := designer.New(b.kind, b.alphabet, b.stackAlphabet, b.order[0])
	if err != nil {
		return nil, err
	}

	var errs []error
	for _, name := range b.order[1:] {
		sb := b.states[name]
		if _, err := d.AddState(name, sb.position); err != nil {
			errs = append(errs, err)
		}
	}
	if b.states[b.order[0]].position != (domain.Position{}) {
		if err := d.MoveState(domain.InitialStateID, b.states[b.order[0]].position); err != nil {
			errs = append(errs, err)
		}
	}

	for _, name := range b.order {
		sb := b.states[name]
		from, ok := d.StateID(name)
		if !ok {
			continue
		}
		if sb.final {
			if err := d.SwitchFinal(from); err != nil {
				errs = append(errs, err)
			}
		}
		for _, e := range sb.edges {
			to, ok := d.StateID(e.target)
			if !ok {
				errs = append(errs, fmt.Errorf("state %s: transition to undeclared state %q: %w", name, e.target, domain.ErrUnknownState))
				continue
			}
			if err := d.AddTransition(from, to, e.labels); err != nil {
				errs = append(errs, fmt.Errorf("state %s: %w", name, err))
			}
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return d, nil
}
