package dsl

import "github.com/aretw0/automaton/pkg/domain"

type edge struct {
	target string
	labels []domain.Label
}

// StateBuilder provides a fluent API for configuring a state.
type StateBuilder struct {
	name     string
	final    bool
	position domain.Position
	edges    []edge
	targets  map[string]int
}

// Final marks the state as accepting.
func (s *StateBuilder) Final() *StateBuilder {
	s.final = true
	return s
}

// At sets the cosmetic position of the state.
func (s *StateBuilder) At(x, y float64) *StateBuilder {
	s.position = domain.Position{X: x, Y: y}
	return s
}

// On adds FSM transitions to target, one per symbol.
func (s *StateBuilder) On(target string, symbols ...string) *StateBuilder {
	for _, sym := range symbols {
		s.label(target, domain.Label{Input: sym})
	}
	return s
}

// Epsilon adds an FSM epsilon transition to target.
func (s *StateBuilder) Epsilon(target string) *StateBuilder {
	return s.label(target, domain.Label{Input: domain.Epsilon})
}

// Move adds a PDA transition to target: read input (or domain.Epsilon) with top on
// the stack, replace top with push. The last pushed symbol ends on top.
func (s *StateBuilder) Move(target, input, top string, push ...string) *StateBuilder {
	return s.label(target, domain.Label{Input: input, Pop: top, Push: push})
}

func (s *StateBuilder) label(target string, l domain.Label) *StateBuilder {
	idx, ok := s.targets[target]
	if !ok {
		idx = len(s.edges)
		s.targets[target] = idx
		s.edges = append(s.edges, edge{target: target})
	}
	s.edges[idx].labels = append(s.edges[idx].labels, l)
	return s
}
