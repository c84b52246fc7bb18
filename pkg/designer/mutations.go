package designer

import (
	"slices"
	"strconv"

	"github.com/aretw0/automaton/pkg/domain"
	"github.com/aretw0/automaton/pkg/schema"
)

// AddState adds a non-final state and returns its id. Ids are never reused.
func (d *Designer) AddState(name string, pos domain.Position) (int, error) {
	if !schema.ValidName(name) {
		return 0, &domain.EditError{Op: "add_state", Subject: name, Err: domain.ErrInvalidName}
	}
	if _, exists := d.names[name]; exists {
		return 0, &domain.EditError{Op: "add_state", Subject: name, Err: domain.ErrDuplicateName}
	}

	id := len(d.current.States)
	err := d.edit(func(a *domain.Automaton) error {
		a.States = append(a.States, &domain.State{ID: id, Name: name, Position: pos})
		return nil
	})
	if err != nil {
		return 0, err
	}
	d.names[name] = id
	return id, nil
}

// RemoveState deletes a state and every transition that targets it.
func (d *Designer) RemoveState(id int) error {
	if id == domain.InitialStateID {
		return &domain.EditError{Op: "remove_state", Subject: d.Name(id), Err: domain.ErrCannotRemoveInitial}
	}
	name, err := d.require("remove_state", id)
	if err != nil {
		return err
	}

	err = d.edit(func(a *domain.Automaton) error {
		a.States[id] = nil
		for _, s := range a.States {
			if s == nil {
				continue
			}
			s.Edges = slices.DeleteFunc(s.Edges, func(e domain.Edge) bool { return e.To == id })
		}
		return nil
	})
	if err != nil {
		return err
	}
	delete(d.names, name)
	return nil
}

// AddTransition sets the labels of the (from, to) transition, replacing any labels it had.
// Every input symbol must belong to the alphabet (or be epsilon) and, for PDA, every
// stack symbol to the stack alphabet. An empty label list removes the transition.
func (d *Designer) AddTransition(from, to int, labels []domain.Label) error {
	if _, err := d.require("add_transition", from); err != nil {
		return err
	}
	if _, err := d.require("add_transition", to); err != nil {
		return err
	}
	if err := d.checkLabels(labels); err != nil {
		return err
	}

	unique := make([]domain.Label, 0, len(labels))
	for _, l := range labels {
		if !slices.ContainsFunc(unique, l.Equal) {
			unique = append(unique, domain.Label{Input: l.Input, Pop: l.Pop, Push: slices.Clone(l.Push)})
		}
	}

	return d.edit(func(a *domain.Automaton) error {
		s := a.States[from]
		idx := slices.IndexFunc(s.Edges, func(e domain.Edge) bool { return e.To == to })
		switch {
		case len(unique) == 0 && idx >= 0:
			s.Edges = slices.Delete(s.Edges, idx, idx+1)
		case len(unique) == 0:
		case idx >= 0:
			s.Edges[idx].Labels = unique
		default:
			s.Edges = append(s.Edges, domain.Edge{To: to, Labels: unique})
		}
		return nil
	})
}

// RemoveTransition deletes every label from one state to another.
func (d *Designer) RemoveTransition(from, to int) error {
	if _, err := d.require("remove_transition", from); err != nil {
		return err
	}
	if _, err := d.require("remove_transition", to); err != nil {
		return err
	}
	return d.edit(func(a *domain.Automaton) error {
		s := a.States[from]
		s.Edges = slices.DeleteFunc(s.Edges, func(e domain.Edge) bool { return e.To == to })
		return nil
	})
}

// SwitchFinal toggles whether a state is final.
func (d *Designer) SwitchFinal(id int) error {
	if _, err := d.require("switch_final", id); err != nil {
		return err
	}
	return d.edit(func(a *domain.Automaton) error {
		a.States[id].Final = !a.States[id].Final
		return nil
	})
}

// RenameState changes the name of a state. Renaming a state to its own name is a no-op.
func (d *Designer) RenameState(id int, name string) error {
	old, err := d.require("rename_state", id)
	if err != nil {
		return err
	}
	if old == name {
		return nil
	}
	if !schema.ValidName(name) {
		return &domain.EditError{Op: "rename_state", Subject: name, Err: domain.ErrInvalidName}
	}
	if _, exists := d.names[name]; exists {
		return &domain.EditError{Op: "rename_state", Subject: name, Err: domain.ErrDuplicateName}
	}

	err = d.edit(func(a *domain.Automaton) error {
		a.States[id].Name = name
		return nil
	})
	if err != nil {
		return err
	}
	delete(d.names, old)
	d.names[name] = id
	return nil
}

// MoveState updates the cosmetic position of a state.
func (d *Designer) MoveState(id int, pos domain.Position) error {
	if _, err := d.require("move_state", id); err != nil {
		return err
	}
	return d.edit(func(a *domain.Automaton) error {
		a.States[id].Position = pos
		return nil
	})
}

func (d *Designer) require(op string, id int) (string, error) {
	s, ok := d.current.State(id)
	if !ok {
		return "", &domain.EditError{Op: op, Subject: strconv.Itoa(id), Err: domain.ErrUnknownState}
	}
	return s.Name, nil
}

func (d *Designer) checkLabels(labels []domain.Label) error {
	a := d.current
	notIn := func(sym string) error {
		return &domain.EditError{Op: "add_transition", Subject: strconv.Quote(sym), Err: domain.ErrSymbolNotInAlphabet}
	}

	for _, l := range labels {
		if l.Input != domain.Epsilon && !a.Alphabet.Contains(l.Input) {
			return notIn(l.Input)
		}
		if a.Kind == domain.KindFSM {
			if l.Pop != "" {
				return notIn(l.Pop)
			}
			if len(l.Push) > 0 {
				return notIn(l.Push[0])
			}
			continue
		}
		if !a.StackAlphabet.Contains(l.Pop) {
			return notIn(l.Pop)
		}
		for _, sym := range l.Push {
			if !a.StackAlphabet.Contains(sym) {
				return notIn(sym)
			}
		}
	}
	return nil
}
