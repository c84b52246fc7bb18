package domain

import (
	"errors"
	"fmt"
)

// Structural errors raised by invalid edits.
var (
	ErrDuplicateName       = errors.New("duplicate state name")
	ErrUnknownState        = errors.New("unknown state")
	ErrCannotRemoveInitial = errors.New("cannot remove the initial state")
	ErrSymbolNotInAlphabet = errors.New("symbol not in alphabet")
	ErrInvalidName         = errors.New("invalid state name")
)

// ErrInconsistentAutomaton is returned when a snapshot violates the invariants the
// designer maintains, e.g. a transition targeting a missing state.
var ErrInconsistentAutomaton = errors.New("inconsistent automaton")

// Design store errors.
var (
	ErrDesignNotFound = errors.New("design not found")
	ErrDesignExists   = errors.New("design already exists")
)

// EditError describes a rejected designer operation.
type EditError struct {
	Op      string // e.g. "add_state", "add_transition"
	Subject string // the state name, id or symbol at fault
	Err     error  // one of the structural sentinels
}

func (e *EditError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Subject, e.Err)
}

func (e *EditError) Unwrap() error {
	return e.Err
}
