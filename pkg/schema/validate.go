package schema

import (
	"fmt"
	"regexp"
	"slices"
	"unicode"
	"unicode/utf8"

	"facette.io/natsort"
	"github.com/aretw0/automaton/pkg/domain"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9]{1,3}$`)

// ValidName reports whether name is 1 to 3 alphanumeric characters.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// ValidSymbol reports whether sym is a single printable, non-space character other
// than the reserved epsilon and bottom symbols.
func ValidSymbol(sym string) bool {
	if utf8.RuneCountInString(sym) != 1 || sym == domain.Epsilon || sym == domain.Bottom {
		return false
	}
	r, _ := utf8.DecodeRuneInString(sym)
	return unicode.IsPrint(r) && !unicode.IsSpace(r)
}

// StateNames returns the state names with the initial state first and the rest in
// natural order ("q2" before "q10"). Designers assign ids in this order.
func StateNames(def Definition) []string {
	names := make([]string, 0, len(def.States))
	for name := range def.States {
		if name != def.Initial {
			names = append(names, name)
		}
	}
	natsort.Sort(names)
	if _, ok := def.States[def.Initial]; ok {
		names = append([]string{def.Initial}, names...)
	}
	return names
}

// TargetNames returns the transition targets of a state in natural order.
func TargetNames(state StateDef) []string {
	targets := make([]string, 0, len(state.Transitions))
	for target := range state.Transitions {
		targets = append(targets, target)
	}
	natsort.Sort(targets)
	return targets
}

// Validate checks the structure of the code and returns an *AggregateError listing
// every problem found, or nil.
func Validate(code *Code) error {
	if code == nil {
		return &AggregateError{Errors: []error{&ValidationError{Key: "automaton", Reason: "required"}}}
	}

	var errs []error
	add := func(key, reason string, value any) {
		errs = append(errs, &ValidationError{Key: key, Reason: reason, Value: value})
	}

	def := code.Automaton
	if !code.Type.Valid() {
		add("type", fmt.Sprintf("must be %q or %q", domain.KindFSM, domain.KindPDA), string(code.Type))
	}

	for _, sym := range def.Alphabet {
		if sym != domain.Epsilon && !ValidSymbol(sym) {
			add("alphabet", fmt.Sprintf("symbol %q must be a single printable character", sym), sym)
		}
	}

	if code.Type == domain.KindPDA {
		if !slices.Contains(def.StackAlphabet, domain.Bottom) {
			add("stackAlphabet", fmt.Sprintf("must contain the bottom symbol %q", domain.Bottom), nil)
		}
		for _, sym := range def.StackAlphabet {
			if sym != domain.Bottom && !ValidSymbol(sym) {
				add("stackAlphabet", fmt.Sprintf("symbol %q must be a single printable character", sym), sym)
			}
		}
	} else if len(def.StackAlphabet) > 0 {
		add("stackAlphabet", "only allowed for PDA", nil)
	}

	if len(def.States) == 0 {
		add("states", "at least one state is required", nil)
	}
	if _, ok := def.States[def.Initial]; !ok {
		add("initial", fmt.Sprintf("state %q is not defined", def.Initial), nil)
	}
	for _, name := range def.Finals {
		if _, ok := def.States[name]; !ok {
			add("finals", fmt.Sprintf("state %q is not defined", name), nil)
		}
	}

	for _, name := range StateNames(def) {
		if !ValidName(name) {
			add("states."+name, "name must be 1 to 3 alphanumeric characters", nil)
		}
		state := def.States[name]
		for _, target := range TargetNames(state) {
			key := fmt.Sprintf("states.%s.transitions.%s", name, target)
			if _, ok := def.States[target]; !ok {
				add(key, fmt.Sprintf("target state %q is not defined", target), nil)
			}
			for _, t := range state.Transitions[target] {
				switch {
				case code.Type == domain.KindFSM && !t.isSymbol():
					add(key, "FSM transitions must be plain symbols", nil)
				case code.Type == domain.KindPDA && t.Top == "":
					add(key, "PDA transitions require a stack top", nil)
				}
			}
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
