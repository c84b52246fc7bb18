// Package schema defines the serialized form of an automaton ("code") and its
// structural validation.
//
// Code is what storage, HTTP clients and editors exchange. It is keyed by state
// name and accepted as JSON or YAML:
//
//	type: FSM
//	automaton:
//	  alphabet: ["0", "1"]
//	  initial: q0
//	  finals: [q1]
//	  states:
//	    q0:
//	      transitions:
//	        q1: ["1"]
//	    q1: {}
//
// PDA transitions are objects instead of plain symbols:
//
//	q0: [{input: "(", top: "⊥", push: ["⊥", "A"]}]
//
// Validate reports every problem found at once through an AggregateError, so
// that editors can surface them together before the code reaches a designer.
package schema
