/*
Package domain contains the core model of the automaton engine.

It defines the structural representation of finite-state machines (FSM) and
pushdown automata (PDA), the execution bounds and results produced by a search,
and the errors raised by invalid edits. The package is kept pure and free of
I/O, persistence or presentation concerns.

# Key Entities

  - Automaton: an immutable snapshot of states, alphabets and transitions.
  - State: a node of the automaton, identified by a small stable integer (0 is initial).
  - Label: the data carried by a transition (a symbol for FSM, an input/pop/push triple for PDA).
  - ExecutionConfig / ExecutionResult: the bounds and the outcome of a membership search.
*/
package domain
