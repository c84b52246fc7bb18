/*
Package automaton designs and runs finite state machines (FSM) and pushdown automata (PDA).

An automaton is edited through a Designer, which enforces the structural invariants (unique
state names, symbols from the alphabet, an initial state that cannot be removed) and publishes
an immutable snapshot after every accepted edit. Membership of a word is decided by a bounded
depth-first search over the nondeterministic configuration space, with epsilon moves and, for
PDA, a stack that starts with the bottom symbol ⊥.

# Bounds

Searches never fail. Two budgets keep them finite:

  - DepthLimit caps the number of transitions on a single branch. Branches that hit it are
    dropped and the result is flagged with DepthLimitReached.
  - MaxSteps caps the configurations examined across the whole search. Exhausting it stops the
    search with MaxLimitReached.

A rejection under an exhausted budget is inconclusive, not a proof of non-membership.

# Usage

	eng, err := automaton.Open("brackets.yaml")
	if err != nil {
		log.Fatal(err)
	}
	res := eng.Execute(ctx, "(()())", true)
	fmt.Println(res.Accepted, res.Steps)

Automata can also be built in code with the pkg/dsl builder, stored with the adapters under
pkg/adapters and served over HTTP or MCP by the automaton command.
*/
package automaton
