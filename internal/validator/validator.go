// Package validator lints automata for structural smells the designer allows:
// states that can never be entered and states that can never lead to acceptance.
package validator

import (
	"fmt"
	"slices"

	"github.com/aretw0/automaton/pkg/domain"
)

// Report summarizes an automaton for reviewers and judges.
type Report struct {
	Kind          domain.Kind `json:"kind"`
	States        int         `json:"states"`
	Deterministic bool        `json:"deterministic"`

	// Unreachable lists states no path from the initial state enters.
	Unreachable []string `json:"unreachable"`

	// Dead lists reachable states from which no final state can be reached.
	Dead []string `json:"dead"`

	// UnusedSymbols lists alphabet symbols no transition reads.
	UnusedSymbols []string `json:"unused_symbols"`
}

// Analyze walks the transition graph. Stack contents are ignored, so for PDA the
// result over-approximates reachability: a state reported unreachable is truly
// unreachable, but a state reported reachable may not be.
func Analyze(a *domain.Automaton) Report {
	ids := a.IDs()
	reverse := make(map[int][]int)
	used := make(map[string]bool)
	for _, id := range ids {
		for _, e := range a.States[id].Edges {
			reverse[e.To] = append(reverse[e.To], id)
			for _, l := range e.Labels {
				used[l.Input] = true
			}
		}
	}

	forward := walk([]int{domain.InitialStateID}, func(id int) []int {
		next := make([]int, 0, len(a.States[id].Edges))
		for _, e := range a.States[id].Edges {
			next = append(next, e.To)
		}
		return next
	})
	live := walk(a.Finals(), func(id int) []int { return reverse[id] })

	r := Report{
		Kind:          a.Kind,
		States:        a.CountStates(),
		Deterministic: a.IsDeterministic(),
		Unreachable:   []string{},
		Dead:          []string{},
		UnusedSymbols: []string{},
	}
	for _, id := range ids {
		name := a.States[id].Name
		switch {
		case !forward[id]:
			r.Unreachable = append(r.Unreachable, name)
		case !live[id]:
			r.Dead = append(r.Dead, name)
		}
	}
	for _, sym := range a.Alphabet {
		if sym != domain.Epsilon && !used[sym] {
			r.UnusedSymbols = append(r.UnusedSymbols, sym)
		}
	}
	return r
}

func walk(start []int, next func(int) []int) map[int]bool {
	seen := make(map[int]bool, len(start))
	queue := slices.Clone(start)
	for _, id := range start {
		seen[id] = true
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, n := range next(id) {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return seen
}

// Issues renders the findings as human readable warnings.
func (r Report) Issues() []string {
	var issues []string
	if r.States > 0 && len(r.Dead) == r.States-len(r.Unreachable) {
		issues = append(issues, "no final state is reachable: the language is empty")
	}
	for _, name := range r.Unreachable {
		issues = append(issues, fmt.Sprintf("state %s is unreachable from the initial state", name))
	}
	for _, name := range r.Dead {
		issues = append(issues, fmt.Sprintf("state %s cannot reach a final state", name))
	}
	for _, sym := range r.UnusedSymbols {
		issues = append(issues, fmt.Sprintf("symbol %q is never read", sym))
	}
	return issues
}
