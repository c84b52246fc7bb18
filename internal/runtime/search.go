package runtime

import "github.com/aretw0/automaton/pkg/domain"

// configuration is one point of the search space.
type configuration struct {
	state int
	pos   int
	stack *stack
	path  []domain.TransitionStep

	// depth counts transitions taken in this branch, epsilon moves included,
	// which is what bounds epsilon cycles.
	depth uint
}

func (c *configuration) next(m move, consume, savePath bool) configuration {
	n := configuration{
		state: m.to,
		pos:   c.pos,
		stack: m.stack,
		depth: c.depth + 1,
	}
	if consume {
		n.pos++
	}
	if savePath {
		// The three-index slice forces a copy so siblings never share a backing array.
		n.path = append(c.path[:len(c.path):len(c.path)], domain.TransitionStep{From: c.state, To: m.to, Label: m.label})
	}
	return n
}

// search runs the bounded depth-first search with an explicit work stack.
//
// Per popped configuration the checks run in a fixed order: acceptance, step
// budget, depth budget, expansion. Epsilon successors are pushed before consuming
// ones, so consuming moves are explored first. That order decides which path is
// reported for nondeterministic automata and must stay stable.
func search[M mover](m M, input []string, cfg domain.ExecutionConfig, savePath bool) domain.ExecutionResult {
	work := []configuration{{state: domain.InitialStateID, stack: m.start()}}

	var (
		steps        int
		depthReached bool
		last         configuration
		epsilon      []move
		consuming    []move
	)

	for len(work) > 0 {
		c := work[len(work)-1]
		work = work[:len(work)-1]
		steps++
		last = c

		if c.pos == len(input) && m.final(c.state) {
			return newResult(true, depthReached, false, c.path, steps)
		}

		if uint(steps) > cfg.MaxSteps {
			return newResult(false, depthReached, true, c.path, steps)
		}

		if c.depth > cfg.DepthLimit {
			depthReached = true
			continue
		}

		sym := ""
		if c.pos < len(input) {
			sym = input[c.pos]
		}

		epsilon, consuming = m.moves(&c, sym, epsilon[:0], consuming[:0])
		for _, mv := range epsilon {
			work = append(work, c.next(mv, false, savePath))
		}
		for _, mv := range consuming {
			work = append(work, c.next(mv, true, savePath))
		}
	}

	return newResult(false, depthReached, false, last.path, steps)
}

func newResult(accepted, depthReached, maxReached bool, path []domain.TransitionStep, steps int) domain.ExecutionResult {
	if path == nil {
		path = []domain.TransitionStep{}
	}
	return domain.ExecutionResult{
		Accepted:          accepted,
		DepthLimitReached: depthReached,
		MaxLimitReached:   maxReached,
		Path:              path,
		Steps:             steps,
	}
}
