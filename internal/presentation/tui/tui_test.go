package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/automaton/pkg/animator"
	"github.com/aretw0/automaton/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func names(id int) string {
	return []string{"q0", "q1"}[id]
}

func TestReportMarkdown(t *testing.T) {
	res := domain.ExecutionResult{
		Accepted: true,
		Steps:    4,
		Path: []domain.TransitionStep{
			{From: 0, To: 1, Label: domain.Label{Input: "|"}},
		},
	}
	md := ReportMarkdown("|", res, names)
	assert.Contains(t, md, "**Accepted** after 4 steps.")
	assert.Contains(t, md, "## Accepting path")
	assert.Contains(t, md, "| 1 | q0 | `\\|` | q1 |")

	md = ReportMarkdown("", domain.ExecutionResult{MaxLimitReached: true, Path: []domain.TransitionStep{}}, names)
	assert.Contains(t, md, "Execution of `ε`")
	assert.Contains(t, md, "step budget ran out")
	assert.NotContains(t, md, "##")
}

func TestFramePrinter(t *testing.T) {
	p := NewFramePrinter(termenv.Ascii, "ab", names)

	line := p.Line(animator.Frame{
		Kind:  animator.FrameTransition,
		Step:  domain.TransitionStep{From: 0, To: 1, Label: domain.Label{Input: "a", Pop: domain.Bottom, Push: []string{domain.Bottom, "A"}}},
		Stack: []animator.StackCell{{Symbol: domain.Bottom, Status: animator.StackExit}, {Symbol: "A", Status: animator.StackEnter}},
	})
	assert.Equal(t, "|ab  q0 --a, ⊥ / A⊥--> q1  [⊥ A]", line)

	p.Advance()
	p.Advance()
	p.Advance()
	line = p.Line(animator.Frame{Kind: animator.FrameState, State: 1})
	assert.Equal(t, "ab|  q1", line)
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Equal(t, 6, strings.Count(buf.String(), "\n"))
}
