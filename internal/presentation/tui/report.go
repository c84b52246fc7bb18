package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/automaton/pkg/domain"
)

// Names resolves state ids to display names.
type Names func(id int) string

// ReportMarkdown describes an execution as Markdown: the verdict, the exhausted
// budgets and, when recorded, the path as a table.
func ReportMarkdown(input string, res domain.ExecutionResult, names Names) string {
	var sb strings.Builder

	shown := input
	if shown == "" {
		shown = domain.Epsilon
	}
	fmt.Fprintf(&sb, "# Execution of `%s`\n\n", shown)

	switch res.Outcome() {
	case "accepted":
		sb.WriteString("**Accepted**")
	case "max_steps":
		sb.WriteString("**Rejected**: the step budget ran out, so the search is inconclusive")
	case "depth_limit":
		sb.WriteString("**Rejected**: some branches hit the depth limit, which suggests an epsilon loop")
	default:
		sb.WriteString("**Rejected**")
	}
	fmt.Fprintf(&sb, " after %d steps.\n\n", res.Steps)

	if res.Accepted && res.DepthLimitReached {
		sb.WriteString("> Some branches were cut at the depth limit before the accepting path was found.\n\n")
	}

	if len(res.Path) == 0 {
		return sb.String()
	}

	title := "Accepting path"
	if !res.Accepted {
		title = "Last explored path"
	}
	fmt.Fprintf(&sb, "## %s\n\n", title)
	sb.WriteString("| # | From | Label | To |\n|---|------|-------|----|\n")
	for i, step := range res.Path {
		label := strings.ReplaceAll(step.Label.String(), "|", "\\|")
		fmt.Fprintf(&sb, "| %d | %s | `%s` | %s |\n", i+1, names(step.From), label, names(step.To))
	}
	return sb.String()
}
