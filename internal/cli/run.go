package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/automaton"
	"github.com/aretw0/automaton/internal/presentation/tui"
	"github.com/aretw0/automaton/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// RunOptions configures RunWords.
type RunOptions struct {
	SavePath bool

	// JSON writes one result object per line instead of a report.
	JSON bool

	// Render turns the Markdown report into terminal output. Nil writes Markdown as is.
	Render func(string) (string, error)
}

// WordResult is the NDJSON line written for each word in JSON mode.
type WordResult struct {
	Input string `json:"input"`
	domain.ExecutionResult
	Outcome string `json:"outcome"`
}

// Summary counts the outcomes of a batch.
type Summary struct {
	Total    int
	Accepted int
}

// RunWords decides membership of every word and reports each result on w.
func RunWords(ctx context.Context, eng *automaton.Engine, words []string, w io.Writer, opts RunOptions) (Summary, error) {
	var sum Summary
	enc := json.NewEncoder(w)
	names := tui.Names(eng.Designer().Name)

	for _, word := range words {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		res := eng.Execute(ctx, word, opts.SavePath)
		sum.Total++
		if res.Accepted {
			sum.Accepted++
		}

		if opts.JSON {
			if err := enc.Encode(WordResult{Input: word, ExecutionResult: res, Outcome: res.Outcome()}); err != nil {
				return sum, err
			}
			continue
		}

		out := tui.ReportMarkdown(word, res, names)
		if opts.Render != nil {
			rendered, err := opts.Render(out)
			if err == nil {
				out = rendered
			}
		}
		if _, err := fmt.Fprintln(w, out); err != nil {
			return sum, err
		}
	}
	return sum, nil
}

// ReadWords reads one word per line. Surrounding whitespace is dropped and an
// empty line is the empty word.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		words = append(words, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read words: %w", err)
	}
	return words, nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// OutputProfile returns the colour profile for f, plain ASCII when f is not a terminal.
func OutputProfile(f *os.File) termenv.Profile {
	if !IsTerminal(f) {
		return termenv.Ascii
	}
	return termenv.NewOutput(f).EnvColorProfile()
}
