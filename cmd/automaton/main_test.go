package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const brackets = `{
  "type": "PDA",
  "automaton": {
    "alphabet": ["(", ")"],
    "stackAlphabet": ["⊥", "A"],
    "initial": "q0",
    "finals": ["q1"],
    "states": {
      "q0": {
        "transitions": {
          "q0": [
            {"input": "(", "top": "⊥", "push": ["⊥", "A"]},
            {"input": "(", "top": "A", "push": ["A", "A"]},
            {"input": ")", "top": "A", "push": []}
          ],
          "q1": [{"input": "ε", "top": "⊥", "push": ["⊥"]}]
        }
      },
      "q1": {}
    }
  }
}`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeCode(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "brackets.json")
	require.NoError(t, os.WriteFile(path, []byte(brackets), 0o644))
	return path
}

func TestRunCommand(t *testing.T) {
	code := writeCode(t)

	out, err := execute(t, "", "run", "--json", code, "(())", ")(")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"accepted":true`)
	assert.Contains(t, lines[1], `"accepted":false`)

	out, err = execute(t, "()\n(\n", "run", "--json", "--strict", code)
	assert.ErrorContains(t, err, "1 of 2 words rejected")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "", "validate", writeCode(t))
	require.NoError(t, err)
	assert.Contains(t, out, "PDA with 2 states")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("type: FSM\nautomaton:\n  alphabet: [a]\n  initial: nowhere\n  states: {}\n"), 0o644))
	_, err = execute(t, "", "validate", bad)
	assert.ErrorContains(t, err, "validation failed")
}

func TestGraphCommand(t *testing.T) {
	out, err := execute(t, "", "graph", writeCode(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph LR"))
}

func TestDesignCommands(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "automaton.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("store:\n  kind: file\n  path: "+filepath.Join(dir, "designs")+"\n"), 0o644))
	code := writeCode(t)

	_, err := execute(t, "", "--config", cfgPath, "design", "create", "brackets", code)
	require.NoError(t, err)

	_, err = execute(t, "", "--config", cfgPath, "design", "create", "brackets", code)
	assert.Error(t, err)

	out, err := execute(t, "", "--config", cfgPath, "design", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "- brackets")

	out, err = execute(t, "", "--config", cfgPath, "design", "edit", "brackets", "rename", "q1", "end")
	require.NoError(t, err)
	assert.Contains(t, out, "Applied rename")

	out, err = execute(t, "", "--config", cfgPath, "design", "show", "--format", "json", "brackets")
	require.NoError(t, err)
	assert.Contains(t, out, `"end"`)

	out, err = execute(t, "", "--config", cfgPath, "design", "run", "--json", "brackets", "()")
	require.NoError(t, err)
	assert.Contains(t, out, `"accepted":true`)

	_, err = execute(t, "", "--config", cfgPath, "design", "rm", "brackets")
	require.NoError(t, err)
	_, err = execute(t, "", "--config", cfgPath, "design", "show", "brackets")
	assert.Error(t, err)
}
