package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/automaton/pkg/adapters/memory"
	"github.com/aretw0/automaton/pkg/domain"
	"github.com/aretw0/automaton/pkg/schema"
	"github.com/aretw0/automaton/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const endsInOne = `
type: FSM
automaton:
  alphabet: ["0", "1"]
  initial: q0
  finals: [q1]
  states:
    q0:
      transitions:
        q0: ["0", "1"]
        q1: ["1"]
    q1: {}
`

func uintPtr(v uint) *uint { return &v }

func TestHandleExecute(t *testing.T) {
	s := NewServer()
	ctx := context.Background()

	res, err := s.handleExecute(ctx, mcp.CallToolRequest{}, ExecuteArgs{
		Source:   Source{Code: endsInOne},
		Input:    "01",
		SavePath: true,
	})
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, "accepted", res.Outcome)
	assert.Equal(t, 2, res.States)
	assert.False(t, res.Deterministic)
	assert.Equal(t, []PathStep{{From: "q0", To: "q0", Label: "0"}, {From: "q0", To: "q1", Label: "1"}}, res.Path)

	res, err = s.handleExecute(ctx, mcp.CallToolRequest{}, ExecuteArgs{
		Source:   Source{Code: endsInOne},
		Input:    "0001",
		MaxSteps: uintPtr(2),
	})
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.True(t, res.MaxLimitReached)
	assert.Empty(t, res.Path)
}

func TestHandleExecute_BoundsCappedByServer(t *testing.T) {
	s := NewServer(WithExecutionConfig(domain.ExecutionConfig{DepthLimit: 1000, MaxSteps: 5}))

	res, err := s.handleExecute(context.Background(), mcp.CallToolRequest{}, ExecuteArgs{
		Source:     Source{Code: endsInOne},
		Input:      strings.Repeat("0", 30) + "1",
		MaxSteps:   uintPtr(1_000_000_000),
		DepthLimit: uintPtr(1_000_000_000),
	})
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.True(t, res.MaxLimitReached)
	assert.LessOrEqual(t, res.Steps, 6)
}

func TestHandleExecute_Errors(t *testing.T) {
	s := NewServer()
	ctx := context.Background()

	_, err := s.handleExecute(ctx, mcp.CallToolRequest{}, ExecuteArgs{Input: "0"})
	assert.ErrorContains(t, err, "either code or design")

	_, err = s.handleExecute(ctx, mcp.CallToolRequest{}, ExecuteArgs{Source: Source{Design: "d1"}, Input: "0"})
	assert.ErrorContains(t, err, "not available")

	_, err = s.handleExecute(ctx, mcp.CallToolRequest{}, ExecuteArgs{Source: Source{Code: "type: TM"}, Input: "0"})
	assert.Error(t, err)
}

func TestHandleExecute_StoredDesign(t *testing.T) {
	ctx := context.Background()
	sessions := session.NewManager(memory.NewStore())
	code, err := schema.Parse([]byte(endsInOne))
	require.NoError(t, err)
	_, err = sessions.Create(ctx, "d1", code)
	require.NoError(t, err)

	s := NewServer(WithSessions(sessions))
	res, err := s.handleExecute(ctx, mcp.CallToolRequest{}, ExecuteArgs{Source: Source{Design: "d1"}, Input: "11"})
	require.NoError(t, err)
	assert.True(t, res.Accepted)

	_, err = s.handleExecute(ctx, mcp.CallToolRequest{}, ExecuteArgs{Source: Source{Design: "nope"}, Input: "1"})
	assert.Error(t, err)
}

func TestHandleAnalyzeAndGraph(t *testing.T) {
	s := NewServer()
	ctx := context.Background()

	report, err := s.handleAnalyze(ctx, mcp.CallToolRequest{}, Source{Code: endsInOne})
	require.NoError(t, err)
	assert.Equal(t, 2, report.States)
	assert.False(t, report.Deterministic)
	assert.Empty(t, report.Unreachable)

	g, err := s.handleGraph(ctx, mcp.CallToolRequest{}, GraphArgs{Source: Source{Code: endsInOne}})
	require.NoError(t, err)
	assert.Contains(t, g.Mermaid, "graph LR")
	assert.Nil(t, g.Accepted)

	word := "1"
	g, err = s.handleGraph(ctx, mcp.CallToolRequest{}, GraphArgs{Source: Source{Code: endsInOne}, Input: &word})
	require.NoError(t, err)
	require.NotNil(t, g.Accepted)
	assert.True(t, *g.Accepted)
}

func TestToolsList(t *testing.T) {
	s := NewServer()

	msg := s.MCPServer().HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc": "2.0", "id": 1, "method": "tools/list"}`))
	out, err := json.Marshal(msg)
	require.NoError(t, err)

	var resp struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(out, &resp))
	var names []string
	for _, tool := range resp.Result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"execute", "analyze", "graph"}, names)
}
