package ports

import (
	"context"

	"github.com/aretw0/automaton/pkg/domain"
)

// Executor is the surface a judging collaborator drives: configure the search
// bounds per problem, inspect the automaton, then run test inputs.
type Executor interface {
	SetConfig(cfg domain.ExecutionConfig)
	CountStates() int
	IsDeterministic() bool
	Execute(ctx context.Context, input string, savePath bool) domain.ExecutionResult
}
