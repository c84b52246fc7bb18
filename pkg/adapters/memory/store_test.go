package memory_test

import (
	"testing"

	"github.com/aretw0/automaton/pkg/adapters/memory"
	"github.com/aretw0/automaton/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunDesignStoreContract(t, memory.NewStore())
}
