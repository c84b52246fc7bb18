package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/automaton/pkg/adapters/file"
	"github.com/aretw0/automaton/pkg/domain"
	"github.com/aretw0/automaton/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.DesignStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	ports.RunDesignStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_ReadsYAML(t *testing.T) {
	dir := t.TempDir()
	doc := `type: FSM
automaton:
  alphabet: [a]
  initial: q0
  finals: [q0]
  states:
    q0:
      transitions:
        q0: [a]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "loop.yaml"), []byte(doc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	store := file.New(dir)
	ctx := context.Background()

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"loop"}, ids)

	code, err := store.Load(ctx, "loop")
	require.NoError(t, err)
	assert.Equal(t, domain.KindFSM, code.Type)

	// Saving rewrites the design as JSON and drops the YAML original.
	require.NoError(t, store.Save(ctx, "loop", code))
	_, err = os.Stat(filepath.Join(dir, "loop.yaml"))
	assert.True(t, os.IsNotExist(err))
	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"loop"}, ids)
}

func TestFileStore_RejectsUnsafeIDs(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, id := range []string{"", "../escape", "a/b", ".hidden", "x..y"} {
		_, err := store.Load(ctx, id)
		assert.Error(t, err, id)
		assert.NotErrorIs(t, err, domain.ErrDesignNotFound, id)
	}
}

func TestFileStore_ListMissingDirectory(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "absent"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
