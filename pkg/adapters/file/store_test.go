package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gridline-labs/gridline/pkg/adapters/file"
	"github.com/gridline-labs/gridline/pkg/domain"
	"github.com/gridline-labs/gridline/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, file.NewStore(t.TempDir()))
}

func TestStore_RejectsPathLikeIDs(t *testing.T) {
	store := file.NewStore(t.TempDir())
	ctx := context.Background()

	s := domain.NewSession("../escape", "start", time.Now())
	assert.Error(t, store.Save(ctx, s))

	_, err := store.Load(ctx, "")
	assert.Error(t, err)
}

func TestStore_ListSkipsTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.NewStore(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewSession("keep", "start", time.Now())))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmp-stray-123.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, ids)
}

func TestStore_ListMissingDir(t *testing.T) {
	store := file.NewStore(filepath.Join(t.TempDir(), "absent"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
