package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gridline-labs/gridline/pkg/adapters/memory"
	"github.com/gridline-labs/gridline/pkg/domain"
	"github.com/gridline-labs/gridline/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, memory.NewStore())
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	s := domain.NewSession("iso", "start", time.Now())
	s.Scratch["k"] = "v"
	require.NoError(t, store.Save(ctx, s))

	s.Scratch["k"] = "mutated"
	loaded, err := store.Load(ctx, "iso")
	require.NoError(t, err)
	assert.Equal(t, "v", loaded.ScratchString("k"))
}

func TestMemorySink_Contract(t *testing.T) {
	ports.RunTranscriptSinkContract(t, memory.NewSink())
}

func TestMemorySink_Fail(t *testing.T) {
	sink := memory.NewSink()
	boom := errors.New("boom")
	sink.Fail(boom)

	err := sink.Archive(context.Background(), domain.Transcript{SessionID: "x"})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, sink.All())

	sink.Fail(nil)
	require.NoError(t, sink.Archive(context.Background(), domain.Transcript{SessionID: "x"}))
	assert.Len(t, sink.All(), 1)
}
