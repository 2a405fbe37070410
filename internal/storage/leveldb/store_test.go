package leveldb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/markethub/internal/domain"
)

func TestStore_InMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set(ctx, domain.CartStorageKey, `[{"productId":"p1","quantity":2}]`))

	value, err := store.Get(ctx, domain.CartStorageKey)
	require.NoError(t, err)
	assert.Equal(t, `[{"productId":"p1","quantity":2}]`, value)

	require.NoError(t, store.Delete(ctx, domain.CartStorageKey))
	_, err = store.Get(ctx, domain.CartStorageKey)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "markethub_token", "abc"))
	require.NoError(t, store.Close())

	reopened, err := Open(dir)
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get(ctx, "markethub_token")
	require.NoError(t, err)
	assert.Equal(t, "abc", value)
}

func TestStore_PingAfterClose(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)

	require.NoError(t, store.Ping(context.Background()))
	require.NoError(t, store.Close())
	assert.Error(t, store.Ping(context.Background()))
}
