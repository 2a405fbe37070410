package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/markethub/internal/domain"
	"github.com/vladislavdragonenkov/markethub/internal/storage/memory"
)

func TestManager_LoginLogout(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	manager := NewManager(kv, nil)

	_, ok := manager.Token(ctx)
	assert.False(t, ok)

	require.NoError(t, manager.Login(ctx, "  tok-1 "))
	token, ok := manager.Token(ctx)
	require.True(t, ok)
	assert.Equal(t, "tok-1", token)

	stored, err := kv.Get(ctx, TokenStorageKey)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", stored)

	require.NoError(t, manager.Logout(ctx))
	_, ok = manager.Token(ctx)
	assert.False(t, ok)
}

func TestManager_LoginRejectsEmptyToken(t *testing.T) {
	manager := NewManager(memory.NewKVStore(), nil)

	err := manager.Login(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrSessionRequired)
}

func TestManager_EmptyStoredTokenMeansNoSession(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	require.NoError(t, kv.Set(ctx, TokenStorageKey, ""))

	_, ok := NewManager(kv, nil).Token(ctx)
	assert.False(t, ok)
}
