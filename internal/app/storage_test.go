package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/markethub/internal/domain"
)

func roundTrip(t *testing.T, kv domain.KeyValueStore) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, domain.CartStorageKey, `[{"productId":"p1","quantity":1}]`))
	value, err := kv.Get(ctx, domain.CartStorageKey)
	require.NoError(t, err)
	assert.Equal(t, `[{"productId":"p1","quantity":1}]`, value)
	require.NoError(t, kv.Ping(ctx))
}

func TestOpenStorage_Memory(t *testing.T) {
	t.Parallel()

	kv, err := openStorage(context.Background(), StorageConfig{Driver: StorageDriverMemory}, log.WithField("test", "memory-storage"))
	require.NoError(t, err)
	defer kv.Close()
	roundTrip(t, kv)
}

func TestOpenStorage_EmptyDriverIsMemory(t *testing.T) {
	t.Parallel()

	cfg := StorageConfig{}
	require.NoError(t, Config{Storage: cfg, APITimeout: time.Second}.Validate())

	kv, err := openStorage(context.Background(), cfg, log.WithField("test", "empty-driver"))
	require.NoError(t, err)
	defer kv.Close()
	roundTrip(t, kv)
}

func TestOpenStorage_LevelDB(t *testing.T) {
	t.Parallel()

	kv, err := openStorage(context.Background(), StorageConfig{
		Driver: StorageDriverLevelDB,
		Path:   filepath.Join(t.TempDir(), "cart"),
	}, log.WithField("test", "leveldb-storage"))
	require.NoError(t, err)
	defer kv.Close()
	roundTrip(t, kv)
}

func TestOpenStorage_Redis(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	kv, err := openStorage(context.Background(), StorageConfig{
		Driver:      StorageDriverRedis,
		RedisAddr:   mr.Addr(),
		RedisPrefix: "test:",
	}, log.WithField("test", "redis-storage"))
	require.NoError(t, err)
	defer kv.Close()
	roundTrip(t, kv)
	assert.True(t, mr.Exists("test:"+domain.CartStorageKey))
}

func TestOpenStorage_PostgresRequiresDSN(t *testing.T) {
	t.Parallel()

	_, err := openStorage(context.Background(), StorageConfig{
		Driver: StorageDriverPostgres,
	}, log.WithField("test", "postgres-missing-dsn"))
	require.Error(t, err)
}

func TestOpenStorage_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := openStorage(context.Background(), StorageConfig{
		Driver: "sqlite",
	}, log.WithField("test", "unsupported-driver"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage driver")
}
