package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/markethub/internal/domain"
	"github.com/vladislavdragonenkov/markethub/internal/storage/leveldb"
	"github.com/vladislavdragonenkov/markethub/internal/storage/memory"
	"github.com/vladislavdragonenkov/markethub/internal/storage/postgres"
	"github.com/vladislavdragonenkov/markethub/internal/storage/redis"
)

// openStorage открывает KV-хранилище выбранного драйвера.
func openStorage(ctx context.Context, cfg StorageConfig, logger *log.Entry) (domain.KeyValueStore, error) {
	logger = logger.WithField("storage_driver", cfg.Driver)

	switch cfg.Driver {
	case "", StorageDriverMemory:
		logger.Info("using in-memory storage, cart will not survive restart")
		return memory.NewKVStore(), nil

	case StorageDriverLevelDB:
		store, err := leveldb.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		logger.WithField("path", cfg.Path).Info("leveldb storage opened")
		return store, nil

	case StorageDriverRedis:
		store, err := redis.Open(ctx, redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
		if err != nil {
			return nil, err
		}
		logger.WithField("addr", cfg.RedisAddr).Info("redis storage connected")
		return store, nil

	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres dsn is required")
		}
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if cfg.PostgresAutoMigrate {
			if err := store.MigrateUp(ctx, 0); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("apply postgres migrations: %w", err)
			}
			logger.Info("postgres migrations applied")
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
