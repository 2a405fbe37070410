// Package redis хранит корзину и токен сессии в Redis, общем для нескольких экземпляров cartd.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/vladislavdragonenkov/markethub/internal/domain"
)

// Config описывает подключение к Redis.
type Config struct {
	Addr     string
	Password string
	DB       int
	// Prefix добавляется ко всем ключам, чтобы несколько клиентов могли делить один Redis.
	Prefix string
}

// Store — KeyValueStore поверх Redis.
type Store struct {
	client *redis.Client
	prefix string
}

// Open подключается к Redis и проверяет соединение.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: 10,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}

	return NewStore(client, cfg.Prefix), nil
}

// NewStore оборачивает уже созданный клиент.
func NewStore(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(key string) string {
	return s.prefix + key
}

// Get возвращает значение или domain.ErrKeyNotFound.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrKeyNotFound
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

// Set записывает значение без TTL: корзина живёт, пока её не очистят.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete удаляет ключ.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Ping проверяет доступность Redis.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close закрывает пул соединений.
func (s *Store) Close() error {
	return s.client.Close()
}

var _ domain.KeyValueStore = (*Store)(nil)
