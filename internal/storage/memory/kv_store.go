// Package memory держит KV-хранилище в памяти процесса; данные не переживают перезапуск.
package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/markethub/internal/domain"
)

// kvStoreInMemory — in-memory реализация KeyValueStore для тестов и локального запуска.
type kvStoreInMemory struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewKVStore возвращает пустое in-memory хранилище.
func NewKVStore() domain.KeyValueStore {
	return &kvStoreInMemory{
		items: make(map[string]string),
	}
}

// Get возвращает значение или ErrKeyNotFound.
func (s *kvStoreInMemory) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.items[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return value, nil
}

// Set перезаписывает значение ключа.
func (s *kvStoreInMemory) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = value
	return nil
}

// Delete удаляет ключ, если он есть.
func (s *kvStoreInMemory) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}

func (s *kvStoreInMemory) Ping(context.Context) error { return nil }

func (s *kvStoreInMemory) Close() error { return nil }

var _ domain.KeyValueStore = (*kvStoreInMemory)(nil)
