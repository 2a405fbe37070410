// Package leveldb хранит локальное состояние клиента (корзина, токен сессии)
// во встроенной базе LevelDB. Это долговременное хранилище по умолчанию для cartd и cartctl.
package leveldb

import (
	"context"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/vladislavdragonenkov/markethub/internal/domain"
)

// Store оборачивает открытую базу LevelDB.
type Store struct {
	db *leveldb.DB
	// syncWrites заставляет fsync на каждую запись (write-through корзины).
	syncWrites bool
}

// Open открывает (или создаёт) базу в каталоге path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb %s: %w", path, err)
	}
	return &Store{db: db, syncWrites: true}, nil
}

// OpenInMemory открывает базу поверх памяти; удобно в тестах.
func OpenInMemory() (*Store, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("open in-memory leveldb: %w", err)
	}
	return &Store{db: db}, nil
}

// Get возвращает значение или domain.ErrKeyNotFound.
func (s *Store) Get(_ context.Context, key string) (string, error) {
	value, err := s.db.Get([]byte(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return "", domain.ErrKeyNotFound
		}
		return "", fmt.Errorf("leveldb get %s: %w", key, err)
	}
	return string(value), nil
}

// Set записывает значение ключа.
func (s *Store) Set(_ context.Context, key, value string) error {
	if err := s.db.Put([]byte(key), []byte(value), &opt.WriteOptions{Sync: s.syncWrites}); err != nil {
		return fmt.Errorf("leveldb put %s: %w", key, err)
	}
	return nil
}

// Delete удаляет ключ; LevelDB не считает отсутствие ключа ошибкой.
func (s *Store) Delete(_ context.Context, key string) error {
	if err := s.db.Delete([]byte(key), &opt.WriteOptions{Sync: s.syncWrites}); err != nil {
		return fmt.Errorf("leveldb delete %s: %w", key, err)
	}
	return nil
}

// Ping проверяет, что база открыта.
func (s *Store) Ping(context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("leveldb store is not initialized")
	}
	if _, err := s.db.GetProperty("leveldb.num-files-at-level0"); err != nil {
		return fmt.Errorf("leveldb ping: %w", err)
	}
	return nil
}

// Close закрывает базу.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

var _ domain.KeyValueStore = (*Store)(nil)
