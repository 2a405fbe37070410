package domain

import "context"

// KeyValueStore — долговременное строковое KV-хранилище (аналог localStorage).
type KeyValueStore interface {
	// Get возвращает значение или ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete удаляет ключ; отсутствие ключа не ошибка.
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// ProductCatalog синхронно разрешает товар по идентификатору.
type ProductCatalog interface {
	ProductByID(id string) (Product, bool)
}

// CartAPI описывает удалённый REST API корзины.
// Каждый метод возвращает авторитетный список позиций с сервера.
type CartAPI interface {
	Add(ctx context.Context, token, productID string, quantity int) ([]LineItem, error)
	Remove(ctx context.Context, token, productID string) ([]LineItem, error)
	Fetch(ctx context.Context, token string) ([]LineItem, error)
}

// SessionProvider сообщает, есть ли активная сессия.
type SessionProvider interface {
	Token(ctx context.Context) (string, bool)
}

// EventPublisher публикует события изменения корзины наружу.
type EventPublisher interface {
	PublishCartEvent(ctx context.Context, event CartEvent) error
}
