package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrProductIDRequired — операция вызвана без идентификатора товара.
	ErrProductIDRequired = errors.New("product_id is required")
	// ErrQuantityInvalid — добавление с количеством <= 0.
	ErrQuantityInvalid = errors.New("quantity must be greater than zero")
	// ErrSessionRequired — пустой токен сессии.
	ErrSessionRequired = errors.New("session token is required")
	// ErrKeyNotFound возвращается KV-хранилищем, если ключа нет.
	ErrKeyNotFound = errors.New("key not found")
	// ErrRemoteStatus — удалённый API корзины ответил не-2xx статусом.
	ErrRemoteStatus = errors.New("remote cart api returned non-success status")
	// ErrRemoteUnavailable — сетевая ошибка или невалидный ответ удалённого API.
	ErrRemoteUnavailable = errors.New("remote cart api unavailable")
	// ErrPersist — не удалось записать корзину в локальное хранилище.
	ErrPersist = errors.New("persist cart state failed")
)

// RemoteStatusError несёт код и тело неуспешного ответа удалённого API.
type RemoteStatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *RemoteStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: remote cart api status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: remote cart api status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Is позволяет сравнивать ошибку с ErrRemoteStatus через errors.Is.
func (e *RemoteStatusError) Is(target error) bool {
	return target == ErrRemoteStatus
}

// IsRemoteFailure проверяет, что ошибка пришла от удалённого API корзины.
func IsRemoteFailure(err error) bool {
	return errors.Is(err, ErrRemoteStatus) || errors.Is(err, ErrRemoteUnavailable)
}
