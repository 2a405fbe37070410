// Package session хранит токен аутентифицированного пользователя в локальном KV-хранилище.
// Наличие токена переключает корзину на удалённый API.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/markethub/internal/domain"
)

// TokenStorageKey — ключ токена сессии в KV-хранилище.
const TokenStorageKey = "markethub_token"

// Manager читает и меняет токен сессии.
type Manager struct {
	kv     domain.KeyValueStore
	logger *log.Entry
}

// NewManager создаёт менеджер сессий поверх KV-хранилища.
func NewManager(kv domain.KeyValueStore, logger *log.Entry) *Manager {
	if logger == nil {
		logger = log.WithField("component", "session")
	}
	return &Manager{kv: kv, logger: logger}
}

// Login сохраняет токен.
func (m *Manager) Login(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrSessionRequired
	}
	if err := m.kv.Set(ctx, TokenStorageKey, token); err != nil {
		return fmt.Errorf("store session token: %w", err)
	}
	m.logger.Info("session started")
	return nil
}

// Logout удаляет токен. Корзина остаётся в локальном хранилище.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.kv.Delete(ctx, TokenStorageKey); err != nil {
		return fmt.Errorf("delete session token: %w", err)
	}
	m.logger.Info("session finished")
	return nil
}

// Token возвращает текущий токен. Ошибка чтения трактуется как отсутствие сессии.
func (m *Manager) Token(ctx context.Context) (string, bool) {
	token, err := m.kv.Get(ctx, TokenStorageKey)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			m.logger.WithError(err).Warn("failed to read session token")
		}
		return "", false
	}
	if token == "" {
		return "", false
	}
	return token, true
}

var _ domain.SessionProvider = (*Manager)(nil)
