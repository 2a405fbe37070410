// Package cart реализует хранилище корзины покупателя: локальное состояние с write-through
// записью в KV-хранилище и синхронизацией с удалённым API при наличии сессии.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/markethub/internal/domain"
	"github.com/vladislavdragonenkov/markethub/internal/metrics"
)

const (
	opAdd    = "add"
	opRemove = "remove"
	opUpdate = "update"
	opClear  = "clear"
	opSync   = "sync"
)

// Deps — внешние коллабораторы хранилища корзины. Обязателен только Storage.
type Deps struct {
	Storage   domain.KeyValueStore
	Catalog   domain.ProductCatalog
	API       domain.CartAPI
	Session   domain.SessionProvider
	Publisher domain.EventPublisher
	Metrics   *metrics.CartMetrics
	Logger    *log.Entry
}

// Store владеет состоянием корзины. Мутации сериализуются opMu (включая удалённый вызов),
// чтение идёт под mu и не ждёт сети.
type Store struct {
	deps   Deps
	logger *log.Entry

	opMu  sync.Mutex
	mu    sync.RWMutex
	items []domain.LineItem
}

// New создаёт хранилище и поднимает сохранённую корзину из Storage.
// Отсутствующее или повреждённое состояние даёт пустую корзину.
func New(ctx context.Context, deps Deps) (*Store, error) {
	if deps.Storage == nil {
		return nil, errors.New("cart storage is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.WithField("component", "cart-store")
	}

	s := &Store{
		deps:   deps,
		logger: logger,
		items:  load(ctx, deps.Storage, logger),
	}
	s.recordSize(s.items)
	return s, nil
}

func load(ctx context.Context, kv domain.KeyValueStore, logger *log.Entry) []domain.LineItem {
	raw, err := kv.Get(ctx, domain.CartStorageKey)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			logger.WithError(err).Warn("failed to read persisted cart, starting empty")
		}
		return []domain.LineItem{}
	}

	var items []domain.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logger.WithError(err).Warn("persisted cart is not parseable, starting empty")
		return []domain.LineItem{}
	}
	return domain.NormalizeItems(items)
}

// AddToCart добавляет quantity единиц товара. При удалённой ошибке корзина всё равно
// отражает добавление, а ошибка возвращается вызывающему.
func (s *Store) AddToCart(ctx context.Context, productID string, quantity int) error {
	if productID == "" {
		return domain.ErrProductIDRequired
	}
	if quantity <= 0 {
		return domain.ErrQuantityInvalid
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	strategy := s.strategyFor(ctx)
	res := strategy.add(ctx, s.snapshot(), productID, quantity)
	return s.finish(ctx, opAdd, strategy.name(), res, domain.CartEvent{
		Type:      domain.CartEventItemAdded,
		ProductID: productID,
		Quantity:  quantity,
	})
}

// RemoveFromCart убирает позицию. Отсутствующий товар — не ошибка.
func (s *Store) RemoveFromCart(ctx context.Context, productID string) error {
	if productID == "" {
		return domain.ErrProductIDRequired
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	strategy := s.strategyFor(ctx)
	res := strategy.remove(ctx, s.snapshot(), productID)
	return s.finish(ctx, opRemove, strategy.name(), res, domain.CartEvent{
		Type:      domain.CartEventItemRemoved,
		ProductID: productID,
	})
}

// UpdateQuantity выставляет абсолютное количество; quantity <= 0 удаляет позицию.
// Для отсутствующего товара ничего не происходит.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if productID == "" {
		return domain.ErrProductIDRequired
	}
	if quantity <= 0 {
		return s.RemoveFromCart(ctx, productID)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	items, found := domain.SetItemQuantity(s.snapshot(), productID, quantity)
	if !found {
		return nil
	}
	return s.finish(ctx, opUpdate, strategyLocal, Result{Items: items}, domain.CartEvent{
		Type:      domain.CartEventQuantityUpdated,
		ProductID: productID,
		Quantity:  quantity,
	})
}

// ClearCart очищает корзину и сразу сохраняет пустое состояние.
func (s *Store) ClearCart(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	return s.finish(ctx, opClear, strategyLocal, Result{Items: []domain.LineItem{}}, domain.CartEvent{
		Type: domain.CartEventCleared,
	})
}

// Sync заменяет локальную корзину серверной, если есть сессия. Без сессии — no-op.
// При ошибке API локальное состояние не меняется.
func (s *Store) Sync(ctx context.Context) error {
	token, ok := s.remoteToken(ctx)
	if !ok {
		return nil
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	start := time.Now()
	items, err := s.deps.API.Fetch(ctx, token)
	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordRemoteDuration(opSync, time.Since(start))
	}
	if err != nil {
		s.recordOperation(opSync, strategyRemote, metrics.OutcomeError)
		return fmt.Errorf("sync cart: %w", err)
	}

	return s.finish(ctx, opSync, strategyRemote, Result{Items: domain.NormalizeItems(items), Remote: true}, domain.CartEvent{
		Type: domain.CartEventSynced,
	})
}

func (s *Store) remoteToken(ctx context.Context) (string, bool) {
	if s.deps.API == nil || s.deps.Session == nil {
		return "", false
	}
	return s.deps.Session.Token(ctx)
}

// strategyFor выбирает стратегию в момент вызова по наличию сессии.
func (s *Store) strategyFor(ctx context.Context) mutationStrategy {
	token, ok := s.remoteToken(ctx)
	if !ok {
		return localStrategy{}
	}
	return remoteStrategy{
		api:     s.deps.API,
		token:   token,
		metrics: s.deps.Metrics,
		logger:  s.logger,
	}
}

// finish применяет Result: память, запись в хранилище, метрики, событие.
func (s *Store) finish(ctx context.Context, op, strategy string, res Result, event domain.CartEvent) error {
	items := res.Items
	if items == nil {
		items = []domain.LineItem{}
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	s.recordSize(items)

	persistErr := s.persist(ctx, items)

	outcome := metrics.OutcomeOK
	switch {
	case res.FellBack:
		outcome = metrics.OutcomeFallback
	case persistErr != nil:
		outcome = metrics.OutcomeError
	}
	s.recordOperation(op, strategy, outcome)

	event.Items = domain.CloneItems(items)
	event.Remote = res.Remote
	event.FellBack = res.FellBack
	event.Occurred = time.Now().UTC()
	s.publish(ctx, event)

	if persistErr == nil {
		return res.Err
	}
	return errors.Join(res.Err, persistErr)
}

func (s *Store) persist(ctx context.Context, items []domain.LineItem) error {
	payload, err := json.Marshal(items)
	if err == nil {
		err = s.deps.Storage.Set(ctx, domain.CartStorageKey, string(payload))
	}
	if err != nil {
		s.logger.WithError(err).Error("failed to persist cart")
		if s.deps.Metrics != nil {
			s.deps.Metrics.RecordPersistFailure()
		}
		return fmt.Errorf("%w: %v", domain.ErrPersist, err)
	}
	return nil
}

func (s *Store) publish(ctx context.Context, event domain.CartEvent) {
	if s.deps.Publisher == nil {
		return
	}
	if err := s.deps.Publisher.PublishCartEvent(ctx, event); err != nil {
		s.logger.WithError(err).WithField("event_type", event.Type).Warn("failed to publish cart event")
		if s.deps.Metrics != nil {
			s.deps.Metrics.RecordPublishFailure()
		}
	}
}

func (s *Store) recordOperation(op, strategy, outcome string) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordOperation(op, strategy, outcome)
	}
}

func (s *Store) recordSize(items []domain.LineItem) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.SetCartSize(len(items), domain.CountUnits(items))
	}
}

func (s *Store) snapshot() []domain.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneItems(s.items)
}
