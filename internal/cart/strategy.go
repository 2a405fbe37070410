package cart

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/markethub/internal/domain"
	"github.com/vladislavdragonenkov/markethub/internal/metrics"
)

const (
	strategyLocal  = "local"
	strategyRemote = "remote"
)

// Result — итог двухфазной мутации: состояние, которое нужно применить,
// и ошибка авторитетного пути, если пришлось откатиться на локальную логику.
type Result struct {
	Items []domain.LineItem
	Err   error
	// Remote — операция шла через удалённый API.
	Remote bool
	// FellBack — удалённый вызов не удался, Items получены локальной мутацией.
	FellBack bool
}

// mutationStrategy вычисляет новое состояние корзины для add/remove.
type mutationStrategy interface {
	name() string
	add(ctx context.Context, current []domain.LineItem, productID string, quantity int) Result
	remove(ctx context.Context, current []domain.LineItem, productID string) Result
}

// localStrategy меняет только локальный список.
type localStrategy struct{}

func (localStrategy) name() string { return strategyLocal }

func (localStrategy) add(_ context.Context, current []domain.LineItem, productID string, quantity int) Result {
	return Result{Items: domain.AddItem(current, productID, quantity)}
}

func (localStrategy) remove(_ context.Context, current []domain.LineItem, productID string) Result {
	return Result{Items: domain.RemoveItem(current, productID)}
}

// remoteStrategy делает одну попытку через API; при ошибке применяет локальную мутацию
// к тому же исходному состоянию и сохраняет ошибку в Result.
type remoteStrategy struct {
	api      domain.CartAPI
	token    string
	fallback localStrategy
	metrics  *metrics.CartMetrics
	logger   *log.Entry
}

func (s remoteStrategy) name() string { return strategyRemote }

func (s remoteStrategy) add(ctx context.Context, current []domain.LineItem, productID string, quantity int) Result {
	start := time.Now()
	items, err := s.api.Add(ctx, s.token, productID, quantity)
	s.observe("add", start)
	if err == nil {
		return Result{Items: domain.NormalizeItems(items), Remote: true}
	}

	s.logger.WithError(err).WithFields(log.Fields{
		"operation":  "add",
		"product_id": productID,
		"quantity":   quantity,
	}).Warn("remote cart add failed, applying local fallback")
	return s.fellBack(s.fallback.add(ctx, current, productID, quantity), err)
}

func (s remoteStrategy) remove(ctx context.Context, current []domain.LineItem, productID string) Result {
	start := time.Now()
	items, err := s.api.Remove(ctx, s.token, productID)
	s.observe("remove", start)
	if err == nil {
		return Result{Items: domain.NormalizeItems(items), Remote: true}
	}

	s.logger.WithError(err).WithFields(log.Fields{
		"operation":  "remove",
		"product_id": productID,
	}).Warn("remote cart remove failed, applying local fallback")
	return s.fellBack(s.fallback.remove(ctx, current, productID), err)
}

func (s remoteStrategy) fellBack(res Result, err error) Result {
	res.Err = err
	res.Remote = true
	res.FellBack = true
	return res
}

func (s remoteStrategy) observe(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordRemoteDuration(op, time.Since(start))
	}
}
