package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/vladislavdragonenkov/markethub/internal/domain"
)

var errRemoteDown = errors.New("remote down")

// fakeAPI держит «серверную» корзину и может имитировать отказ.
type fakeAPI struct {
	mu     sync.Mutex
	items  []domain.LineItem
	fail   error
	calls  []string
	tokens []string
}

func (f *fakeAPI) Add(_ context.Context, token, productID string, quantity int) ([]domain.LineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "add:"+productID)
	f.tokens = append(f.tokens, token)
	if f.fail != nil {
		return nil, f.fail
	}
	f.items = domain.AddItem(f.items, productID, quantity)
	return domain.CloneItems(f.items), nil
}

func (f *fakeAPI) Remove(_ context.Context, token, productID string) ([]domain.LineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "remove:"+productID)
	f.tokens = append(f.tokens, token)
	if f.fail != nil {
		return nil, f.fail
	}
	f.items = domain.RemoveItem(f.items, productID)
	return domain.CloneItems(f.items), nil
}

func (f *fakeAPI) Fetch(_ context.Context, token string) ([]domain.LineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "fetch")
	f.tokens = append(f.tokens, token)
	if f.fail != nil {
		return nil, f.fail
	}
	return domain.CloneItems(f.items), nil
}

type fakeSession struct {
	token string
}

func (f *fakeSession) Token(context.Context) (string, bool) {
	return f.token, f.token != ""
}

type recordingPublisher struct {
	events []domain.CartEvent
	err    error
}

func (p *recordingPublisher) PublishCartEvent(_ context.Context, event domain.CartEvent) error {
	p.events = append(p.events, event)
	return p.err
}

// failingKV отдаёт ошибку на запись, чтение делегирует вложенному хранилищу.
type failingKV struct {
	domain.KeyValueStore
	setErr error
}

func (f failingKV) Set(context.Context, string, string) error {
	return f.setErr
}

type mapCatalog map[string]domain.Product

func (c mapCatalog) ProductByID(id string) (domain.Product, bool) {
	p, ok := c[id]
	return p, ok
}
