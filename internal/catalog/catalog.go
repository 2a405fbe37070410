// Package catalog держит локальный снимок каталога товаров для синхронного поиска по идентификатору.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/vladislavdragonenkov/markethub/internal/domain"
)

// ProductSource загружает полный список товаров (например, remote.Client).
type ProductSource interface {
	Products(ctx context.Context) ([]domain.Product, error)
}

// Catalog — потокобезопасный снимок товаров.
type Catalog struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

// New создаёт каталог из списка товаров.
func New(products []domain.Product) *Catalog {
	c := &Catalog{}
	c.Replace(products)
	return c
}

// ProductByID возвращает товар, если он есть в снимке.
func (c *Catalog) ProductByID(id string) (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.products[id]
	return p, ok
}

// Len возвращает количество товаров в снимке.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}

// Replace целиком заменяет снимок.
func (c *Catalog) Replace(products []domain.Product) {
	next := make(map[string]domain.Product, len(products))
	for _, p := range products {
		if p.ID == "" {
			continue
		}
		next[p.ID] = p
	}

	c.mu.Lock()
	c.products = next
	c.mu.Unlock()
}

// Refresh перезагружает снимок из источника. При ошибке старый снимок остаётся.
func (c *Catalog) Refresh(ctx context.Context, src ProductSource) error {
	products, err := src.Products(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	c.Replace(products)
	return nil
}

// LoadFile читает JSON-массив товаров из файла.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var products []domain.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("decode catalog file %s: %w", path, err)
	}
	return New(products), nil
}

var _ domain.ProductCatalog = (*Catalog)(nil)
