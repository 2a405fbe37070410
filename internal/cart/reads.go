package cart

import "github.com/vladislavdragonenkov/markethub/internal/domain"

// Items возвращает копию позиций корзины.
func (s *Store) Items() []domain.LineItem {
	return s.snapshot()
}

// CartItemsWithDetails соединяет позиции с каталогом. Позиции с неизвестным товаром
// пропускаются, поэтому итог может быть меньше серверного при устаревшем каталоге.
func (s *Store) CartItemsWithDetails() []domain.LineItemDetails {
	items := s.snapshot()
	out := make([]domain.LineItemDetails, 0, len(items))
	if s.deps.Catalog == nil {
		return out
	}
	for _, item := range items {
		product, ok := s.deps.Catalog.ProductByID(item.ProductID)
		if !ok {
			continue
		}
		out = append(out, domain.Details(item, product))
	}
	return out
}

// CartTotal — сумма TotalPriceMinor по CartItemsWithDetails.
func (s *Store) CartTotal() int64 {
	var total int64
	for _, d := range s.CartItemsWithDetails() {
		total += d.TotalPriceMinor
	}
	return total
}

// CartCount — сумма количеств по всем позициям, включая неизвестные каталогу.
func (s *Store) CartCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CountUnits(s.items)
}

func (s *Store) IsInCart(productID string) bool {
	return s.ItemQuantity(productID) > 0
}

// ItemQuantity возвращает количество товара или 0.
func (s *Store) ItemQuantity(productID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}
