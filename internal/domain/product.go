package domain

// Product — запись внешнего каталога, нужная корзине для расчёта стоимости.
// Цены хранятся в минимальных денежных единицах.
type Product struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	PriceMinor     int64  `json:"price"`
	SalePriceMinor *int64 `json:"salePrice,omitempty"`
}

// EffectivePriceMinor возвращает цену распродажи, если она задана и ниже обычной.
func (p Product) EffectivePriceMinor() int64 {
	if p.SalePriceMinor != nil && *p.SalePriceMinor < p.PriceMinor {
		return *p.SalePriceMinor
	}
	return p.PriceMinor
}

// Details соединяет позицию корзины с товаром и считает её стоимость.
func Details(item LineItem, product Product) LineItemDetails {
	return LineItemDetails{
		LineItem:        item,
		Product:         product,
		TotalPriceMinor: product.EffectivePriceMinor() * int64(item.Quantity),
	}
}
