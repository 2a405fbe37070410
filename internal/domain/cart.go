package domain

// CartStorageKey — ключ, под которым корзина хранится в локальном KV-хранилище.
const CartStorageKey = "markethub_cart"

// DefaultQuantity используется, когда вызывающий не указал количество.
const DefaultQuantity = 1

// LineItem представляет одну позицию корзины.
type LineItem struct {
	// ProductID — внешний идентификатор товара в каталоге.
	ProductID string `json:"productId"`
	// Quantity — количество единиц, всегда >= 1.
	Quantity int `json:"quantity"`
}

// LineItemDetails — позиция корзины, дополненная данными товара из каталога.
type LineItemDetails struct {
	LineItem
	Product         Product `json:"product"`
	TotalPriceMinor int64   `json:"totalPrice"`
}

// CloneItems возвращает независимую копию списка позиций.
func CloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

// NormalizeItems приводит внешний список (из хранилища или от сервера) к инвариантам корзины:
// пустые идентификаторы и неположительные количества отбрасываются, дубли складываются
// в первую по порядку позицию.
func NormalizeItems(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		if item.ProductID == "" || item.Quantity <= 0 {
			continue
		}
		if i, ok := index[item.ProductID]; ok {
			out[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(out)
		out = append(out, item)
	}
	return out
}

// AddItem увеличивает количество существующей позиции или добавляет новую в конец.
func AddItem(items []LineItem, productID string, quantity int) []LineItem {
	out := CloneItems(items)
	for i := range out {
		if out[i].ProductID == productID {
			out[i].Quantity += quantity
			return out
		}
	}
	return append(out, LineItem{ProductID: productID, Quantity: quantity})
}

// RemoveItem убирает позицию; отсутствующий товар не считается ошибкой.
func RemoveItem(items []LineItem, productID string) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.ProductID != productID {
			out = append(out, item)
		}
	}
	return out
}

// SetItemQuantity выставляет абсолютное количество существующей позиции.
// Второе значение false, если позиции нет (новая не создаётся).
func SetItemQuantity(items []LineItem, productID string, quantity int) ([]LineItem, bool) {
	out := CloneItems(items)
	for i := range out {
		if out[i].ProductID == productID {
			out[i].Quantity = quantity
			return out, true
		}
	}
	return out, false
}

// CountUnits суммирует количество по всем позициям.
func CountUnits(items []LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}
