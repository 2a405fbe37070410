package domain

import "time"

// CartEventType описывает вид изменения корзины.
type CartEventType string

const (
	CartEventItemAdded       CartEventType = "cart.item_added"
	CartEventItemRemoved     CartEventType = "cart.item_removed"
	CartEventQuantityUpdated CartEventType = "cart.quantity_updated"
	CartEventCleared         CartEventType = "cart.cleared"
	CartEventSynced          CartEventType = "cart.synced"
)

// CartEvent фиксирует применённое изменение корзины.
type CartEvent struct {
	Type      CartEventType
	ProductID string
	Quantity  int
	// Items — состояние корзины после изменения.
	Items []LineItem
	// Remote — изменение прошло через удалённый API.
	Remote bool
	// FellBack — удалённый вызов не удался и применён локальный fallback.
	FellBack bool
	Occurred time.Time
}
